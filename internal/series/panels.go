package series

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/Swordopolis/sc2-replay-analyzer/internal/aggregate"
)

const realMinutesLabel = "Time (Real Minutes)"

// Line is one plotted series. Minutes and Values share an index.
type Line struct {
	Name    string    `json:"name"`
	Minutes []float64 `json:"minutes"`
	Values  []float64 `json:"values"`
	Dashed  bool      `json:"dashed,omitempty"`
	Stack   string    `json:"stack,omitempty"` // lines with the same stack are drawn cumulatively
}

// Panel is chart-ready data for one dashboard chart.
type Panel struct {
	Key    string `json:"key"`
	Title  string `json:"title"`
	XLabel string `json:"x_label"`
	YLabel string `json:"y_label"`
	Note   string `json:"note,omitempty"`
	Lines  []Line `json:"lines"`
}

// PanelPointRow mirrors replay_panel_points: one value of one line.
type PanelPointRow struct {
	ReplayID uuid.UUID
	PanelKey string
	Line     string
	Seq      int
	Minute   float64
	Value    float64
	Dashed   bool
	Stack    string
}

// BuildPanels produces every dashboard panel for an aggregated replay.
func BuildPanels(set *aggregate.AggregateSet) []Panel {
	panels := []Panel{
		CollectionRatePanel(set),
		WorkersPanel(set),
		IncomeAdvantagePanel(set),
		ResourcesAvailablePanel(set),
		ArmyValuePanel(set),
		TechValuePanel(set),
		SupplyPanel(set),
	}
	for _, p := range set.Participants {
		panels = append(panels, UnitSupplyPanel(p))
	}
	return panels
}

func newPanel(key, title, yLabel string) Panel {
	return Panel{Key: key, Title: title, XLabel: realMinutesLabel, YLabel: yLabel}
}

func line(name string, minutes, values []float64) Line {
	return Line{Name: name, Minutes: minutes, Values: values}
}

// perParticipant fills one panel with lines for every participant on the
// merged snapshot axis.
func perParticipant(panel Panel, set *aggregate.AggregateSet, lines func(p *aggregate.ParticipantState, axis []int, minutes []float64) []Line) Panel {
	axis := SnapshotAxis(set.Participants...)
	minutes := GameToRealMinutes(axis)
	for _, p := range set.Participants {
		panel.Lines = append(panel.Lines, lines(p, axis, minutes)...)
	}
	return panel
}

// CollectionRatePanel plots each participant's total, mineral and vespene income.
func CollectionRatePanel(set *aggregate.AggregateSet) Panel {
	panel := newPanel("collection_rates", "Resource Collection Rates Over Time", "Resources per Minute")
	return perParticipant(panel, set, func(p *aggregate.ParticipantState, axis []int, minutes []float64) []Line {
		minerals := Line{Name: p.Name + " - Minerals", Minutes: minutes, Values: Sum(p, axis, aggregate.MineralsCollectionRate), Dashed: true}
		vespene := Line{Name: p.Name + " - Vespene", Minutes: minutes, Values: Sum(p, axis, aggregate.VespeneCollectionRate), Dashed: true}
		total := line(p.Name+" - Total", minutes, Sum(p, axis, aggregate.MineralsCollectionRate, aggregate.VespeneCollectionRate))
		return []Line{total, minerals, vespene}
	})
}

// WorkersPanel plots active worker counts.
func WorkersPanel(set *aggregate.AggregateSet) Panel {
	panel := newPanel("workers_active", "Workers Active Over Time", "Number of Workers")
	return perParticipant(panel, set, func(p *aggregate.ParticipantState, axis []int, minutes []float64) []Line {
		return []Line{line(p.Name, minutes, Sum(p, axis, aggregate.WorkersActive))}
	})
}

// IncomeAdvantagePanel compares the total collection rate of the first two
// participants. With fewer than two the panel carries a note and no lines.
func IncomeAdvantagePanel(set *aggregate.AggregateSet) Panel {
	panel := newPanel("income_advantage", "Income Advantage Over Time", "Income Difference (Resources per Minute)")
	if len(set.Participants) < 2 {
		panel.Note = "Not enough players for income advantage"
		return panel
	}

	a, b := set.Participants[0], set.Participants[1]
	axis := SnapshotAxis(a, b)
	income := func(p *aggregate.ParticipantState) []float64 {
		return Sum(p, axis, aggregate.MineralsCollectionRate, aggregate.VespeneCollectionRate)
	}

	panel.Title = fmt.Sprintf("Income Advantage (%s - %s)", a.Name, b.Name)
	panel.Lines = []Line{line(a.Name+" advantage", GameToRealMinutes(axis), Diff(income(a), income(b)))}
	return panel
}

// ResourcesAvailablePanel plots unspent minerals and vespene.
func ResourcesAvailablePanel(set *aggregate.AggregateSet) Panel {
	panel := newPanel("resources_available", "Resources Available Over Time", "Resources")
	return perParticipant(panel, set, func(p *aggregate.ParticipantState, axis []int, minutes []float64) []Line {
		return []Line{
			line(p.Name+" - Minerals", minutes, Sum(p, axis, aggregate.MineralsCurrent)),
			line(p.Name+" - Vespene", minutes, Sum(p, axis, aggregate.VespeneCurrent)),
		}
	})
}

// ArmyValuePanel plots resources currently invested in army units.
func ArmyValuePanel(set *aggregate.AggregateSet) Panel {
	panel := newPanel("army_value", "Army Value Over Time", "Value (Minerals + Vespene)")
	return perParticipant(panel, set, func(p *aggregate.ParticipantState, axis []int, minutes []float64) []Line {
		return []Line{line(p.Name, minutes, Sum(p, axis, aggregate.ArmyValue))}
	})
}

// TechValuePanel plots resources currently invested in technology.
func TechValuePanel(set *aggregate.AggregateSet) Panel {
	panel := newPanel("tech_value", "Upgrade Value Over Time", "Value (Minerals + Vespene)")
	return perParticipant(panel, set, func(p *aggregate.ParticipantState, axis []int, minutes []float64) []Line {
		return []Line{line(p.Name, minutes, Sum(p, axis, aggregate.MineralsUsedTechnology, aggregate.VespeneUsedTechnology))}
	})
}

// SupplyPanel plots supply used against supply available.
func SupplyPanel(set *aggregate.AggregateSet) Panel {
	panel := newPanel("supply", "Supply Over Time", "Supply")
	return perParticipant(panel, set, func(p *aggregate.ParticipantState, axis []int, minutes []float64) []Line {
		return []Line{
			line(p.Name+" - Used", minutes, Sum(p, axis, aggregate.FoodUsed)),
			{Name: p.Name + " - Available", Minutes: minutes, Values: Sum(p, axis, aggregate.FoodMade), Dashed: true},
		}
	})
}

// UnitSupplyPanel stacks every surviving ledger of one participant on the
// union of their checkpoint times.
func UnitSupplyPanel(p *aggregate.ParticipantState) Panel {
	panel := newPanel("unit_supply:"+p.Name, "Unit Supply - "+p.Name, "Supply")

	units := p.UnitTypes()
	if len(units) == 0 {
		panel.Note = "No unit supply recorded"
		return panel
	}

	axis := LedgerAxis(p, units...)
	minutes := GameToRealMinutes(axis)
	for _, unit := range units {
		cps, _ := p.Ledger(unit)
		panel.Lines = append(panel.Lines, Line{
			Name:    unit,
			Minutes: minutes,
			Values:  Resample(cps, axis),
			Stack:   "supply",
		})
	}
	return panel
}

// BuildPanelPointRows flattens panels for replay_panel_points.
func BuildPanelPointRows(replayID uuid.UUID, panels []Panel) []PanelPointRow {
	var rows []PanelPointRow
	for _, panel := range panels {
		for _, l := range panel.Lines {
			for i, v := range l.Values {
				rows = append(rows, PanelPointRow{
					ReplayID: replayID,
					PanelKey: panel.Key,
					Line:     l.Name,
					Seq:      i,
					Minute:   l.Minutes[i],
					Value:    v,
					Dashed:   l.Dashed,
					Stack:    l.Stack,
				})
			}
		}
	}
	return rows
}
