package aggregate

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/Swordopolis/sc2-replay-analyzer/internal/replay"
)

// Metric identifies one economy series sampled by resource snapshots.
type Metric int

const (
	MineralsCurrent Metric = iota
	VespeneCurrent
	MineralsCollectionRate
	VespeneCollectionRate
	MineralsUsedArmy
	VespeneUsedArmy
	MineralsUsedEconomy
	VespeneUsedEconomy
	MineralsUsedTechnology
	VespeneUsedTechnology
	ArmyValue // minerals + vespene currently invested in army
	WorkersActive
	FoodUsed
	FoodMade

	metricCount
)

var metricNames = [metricCount]string{
	MineralsCurrent:        "minerals_current",
	VespeneCurrent:         "vespene_current",
	MineralsCollectionRate: "minerals_collection_rate",
	VespeneCollectionRate:  "vespene_collection_rate",
	MineralsUsedArmy:       "minerals_used_current_army",
	VespeneUsedArmy:        "vespene_used_current_army",
	MineralsUsedEconomy:    "minerals_used_current_economy",
	VespeneUsedEconomy:     "vespene_used_current_economy",
	MineralsUsedTechnology: "minerals_used_current_technology",
	VespeneUsedTechnology:  "vespene_used_current_technology",
	ArmyValue:              "army_value",
	WorkersActive:          "workers_active_count",
	FoodUsed:               "food_used",
	FoodMade:               "food_made",
}

func (m Metric) String() string {
	if m < 0 || m >= metricCount {
		return "unknown"
	}
	return metricNames[m]
}

// Metrics lists every metric in column order.
func Metrics() []Metric {
	out := make([]Metric, metricCount)
	for i := range out {
		out[i] = Metric(i)
	}
	return out
}

// ParticipantState is everything aggregated for one participant.
// Metric series only grow together with times, so every series has len(times)
// entries and entry i belongs to times[i]. Accessors return copies.
type ParticipantState struct {
	Name    string
	Faction replay.Faction

	times   []int
	metrics [metricCount][]float64
	ledgers map[string]*Ledger
}

func newParticipantState(p replay.Participant) *ParticipantState {
	return &ParticipantState{
		Name:    p.Name,
		Faction: p.Faction,
		ledgers: make(map[string]*Ledger),
	}
}

// appendSnapshot is the only writer of times and metrics.
func (p *ParticipantState) appendSnapshot(second int, s *replay.ResourceStats) {
	values := [metricCount]float64{
		MineralsCurrent:        s.MineralsCurrent,
		VespeneCurrent:         s.VespeneCurrent,
		MineralsCollectionRate: s.MineralsCollectionRate,
		VespeneCollectionRate:  s.VespeneCollectionRate,
		MineralsUsedArmy:       s.MineralsUsedCurrentArmy,
		VespeneUsedArmy:        s.VespeneUsedCurrentArmy,
		MineralsUsedEconomy:    s.MineralsUsedCurrentEconomy,
		VespeneUsedEconomy:     s.VespeneUsedCurrentEconomy,
		MineralsUsedTechnology: s.MineralsUsedCurrentTechnology,
		VespeneUsedTechnology:  s.VespeneUsedCurrentTechnology,
		ArmyValue:              s.MineralsUsedCurrentArmy + s.VespeneUsedCurrentArmy,
		WorkersActive:          s.WorkersActiveCount,
		FoodUsed:               s.FoodUsed,
		FoodMade:               s.FoodMade,
	}
	p.times = append(p.times, second)
	for m := range p.metrics {
		p.metrics[m] = append(p.metrics[m], values[m])
	}
}

// RecordSupply applies a signed supply delta to the unit type's ledger,
// creating the ledger with its sentinel on first use.
func (p *ParticipantState) RecordSupply(unit string, second int, delta float64) error {
	l, ok := p.ledgers[unit]
	if !ok {
		l = NewLedger()
		p.ledgers[unit] = l
	}
	if err := l.Record(second, delta); err != nil {
		return fmt.Errorf("record %s supply: %w", unit, err)
	}
	return nil
}

// prune drops every ledger that never exceeded zero and returns how many went.
func (p *ParticipantState) prune() int {
	pruned := 0
	for unit, l := range p.ledgers {
		if !l.ExceededZero() {
			delete(p.ledgers, unit)
			pruned++
		}
	}
	return pruned
}

// Len returns the number of resource snapshots.
func (p *ParticipantState) Len() int {
	return len(p.times)
}

// Times returns the snapshot timestamps in game seconds.
func (p *ParticipantState) Times() []int {
	return append([]int(nil), p.times...)
}

// Metric returns the values of one metric, index-aligned with Times.
func (p *ParticipantState) Metric(m Metric) []float64 {
	if m < 0 || m >= metricCount {
		return nil
	}
	return append([]float64(nil), p.metrics[m]...)
}

// Points pairs a metric with its snapshot times.
func (p *ParticipantState) Points(m Metric) []Checkpoint {
	if m < 0 || m >= metricCount {
		return nil
	}
	out := make([]Checkpoint, len(p.times))
	for i, t := range p.times {
		out[i] = Checkpoint{Second: t, Value: p.metrics[m][i]}
	}
	return out
}

// Ledger returns a copy of the unit type's supply checkpoints.
func (p *ParticipantState) Ledger(unit string) ([]Checkpoint, bool) {
	l, ok := p.ledgers[unit]
	if !ok {
		return nil, false
	}
	return l.Checkpoints(), true
}

// PeakSupply returns the highest supply the unit type reached, 0 if untracked.
func (p *ParticipantState) PeakSupply(unit string) float64 {
	l, ok := p.ledgers[unit]
	if !ok {
		return 0
	}
	return l.Peak()
}

// UnitTypes returns the unit types with a ledger, sorted by name.
func (p *ParticipantState) UnitTypes() []string {
	units := make([]string, 0, len(p.ledgers))
	for unit := range p.ledgers {
		units = append(units, unit)
	}
	sort.Strings(units)
	return units
}

// ReplayData holds the decoded input of one replay.
// This is defined in the aggregate package to avoid import cycles.
type ReplayData struct {
	ReplayID     uuid.UUID
	PlayedAt     time.Time
	Participants []replay.Participant
	Events       []replay.Event
}

// AggregateSet is the result of ingesting one replay. It is read-only once
// returned and may be shared between goroutines.
type AggregateSet struct {
	ReplayID     uuid.UUID
	PlayedAt     time.Time
	Participants []*ParticipantState // input order

	Applied int // events routed to a handler
	Skipped int // events whose owner was unknown or whose payload was missing
	Ignored int // events of unrecognized kinds
	Pruned  int // ledgers dropped because they never exceeded zero

	byName map[string]*ParticipantState
}

// Participant looks a participant up by name.
func (s *AggregateSet) Participant(name string) (*ParticipantState, bool) {
	p, ok := s.byName[name]
	return p, ok
}

// Names returns participant names in input order.
func (s *AggregateSet) Names() []string {
	names := make([]string, len(s.Participants))
	for i, p := range s.Participants {
		names[i] = p.Name
	}
	return names
}

// SnapshotRow mirrors replay_snapshot_stats: one resource snapshot.
type SnapshotRow struct {
	ReplayID    uuid.UUID
	Participant string
	Seq         int
	Second      int
	Values      [metricCount]float64
}

// UnitSupplyRow mirrors replay_unit_supply: one ledger checkpoint.
type UnitSupplyRow struct {
	ReplayID    uuid.UUID
	Participant string
	UnitType    string
	Seq         int
	Second      int
	Supply      float64
}
