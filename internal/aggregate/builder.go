package aggregate

import (
	"fmt"
)

// BuildAggregates ingests one replay and stamps the result with its identity.
// workers > 1 folds participants concurrently.
func BuildAggregates(data *ReplayData, workers int) (*AggregateSet, error) {
	if data == nil {
		return nil, fmt.Errorf("build aggregates: nil replay data")
	}

	set, err := NewDispatcher(nil).IngestParallel(data.Events, data.Participants, workers)
	if err != nil {
		return nil, fmt.Errorf("ingest replay %s: %w", data.ReplayID, err)
	}
	set.ReplayID = data.ReplayID
	set.PlayedAt = data.PlayedAt

	return set, nil
}

// BuildSnapshotRows flattens every participant's resource snapshots.
func BuildSnapshotRows(set *AggregateSet) []SnapshotRow {
	var rows []SnapshotRow

	for _, p := range set.Participants {
		for i, second := range p.times {
			row := SnapshotRow{
				ReplayID:    set.ReplayID,
				Participant: p.Name,
				Seq:         i,
				Second:      second,
			}
			for m := range p.metrics {
				row.Values[m] = p.metrics[m][i]
			}
			rows = append(rows, row)
		}
	}

	return rows
}

// BuildUnitSupplyRows flattens every surviving ledger, sentinel included.
func BuildUnitSupplyRows(set *AggregateSet) []UnitSupplyRow {
	var rows []UnitSupplyRow

	for _, p := range set.Participants {
		for _, unit := range p.UnitTypes() {
			for seq, cp := range p.ledgers[unit].points {
				rows = append(rows, UnitSupplyRow{
					ReplayID:    set.ReplayID,
					Participant: p.Name,
					UnitType:    unit,
					Seq:         seq,
					Second:      cp.Second,
					Supply:      cp.Value,
				})
			}
		}
	}

	return rows
}

// ParticipantSummary is a compact per-participant digest of an AggregateSet.
type ParticipantSummary struct {
	Name       string             `json:"name"`
	Faction    string             `json:"faction"`
	Snapshots  int                `json:"snapshots"`
	LastSecond int                `json:"last_second"`
	PeakSupply map[string]float64 `json:"peak_supply"`
}

// Summarize digests every participant in input order.
func Summarize(set *AggregateSet) []ParticipantSummary {
	out := make([]ParticipantSummary, 0, len(set.Participants))
	for _, p := range set.Participants {
		s := ParticipantSummary{
			Name:       p.Name,
			Faction:    string(p.Faction),
			Snapshots:  p.Len(),
			PeakSupply: make(map[string]float64, len(p.ledgers)),
		}
		if n := len(p.times); n > 0 {
			s.LastSecond = p.times[n-1]
		}
		for unit, l := range p.ledgers {
			s.PeakSupply[unit] = l.Peak()
		}
		out = append(out, s)
	}
	return out
}
