package series

import (
	"github.com/Swordopolis/sc2-replay-analyzer/internal/aggregate"
)

// MergeAxes merges non-decreasing timestamp sequences into one sorted axis
// without duplicates. Inputs are consumed with one cursor each; nothing is
// re-sorted.
func MergeAxes(axes ...[]int) []int {
	cursors := make([]int, len(axes))
	var out []int

	for {
		next, found := 0, false
		for k, axis := range axes {
			if c := cursors[k]; c < len(axis) && (!found || axis[c] < next) {
				next, found = axis[c], true
			}
		}
		if !found {
			return out
		}

		out = append(out, next)
		for k, axis := range axes {
			for cursors[k] < len(axis) && axis[cursors[k]] <= next {
				cursors[k]++
			}
		}
	}
}

// SnapshotAxis is the union of the participants' resource snapshot times.
func SnapshotAxis(states ...*aggregate.ParticipantState) []int {
	axes := make([][]int, 0, len(states))
	for _, p := range states {
		axes = append(axes, p.Times())
	}
	return MergeAxes(axes...)
}

// LedgerAxis is the union of checkpoint times of the given unit ledgers, or
// of every ledger the participant kept when units is empty.
func LedgerAxis(p *aggregate.ParticipantState, units ...string) []int {
	if len(units) == 0 {
		units = p.UnitTypes()
	}
	axes := make([][]int, 0, len(units))
	for _, unit := range units {
		cps, ok := p.Ledger(unit)
		if !ok {
			continue
		}
		axes = append(axes, Seconds(cps))
	}
	return MergeAxes(axes...)
}

// Seconds extracts the timestamps of a checkpoint sequence.
func Seconds(points []aggregate.Checkpoint) []int {
	out := make([]int, len(points))
	for i, p := range points {
		out[i] = p.Second
	}
	return out
}

// Checkpoints pairs an axis with values sampled on it.
func Checkpoints(axis []int, values []float64) []aggregate.Checkpoint {
	out := make([]aggregate.Checkpoint, len(axis))
	for i, t := range axis {
		out[i] = aggregate.Checkpoint{Second: t, Value: values[i]}
	}
	return out
}
