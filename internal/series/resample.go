// Package series aligns independently sampled series on a shared time axis
// and turns aggregated replay state into chart-ready lines.
package series

import (
	"github.com/Swordopolis/sc2-replay-analyzer/internal/aggregate"
)

// Resample evaluates points as a step function at every axis second: the
// value of the latest checkpoint at or before t, or 0 before the first one.
// Both points and axis must be non-decreasing. A single cursor walks points
// once over the whole axis.
func Resample(points []aggregate.Checkpoint, axis []int) []float64 {
	out := make([]float64, len(axis))
	cursor := -1

	for i, t := range axis {
		for cursor+1 < len(points) && points[cursor+1].Second <= t {
			cursor++
		}
		if cursor >= 0 {
			out[i] = points[cursor].Value
		}
	}

	return out
}

// Sum resamples several metrics of one participant on axis and adds them up.
// Every total shown on a chart (minerals + vespene and the like) goes through here.
func Sum(p *aggregate.ParticipantState, axis []int, metrics ...aggregate.Metric) []float64 {
	total := make([]float64, len(axis))
	for _, m := range metrics {
		for i, v := range Resample(p.Points(m), axis) {
			total[i] += v
		}
	}
	return total
}

// Diff returns a[i] - b[i]. Both slices must come from the same axis.
func Diff(a, b []float64) []float64 {
	out := make([]float64, len(a))
	for i := range a {
		out[i] = a[i] - b[i]
	}
	return out
}
