package series

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMergeAxesUnequalInputs(t *testing.T) {
	a := []int{0, 5, 10, 40}
	b := []int{0, 3, 10, 12, 12, 50, 60}

	got := MergeAxes(a, b)

	assert.Equal(t, []int{0, 3, 5, 10, 12, 40, 50, 60}, got)
}

func TestMergeAxesEdgeCases(t *testing.T) {
	assert.Empty(t, MergeAxes())
	assert.Empty(t, MergeAxes(nil, []int{}))
	assert.Equal(t, []int{1, 2, 3}, MergeAxes([]int{1, 1, 2, 3, 3}))
	assert.Equal(t, []int{1, 2, 3, 4}, MergeAxes([]int{4}, []int{2}, []int{1, 3}, nil))
}

func TestMergeAxesProperties(t *testing.T) {
	axes := [][]int{
		{0, 10, 20, 30, 40, 50},
		{0, 7, 7, 14, 21},
		{3, 10, 50, 99},
	}
	distinct := map[int]bool{}
	for _, axis := range axes {
		for _, s := range axis {
			distinct[s] = true
		}
	}

	got := MergeAxes(axes...)

	assert.Len(t, got, len(distinct))
	for i := 1; i < len(got); i++ {
		assert.Less(t, got[i-1], got[i])
	}
	for _, s := range got {
		assert.True(t, distinct[s], "%d not in any input", s)
	}
}

func TestLedgerAxis(t *testing.T) {
	set := ingest(t,
		commandAt(5, "Clem", "TrainMarine"),
		commandAt(8, "Clem", "TrainMarauder"),
		commandAt(12, "Clem", "TrainMarine"),
		diedAt(40, "Clem", "Marauder"),
	)
	clem, _ := set.Participant("Clem")

	assert.Equal(t, []int{0, 5, 8, 12, 40}, LedgerAxis(clem))
	assert.Equal(t, []int{0, 5, 12}, LedgerAxis(clem, "Marine"))
	assert.Equal(t, []int{0, 5, 12}, LedgerAxis(clem, "Marine", "Thor"))
}

func TestScaleConversion(t *testing.T) {
	assert.InDelta(t, 0.714, RealMinutes(60), 1e-12)
	assert.Equal(t, 0.0, RealMinutes(0))
	assert.InDeltaSlice(t, []float64{0, 0.714, 7.14}, GameToRealMinutes([]int{0, 60, 600}), 1e-12)
}
