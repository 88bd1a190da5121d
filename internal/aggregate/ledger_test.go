package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerRecordClampsAtZero(t *testing.T) {
	l := NewLedger()

	require.NoError(t, l.Record(5, 2))
	require.NoError(t, l.Record(9, -3))
	require.NoError(t, l.Record(12, 1))

	assert.Equal(t, []Checkpoint{{0, 0}, {5, 2}, {9, 0}, {12, 1}}, l.Checkpoints())
	assert.Equal(t, 2.0, l.Peak())
}

func TestLedgerRejectsEarlierSecond(t *testing.T) {
	l := NewLedger()
	require.NoError(t, l.Record(30, 1))

	err := l.Record(29, 1)
	assert.ErrorIs(t, err, ErrOutOfOrder)
	assert.Equal(t, 2, l.Len())

	// equal timestamps are allowed
	require.NoError(t, l.Record(30, 1))
	assert.Equal(t, Checkpoint{Second: 30, Value: 2}, l.Last())
}

func TestLedgerCheckpointsIsACopy(t *testing.T) {
	l := NewLedger()
	require.NoError(t, l.Record(1, 1))

	cps := l.Checkpoints()
	cps[1].Value = 99

	assert.Equal(t, 1.0, l.Last().Value)
}

func TestLedgerExceededZeroScansWholeLog(t *testing.T) {
	l := NewLedger()
	assert.False(t, l.ExceededZero())

	require.NoError(t, l.Record(5, 2))
	require.NoError(t, l.Record(40, -2))
	assert.Equal(t, 0.0, l.Last().Value)
	assert.True(t, l.ExceededZero())

	never := NewLedger()
	require.NoError(t, never.Record(3, -1))
	assert.False(t, never.ExceededZero())
}

func TestLedgerInvariantsUnderRandomDeltas(t *testing.T) {
	l := NewLedger()
	deltas := []float64{1, -4, 0.5, 2, -0.5, -10, 3, 6, -2}

	for i, d := range deltas {
		require.NoError(t, l.Record(i*7, d))
	}

	cps := l.Checkpoints()
	for i, cp := range cps {
		assert.GreaterOrEqual(t, cp.Value, 0.0)
		if i > 0 {
			assert.GreaterOrEqual(t, cp.Second, cps[i-1].Second)
		}
	}
}
