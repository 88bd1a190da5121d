package aggregate

import (
	"fmt"
	"math"
)

// Checkpoint is a value that holds from Second until the next checkpoint.
type Checkpoint struct {
	Second int
	Value  float64
}

// Ledger is the append-only supply investment log of one unit type.
// It always starts with the (0, 0) sentinel and never goes below zero.
type Ledger struct {
	points []Checkpoint
}

// NewLedger returns a ledger holding only the sentinel.
func NewLedger() *Ledger {
	return &Ledger{points: []Checkpoint{{Second: 0, Value: 0}}}
}

// Record appends the previous value plus delta at second, clamped at zero.
// Over-counted decrements (a death whose birth was never seen) are absorbed.
func (l *Ledger) Record(second int, delta float64) error {
	last := l.Last()
	if second < last.Second {
		return fmt.Errorf("%w: second %d before %d", ErrOutOfOrder, second, last.Second)
	}
	l.points = append(l.points, Checkpoint{
		Second: second,
		Value:  math.Max(0, last.Value+delta),
	})
	return nil
}

// Last returns the most recent checkpoint.
func (l *Ledger) Last() Checkpoint {
	return l.points[len(l.points)-1]
}

// Len returns the number of checkpoints including the sentinel.
func (l *Ledger) Len() int {
	return len(l.points)
}

// Checkpoints returns a copy of the log.
func (l *Ledger) Checkpoints() []Checkpoint {
	return append([]Checkpoint(nil), l.points...)
}

// ExceededZero reports whether any checkpoint ever held a positive value.
// The whole log is scanned: a ledger that rose and fell back to zero still counts.
func (l *Ledger) ExceededZero() bool {
	for _, p := range l.points {
		if p.Value > 0 {
			return true
		}
	}
	return false
}

// Peak returns the highest value the ledger reached.
func (l *Ledger) Peak() float64 {
	var peak float64
	for _, p := range l.points {
		peak = math.Max(peak, p.Value)
	}
	return peak
}
