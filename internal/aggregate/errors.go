package aggregate

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedEvent marks an event stream the decoder produced incorrectly.
	ErrMalformedEvent = errors.New("malformed event")

	// ErrDuplicateParticipant is returned when two participants share a name.
	ErrDuplicateParticipant = errors.New("duplicate participant")

	// ErrOutOfOrder is returned when a checkpoint would move a ledger back in time.
	ErrOutOfOrder = errors.New("checkpoint out of order")
)

// errMissingPayload signals an event without the fields its handler needs.
// It never leaves the package: such events are counted as skipped.
var errMissingPayload = errors.New("missing event payload")

// IngestError reports the event that made ingestion fail.
type IngestError struct {
	Index  int // position in the event stream
	Second int
	Reason string
	Err    error
}

func (e *IngestError) Error() string {
	return fmt.Sprintf("event %d at second %d: %s: %v", e.Index, e.Second, e.Reason, e.Err)
}

func (e *IngestError) Unwrap() error {
	return e.Err
}
