package replay

import (
	"encoding/json"
	"fmt"
	"io"
)

// Dump is the decoder's JSON export of a single replay.
type Dump struct {
	Participants []Participant `json:"participants"`
	Events       []Event       `json:"events"`
}

// ReadDump decodes a JSON dump. A truncated or malformed document is an error;
// event-level content is validated later, during ingestion.
func ReadDump(r io.Reader) (*Dump, error) {
	var d Dump
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return nil, fmt.Errorf("decode replay dump: %w", err)
	}
	if len(d.Participants) == 0 {
		return nil, fmt.Errorf("decode replay dump: no participants")
	}
	if err := ValidateParticipants(d.Participants); err != nil {
		return nil, fmt.Errorf("decode replay dump: %w", err)
	}
	return &d, nil
}
