package models

import "time"

// FaultRecord is one entry in the fault sink. Append-only, never mutated.
type FaultRecord struct {
	OccurredAt time.Time `json:"occurred_at"`
	Message    string    `json:"message"`
}
