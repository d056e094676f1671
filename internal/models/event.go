package models

import "time"

// Journal event types.
const (
	EventPowerOn     = "POWER_ON"
	EventPowerOff    = "POWER_OFF"
	EventSelect      = "SELECT"
	EventBrewStarted = "BREW_STARTED"
	EventBrewDone    = "BREW_DONE"
	EventCancelled   = "CANCELLED"
	EventFault       = "FAULT"
	EventMaintenance = "MAINTENANCE"
)

// MachineEvent is a single journal entry.
type MachineEvent struct {
	EventID     string    `json:"event_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Type        string    `json:"type"`        // POWER_ON | POWER_OFF | SELECT | BREW_STARTED | BREW_DONE | CANCELLED | FAULT | MAINTENANCE
	Description string    `json:"description"` // human-readable
	Metadata    any       `json:"metadata,omitempty"`
}
