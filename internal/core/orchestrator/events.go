package orchestrator

import (
	"time"

	"focusloop/internal/core/engine"
	"focusloop/internal/core/model"
)

// EventType defines the type of orchestrator event.
type EventType string

const (
	// EventTick is emitted on every countdown second and on every
	// state transition, carrying the latest snapshot.
	EventTick EventType = "tick"
	// EventCompleted is emitted exactly once per interval that reaches
	// zero naturally.
	EventCompleted EventType = "completed"
	// EventAwaitingAck is emitted when the acknowledgment window opens.
	EventAwaitingAck EventType = "awaiting_ack"
	// EventAcknowledged is emitted when the acknowledgment window
	// closes, manually or by timeout.
	EventAcknowledged EventType = "acknowledged"
)

// Event represents an orchestrator update for observers.
type Event struct {
	Type     EventType
	Snapshot engine.Snapshot

	// Mode is the orchestrator's current mode for tick events, and the
	// interval that just finished for completion and awaiting-ack events.
	Mode model.Mode

	// NextMode is set on awaiting-ack and acknowledged events.
	NextMode model.Mode

	// Duration is the full length of the completed interval.
	Duration time.Duration

	At time.Time
}
