package engine

import (
	"time"

	"focusloop/internal/core/model"
)

// TimerState is the execution status of the countdown. It is orthogonal
// to model.Mode: the mode persists across Idle and Paused.
type TimerState string

const (
	StateIdle    TimerState = "idle"
	StateRunning TimerState = "running"
	StatePaused  TimerState = "paused"
)

// Snapshot is a point-in-time view of the countdown.
// Remaining never exceeds Total; both are zero only when Idle.
type Snapshot struct {
	Remaining time.Duration
	Total     time.Duration
	State     TimerState
	Mode      model.Mode
}
