package model

import "time"

// Session is an immutable log entry for one completed interval.
// Intervals abandoned before reaching zero are never recorded.
type Session struct {
	ID              string    `json:"id"`
	CompletedAt     time.Time `json:"completed_at"`
	Mode            Mode      `json:"mode"`
	DurationSeconds int       `json:"duration_seconds"`
}
