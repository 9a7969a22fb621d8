package model

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidSettings indicates a rejected settings update.
var ErrInvalidSettings = errors.New("invalid settings")

// Settings defines editable user preferences for the session cycle.
type Settings struct {
	WorkMinutes       int
	ShortBreakMinutes int
	LongBreakMinutes  int

	// LongBreakInterval is the number of completed work sessions
	// between long breaks.
	LongBreakInterval int

	AutoStartBreaks bool
	AutoStartWork   bool
	Notifications   bool
}

// DefaultSettings returns the default session cycle for FocusLoop.
func DefaultSettings() Settings {
	return Settings{
		WorkMinutes:       25,
		ShortBreakMinutes: 5,
		LongBreakMinutes:  15,
		LongBreakInterval: 4,
		AutoStartBreaks:   false,
		AutoStartWork:     false,
		Notifications:     true,
	}
}

// Duration returns the configured countdown length for a mode.
func (settings Settings) Duration(mode Mode) time.Duration {
	switch mode {
	case ModeShortBreak:
		return time.Duration(settings.ShortBreakMinutes) * time.Minute
	case ModeLongBreak:
		return time.Duration(settings.LongBreakMinutes) * time.Minute
	default:
		return time.Duration(settings.WorkMinutes) * time.Minute
	}
}

// Validate reports whether every duration and the long break interval
// are positive. A failed update must leave the previous settings in place.
func (settings Settings) Validate() error {
	if settings.WorkMinutes <= 0 {
		return fmt.Errorf("%w: work minutes must be positive", ErrInvalidSettings)
	}
	if settings.ShortBreakMinutes <= 0 {
		return fmt.Errorf("%w: short break minutes must be positive", ErrInvalidSettings)
	}
	if settings.LongBreakMinutes <= 0 {
		return fmt.Errorf("%w: long break minutes must be positive", ErrInvalidSettings)
	}
	if settings.LongBreakInterval < 1 {
		return fmt.Errorf("%w: long break interval must be at least 1", ErrInvalidSettings)
	}
	return nil
}
