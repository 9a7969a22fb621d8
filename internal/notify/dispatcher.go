// Package notify delivers desktop notifications for session events.
package notify

import (
	"fmt"
	"sync/atomic"

	"github.com/gen2brain/beeep"

	"focusloop/internal/core/model"
)

// Dispatcher sends desktop notifications. Delivery failures are
// swallowed; a missed notification never interrupts the session cycle.
type Dispatcher struct {
	// enabled is written from the preferences save path and read from
	// the event goroutine.
	enabled atomic.Bool
}

// NewDispatcher creates a Dispatcher.
func NewDispatcher(enabled bool) *Dispatcher {
	dispatcher := &Dispatcher{}
	dispatcher.enabled.Store(enabled)
	return dispatcher
}

// SetEnabled toggles delivery at runtime.
func (dispatcher *Dispatcher) SetEnabled(enabled bool) {
	dispatcher.enabled.Store(enabled)
}

// Completed announces a finished interval and what comes next.
func (dispatcher *Dispatcher) Completed(finished, next model.Mode) {
	if !dispatcher.enabled.Load() {
		return
	}

	var message string
	if finished == model.ModeWork {
		message = fmt.Sprintf("Work session complete. Time for a %s.", next.Label())
	} else {
		message = fmt.Sprintf("%s is over. Ready for %s.", finished.Label(), next.Label())
	}
	_ = beeep.Notify("FocusLoop", message, "")
}

// Started announces an automatically started interval.
func (dispatcher *Dispatcher) Started(mode model.Mode) {
	if !dispatcher.enabled.Load() {
		return
	}
	_ = beeep.Notify("FocusLoop", fmt.Sprintf("%s started.", mode.Label()), "")
}
