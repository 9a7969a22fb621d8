// Package orchestrator applies the session cycling policy on top of the
// countdown engine: long break cadence, the completion acknowledgment
// window, and translation of completions into recorded sessions.
package orchestrator

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"focusloop/internal/core/engine"
	"focusloop/internal/core/model"
)

// ErrTimerActive indicates a mode change requested while a countdown is
// running or paused.
var ErrTimerActive = errors.New("timer active")

// Recorder receives one session record per completed interval.
type Recorder interface {
	Append(session model.Session) error
}

// Config contains runtime options for the Orchestrator.
type Config struct {
	// TickInterval is passed through to the engine.
	TickInterval time.Duration

	// AutoStartGrace is how long after a completion the next interval
	// starts automatically when the matching auto-start flag is set.
	AutoStartGrace time.Duration

	// AckTimeout is how long the acknowledgment window stays open
	// before it expires on its own.
	AckTimeout time.Duration

	Recorder Recorder
}

// Orchestrator owns the current mode and the acknowledgment window.
// All mutating calls are safe for concurrent use; the instance is the
// lock domain.
type Orchestrator struct {
	mu             sync.Mutex
	config         Config
	settings       model.Settings
	eng            *engine.Engine
	currentMode    model.Mode
	nextMode       model.Mode
	completedWork  int
	awaitingAck    bool
	autoStartTimer *time.Timer
	ackTimer       *time.Timer
	events         []chan Event
	closed         bool
	now            func() time.Time
}

// New creates an Orchestrator and its engine. Settings must already be
// validated.
func New(settings model.Settings, config Config) *Orchestrator {
	if config.AutoStartGrace <= 0 {
		config.AutoStartGrace = time.Second
	}
	if config.AckTimeout <= 0 {
		config.AckTimeout = 10 * time.Second
	}

	orc := &Orchestrator{
		config:      config,
		settings:    settings,
		currentMode: model.ModeWork,
		nextMode:    model.ModeWork,
		now:         time.Now,
	}
	orc.eng = engine.New(settings, engine.Config{
		TickInterval: config.TickInterval,
		OnTick:       orc.handleTick,
		OnComplete:   orc.handleComplete,
	})
	return orc
}

// Subscribe registers a new observer channel.
func (orc *Orchestrator) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	orc.mu.Lock()
	orc.events = append(orc.events, ch)
	orc.mu.Unlock()
	return ch
}

// Close stops the engine, cancels pending timers and closes observers.
func (orc *Orchestrator) Close() {
	orc.mu.Lock()
	if orc.closed {
		orc.mu.Unlock()
		return
	}
	orc.closed = true
	orc.clearAckLocked()
	events := orc.events
	orc.events = nil
	orc.mu.Unlock()

	orc.eng.Close()
	for _, ch := range events {
		close(ch)
	}
}

// Mode returns the orchestrator's current mode.
func (orc *Orchestrator) Mode() model.Mode {
	orc.mu.Lock()
	defer orc.mu.Unlock()
	return orc.currentMode
}

// AwaitingAck reports whether a completed session is pending
// acknowledgment.
func (orc *Orchestrator) AwaitingAck() bool {
	orc.mu.Lock()
	defer orc.mu.Unlock()
	return orc.awaitingAck
}

// CompletedWorkCount returns the number of work intervals completed
// since the process started.
func (orc *Orchestrator) CompletedWorkCount() int {
	orc.mu.Lock()
	defer orc.mu.Unlock()
	return orc.completedWork
}

// Snapshot returns the engine's current countdown state.
func (orc *Orchestrator) Snapshot() engine.Snapshot {
	return orc.eng.Snapshot()
}

// Settings returns the last accepted settings.
func (orc *Orchestrator) Settings() model.Settings {
	orc.mu.Lock()
	defer orc.mu.Unlock()
	return orc.settings
}

// ToggleStartPause is the single primary control: it acknowledges a
// pending completion, pauses a running countdown, resumes a paused one,
// or starts the current mode from Idle.
func (orc *Orchestrator) ToggleStartPause() {
	orc.mu.Lock()
	if orc.awaitingAck {
		orc.acknowledgeLocked()
		return
	}
	mode := orc.currentMode
	orc.mu.Unlock()

	var snapshot engine.Snapshot
	switch orc.eng.Snapshot().State {
	case engine.StateRunning:
		snapshot = orc.eng.Pause()
	case engine.StatePaused:
		snapshot = orc.eng.Resume()
	default:
		snapshot, _ = orc.eng.Start(mode)
	}
	orc.emitTick(snapshot)
}

// Reset abandons any countdown and closes the acknowledgment window.
// The current mode is unchanged and nothing is recorded.
func (orc *Orchestrator) Reset() {
	orc.mu.Lock()
	wasAwaiting := orc.awaitingAck
	orc.clearAckLocked()
	mode := orc.currentMode
	orc.mu.Unlock()

	snapshot := orc.eng.Reset()
	if wasAwaiting {
		orc.emit(Event{Type: EventAcknowledged, Mode: mode, NextMode: mode, Snapshot: snapshot, At: orc.now()})
	}
	orc.emitTick(snapshot)
}

// CycleMode advances Work -> Short Break -> Long Break -> Work. It is
// rejected with ErrTimerActive while a countdown is running or paused.
// While a completion is pending it acknowledges instead of cycling.
func (orc *Orchestrator) CycleMode() error {
	orc.mu.Lock()
	if orc.awaitingAck {
		orc.acknowledgeLocked()
		return nil
	}
	if orc.eng.Snapshot().State != engine.StateIdle {
		orc.mu.Unlock()
		return ErrTimerActive
	}
	orc.currentMode = orc.currentMode.Next()
	orc.mu.Unlock()

	orc.emitTick(orc.eng.Snapshot())
	return nil
}

// Acknowledge closes the acknowledgment window. If the engine is already
// running the auto-start path advanced the mode first, and the mode is
// not advanced a second time. A no-op when no completion is pending.
func (orc *Orchestrator) Acknowledge() {
	orc.mu.Lock()
	if !orc.awaitingAck {
		orc.mu.Unlock()
		return
	}
	orc.acknowledgeLocked()
}

// Pause freezes a running countdown.
func (orc *Orchestrator) Pause() {
	orc.emitTick(orc.eng.Pause())
}

// Resume continues a paused countdown.
func (orc *Orchestrator) Resume() {
	orc.emitTick(orc.eng.Resume())
}

// UpdateSettings applies new durations and flags. Invalid settings are
// rejected and the previous settings stay in effect. An in-progress
// countdown keeps its remaining time.
func (orc *Orchestrator) UpdateSettings(settings model.Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	orc.mu.Lock()
	orc.settings = settings
	orc.mu.Unlock()

	orc.eng.UpdateSettings(settings)
	return nil
}

// acknowledgeLocked closes the window and releases the mutex before
// emitting. The caller must hold the mutex with awaitingAck set.
func (orc *Orchestrator) acknowledgeLocked() {
	orc.clearAckLocked()
	if orc.eng.Snapshot().State != engine.StateRunning {
		orc.currentMode = orc.nextMode
	}
	newMode := orc.currentMode
	orc.mu.Unlock()

	orc.emit(Event{Type: EventAcknowledged, Mode: newMode, NextMode: newMode, Snapshot: orc.eng.Snapshot(), At: orc.now()})
}

// clearAckLocked clears the acknowledgment flag and unconditionally
// cancels both deferred timers, whichever of them is still pending.
func (orc *Orchestrator) clearAckLocked() {
	orc.awaitingAck = false
	if orc.autoStartTimer != nil {
		orc.autoStartTimer.Stop()
		orc.autoStartTimer = nil
	}
	if orc.ackTimer != nil {
		orc.ackTimer.Stop()
		orc.ackTimer = nil
	}
}

// handleTick relays engine ticks to observers with the current mode.
func (orc *Orchestrator) handleTick(snapshot engine.Snapshot) {
	orc.emitTick(snapshot)
}

// handleComplete records the finished interval, opens the acknowledgment
// window and computes the mode that follows.
func (orc *Orchestrator) handleComplete(mode model.Mode, total time.Duration) {
	orc.mu.Lock()
	if orc.closed {
		orc.mu.Unlock()
		return
	}

	session := model.Session{
		ID:              uuid.NewString(),
		CompletedAt:     orc.now().UTC(),
		Mode:            mode,
		DurationSeconds: int(total / time.Second),
	}
	if orc.config.Recorder != nil {
		// The recorder owns persistence failures; the cycle goes on.
		_ = orc.config.Recorder.Append(session)
	}

	if mode == model.ModeWork {
		orc.completedWork++
		if orc.completedWork%orc.settings.LongBreakInterval == 0 {
			orc.nextMode = model.ModeLongBreak
		} else {
			orc.nextMode = model.ModeShortBreak
		}
	} else {
		orc.nextMode = model.ModeWork
	}
	next := orc.nextMode

	orc.awaitingAck = true
	autoStart := orc.settings.AutoStartBreaks
	if mode.IsBreak() {
		autoStart = orc.settings.AutoStartWork
	}
	if autoStart {
		orc.autoStartTimer = time.AfterFunc(orc.config.AutoStartGrace, orc.autoStart)
	}
	orc.ackTimer = time.AfterFunc(orc.config.AckTimeout, orc.expireAck)
	orc.mu.Unlock()

	at := orc.now()
	orc.emit(Event{Type: EventCompleted, Mode: mode, Duration: total, At: at})
	orc.emit(Event{Type: EventAwaitingAck, Mode: mode, NextMode: next, At: at})
}

// autoStart fires after the grace delay: it acknowledges the completion
// and starts the next interval, unless a manual acknowledgment or reset
// closed the window first.
func (orc *Orchestrator) autoStart() {
	orc.mu.Lock()
	if !orc.awaitingAck || orc.closed {
		orc.mu.Unlock()
		return
	}
	orc.clearAckLocked()
	orc.currentMode = orc.nextMode
	mode := orc.currentMode
	orc.mu.Unlock()

	snapshot, err := orc.eng.Start(mode)
	if err != nil {
		return
	}
	orc.emit(Event{Type: EventAcknowledged, Mode: mode, NextMode: mode, Snapshot: snapshot, At: orc.now()})
	orc.emitTick(snapshot)
}

// expireAck fires when the acknowledgment window times out. If the
// auto-start path already ran it finds the flag cleared and does
// nothing; the two timers can never both transition.
func (orc *Orchestrator) expireAck() {
	orc.mu.Lock()
	if !orc.awaitingAck || orc.closed {
		orc.mu.Unlock()
		return
	}
	orc.acknowledgeLocked()
}

func (orc *Orchestrator) emitTick(snapshot engine.Snapshot) {
	orc.mu.Lock()
	mode := orc.currentMode
	orc.mu.Unlock()
	orc.emit(Event{Type: EventTick, Snapshot: snapshot, Mode: mode, At: orc.now()})
}

// emit delivers to every observer with a non-blocking send. The mutex
// is held across the sends so a concurrent Close cannot close a channel
// mid-delivery.
func (orc *Orchestrator) emit(event Event) {
	orc.mu.Lock()
	defer orc.mu.Unlock()
	for _, ch := range orc.events {
		select {
		case ch <- event:
		default:
		}
	}
}
