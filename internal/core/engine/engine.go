// Package engine implements the countdown state machine that drives a
// single Work or Break interval at one-second granularity.
package engine

import (
	"errors"
	"sync"
	"time"

	"focusloop/internal/core/model"
)

// ErrInvalidTransition indicates a command issued in a state that
// disallows it, such as starting a break while work is counting down.
var ErrInvalidTransition = errors.New("invalid transition")

// Config contains runtime options for the Engine.
type Config struct {
	// TickInterval is the real-time length of one countdown second.
	// Tests shrink it; production leaves it at one second.
	TickInterval time.Duration

	// OnTick is invoked from the run loop after every countdown second.
	OnTick func(Snapshot)

	// OnComplete is invoked from the run loop when a countdown reaches
	// zero naturally, exactly once per interval.
	OnComplete func(mode model.Mode, total time.Duration)
}

// Engine runs one countdown at a time. A single persistent run goroutine
// owns the tick loop; commands only flip state under the mutex, so a second
// concurrent countdown cannot exist.
type Engine struct {
	mu        sync.Mutex
	config    Config
	settings  model.Settings
	state     TimerState
	mode      model.Mode
	remaining time.Duration
	total     time.Duration
	stopCh    chan struct{}
	closed    bool
}

// New creates an Engine and launches its run loop.
func New(settings model.Settings, config Config) *Engine {
	if config.TickInterval <= 0 {
		config.TickInterval = time.Second
	}

	eng := &Engine{
		config:   config,
		settings: settings,
		state:    StateIdle,
		mode:     model.ModeWork,
		stopCh:   make(chan struct{}),
	}
	go eng.run()
	return eng
}

// Close terminates the run loop. The Engine must not be used afterwards.
func (eng *Engine) Close() {
	eng.mu.Lock()
	defer eng.mu.Unlock()
	if eng.closed {
		return
	}
	eng.closed = true
	close(eng.stopCh)
}

// Start begins a fresh countdown for the given mode. Valid only from Idle:
// starting the mode that is already active is ignored, while starting a
// different mode reports ErrInvalidTransition instead of silently
// overriding the countdown in progress.
func (eng *Engine) Start(mode model.Mode) (Snapshot, error) {
	eng.mu.Lock()
	defer eng.mu.Unlock()

	if eng.state != StateIdle {
		if mode == eng.mode {
			return eng.snapshotLocked(), nil
		}
		return eng.snapshotLocked(), ErrInvalidTransition
	}

	eng.mode = mode
	eng.total = eng.settings.Duration(mode)
	eng.remaining = eng.total
	eng.state = StateRunning
	return eng.snapshotLocked(), nil
}

// Pause freezes the countdown without losing elapsed progress.
// A no-op unless Running.
func (eng *Engine) Pause() Snapshot {
	eng.mu.Lock()
	defer eng.mu.Unlock()
	if eng.state == StateRunning {
		eng.state = StatePaused
	}
	return eng.snapshotLocked()
}

// Resume continues a paused countdown from its current remaining time.
// A no-op unless Paused.
func (eng *Engine) Resume() Snapshot {
	eng.mu.Lock()
	defer eng.mu.Unlock()
	if eng.state == StatePaused {
		eng.state = StateRunning
	}
	return eng.snapshotLocked()
}

// Reset abandons any countdown and returns to Idle. Valid from every
// state. The abandoned interval is never reported as completed.
func (eng *Engine) Reset() Snapshot {
	eng.mu.Lock()
	defer eng.mu.Unlock()
	eng.state = StateIdle
	eng.remaining = 0
	eng.total = 0
	return eng.snapshotLocked()
}

// UpdateSettings replaces the configured durations. An in-progress
// countdown keeps its remaining and total time; only future Start calls
// see the new values.
func (eng *Engine) UpdateSettings(settings model.Settings) {
	eng.mu.Lock()
	defer eng.mu.Unlock()
	eng.settings = settings
}

// Snapshot returns the current countdown state.
func (eng *Engine) Snapshot() Snapshot {
	eng.mu.Lock()
	defer eng.mu.Unlock()
	return eng.snapshotLocked()
}

func (eng *Engine) snapshotLocked() Snapshot {
	return Snapshot{
		Remaining: eng.remaining,
		Total:     eng.total,
		State:     eng.state,
		Mode:      eng.mode,
	}
}

func (eng *Engine) run() {
	ticker := time.NewTicker(eng.config.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-eng.stopCh:
			return
		case <-ticker.C:
			eng.tick()
		}
	}
}

// tick advances the countdown by one second. Callbacks fire after the
// mutex is released so handlers may call back into the Engine.
func (eng *Engine) tick() {
	eng.mu.Lock()
	if eng.state != StateRunning {
		eng.mu.Unlock()
		return
	}

	eng.remaining -= time.Second
	if eng.remaining > 0 {
		snapshot := eng.snapshotLocked()
		eng.mu.Unlock()
		eng.emitTick(snapshot)
		return
	}

	completedMode := eng.mode
	completedTotal := eng.total
	eng.state = StateIdle
	eng.remaining = 0
	eng.total = 0
	snapshot := eng.snapshotLocked()
	eng.mu.Unlock()

	eng.emitTick(snapshot)
	if eng.config.OnComplete != nil {
		eng.config.OnComplete(completedMode, completedTotal)
	}
}

func (eng *Engine) emitTick(snapshot Snapshot) {
	if eng.config.OnTick != nil {
		eng.config.OnTick(snapshot)
	}
}
