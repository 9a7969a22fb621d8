package engine

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"focusloop/internal/core/model"
)

// frozen returns an engine whose ticker will not fire during the test,
// so countdown state only changes through commands.
func frozen(t *testing.T, settings model.Settings) *Engine {
	t.Helper()
	eng := New(settings, Config{TickInterval: time.Hour})
	t.Cleanup(eng.Close)
	return eng
}

func testSettings() model.Settings {
	return model.Settings{
		WorkMinutes:       25,
		ShortBreakMinutes: 5,
		LongBreakMinutes:  15,
		LongBreakInterval: 4,
	}
}

func TestStartComputesDurationFromSettings(t *testing.T) {
	settings := testSettings()

	cases := []struct {
		mode model.Mode
		want time.Duration
	}{
		{model.ModeWork, 25 * time.Minute},
		{model.ModeShortBreak, 5 * time.Minute},
		{model.ModeLongBreak, 15 * time.Minute},
	}

	for _, tc := range cases {
		t.Run(string(tc.mode), func(t *testing.T) {
			eng := frozen(t, settings)
			snapshot, err := eng.Start(tc.mode)
			require.NoError(t, err)
			assert.Equal(t, StateRunning, snapshot.State)
			assert.Equal(t, tc.mode, snapshot.Mode)
			assert.Equal(t, tc.want, snapshot.Total)
			assert.Equal(t, tc.want, snapshot.Remaining)
		})
	}
}

func TestStartDifferentModeWhileActiveIsRejected(t *testing.T) {
	eng := frozen(t, testSettings())

	_, err := eng.Start(model.ModeWork)
	require.NoError(t, err)

	_, err = eng.Start(model.ModeShortBreak)
	require.ErrorIs(t, err, ErrInvalidTransition)

	snapshot := eng.Snapshot()
	assert.Equal(t, model.ModeWork, snapshot.Mode)
	assert.Equal(t, 25*time.Minute, snapshot.Remaining)
}

func TestStartSameModeWhileActiveIsIgnored(t *testing.T) {
	eng := frozen(t, testSettings())

	_, err := eng.Start(model.ModeWork)
	require.NoError(t, err)

	snapshot, err := eng.Start(model.ModeWork)
	require.NoError(t, err)
	assert.Equal(t, StateRunning, snapshot.State)
	assert.Equal(t, 25*time.Minute, snapshot.Remaining)
}

func TestPauseIsIdempotent(t *testing.T) {
	eng := frozen(t, testSettings())

	_, err := eng.Start(model.ModeWork)
	require.NoError(t, err)

	first := eng.Pause()
	second := eng.Pause()
	assert.Equal(t, first, second)
	assert.Equal(t, StatePaused, second.State)
}

func TestPauseResumeKeepsRemaining(t *testing.T) {
	eng := frozen(t, testSettings())

	started, err := eng.Start(model.ModeWork)
	require.NoError(t, err)

	paused := eng.Pause()
	assert.Equal(t, started.Remaining, paused.Remaining)

	resumed := eng.Resume()
	assert.Equal(t, StateRunning, resumed.State)
	assert.Equal(t, paused.Remaining, resumed.Remaining)
	assert.Equal(t, model.ModeWork, resumed.Mode)
}

func TestPauseWhileIdleIsNoOp(t *testing.T) {
	eng := frozen(t, testSettings())

	snapshot := eng.Pause()
	assert.Equal(t, StateIdle, snapshot.State)
	assert.Equal(t, time.Duration(0), snapshot.Remaining)
}

func TestResetReturnsToIdle(t *testing.T) {
	eng := frozen(t, testSettings())

	_, err := eng.Start(model.ModeLongBreak)
	require.NoError(t, err)

	snapshot := eng.Reset()
	assert.Equal(t, StateIdle, snapshot.State)
	assert.Equal(t, time.Duration(0), snapshot.Remaining)
	assert.Equal(t, time.Duration(0), snapshot.Total)
}

func TestUpdateSettingsDoesNotTouchCountdown(t *testing.T) {
	eng := frozen(t, testSettings())

	_, err := eng.Start(model.ModeWork)
	require.NoError(t, err)

	updated := testSettings()
	updated.WorkMinutes = 50
	eng.UpdateSettings(updated)

	snapshot := eng.Snapshot()
	assert.Equal(t, 25*time.Minute, snapshot.Total)
	assert.Equal(t, 25*time.Minute, snapshot.Remaining)

	eng.Reset()
	snapshot, err = eng.Start(model.ModeWork)
	require.NoError(t, err)
	assert.Equal(t, 50*time.Minute, snapshot.Total)
}

func TestCountdownCompletesExactlyOnce(t *testing.T) {
	settings := testSettings()
	settings.WorkMinutes = 1

	type completion struct {
		mode  model.Mode
		total time.Duration
	}
	ticks := make(chan Snapshot, 256)
	completions := make(chan completion, 4)

	eng := New(settings, Config{
		TickInterval: time.Millisecond,
		OnTick: func(snapshot Snapshot) {
			ticks <- snapshot
		},
		OnComplete: func(mode model.Mode, total time.Duration) {
			completions <- completion{mode: mode, total: total}
		},
	})
	t.Cleanup(eng.Close)

	_, err := eng.Start(model.ModeWork)
	require.NoError(t, err)

	select {
	case done := <-completions:
		assert.Equal(t, model.ModeWork, done.mode)
		assert.Equal(t, time.Minute, done.total)
	case <-time.After(5 * time.Second):
		t.Fatal("timeout waiting for completion")
	}

	snapshot := eng.Snapshot()
	assert.Equal(t, StateIdle, snapshot.State)
	assert.Equal(t, time.Duration(0), snapshot.Remaining)
	assert.Equal(t, time.Duration(0), snapshot.Total)

	select {
	case done := <-completions:
		t.Fatalf("unexpected second completion: %+v", done)
	case <-time.After(50 * time.Millisecond):
	}

	// Remaining must be strictly decreasing across the run.
	close(ticks)
	previous := time.Minute
	for snapshot := range ticks {
		require.Less(t, snapshot.Remaining, previous)
		previous = snapshot.Remaining
	}
}

func TestResetBeforeZeroEmitsNoCompletion(t *testing.T) {
	settings := testSettings()
	settings.WorkMinutes = 60

	completions := make(chan struct{}, 1)
	eng := New(settings, Config{
		TickInterval: time.Millisecond,
		OnComplete: func(model.Mode, time.Duration) {
			completions <- struct{}{}
		},
	})
	t.Cleanup(eng.Close)

	_, err := eng.Start(model.ModeWork)
	require.NoError(t, err)
	time.Sleep(20 * time.Millisecond)
	eng.Reset()

	select {
	case <-completions:
		t.Fatal("reset must not complete the interval")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestCloseStopsTicking(t *testing.T) {
	settings := testSettings()
	settings.WorkMinutes = 60

	var mu sync.Mutex
	tickCount := 0
	eng := New(settings, Config{
		TickInterval: time.Millisecond,
		OnTick: func(Snapshot) {
			mu.Lock()
			tickCount++
			mu.Unlock()
		},
	})

	_, err := eng.Start(model.ModeWork)
	require.NoError(t, err)
	time.Sleep(10 * time.Millisecond)
	eng.Close()

	time.Sleep(10 * time.Millisecond)
	mu.Lock()
	after := tickCount
	mu.Unlock()
	time.Sleep(20 * time.Millisecond)
	mu.Lock()
	final := tickCount
	mu.Unlock()
	assert.Equal(t, after, final)
}
