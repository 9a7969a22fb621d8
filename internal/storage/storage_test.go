package storage

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"focusloop/internal/core/model"
)

func TestSessionLogAppendAndReload(t *testing.T) {
	dir := t.TempDir()

	log, err := NewJSONSessionLog(dir)
	require.NoError(t, err)

	first := model.Session{
		ID:              "one",
		CompletedAt:     time.Date(2024, 3, 14, 10, 0, 0, 0, time.UTC),
		Mode:            model.ModeWork,
		DurationSeconds: 1500,
	}
	second := model.Session{
		ID:              "two",
		CompletedAt:     time.Date(2024, 3, 14, 10, 30, 0, 0, time.UTC),
		Mode:            model.ModeShortBreak,
		DurationSeconds: 300,
	}
	require.NoError(t, log.Append(first))
	require.NoError(t, log.Append(second))

	reopened, err := NewJSONSessionLog(dir)
	require.NoError(t, err)

	sessions, err := reopened.All()
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, first, sessions[0])
	assert.Equal(t, second, sessions[1])
}

func TestSessionLogStartsEmpty(t *testing.T) {
	log, err := NewJSONSessionLog(t.TempDir())
	require.NoError(t, err)

	sessions, err := log.All()
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestSessionLogAllReturnsCopy(t *testing.T) {
	log, err := NewJSONSessionLog(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, log.Append(model.Session{ID: "one", Mode: model.ModeWork, DurationSeconds: 60}))

	sessions, err := log.All()
	require.NoError(t, err)
	sessions[0].ID = "mutated"

	again, err := log.All()
	require.NoError(t, err)
	assert.Equal(t, "one", again[0].ID)
}

func TestApplyYamlSettingsClampsOutOfRangeValues(t *testing.T) {
	settings := model.DefaultSettings()

	applyYamlSettings(&settings, yamlSettings{
		WorkMinutes:       90, // above range, keep default
		ShortBreakMinutes: 10,
		LongBreakMinutes:  0, // below range, keep default
		LongBreakInterval: 3,
		AutoStartBreaks:   true,
	})

	assert.Equal(t, 25, settings.WorkMinutes)
	assert.Equal(t, 10, settings.ShortBreakMinutes)
	assert.Equal(t, 15, settings.LongBreakMinutes)
	assert.Equal(t, 3, settings.LongBreakInterval)
	assert.True(t, settings.AutoStartBreaks)
	assert.False(t, settings.AutoStartWork)
}

func TestSettingsRoundTrip(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("relies on XDG_CONFIG_HOME to redirect the config dir")
	}
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	settings := model.Settings{
		WorkMinutes:       50,
		ShortBreakMinutes: 10,
		LongBreakMinutes:  20,
		LongBreakInterval: 2,
		AutoStartBreaks:   true,
		AutoStartWork:     true,
		Notifications:     false,
	}
	require.NoError(t, SaveSettings("focusloop-test", settings))

	loaded, err := LoadSettings("focusloop-test")
	require.NoError(t, err)
	assert.Equal(t, settings, loaded)
}

func TestLoadSettingsMissingFileReturnsDefaults(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("relies on XDG_CONFIG_HOME to redirect the config dir")
	}
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	loaded, err := LoadSettings("focusloop-test")
	require.NoError(t, err)
	assert.Equal(t, model.DefaultSettings(), loaded)
}

func TestLoadSettingsMalformedYamlFailsWithDefaults(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("relies on XDG_CONFIG_HOME to redirect the config dir")
	}
	configHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configHome)

	dir := filepath.Join(configHome, "focusloop-test")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, settingsFileName), []byte("{not yaml"), 0o644))

	loaded, err := LoadSettings("focusloop-test")
	require.Error(t, err)
	assert.Equal(t, model.DefaultSettings(), loaded)
}
