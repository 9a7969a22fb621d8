package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"focusloop/internal/core/model"
)

const settingsFileName = "settings.yaml"

type yamlSettings struct {
	WorkMinutes       int  `yaml:"work_minutes"`
	ShortBreakMinutes int  `yaml:"short_break_minutes"`
	LongBreakMinutes  int  `yaml:"long_break_minutes"`
	LongBreakInterval int  `yaml:"long_break_interval"`
	AutoStartBreaks   bool `yaml:"auto_start_breaks"`
	AutoStartWork     bool `yaml:"auto_start_work"`
	Notifications     bool `yaml:"notifications"`
}

// LoadSettings reads user preferences from YAML.
// If the config file does not exist, default settings are returned.
// Out-of-range durations in the file fall back to the defaults field
// by field rather than failing the load.
func LoadSettings(appName string) (model.Settings, error) {
	settings := model.DefaultSettings()
	configPath, err := resolveConfigPath(appName, settingsFileName)
	if err != nil {
		return settings, err
	}

	rawData, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return settings, fmt.Errorf("read settings file: %w", err)
	}

	var fileData yamlSettings
	if err := yaml.Unmarshal(rawData, &fileData); err != nil {
		return settings, fmt.Errorf("parse settings yaml: %w", err)
	}

	applyYamlSettings(&settings, fileData)
	return settings, nil
}

// SaveSettings writes user preferences to YAML.
func SaveSettings(appName string, settings model.Settings) error {
	configPath, err := resolveConfigPath(appName, settingsFileName)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	fileData := yamlSettings{
		WorkMinutes:       settings.WorkMinutes,
		ShortBreakMinutes: settings.ShortBreakMinutes,
		LongBreakMinutes:  settings.LongBreakMinutes,
		LongBreakInterval: settings.LongBreakInterval,
		AutoStartBreaks:   settings.AutoStartBreaks,
		AutoStartWork:     settings.AutoStartWork,
		Notifications:     settings.Notifications,
	}

	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}

	if err := os.WriteFile(configPath, serialized, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}

	return nil
}

func resolveConfigPath(appName, fileName string) (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, appName, fileName), nil
}

func applyYamlSettings(settings *model.Settings, fileData yamlSettings) {
	if fileData.WorkMinutes >= 1 && fileData.WorkMinutes <= 60 {
		settings.WorkMinutes = fileData.WorkMinutes
	}
	if fileData.ShortBreakMinutes >= 1 && fileData.ShortBreakMinutes <= 60 {
		settings.ShortBreakMinutes = fileData.ShortBreakMinutes
	}
	if fileData.LongBreakMinutes >= 1 && fileData.LongBreakMinutes <= 60 {
		settings.LongBreakMinutes = fileData.LongBreakMinutes
	}
	if fileData.LongBreakInterval >= 1 && fileData.LongBreakInterval <= 10 {
		settings.LongBreakInterval = fileData.LongBreakInterval
	}

	settings.AutoStartBreaks = fileData.AutoStartBreaks
	settings.AutoStartWork = fileData.AutoStartWork
	settings.Notifications = fileData.Notifications
}
