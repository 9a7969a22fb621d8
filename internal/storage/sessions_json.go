package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"focusloop/internal/core/model"
)

const sessionsFileName = "sessions.json"

// SessionLog is the append-only log of completed sessions.
type SessionLog interface {
	// Append records one completed session.
	Append(session model.Session) error
	// All returns every recorded session in append order.
	All() ([]model.Session, error)
}

// JSONSessionLog implements SessionLog using a single JSON file.
type JSONSessionLog struct {
	mu       sync.Mutex
	path     string
	sessions []model.Session
}

// NewJSONSessionLog opens (or creates) the session log in configDir.
func NewJSONSessionLog(configDir string) (*JSONSessionLog, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return nil, fmt.Errorf("create config directory: %w", err)
	}

	log := &JSONSessionLog{
		path:     filepath.Join(configDir, sessionsFileName),
		sessions: []model.Session{},
	}
	if _, err := os.Stat(log.path); err == nil {
		if err := log.load(); err != nil {
			return nil, err
		}
	}
	return log, nil
}

// Append records one completed session and persists the log.
func (log *JSONSessionLog) Append(session model.Session) error {
	log.mu.Lock()
	defer log.mu.Unlock()
	log.sessions = append(log.sessions, session)
	return log.save()
}

// All returns a copy of every recorded session in append order.
func (log *JSONSessionLog) All() ([]model.Session, error) {
	log.mu.Lock()
	defer log.mu.Unlock()
	result := make([]model.Session, len(log.sessions))
	copy(result, log.sessions)
	return result, nil
}

func (log *JSONSessionLog) load() error {
	content, err := os.ReadFile(log.path)
	if err != nil {
		return fmt.Errorf("read session log: %w", err)
	}
	if err := json.Unmarshal(content, &log.sessions); err != nil {
		return fmt.Errorf("parse session log: %w", err)
	}
	return nil
}

func (log *JSONSessionLog) save() error {
	content, err := json.MarshalIndent(log.sessions, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal session log: %w", err)
	}
	if err := os.WriteFile(log.path, content, 0o644); err != nil {
		return fmt.Errorf("write session log: %w", err)
	}
	return nil
}

// ConfigDir resolves the per-user configuration directory for the app.
func ConfigDir(appName string) (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, appName), nil
}
