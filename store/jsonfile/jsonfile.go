/*
Package jsonfile stores the planning document as a JSON file on disk.

PURPOSE:
  The default persistence: one JSON document with people, teams,
  departments and projects, plus a sibling settings document. Each Save
  rewrites the whole file.

ATOMIC WRITES:
  Saves go to a temp file in the same directory and are renamed over the
  target, so a crash mid-write never leaves a truncated document.

SEE ALSO:
  - factory/document.go: JSON format
  - watcher.go: Reload when the file changes on disk
*/
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/warp/resource-planner/config"
	"github.com/warp/resource-planner/factory"
	"github.com/warp/resource-planner/planning"
)

// Store reads and writes the JSON document and settings files.
type Store struct {
	path         string
	settingsPath string
	logger       *slog.Logger
	mu           sync.Mutex
}

// New creates a store. settingsPath may be empty to disable settings
// persistence (defaults are returned and saves are rejected).
func New(path, settingsPath string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{path: path, settingsPath: settingsPath, logger: logger}
}

// Path returns the document path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the document. A missing file is an empty document. Field-level
// problems are logged and the affected fields left zero.
func (s *Store) Load(_ context.Context) (*planning.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return planning.NewDocument(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}

	doc, dataErrs, err := factory.ParseDocument(data)
	if err != nil {
		return nil, err
	}
	for _, de := range dataErrs {
		s.logger.Warn("Document data error", slog.String("path", s.path), slog.String("error", de.Error()))
	}
	return doc, nil
}

// Save writes the document atomically.
func (s *Store) Save(_ context.Context, doc *planning.Document) error {
	data, err := factory.MarshalDocument(doc)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return writeAtomic(s.path, data)
}

// LoadSettings reads the settings document, falling back to defaults.
func (s *Store) LoadSettings(_ context.Context) (config.Settings, error) {
	if s.settingsPath == "" {
		return config.DefaultSettings(), nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.settingsPath)
	if errors.Is(err, os.ErrNotExist) {
		return config.DefaultSettings(), nil
	}
	if err != nil {
		return config.Settings{}, fmt.Errorf("failed to read settings: %w", err)
	}
	var settings config.Settings
	if err := json.Unmarshal(data, &settings); err != nil {
		return config.Settings{}, fmt.Errorf("failed to parse settings: %w", err)
	}
	return settings.WithDefaults(), nil
}

// SaveSettings writes the settings document.
func (s *Store) SaveSettings(_ context.Context, settings config.Settings) error {
	if s.settingsPath == "" {
		return fmt.Errorf("settings path not configured")
	}
	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return writeAtomic(s.settingsPath, data)
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
