// Package memory provides an in-memory planning store.
package memory

import (
	"context"
	"sync"

	"github.com/warp/resource-planner/config"
	"github.com/warp/resource-planner/planning"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu       sync.RWMutex
	doc      *planning.Document
	settings config.Settings
	saves    int
}

// NewMemory returns a store holding a copy of doc (nil = empty document).
func NewMemory(doc *planning.Document) *Memory {
	if doc == nil {
		doc = planning.NewDocument()
	}
	return &Memory{doc: doc.Clone(), settings: config.DefaultSettings()}
}

// Load returns a copy so callers can't mutate the stored document.
func (m *Memory) Load(_ context.Context) (*planning.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.doc.Clone(), nil
}

func (m *Memory) Save(_ context.Context, doc *planning.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.doc = doc.Clone()
	m.saves++
	return nil
}

// Saves is the number of successful saves.
func (m *Memory) Saves() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.saves
}

func (m *Memory) LoadSettings(_ context.Context) (config.Settings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.settings, nil
}

func (m *Memory) SaveSettings(_ context.Context, s config.Settings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings = s
	return nil
}
