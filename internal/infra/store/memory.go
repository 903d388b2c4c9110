// Package store implements the persistence substrate for the CRM
// collections and the typed load/save helpers on top of it.
package store

import (
	"context"
	"slices"
	"sync"
)

// Memory is a map-backed KeyValueStore. Values are copied on the way in
// and out, so callers never share buffers with the store.
type Memory struct {
	mu    sync.RWMutex
	items map[string][]byte
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{items: make(map[string][]byte)}
}

// Get returns the value stored under key.
func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.items[key]
	if !ok {
		return nil, false, nil
	}
	return slices.Clone(v), true, nil
}

// Set overwrites the value stored under key.
func (m *Memory) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.items[key] = slices.Clone(value)
	return nil
}

// Close is a no-op.
func (m *Memory) Close() error { return nil }
