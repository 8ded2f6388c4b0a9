package kv

import (
	"context"
	"sync"
)

// Memory is an in-process Store used by tests and as a throwaway backend.
type Memory struct {
	mu     sync.Mutex
	values map[string]string

	// FailPuts makes every Put return this error, for exercising
	// write-failure paths in tests.
	FailPuts error
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

// Get returns the value stored under key, and whether the key exists.
func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok, nil
}

// Put overwrites the value stored under key.
func (m *Memory) Put(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailPuts != nil {
		return m.FailPuts
	}
	m.values[key] = value
	return nil
}

// Close is a no-op.
func (m *Memory) Close() error { return nil }

// Seed stores a raw value directly, bypassing FailPuts. Test helper for
// pre-populating collections, including deliberately corrupt payloads.
func (m *Memory) Seed(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
}
