package store

import (
	"context"
	"sync"
)

// Memory keeps slots in a map. It is used by tests and dry runs.
type Memory struct {
	mu     sync.RWMutex
	slots  map[string]string
	closed bool
}

var _ Store = (*Memory)(nil)

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{slots: make(map[string]string)}
}

// Get implements Store.
func (m *Memory) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return "", false, NewError("Get", key, "", ErrClosed)
	}
	v, ok := m.slots[key]
	return v, ok, nil
}

// Set implements Store.
func (m *Memory) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if key == "" {
		return NewError("Set", key, "", ErrInvalidKey)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return NewError("Set", key, "", ErrClosed)
	}
	m.slots[key] = value
	return nil
}

// Close implements Store.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
