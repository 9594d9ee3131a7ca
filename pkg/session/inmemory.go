package session

import (
	"context"
	"sync"
)

// InMemory is a simple in-process session store.
type InMemory struct {
	mu   sync.RWMutex
	data map[string]Snapshot
}

// NewInMemory creates an empty in-memory store.
func NewInMemory() *InMemory {
	return &InMemory{data: make(map[string]Snapshot)}
}

// Save stores the state under the session ID, replacing any previous state.
func (m *InMemory) Save(_ context.Context, sessionID string, state Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[sessionID] = state
	return nil
}

// Load returns the stored state or ErrNotFound.
func (m *InMemory) Load(_ context.Context, sessionID string) (Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	state, ok := m.data[sessionID]
	if !ok {
		return Snapshot{}, ErrNotFound
	}
	return state, nil
}

var _ Store = (*InMemory)(nil)
