package store

import (
	"context"
	"sync"

	"github.com/octabyte/bm-session/models"
)

// Memory keeps the session in process memory. It does not survive restarts
// and is meant for tests and ephemeral portals.
type Memory struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

func (m *Memory) Load(_ context.Context) (Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return Snapshot{
		Token:    m.values[KeyToken],
		UserData: []byte(m.values[KeyUser]),
	}, nil
}

func (m *Memory) Save(_ context.Context, session models.Session) error {
	values, err := encode(session)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range values {
		m.values[k] = v
	}
	return nil
}

func (m *Memory) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, KeyToken)
	delete(m.values, KeyUser)
	return nil
}

// Put writes a single raw key, bypassing pair validation.
func (m *Memory) Put(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
}

// Get returns a single raw key.
func (m *Memory) Get(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok
}
