package cache

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	session   Session
	expiresAt time.Time
}

// MemorySessionStore is a SessionStore for tests and single-process setups.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]memoryEntry
	now      func() time.Time
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]memoryEntry),
		now:      time.Now,
	}
}

func (m *MemorySessionStore) Get(_ context.Context, token string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.sessions[token]
	if !ok {
		return nil, nil
	}
	if !entry.expiresAt.IsZero() && !m.now().Before(entry.expiresAt) {
		delete(m.sessions, token)
		return nil, nil
	}
	s := entry.session
	return &s, nil
}

func (m *MemorySessionStore) Set(_ context.Context, token string, s *Session, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry := memoryEntry{session: *s}
	if ttl > 0 {
		entry.expiresAt = m.now().Add(ttl)
	}
	m.sessions[token] = entry
	return nil
}

func (m *MemorySessionStore) Expire(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
	return nil
}
