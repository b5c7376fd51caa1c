package game

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lunaryss/tarot-ai/internal/deck"
	"github.com/lunaryss/tarot-ai/internal/domain"
)

// Manager is the registry of live sessions, keyed by session id. It is
// owned by the composition root and passed to the services that need it
// so tests can instantiate isolated instances.
type Manager struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session

	rng          deck.RNG
	shuffleDelay time.Duration
}

// NewManager creates an empty session registry.
func NewManager(rng deck.RNG, shuffleDelay time.Duration) *Manager {
	return &Manager{
		sessions:     make(map[uuid.UUID]*Session),
		rng:          rng,
		shuffleDelay: shuffleDelay,
	}
}

// Start creates a session with the given spread selected and registers
// it under its fresh id.
func (m *Manager) Start(spread domain.Spread) *Session {
	s := NewSession(m.rng, m.shuffleDelay)
	s.SelectSpread(spread)

	m.mu.Lock()
	m.sessions[s.ID()] = s
	m.mu.Unlock()
	return s
}

// Adopt registers an externally built session (restored from a persisted
// record) under its current id.
func (m *Manager) Adopt(s *Session) {
	m.mu.Lock()
	m.sessions[s.ID()] = s
	m.mu.Unlock()
}

// Get returns the live session with the given id.
func (m *Manager) Get(id uuid.UUID) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return s, nil
}

// Drop resets a session and removes it from the registry.
func (m *Manager) Drop(id uuid.UUID) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	m.mu.Unlock()
	if ok {
		s.Reset()
	}
}

// Len reports the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
