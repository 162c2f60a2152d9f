package wizard

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

// Manager holds the live sessions of the process
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	clock    clockwork.Clock
}

// NewManager creates an empty manager
func NewManager(clock clockwork.Clock) *Manager {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Manager{
		sessions: make(map[string]*Session),
		clock:    clock,
	}
}

// Create registers a new session with a fresh id
func (m *Manager) Create(cfg Config) *Session {
	if cfg.Clock == nil {
		cfg.Clock = m.clock
	}
	session := NewSession(uuid.New().String(), cfg)

	m.mu.Lock()
	m.sessions[session.ID()] = session
	m.mu.Unlock()
	return session
}

// Get returns a live session
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	session, ok := m.sessions[id]
	return session, ok
}

// Delete unregisters a session and returns it
func (m *Manager) Delete(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	return session, ok
}

// EvictIdle unregisters every session untouched for longer than ttl and
// returns them so the caller can flush and close them
func (m *Manager) EvictIdle(ttl time.Duration) []*Session {
	cutoff := m.clock.Now().Add(-ttl)

	m.mu.Lock()
	defer m.mu.Unlock()
	var evicted []*Session
	for id, session := range m.sessions {
		if session.LastTouched().Before(cutoff) {
			delete(m.sessions, id)
			evicted = append(evicted, session)
		}
	}
	return evicted
}

// DeleteAll unregisters and returns every session
func (m *Manager) DeleteAll() []*Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := make([]*Session, 0, len(m.sessions))
	for id, session := range m.sessions {
		delete(m.sessions, id)
		all = append(all, session)
	}
	return all
}

// Count returns the number of live sessions
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
