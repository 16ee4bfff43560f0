// Package session tracks browser sessions and the history log each one owns.
package session

import (
	"sync"
	"time"

	"github.com/amityadav/stratreport/internal/history"
	"github.com/google/uuid"
)

// Session is one visitor's state. Its History lives exactly as long as the session.
type Session struct {
	ID        string
	History   *history.Log
	StartedAt time.Time

	lastSeen time.Time // guarded by Manager.mu
}

// Manager owns all live sessions.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	onEnd    []func(id string)
	now      func() time.Time
}

func NewManager() *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		now:      time.Now,
	}
}

// OnEnd registers fn to run after a session is ended or swept. Call it before serving.
func (m *Manager) OnEnd(fn func(id string)) {
	m.mu.Lock()
	m.onEnd = append(m.onEnd, fn)
	m.mu.Unlock()
}

func (m *Manager) ended(ids []string, hooks []func(string)) {
	for _, id := range ids {
		for _, fn := range hooks {
			fn(id)
		}
	}
}

// Start creates a session with an empty history log.
func (m *Manager) Start() *Session {
	now := m.now()
	s := &Session{
		ID:        uuid.NewString(),
		History:   history.NewLog(),
		StartedAt: now,
		lastSeen:  now,
	}
	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	return s
}

// Get returns a live session and marks it as active.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if ok {
		s.lastSeen = m.now()
	}
	return s, ok
}

// End discards the session and its history. It reports whether the session existed.
func (m *Manager) End(id string) bool {
	m.mu.Lock()
	_, ok := m.sessions[id]
	delete(m.sessions, id)
	hooks := m.onEnd
	m.mu.Unlock()

	if ok {
		m.ended([]string{id}, hooks)
	}
	return ok
}

// Sweep ends every session idle for longer than idle and returns how many were ended.
func (m *Manager) Sweep(idle time.Duration) int {
	m.mu.Lock()
	cutoff := m.now().Add(-idle)
	var ids []string
	for id, s := range m.sessions {
		if s.lastSeen.Before(cutoff) {
			delete(m.sessions, id)
			ids = append(ids, id)
		}
	}
	hooks := m.onEnd
	m.mu.Unlock()

	m.ended(ids, hooks)
	return len(ids)
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
