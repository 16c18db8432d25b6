package http

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/garyjia/leave-desk/internal/application/service"
)

type sessionEntry struct {
	session   service.Session
	expiresAt time.Time
}

// SessionStore maps opaque bearer tokens to workflow sessions
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]sessionEntry
	ttl      time.Duration
	now      func() time.Time
}

// NewSessionStore creates an in-memory session store whose tokens expire after ttl
func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]sessionEntry),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Create issues a new token for the session
func (s *SessionStore) Create(session service.Session) (string, time.Time) {
	token := uuid.NewString()
	expiresAt := s.now().Add(s.ttl)

	s.mu.Lock()
	s.sessions[token] = sessionEntry{session: session, expiresAt: expiresAt}
	s.mu.Unlock()

	return token, expiresAt
}

// Get returns the session for a live token
func (s *SessionStore) Get(token string) (service.Session, bool) {
	s.mu.RLock()
	entry, ok := s.sessions[token]
	s.mu.RUnlock()
	if !ok {
		return service.Session{}, false
	}

	if !s.now().Before(entry.expiresAt) {
		s.Delete(token)
		return service.Session{}, false
	}
	return entry.session, true
}

// Delete revokes a token
func (s *SessionStore) Delete(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}

// Sweep drops every expired token and returns how many were removed
func (s *SessionStore) Sweep() int {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for token, entry := range s.sessions {
		if !now.Before(entry.expiresAt) {
			delete(s.sessions, token)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored tokens, expired or not
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
