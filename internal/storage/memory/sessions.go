package memory

import (
	"context"
	"sync"
	"time"
)

type session struct {
	userID    string
	expiresAt time.Time
}

// SessionStore is an in-memory implementation of storage.SessionStore.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]session)}
}

func (s *SessionStore) Put(_ context.Context, sessionID, userID string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionID] = session{userID: userID, expiresAt: time.Now().Add(ttl)}
	return nil
}

func (s *SessionStore) Get(_ context.Context, sessionID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[sessionID]
	if !ok || time.Now().After(sess.expiresAt) {
		return "", nil
	}
	return sess.userID, nil
}

func (s *SessionStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}
