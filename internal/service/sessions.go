package service

import (
	"sync"

	"github.com/riefgeister/expansbot/internal/model"
)

// SessionStore holds the per-user dialog sessions. Different users may be
// served on different goroutines, so access is mutex-guarded; a single
// user's updates arrive sequentially from the transport.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[int64]model.Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[int64]model.Session),
	}
}

// Get returns the user's session, or an idle one if none exists.
func (s *SessionStore) Get(userID int64) model.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if sess, ok := s.sessions[userID]; ok {
		return sess
	}
	return model.Session{UserID: userID, Stage: model.StageIdle}
}

// Put replaces the user's session.
func (s *SessionStore) Put(sess model.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[sess.UserID] = sess
}

// Clear returns the user to the idle stage, discarding any pending amount.
func (s *SessionStore) Clear(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, userID)
}
