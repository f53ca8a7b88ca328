package storage

import (
	"errors"
	"sync"

	"github.com/oklog/ulid/v2"
	"github.com/thomnico/fiches-mots/internal/models"
)

var ErrSessionNotFound = errors.New("session not found")

type SessionStore struct {
	sessions map[string]*models.Session
	mu       sync.RWMutex
}

func New() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*models.Session),
	}
}

// Create stores session under a new ULID and returns the id
func (s *SessionStore) Create(session *models.Session) string {
	session.ID = ulid.Make().String()
	s.Set(session.ID, session)
	return session.ID
}

func (s *SessionStore) Get(sessionID string) (*models.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, exists := s.sessions[sessionID]
	return session, exists
}

func (s *SessionStore) Set(sessionID string, session *models.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionID] = session
}

// Delete resets the selection state of the session and forgets it
func (s *SessionStore) Delete(sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return ErrSessionNotFound
	}
	session.Selection.Reset()
	delete(s.sessions, sessionID)
	return nil
}
