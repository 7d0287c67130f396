// Package memory provides an in-process session store.
package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	webstorage "github.com/louisbranch/ontsnapping/internal/services/web/storage"
)

// Store is a thread-safe in-memory session store. Sessions are lost on
// restart.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]webstorage.Session
	now      func() time.Time
}

// New creates an empty store.
func New() *Store {
	return &Store{
		sessions: make(map[string]webstorage.Session),
		now:      time.Now,
	}
}

// Close drops all sessions.
func (s *Store) Close() error {
	s.mu.Lock()
	clear(s.sessions)
	s.mu.Unlock()
	return nil
}

// CreateSession stores a new session.
func (s *Store) CreateSession(_ context.Context, session webstorage.Session) error {
	session.ID = strings.TrimSpace(session.ID)
	if session.ID == "" {
		return fmt.Errorf("session id is required")
	}
	if strings.TrimSpace(session.RoomID) == "" {
		return fmt.Errorf("room id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.sessions[session.ID]; exists {
		return fmt.Errorf("session %q already exists", session.ID)
	}
	s.sessions[session.ID] = session
	return nil
}

// GetSession returns a live session.
func (s *Store) GetSession(_ context.Context, sessionID string) (webstorage.Session, bool, error) {
	s.mu.RLock()
	session, ok := s.sessions[strings.TrimSpace(sessionID)]
	s.mu.RUnlock()
	if !ok || session.Expired(s.now()) {
		return webstorage.Session{}, false, nil
	}
	return session, true, nil
}

// UpdateSessionRoom moves a live session to roomID.
func (s *Store) UpdateSessionRoom(_ context.Context, sessionID string, roomID string, updatedAt time.Time, expiresAt time.Time) error {
	if strings.TrimSpace(roomID) == "" {
		return fmt.Errorf("room id is required")
	}
	sessionID = strings.TrimSpace(sessionID)

	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[sessionID]
	if !ok || session.Expired(s.now()) {
		return fmt.Errorf("update session %q: %w", sessionID, webstorage.ErrSessionNotFound)
	}
	session.RoomID = roomID
	session.UpdatedAt = updatedAt
	session.ExpiresAt = expiresAt
	s.sessions[sessionID] = session
	return nil
}

// DeleteSession removes a session. Deleting a missing session is not an error.
func (s *Store) DeleteSession(_ context.Context, sessionID string) error {
	s.mu.Lock()
	delete(s.sessions, strings.TrimSpace(sessionID))
	s.mu.Unlock()
	return nil
}

// DeleteExpiredSessions prunes sessions expired at now.
func (s *Store) DeleteExpiredSessions(_ context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var removed int64
	for id, session := range s.sessions {
		if session.Expired(now) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed, nil
}

var _ webstorage.Store = (*Store)(nil)
