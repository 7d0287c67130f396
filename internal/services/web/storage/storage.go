package storage

import (
	"context"
	"errors"
	"time"
)

// ErrSessionNotFound reports a missing or expired session.
var ErrSessionNotFound = errors.New("session not found")

// Session is the per-browser game state.
type Session struct {
	ID        string
	RoomID    string
	CreatedAt time.Time
	UpdatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the session is past its expiry at now.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// Store persists sessions. Implementations must be safe for concurrent use.
type Store interface {
	Close() error
	// CreateSession inserts a new session; the id must be unused.
	CreateSession(ctx context.Context, session Session) error
	// GetSession loads a live session. Expired rows report found=false.
	GetSession(ctx context.Context, sessionID string) (Session, bool, error)
	// UpdateSessionRoom moves a live session to roomID and extends its expiry.
	UpdateSessionRoom(ctx context.Context, sessionID string, roomID string, updatedAt time.Time, expiresAt time.Time) error
	DeleteSession(ctx context.Context, sessionID string) error
	// DeleteExpiredSessions removes sessions expired at now and returns the count.
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)
}
