package repository

import (
	"context"
	"time"
)

// SessionStore keeps the session id to principal binding. Lookup returns
// ErrNotFound for unknown or expired sessions.
type SessionStore interface {
	Save(ctx context.Context, sessionID, userID string, ttl time.Duration) error
	Lookup(ctx context.Context, sessionID string) (string, error)
	Delete(ctx context.Context, sessionID string) error
}
