package repository

import (
	"context"
	"time"
)

// SessionStore maps opaque session ids to user ids with a fixed expiry.
// Lookup returns ErrNotFound for unknown or expired ids.
type SessionStore interface {
	Save(ctx context.Context, sid, userID string, ttl time.Duration) error
	Lookup(ctx context.Context, sid string) (string, error)
	Remove(ctx context.Context, sid string) error
}
