package session

import (
	"context"
	"time"
)

// Session is an authorization grant: an opaque bearer id bound to a user
// with an absolute expiry. It intentionally stores only identity
// pointers, not auth state.
type Session struct {
	ID        string
	UserID    string
	ExpiresAt time.Time
}

// Identity is the public identity resolved from a bearer token.
type Identity struct {
	UserID string
	Email  string
}

// Validated pairs a live session with its owning user's public identity.
type Validated struct {
	Session Session
	User    Identity
}

// Store abstracts session persistence.
//
// Session-id uniqueness is a store-level invariant (primary key).
// Implementations return ErrSessionNotFound / ErrUserNotFound for the
// absence cases and pass every other failure through unchanged.
type Store interface {
	// Insert persists a new session row.
	Insert(ctx context.Context, s Session) error

	// FindWithUser loads a session joined with its owning user.
	FindWithUser(ctx context.Context, sessionID string) (Session, Identity, error)

	// UpdateExpiry rewrites the absolute expiry of a session.
	UpdateExpiry(ctx context.Context, sessionID string, expiresAt time.Time) error

	// Delete removes a session row. Deleting an absent id is a no-op.
	Delete(ctx context.Context, sessionID string) error
}

// UserDirectory resolves the public identity bound to a user id. It is
// used by stores that keep sessions outside the relational database
// (Redis, in-memory) and therefore cannot join against the users table.
type UserDirectory interface {
	LookupUser(ctx context.Context, userID string) (Identity, error)
}
