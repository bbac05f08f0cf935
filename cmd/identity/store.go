package identity

import (
	"context"
	"time"
)

// User is Gate's canonical security principal.
//
// Email is stored normalized (lower-case, trimmed) and is globally unique.
// PasswordHash is an opaque string produced by cmd/security/password; this
// package never inspects it.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// CreateUserInput describes a user registration request.
// The caller validates input shape and hashes the password before calling
// the store; the store owns id generation and uniqueness enforcement.
type CreateUserInput struct {
	Email        string
	PasswordHash string
	Now          time.Time
}

// Store is the identity persistence boundary.
type Store interface {
	// CreateUser inserts a new user. Returns ConflictError{Field: "email"}
	// when the normalized email is already taken.
	CreateUser(ctx context.Context, in CreateUserInput) (User, error)

	// GetByEmail loads a user by (normalized) email, including the stored
	// password hash. Returns a NotFoundError when no such user exists.
	GetByEmail(ctx context.Context, email string) (User, error)

	// GetByID loads a user by id. Returns a NotFoundError when no such
	// user exists.
	GetByID(ctx context.Context, id string) (User, error)
}
