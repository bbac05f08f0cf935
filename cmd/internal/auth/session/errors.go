package session

import "errors"

var (
	// ErrSessionNotFound is returned by stores when an id matches no row.
	// The Manager absorbs it into the "no session" result.
	ErrSessionNotFound = errors.New("session not found")

	// ErrUserNotFound is returned by stores/directories when a session's
	// owning user no longer exists. The Manager treats the session as dead.
	ErrUserNotFound = errors.New("session user not found")

	// ErrConfig is returned for invalid configuration.
	ErrConfig = errors.New("invalid config")
)
