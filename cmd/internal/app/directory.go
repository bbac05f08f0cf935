package app

import (
	"context"

	"gate/cmd/identity"
	"gate/cmd/internal/auth/session"
)

// identityDirectory adapts the identity store to the session package's user
// directory, for session stores that cannot join against the users table.
type identityDirectory struct {
	users identity.Store
}

func (d identityDirectory) LookupUser(ctx context.Context, userID string) (session.Identity, error) {
	u, err := d.users.GetByID(ctx, userID)
	if err != nil {
		if identity.IsNotFound(err) {
			return session.Identity{}, session.ErrUserNotFound
		}
		return session.Identity{}, err
	}
	return session.Identity{UserID: u.ID, Email: u.Email}, nil
}
