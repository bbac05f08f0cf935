package authapi

import (
	"time"

	"gate/cmd/identity"
)

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type authResponse struct {
	User userResponse `json:"user"`
}

type sessionUserResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type meResponse struct {
	User             sessionUserResponse `json:"user"`
	SessionExpiresAt time.Time           `json:"session_expires_at"`
}

func toUserResponse(u identity.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}
