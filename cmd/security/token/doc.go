// Package token generates opaque bearer tokens for Gate.
//
// It is the single source of truth for session-identifier entropy:
// tokens are raw crypto/rand bytes, base64url-encoded without padding,
// and carry no structure (no user data, no timestamps).
package token
