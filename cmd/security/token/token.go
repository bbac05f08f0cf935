package token

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// DefaultBytes is the entropy size used when callers pass a non-positive size.
// 32 bytes = 256 bits, well above the 128-bit floor for unguessable ids.
const DefaultBytes = 32

// NewOpaque returns a cryptographically random opaque token.
// It is URL-safe (base64url, no padding) and safe to carry in a cookie.
//
// A randomness failure is returned as an error, never as a weak token.
func NewOpaque(nBytes int) (string, error) {
	if nBytes <= 0 {
		nBytes = DefaultBytes
	}

	b := make([]byte, nBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("token: rand: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(b), nil
}
