package password

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

// Hash hashes a password using PBKDF2-HMAC-SHA256 and returns an encoded
// hash string. Format:
// <salt_b64>.<key_b64>
//
// A fresh random salt is generated per call, so hashing the same password
// twice yields different strings. Policy is NOT applied here; any string,
// including the empty one, is hashable.
func (c Config) Hash(password string) (string, error) {
	salt := make([]byte, c.Params.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("salt: %w", err)
	}

	key := pbkdf2.Key(
		[]byte(password),
		salt,
		c.Params.Iterations,
		c.Params.KeyLength,
		sha256.New,
	)

	b64 := base64.RawStdEncoding
	return b64.EncodeToString(salt) + "." + b64.EncodeToString(key), nil
}

// Verify checks whether password matches the given encoded hash.
// Returns (true, nil) for a match, (false, nil) for mismatch,
// and (false, ErrInvalidHash) for malformed hashes.
//
// The comparison is constant-time over the derived key.
func (c Config) Verify(encodedHash, password string) (bool, error) {
	salt, expected, err := decode(encodedHash)
	if err != nil {
		return false, err
	}

	key := pbkdf2.Key(
		[]byte(password),
		salt,
		c.Params.Iterations,
		len(expected),
		sha256.New,
	)

	if subtle.ConstantTimeCompare(key, expected) == 1 {
		return true, nil
	}
	return false, nil
}

// VerifyQuiet is the outer verification boundary: every failure mode,
// including a malformed stored hash, collapses to false. A caller that
// wants the distinction for logging uses Verify directly.
func (c Config) VerifyQuiet(encodedHash, password string) bool {
	ok, err := c.Verify(encodedHash, password)
	return err == nil && ok
}

// decode parses the encoded hash and returns salt and expected key.
func decode(encoded string) ([]byte, []byte, error) {
	// Expected: <salt_b64>.<key_b64>
	parts := strings.Split(encoded, ".")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return nil, nil, ErrInvalidHash
	}

	b64 := base64.RawStdEncoding
	salt, err := b64.DecodeString(parts[0])
	if err != nil {
		return nil, nil, ErrInvalidHash
	}
	key, err := b64.DecodeString(parts[1])
	if err != nil {
		return nil, nil, ErrInvalidHash
	}

	// Anti-DoS boundary: stored strings are untrusted input. Refuse sizes
	// outside what this deployment could ever have produced.
	if len(salt) < 8 || len(salt) > 64 {
		return nil, nil, ErrInvalidHash
	}
	if len(key) < 16 || len(key) > 128 {
		return nil, nil, ErrInvalidHash
	}

	return salt, key, nil
}
