package session

import (
	"os"
	"strconv"
	"time"
)

// Config defines all runtime configuration for the session subsystem.
//
// It controls session lifetime, the sliding-renewal window, and session
// token entropy. The struct is intentionally explicit and
// environment-driven so production deployments can tune parameters
// without code changes.
type Config struct {
	// SessionDuration is the full lifetime granted at creation and at
	// every renewal.
	SessionDuration time.Duration

	// RenewWithin is the remaining-validity threshold at or below which
	// Validate rewrites the expiry to a full SessionDuration from now.
	RenewWithin time.Duration

	// TokenBytes defines the number of random bytes used to generate
	// opaque session identifiers.
	TokenBytes int
}

// DefaultConfig returns a secure default configuration.
//
// Production environments can override values via environment variables.
func DefaultConfig() Config {
	return Config{
		SessionDuration: 30 * 24 * time.Hour,
		RenewWithin:     15 * 24 * time.Hour,
		TokenBytes:      32,
	}
}

// LoadConfigFromEnv loads session configuration from environment variables.
//
// Optional (durations must be valid Go duration strings):
//   - GATE_SESSION_TTL
//   - GATE_SESSION_RENEW_WITHIN
//   - GATE_SESSION_TOKEN_BYTES
//
// When GATE_SESSION_TTL is set without GATE_SESSION_RENEW_WITHIN, the
// renewal window defaults to half the lifetime.
//
// Returns ErrConfig if configuration is invalid.
func LoadConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()

	if v := os.Getenv("GATE_SESSION_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return Config{}, ErrConfig
		}
		cfg.SessionDuration = d
		cfg.RenewWithin = d / 2
	}

	if v := os.Getenv("GATE_SESSION_RENEW_WITHIN"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return Config{}, ErrConfig
		}
		cfg.RenewWithin = d
	}

	if v := os.Getenv("GATE_SESSION_TOKEN_BYTES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 16 || n > 64 {
			return Config{}, ErrConfig
		}
		cfg.TokenBytes = n
	}

	// Invariants: the renewal window must fit inside the lifetime.
	if cfg.RenewWithin > cfg.SessionDuration {
		return Config{}, ErrConfig
	}

	return cfg, nil
}
