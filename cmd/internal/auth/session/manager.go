package session

import (
	"context"
	"errors"
	"strings"
	"time"

	"gate/cmd/security/token"
)

// Manager implements the session lifecycle: create, validate with
// sliding renewal, invalidate.
//
// It holds no in-process state; every operation round-trips the store.
// All time-dependent operations take an explicit now so tests can drive
// near-expiry and post-expiry conditions deterministically.
type Manager struct {
	cfg     Config
	store   Store
	metrics Metrics
}

// Metrics receives lifecycle events. The Manager never blocks on it.
type Metrics interface {
	SessionCreated()
	SessionRenewed()
	SessionExpired()
}

type nopMetrics struct{}

func (nopMetrics) SessionCreated() {}
func (nopMetrics) SessionRenewed() {}
func (nopMetrics) SessionExpired() {}

// ManagerOption configures optional Manager dependencies.
type ManagerOption func(*Manager)

// WithMetrics overrides the default no-op metrics sink.
func WithMetrics(m Metrics) ManagerOption {
	return func(mgr *Manager) {
		if mgr == nil || m == nil {
			return
		}
		mgr.metrics = m
	}
}

// NewManager constructs a Manager with the provided configuration and store.
func NewManager(cfg Config, store Store, opts ...ManagerOption) *Manager {
	m := &Manager{cfg: cfg, store: store, metrics: nopMetrics{}}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(m)
	}
	return m
}

// Create generates a fresh unguessable session id, grants a full
// lifetime from now, and persists the row. It fails only when the id
// cannot be generated or the store rejects the write.
func (m *Manager) Create(ctx context.Context, now time.Time, userID string) (Session, error) {
	id, err := token.NewOpaque(m.cfg.TokenBytes)
	if err != nil {
		return Session{}, err
	}

	s := Session{
		ID:        id,
		UserID:    userID,
		ExpiresAt: now.Add(m.cfg.SessionDuration),
	}

	if err := m.store.Insert(ctx, s); err != nil {
		return Session{}, err
	}

	m.metrics.SessionCreated()
	return s, nil
}

// Validate resolves a bearer id to its session and owning user.
//
// It returns (nil, nil) for "no session": unknown id, expired row
// (deleted on read), or an orphaned session whose user is gone. A live
// session whose remaining validity has dropped to the renewal window or
// below gets its expiry rewritten to now + SessionDuration before being
// returned. Store I/O failures propagate unchanged so callers can tell
// "reject this request" from "backend is down".
//
// Two concurrent validations near the renewal boundary may both extend
// the expiry; the writes target the same value, so the race is benign.
func (m *Manager) Validate(ctx context.Context, now time.Time, sessionID string) (*Validated, error) {
	sessionID = strings.TrimSpace(sessionID)
	// Sanity bounds against pathological cookie values.
	if sessionID == "" || len(sessionID) > 512 {
		return nil, nil
	}

	s, u, err := m.store.FindWithUser(ctx, sessionID)
	switch {
	case errors.Is(err, ErrSessionNotFound):
		return nil, nil
	case errors.Is(err, ErrUserNotFound):
		// Orphaned grant: the user is gone, the session must not survive.
		if derr := m.store.Delete(ctx, sessionID); derr != nil {
			return nil, derr
		}
		return nil, nil
	case err != nil:
		return nil, err
	}

	// Lazy expiry: a past timestamp means the row is already dead.
	if !s.ExpiresAt.After(now) {
		if err := m.store.Delete(ctx, s.ID); err != nil {
			return nil, err
		}
		m.metrics.SessionExpired()
		return nil, nil
	}

	if s.ExpiresAt.Sub(now) <= m.cfg.RenewWithin {
		s.ExpiresAt = now.Add(m.cfg.SessionDuration)
		if err := m.store.UpdateExpiry(ctx, s.ID, s.ExpiresAt); err != nil {
			return nil, err
		}
		m.metrics.SessionRenewed()
	}

	return &Validated{Session: s, User: u}, nil
}

// Invalidate deletes a session if present. An unknown id is a no-op.
func (m *Manager) Invalidate(ctx context.Context, sessionID string) error {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil
	}
	return m.store.Delete(ctx, sessionID)
}
