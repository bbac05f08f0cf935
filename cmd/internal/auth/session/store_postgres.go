package session

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore implements Store using PostgreSQL (gate.sessions).
//
// The pgx pool is owned by the caller; this store must NOT close it.
// The ON DELETE CASCADE foreign key on user_id means a session can never
// outlive its user here, so FindWithUser joins in a single query.
type PostgresStore struct {
	pool   *pgxpool.Pool
	schema string
}

// PostgresStoreOption configures the store.
type PostgresStoreOption func(*PostgresStore) error

var sessionIdentRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// WithStoreSchema sets the Postgres schema used by the session store (default "gate").
func WithStoreSchema(schema string) PostgresStoreOption {
	return func(s *PostgresStore) error {
		schema = strings.TrimSpace(schema)
		if schema == "" || !sessionIdentRe.MatchString(schema) {
			return fmt.Errorf("session: invalid schema identifier")
		}
		s.schema = schema
		return nil
	}
}

// NewPostgresStore creates a Postgres-backed session store.
func NewPostgresStore(pool *pgxpool.Pool, opts ...PostgresStoreOption) (*PostgresStore, error) {
	st := &PostgresStore{pool: pool, schema: "gate"}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(st); err != nil {
			return nil, err
		}
	}
	if st.pool == nil {
		return nil, fmt.Errorf("session: nil pool")
	}
	return st, nil
}

func (s *PostgresStore) table(name string) string {
	return pgx.Identifier{s.schema, name}.Sanitize()
}

// Insert persists a new session row.
func (s *PostgresStore) Insert(ctx context.Context, sess Session) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO `+s.table("sessions")+` (id, user_id, expires_at)
		VALUES ($1, $2, $3)
	`, sess.ID, sess.UserID, sess.ExpiresAt)
	return err
}

// FindWithUser loads a session joined with its owning user.
func (s *PostgresStore) FindWithUser(ctx context.Context, sessionID string) (Session, Identity, error) {
	var (
		sess Session
		user Identity
	)

	err := s.pool.QueryRow(ctx, `
		SELECT s.id, s.user_id, s.expires_at, u.email
		FROM `+s.table("sessions")+` s
		JOIN `+s.table("users")+` u ON u.id = s.user_id
		WHERE s.id = $1
	`, sessionID).Scan(
		&sess.ID,
		&sess.UserID,
		&sess.ExpiresAt,
		&user.Email,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Session{}, Identity{}, ErrSessionNotFound
	}
	if err != nil {
		return Session{}, Identity{}, err
	}

	user.UserID = sess.UserID
	return sess, user, nil
}

// UpdateExpiry rewrites the absolute expiry of a session.
func (s *PostgresStore) UpdateExpiry(ctx context.Context, sessionID string, expiresAt time.Time) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE `+s.table("sessions")+`
		SET expires_at = $2
		WHERE id = $1
	`, sessionID, expiresAt)
	return err
}

// Delete removes a session row (idempotent).
func (s *PostgresStore) Delete(ctx context.Context, sessionID string) error {
	_, err := s.pool.Exec(ctx, `
		DELETE FROM `+s.table("sessions")+`
		WHERE id = $1
	`, sessionID)
	return err
}
