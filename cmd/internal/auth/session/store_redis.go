package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore implements Store over Redis.
//
// Rows are JSON blobs under "session:<id>" whose TTL tracks the expiry,
// so Redis evicts dead sessions on its own; the Manager's delete-on-read
// then only matters in the window between logical and physical expiry.
// User identity is resolved through the provided directory since Redis
// cannot join against the users table.
type RedisStore struct {
	client *redis.Client
	dir    UserDirectory
	prefix string
}

type redisRow struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// NewRedisStore creates a Redis-backed session store.
func NewRedisStore(client *redis.Client, dir UserDirectory) *RedisStore {
	return &RedisStore{
		client: client,
		dir:    dir,
		prefix: "session:",
	}
}

func (s *RedisStore) key(sessionID string) string {
	return s.prefix + sessionID
}

func (s *RedisStore) Insert(ctx context.Context, sess Session) error {
	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		return fmt.Errorf("session: expires_at must be in the future")
	}

	data, err := json.Marshal(redisRow{
		ID:        sess.ID,
		UserID:    sess.UserID,
		ExpiresAt: sess.ExpiresAt,
	})
	if err != nil {
		return fmt.Errorf("session: marshal: %w", err)
	}

	return s.client.Set(ctx, s.key(sess.ID), data, ttl).Err()
}

func (s *RedisStore) FindWithUser(ctx context.Context, sessionID string) (Session, Identity, error) {
	val, err := s.client.Get(ctx, s.key(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return Session{}, Identity{}, ErrSessionNotFound
	}
	if err != nil {
		return Session{}, Identity{}, err
	}

	var row redisRow
	if err := json.Unmarshal([]byte(val), &row); err != nil {
		return Session{}, Identity{}, fmt.Errorf("session: unmarshal: %w", err)
	}

	u, err := s.dir.LookupUser(ctx, row.UserID)
	if err != nil {
		return Session{}, Identity{}, err
	}

	return Session{ID: row.ID, UserID: row.UserID, ExpiresAt: row.ExpiresAt}, u, nil
}

func (s *RedisStore) UpdateExpiry(ctx context.Context, sessionID string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		// An expiry rewrite into the past is a delete.
		return s.client.Del(ctx, s.key(sessionID)).Err()
	}

	val, err := s.client.Get(ctx, s.key(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return ErrSessionNotFound
	}
	if err != nil {
		return err
	}

	var row redisRow
	if err := json.Unmarshal([]byte(val), &row); err != nil {
		return fmt.Errorf("session: unmarshal: %w", err)
	}

	row.ExpiresAt = expiresAt
	data, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("session: marshal: %w", err)
	}

	return s.client.Set(ctx, s.key(sessionID), data, ttl).Err()
}

func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, s.key(sessionID)).Err()
}
