package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-process Store used by unit tests and db-less dev
// mode. User identity is resolved through the provided directory.
type MemoryStore struct {
	dir UserDirectory

	mu   sync.Mutex
	rows map[string]Session
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore(dir UserDirectory) *MemoryStore {
	return &MemoryStore{
		dir:  dir,
		rows: make(map[string]Session),
	}
}

func (s *MemoryStore) Insert(_ context.Context, sess Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[sess.ID] = sess
	return nil
}

func (s *MemoryStore) FindWithUser(ctx context.Context, sessionID string) (Session, Identity, error) {
	s.mu.Lock()
	sess, ok := s.rows[sessionID]
	s.mu.Unlock()

	if !ok {
		return Session{}, Identity{}, ErrSessionNotFound
	}

	u, err := s.dir.LookupUser(ctx, sess.UserID)
	if err != nil {
		return Session{}, Identity{}, err
	}
	return sess, u, nil
}

func (s *MemoryStore) UpdateExpiry(_ context.Context, sessionID string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.rows[sessionID]
	if !ok {
		return ErrSessionNotFound
	}
	sess.ExpiresAt = expiresAt
	s.rows[sessionID] = sess
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rows, sessionID)
	return nil
}

// Len reports the number of stored rows (test helper).
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows)
}
