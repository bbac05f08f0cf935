package identity

import (
	"context"
	"testing"
	"time"
)

func TestMemoryStore_CreateAndGet(t *testing.T) {
	t.Parallel()

	s := NewMemoryStore()
	ctx := context.Background()
	now := time.Now().UTC()

	created, err := s.CreateUser(ctx, CreateUserInput{
		Email:        "User@Example.com",
		PasswordHash: "c2FsdA.aGFzaA",
		Now:          now,
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if created.Email != "user@example.com" {
		t.Fatalf("email not normalized: %q", created.Email)
	}
	if len(created.ID) != 26 {
		t.Fatalf("expected ULID id, got %q", created.ID)
	}

	byEmail, err := s.GetByEmail(ctx, "  USER@example.COM ")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if byEmail.ID != created.ID {
		t.Fatalf("id mismatch: %q vs %q", byEmail.ID, created.ID)
	}

	byID, err := s.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if byID.Email != "user@example.com" {
		t.Fatalf("email mismatch: %q", byID.Email)
	}
}

func TestMemoryStore_ConflictEmail(t *testing.T) {
	t.Parallel()

	s := NewMemoryStore()
	ctx := context.Background()

	if _, err := s.CreateUser(ctx, CreateUserInput{Email: "a@example.com", PasswordHash: "x.y"}); err != nil {
		t.Fatalf("create user 1: %v", err)
	}

	_, err := s.CreateUser(ctx, CreateUserInput{Email: "A@Example.COM", PasswordHash: "x.z"})
	if !IsConflict(err) {
		t.Fatalf("expected conflict error, got: %v", err)
	}
}

func TestMemoryStore_NotFound(t *testing.T) {
	t.Parallel()

	s := NewMemoryStore()
	ctx := context.Background()

	if _, err := s.GetByEmail(ctx, "nobody@example.com"); !IsNotFound(err) {
		t.Fatalf("expected not found, got: %v", err)
	}
	if _, err := s.GetByID(ctx, "missing"); !IsNotFound(err) {
		t.Fatalf("expected not found, got: %v", err)
	}
}

func TestMemoryStore_Delete(t *testing.T) {
	t.Parallel()

	s := NewMemoryStore()
	ctx := context.Background()

	u, err := s.CreateUser(ctx, CreateUserInput{Email: "a@example.com", PasswordHash: "x.y"})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	s.Delete(ctx, u.ID)
	s.Delete(ctx, u.ID) // repeat is a no-op

	if _, err := s.GetByID(ctx, u.ID); !IsNotFound(err) {
		t.Fatalf("expected not found after delete, got: %v", err)
	}
}
