package token

import "testing"

func TestNewOpaque_Unique(t *testing.T) {
	a, err := NewOpaque(32)
	if err != nil {
		t.Fatalf("NewOpaque: %v", err)
	}
	b, err := NewOpaque(32)
	if err != nil {
		t.Fatalf("NewOpaque: %v", err)
	}
	if a == b {
		t.Fatalf("two tokens must differ")
	}
}

func TestNewOpaque_DefaultSize(t *testing.T) {
	tok, err := NewOpaque(0)
	if err != nil {
		t.Fatalf("NewOpaque: %v", err)
	}
	// 32 bytes -> 43 base64url chars without padding.
	if len(tok) != 43 {
		t.Fatalf("unexpected token length %d", len(tok))
	}
}
