package identity

import "strings"

// NormalizeEmail performs case-insensitive canonicalization.
// Stored emails are always the normalized form; lookups normalize first,
// so "A@Example.com" and "a@example.com" name the same account.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
