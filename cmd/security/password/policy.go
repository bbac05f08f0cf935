package password

import "unicode/utf8"

// Validate checks password policy. It does not mutate input.
//
// The hasher never calls this; registration-style callers apply it before
// hashing so that stored hashes stay independent of the policy in force.
func (c Config) Validate(password string) error {
	// Count characters (runes), not bytes, to be user-friendly.
	n := utf8.RuneCountInString(password)

	if n < c.Policy.MinLength {
		return ErrPasswordTooShort
	}
	if n > c.Policy.MaxLength {
		return ErrPasswordTooLong
	}

	return nil
}
