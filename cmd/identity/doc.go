// Package identity implements Gate's user identity foundation.
//
// It contains the user record, email canonicalization, id generation
// (ULID), and the persistence boundary used by the HTTP layer.
//
// Password hashing lives in cmd/security/password; this package stores
// and returns opaque hash strings without interpreting them.
package identity
