// Package password provides password hashing and verification for Gate.
//
// It implements PBKDF2-HMAC-SHA256 over an opaque "salt.hash" encoded
// string and includes:
// - Configurable derivation parameters (via environment variables)
// - Optional password policy validation for callers that want it
// - Strict hash decoding with anti-DoS bounds during Verify
//
// Security notes:
// - Stored hash strings are treated as untrusted input during Verify.
// - The encoded format carries no cost parameters; iteration count is a
//   deployment constant, so changing it invalidates previously stored
//   hashes unless they are migrated.
// - Policy checks are a caller concern: Hash accepts any string,
//   including the empty one.
package password
