// Package session implements Gate's session lifecycle.
//
// A session is an opaque high-entropy bearer token bound to a user with
// an absolute expiry. Validation applies sliding renewal: once more than
// the renewal window of the lifetime has elapsed, the expiry is rewritten
// to a full lifetime from now, so continuously active sessions never
// lapse while idle ones die exactly one lifetime after last renewal.
//
// Expired rows are logically dead as soon as their timestamp passes and
// are physically deleted when validation encounters them (no background
// sweep). Store I/O failures always propagate; "no session" is a normal
// result, never an error.
//
// Transport (HTTP cookie) helpers live in cookie.go; everything else is
// transport-agnostic.
package session
