// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import "errors"

// Common sentinels across repo/service/transport layers.
var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrValidation indicates malformed input (shape, type or range).
	ErrValidation = errors.New("validation failed")

	// ErrAlreadyExists indicates a unique constraint violation (e.g., email taken).
	ErrAlreadyExists = errors.New("already exists")

	// ErrNotModified indicates an update that changed nothing.
	ErrNotModified = errors.New("not modified")

	// ErrInvalidCredentials indicates a failed login; it never tells which part was wrong.
	ErrInvalidCredentials = errors.New("email or password incorrect")

	// ErrUnauthenticated indicates a missing, invalid or expired session token.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrForbidden indicates a valid identity lacking the required permission.
	ErrForbidden = errors.New("forbidden")
)
