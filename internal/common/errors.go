// Package common defines shared constants and sentinel errors used across
// the console. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Authentication and user management errors (local, synchronous).
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUsernameTaken      = errors.New("username taken")
	ErrLastAdminProtected = errors.New("cannot delete the last admin")

	// Session lifecycle errors.
	ErrSessionExpired = errors.New("session expired")
	ErrInvalidToken   = errors.New("invalid token")

	// Remote call errors.
	ErrUnauthorized = errors.New("unauthorized")
	ErrUnavailable  = errors.New("server unavailable")

	// Input validation errors, surfaced before submission.
	ErrValidation = errors.New("validation error")
)
