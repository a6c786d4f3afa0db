// Package common defines shared constants and sentinel errors used across
// the account service. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("unique constraint violation")

	// Service-level errors.
	ErrInternal           = errors.New("internal error")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrExhaustedRetries   = errors.New("registration retries exhausted")

	// Auth errors (invalid, expired or wrong-type token).
	ErrInvalidToken = errors.New("invalid token")
)
