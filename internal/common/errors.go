// Package common defines shared constants and sentinel errors used across
// the vaultctl client layers. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Backend-level errors.
	ErrorNotFound = errors.New("not found")
	ErrorInternal = errors.New("internal error")

	// ErrorUnauthorized maps to an HTTP 401 and is the sole trigger for a
	// forced logout.
	ErrorUnauthorized = errors.New("unauthorized")

	// Token lifecycle errors (session restore path).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// ErrorValidation marks input rejected locally, before any network call.
	ErrorValidation = errors.New("validation error")
)
