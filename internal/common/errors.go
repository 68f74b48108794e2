// Package common defines shared constants and sentinel errors used across
// the trophy server layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")
	ErrConflict   = errors.New("conflict")

	// Service-level errors (generic/internal flow control).
	ErrorInternal         = errors.New("internal error")
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrValidation         = errors.New("validation error")

	// Credential and authorization errors.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrIdentityNotFound   = errors.New("identity not found")
	ErrForbidden          = errors.New("forbidden")
	ErrTooManyAttempts    = errors.New("too many attempts")

	// Token errors.
	ErrInvalidSignature = errors.New("invalid token signature")
	ErrTokenExpired     = errors.New("token expired")
	ErrMalformedToken   = errors.New("malformed token")
)
