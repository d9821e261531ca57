// Package common defines shared constants and sentinel errors used across
// the passvault client. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Remote store errors.
	ErrNotFound         = errors.New("not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrStoreUnavailable = errors.New("store unavailable")

	// Credential store lifecycle errors.
	ErrNotInitialized = errors.New("not initialized")

	// Import errors.
	ErrMalformedImport = errors.New("malformed import")

	// Identity provider errors.
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidToken = errors.New("invalid token")
)
