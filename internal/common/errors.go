// Package common defines shared constants and sentinel errors used across
// the editor and the draft service. Callers should use errors.Is to match
// these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors.
	ErrorInternal       = errors.New("internal error")
	ErrorUnauthorized   = errors.New("unauthorized")
	ErrorForbidden      = errors.New("forbidden")
	ErrorInvalidRequest = errors.New("invalid request")

	// Draft lifecycle errors.
	ErrAlreadyPublished = errors.New("draft already published")
	ErrDraftRejected    = errors.New("draft rejected by review")

	// Transport errors. ErrUnavailable marks failures worth retrying.
	ErrUnavailable = errors.New("server unavailable")

	// Auth errors (invalid, malformed or expired token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// ErrRateLimited is returned when a partner saves faster than allowed.
	ErrRateLimited = errors.New("rate limited")
)
