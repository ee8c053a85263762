package tourbook

import (
	"errors"

	"github.com/tourbook/client-go/internal/api"
)

// Error is the single failure type returned by the client. Inspect Kind to
// learn which fields are meaningful, or match conditions with errors.Is
// against the sentinels below.
type Error = api.Error

// Kind discriminates the failure classes of Error.
type Kind = api.Kind

// Failure classes.
const (
	// KindAPI is an authoritative non-2xx response from the server.
	KindAPI = api.KindAPI
	// KindNetwork is a transport failure with no authoritative response.
	KindNetwork = api.KindNetwork
	// KindTimeout is a deadline expiry, per attempt or whole call.
	KindTimeout = api.KindTimeout
	// KindIdempotency is an idempotency key replayed with a different body.
	KindIdempotency = api.KindIdempotency
	// KindConfig is local misconfiguration; the request never left.
	KindConfig = api.KindConfig
	// KindValidation is a pre-flight request validation failure.
	KindValidation = api.KindValidation
)

// Problem is the RFC 9457 error body returned by the API.
type Problem = api.Problem

// Violation is one field-level validation failure.
type Violation = api.Violation

// Sentinel errors for errors.Is() checks.
var (
	// ErrMissingToken is returned when no API token is provided.
	ErrMissingToken = api.ErrMissingToken

	// ErrMissingBaseURL is returned when no base URL is provided.
	ErrMissingBaseURL = api.ErrMissingBaseURL

	// ErrUnauthorized is returned when the token is invalid or expired.
	ErrUnauthorized = api.ErrUnauthorized

	// ErrNotFound is returned when a referenced entity does not exist.
	ErrNotFound = api.ErrNotFound

	// ErrConflict is returned on state conflicts such as a full departure or
	// insufficient remaining capacity.
	ErrConflict = api.ErrConflict

	// ErrHoldExpired is returned when confirming a hold that already lapsed.
	ErrHoldExpired = api.ErrHoldExpired

	// ErrRateLimited is returned when the API rate limit is exceeded.
	ErrRateLimited = api.ErrRateLimited

	// ErrIdempotencyKeyMismatch is returned when an idempotency key is
	// replayed with a different request body.
	ErrIdempotencyKeyMismatch = api.ErrIdempotencyKeyMismatch
)

// CodeIdempotencyKeyMismatch is the problem code the server attaches to an
// idempotency key replay with a different body.
const CodeIdempotencyKeyMismatch = api.CodeIdempotencyKeyMismatch

// AsError unwraps err into the client's *Error, if it is one. Cancellation
// through the caller's own context is the one failure that is not.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsRetryable reports whether err is a failure the client considers safe to
// try again, either by its own retry loop or by the caller.
func IsRetryable(err error) bool {
	if e, ok := AsError(err); ok {
		return e.Retryable
	}
	return false
}
