package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Sentinel errors for errors.Is() checks
var (
	// ErrMissingToken is returned when no API token is provided.
	ErrMissingToken = errors.New("API token is required")

	// ErrMissingBaseURL is returned when no base URL is provided.
	ErrMissingBaseURL = errors.New("base URL is required")

	// ErrUnauthorized is returned when the API token is invalid or expired.
	ErrUnauthorized = errors.New("invalid or expired API token")

	// ErrNotFound is returned when the requested resource does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrConflict is returned when the request conflicts with resource state,
	// such as holding more seats than a departure has available.
	ErrConflict = errors.New("conflicting resource state")

	// ErrHoldExpired is returned when confirming a hold whose TTL has elapsed.
	ErrHoldExpired = errors.New("hold has expired")

	// ErrRateLimited is returned when the API rate limit is exceeded.
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrIdempotencyKeyMismatch is returned when an idempotency key is reused
	// with a different request body.
	ErrIdempotencyKeyMismatch = errors.New("idempotency key reused with a different request body")
)

// CodeIdempotencyKeyMismatch is the problem code the API attaches when an
// idempotency key is replayed with a different body.
const CodeIdempotencyKeyMismatch = "IDEMPOTENCY_KEY_MISMATCH"

// Kind discriminates the closed set of failure categories the client
// produces. Callers switch on it instead of asserting concrete types.
type Kind string

const (
	// KindAPI is a non-2xx response with a Problem body attached.
	KindAPI Kind = "api"
	// KindNetwork is a transport failure with no authoritative response.
	KindNetwork Kind = "network"
	// KindTimeout is a deadline expiry, per attempt or whole call.
	KindTimeout Kind = "timeout"
	// KindIdempotency is a server-detected idempotency key reuse conflict.
	KindIdempotency Kind = "idempotency"
	// KindConfig is a local configuration or usage failure. Never retried.
	KindConfig Kind = "config"
	// KindValidation is a local pre-flight request validation failure.
	// The request never reached the network.
	KindValidation Kind = "validation"
)

// Error is the single failure type surfaced by the client. Kind tells the
// caller which of the remaining fields are meaningful: Problem and Status for
// KindAPI/KindIdempotency, Timeout for KindTimeout, Violations for
// KindValidation, Err for wrapped causes.
type Error struct {
	Kind       Kind
	Op         string // "service.method" of the failed call, if any
	Status     int
	Problem    *Problem
	Retryable  bool
	Timeout    time.Duration
	Attempts   int
	RequestID  string
	TraceID    string
	Violations []Violation
	Err        error
}

func (e *Error) Error() string {
	var msg string
	switch e.Kind {
	case KindAPI, KindIdempotency:
		if e.Problem != nil && e.Problem.String() != "" {
			msg = fmt.Sprintf("API error %d: %s", e.Status, e.Problem.String())
		} else {
			msg = fmt.Sprintf("API error %d", e.Status)
		}
		if e.RequestID != "" {
			msg += fmt.Sprintf(" (request_id: %s)", e.RequestID)
		}
	case KindTimeout:
		msg = fmt.Sprintf("timed out after %v", e.Timeout)
	case KindNetwork:
		msg = fmt.Sprintf("network error: %v", e.Err)
	case KindValidation:
		msg = "validation failed: " + joinViolations(e.Violations)
	case KindConfig:
		if e.Err != nil {
			msg = e.Err.Error()
		} else {
			msg = "invalid client configuration"
		}
	default:
		msg = fmt.Sprintf("error: %v", e.Err)
	}

	if e.Op != "" {
		return e.Op + ": " + msg
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for sentinel error matching.
func (e *Error) Is(target error) bool {
	if e.Kind == KindIdempotency && target == ErrIdempotencyKeyMismatch {
		return true
	}
	switch e.Status {
	case http.StatusUnauthorized:
		return target == ErrUnauthorized
	case http.StatusNotFound:
		return target == ErrNotFound
	case http.StatusConflict:
		return target == ErrConflict
	case http.StatusGone:
		return target == ErrHoldExpired
	case http.StatusTooManyRequests:
		return target == ErrRateLimited
	}
	return false
}

func joinViolations(violations []Violation) string {
	if len(violations) == 0 {
		return "invalid request"
	}
	parts := make([]string, 0, len(violations))
	for _, v := range violations {
		if v.Path != "" {
			parts = append(parts, v.Path+": "+v.Message)
		} else {
			parts = append(parts, v.Message)
		}
	}
	return strings.Join(parts, "; ")
}

// classifyResponse maps a non-2xx response to an Error. The status-derived
// retryability defaults follow one rule set: 5xx and 429 retry, other 4xx do
// not. An explicit retryable flag in the problem body overrides the default
// in either direction. An idempotency key mismatch stays final regardless:
// replaying the same key with the same differing payload cannot succeed.
func classifyResponse(op string, status int, problem *Problem, requestID string) *Error {
	e := &Error{
		Kind:      KindAPI,
		Op:        op,
		Status:    status,
		Problem:   problem,
		RequestID: requestID,
	}
	if problem != nil {
		e.TraceID = problem.TraceID
		e.Violations = problem.Violations
	}

	switch {
	case problem != nil && problem.Code == CodeIdempotencyKeyMismatch:
		e.Kind = KindIdempotency
		e.Retryable = false
	case status >= 500:
		e.Retryable = true
	case status == http.StatusTooManyRequests:
		e.Retryable = true
	default:
		e.Retryable = false
	}

	if problem != nil && problem.Retryable != nil && e.Kind != KindIdempotency {
		e.Retryable = *problem.Retryable
	}
	return e
}

// newTimeoutError reports a deadline expiry. Per-attempt expiries are
// retryable; a whole-call deadline is final.
func newTimeoutError(op string, timeout time.Duration, retryable bool) *Error {
	return &Error{
		Kind:      KindTimeout,
		Op:        op,
		Timeout:   timeout,
		Retryable: retryable,
		Err:       context.DeadlineExceeded,
	}
}

// newNetworkError wraps a transport failure with no authoritative response.
func newNetworkError(op string, err error) *Error {
	return &Error{
		Kind:      KindNetwork,
		Op:        op,
		Retryable: true,
		Err:       err,
	}
}

// newConfigError reports local misconfiguration or misuse. Never retried.
func newConfigError(err error) *Error {
	return &Error{
		Kind: KindConfig,
		Err:  err,
	}
}

// newValidationError reports a pre-flight validation failure. The request
// never left the process.
func newValidationError(op string, violations []Violation) *Error {
	return &Error{
		Kind:       KindValidation,
		Op:         op,
		Violations: violations,
	}
}
