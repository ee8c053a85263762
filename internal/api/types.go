package api

import (
	"net/http"
	"time"
)

// Response is the success envelope for one call: the decoded body plus the
// transport metadata callers use to correlate with server-side logs.
type Response[T any] struct {
	Data      T
	Status    int
	Header    http.Header
	RequestID string
	TraceID   string
	Duration  time.Duration
}

// CallConfig is the per-call override set, merged over client defaults.
// The zero value means "use the client default" for every field. Configs are
// ephemeral: built per logical call and discarded when it resolves.
type CallConfig struct {
	// IdempotencyKey scopes one logical mutating call. Resolved once before
	// the first attempt and reused verbatim on every retry.
	IdempotencyKey string
	// RequestID pins the correlation ID for every attempt of this call.
	// When empty, a fresh ID is generated per attempt.
	RequestID string
	// TraceParent pins the W3C trace context propagated with the call.
	// When empty, one is generated per logical call.
	TraceParent string
	// Timeout overrides the per-attempt deadline.
	Timeout time.Duration
	// Retry overrides the client retry policy.
	Retry *RetryPolicy
	// Headers merge over the client default headers; an empty value removes
	// the header entirely.
	Headers map[string]string
	// Unauthenticated drops the Authorization header for this call.
	Unauthenticated bool
}

// CallOption configures one call.
type CallOption func(*CallConfig)

// NewCallConfig applies opts over the zero config.
func NewCallConfig(opts ...CallOption) *CallConfig {
	cfg := &CallConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// WithIdempotencyKey pins the idempotency key for the call.
func WithIdempotencyKey(key string) CallOption {
	return func(c *CallConfig) {
		c.IdempotencyKey = key
	}
}

// WithRequestID pins the x-request-id for every attempt of the call.
func WithRequestID(id string) CallOption {
	return func(c *CallConfig) {
		c.RequestID = id
	}
}

// WithTraceParent pins the W3C traceparent propagated with the call.
func WithTraceParent(traceparent string) CallOption {
	return func(c *CallConfig) {
		c.TraceParent = traceparent
	}
}

// WithCallTimeout overrides the per-attempt timeout for the call.
func WithCallTimeout(timeout time.Duration) CallOption {
	return func(c *CallConfig) {
		c.Timeout = timeout
	}
}

// WithCallRetryPolicy overrides the retry policy for the call.
func WithCallRetryPolicy(policy RetryPolicy) CallOption {
	return func(c *CallConfig) {
		c.Retry = &policy
	}
}

// WithoutRetry disables retrying for the call.
func WithoutRetry() CallOption {
	return func(c *CallConfig) {
		c.Retry = &RetryPolicy{MaxAttempts: 1}
	}
}

// WithHeader merges a header over the defaults for the call. An empty value
// removes the header entirely.
func WithHeader(key, value string) CallOption {
	return func(c *CallConfig) {
		if c.Headers == nil {
			c.Headers = make(map[string]string)
		}
		c.Headers[key] = value
	}
}

// WithActor attributes the call to an operator via the X-Actor header.
func WithActor(actor string) CallOption {
	return func(c *CallConfig) {
		if c.Headers == nil {
			c.Headers = make(map[string]string)
		}
		c.Headers[HeaderActor] = actor
	}
}

// Unauthenticated omits the Authorization header for the call.
func Unauthenticated() CallOption {
	return func(c *CallConfig) {
		c.Unauthenticated = true
	}
}
