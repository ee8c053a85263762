package api

import (
	"net/http"

	"github.com/tourbook/client-go/internal/ident"
)

// Protocol header names.
const (
	HeaderAuthorization  = "Authorization"
	HeaderContentType    = "Content-Type"
	HeaderAccept         = "Accept"
	HeaderIdempotencyKey = "Idempotency-Key"
	HeaderRequestID      = "x-request-id"
	HeaderTraceParent    = "traceparent"
	HeaderTraceID        = "x-trace-id"
	HeaderActor          = "X-Actor"
	HeaderUserAgent      = "User-Agent"
	HeaderRetryAfter     = "Retry-After"
)

const contentTypeJSON = "application/json"

// headerSpec carries everything one attempt's headers are built from.
// extra maps merge last, in order; an empty value removes the header
// entirely, which is how unauthenticated calls drop Authorization.
type headerSpec struct {
	token          string
	idempotencyKey string
	requestID      string
	traceParent    string
	userAgent      string
	extra          []map[string]string
}

// buildHeaders assembles the header set for one attempt: fixed JSON content
// negotiation, then the conditional protocol headers, then extras in merge
// order.
func buildHeaders(spec headerSpec) http.Header {
	h := make(http.Header)
	h.Set(HeaderContentType, contentTypeJSON)
	h.Set(HeaderAccept, contentTypeJSON)

	if spec.userAgent != "" {
		h.Set(HeaderUserAgent, spec.userAgent)
	}
	if spec.token != "" {
		h.Set(HeaderAuthorization, "Bearer "+spec.token)
	}
	if spec.idempotencyKey != "" {
		h.Set(HeaderIdempotencyKey, spec.idempotencyKey)
	}
	if spec.requestID != "" {
		h.Set(HeaderRequestID, spec.requestID)
	}
	if spec.traceParent != "" {
		h.Set(HeaderTraceParent, spec.traceParent)
	}

	for _, m := range spec.extra {
		for k, v := range m {
			if v == "" {
				h.Del(k)
			} else {
				h.Set(k, v)
			}
		}
	}
	return h
}

// redactHeaders returns a copy safe for logging. Credential values are
// replaced, never printed.
func redactHeaders(h http.Header) http.Header {
	out := h.Clone()
	if out.Get(HeaderAuthorization) != "" {
		out.Set(HeaderAuthorization, "Bearer [REDACTED]")
	}
	return out
}

// responseRequestID extracts the correlation ID the server echoes back.
func responseRequestID(h http.Header) string {
	return h.Get(HeaderRequestID)
}

// responseTraceID extracts the trace ID from a response, checking the
// dedicated headers first and falling back to the traceparent the server
// propagates.
func responseTraceID(h http.Header) string {
	if v := h.Get(HeaderTraceID); v != "" {
		return v
	}
	if v := h.Get("trace-id"); v != "" {
		return v
	}
	return ident.TraceIDFromParent(h.Get(HeaderTraceParent))
}
