// Package ident generates the random tokens attached to API calls:
// request IDs, idempotency keys, and W3C trace context values.
package ident

import (
	crand "crypto/rand"
	"encoding/hex"
	mrand "math/rand"
	"strings"

	"github.com/google/uuid"
)

// NewID returns a random version-4 UUID string backed by crypto/rand.
// If the strong source fails it falls back to a math/rand-filled UUID
// with the version and variant bits forced to v4; the fallback is the
// explicit last resort, never the default path.
func NewID() string {
	id, err := uuid.NewRandom()
	if err == nil {
		return id.String()
	}
	return weakID()
}

// weakID builds a v4-shaped UUID from math/rand. Only reachable when
// crypto/rand is unavailable.
func weakID() string {
	var b [16]byte
	for i := range b {
		b[i] = byte(mrand.Intn(256))
	}
	b[6] = (b[6] & 0x0f) | 0x40
	b[8] = (b[8] & 0x3f) | 0x80
	return uuid.UUID(b).String()
}

// NewRequestID returns a correlation ID for a single request attempt.
func NewRequestID() string {
	return NewID()
}

// NewIdempotencyKey returns a key scoping one logical mutating call.
// The caller is responsible for reusing it verbatim across retries.
func NewIdempotencyKey() string {
	return NewID()
}

// NewTraceParent creates a W3C traceparent header value.
// Format: version(2)-trace-id(32)-span-id(16)-flags(2), e.g., "00-<32>-<16>-01".
func NewTraceParent() string {
	traceID := make([]byte, 16)
	spanID := make([]byte, 8)
	if _, err := crand.Read(traceID); err != nil {
		fillWeak(traceID)
	}
	if _, err := crand.Read(spanID); err != nil {
		fillWeak(spanID)
	}
	if allZero(traceID) {
		traceID[len(traceID)-1] = 0x01
	}
	if allZero(spanID) {
		spanID[len(spanID)-1] = 0x01
	}
	return "00-" + hex.EncodeToString(traceID) + "-" + hex.EncodeToString(spanID) + "-01"
}

// TraceIDFromParent extracts the trace-id field from a traceparent value.
// Returns "" when the value is not version-traceid-spanid-flags shaped.
func TraceIDFromParent(traceparent string) string {
	parts := strings.Split(traceparent, "-")
	if len(parts) != 4 || len(parts[1]) != 32 {
		return ""
	}
	return parts[1]
}

func fillWeak(b []byte) {
	for i := range b {
		b[i] = byte(mrand.Intn(256))
	}
}

func allZero(b []byte) bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}
