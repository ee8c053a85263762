// Package api implements the wire protocol of the Tourbook RPC API: request
// validation and serialization, per-attempt header assembly, retry with
// exponential backoff, and the mapping of failures onto a single typed error.
//
// # Wire Protocol
//
// Every procedure is invoked as POST {baseURL}/v1/{service}/{method} with a
// JSON body and a JSON response. [Call] executes one logical call: the body
// is validated and marshaled once, then each attempt sends the same bytes
// with a freshly built header set.
//
// # Headers
//
// Per attempt, the client sends Content-Type and Accept fixed to
// application/json, a bearer Authorization header unless the call is
// unauthenticated, the call's Idempotency-Key when one is set, a fresh
// x-request-id unless the caller pinned one, and a traceparent minted once
// per logical call. Default and per-call header maps merge last; an empty
// value removes the header entirely.
//
// # Retry Behavior
//
// Failed attempts are retried while the failure is retryable and attempts
// remain, with delays of min(BaseDelay * 2^attempt, MaxDelay) plus up to 10%
// additive jitter. A Retry-After hint from the server stretches the delay
// when it is longer than the computed one. There is no delay before the
// first attempt or after the final one. Timeouts come in two shapes:
//
//   - [Config.Timeout] bounds each attempt; expiry is retryable.
//   - [Config.OverallTimeout] bounds the whole logical call including
//     backoff; expiry is final.
//
// # Error Handling
//
// All failures surface as [*Error], tagged by [Kind]. Sentinel errors cover
// the common conditions:
//
//   - [ErrUnauthorized]: invalid or expired token (401).
//   - [ErrNotFound]: referenced entity does not exist (404).
//   - [ErrConflict]: state conflict such as insufficient capacity (409).
//   - [ErrHoldExpired]: hold no longer active (410).
//   - [ErrRateLimited]: rate limit exceeded (429).
//   - [ErrIdempotencyKeyMismatch]: key reused with a different payload (422).
//
// Use errors.Is to check for specific conditions:
//
//	if errors.Is(err, api.ErrRateLimited) {
//	    // Back off harder
//	}
//
// The only failure not wrapped in [*Error] is cancellation through the
// caller's own context, which is returned untouched.
//
// # Thread Safety
//
// The [Client] type is safe for concurrent use. Multiple goroutines may call
// [Call] on a single Client simultaneously.
package api
