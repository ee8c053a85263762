package api

import (
	"context"
	"math"
	"math/rand"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Default retry policy values.
const (
	DefaultMaxAttempts = 3
	DefaultBaseDelay   = 500 * time.Millisecond
	DefaultMaxDelay    = 10 * time.Second
)

// jitterFraction is the additive jitter bound: up to 10% of the computed
// delay, to avoid synchronized retries across many clients.
const jitterFraction = 0.1

// RetryPolicy bounds the retry loop for one logical call. MaxAttempts counts
// attempts, not retries: a value of 1 disables retrying. Policies are never
// mutated after construction; override per call instead.
type RetryPolicy struct {
	// MaxAttempts is the total number of attempts, minimum 1.
	MaxAttempts int
	// BaseDelay is the delay before the first retry.
	BaseDelay time.Duration
	// MaxDelay caps the exponential growth of retry delays.
	MaxDelay time.Duration
	// ShouldRetry decides whether a failure may be retried. attempt is the
	// 0-based index of the attempt that just failed. When nil, the failure's
	// own retryability verdict decides.
	ShouldRetry func(err *Error, attempt int) bool
}

// DefaultRetryPolicy returns the policy used when none is configured:
// 3 attempts, 500ms base delay doubling up to 10s.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: DefaultMaxAttempts,
		BaseDelay:   DefaultBaseDelay,
		MaxDelay:    DefaultMaxDelay,
	}
}

// normalizePolicy fills unset fields with the defaults. A policy with
// MaxAttempts set to 1 stays a no-retry policy.
func normalizePolicy(p RetryPolicy) RetryPolicy {
	if p.MaxAttempts < 1 {
		p.MaxAttempts = DefaultMaxAttempts
	}
	if p.BaseDelay <= 0 {
		p.BaseDelay = DefaultBaseDelay
	}
	if p.MaxDelay <= 0 {
		p.MaxDelay = DefaultMaxDelay
	}
	return p
}

// retryable reports whether err may be retried after the given attempt.
// The attempts-remaining bound is enforced by the call loop, not here.
func (p RetryPolicy) retryable(err *Error, attempt int) bool {
	if p.ShouldRetry != nil {
		return p.ShouldRetry(err, attempt)
	}
	return err.Retryable
}

// lockedRand serializes access to an injected rand.Rand. A *rand.Rand is not
// safe for concurrent use, and one injected source is shared by the backoff
// of every call the client runs.
type lockedRand struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func newLockedRand(rnd *rand.Rand) *lockedRand {
	if rnd == nil {
		return nil
	}
	return &lockedRand{rnd: rnd}
}

func (r *lockedRand) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rnd.Float64()
}

// backoff computes the delay before retry attempt N:
// min(base * 2^attempt, max) plus additive jitter up to jitterFraction of
// the computed value. rnd is injectable so tests can assert exact bounds;
// nil uses the shared math/rand source, which locks internally.
type backoff struct {
	base time.Duration
	max  time.Duration
	rnd  *lockedRand
}

func (b backoff) delay(attempt int) time.Duration {
	if b.base <= 0 {
		return 0
	}
	d := float64(b.base) * math.Pow(2, float64(attempt))
	if b.max > 0 && d > float64(b.max) {
		d = float64(b.max)
	}
	d += d * jitterFraction * b.float64()
	return time.Duration(d)
}

func (b backoff) float64() float64 {
	if b.rnd != nil {
		return b.rnd.Float64()
	}
	return rand.Float64()
}

// retryAfter parses a Retry-After response header in delay-seconds form.
// The HTTP-date form is not produced by this API and is ignored.
func retryAfter(h http.Header) (time.Duration, bool) {
	v := strings.TrimSpace(h.Get("Retry-After"))
	if v == "" {
		return 0, false
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs < 0 {
		return 0, false
	}
	return time.Duration(secs) * time.Second, true
}

// sleepWithTimer waits out d, returning early with the context error if ctx
// is done first.
func sleepWithTimer(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
