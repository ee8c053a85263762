package tourbook

import (
	"math/rand"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/tourbook/client-go/internal/api"
)

// Doer executes one HTTP request. *http.Client satisfies it.
type Doer = api.Doer

// RetryPolicy bounds the retry loop for one logical call. MaxAttempts counts
// attempts, not retries: 1 disables retrying. Zero fields take the defaults.
type RetryPolicy = api.RetryPolicy

// DefaultRetryPolicy returns the policy used when none is configured:
// 3 attempts, 500ms base delay doubling up to 10s.
func DefaultRetryPolicy() RetryPolicy {
	return api.DefaultRetryPolicy()
}

const (
	defaultPollInterval    = time.Second
	defaultPollMaxInterval = 10 * time.Second
	defaultPollBudget      = 2 * time.Minute
	defaultPollConcurrency = 4
)

// clientConfig holds configuration for the client.
type clientConfig struct {
	httpClient     Doer
	timeout        time.Duration
	overallTimeout time.Duration
	retry          RetryPolicy
	userAgent      string
	headers        map[string]string
	logger         *zerolog.Logger
	debug          bool
	limiter        *rate.Limiter
	rnd            *rand.Rand
}

// pollConfig holds configuration for availability polling.
type pollConfig struct {
	interval    time.Duration
	maxInterval time.Duration
	budget      time.Duration
	concurrency int
}

// Option configures the client.
type Option func(*clientConfig)

// PollOption configures availability polling.
type PollOption func(*pollConfig)

// WithHTTPClient sets a custom HTTP client or transport.
func WithHTTPClient(client Doer) Option {
	return func(c *clientConfig) {
		c.httpClient = client
	}
}

// WithTimeout sets the per-attempt timeout.
// Default: 30 seconds
func WithTimeout(timeout time.Duration) Option {
	return func(c *clientConfig) {
		c.timeout = timeout
	}
}

// WithOverallTimeout bounds each logical call as a whole, including retries
// and the backoff pauses between them.
// Default: disabled
func WithOverallTimeout(timeout time.Duration) Option {
	return func(c *clientConfig) {
		c.overallTimeout = timeout
	}
}

// WithRetryPolicy sets the client-wide retry policy. Individual calls can
// override it with WithCallRetryPolicy or WithoutRetry.
func WithRetryPolicy(policy RetryPolicy) Option {
	return func(c *clientConfig) {
		c.retry = policy
	}
}

// WithUserAgent sets the User-Agent header sent on every request.
func WithUserAgent(userAgent string) Option {
	return func(c *clientConfig) {
		c.userAgent = userAgent
	}
}

// WithDefaultHeader adds a header to every request. Per-call headers merge
// over it; an empty value removes the header entirely.
func WithDefaultHeader(key, value string) Option {
	return func(c *clientConfig) {
		if c.headers == nil {
			c.headers = make(map[string]string)
		}
		c.headers[key] = value
	}
}

// WithLogger sets the logger for per-attempt debug output.
// Default: no logging
func WithLogger(logger zerolog.Logger) Option {
	return func(c *clientConfig) {
		c.logger = &logger
	}
}

// WithDebug enables debug logging to stderr when no logger is injected.
func WithDebug(debug bool) Option {
	return func(c *clientConfig) {
		c.debug = debug
	}
}

// WithRateLimit paces outbound attempts client-side at rps requests per
// second with the given burst.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *clientConfig) {
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithRand sets the random source used for backoff jitter. Useful for
// deterministic tests.
func WithRand(rnd *rand.Rand) Option {
	return func(c *clientConfig) {
		c.rnd = rnd
	}
}

// CallOption configures one call.
type CallOption = api.CallOption

// WithIdempotencyKey pins the idempotency key for a call. When omitted on an
// operation that requires one, the client mints a key itself; pin it to make
// retries across process restarts safe.
func WithIdempotencyKey(key string) CallOption {
	return api.WithIdempotencyKey(key)
}

// WithRequestID pins the x-request-id for every attempt of a call. When
// omitted, each attempt gets a fresh ID.
func WithRequestID(id string) CallOption {
	return api.WithRequestID(id)
}

// WithTraceParent pins the W3C traceparent propagated with a call, linking
// it into an existing trace.
func WithTraceParent(traceparent string) CallOption {
	return api.WithTraceParent(traceparent)
}

// WithCallTimeout overrides the per-attempt timeout for one call.
func WithCallTimeout(timeout time.Duration) CallOption {
	return api.WithCallTimeout(timeout)
}

// WithCallRetryPolicy overrides the retry policy for one call.
func WithCallRetryPolicy(policy RetryPolicy) CallOption {
	return api.WithCallRetryPolicy(policy)
}

// WithoutRetry disables retrying for one call.
func WithoutRetry() CallOption {
	return api.WithoutRetry()
}

// WithHeader merges a header into one call. An empty value removes the
// header entirely.
func WithHeader(key, value string) CallOption {
	return api.WithHeader(key, value)
}

// WithActor attributes a call to an operator via the X-Actor header. The
// server records it on inventory adjustments.
func WithActor(actor string) CallOption {
	return api.WithActor(actor)
}

// Unauthenticated omits the Authorization header for one call.
func Unauthenticated() CallOption {
	return api.Unauthenticated()
}

// WithPollInterval sets the delay after the first availability polling
// round. Subsequent rounds back off exponentially.
// Default: 1 second
func WithPollInterval(interval time.Duration) PollOption {
	return func(c *pollConfig) {
		c.interval = interval
	}
}

// WithPollMaxInterval caps the exponential growth of the polling interval.
// Default: 10 seconds
func WithPollMaxInterval(interval time.Duration) PollOption {
	return func(c *pollConfig) {
		c.maxInterval = interval
	}
}

// WithPollBudget bounds the total time spent polling.
// Default: 2 minutes
func WithPollBudget(budget time.Duration) PollOption {
	return func(c *pollConfig) {
		c.budget = budget
	}
}

// WithPollConcurrency sets how many tours are searched concurrently per
// polling round.
// Default: 4
func WithPollConcurrency(n int) PollOption {
	return func(c *pollConfig) {
		c.concurrency = n
	}
}
