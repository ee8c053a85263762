package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/tourbook/client-go/internal/ident"
)

// DefaultTimeout is the per-attempt deadline when none is configured.
const DefaultTimeout = 30 * time.Second

// Doer executes one HTTP request. *http.Client satisfies it; tests and
// callers with custom transports substitute their own.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config assembles a Client. BaseURL and Token are required; every other
// field has a working default.
type Config struct {
	// BaseURL is the scheme://host[:port] root of the API. Required.
	BaseURL string
	// Token is the bearer token sent on authenticated calls. Required.
	Token string
	// HTTPClient executes requests. Defaults to a plain *http.Client.
	HTTPClient Doer
	// Timeout is the per-attempt deadline. Defaults to 30s.
	Timeout time.Duration
	// OverallTimeout bounds one logical call including retries and backoff.
	// Zero disables the whole-call budget.
	OverallTimeout time.Duration
	// Retry is the client-wide retry policy. Zero fields take the defaults.
	Retry RetryPolicy
	// UserAgent is sent on every request when set.
	UserAgent string
	// Headers are default headers merged into every request.
	Headers map[string]string
	// Logger receives per-attempt debug output. Nil logs nothing.
	Logger *zerolog.Logger
	// Limiter, when set, paces attempts client-side.
	Limiter *rate.Limiter
	// Rand seeds backoff jitter; the client serializes access to it. Nil
	// uses the shared math/rand source.
	Rand *rand.Rand
}

// Client executes the POST /v1/{service}/{method} wire protocol: one
// marshaled request per logical call, one header set per attempt, with
// retries bounded by the resolved policy.
type Client struct {
	baseURL        string
	token          string
	http           Doer
	timeout        time.Duration
	overallTimeout time.Duration
	retry          RetryPolicy
	userAgent      string
	headers        map[string]string
	logger         zerolog.Logger
	limiter        *rate.Limiter
	rnd            *lockedRand
	validate       *validator.Validate

	// Seams for tests. Production always uses the ident generators and a
	// real timer.
	newRequestID   func() string
	newTraceParent func() string
	sleep          func(ctx context.Context, d time.Duration) error
}

// NewClient validates cfg and builds a Client. Configuration problems are
// reported here, not deferred to the first call.
func NewClient(cfg Config) (*Client, error) {
	if cfg.Token == "" {
		return nil, newConfigError(ErrMissingToken)
	}
	if cfg.BaseURL == "" {
		return nil, newConfigError(ErrMissingBaseURL)
	}
	u, err := url.Parse(cfg.BaseURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, newConfigError(fmt.Errorf("invalid base URL %q", cfg.BaseURL))
	}

	c := &Client{
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		token:          cfg.Token,
		http:           cfg.HTTPClient,
		timeout:        cfg.Timeout,
		overallTimeout: cfg.OverallTimeout,
		retry:          normalizePolicy(cfg.Retry),
		userAgent:      cfg.UserAgent,
		headers:        cfg.Headers,
		logger:         zerolog.Nop(),
		limiter:        cfg.Limiter,
		rnd:            newLockedRand(cfg.Rand),
		validate:       newValidator(),
		newRequestID:   ident.NewRequestID,
		newTraceParent: ident.NewTraceParent,
		sleep:          sleepWithTimer,
	}
	if c.http == nil {
		c.http = &http.Client{}
	}
	if c.timeout <= 0 {
		c.timeout = DefaultTimeout
	}
	if cfg.Logger != nil {
		c.logger = *cfg.Logger
	}
	return c, nil
}

// BaseURL returns the normalized API root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// attemptResponse is the authoritative result of one wire round trip.
type attemptResponse struct {
	status int
	header http.Header
	body   []byte
}

// Call executes one logical call against POST /v1/{service}/{method}. The
// request is validated and marshaled once; each attempt sends the same bytes
// with a fresh header set. On failure the returned error is a *Error, except
// when the caller's own context ended the call, which surfaces ctx.Err()
// untouched.
func Call[T any](ctx context.Context, c *Client, service, method string, req any, cfg *CallConfig) (*Response[T], error) {
	op := service + "." + method
	if cfg == nil {
		cfg = &CallConfig{}
	}

	if verr := c.validateRequest(op, req); verr != nil {
		return nil, verr
	}

	payload := []byte("{}")
	if req != nil {
		b, err := json.Marshal(req)
		if err != nil {
			return nil, newConfigError(fmt.Errorf("%s: encode request: %w", op, err))
		}
		payload = b
	}

	policy := c.retry
	if cfg.Retry != nil {
		policy = normalizePolicy(*cfg.Retry)
	}
	timeout := c.timeout
	if cfg.Timeout > 0 {
		timeout = cfg.Timeout
	}
	traceParent := cfg.TraceParent
	if traceParent == "" {
		traceParent = c.newTraceParent()
	}
	token := c.token
	if cfg.Unauthenticated {
		token = ""
	}

	// The whole-call budget, when set, covers every attempt and every
	// backoff pause in between.
	callCtx := ctx
	if c.overallTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, c.overallTimeout)
		defer cancel()
	}

	endpoint := c.baseURL + "/v1/" + service + "/" + method
	bo := backoff{base: policy.BaseDelay, max: policy.MaxDelay, rnd: c.rnd}
	start := time.Now()

	var lastErr *Error
	var lastHeader http.Header
	for attempt := 0; attempt < policy.MaxAttempts; attempt++ {
		if c.limiter != nil {
			if err := c.limiter.Wait(callCtx); err != nil {
				if ctx.Err() != nil || callCtx.Err() != nil {
					return nil, c.interruption(ctx, op, attempt)
				}
				return nil, newConfigError(fmt.Errorf("%s: rate limit: %w", op, err))
			}
		}

		requestID := cfg.RequestID
		if requestID == "" {
			requestID = c.newRequestID()
		}
		header := buildHeaders(headerSpec{
			token:          token,
			idempotencyKey: cfg.IdempotencyKey,
			requestID:      requestID,
			traceParent:    traceParent,
			userAgent:      c.userAgent,
			extra:          []map[string]string{c.headers, cfg.Headers},
		})

		c.logger.Debug().
			Str("op", op).
			Int("attempt", attempt+1).
			Str("request_id", requestID).
			Interface("headers", redactHeaders(header)).
			Msg("sending request")

		attemptCtx, cancel := context.WithTimeout(callCtx, timeout)
		res, err := c.roundTrip(attemptCtx, endpoint, payload, header)
		cancel()

		if err != nil {
			switch {
			case ctx.Err() != nil:
				return nil, ctx.Err()
			case callCtx.Err() != nil:
				return nil, c.interruption(ctx, op, attempt+1)
			case attemptCtx.Err() == context.DeadlineExceeded:
				lastErr = newTimeoutError(op, timeout, true)
			default:
				lastErr = newNetworkError(op, err)
			}
			lastHeader = nil
		} else if res.status >= http.StatusOK && res.status < http.StatusMultipleChoices {
			out, derr := decodeResponse[T](op, res, requestID, start)
			if derr != nil {
				derr.Attempts = attempt + 1
				return nil, derr
			}
			c.logger.Debug().
				Str("op", op).
				Int("attempt", attempt+1).
				Int("status", out.Status).
				Dur("duration", out.Duration).
				Str("request_id", out.RequestID).
				Str("trace_id", out.TraceID).
				Msg("request succeeded")
			return out, nil
		} else {
			echoID := responseRequestID(res.header)
			if echoID == "" {
				echoID = requestID
			}
			problem := DecodeProblem(res.status, res.header.Get(HeaderContentType), res.body)
			lastErr = classifyResponse(op, res.status, problem, echoID)
			if lastErr.TraceID == "" {
				lastErr.TraceID = responseTraceID(res.header)
			}
			lastHeader = res.header
		}
		lastErr.Attempts = attempt + 1

		c.logger.Debug().
			Str("op", op).
			Int("attempt", attempt+1).
			Int("status", lastErr.Status).
			Bool("retryable", lastErr.Retryable).
			Err(lastErr).
			Msg("request failed")

		if attempt+1 >= policy.MaxAttempts || !policy.retryable(lastErr, attempt) {
			break
		}

		delay := bo.delay(attempt)
		if ra, ok := retryAfter(lastHeader); ok && ra > delay {
			delay = min(ra, policy.MaxDelay+time.Duration(jitterFraction*float64(policy.MaxDelay)))
		}
		c.logger.Debug().
			Str("op", op).
			Dur("delay", delay).
			Msg("backing off before retry")
		if err := c.sleep(callCtx, delay); err != nil {
			return nil, c.interruption(ctx, op, attempt+1)
		}
	}
	return nil, lastErr
}

// roundTrip performs one attempt and drains the response body so the
// attempt's context can be released as soon as it returns.
func (c *Client) roundTrip(ctx context.Context, endpoint string, payload []byte, header http.Header) (*attemptResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header = header

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	return &attemptResponse{status: resp.StatusCode, header: resp.Header, body: body}, nil
}

// decodeResponse turns a 2xx wire result into the typed success envelope.
// A success status carrying an undecodable body is surfaced as a final API
// error rather than a success with garbage data.
func decodeResponse[T any](op string, res *attemptResponse, sentRequestID string, start time.Time) (*Response[T], *Error) {
	requestID := responseRequestID(res.header)
	if requestID == "" {
		requestID = sentRequestID
	}

	var out T
	if len(res.body) > 0 {
		if err := json.Unmarshal(res.body, &out); err != nil {
			return nil, &Error{
				Kind:      KindAPI,
				Op:        op,
				Status:    res.status,
				Problem:   &Problem{Title: "undecodable response body", Status: res.status, Detail: err.Error()},
				RequestID: requestID,
				TraceID:   responseTraceID(res.header),
				Err:       err,
			}
		}
	}
	return &Response[T]{
		Data:      out,
		Status:    res.status,
		Header:    res.header,
		RequestID: requestID,
		TraceID:   responseTraceID(res.header),
		Duration:  time.Since(start),
	}, nil
}

// interruption maps a context-done condition to the surfaced outcome.
// Caller-owned context errors pass through untouched so errors.Is against
// context.Canceled keeps working; exhaustion of the client's own whole-call
// budget is reported as a final timeout.
func (c *Client) interruption(ctx context.Context, op string, attempts int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	e := newTimeoutError(op, c.overallTimeout, false)
	e.Attempts = attempts
	return e
}
