package tourbook

import (
	"context"
	"os"

	"github.com/rs/zerolog"

	"github.com/tourbook/client-go/internal/api"
	"github.com/tourbook/client-go/internal/ident"
)

// Version is the client library version, reported in the default User-Agent.
const Version = "0.3.0"

const defaultUserAgent = "tourbook-go/" + Version

// Response carries a decoded reply plus the transport metadata of the
// attempt that produced it.
type Response[T any] = api.Response[T]

// Client is the TourBook API client. It is safe for concurrent use.
type Client struct {
	api    *api.Client
	logger zerolog.Logger

	// newKey mints idempotency keys for mutating calls that did not pin one.
	newKey func() string
}

// New creates a client for the TourBook API at baseURL, authenticating
// with token. The base URL names the host only; the client appends the
// /v1/{service}/{method} route itself.
func New(baseURL, token string, opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	logger := zerolog.Nop()
	switch {
	case cfg.logger != nil:
		logger = *cfg.logger
	case cfg.debug:
		logger = zerolog.New(os.Stderr).With().Timestamp().Logger().Level(zerolog.DebugLevel)
	}

	userAgent := cfg.userAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	apiClient, err := api.NewClient(api.Config{
		BaseURL:        baseURL,
		Token:          token,
		HTTPClient:     cfg.httpClient,
		Timeout:        cfg.timeout,
		OverallTimeout: cfg.overallTimeout,
		Retry:          cfg.retry,
		UserAgent:      userAgent,
		Headers:        cfg.headers,
		Logger:         &logger,
		Limiter:        cfg.limiter,
		Rand:           cfg.rnd,
	})
	if err != nil {
		return nil, err
	}

	return &Client{
		api:    apiClient,
		logger: logger,
		newKey: ident.NewIdempotencyKey,
	}, nil
}

// BaseURL returns the normalized base URL the client talks to.
func (c *Client) BaseURL() string {
	return c.api.BaseURL()
}

// idempotentConfig resolves call options for a mutating procedure, minting
// an idempotency key when the caller did not pin one. The key stays stable
// across every retry of the call.
func (c *Client) idempotentConfig(opts []CallOption) *api.CallConfig {
	cfg := api.NewCallConfig(opts...)
	if cfg.IdempotencyKey == "" {
		cfg.IdempotencyKey = c.newKey()
	}
	return cfg
}

// Call invokes one RPC procedure by service and method name and decodes the
// reply into T. It is the escape hatch for procedures the typed methods do
// not cover yet; the full retry, timeout, and error machinery still applies.
func Call[T any](ctx context.Context, c *Client, service, method string, req any, opts ...CallOption) (*Response[T], error) {
	return api.Call[T](ctx, c.api, service, method, req, api.NewCallConfig(opts...))
}
