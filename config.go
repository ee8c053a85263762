package tourbook

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/providers/confmap"
	envprovider "github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// envConfig mirrors the TOURBOOK_* environment variables.
type envConfig struct {
	URL      string        `koanf:"url"`
	Token    string        `koanf:"token"`
	Timeout  time.Duration `koanf:"timeout"`
	Deadline time.Duration `koanf:"deadline"`
	Debug    bool          `koanf:"debug"`
	Retry    struct {
		Attempts int           `koanf:"attempts"`
		Base     time.Duration `koanf:"base"`
		Max      time.Duration `koanf:"max"`
	} `koanf:"retry"`
}

// NewFromEnv creates a client configured from TOURBOOK_* environment
// variables:
//
//	TOURBOOK_URL             base URL (required)
//	TOURBOOK_TOKEN           bearer token (required)
//	TOURBOOK_TIMEOUT         per-attempt timeout, e.g. "30s"
//	TOURBOOK_DEADLINE        overall per-call deadline, e.g. "2m"
//	TOURBOOK_DEBUG           enable debug logging ("true")
//	TOURBOOK_RETRY_ATTEMPTS  max attempts per call
//	TOURBOOK_RETRY_BASE      backoff base delay, e.g. "500ms"
//	TOURBOOK_RETRY_MAX       backoff delay cap, e.g. "10s"
//
// Explicit options override the environment.
func NewFromEnv(opts ...Option) (*Client, error) {
	cfg, err := loadEnvConfig()
	if err != nil {
		return nil, err
	}

	envOpts := make([]Option, 0, 4)
	if cfg.Timeout > 0 {
		envOpts = append(envOpts, WithTimeout(cfg.Timeout))
	}
	if cfg.Deadline > 0 {
		envOpts = append(envOpts, WithOverallTimeout(cfg.Deadline))
	}
	if cfg.Debug {
		envOpts = append(envOpts, WithDebug(true))
	}
	if cfg.Retry.Attempts > 0 || cfg.Retry.Base > 0 || cfg.Retry.Max > 0 {
		envOpts = append(envOpts, WithRetryPolicy(RetryPolicy{
			MaxAttempts: cfg.Retry.Attempts,
			BaseDelay:   cfg.Retry.Base,
			MaxDelay:    cfg.Retry.Max,
		}))
	}

	return New(cfg.URL, cfg.Token, append(envOpts, opts...)...)
}

func loadEnvConfig() (*envConfig, error) {
	k := koanf.New(".")

	defaults := map[string]any{
		"tourbook.url":            "",
		"tourbook.token":          "",
		"tourbook.timeout":        "0s",
		"tourbook.deadline":       "0s",
		"tourbook.debug":          false,
		"tourbook.retry.attempts": 0,
		"tourbook.retry.base":     "0s",
		"tourbook.retry.max":      "0s",
	}
	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return nil, fmt.Errorf("load config defaults: %w", err)
	}

	if err := k.Load(envprovider.Provider("TOURBOOK_", ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(s), "_", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("load environment variables: %w", err)
	}

	var cfg envConfig
	if err := k.Unmarshal("tourbook", &cfg); err != nil {
		return nil, fmt.Errorf("parse TOURBOOK_* environment variables: %w", err)
	}
	return &cfg, nil
}
