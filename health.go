package tourbook

import (
	"context"

	"github.com/tourbook/client-go/internal/api"
)

// Ping checks that the API is reachable and reports its version. The call
// is unauthenticated; no Authorization header is sent.
func (c *Client) Ping(ctx context.Context, opts ...CallOption) (*Health, error) {
	cfg := api.NewCallConfig(opts...)
	cfg.Unauthenticated = true

	res, err := api.Call[Health](ctx, c.api, "health", "ping", nil, cfg)
	if err != nil {
		return nil, err
	}
	return &res.Data, nil
}
