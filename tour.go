package tourbook

import (
	"context"

	"github.com/tourbook/client-go/internal/api"
)

// CreateTour creates a tour. Slugs are unique server-side; creating the
// same slug twice fails with ErrConflict.
func (c *Client) CreateTour(ctx context.Context, req CreateTourRequest, opts ...CallOption) (*Tour, error) {
	res, err := api.Call[Tour](ctx, c.api, "tour", "create", req, api.NewCallConfig(opts...))
	if err != nil {
		return nil, err
	}
	return &res.Data, nil
}
