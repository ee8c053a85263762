package tourbook

import (
	"context"

	"github.com/tourbook/client-go/internal/api"
)

// CreateDeparture schedules a departure for an existing tour.
func (c *Client) CreateDeparture(ctx context.Context, req CreateDepartureRequest, opts ...CallOption) (*Departure, error) {
	res, err := api.Call[Departure](ctx, c.api, "departure", "create", req, api.NewCallConfig(opts...))
	if err != nil {
		return nil, err
	}
	return &res.Data, nil
}

// SearchDepartures lists departures matching the given filters. Results are
// cursor-paginated: pass the returned NextCursor back in req.Cursor to fetch
// the following page.
func (c *Client) SearchDepartures(ctx context.Context, req SearchDeparturesRequest, opts ...CallOption) (*SearchDeparturesResponse, error) {
	res, err := api.Call[SearchDeparturesResponse](ctx, c.api, "departure", "search", req, api.NewCallConfig(opts...))
	if err != nil {
		return nil, err
	}
	return &res.Data, nil
}
