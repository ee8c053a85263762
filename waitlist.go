package tourbook

import (
	"context"

	"github.com/tourbook/client-go/internal/api"
)

// JoinWaitlist adds a customer to the waitlist of a departure. Joining
// twice with the same customer_ref fails with ErrConflict.
func (c *Client) JoinWaitlist(ctx context.Context, req JoinWaitlistRequest, opts ...CallOption) (*WaitlistEntry, error) {
	res, err := api.Call[WaitlistEntry](ctx, c.api, "waitlist", "join", req, api.NewCallConfig(opts...))
	if err != nil {
		return nil, err
	}
	return &res.Data, nil
}

// NotifyWaitlist asks the server to offer freed seats to waiting customers,
// in join order. The response reports how many entries were processed and
// which holds were created on their behalf.
func (c *Client) NotifyWaitlist(ctx context.Context, departureID string, opts ...CallOption) (*NotifyWaitlistResponse, error) {
	req := NotifyWaitlistRequest{DepartureID: departureID}
	res, err := api.Call[NotifyWaitlistResponse](ctx, c.api, "waitlist", "notify", req, api.NewCallConfig(opts...))
	if err != nil {
		return nil, err
	}
	return &res.Data, nil
}
