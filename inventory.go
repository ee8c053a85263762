package tourbook

import (
	"context"

	"github.com/tourbook/client-go/internal/api"
)

// AdjustInventory changes the total capacity of a departure by req.Delta
// seats. Use WithActor to attribute the adjustment to an operator; the
// server records "system" otherwise.
//
// The call is idempotent; see CreateHold.
func (c *Client) AdjustInventory(ctx context.Context, req AdjustInventoryRequest, opts ...CallOption) (*InventoryAdjustment, error) {
	res, err := api.Call[InventoryAdjustment](ctx, c.api, "inventory", "adjust", req, c.idempotentConfig(opts))
	if err != nil {
		return nil, err
	}
	return &res.Data, nil
}
