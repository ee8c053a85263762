package tourbook

import (
	"context"

	"github.com/tourbook/client-go/internal/api"
)

// CreateHold places a temporary hold on seats for a departure. The hold
// expires after req.TTLSeconds (default 600) unless confirmed first.
//
// The call is idempotent: the client mints an Idempotency-Key and reuses it
// across retries. Pin the key with WithIdempotencyKey to make the call safe
// to repeat across process restarts.
func (c *Client) CreateHold(ctx context.Context, req CreateHoldRequest, opts ...CallOption) (*Hold, error) {
	res, err := api.Call[Hold](ctx, c.api, "booking", "hold", req, c.idempotentConfig(opts))
	if err != nil {
		return nil, err
	}
	return &res.Data, nil
}

// ConfirmBooking converts an active hold into a booking. Confirming an
// expired hold fails with ErrHoldExpired.
//
// The call is idempotent; see CreateHold.
func (c *Client) ConfirmBooking(ctx context.Context, holdID string, opts ...CallOption) (*Booking, error) {
	req := ConfirmBookingRequest{HoldID: holdID}
	res, err := api.Call[Booking](ctx, c.api, "booking", "confirm", req, c.idempotentConfig(opts))
	if err != nil {
		return nil, err
	}
	return &res.Data, nil
}

// CancelBooking cancels a confirmed booking and releases its seats.
//
// The call is idempotent; see CreateHold.
func (c *Client) CancelBooking(ctx context.Context, bookingID string, opts ...CallOption) (*Booking, error) {
	req := CancelBookingRequest{BookingID: bookingID}
	res, err := api.Call[Booking](ctx, c.api, "booking", "cancel", req, c.idempotentConfig(opts))
	if err != nil {
		return nil, err
	}
	return &res.Data, nil
}

// GetBooking fetches a booking by ID.
func (c *Client) GetBooking(ctx context.Context, bookingID string, opts ...CallOption) (*Booking, error) {
	req := GetBookingRequest{BookingID: bookingID}
	res, err := api.Call[Booking](ctx, c.api, "booking", "get", req, api.NewCallConfig(opts...))
	if err != nil {
		return nil, err
	}
	return &res.Data, nil
}
