package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	tourbook "github.com/tourbook/client-go"
)

const usage = `usage: tourctl <command> [args]

commands:
  ping
  create-tour <name> <slug> <description>
  create-departure <tour-id> <starts-at RFC3339> <capacity> <amount-minor> <currency>
  search [tour-id]
  hold <departure-id> <seats> <customer-ref>
  confirm <hold-id>
  cancel <booking-id>
  get-booking <booking-id>
  adjust-inventory <departure-id> <delta> <reason>
  join-waitlist <departure-id> <customer-ref>
  notify-waitlist <departure-id>

configuration comes from TOURBOOK_* environment variables (a .env file in
the working directory is loaded when present).`

// Config carries the process streams so tests can capture output.
type Config struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

func DefaultConfig() Config {
	return Config{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
}

func run(args []string, cfg Config) error {
	if len(args) < 2 {
		return fmt.Errorf("%s", usage)
	}

	_ = godotenv.Load()

	client, err := tourbook.NewFromEnv()
	if err != nil {
		return fmt.Errorf("create client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	var result any
	switch cmd, rest := args[1], args[2:]; cmd {
	case "ping":
		result, err = client.Ping(ctx)
	case "create-tour":
		result, err = createTour(ctx, client, rest)
	case "create-departure":
		result, err = createDeparture(ctx, client, rest)
	case "search":
		result, err = search(ctx, client, rest)
	case "hold":
		result, err = hold(ctx, client, rest)
	case "confirm":
		result, err = confirm(ctx, client, rest)
	case "cancel":
		result, err = cancelBooking(ctx, client, rest)
	case "get-booking":
		result, err = getBooking(ctx, client, rest)
	case "adjust-inventory":
		result, err = adjustInventory(ctx, client, rest)
	case "join-waitlist":
		result, err = joinWaitlist(ctx, client, rest)
	case "notify-waitlist":
		result, err = notifyWaitlist(ctx, client, rest)
	default:
		return fmt.Errorf("unknown command: %s\n%s", cmd, usage)
	}
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cfg.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func createTour(ctx context.Context, client *tourbook.Client, args []string) (any, error) {
	if len(args) != 3 {
		return nil, fmt.Errorf("usage: tourctl create-tour <name> <slug> <description>")
	}
	return client.CreateTour(ctx, tourbook.CreateTourRequest{
		Name:        args[0],
		Slug:        args[1],
		Description: args[2],
	})
}

func createDeparture(ctx context.Context, client *tourbook.Client, args []string) (any, error) {
	if len(args) != 5 {
		return nil, fmt.Errorf("usage: tourctl create-departure <tour-id> <starts-at RFC3339> <capacity> <amount-minor> <currency>")
	}
	startsAt, err := time.Parse(time.RFC3339, args[1])
	if err != nil {
		return nil, fmt.Errorf("parse starts-at: %w", err)
	}
	capacity, err := strconv.Atoi(args[2])
	if err != nil {
		return nil, fmt.Errorf("parse capacity: %w", err)
	}
	amount, err := strconv.ParseInt(args[3], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parse amount: %w", err)
	}
	return client.CreateDeparture(ctx, tourbook.CreateDepartureRequest{
		TourID:        args[0],
		StartsAt:      startsAt,
		CapacityTotal: capacity,
		Price:         tourbook.Money{Amount: amount, Currency: args[4]},
	})
}

func search(ctx context.Context, client *tourbook.Client, args []string) (any, error) {
	req := tourbook.SearchDeparturesRequest{}
	if len(args) > 0 {
		req.TourID = args[0]
	}
	return client.SearchDepartures(ctx, req)
}

func hold(ctx context.Context, client *tourbook.Client, args []string) (any, error) {
	if len(args) != 3 {
		return nil, fmt.Errorf("usage: tourctl hold <departure-id> <seats> <customer-ref>")
	}
	seats, err := strconv.Atoi(args[1])
	if err != nil {
		return nil, fmt.Errorf("parse seats: %w", err)
	}
	return client.CreateHold(ctx, tourbook.CreateHoldRequest{
		DepartureID: args[0],
		Seats:       seats,
		CustomerRef: args[2],
	})
}

func confirm(ctx context.Context, client *tourbook.Client, args []string) (any, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("usage: tourctl confirm <hold-id>")
	}
	return client.ConfirmBooking(ctx, args[0])
}

func cancelBooking(ctx context.Context, client *tourbook.Client, args []string) (any, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("usage: tourctl cancel <booking-id>")
	}
	return client.CancelBooking(ctx, args[0])
}

func getBooking(ctx context.Context, client *tourbook.Client, args []string) (any, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("usage: tourctl get-booking <booking-id>")
	}
	return client.GetBooking(ctx, args[0])
}

func adjustInventory(ctx context.Context, client *tourbook.Client, args []string) (any, error) {
	if len(args) != 3 {
		return nil, fmt.Errorf("usage: tourctl adjust-inventory <departure-id> <delta> <reason>")
	}
	delta, err := strconv.Atoi(args[1])
	if err != nil {
		return nil, fmt.Errorf("parse delta: %w", err)
	}
	opts := []tourbook.CallOption{}
	if actor := os.Getenv("TOURBOOK_ACTOR"); actor != "" {
		opts = append(opts, tourbook.WithActor(actor))
	}
	return client.AdjustInventory(ctx, tourbook.AdjustInventoryRequest{
		DepartureID: args[0],
		Delta:       delta,
		Reason:      args[2],
	}, opts...)
}

func joinWaitlist(ctx context.Context, client *tourbook.Client, args []string) (any, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("usage: tourctl join-waitlist <departure-id> <customer-ref>")
	}
	return client.JoinWaitlist(ctx, tourbook.JoinWaitlistRequest{
		DepartureID: args[0],
		CustomerRef: args[1],
	})
}

func notifyWaitlist(ctx context.Context, client *tourbook.Client, args []string) (any, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("usage: tourctl notify-waitlist <departure-id>")
	}
	return client.NotifyWaitlist(ctx, args[0])
}
