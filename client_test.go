package tourbook

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.Handler, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := New(srv.URL, "test-token", opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestNew_RequiresToken(t *testing.T) {
	_, err := New("https://api.example.com", "")
	if !errors.Is(err, ErrMissingToken) {
		t.Errorf("err = %v, want ErrMissingToken", err)
	}
}

func TestNew_RequiresBaseURL(t *testing.T) {
	_, err := New("", "test-token")
	if !errors.Is(err, ErrMissingBaseURL) {
		t.Errorf("err = %v, want ErrMissingBaseURL", err)
	}
}

func TestNew_NormalizesBaseURL(t *testing.T) {
	c, err := New("https://api.example.com/", "test-token")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := c.BaseURL(); got != "https://api.example.com" {
		t.Errorf("BaseURL() = %s, want https://api.example.com", got)
	}
}

func TestClient_Routes(t *testing.T) {
	startsAt := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		call     func(ctx context.Context, c *Client) (any, error)
		wantPath string
		respBody string
	}{
		{
			name: "ping",
			call: func(ctx context.Context, c *Client) (any, error) {
				return c.Ping(ctx)
			},
			wantPath: "/v1/health/ping",
			respBody: `{"status":"ok","timestamp":"2026-08-21T09:00:00Z","version":"1.4.2"}`,
		},
		{
			name: "create tour",
			call: func(ctx context.Context, c *Client) (any, error) {
				return c.CreateTour(ctx, CreateTourRequest{
					Name:        "Alps Trek",
					Slug:        "alps-trek",
					Description: "Six days on the high route.",
				})
			},
			wantPath: "/v1/tour/create",
			respBody: `{"id":"t_1","name":"Alps Trek","slug":"alps-trek","description":"Six days on the high route.","created_at":"2026-08-21T09:00:00Z"}`,
		},
		{
			name: "create departure",
			call: func(ctx context.Context, c *Client) (any, error) {
				return c.CreateDeparture(ctx, CreateDepartureRequest{
					TourID:        "t_1",
					StartsAt:      startsAt,
					CapacityTotal: 20,
					Price:         Money{Amount: 14900, Currency: "EUR"},
				})
			},
			wantPath: "/v1/departure/create",
			respBody: `{"id":"d_1","tour_id":"t_1","starts_at":"2026-06-01T09:00:00Z","capacity_total":20,"capacity_available":20,"price":{"amount":14900,"currency":"EUR"},"created_at":"2026-08-21T09:00:00Z"}`,
		},
		{
			name: "search departures",
			call: func(ctx context.Context, c *Client) (any, error) {
				return c.SearchDepartures(ctx, SearchDeparturesRequest{TourID: "t_1", AvailableOnly: true})
			},
			wantPath: "/v1/departure/search",
			respBody: `{"items":[{"id":"d_1","tour_id":"t_1","starts_at":"2026-06-01T09:00:00Z","capacity_total":20,"capacity_available":3,"price":{"amount":14900,"currency":"EUR"},"created_at":"2026-08-21T09:00:00Z"}],"next_cursor":"c_2"}`,
		},
		{
			name: "create hold",
			call: func(ctx context.Context, c *Client) (any, error) {
				return c.CreateHold(ctx, CreateHoldRequest{
					DepartureID: "d_1",
					Seats:       2,
					CustomerRef: "alice@example.com",
				})
			},
			wantPath: "/v1/booking/hold",
			respBody: `{"id":"h_1","departure_id":"d_1","seats":2,"customer_ref":"alice@example.com","status":"ACTIVE","expires_at":"2026-08-21T09:10:00Z","created_at":"2026-08-21T09:00:00Z"}`,
		},
		{
			name: "confirm booking",
			call: func(ctx context.Context, c *Client) (any, error) {
				return c.ConfirmBooking(ctx, "h_1")
			},
			wantPath: "/v1/booking/confirm",
			respBody: `{"id":"b_1","hold_id":"h_1","code":"TRBK-8F3K","seats":2,"customer_ref":"alice@example.com","status":"CONFIRMED","created_at":"2026-08-21T09:05:00Z"}`,
		},
		{
			name: "cancel booking",
			call: func(ctx context.Context, c *Client) (any, error) {
				return c.CancelBooking(ctx, "b_1")
			},
			wantPath: "/v1/booking/cancel",
			respBody: `{"id":"b_1","hold_id":"h_1","code":"TRBK-8F3K","seats":2,"customer_ref":"alice@example.com","status":"CANCELED","created_at":"2026-08-21T09:05:00Z"}`,
		},
		{
			name: "get booking",
			call: func(ctx context.Context, c *Client) (any, error) {
				return c.GetBooking(ctx, "b_1")
			},
			wantPath: "/v1/booking/get",
			respBody: `{"id":"b_1","hold_id":"h_1","code":"TRBK-8F3K","seats":2,"customer_ref":"alice@example.com","status":"CONFIRMED","created_at":"2026-08-21T09:05:00Z"}`,
		},
		{
			name: "adjust inventory",
			call: func(ctx context.Context, c *Client) (any, error) {
				return c.AdjustInventory(ctx, AdjustInventoryRequest{
					DepartureID: "d_1",
					Delta:       -2,
					Reason:      "boat maintenance",
				})
			},
			wantPath: "/v1/inventory/adjust",
			respBody: `{"id":"adj_1","departure_id":"d_1","delta":-2,"reason":"boat maintenance","actor":"system","created_at":"2026-08-21T09:00:00Z"}`,
		},
		{
			name: "join waitlist",
			call: func(ctx context.Context, c *Client) (any, error) {
				return c.JoinWaitlist(ctx, JoinWaitlistRequest{
					DepartureID: "d_1",
					CustomerRef: "carol@example.com",
				})
			},
			wantPath: "/v1/waitlist/join",
			respBody: `{"id":"w_1","departure_id":"d_1","customer_ref":"carol@example.com","created_at":"2026-08-21T09:00:00Z"}`,
		},
		{
			name: "notify waitlist",
			call: func(ctx context.Context, c *Client) (any, error) {
				return c.NotifyWaitlist(ctx, "d_1")
			},
			wantPath: "/v1/waitlist/notify",
			respBody: `{"processed_count":1,"holds_created":[{"id":"h_2","departure_id":"d_1","seats":1,"customer_ref":"carol@example.com","status":"ACTIVE","expires_at":"2026-08-21T09:10:00Z","created_at":"2026-08-21T09:00:00Z"}]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotPath, gotMethod string
			c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.Path
				gotMethod = r.Method
				w.Header().Set("Content-Type", "application/json")
				io.WriteString(w, tt.respBody)
			}))

			res, err := tt.call(context.Background(), c)
			if err != nil {
				t.Fatalf("call: %v", err)
			}
			if res == nil {
				t.Fatal("result is nil")
			}
			if gotMethod != http.MethodPost {
				t.Errorf("method = %s, want POST", gotMethod)
			}
			if gotPath != tt.wantPath {
				t.Errorf("path = %s, want %s", gotPath, tt.wantPath)
			}
		})
	}
}

func TestCreateTour_SendsBody(t *testing.T) {
	var body map[string]any
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		io.WriteString(w, `{"id":"t_1","name":"Alps Trek","slug":"alps-trek","description":"d","created_at":"2026-08-21T09:00:00Z"}`)
	}))

	_, err := c.CreateTour(context.Background(), CreateTourRequest{
		Name:        "Alps Trek",
		Slug:        "alps-trek",
		Description: "Six days on the high route.",
	})
	if err != nil {
		t.Fatalf("CreateTour: %v", err)
	}

	if body["name"] != "Alps Trek" {
		t.Errorf("body name = %v, want Alps Trek", body["name"])
	}
	if body["slug"] != "alps-trek" {
		t.Errorf("body slug = %v, want alps-trek", body["slug"])
	}
}

func TestCreateHold_MintsIdempotencyKey(t *testing.T) {
	var key string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key = r.Header.Get("Idempotency-Key")
		io.WriteString(w, `{"id":"h_1","departure_id":"d_1","seats":1,"customer_ref":"x","status":"ACTIVE","expires_at":"2026-08-21T09:10:00Z","created_at":"2026-08-21T09:00:00Z"}`)
	}))

	_, err := c.CreateHold(context.Background(), CreateHoldRequest{
		DepartureID: "d_1",
		Seats:       1,
		CustomerRef: "alice@example.com",
	})
	if err != nil {
		t.Fatalf("CreateHold: %v", err)
	}
	if key == "" {
		t.Error("Idempotency-Key header missing, want a generated key")
	}
}

func TestCreateHold_MintedKeyStableAcrossRetries(t *testing.T) {
	var keys []string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		keys = append(keys, r.Header.Get("Idempotency-Key"))
		if len(keys) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		io.WriteString(w, `{"id":"h_1","departure_id":"d_1","seats":1,"customer_ref":"x","status":"ACTIVE","expires_at":"2026-08-21T09:10:00Z","created_at":"2026-08-21T09:00:00Z"}`)
	}), WithRetryPolicy(RetryPolicy{MaxAttempts: 3, BaseDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond}))

	_, err := c.CreateHold(context.Background(), CreateHoldRequest{
		DepartureID: "d_1",
		Seats:       1,
		CustomerRef: "alice@example.com",
	})
	if err != nil {
		t.Fatalf("CreateHold: %v", err)
	}
	if len(keys) != 3 {
		t.Fatalf("expected 3 attempts, got %d", len(keys))
	}
	if keys[0] == "" {
		t.Fatal("first attempt carried no Idempotency-Key, want a generated key")
	}
	for i, key := range keys[1:] {
		if key != keys[0] {
			t.Errorf("attempt %d key = %s, want %s", i+2, key, keys[0])
		}
	}
}

func TestCreateHold_PinnedIdempotencyKey(t *testing.T) {
	var key string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key = r.Header.Get("Idempotency-Key")
		io.WriteString(w, `{"id":"h_1","departure_id":"d_1","seats":1,"customer_ref":"x","status":"ACTIVE","expires_at":"2026-08-21T09:10:00Z","created_at":"2026-08-21T09:00:00Z"}`)
	}))

	_, err := c.CreateHold(context.Background(), CreateHoldRequest{
		DepartureID: "d_1",
		Seats:       1,
		CustomerRef: "alice@example.com",
	}, WithIdempotencyKey("pinned-key"))
	if err != nil {
		t.Fatalf("CreateHold: %v", err)
	}
	if key != "pinned-key" {
		t.Errorf("Idempotency-Key = %s, want pinned-key", key)
	}
}

func TestCreateTour_NoIdempotencyKey(t *testing.T) {
	var hasKey bool
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hasKey = r.Header["Idempotency-Key"]
		io.WriteString(w, `{"id":"t_1","name":"n","slug":"n","description":"d","created_at":"2026-08-21T09:00:00Z"}`)
	}))

	_, err := c.CreateTour(context.Background(), CreateTourRequest{
		Name:        "Alps Trek",
		Slug:        "alps-trek",
		Description: "Six days on the high route.",
	})
	if err != nil {
		t.Fatalf("CreateTour: %v", err)
	}
	if hasKey {
		t.Error("Idempotency-Key sent on tour.create, want none")
	}
}

func TestPing_OmitsAuthorization(t *testing.T) {
	var hasAuth bool
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hasAuth = r.Header["Authorization"]
		io.WriteString(w, `{"status":"ok","timestamp":"2026-08-21T09:00:00Z","version":"1.4.2"}`)
	}))

	health, err := c.Ping(context.Background())
	if err != nil {
		t.Fatalf("Ping: %v", err)
	}
	if hasAuth {
		t.Error("Authorization sent on health.ping, want none")
	}
	if health.Status != "ok" {
		t.Errorf("health.Status = %s, want ok", health.Status)
	}
}

func TestAdjustInventory_ActorHeader(t *testing.T) {
	var actor string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor = r.Header.Get("X-Actor")
		io.WriteString(w, `{"id":"adj_1","departure_id":"d_1","delta":5,"reason":"extra boat","actor":"ops@example.com","created_at":"2026-08-21T09:00:00Z"}`)
	}))

	_, err := c.AdjustInventory(context.Background(), AdjustInventoryRequest{
		DepartureID: "d_1",
		Delta:       5,
		Reason:      "extra boat",
	}, WithActor("ops@example.com"))
	if err != nil {
		t.Fatalf("AdjustInventory: %v", err)
	}
	if actor != "ops@example.com" {
		t.Errorf("X-Actor = %s, want ops@example.com", actor)
	}
}

func TestCall_Generic(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/report/monthly" {
			t.Errorf("path = %s, want /v1/report/monthly", r.URL.Path)
		}
		io.WriteString(w, `{"bookings":42}`)
	}))

	res, err := Call[map[string]int](context.Background(), c, "report", "monthly", map[string]string{"month": "2026-08"})
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if res.Data["bookings"] != 42 {
		t.Errorf("Data[bookings] = %d, want 42", res.Data["bookings"])
	}
	if res.Status != http.StatusOK {
		t.Errorf("Status = %d, want 200", res.Status)
	}
}

func TestClient_ValidatesBeforeSending(t *testing.T) {
	var requests int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&requests, 1)
	}))

	_, err := c.CreateHold(context.Background(), CreateHoldRequest{
		DepartureID: "d_1",
		Seats:       11,
		CustomerRef: "alice@example.com",
	})
	e, ok := AsError(err)
	if !ok {
		t.Fatalf("err = %T (%v), want *Error", err, err)
	}
	if e.Kind != KindValidation {
		t.Errorf("Kind = %v, want KindValidation", e.Kind)
	}
	if len(e.Violations) != 1 || e.Violations[0].Path != "seats" {
		t.Errorf("Violations = %+v, want one violation on seats", e.Violations)
	}
	if n := atomic.LoadInt32(&requests); n != 0 {
		t.Errorf("requests = %d, want 0", n)
	}
}

