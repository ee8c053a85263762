package tourbook

import "time"

// Money is a monetary amount in minor units with its ISO 4217 currency.
type Money struct {
	Amount   int64  `json:"amount" validate:"gte=0"`
	Currency string `json:"currency" validate:"required,iso4217"`
}

// HoldStatus is the lifecycle state of a seat hold.
type HoldStatus string

// Hold lifecycle states.
const (
	HoldStatusActive    HoldStatus = "ACTIVE"
	HoldStatusExpired   HoldStatus = "EXPIRED"
	HoldStatusConfirmed HoldStatus = "CONFIRMED"
	HoldStatusCanceled  HoldStatus = "CANCELED"
)

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

// Booking lifecycle states.
const (
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusCanceled  BookingStatus = "CANCELED"
)

// CreateTourRequest creates a tour. The slug must be unique server-side.
type CreateTourRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=255"`
	Slug        string `json:"slug" validate:"required,min=1,max=255,slug"`
	Description string `json:"description" validate:"required,min=1,max=2000"`
}

// Tour is a bookable tour product.
type Tour struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

// CreateDepartureRequest schedules a departure of a tour.
type CreateDepartureRequest struct {
	TourID        string    `json:"tour_id" validate:"required"`
	StartsAt      time.Time `json:"starts_at" validate:"required"`
	CapacityTotal int       `json:"capacity_total" validate:"gte=1,lte=1000"`
	Price         Money     `json:"price"`
}

// SearchDeparturesRequest filters the departure listing. Dates are
// YYYY-MM-DD. A zero Limit leaves the page size to the server.
type SearchDeparturesRequest struct {
	TourID        string `json:"tour_id,omitempty"`
	DateFrom      string `json:"date_from,omitempty" validate:"omitempty,datetime=2006-01-02"`
	DateTo        string `json:"date_to,omitempty" validate:"omitempty,datetime=2006-01-02"`
	AvailableOnly bool   `json:"available_only"`
	Cursor        string `json:"cursor,omitempty"`
	Limit         int    `json:"limit,omitempty" validate:"omitempty,gte=1,lte=100"`
}

// Departure is a scheduled instance of a tour with live capacity.
type Departure struct {
	ID                string    `json:"id"`
	TourID            string    `json:"tour_id"`
	StartsAt          time.Time `json:"starts_at"`
	CapacityTotal     int       `json:"capacity_total"`
	CapacityAvailable int       `json:"capacity_available"`
	Price             Money     `json:"price"`
}

// SearchDeparturesResponse is one page of departures. NextCursor is empty on
// the last page.
type SearchDeparturesResponse struct {
	Items      []Departure `json:"items"`
	NextCursor string      `json:"next_cursor,omitempty"`
}

// CreateHoldRequest reserves seats on a departure for a limited time.
// A zero TTLSeconds leaves the hold lifetime to the server.
type CreateHoldRequest struct {
	DepartureID string `json:"departure_id" validate:"required"`
	Seats       int    `json:"seats" validate:"gte=1,lte=10"`
	CustomerRef string `json:"customer_ref" validate:"required,max=128"`
	TTLSeconds  int    `json:"ttl_seconds,omitempty" validate:"omitempty,gte=60,lte=3600"`
}

// Hold is a temporary seat reservation awaiting confirmation.
type Hold struct {
	ID          string     `json:"id"`
	DepartureID string     `json:"departure_id"`
	Seats       int        `json:"seats"`
	CustomerRef string     `json:"customer_ref"`
	Status      HoldStatus `json:"status"`
	ExpiresAt   time.Time  `json:"expires_at"`
}

// ConfirmBookingRequest turns an active hold into a booking.
type ConfirmBookingRequest struct {
	HoldID string `json:"hold_id" validate:"required"`
}

// CancelBookingRequest cancels a confirmed booking.
type CancelBookingRequest struct {
	BookingID string `json:"booking_id" validate:"required"`
}

// GetBookingRequest looks up a booking by ID.
type GetBookingRequest struct {
	BookingID string `json:"booking_id" validate:"required"`
}

// Booking is a confirmed reservation.
type Booking struct {
	ID          string        `json:"id"`
	HoldID      string        `json:"hold_id"`
	Code        string        `json:"code"`
	Seats       int           `json:"seats"`
	CustomerRef string        `json:"customer_ref"`
	Status      BookingStatus `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
}

// AdjustInventoryRequest changes a departure's capacity by delta. Delta may
// be negative; the server rejects adjustments below the seats already sold.
type AdjustInventoryRequest struct {
	DepartureID string `json:"departure_id" validate:"required"`
	Delta       int    `json:"delta"`
	Reason      string `json:"reason" validate:"required,min=1,max=500"`
}

// InventoryAdjustment is the audit record of a capacity change.
type InventoryAdjustment struct {
	ID          string    `json:"id"`
	DepartureID string    `json:"departure_id"`
	Delta       int       `json:"delta"`
	Reason      string    `json:"reason"`
	CreatedAt   time.Time `json:"created_at"`
	Actor       string    `json:"actor"`
}

// JoinWaitlistRequest queues a customer for a departure that is full.
type JoinWaitlistRequest struct {
	DepartureID string `json:"departure_id" validate:"required"`
	CustomerRef string `json:"customer_ref" validate:"required,max=128"`
}

// WaitlistEntry is a queued customer. NotifiedAt is nil until capacity frees
// up and the entry is processed.
type WaitlistEntry struct {
	ID          string     `json:"id"`
	DepartureID string     `json:"departure_id"`
	CustomerRef string     `json:"customer_ref"`
	CreatedAt   time.Time  `json:"created_at"`
	NotifiedAt  *time.Time `json:"notified_at,omitempty"`
}

// NotifyWaitlistRequest processes a departure's waitlist, creating holds for
// as many queued customers as remaining capacity allows.
type NotifyWaitlistRequest struct {
	DepartureID string `json:"departure_id" validate:"required"`
}

// NotifyWaitlistResponse reports the outcome of a waitlist notification run.
type NotifyWaitlistResponse struct {
	ProcessedCount int    `json:"processed_count"`
	HoldsCreated   []Hold `json:"holds_created"`
}

// Health is the health.ping response.
type Health struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
}
