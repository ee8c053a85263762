// Package tourbook provides a Go client SDK for the TourBook booking API,
// an RPC-over-HTTP service for tours, departures, seat holds, and bookings.
//
// Every call retries transient failures with exponential backoff, carries
// request and trace IDs, and, for mutating procedures, an idempotency key
// that stays stable across retries so a retried request is never applied
// twice.
//
// Basic usage:
//
//	client, err := tourbook.New("https://api.tourbook.example", "your-token")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Hold two seats on a departure
//	hold, err := client.CreateHold(ctx, tourbook.CreateHoldRequest{
//	    DepartureID: departureID,
//	    Seats:       2,
//	    CustomerRef: "alice@example.com",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Confirm it into a booking
//	booking, err := client.ConfirmBooking(ctx, hold.ID)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Booked:", booking.Code)
//
// Failures are returned as *[Error] values; match broad classes with
// errors.Is against the exported sentinels:
//
//	if errors.Is(err, tourbook.ErrHoldExpired) {
//	    // the hold lapsed before confirmation; place a new one
//	}
package tourbook
