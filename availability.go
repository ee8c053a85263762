package tourbook

import (
	"context"
	"math/rand"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

type availabilityResult struct {
	tourID     string
	departures []Departure
}

// PollAvailability polls departure.search until every given tour has at
// least one departure with free seats, the poll budget expires, or ctx is
// cancelled. It returns the open departures found per tour ID; tours still
// without availability when polling stops are absent from the map, so a
// budget expiry yields a best-effort partial result, not an error.
//
// Each round searches the still-pending tours concurrently, then waits with
// an exponentially growing, jittered delay. Transient errors leave a tour
// pending for the next round; a non-retryable error aborts the poll.
func (c *Client) PollAvailability(ctx context.Context, tourIDs []string, opts ...PollOption) (map[string][]Departure, error) {
	cfg := &pollConfig{
		interval:    defaultPollInterval,
		maxInterval: defaultPollMaxInterval,
		budget:      defaultPollBudget,
		concurrency: defaultPollConcurrency,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.interval <= 0 {
		cfg.interval = defaultPollInterval
	}
	if cfg.maxInterval < cfg.interval {
		cfg.maxInterval = cfg.interval
	}
	if cfg.budget <= 0 {
		cfg.budget = defaultPollBudget
	}
	if cfg.concurrency < 1 {
		cfg.concurrency = 1
	}

	found := make(map[string][]Departure)
	pending := make(map[string]struct{})
	for _, raw := range tourIDs {
		if id := strings.TrimSpace(raw); id != "" {
			pending[id] = struct{}{}
		}
	}
	if len(pending) == 0 {
		return found, nil
	}

	deadline := time.Now().Add(cfg.budget)

	// pollCtx enforces the budget. When it expires we stop and return what
	// we have; only the caller's own ctx produces an error.
	pollCtx, cancel := context.WithDeadline(ctx, deadline)
	defer cancel()

	wait := cfg.interval
	for len(pending) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if pollCtx.Err() != nil {
			break
		}

		results, err := c.availabilityRound(pollCtx, pending, cfg.concurrency)
		if err != nil {
			if cerr := ctx.Err(); cerr != nil {
				return nil, cerr
			}
			if pollCtx.Err() != nil {
				break
			}
			return nil, err
		}
		for id, deps := range results {
			found[id] = deps
			delete(pending, id)
		}
		if len(pending) == 0 {
			break
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			break
		}
		if err := sleepRound(pollCtx, min(jitterWait(wait), remaining)); err != nil {
			if cerr := ctx.Err(); cerr != nil {
				return nil, cerr
			}
			break
		}
		wait = min(wait*2, cfg.maxInterval)
	}

	return found, nil
}

// availabilityRound searches every pending tour once, bounded by the
// concurrency limit. Tours with a transient failure are simply missing from
// the returned map and stay pending.
func (c *Client) availabilityRound(ctx context.Context, pending map[string]struct{}, concurrency int) (map[string][]Departure, error) {
	ids := make([]string, 0, len(pending))
	for id := range pending {
		ids = append(ids, id)
	}

	// Buffered so workers never block on send.
	resCh := make(chan availabilityResult, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for _, id := range ids {
		g.Go(func() error {
			res, err := c.SearchDepartures(gctx, SearchDeparturesRequest{
				TourID:        id,
				AvailableOnly: true,
			})
			if err != nil {
				if IsRetryable(err) {
					return nil
				}
				return err
			}
			if len(res.Items) > 0 {
				resCh <- availabilityResult{tourID: id, departures: res.Items}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	close(resCh)

	found := make(map[string][]Departure, len(ids))
	for r := range resCh {
		found[r.tourID] = r.departures
	}
	return found, nil
}

// jitterWait adds up to 10% random jitter so concurrent pollers spread out.
func jitterWait(d time.Duration) time.Duration {
	if d <= 0 {
		return d
	}
	return d + time.Duration(rand.Int63n(int64(d)/10+1))
}

func sleepRound(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
