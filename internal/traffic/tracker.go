package traffic

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"

	"github.com/flywindva/hicrew-tui/internal/logging"
)

// Tracker aggregates the tracking networks behind per-feed circuit breakers.
// A feed that keeps failing is skipped for a cooldown window instead of being
// hammered on every poll; the other feed keeps the map alive.
type Tracker struct {
	feeds []*breakerFeed
	log   zerolog.Logger
}

type breakerFeed struct {
	feed    Feed
	breaker *gobreaker.CircuitBreaker[[]Flight]
}

// NewTracker builds a tracker over the given feeds, in priority order for
// callsign deduplication.
func NewTracker(feeds ...Feed) *Tracker {
	t := &Tracker{log: logging.WithComponent("traffic")}
	for _, feed := range feeds {
		t.feeds = append(t.feeds, &breakerFeed{
			feed: feed,
			breaker: gobreaker.NewCircuitBreaker[[]Flight](gobreaker.Settings{
				Name:    feed.Name(),
				Timeout: 2 * time.Minute,
				ReadyToTrip: func(counts gobreaker.Counts) bool {
					return counts.ConsecutiveFailures >= 3
				},
			}),
		})
	}
	return t
}

// Fetch polls every feed and merges the results. It fails only when every
// feed fails; partial results are fine.
func (t *Tracker) Fetch(ctx context.Context) ([]Flight, error) {
	var batches [][]Flight
	var errs []error
	for _, bf := range t.feeds {
		flights, err := bf.breaker.Execute(func() ([]Flight, error) {
			return bf.feed.Fetch(ctx)
		})
		if err != nil {
			t.log.Warn().Str("feed", bf.feed.Name()).Err(err).Msg("feed fetch failed")
			errs = append(errs, err)
			continue
		}
		batches = append(batches, flights)
	}
	if len(batches) == 0 {
		return nil, errors.Join(errs...)
	}
	return Merge(batches...), nil
}
