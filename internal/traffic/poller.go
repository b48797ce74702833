package traffic

import (
	"context"
	"time"

	"github.com/flywindva/hicrew-tui/internal/logging"
)

const defaultPollInterval = 30 * time.Second

// StartPoller launches a background goroutine that refreshes the store at a
// fixed cadence until the context is cancelled. It returns immediately; the
// context is the cancellation handle, torn down deterministically with the
// rest of the program.
func StartPoller(ctx context.Context, store *Store, tracker *Tracker, interval time.Duration) {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	log := logging.WithComponent("traffic-poller")
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			refresh(ctx, store, tracker)
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
	log.Debug().Dur("interval", interval).Msg("traffic poller started")
}

func refresh(ctx context.Context, store *Store, tracker *Tracker) {
	flights, err := tracker.Fetch(ctx)
	if err != nil {
		store.Update(nil, err)
		return
	}
	store.Update(flights, nil)
}
