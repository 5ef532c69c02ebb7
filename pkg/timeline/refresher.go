package timeline

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/savaki/slack-timeline/pkg/activity"
)

// DefaultPollInterval is how often a Refresher checks the activity signal
const DefaultPollInterval = 60 * time.Second

// Refresher re-runs an expensive refresh only when the activity signal
// reports new messages. Refreshes run one at a time on the Run goroutine.
type Refresher struct {
	signal   activity.Signal
	interval time.Duration
	refresh  func(ctx context.Context) error
}

// NewRefresher creates a refresher polling signal every interval
func NewRefresher(signal activity.Signal, interval time.Duration, refresh func(ctx context.Context) error) *Refresher {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Refresher{
		signal:   signal,
		interval: interval,
		refresh:  refresh,
	}
}

// Run polls until ctx is done
func (r *Refresher) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	log.Info().Dur("interval", r.interval).Msg("Starting activity polling")
	for {
		select {
		case <-ctx.Done():
			log.Debug().Msg("Context done, stopping activity polling")
			return ctx.Err()
		case <-ticker.C:
			_, _ = r.Tick(ctx)
		}
	}
}

// Tick polls the signal once and refreshes on a positive answer. It reports
// whether a refresh ran. The signal is cleared before refreshing, so a failed
// refresh is not retried; the next one waits for new activity.
func (r *Refresher) Tick(ctx context.Context) (bool, error) {
	changed, err := r.signal.PollAndReset(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to poll activity signal")
		return false, err
	}
	if !changed {
		log.Trace().Msg("No new activity")
		return false, nil
	}

	log.Debug().Msg("New activity, refreshing timeline")
	if err := r.refresh(ctx); err != nil {
		log.Warn().Err(err).Msg("Timeline refresh failed, pending activity dropped")
		return true, err
	}
	return true, nil
}
