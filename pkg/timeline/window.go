package timeline

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/savaki/slack-timeline/pkg/models"
	"golang.org/x/sync/errgroup"
)

// fetchWindow fetches every channel's recent history under the concurrency
// bound. A channel whose fetch fails contributes nothing.
func (e *Engine) fetchWindow(ctx context.Context, p Platform, channels []models.Channel, baseURL string) []models.Message {
	horizon := e.now().Add(-e.opts.Retention)
	results := make([][]models.Message, len(channels))

	var g errgroup.Group
	g.SetLimit(e.opts.MaxConcurrency)
	for i, ch := range channels {
		i, ch := i, ch
		g.Go(func() error {
			history, err := p.History(ctx, ch.ID, e.opts.HistoryLimit)
			if err != nil {
				log.Error().
					Err(err).
					Str("channelID", ch.ID).
					Str("channelName", ch.Name).
					Msg("Error fetching history for channel, skipping")
				return nil
			}

			kept := FilterWindow(history, horizon)
			for j := range kept {
				kept[j].ChannelID = ch.ID
				kept[j].URL = models.Permalink(baseURL, ch.ID, kept[j].Timestamp)
			}
			results[i] = kept

			log.Debug().
				Str("channelID", ch.ID).
				Str("channelName", ch.Name).
				Int("fetched", len(history)).
				Int("kept", len(kept)).
				Msg("Fetched channel window")
			return nil
		})
	}
	_ = g.Wait()

	var all []models.Message
	for _, msgs := range results {
		all = append(all, msgs...)
	}
	if all == nil {
		all = []models.Message{}
	}
	return all
}

// FilterWindow drops channel-join notices and messages posted at or before horizon
func FilterWindow(messages []models.Message, horizon time.Time) []models.Message {
	out := make([]models.Message, 0, len(messages))
	for _, m := range messages {
		if m.SubType == models.SubTypeChannelJoin {
			continue
		}

		posted, err := models.ParseTimestamp(m.Timestamp)
		if err != nil {
			log.Debug().Err(err).Str("channelID", m.ChannelID).Msg("Dropping message with unparseable timestamp")
			continue
		}
		if !posted.After(horizon) {
			continue
		}
		out = append(out, m)
	}
	return out
}
