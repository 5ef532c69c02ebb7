// Package timeline aggregates subscribed channels into a single feed of
// enriched messages, newest first.
package timeline

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/savaki/slack-timeline/pkg/models"
	"github.com/savaki/slack-timeline/pkg/normalize"
)

const (
	DefaultChannelPrefix  = "times-"
	DefaultHistoryLimit   = 5
	DefaultRetention      = 14 * 24 * time.Hour
	DefaultMaxConcurrency = 4

	// defaultBaseURL is used for permalinks when the workspace cannot be resolved
	defaultBaseURL = "https://slack.com"
)

// Options tunes an Engine. Zero values fall back to the defaults above.
type Options struct {
	ChannelPrefix  string
	HistoryLimit   int
	Retention      time.Duration
	MaxConcurrency int

	// Workspace is the permalink subdomain. When empty the workspace URL is
	// resolved through the platform once per run.
	Workspace string

	// BotToken is used to post comments when the caller has no credential
	BotToken string
}

// Engine runs the aggregation pipeline and the per-thread operations
type Engine struct {
	newClient ClientFactory
	opts      Options
	now       func() time.Time
}

// NewEngine creates an engine that talks to the platform through newClient
func NewEngine(newClient ClientFactory, opts Options) *Engine {
	if opts.ChannelPrefix == "" {
		opts.ChannelPrefix = DefaultChannelPrefix
	}
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = DefaultHistoryLimit
	}
	if opts.Retention <= 0 {
		opts.Retention = DefaultRetention
	}
	if opts.MaxConcurrency <= 0 {
		opts.MaxConcurrency = DefaultMaxConcurrency
	}

	return &Engine{
		newClient: newClient,
		opts:      opts,
		now:       time.Now,
	}
}

// Aggregate runs one full pass: resolve channels, fetch each channel's
// retention window, enrich, normalize and sort newest first. Only a missing
// credential or a failed channel listing fails the pass.
func (e *Engine) Aggregate(ctx context.Context, token string) (*models.Timeline, error) {
	if token == "" {
		return nil, missing("token")
	}
	start := e.now()
	p := e.newClient(token)

	channels, err := ResolveChannels(ctx, p, e.opts.ChannelPrefix)
	if err != nil {
		log.Error().Err(err).Msg("Failed to resolve channels")
		return nil, err
	}

	baseURL := e.baseURL(ctx, p)
	messages := e.fetchWindow(ctx, p, channels, baseURL)

	authors := e.resolveAuthors(ctx, p, messageUsers(messages))
	for i := range messages {
		if info, ok := authors[messages[i].User]; ok {
			messages[i].UserInfo = info
		}
		messages[i].Text = normalize.Text(messages[i].Text)
	}

	SortNewestFirst(messages)

	log.Info().
		Int("channel_count", len(channels)).
		Int("message_count", len(messages)).
		Int("author_count", len(authors)).
		Dur("elapsed", time.Since(start)).
		Msg("Timeline aggregated")

	if channels == nil {
		channels = []models.Channel{}
	}
	return &models.Timeline{Channels: channels, Messages: messages}, nil
}

// SortNewestFirst orders messages by timestamp, newest first
func SortNewestFirst(messages []models.Message) {
	sort.SliceStable(messages, func(i, j int) bool {
		return models.CompareTimestamps(messages[i].Timestamp, messages[j].Timestamp) > 0
	})
}

func (e *Engine) baseURL(ctx context.Context, p Platform) string {
	if e.opts.Workspace != "" {
		return models.WorkspaceURL(e.opts.Workspace)
	}

	url, err := p.TeamURL(ctx)
	if err != nil {
		log.Warn().Err(err).Str("fallback", defaultBaseURL).Msg("Could not resolve workspace url")
		return defaultBaseURL
	}
	return url
}

func messageUsers(messages []models.Message) []string {
	users := make([]string, 0, len(messages))
	for _, m := range messages {
		users = append(users, m.User)
	}
	return users
}
