package timeline

import (
	"context"
	"strings"

	"github.com/savaki/slack-timeline/pkg/models"
)

// ResolveChannels lists public channels and keeps the subscribed ones. A
// listing failure is fatal: no partial channel list is returned.
func ResolveChannels(ctx context.Context, p Platform, prefix string) ([]models.Channel, error) {
	channels, err := p.ListPublicChannels(ctx)
	if err != nil {
		return nil, upstream("conversations.list", err)
	}

	return FilterByPrefix(channels, prefix), nil
}

// FilterByPrefix keeps channels whose name starts with prefix, preserving order.
// Channels without a name never match.
func FilterByPrefix(channels []models.Channel, prefix string) []models.Channel {
	var out []models.Channel
	for _, ch := range channels {
		if ch.Name == "" {
			continue
		}
		if strings.HasPrefix(ch.Name, prefix) {
			out = append(out, ch)
		}
	}
	return out
}
