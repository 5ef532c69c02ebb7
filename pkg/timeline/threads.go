package timeline

import (
	"context"
	"errors"

	"github.com/savaki/slack-timeline/pkg/models"
	"github.com/savaki/slack-timeline/pkg/normalize"
)

var errNoReplies = errors.New("no messages collection")

// Replies fetches one thread, enriches and normalizes every entry, and
// returns it in platform order. The first entry is the thread root; callers
// decide whether to display it.
func (e *Engine) Replies(ctx context.Context, token, channelID, threadTS string) ([]models.Reply, error) {
	switch {
	case token == "":
		return nil, missing("token")
	case channelID == "":
		return nil, missing("channel_id")
	case threadTS == "":
		return nil, missing("thread_ts")
	}

	p := e.newClient(token)
	msgs, err := p.Replies(ctx, channelID, threadTS)
	if err != nil {
		return nil, upstream("conversations.replies", err)
	}
	if msgs == nil {
		return nil, upstream("conversations.replies", errNoReplies)
	}

	baseURL := e.baseURL(ctx, p)
	authors := e.resolveAuthors(ctx, p, messageUsers(msgs))

	replies := make([]models.Reply, 0, len(msgs))
	for _, m := range msgs {
		m.ChannelID = channelID
		m.URL = models.Permalink(baseURL, channelID, m.Timestamp)
		m.Text = normalize.Text(m.Text)
		if info, ok := authors[m.User]; ok {
			m.UserInfo = info
		}
		replies = append(replies, m.ToReply())
	}

	return replies, nil
}
