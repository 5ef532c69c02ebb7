package timeline

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/savaki/slack-timeline/pkg/models"
)

// Comment is a reply to be posted into a thread
type Comment struct {
	Channel  string `json:"channel"`
	ThreadTS string `json:"thread_ts"`
	Text     string `json:"text"`
}

// Validate checks that every field is present
func (c Comment) Validate() error {
	switch {
	case c.Channel == "":
		return missing("channel")
	case c.ThreadTS == "":
		return missing("thread_ts")
	case c.Text == "":
		return missing("text")
	}
	return nil
}

// PostComment posts c as authored. The caller's credential is used when
// present, otherwise the configured bot token.
func (e *Engine) PostComment(ctx context.Context, token string, c Comment) (*models.PostResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	if token == "" {
		token = e.opts.BotToken
	}
	if token == "" {
		return nil, missing("token")
	}

	res, err := e.newClient(token).PostReply(ctx, c.Channel, c.ThreadTS, c.Text)
	if err != nil {
		return nil, upstream("chat.postMessage", err)
	}

	log.Info().
		Str("channelID", c.Channel).
		Str("threadTS", c.ThreadTS).
		Str("ts", res.Timestamp).
		Msg("Posted thread reply")
	return res, nil
}
