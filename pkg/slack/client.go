package slack

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/savaki/slack-timeline/pkg/models"
	"github.com/slack-go/slack"
)

// ErrNoMessages is returned when the platform answers without a messages collection
var ErrNoMessages = errors.New("no messages collection in response")

const pageSize = 200

// Client wraps the Slack SDK client with a single user or bot credential
type Client struct {
	client *slack.Client
}

// Options configures a Client
type Options struct {
	Debug      bool
	APIURL     string
	HTTPClient *http.Client
}

// NewClient creates a new Slack client for a credential
func NewClient(token string, opts Options) *Client {
	slackOpts := []slack.Option{
		slack.OptionLog(newLogAdapter()),
		slack.OptionDebug(opts.Debug),
	}
	if opts.APIURL != "" {
		slackOpts = append(slackOpts, slack.OptionAPIURL(opts.APIURL))
	}
	if opts.HTTPClient != nil {
		slackOpts = append(slackOpts, slack.OptionHTTPClient(opts.HTTPClient))
	}

	return &Client{
		client: slack.New(token, slackOpts...),
	}
}

// ListPublicChannels lists every non-archived public channel, following cursors
func (c *Client) ListPublicChannels(ctx context.Context) ([]models.Channel, error) {
	var channels []models.Channel
	cursor := ""
	for {
		page, next, err := c.client.GetConversationsContext(ctx, &slack.GetConversationsParameters{
			Cursor:          cursor,
			Limit:           pageSize,
			Types:           []string{"public_channel"},
			ExcludeArchived: true,
		})
		if err != nil {
			return nil, fmt.Errorf("list conversations: %w", err)
		}

		for _, ch := range page {
			if ch.ID == "" {
				continue
			}
			channels = append(channels, models.Channel{ID: ch.ID, Name: ch.Name})
		}

		cursor = strings.TrimSpace(next)
		if cursor == "" {
			break
		}
	}

	return channels, nil
}

// History fetches the most recent messages of a channel, newest first
func (c *Client) History(ctx context.Context, channelID string, limit int) ([]models.Message, error) {
	resp, err := c.client.GetConversationHistoryContext(ctx, &slack.GetConversationHistoryParameters{
		ChannelID: channelID,
		Limit:     limit,
	})
	if err != nil {
		return nil, fmt.Errorf("conversation history: %w", err)
	}

	return toMessages(channelID, resp.Messages), nil
}

// Replies fetches every message in a thread, oldest first. The thread root is
// the first entry.
func (c *Client) Replies(ctx context.Context, channelID, threadTS string) ([]models.Message, error) {
	all := []models.Message{}
	cursor := ""
	for {
		page, hasMore, next, err := c.client.GetConversationRepliesContext(ctx, &slack.GetConversationRepliesParameters{
			ChannelID: channelID,
			Timestamp: threadTS,
			Cursor:    cursor,
			Limit:     pageSize,
		})
		if err != nil {
			return nil, fmt.Errorf("conversation replies: %w", err)
		}
		if page == nil && cursor == "" {
			return nil, fmt.Errorf("conversation replies: %w", ErrNoMessages)
		}

		all = append(all, toMessages(channelID, page)...)

		if !hasMore || next == "" {
			break
		}
		cursor = next
	}

	return all, nil
}

// UserInfo resolves the display metadata of a user
func (c *Client) UserInfo(ctx context.Context, userID string) (*models.AuthorInfo, error) {
	user, err := c.client.GetUserInfoContext(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user info: %w", err)
	}

	return toAuthorInfo(user), nil
}

// PostReply posts text into a thread
func (c *Client) PostReply(ctx context.Context, channelID, threadTS, text string) (*models.PostResult, error) {
	channel, timestamp, err := c.client.PostMessageContext(ctx, channelID,
		slack.MsgOptionText(text, false),
		slack.MsgOptionTS(threadTS),
	)
	if err != nil {
		return nil, fmt.Errorf("post message: %w", err)
	}

	return &models.PostResult{
		OK:        true,
		Channel:   channel,
		Timestamp: timestamp,
		Text:      text,
	}, nil
}

// TeamURL returns the workspace URL reported by auth.test
func (c *Client) TeamURL(ctx context.Context) (string, error) {
	resp, err := c.client.AuthTestContext(ctx)
	if err != nil {
		return "", fmt.Errorf("auth test: %w", err)
	}
	if resp.URL == "" {
		return "", fmt.Errorf("auth test: empty team url")
	}

	return resp.URL, nil
}

// ExchangeCode trades an OAuth authorization code for the authorizing user's token
func ExchangeCode(ctx context.Context, httpClient *http.Client, clientID, clientSecret, code, redirectURI string) (string, error) {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	resp, err := slack.GetOAuthV2ResponseContext(ctx, httpClient, clientID, clientSecret, code, redirectURI)
	if err != nil {
		return "", fmt.Errorf("oauth v2 access: %w", err)
	}
	if resp.AuthedUser.AccessToken == "" {
		return "", fmt.Errorf("oauth v2 access: no user token in response")
	}

	log.Info().
		Str("user", resp.AuthedUser.ID).
		Str("scope", resp.AuthedUser.Scope).
		Msg("Exchanged OAuth code for user token")
	return resp.AuthedUser.AccessToken, nil
}

// RetryAfter reports the back-off hint of a rate-limited call
func RetryAfter(err error) (string, bool) {
	var rle *slack.RateLimitedError
	if errors.As(err, &rle) && rle != nil {
		return rle.RetryAfter.String(), true
	}
	return "", false
}

func toMessages(channelID string, msgs []slack.Message) []models.Message {
	out := make([]models.Message, 0, len(msgs))
	for _, m := range msgs {
		if m.Timestamp == "" {
			log.Debug().Str("channelID", channelID).Msg("Dropping message without timestamp")
			continue
		}
		out = append(out, models.Message{
			Timestamp:       m.Timestamp,
			Text:            m.Text,
			User:            m.User,
			ChannelID:       channelID,
			SubType:         m.SubType,
			ThreadTimestamp: m.ThreadTimestamp,
			ReplyCount:      m.ReplyCount,
		})
	}
	return out
}

func toAuthorInfo(user *slack.User) *models.AuthorInfo {
	if user == nil {
		return nil
	}

	name := user.Profile.DisplayName
	if name == "" {
		name = user.RealName
	}
	if name == "" {
		name = user.Name
	}

	return &models.AuthorInfo{
		DisplayName: name,
		AvatarURL:   user.Profile.Image48,
	}
}
