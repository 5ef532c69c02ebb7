package timeline

import (
	"context"

	"github.com/savaki/slack-timeline/pkg/models"
)

// Platform is the subset of the chat platform API the engine depends on. One
// Platform value is bound to a single credential.
type Platform interface {
	ListPublicChannels(ctx context.Context) ([]models.Channel, error)
	History(ctx context.Context, channelID string, limit int) ([]models.Message, error)
	Replies(ctx context.Context, channelID, threadTS string) ([]models.Message, error)
	UserInfo(ctx context.Context, userID string) (*models.AuthorInfo, error)
	PostReply(ctx context.Context, channelID, threadTS, text string) (*models.PostResult, error)
	TeamURL(ctx context.Context) (string, error)
}

// ClientFactory binds a Platform to a credential
type ClientFactory func(token string) Platform
