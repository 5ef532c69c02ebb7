package timeline

import (
	"context"

	"github.com/savaki/slack-timeline/pkg/models"
)

// MockPlatform mocks the Platform interface for testing
type MockPlatform struct {
	ListPublicChannelsFunc func(ctx context.Context) ([]models.Channel, error)
	HistoryFunc            func(ctx context.Context, channelID string, limit int) ([]models.Message, error)
	RepliesFunc            func(ctx context.Context, channelID, threadTS string) ([]models.Message, error)
	UserInfoFunc           func(ctx context.Context, userID string) (*models.AuthorInfo, error)
	PostReplyFunc          func(ctx context.Context, channelID, threadTS, text string) (*models.PostResult, error)
	TeamURLFunc            func(ctx context.Context) (string, error)
}

// Verify MockPlatform implements Platform
var _ Platform = (*MockPlatform)(nil)

func (m *MockPlatform) ListPublicChannels(ctx context.Context) ([]models.Channel, error) {
	if m.ListPublicChannelsFunc != nil {
		return m.ListPublicChannelsFunc(ctx)
	}
	return nil, nil
}

func (m *MockPlatform) History(ctx context.Context, channelID string, limit int) ([]models.Message, error) {
	if m.HistoryFunc != nil {
		return m.HistoryFunc(ctx, channelID, limit)
	}
	return nil, nil
}

func (m *MockPlatform) Replies(ctx context.Context, channelID, threadTS string) ([]models.Message, error) {
	if m.RepliesFunc != nil {
		return m.RepliesFunc(ctx, channelID, threadTS)
	}
	return []models.Message{}, nil
}

func (m *MockPlatform) UserInfo(ctx context.Context, userID string) (*models.AuthorInfo, error) {
	if m.UserInfoFunc != nil {
		return m.UserInfoFunc(ctx, userID)
	}
	return &models.AuthorInfo{DisplayName: userID}, nil
}

func (m *MockPlatform) PostReply(ctx context.Context, channelID, threadTS, text string) (*models.PostResult, error) {
	if m.PostReplyFunc != nil {
		return m.PostReplyFunc(ctx, channelID, threadTS, text)
	}
	return &models.PostResult{OK: true, Channel: channelID, Timestamp: "1620000001.000100", Text: text}, nil
}

func (m *MockPlatform) TeamURL(ctx context.Context) (string, error) {
	if m.TeamURLFunc != nil {
		return m.TeamURLFunc(ctx)
	}
	return "https://acme.slack.com/", nil
}

// factoryFor returns a ClientFactory that always hands out p and records tokens
func factoryFor(p Platform, tokens *[]string) ClientFactory {
	return func(token string) Platform {
		if tokens != nil {
			*tokens = append(*tokens, token)
		}
		return p
	}
}
