package server

import (
	"context"
	"net/http"

	"github.com/savaki/slack-timeline/pkg/handler"
	"github.com/savaki/slack-timeline/pkg/models"
	"github.com/savaki/slack-timeline/pkg/timeline"
)

// MockTimeline mocks the Timeline interface for testing
type MockTimeline struct {
	AggregateFunc   func(ctx context.Context, token string) (*models.Timeline, error)
	RepliesFunc     func(ctx context.Context, token, channelID, threadTS string) ([]models.Reply, error)
	PostCommentFunc func(ctx context.Context, token string, c timeline.Comment) (*models.PostResult, error)
}

var _ Timeline = (*MockTimeline)(nil)

func (m *MockTimeline) Aggregate(ctx context.Context, token string) (*models.Timeline, error) {
	if m.AggregateFunc != nil {
		return m.AggregateFunc(ctx, token)
	}
	return &models.Timeline{Channels: []models.Channel{}, Messages: []models.Message{}}, nil
}

func (m *MockTimeline) Replies(ctx context.Context, token, channelID, threadTS string) ([]models.Reply, error) {
	if m.RepliesFunc != nil {
		return m.RepliesFunc(ctx, token, channelID, threadTS)
	}
	return []models.Reply{}, nil
}

func (m *MockTimeline) PostComment(ctx context.Context, token string, c timeline.Comment) (*models.PostResult, error) {
	if m.PostCommentFunc != nil {
		return m.PostCommentFunc(ctx, token, c)
	}
	return &models.PostResult{OK: true, Channel: c.Channel}, nil
}

// MockEvents mocks the Events interface for testing
type MockEvents struct {
	HandleFunc func(ctx context.Context, header http.Header, body []byte) (*handler.EventResult, error)
}

var _ Events = (*MockEvents)(nil)

func (m *MockEvents) Handle(ctx context.Context, header http.Header, body []byte) (*handler.EventResult, error) {
	if m.HandleFunc != nil {
		return m.HandleFunc(ctx, header, body)
	}
	return &handler.EventResult{}, nil
}
