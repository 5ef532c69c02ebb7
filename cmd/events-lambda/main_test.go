package main

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/savaki/slack-timeline/pkg/activity"
	"github.com/savaki/slack-timeline/pkg/handler"
)

// MockEvents mocks the Events interface for testing
type MockEvents struct {
	HandleFunc func(ctx context.Context, header http.Header, body []byte) (*handler.EventResult, error)
}

var _ Events = (*MockEvents)(nil)

func (m *MockEvents) Handle(ctx context.Context, header http.Header, body []byte) (*handler.EventResult, error) {
	return m.HandleFunc(ctx, header, body)
}

func TestHandlerStatuses(t *testing.T) {
	tests := []struct {
		name       string
		result     *handler.EventResult
		err        error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "challenge",
			result:     &handler.EventResult{Challenge: "abc"},
			wantStatus: http.StatusOK,
			wantBody:   `{"challenge":"abc"}`,
		},
		{
			name:       "acknowledged",
			result:     &handler.EventResult{Notified: true},
			wantStatus: http.StatusOK,
			wantBody:   "OK",
		},
		{
			name:       "invalid signature",
			err:        handler.ErrInvalidSignature,
			wantStatus: http.StatusUnauthorized,
			wantBody:   `{"error":"Invalid signature"}`,
		},
		{
			name:       "malformed",
			err:        handler.ErrMalformedEvent,
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"Invalid event format"}`,
		},
		{
			name:       "signal failure",
			err:        errors.New("update activity: throttled"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"error":"Failed to process event"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHandler(&MockEvents{
				HandleFunc: func(ctx context.Context, header http.Header, body []byte) (*handler.EventResult, error) {
					if got := header.Get("X-Slack-Signature"); got != "v0=abc" {
						t.Errorf("X-Slack-Signature = %q, want v0=abc", got)
					}
					return tt.result, tt.err
				},
			})

			resp, err := h(context.Background(), events.APIGatewayProxyRequest{
				Headers: map[string]string{"x-slack-signature": "v0=abc"},
				Body:    `{"type":"event_callback"}`,
			})
			if err != nil {
				t.Fatalf("handler error = %v", err)
			}
			if resp.StatusCode != tt.wantStatus {
				t.Errorf("StatusCode = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
			if resp.Body != tt.wantBody {
				t.Errorf("Body = %s, want %s", resp.Body, tt.wantBody)
			}
		})
	}
}

func TestHandlerWithSignedEvent(t *testing.T) {
	secret := "test-signing-secret"
	body := `{"type":"event_callback","event":{"type":"message","channel":"C1","user":"U1","text":"hi","ts":"1620000000.000100"}}`
	timestamp := strconv.FormatInt(time.Now().Unix(), 10)

	sig := activity.NewMemory()
	h := newHandler(handler.NewEventHandler(sig, secret))

	resp, err := h(context.Background(), events.APIGatewayProxyRequest{
		Headers: map[string]string{
			"X-Slack-Request-Timestamp": timestamp,
			"X-Slack-Signature":         sign(secret, timestamp, body),
		},
		Body: body,
	})
	if err != nil {
		t.Fatalf("handler error = %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("StatusCode = %d, body %s", resp.StatusCode, resp.Body)
	}

	if pending, _ := sig.PollAndReset(context.Background()); !pending {
		t.Error("message event should set the activity signal")
	}
}

func sign(secret, timestamp, body string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(fmt.Sprintf("v0:%s:%s", timestamp, body)))
	return "v0=" + fmt.Sprintf("%x", h.Sum(nil))
}
