package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/savaki/slack-timeline/pkg/activity"
	"github.com/slack-go/slack/slackevents"
)

// ErrMalformedEvent is returned when the payload is not a JSON event envelope
var ErrMalformedEvent = errors.New("malformed event payload")

// EventResult is what the webhook endpoint should answer with
type EventResult struct {
	// Challenge is set for url_verification handshakes and must be echoed
	Challenge string `json:"challenge,omitempty"`

	// Notified reports whether the event set the activity signal
	Notified bool `json:"-"`
}

// EventHandler turns inbound Slack events into activity notifications
type EventHandler struct {
	signal        activity.Signal
	signingSecret string
}

// NewEventHandler creates a new event handler. Signatures are only checked
// when signingSecret is non-empty.
func NewEventHandler(signal activity.Signal, signingSecret string) *EventHandler {
	return &EventHandler{
		signal:        signal,
		signingSecret: signingSecret,
	}
}

// Handle verifies and dispatches a single webhook delivery
func (h *EventHandler) Handle(ctx context.Context, header http.Header, body []byte) (*EventResult, error) {
	if h.signingSecret != "" {
		if err := ValidateSlackRequest(header, body, h.signingSecret); err != nil {
			return nil, err
		}
	}

	if !json.Valid(body) {
		return nil, ErrMalformedEvent
	}

	event, err := slackevents.ParseEvent(json.RawMessage(body), slackevents.OptionNoVerifyToken())
	if err != nil {
		// unknown inner event types fail to parse; they are acknowledged
		log.Debug().Err(err).Msg("Ignoring unparseable event")
		return &EventResult{}, nil
	}

	switch event.Type {
	case slackevents.URLVerification:
		challenge, ok := event.Data.(*slackevents.EventsAPIURLVerificationEvent)
		if !ok || challenge.Challenge == "" {
			return nil, ErrMalformedEvent
		}
		log.Info().Msg("Responding to Slack URL verification challenge")
		return &EventResult{Challenge: challenge.Challenge}, nil

	case slackevents.CallbackEvent:
		return h.handleCallback(ctx, event.InnerEvent)
	}

	log.Debug().Str("type", event.Type).Msg("Ignoring event type")
	return &EventResult{}, nil
}

func (h *EventHandler) handleCallback(ctx context.Context, inner slackevents.EventsAPIInnerEvent) (*EventResult, error) {
	msg, ok := inner.Data.(*slackevents.MessageEvent)
	if !ok {
		log.Debug().Str("type", inner.Type).Msg("Ignoring callback event")
		return &EventResult{}, nil
	}

	if err := h.signal.Notify(ctx); err != nil {
		return nil, fmt.Errorf("notify activity: %w", err)
	}

	log.Info().
		Str("channel", msg.Channel).
		Str("subtype", msg.SubType).
		Msg("New message activity")
	return &EventResult{Notified: true}, nil
}
