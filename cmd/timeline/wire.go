package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/savaki/slack-timeline/pkg/activity"
	appconfig "github.com/savaki/slack-timeline/pkg/config"
	"github.com/savaki/slack-timeline/pkg/dynamodb"
	"github.com/savaki/slack-timeline/pkg/server"
	slackclient "github.com/savaki/slack-timeline/pkg/slack"
	"github.com/savaki/slack-timeline/pkg/timeline"
)

// newEngine builds the timeline engine from configuration
func newEngine(c *appconfig.Config) *timeline.Engine {
	factory := func(token string) timeline.Platform {
		return slackclient.NewClient(token, slackclient.Options{Debug: c.SlackDebug})
	}

	return timeline.NewEngine(factory, timeline.Options{
		ChannelPrefix:  c.ChannelPrefix,
		HistoryLimit:   c.HistoryLimit,
		Retention:      c.GetRetention(),
		MaxConcurrency: c.MaxConcurrency,
		Workspace:      c.Workspace,
		BotToken:       c.SlackBotToken,
	})
}

// newSignal creates the activity signal for the configured backend
func newSignal(ctx context.Context, c *appconfig.Config) (activity.Signal, error) {
	switch c.SignalBackend {
	case appconfig.SignalBackendMemory:
		return activity.NewMemory(), nil

	case appconfig.SignalBackendDynamoDB:
		client, err := dynamodb.NewClient(ctx, c.AWSRegion, c.DynamoDBEndpoint)
		if err != nil {
			return nil, err
		}
		log.Info().Str("table", c.ActivityTable).Msg("Using DynamoDB activity signal")
		return dynamodb.NewActivityRepository(client, c.ActivityTable), nil
	}

	return nil, fmt.Errorf("unknown signal backend %q", c.SignalBackend)
}

// newCodeExchanger returns nil when OAuth is not configured
func newCodeExchanger(c *appconfig.Config) server.CodeExchanger {
	if err := c.ValidateOAuth(); err != nil {
		log.Info().Err(err).Msg("OAuth callback disabled")
		return nil
	}

	return func(ctx context.Context, code string) (string, error) {
		return slackclient.ExchangeCode(ctx, http.DefaultClient, c.SlackClientID, c.SlackClientSecret, code, c.SlackRedirectURI)
	}
}
