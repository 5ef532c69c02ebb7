package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/rs/zerolog/log"
	appconfig "github.com/savaki/slack-timeline/pkg/config"
	"github.com/savaki/slack-timeline/pkg/dynamodb"
	"github.com/savaki/slack-timeline/pkg/handler"
	"github.com/savaki/slack-timeline/pkg/logging"
)

// Events handles a single webhook delivery
type Events interface {
	Handle(ctx context.Context, header http.Header, body []byte) (*handler.EventResult, error)
}

// newHandler builds the Lambda handler around h
func newHandler(h Events) func(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	return func(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		log.Debug().Str("requestID", request.RequestContext.RequestID).Msg("Received Slack event")

		header := http.Header{}
		for k, v := range request.Headers {
			header.Set(k, v)
		}
		for k, vs := range request.MultiValueHeaders {
			for _, v := range vs {
				header.Add(k, v)
			}
		}

		result, err := h.Handle(ctx, header, []byte(request.Body))
		switch {
		case errors.Is(err, handler.ErrInvalidSignature):
			log.Warn().Err(err).Msg("Invalid Slack signature")
			return errorResponse(http.StatusUnauthorized, "Invalid signature"), nil
		case errors.Is(err, handler.ErrMalformedEvent):
			return errorResponse(http.StatusBadRequest, "Invalid event format"), nil
		case err != nil:
			log.Error().Err(err).Msg("Failed to handle event")
			return errorResponse(http.StatusInternalServerError, "Failed to process event"), nil
		}

		if result.Challenge != "" {
			log.Info().Msg("Responding to Slack URL verification challenge")
			return jsonResponse(http.StatusOK, map[string]string{"challenge": result.Challenge}), nil
		}
		return events.APIGatewayProxyResponse{
			StatusCode: http.StatusOK,
			Body:       "OK",
			Headers:    map[string]string{"Content-Type": "text/plain; charset=utf-8"},
		}, nil
	}
}

// errorResponse returns a JSON error response
func errorResponse(status int, message string) events.APIGatewayProxyResponse {
	return jsonResponse(status, map[string]string{"error": message})
}

// jsonResponse returns a JSON response
func jsonResponse(status int, body interface{}) events.APIGatewayProxyResponse {
	data, _ := json.Marshal(body)
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Body:       string(data),
		Headers:    map[string]string{"Content-Type": "application/json"},
	}
}

func main() {
	ctx := context.Background()

	cfg, err := appconfig.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	logging.Setup(cfg.LogLevel, cfg.LogFormat)

	// Validate Lambda-specific configuration
	if err := cfg.ValidateLambda(); err != nil {
		log.Fatal().Err(err).Msg("Invalid Lambda config")
	}

	client, err := dynamodb.NewClient(ctx, cfg.AWSRegion, cfg.DynamoDBEndpoint)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create DynamoDB client")
	}
	signal := dynamodb.NewActivityRepository(client, cfg.ActivityTable)

	lambda.Start(newHandler(handler.NewEventHandler(signal, cfg.SlackSigningSecret)))
}
