package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/slack-go/slack"
)

// ErrInvalidSignature is returned when a request did not come from Slack
var ErrInvalidSignature = errors.New("invalid slack signature")

// ValidateSlackRequest checks the X-Slack-Signature header against the body.
// Requests whose X-Slack-Request-Timestamp is more than five minutes off are
// rejected.
// See: https://api.slack.com/authentication/verifying-requests-from-slack
func ValidateSlackRequest(header http.Header, body []byte, signingSecret string) error {
	verifier, err := slack.NewSecretsVerifier(header, signingSecret)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	if _, err := verifier.Write(body); err != nil {
		return fmt.Errorf("hash request body: %w", err)
	}
	if err := verifier.Ensure(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	return nil
}
