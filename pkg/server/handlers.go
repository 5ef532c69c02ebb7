package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"

	"github.com/savaki/slack-timeline/pkg/handler"
	slackclient "github.com/savaki/slack-timeline/pkg/slack"
	"github.com/savaki/slack-timeline/pkg/timeline"
)

// maxEventBytes caps webhook payloads read into memory
const maxEventBytes = 1 << 20

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleTimeline(w http.ResponseWriter, r *http.Request) {
	result, err := s.engine.Aggregate(r.Context(), credential(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleCheckMessages(w http.ResponseWriter, r *http.Request) {
	pending, err := s.signal.PollAndReset(r.Context())
	if err != nil {
		requestLogger(r).Error().Err(err).Msg("Failed to poll activity")
		respondError(w, http.StatusInternalServerError, "failed to check messages")
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"newMessages": pending})
}

func (s *Server) handleReplies(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	replies, err := s.engine.Replies(r.Context(), credential(r), q.Get("channel_id"), q.Get("thread_ts"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, replies)
}

func (s *Server) handleComment(w http.ResponseWriter, r *http.Request) {
	var c timeline.Comment
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := s.engine.PostComment(r.Context(), credential(r), c)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxEventBytes))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := s.events.Handle(r.Context(), r.Header, body)
	switch {
	case errors.Is(err, handler.ErrInvalidSignature):
		requestLogger(r).Warn().Err(err).Msg("Rejected event")
		respondError(w, http.StatusUnauthorized, "invalid signature")
		return
	case errors.Is(err, handler.ErrMalformedEvent):
		respondError(w, http.StatusBadRequest, "invalid event format")
		return
	case err != nil:
		requestLogger(r).Error().Err(err).Msg("Failed to handle event")
		respondError(w, http.StatusInternalServerError, "failed to process event")
		return
	}

	if result.Challenge != "" {
		respondJSON(w, http.StatusOK, map[string]string{"challenge": result.Challenge})
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, "OK")
}

func (s *Server) handleAuthCallback(w http.ResponseWriter, r *http.Request) {
	if s.exchangeCode == nil {
		respondError(w, http.StatusInternalServerError, "missing Slack client ID, client secret, or redirect URI")
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		respondError(w, http.StatusBadRequest, "missing code")
		return
	}

	token, err := s.exchangeCode(r.Context(), code)
	if err != nil {
		requestLogger(r).Error().Err(err).Msg("OAuth exchange failed")
		respondError(w, http.StatusInternalServerError, "oauth exchange failed")
		return
	}

	setTokenCookie(w, token)
	http.Redirect(w, r, "/timeline?token="+url.QueryEscape(token), http.StatusFound)
}

// fail maps engine errors onto HTTP statuses
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	var ve *timeline.ValidationError
	if errors.As(err, &ve) {
		respondError(w, http.StatusBadRequest, ve.Error())
		return
	}

	event := requestLogger(r).Error().Err(err)
	if hint, ok := slackclient.RetryAfter(err); ok {
		event = event.Str("retry_after", hint)
	}
	event.Msg("Upstream request failed")

	respondError(w, http.StatusInternalServerError, "upstream request failed")
}

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// respondError writes a JSON error response.
func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}
