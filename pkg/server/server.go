// Package server exposes the timeline engine over JSON HTTP.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/savaki/slack-timeline/pkg/activity"
	"github.com/savaki/slack-timeline/pkg/handler"
	"github.com/savaki/slack-timeline/pkg/models"
	"github.com/savaki/slack-timeline/pkg/timeline"
)

// Timeline is the subset of *timeline.Engine served over HTTP
type Timeline interface {
	Aggregate(ctx context.Context, token string) (*models.Timeline, error)
	Replies(ctx context.Context, token, channelID, threadTS string) ([]models.Reply, error)
	PostComment(ctx context.Context, token string, c timeline.Comment) (*models.PostResult, error)
}

// Events handles inbound webhook deliveries
type Events interface {
	Handle(ctx context.Context, header http.Header, body []byte) (*handler.EventResult, error)
}

// CodeExchanger trades an OAuth code for a user access token
type CodeExchanger func(ctx context.Context, code string) (string, error)

var (
	_ Timeline = (*timeline.Engine)(nil)
	_ Events   = (*handler.EventHandler)(nil)
)

// Server holds the dependencies of the HTTP handlers
type Server struct {
	engine       Timeline
	signal       activity.Signal
	events       Events
	exchangeCode CodeExchanger
}

// New creates a server. exchangeCode may be nil when OAuth is not configured.
func New(engine Timeline, signal activity.Signal, events Events, exchangeCode CodeExchanger) *Server {
	return &Server{
		engine:       engine,
		signal:       signal,
		events:       events,
		exchangeCode: exchangeCode,
	}
}

// Router builds the mux.Router with all routes and middleware
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(loggingMiddleware)
	r.MethodNotAllowedHandler = loggingMiddleware(methodNotAllowed(r))
	r.NotFoundHandler = loggingMiddleware(http.HandlerFunc(notFound))

	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.MethodNotAllowedHandler = r.MethodNotAllowedHandler
	api.HandleFunc("/slack", s.handleTimeline).Methods(http.MethodGet)
	api.HandleFunc("/check-messages", s.handleCheckMessages).Methods(http.MethodGet)
	api.HandleFunc("/reply", s.handleReplies).Methods(http.MethodGet)
	api.HandleFunc("/comment", s.handleComment).Methods(http.MethodPost)
	api.HandleFunc("/events", s.handleEvents).Methods(http.MethodPost)
	api.HandleFunc("/auth/callback", s.handleAuthCallback).Methods(http.MethodGet)

	return r
}

// methodNotAllowed answers 405 with the verbs the matched path accepts
func methodNotAllowed(router *mux.Router) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var allowed []string
		_ = router.Walk(func(route *mux.Route, _ *mux.Router, _ []*mux.Route) error {
			var match mux.RouteMatch
			if route.Match(r, &match) || match.MatchErr == mux.ErrMethodMismatch {
				methods, err := route.GetMethods()
				if err == nil {
					allowed = append(allowed, methods...)
				}
			}
			return nil
		})
		for _, m := range allowed {
			w.Header().Add("Allow", m)
		}
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
}

func notFound(w http.ResponseWriter, r *http.Request) {
	respondError(w, http.StatusNotFound, "not found")
}

// loggingMiddleware tags each request with an id and logs method, path,
// status and duration
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := ulid.Make().String()
		w.Header().Set("X-Request-Id", requestID)

		logger := log.With().Str("request_id", requestID).Logger()
		r = r.WithContext(logger.WithContext(r.Context()))

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rw.statusCode).
			Dur("duration", time.Since(start)).
			Msg("Request handled")
	})
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// requestLogger returns the request-scoped logger set by loggingMiddleware
func requestLogger(r *http.Request) *zerolog.Logger {
	return zerolog.Ctx(r.Context())
}
