package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/savaki/slack-timeline/pkg/handler"
	"github.com/savaki/slack-timeline/pkg/server"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

// serveCmd runs the HTTP API
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the timeline HTTP server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sig, err := newSignal(ctx, cfg)
	if err != nil {
		return err
	}
	if cfg.SlackSigningSecret == "" {
		log.Warn().Msg("SLACK_SIGNING_SECRET not set, inbound events are not verified")
	}

	srv := server.New(
		newEngine(cfg),
		sig,
		handler.NewEventHandler(sig, cfg.SlackSigningSecret),
		newCodeExchanger(cfg),
	)

	httpServer := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Info().Str("addr", httpServer.Addr).Msg("Server listening")
		errc <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
