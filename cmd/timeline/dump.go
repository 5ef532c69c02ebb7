package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/savaki/slack-timeline/pkg/timeline"
	"github.com/spf13/cobra"
)

var (
	dumpToken string
	dumpWatch bool
)

// dumpCmd prints the timeline as JSON
var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Print the aggregated timeline as JSON",
	Long: `Run the aggregation pipeline once and print the result.

With --watch the activity signal is polled every POLL_INTERVAL_SECONDS and the
timeline is printed again whenever new messages were reported. Events only
reach a watching process through a shared backend (SIGNAL_BACKEND=dynamodb).`,
	RunE: runDump,
}

func init() {
	dumpCmd.Flags().StringVar(&dumpToken, "token", "", "Slack token (default: SLACK_BOT_TOKEN)")
	dumpCmd.Flags().BoolVar(&dumpWatch, "watch", false, "Keep printing the timeline when new activity arrives")
}

func runDump(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	token := dumpToken
	if token == "" {
		token = cfg.SlackBotToken
	}

	engine := newEngine(cfg)
	refresh := func(ctx context.Context) error {
		return dumpTimeline(ctx, cmd.OutOrStdout(), engine, token)
	}

	if err := refresh(ctx); err != nil {
		return err
	}
	if !dumpWatch {
		return nil
	}

	sig, err := newSignal(ctx, cfg)
	if err != nil {
		return err
	}

	err = timeline.NewRefresher(sig, cfg.GetPollInterval(), refresh).Run(ctx)
	if errors.Is(err, context.Canceled) {
		log.Info().Msg("Stopped watching")
		return nil
	}
	return err
}

func dumpTimeline(ctx context.Context, w io.Writer, engine *timeline.Engine, token string) error {
	result, err := engine.Aggregate(ctx, token)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
