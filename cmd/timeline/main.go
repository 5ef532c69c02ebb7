package main

import (
	"os"

	"github.com/rs/zerolog/log"
	appconfig "github.com/savaki/slack-timeline/pkg/config"
	"github.com/savaki/slack-timeline/pkg/logging"
	"github.com/spf13/cobra"
)

var (
	cfg *appconfig.Config

	portFlag     int
	logLevelFlag string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "timeline",
	Short: "Aggregate Slack channels into a single timeline",
	Long: `timeline collects recent messages from every public channel whose name
starts with SLACK_CHANNEL_PREFIX, enriches them with author and permalink
metadata and serves them newest first.

Configuration is read from the environment; see pkg/config.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func loadConfig(cmd *cobra.Command, args []string) error {
	loaded, err := appconfig.Load()
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("port") {
		loaded.Port = portFlag
	}
	if cmd.Flags().Changed("log-level") {
		loaded.LogLevel = logLevelFlag
	}
	if err := loaded.Validate(); err != nil {
		return err
	}

	logging.Setup(loaded.LogLevel, loaded.LogFormat)
	log.Debug().
		Str("environment", loaded.Environment).
		Str("signalBackend", loaded.SignalBackend).
		Msg("Configuration loaded")

	cfg = loaded
	return nil
}

func init() {
	rootCmd.PersistentFlags().IntVar(&portFlag, "port", 8080, "Listen port (overrides PORT)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "info", "Log level: trace, debug, info, warn, error (overrides LOG_LEVEL)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(dumpCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
