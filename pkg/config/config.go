package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Signal backends
const (
	SignalBackendMemory   = "memory"
	SignalBackendDynamoDB = "dynamodb"
)

// Config holds application configuration loaded from environment variables
type Config struct {
	// Server
	Port      int
	LogLevel  string
	LogFormat string

	// Slack
	ChannelPrefix      string
	Workspace          string
	SlackBotToken      string
	SlackSigningSecret string
	SlackClientID      string
	SlackClientSecret  string
	SlackRedirectURI   string
	SlackDebug         bool

	// Timeline
	HistoryLimit        int
	RetentionDays       int
	MaxConcurrency      int
	PollIntervalSeconds int

	// Activity signal
	SignalBackend    string
	ActivityTable    string
	DynamoDBEndpoint string

	// AWS
	AWSRegion string

	// Environment
	Environment string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Port:                getEnvInt("PORT", 8080),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		LogFormat:           getEnv("LOG_FORMAT", "json"),
		ChannelPrefix:       getEnv("SLACK_CHANNEL_PREFIX", "times-"),
		Workspace:           getEnv("SLACK_WORKSPACE", ""),
		SlackBotToken:       getEnv("SLACK_BOT_TOKEN", ""),
		SlackSigningSecret:  getEnv("SLACK_SIGNING_SECRET", ""),
		SlackClientID:       getEnv("SLACK_CLIENT_ID", ""),
		SlackClientSecret:   getEnv("SLACK_CLIENT_SECRET", ""),
		SlackRedirectURI:    getEnv("SLACK_REDIRECT_URI", ""),
		SlackDebug:          getEnvBool("SLACK_DEBUG", false),
		HistoryLimit:        getEnvInt("HISTORY_LIMIT", 5),
		RetentionDays:       getEnvInt("RETENTION_DAYS", 14),
		MaxConcurrency:      getEnvInt("MAX_CONCURRENCY", 4),
		PollIntervalSeconds: getEnvInt("POLL_INTERVAL_SECONDS", 60),
		SignalBackend:       getEnv("SIGNAL_BACKEND", SignalBackendMemory),
		ActivityTable:       getEnv("ACTIVITY_TABLE", "slack-timeline-activity"),
		DynamoDBEndpoint:    getEnv("DYNAMODB_ENDPOINT", ""),
		AWSRegion:           getEnv("AWS_REGION", "us-east-1"),
		Environment:         getEnv("ENVIRONMENT", "dev"),
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that configuration values are usable
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port)
	}
	if c.ChannelPrefix == "" {
		return fmt.Errorf("SLACK_CHANNEL_PREFIX is required")
	}
	if c.HistoryLimit <= 0 {
		return fmt.Errorf("HISTORY_LIMIT must be positive, got %d", c.HistoryLimit)
	}
	if c.RetentionDays <= 0 {
		return fmt.Errorf("RETENTION_DAYS must be positive, got %d", c.RetentionDays)
	}
	if c.MaxConcurrency <= 0 {
		return fmt.Errorf("MAX_CONCURRENCY must be positive, got %d", c.MaxConcurrency)
	}
	if c.PollIntervalSeconds <= 0 {
		return fmt.Errorf("POLL_INTERVAL_SECONDS must be positive, got %d", c.PollIntervalSeconds)
	}

	switch c.SignalBackend {
	case SignalBackendMemory:
	case SignalBackendDynamoDB:
		if c.ActivityTable == "" {
			return fmt.Errorf("ACTIVITY_TABLE is required for the dynamodb signal backend")
		}
	default:
		return fmt.Errorf("SIGNAL_BACKEND must be %q or %q, got %q", SignalBackendMemory, SignalBackendDynamoDB, c.SignalBackend)
	}
	return nil
}

// ValidateOAuth checks the settings needed by the OAuth callback
func (c *Config) ValidateOAuth() error {
	if c.SlackClientID == "" {
		return fmt.Errorf("SLACK_CLIENT_ID is required")
	}
	if c.SlackClientSecret == "" {
		return fmt.Errorf("SLACK_CLIENT_SECRET is required")
	}
	if c.SlackRedirectURI == "" {
		return fmt.Errorf("SLACK_REDIRECT_URI is required")
	}
	return nil
}

// ValidateLambda checks Lambda-specific configuration
func (c *Config) ValidateLambda() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.SlackSigningSecret == "" {
		return fmt.Errorf("SLACK_SIGNING_SECRET is required for Lambda")
	}
	if c.ActivityTable == "" {
		return fmt.Errorf("ACTIVITY_TABLE is required for Lambda")
	}
	return nil
}

// Addr returns the listen address for the HTTP server
func (c *Config) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}

// GetRetention returns the lookback horizon as a duration
func (c *Config) GetRetention() time.Duration {
	return time.Duration(c.RetentionDays*24) * time.Hour
}

// GetPollInterval returns the refresher tick as a duration
func (c *Config) GetPollInterval() time.Duration {
	return time.Duration(c.PollIntervalSeconds) * time.Second
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, ok := os.LookupEnv(key); ok {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		switch value {
		case "true", "1", "yes", "on":
			return true
		case "false", "0", "no", "off":
			return false
		}
	}
	return defaultValue
}
