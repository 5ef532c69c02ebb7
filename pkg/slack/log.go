package slack

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// logAdapter adapts zerolog to slack-go's log interface
type logAdapter struct {
	logger zerolog.Logger
}

func newLogAdapter() *logAdapter {
	return &logAdapter{
		logger: log.With().Str("component", "slack-api").Logger(),
	}
}

func (a *logAdapter) Output(calldepth int, s string) error {
	a.logger.Debug().Msg(s)
	return nil
}
