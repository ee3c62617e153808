package app

import (
	"github.com/TheZeroSlave/zapsentry"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// newLogger builds the process logger: console output in verbose mode, JSON
// otherwise, with errors teed to Sentry when a DSN is configured.
func newLogger(verbose bool, sentryDSN string) (*zap.Logger, error) {
	var logger *zap.Logger
	var err error
	if verbose {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}

	if sentryDSN == "" {
		return logger, nil
	}

	core, err := zapsentry.NewCore(zapsentry.Configuration{
		Level: zapcore.ErrorLevel,
		Tags: map[string]string{
			"component": "slackrecap",
		},
	}, zapsentry.NewSentryClientFromDSN(sentryDSN))
	if err != nil {
		logger.Warn("sentry disabled", zap.Error(err))
		return logger, nil
	}
	return zapsentry.AttachCoreToLogger(core, logger), nil
}
