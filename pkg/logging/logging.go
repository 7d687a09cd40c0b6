package logging

import (
	"fmt"

	"github.com/Gobusters/ectologger"
	"github.com/Gobusters/ectologger/zapadapter"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Noop returns a logger that discards every message.
func Noop() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

// NewZapLogger builds the process logger. Pretty output uses the development
// console encoder, otherwise JSON.
func NewZapLogger(appName, level string, pretty bool) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	cfg := zap.NewProductionConfig()
	if pretty {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	return logger.Named(appName), nil
}

// NewEctoLogger routes library log messages to the zap logger, keeping their
// level, message, fields and error.
func NewEctoLogger(logger *zap.Logger) ectologger.Logger {
	if logger == nil {
		return Noop()
	}

	return zapadapter.NewZapEctoLogger(logger, nil)
}
