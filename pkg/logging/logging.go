package logging

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the process logger. Verbose switches the level to debug.
func New(verbose bool) (logger *zap.Logger, err error) {
	config := zap.NewProductionConfig()
	config.Encoding = "console"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.DisableStacktrace = true
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}

	logger, err = config.Build()
	if err != nil {
		err = errors.Wrap(err, "failed to initialize logger")
		return logger, err
	}

	return logger, err
}

// OrNop returns logger, or a no-op logger when it is nil.
func OrNop(logger *zap.Logger) (result *zap.Logger) {
	result = logger
	if result == nil {
		result = zap.NewNop()
	}
	return result
}
