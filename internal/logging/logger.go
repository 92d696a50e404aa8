// Package logging builds the zap logger used for transient diagnostics.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options picks the destination and level.
type Options struct {
	// File receives JSON log lines. Empty means Fallback.
	File string
	// Fallback is used when File is empty: "stderr", or "" for no logging.
	Fallback string
	Level    string
	Verbose  bool
}

// New returns a production-config zap logger, or a no-op logger when
// there is nowhere to write.
func New(opts Options) (*zap.Logger, error) {
	out := opts.File
	if out == "" {
		out = opts.Fallback
	}
	if out == "" {
		return zap.NewNop(), nil
	}

	level := zapcore.InfoLevel
	if opts.Level != "" {
		l, err := zapcore.ParseLevel(opts.Level)
		if err != nil {
			return nil, fmt.Errorf("log level: %w", err)
		}
		level = l
	}
	if opts.Verbose {
		level = zapcore.DebugLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.OutputPaths = []string{out}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.DisableStacktrace = true
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}
