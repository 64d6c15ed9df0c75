// Package observability provides logging utilities for the reforge server.
package observability

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/emberfall/reforge/internal/config"
)

// NewLogger creates a structured logger from the given logging configuration.
// The returned AtomicLevel controls the logger's verbosity and can be
// adjusted at runtime, typically from a configuration reload.
//
// Precondition: cfg.Level must be one of "debug", "info", "warn", "error".
// Precondition: cfg.Format must be "json" or "console".
func NewLogger(cfg config.LoggingConfig) (*zap.Logger, zap.AtomicLevel, error) {
	level := zap.NewAtomicLevel()
	if err := SetLevel(level, cfg.Level); err != nil {
		return nil, level, err
	}

	var zapCfg zap.Config
	switch cfg.Format {
	case "json":
		zapCfg = zap.NewProductionConfig()
	case "console":
		zapCfg = zap.NewDevelopmentConfig()
	default:
		return nil, level, fmt.Errorf("unknown log format %q", cfg.Format)
	}

	zapCfg.Level = level
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, level, fmt.Errorf("building logger: %w", err)
	}
	return logger, level, nil
}

// SetLevel parses name and applies it to level.
func SetLevel(level zap.AtomicLevel, name string) error {
	parsed, err := zapcore.ParseLevel(name)
	if err != nil {
		return fmt.Errorf("parsing log level %q: %w", name, err)
	}
	level.SetLevel(parsed)
	return nil
}
