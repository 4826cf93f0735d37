// File: internal/logging/logging.go
// Author: momentics <momentics@gmail.com>
//
// zap logger construction shared by the relay and the CLI.

package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config selects logger verbosity and encoding.
type Config struct {
	Level       string `config:"level"`
	Development bool   `config:"development"`
}

// DefaultConfig logs at info level with the production JSON encoder.
func DefaultConfig() Config {
	return Config{Level: "info"}
}

// Validate checks that Level parses.
func (c Config) Validate() error {
	if _, err := zapcore.ParseLevel(c.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	return nil
}

// New builds a logger writing to stderr. The returned level controls the
// logger after construction; pass it to SetLevel on reload.
func New(cfg Config) (*zap.Logger, zap.AtomicLevel, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, zap.AtomicLevel{}, fmt.Errorf("logging.level: %w", err)
	}
	zc := zap.NewProductionConfig()
	if cfg.Development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}
	l, err := zc.Build()
	if err != nil {
		return nil, zap.AtomicLevel{}, err
	}
	return l, zc.Level, nil
}

// SetLevel parses level and applies it to lvl.
func SetLevel(lvl zap.AtomicLevel, level string) error {
	parsed, err := zapcore.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	lvl.SetLevel(parsed)
	return nil
}

// OrNop returns l, or a no-op logger when l is nil.
func OrNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}
