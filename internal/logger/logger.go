// Package logger builds the process wide zap logger and hands out named
// component loggers.
package logger

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Component name constants for standardized logging
const (
	ComponentCLI      = "CLI"
	ComponentPipeline = "Pipeline"
	ComponentSimplify = "Simplify"
	ComponentConfig   = "Config"
)

var (
	mu   sync.Mutex
	base = zap.NewNop().Sugar()
)

// ParseLevel converts a level name such as "debug" or "warn".
func ParseLevel(level string) (zapcore.Level, error) {
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return l, fmt.Errorf("unknown log level %q", level)
	}
	return l, nil
}

// New builds a console logger at the given level, installs it as the zap
// global and as the parent of every component logger.
func New(level string) (*zap.SugaredLogger, error) {
	l, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(l)
	cfg.Development = false
	cfg.DisableStacktrace = true
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder

	z, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	s := z.Sugar()
	Set(s)
	zap.ReplaceGlobals(z)
	return s, nil
}

// Set replaces the parent logger. Tests use it to route output to zaptest.
func Set(l *zap.SugaredLogger) {
	mu.Lock()
	defer mu.Unlock()
	base = l
}

// For returns a logger named after component.
func For(component string) *zap.SugaredLogger {
	mu.Lock()
	defer mu.Unlock()
	return base.Named(component)
}

// Sync flushes buffered entries. Errors from syncing a terminal are ignored.
func Sync() {
	mu.Lock()
	l := base
	mu.Unlock()
	_ = l.Sync()
}
