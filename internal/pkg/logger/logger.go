package logger

import (
	"fmt"
	"strings"

	"smartats/internal/config"

	"go.uber.org/zap"
)

// New builds the process logger. Format "console" selects the human readable
// development encoder, anything else the JSON production encoder.
func New(cfg config.LogConfig) (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(strings.TrimSpace(strings.ToLower(cfg.Level)))
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	var zc zap.Config
	if strings.EqualFold(strings.TrimSpace(cfg.Format), "console") {
		zc = zap.NewDevelopmentConfig()
	} else {
		zc = zap.NewProductionConfig()
	}
	zc.Level = level

	return zc.Build()
}

// OrNop returns l, or a no-op logger when l is nil.
func OrNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}
