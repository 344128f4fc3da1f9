package config

import (
	"log/slog"
	"os"
)

// NewLogger returns the process-wide logger. Production gets JSON at info
// level; everything else gets a readable handler with source locations.
func NewLogger(env string) *slog.Logger {
	opts := &slog.HandlerOptions{
		AddSource: env != "production",
		Level:     slog.LevelDebug,
	}

	if env == "production" {
		opts.AddSource = false
		opts.Level = slog.LevelInfo
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}

	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
