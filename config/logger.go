package config

import (
	"log/slog"
	"os"
)

// NewLogger builds the process-wide slog.Logger. GO_ENV=production selects the
// JSON handler so log aggregation sees structured records; every other
// environment gets the text handler. LOG_LEVEL accepts debug, info, warn, or
// error (any case) and falls back to info when unset or unrecognized.
func NewLogger() *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(os.Getenv("LOG_LEVEL"))); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if os.Getenv("GO_ENV") == "production" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
