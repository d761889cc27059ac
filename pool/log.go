package pool

import (
	"log/slog"
	"os"
)

// Runtime debug flag for growth logging - controlled by POOLKIT_LOG_GROW env var.
var logGrow = os.Getenv("POOLKIT_LOG_GROW") != ""

// defaultLogger discards output unless growth logging is enabled.
func defaultLogger() *slog.Logger {
	if logGrow {
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return slog.New(slog.DiscardHandler)
}
