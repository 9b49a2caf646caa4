package utils

import (
	"log/slog"
	"os"
	"sync"
)

var (
	loggerOnce sync.Once
	logger     *slog.Logger
)

// GetLogger returns the shared structured logger. The first call wires a JSON
// handler to stderr; the level can be lowered with LOG_LEVEL=debug.
func GetLogger() *slog.Logger {
	loggerOnce.Do(func() {
		level := slog.LevelInfo
		if GetEnv("LOG_LEVEL", "info") == "debug" {
			level = slog.LevelDebug
		}
		handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
		logger = slog.New(handler)
	})
	return logger
}
