package config

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// parseLogLevel converts a string log level to slog.Level
func parseLogLevel(level string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// GetLogLevel returns the log level from the LOG_LEVEL environment variable.
// Defaults to INFO if not set or invalid.
func GetLogLevel() slog.Level {
	return parseLogLevel(os.Getenv("LOG_LEVEL"))
}

// NewLogger creates the structured logger for CLI runs. Logs go to stderr
// so that tabular stdout output stays pipeable.
func NewLogger() *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: GetLogLevel(),
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

// NewTestLogger creates a logger for tests with configurable level and output.
// If level is empty, uses the LOG_LEVEL environment variable.
func NewTestLogger(output io.Writer, level string) *slog.Logger {
	var logLevel slog.Level
	if level == "" {
		logLevel = GetLogLevel()
	} else {
		logLevel = parseLogLevel(level)
	}

	opts := &slog.HandlerOptions{
		Level: logLevel,
	}
	return slog.New(slog.NewTextHandler(output, opts))
}
