// Package logging provides structured logging for nps.
// Diagnostics go to stderr through log/slog, rendered by charmbracelet/log
// for humans or as JSON lines for tools.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	charmlog "github.com/charmbracelet/log"
)

// Level represents log severity levels.
type Level int

const (
	// LevelDebug is for detailed debugging information.
	LevelDebug Level = iota
	// LevelInfo is for informational messages.
	LevelInfo
	// LevelWarn is for warning messages.
	LevelWarn
	// LevelError is for error messages.
	LevelError
)

// String returns the string representation of the level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// toSlogLevel converts our Level to slog.Level.
func (l Level) toSlogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelInfo:
		return slog.LevelInfo
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ParseLevel parses a case-insensitive level name such as "warn".
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// Config configures the logger.
type Config struct {
	// Level is the minimum log level to output.
	Level Level
	// Output is where log lines are written (default: os.Stderr).
	Output io.Writer
	// Prefix is shown before each human-readable message.
	Prefix string
	// JSONFormat uses JSON output format for structured logs.
	JSONFormat bool
}

// DefaultConfig returns default logging configuration.
func DefaultConfig() *Config {
	return &Config{
		Level:      LevelWarn,
		Output:     os.Stderr,
		Prefix:     "nps",
		JSONFormat: false,
	}
}

// Logger is a structured logger for nps.
type Logger struct {
	slog   *slog.Logger
	config *Config
}

// New creates a new logger with the given configuration.
func New(config *Config) *Logger {
	if config == nil {
		config = DefaultConfig()
	}
	out := config.Output
	if out == nil {
		out = os.Stderr
	}

	var handler slog.Handler
	if config.JSONFormat {
		handler = slog.NewJSONHandler(out, &slog.HandlerOptions{
			Level: config.Level.toSlogLevel(),
		})
	} else {
		handler = charmlog.NewWithOptions(out, charmlog.Options{
			Prefix: config.Prefix,
			Level:  charmlog.Level(config.Level.toSlogLevel()),
		})
	}

	return &Logger{
		slog:   slog.New(handler),
		config: config,
	}
}

// NewNoop creates a no-op logger that discards all output.
// Useful for testing or when logging is disabled.
func NewNoop() *Logger {
	handler := slog.NewTextHandler(io.Discard, nil)
	return &Logger{
		slog:   slog.New(handler),
		config: DefaultConfig(),
	}
}

// Enabled reports whether messages at level are written.
func (l *Logger) Enabled(level Level) bool {
	return l.slog.Enabled(context.Background(), level.toSlogLevel())
}

// Debug logs a debug message.
func (l *Logger) Debug(msg string, args ...any) {
	l.slog.Debug(msg, args...)
}

// Info logs an info message.
func (l *Logger) Info(msg string, args ...any) {
	l.slog.Info(msg, args...)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string, args ...any) {
	l.slog.Warn(msg, args...)
}

// Error logs an error message.
func (l *Logger) Error(msg string, args ...any) {
	l.slog.Error(msg, args...)
}

// With returns a new logger with the given attributes added.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{
		slog:   l.slog.With(args...),
		config: l.config,
	}
}
