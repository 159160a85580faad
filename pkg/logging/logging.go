package logging

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Name is the name of the application the logger is for.
type Name string

// Config is the configuration for the logger.
type Config struct {
	// appName is the name of the application.
	appName string

	// Level is the minimum level that will be logged.
	Level slog.Level

	// Writer is where the logs are written to. Defaults to stdout.
	Writer io.Writer
}

// NewConfig creates a new logging config for the given application.
func NewConfig(appName Name) *Config {
	return &Config{
		appName: string(appName),
		Level:   slog.LevelDebug,
		Writer:  os.Stdout,
	}
}

// CommonLogger creates the JSON logger used across the application and sets it as the default.
func CommonLogger(c *Config) (*slog.Logger, error) {
	if c == nil {
		return nil, errors.New("logging config is nil")
	} else if c.appName == "" {
		return nil, errors.New("app name is empty")
	}

	w := c.Writer
	if w == nil {
		w = os.Stdout
	}

	h := slog.NewJSONHandler(w, &slog.HandlerOptions{
		AddSource: true,
		Level:     c.Level,
	})

	l := slog.New(h).With(slog.String(KeyApp, c.appName))
	slog.SetDefault(l)
	return l, nil
}

// ParseLevel converts a level name into a slog level. Unknown names fall back to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
