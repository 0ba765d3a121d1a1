// Package logging configures zerolog for pixsearch: one global JSON logger
// plus per-component child loggers.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LogLevel names a minimum severity.
type LogLevel string

const (
	LevelDebug LogLevel = "debug"
	LevelInfo  LogLevel = "info"
	LevelWarn  LogLevel = "warn"
	LevelError LogLevel = "error"
)

// zerologLevel maps a LogLevel onto zerolog's levels. Unknown values fall
// back to info.
func (l LogLevel) zerologLevel() zerolog.Level {
	switch strings.ToLower(string(l)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Config holds logger configuration.
type Config struct {
	// Level is the minimum severity to emit
	Level LogLevel

	// Pretty switches from JSON to human-readable console output
	Pretty bool

	// Output defaults to os.Stderr when nil
	Output io.Writer
}

// DefaultConfig returns JSON logging at info level on stderr.
func DefaultConfig() Config {
	return Config{
		Level:  LevelInfo,
		Output: os.Stderr,
	}
}

// Setup configures the global zerolog logger and returns it.
func Setup(cfg Config) zerolog.Logger {
	zerolog.SetGlobalLevel(cfg.Level.zerologLevel())

	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}
	if cfg.Pretty {
		output = zerolog.ConsoleWriter{Out: output}
	}

	log.Logger = zerolog.New(output).With().Timestamp().Logger()
	return log.Logger
}

// NewLogger returns a child of the global logger tagged with a component
// name, e.g. "pixabay-client", "cache", "ratelimit", "pixsearch-proxy".
func NewLogger(component string) zerolog.Logger {
	return log.With().Str("component", component).Logger()
}

// Level usage across pixsearch:
//
//	Debug: cache hits and stores (key, age, ttl), conditional requests,
//	       per-page accumulation progress of a search session
//	Info:  successful requests, session completion, proxy startup/shutdown
//	Warn:  throttling on a low request budget, retry attempts, cache errors
//	       that fall back to a direct request, rejected page responses
//	Error: requests that exhausted retries, critical budget blocks,
//	       configuration errors
//
// Common fields: endpoint, query, page, status_code, duration, error_class,
// requests_remaining, etag, ttl.
