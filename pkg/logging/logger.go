// Package logging provides structured logging for devicemap using zerolog.
// Console output is used when stderr is a terminal, JSON otherwise, so
// unattended import runs produce machine-readable logs.
//
// Example usage:
//
//	ctx = logging.WithVendor(ctx, "Cisco")
//	logging.FromContext(ctx).Warn().Str("model", "WS-C3850-24").Msg("No library match")
package logging

import (
	"io"
	"os"
	"time"

	goisatty "github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// defaultLogger is used when a context carries no logger.
var defaultLogger = newDefaultLogger(os.Stderr, os.Getenv)

// newDefaultLogger reads LOG_LEVEL, LOG_FORMAT and NO_COLOR from getenv.
// DEBUG set to any value is shorthand for LOG_LEVEL=debug.
func newDefaultLogger(out *os.File, getenv func(string) string) zerolog.Logger {
	level := envLevel(getenv)
	zerolog.SetGlobalLevel(level)

	var w io.Writer = out
	if terminal(out) && getenv("LOG_FORMAT") != "json" {
		w = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.Kitchen,
			NoColor:    getenv("NO_COLOR") != "",
		}
	}

	ctx := zerolog.New(w).Level(level).With().Timestamp()
	if level <= zerolog.DebugLevel {
		ctx = ctx.Caller()
	}
	return ctx.Logger()
}

// Default returns the process-wide logger.
func Default() *zerolog.Logger {
	return &defaultLogger
}

// SetDefault replaces the process-wide logger, including zerolog's global one.
func SetDefault(logger zerolog.Logger) {
	defaultLogger = logger
	log.Logger = logger
}

// Info starts an info event on the default logger.
func Info() *zerolog.Event {
	return defaultLogger.Info()
}

// Warn starts a warning event on the default logger.
func Warn() *zerolog.Event {
	return defaultLogger.Warn()
}

func terminal(f *os.File) bool {
	fd := f.Fd()
	return goisatty.IsTerminal(fd) || goisatty.IsCygwinTerminal(fd)
}

func envLevel(getenv func(string) string) zerolog.Level {
	raw := getenv("LOG_LEVEL")
	if raw == "" {
		if getenv("DEBUG") != "" {
			return zerolog.DebugLevel
		}
		return zerolog.InfoLevel
	}
	level, err := zerolog.ParseLevel(raw)
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}
