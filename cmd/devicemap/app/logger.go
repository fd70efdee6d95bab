package app

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/devicemap/pkg/logging"
)

var knownLevels = map[string]bool{"trace": true, "debug": true, "info": true, "warn": true, "error": true}

// NewLogger builds the process logger. --log-level (or LOG_LEVEL) beats -q,
// which beats -v. Conflicts are reported through the new logger itself.
func NewLogger(config *Config) zerolog.Logger {
	level, warning := determineLogLevel(config)

	logger := logging.NewLoggerFromConfig(&logging.Config{
		Level:     level,
		Format:    config.LogFormat,
		Output:    config.LogOutput,
		NoColor:   config.NoColor,
		AddCaller: level == "debug" || level == "trace",
	})
	if warning != "" {
		logger.Warn().Str("log_level", config.LogLevel).Msg(warning)
	}
	return logger
}

// determineLogLevel returns the effective level and, when flags disagree or
// the level is unknown, a warning describing the choice made.
func determineLogLevel(config *Config) (string, string) {
	switch {
	case config.LogLevel != "" && !knownLevels[config.LogLevel]:
		return "info", "Unknown log level, using info"
	case config.LogLevel != "":
		return config.LogLevel, ""
	case config.Quiet && config.Verbose:
		return "warn", "Both --verbose and --quiet given, using --quiet"
	case config.Quiet:
		return "warn", ""
	case config.Verbose:
		return "debug", ""
	}
	return "info", ""
}
