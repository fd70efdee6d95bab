package logging

import (
	"bytes"
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultLogger(t *testing.T) {
	previous := *Default()
	t.Cleanup(func() { SetDefault(previous) })

	buf := &bytes.Buffer{}
	SetDefault(zerolog.New(buf).Level(zerolog.DebugLevel))

	Info().Msg("info message")
	Warn().Msg("warning message")

	assert.Contains(t, buf.String(), "info message")
	assert.Contains(t, buf.String(), "warning message")
}

func TestEnvLevel(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want zerolog.Level
	}{
		{"unset", nil, zerolog.InfoLevel},
		{"explicit", map[string]string{"LOG_LEVEL": "warn"}, zerolog.WarnLevel},
		{"debug shorthand", map[string]string{"DEBUG": "1"}, zerolog.DebugLevel},
		{"explicit wins over debug", map[string]string{"LOG_LEVEL": "error", "DEBUG": "1"}, zerolog.ErrorLevel},
		{"invalid", map[string]string{"LOG_LEVEL": "chatty"}, zerolog.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			getenv := func(k string) string { return tt.env[k] }
			assert.Equal(t, tt.want, envLevel(getenv))
		})
	}
}

func TestNewDefaultLoggerWritesJSONToFiles(t *testing.T) {
	previous := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(previous) })

	f, err := os.CreateTemp(t.TempDir(), "log")
	require.NoError(t, err)
	defer f.Close()

	logger := newDefaultLogger(f, func(k string) string {
		if k == "LOG_LEVEL" {
			return "warn"
		}
		return ""
	})
	logger.Info().Msg("hidden")
	logger.Warn().Str("vendor", "Cisco").Msg("shown")

	data, err := os.ReadFile(f.Name())
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hidden")
	assert.Contains(t, string(data), `"vendor":"Cisco"`)
}

func TestCaptureLoggingForTest(t *testing.T) {
	captured := CaptureLoggingForTest(t)

	Warn().Str("vendor", "Cisco").Str("model", "WS-C3850-24").Msg("No library match")
	Info().Msg("Library match")

	entries := captured.Find("No library match")
	require.Len(t, entries, 1)
	assert.Equal(t, "Cisco", entries[0].Str("vendor"))
	assert.Equal(t, "warn", entries[0].Str("level"))
	assert.Len(t, captured.Entries(), 2)

	captured.Reset()
	assert.Empty(t, captured.Entries())
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]zerolog.Level{
		"":        zerolog.InfoLevel,
		"DEBUG":   zerolog.DebugLevel,
		"warning": zerolog.WarnLevel,
		"off":     zerolog.Disabled,
		"bogus":   zerolog.InfoLevel,
	} {
		assert.Equal(t, want, parseLevel(in), in)
	}
}
