package application

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/agentstation/devicemap"
	"github.com/agentstation/devicemap/pkg/library"
)

// Mock is an Application for command tests. Unset func fields fall back to
// nil values, default thresholds, a no-op logger, "table" and "dev".
type Mock struct {
	DevicemapFunc    func(opts ...devicemap.Option) (devicemap.Devicemap, error)
	PreflightFunc    func(ctx context.Context) []Check
	MirrorFunc       func() *library.Mirror
	LibraryFunc      func() (*library.Library, error)
	ThresholdsFunc   func() devicemap.Thresholds
	LoggerFunc       func() *zerolog.Logger
	OutputFormatFunc func() string
	VersionFunc      func() string
}

func (m *Mock) Devicemap(opts ...devicemap.Option) (devicemap.Devicemap, error) {
	if m.DevicemapFunc != nil {
		return m.DevicemapFunc(opts...)
	}
	return nil, nil
}

func (m *Mock) Preflight(ctx context.Context) []Check {
	if m.PreflightFunc != nil {
		return m.PreflightFunc(ctx)
	}
	return nil
}

func (m *Mock) Mirror() *library.Mirror {
	if m.MirrorFunc != nil {
		return m.MirrorFunc()
	}
	return nil
}

func (m *Mock) Library() (*library.Library, error) {
	if m.LibraryFunc != nil {
		return m.LibraryFunc()
	}
	return nil, nil
}

func (m *Mock) Thresholds() devicemap.Thresholds {
	if m.ThresholdsFunc != nil {
		return m.ThresholdsFunc()
	}
	return devicemap.DefaultThresholds()
}

func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	logger := zerolog.Nop()
	return &logger
}

func (m *Mock) OutputFormat() string {
	if m.OutputFormatFunc != nil {
		return m.OutputFormatFunc()
	}
	return "table"
}

func (m *Mock) Version() string {
	if m.VersionFunc != nil {
		return m.VersionFunc()
	}
	return "dev"
}

func (m *Mock) Commit() string  { return "unknown" }
func (m *Mock) Date() string    { return "unknown" }
func (m *Mock) BuiltBy() string { return "test" }

var _ Application = (*Mock)(nil)
