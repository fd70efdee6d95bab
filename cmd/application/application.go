// Package application provides the application interface for devicemap commands.
//
// Commands accept an Application rather than the concrete app type so they
// can be exercised against a Mock in tests:
//
//	mock := &application.Mock{
//	    LibraryFunc: func() (*library.Library, error) {
//	        return library.Open(dir)
//	    },
//	}
//	cmd := match.NewCommand(mock)
package application

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/agentstation/devicemap"
	"github.com/agentstation/devicemap/pkg/library"
)

// Check is the outcome of one startup connectivity probe.
type Check struct {
	System string
	Target string
	Err    error
}

// OK reports whether the probe succeeded.
func (c Check) OK() bool {
	return c.Err == nil
}

// Application provides what commands need from the running CLI.
//
// Thread Safety: All methods must be safe for concurrent access.
type Application interface {
	// Devicemap returns the importer wired to the configured IP Fabric and
	// NetBox instances. Without options the instance is cached; with options
	// a new one is built on top of the configured defaults.
	Devicemap(opts ...devicemap.Option) (devicemap.Devicemap, error)

	// Preflight probes IP Fabric and NetBox, in that order.
	Preflight(ctx context.Context) []Check

	// Mirror returns the local device-type library mirror.
	Mirror() *library.Mirror

	// Library opens the mirrored device-type library.
	Library() (*library.Library, error)

	// Thresholds returns the configured matching thresholds.
	Thresholds() devicemap.Thresholds

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (json, yaml, table, etc).
	OutputFormat() string

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}
