// Package app provides the application context and dependency management
// for the devicemap CLI. It centralizes configuration, logging and the
// lazily built IP Fabric, NetBox and library collaborators.
package app

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/agentstation/devicemap"
	"github.com/agentstation/devicemap/cmd/application"
	"github.com/agentstation/devicemap/internal/ipfabric"
	"github.com/agentstation/devicemap/internal/netbox"
	"github.com/agentstation/devicemap/internal/transport"
	"github.com/agentstation/devicemap/pkg/errors"
	"github.com/agentstation/devicemap/pkg/library"
	"github.com/agentstation/devicemap/pkg/logging"
)

// App represents the devicemap application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	config *Config
	logger *zerolog.Logger

	// Remote clients and the default importer (lazy-initialized)
	mu        sync.RWMutex
	ipfabric  *ipfabric.Client
	netbox    *netbox.Client
	devicemap devicemap.Devicemap
}

// New creates a new App instance with the given version information.
// The app is initialized with configuration from the environment that can be
// customized using functional options.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	config, err := LoadConfig("")
	if err != nil {
		return nil, errors.WrapResource("load", "config", "", err)
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the configured output format.
func (a *App) OutputFormat() string {
	return a.config.Format
}

// Thresholds returns the configured matching thresholds.
func (a *App) Thresholds() devicemap.Thresholds {
	return a.config.Thresholds
}

// Mirror returns the local device-type library mirror.
func (a *App) Mirror() *library.Mirror {
	lc := a.config.Library
	return library.NewMirror(lc.Source, lc.Branch, lc.Path)
}

// Library opens the mirrored device-type library.
func (a *App) Library() (*library.Library, error) {
	return library.Open(a.Mirror().Path)
}

// Preflight probes IP Fabric and NetBox. Both are probed even when the
// first one fails so the user sees every broken connection at once.
func (a *App) Preflight(ctx context.Context) []application.Check {
	if err := a.config.RequireRemotes(); err != nil {
		return []application.Check{{System: "config", Err: err}}
	}
	ipf, nb := a.clients()
	return []application.Check{
		{System: "IP Fabric", Target: a.config.IPFabric.URL, Err: ipf.Ping(ctx)},
		{System: "NetBox", Target: nb.BaseURL(), Err: nb.Ping(ctx)},
	}
}

// Devicemap returns the importer, creating it lazily if needed. Calls with
// options build a new instance and are not cached.
func (a *App) Devicemap(opts ...devicemap.Option) (devicemap.Devicemap, error) {
	if len(opts) == 0 {
		a.mu.RLock()
		if a.devicemap != nil {
			dm := a.devicemap
			a.mu.RUnlock()
			return dm, nil
		}
		a.mu.RUnlock()
	}

	if err := a.config.Validate(); err != nil {
		return nil, err
	}
	if err := a.config.RequireRemotes(); err != nil {
		return nil, err
	}
	lib, err := a.Library()
	if err != nil {
		return nil, errors.WrapResource("open", "library", a.Mirror().Path, err)
	}

	ipf, nb := a.clients()
	dm, err := devicemap.New(ipf, nb, lib, append(a.devicemapOptions(), opts...)...)
	if err != nil {
		return nil, errors.WrapResource("create", "devicemap", "", err)
	}

	if len(opts) == 0 {
		a.mu.Lock()
		defer a.mu.Unlock()
		// Double-check after acquiring write lock
		if a.devicemap != nil {
			return a.devicemap, nil
		}
		a.devicemap = dm
	}
	return dm, nil
}

// Shutdown performs graceful shutdown of the application. Nothing is held
// open between requests, so it only flushes a final log line.
func (a *App) Shutdown(_ context.Context) error {
	a.logger.Debug().Msg("Shutting down")
	return nil
}

// clients builds the IP Fabric and NetBox clients once.
func (a *App) clients() (*ipfabric.Client, *netbox.Client) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.ipfabric == nil {
		ic := a.config.IPFabric
		a.ipfabric = ipfabric.NewClient(ic.URL, ic.Token,
			ipfabric.WithPageSize(ic.Limit),
			ipfabric.WithSnapshot(ic.Snapshot),
		)
	}
	if a.netbox == nil {
		nc := a.config.NetBox
		a.netbox = netbox.NewClient(nc.URL, nc.Token,
			netbox.WithPageSize(nc.Limit),
			netbox.WithBranch(nc.Branch),
			netbox.WithTransport(transport.WithWriteRateLimit(nc.RateLimit)),
		)
	}
	return a.ipfabric, a.netbox
}

// devicemapOptions constructs importer options from the app configuration.
func (a *App) devicemapOptions() []devicemap.Option {
	opts := []devicemap.Option{
		devicemap.WithThresholds(a.config.Thresholds),
		devicemap.WithRoleColors(a.config.RoleColors),
	}
	if a.config.ReportDir != "" {
		opts = append(opts, devicemap.WithReportDir(a.config.ReportDir))
	}
	if a.config.MetricsFile != "" {
		opts = append(opts, devicemap.WithMetricsFile(a.config.MetricsFile))
	}
	return opts
}

// reload re-reads configuration from file, keeping flag-derived settings.
func (a *App) reload(configFile string) error {
	config, err := LoadConfig(configFile)
	if err != nil {
		return err
	}
	config.UpdateFromFlags(a.config.Verbose, a.config.Quiet, a.config.NoColor, a.config.Format, a.config.LogLevel)

	a.mu.Lock()
	defer a.mu.Unlock()
	a.config = config
	a.ipfabric, a.netbox, a.devicemap = nil, nil, nil
	return nil
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithDevicemap sets a custom importer (useful for testing).
func WithDevicemap(dm devicemap.Devicemap) Option {
	return func(a *App) error {
		a.devicemap = dm
		return nil
	}
}

// Ensure App implements application.Application at compile time.
var _ application.Application = (*App)(nil)

// contextLogger attaches the app logger to ctx for library code.
func (a *App) contextLogger(ctx context.Context) context.Context {
	return logging.WithLogger(ctx, a.logger)
}
