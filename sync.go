package devicemap

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/agentstation/devicemap/internal/metrics"
	"github.com/agentstation/devicemap/pkg/errors"
	"github.com/agentstation/devicemap/pkg/importer"
	"github.com/agentstation/devicemap/pkg/library"
	"github.com/agentstation/devicemap/pkg/logging"
	"github.com/agentstation/devicemap/pkg/report"
	"github.com/agentstation/devicemap/pkg/resolver"
	"github.com/agentstation/devicemap/pkg/sync"
)

// run is the state of one Sync call. Nothing in it outlives the call.
type run struct {
	*devicemap
	options  *sync.Options
	result   *sync.Result
	importer *importer.Importer
	recorder *report.Recorder
	metrics  *metrics.Collector

	vendors *resolver.VendorResolver
	models  *resolver.ModelResolver
	modules *resolver.ModuleResolver

	// manufacturers maps lowercased NetBox manufacturer names to IDs.
	manufacturers map[string]int
	// entries caches library listings by "<kind>/<vendor>".
	entries map[string]listing
}

// Sync runs the import over the requested categories in fixed order:
// manufacturers, device types, module types, then sites, roles and platforms.
// Setup failures are returned; per-asset failures are counted in the result.
func (d *devicemap) Sync(ctx context.Context, opts ...sync.Option) (*sync.Result, error) {
	// Step 0: Set context
	if ctx == nil {
		ctx = context.Background()
	}

	// Step 1: Parse and validate options
	options := sync.Defaults().Apply(opts...)
	if err := options.Validate(); err != nil {
		return nil, err
	}

	// Step 2: Setup context with timeout
	var cancel context.CancelFunc
	if options.Timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, options.Timeout)
	} else {
		cancel = func() {}
	}
	defer cancel()

	// Step 3: Stamp the run
	runID := uuid.NewString()
	ctx = logging.WithRunID(ctx, runID)
	logger := logging.FromContext(ctx)
	result := sync.NewResult(runID, d.now(), options.DryRun)

	// Step 4: Build resolvers over the library
	r, err := d.newRun(ctx, options, result)
	if err != nil {
		return nil, err
	}

	logger.Info().
		Bool("dry_run", options.DryRun).
		Bool("images", options.Images).
		Str("categories", joinCategories(options.Planned())).
		Msg("Starting import")

	// Step 5: Run categories in order
	steps := map[sync.Category]func(context.Context, *importer.Stats) error{
		sync.Manufacturers: r.importManufacturers,
		sync.Devices:       r.importDeviceTypes,
		sync.Modules:       r.importModuleTypes,
		sync.Sites:         r.importSites,
		sync.Roles:         r.importRoles,
		sync.Platforms:     r.importPlatforms,
	}
	for _, category := range options.Planned() {
		if err := ctx.Err(); err != nil {
			return result, errors.WrapResource("sync", "category", string(category), err)
		}

		stats := result.Stats(category)
		cctx := logging.WithCategory(ctx, string(category))
		if err := steps[category](cctx, stats); err != nil {
			if ctx.Err() != nil {
				return result, err
			}
			// A category that cannot read its input is skipped, not fatal.
			logging.FromContext(cctx).Error().Err(err).Msg("Category aborted")
			stats.Failed++
		}
		r.summarize(cctx, category, stats)
	}

	// Step 6: Finish, then write reports and metrics
	result.Duration = d.now().Sub(result.Started)
	r.finish(ctx)

	logger.Info().
		Dur("duration", result.Duration).
		Str("summary", result.Summary()).
		Msg("Import complete")
	return result, nil
}

// newRun prepares the resolvers and the NetBox manufacturer lookup.
func (d *devicemap) newRun(ctx context.Context, options *sync.Options, result *sync.Result) (*run, error) {
	vendorDirs, err := d.lib.Vendors(library.DeviceTypes)
	if err != nil {
		return nil, err
	}

	t := d.config.thresholds
	vendors, err := resolver.NewVendorResolver(vendorDirs, t.Vendor)
	if err != nil {
		return nil, err
	}
	models, err := resolver.NewModelResolver(t.Model)
	if err != nil {
		return nil, err
	}
	modules, err := resolver.NewModuleResolver(t.Module)
	if err != nil {
		return nil, err
	}
	models.Diagnostics = d.config.diagnostics
	modules.Diagnostics = d.config.diagnostics

	recorder := d.config.recorder
	if recorder == nil && d.config.reportDir != "" {
		recorder = report.NewRecorder()
	}

	r := &run{
		devicemap:     d,
		options:       options,
		result:        result,
		importer:      importer.New(d.target),
		recorder:      recorder,
		vendors:       vendors,
		models:        models,
		modules:       modules,
		manufacturers: map[string]int{},
		entries:       map[string]listing{},
	}
	if d.config.metricsFile != "" {
		r.metrics = metrics.New(result.RunID)
	}

	existing, err := d.target.ListManufacturers(ctx)
	if err != nil {
		return nil, err
	}
	for _, m := range existing {
		r.manufacturers[strings.ToLower(m.Name)] = m.ID
	}
	return r, nil
}

// listing is a cached library directory listing.
type listing struct {
	entries []library.Entry
	err     error
}

// libraryEntries lists a vendor directory once per run. A missing directory
// is cached too and reported as a NotFoundError every time.
func (r *run) libraryEntries(kind library.Kind, vendor string) ([]library.Entry, error) {
	key := string(kind) + "/" + vendor
	if l, ok := r.entries[key]; ok {
		return l.entries, l.err
	}

	var l listing
	if kind == library.ElevationImages {
		l.entries, l.err = r.lib.Images(vendor)
	} else {
		l.entries, l.err = r.lib.Entries(kind, vendor)
	}
	if l.err != nil && !errors.IsNotFound(l.err) {
		return nil, l.err
	}
	r.entries[key] = l
	return l.entries, l.err
}

// manufacturerID looks up a NetBox manufacturer by name, ignoring case.
func (r *run) manufacturerID(name string) (int, bool) {
	id, ok := r.manufacturers[strings.ToLower(name)]
	return id, ok
}

// summarize logs the category totals and the threshold advice.
func (r *run) summarize(ctx context.Context, category sync.Category, stats *importer.Stats) {
	event := logging.FromContext(ctx).Info().
		Int("processed", stats.Processed).
		Int("created", stats.Created).
		Int("existing", stats.Existing).
		Int("duplicates", stats.Duplicates).
		Int("no_matches", stats.NoMatches).
		Int("failed", stats.Failed)
	if threshold := sync.Threshold(category); threshold != "" {
		event = event.
			Str("recommendation", stats.Recommendation().String()).
			Str("advice", stats.Advice(threshold))
	}
	event.Msg("Category complete")

	r.metrics.Observe(string(category), metrics.Counts{
		Resolved:        stats.Resolved,
		NoMatches:       stats.NoMatches,
		Created:         stats.Created,
		Duplicates:      stats.Duplicates,
		Failed:          stats.Failed,
		Components:      stats.Components,
		ComponentErrors: stats.ComponentErrors,
		ImagesAttached:  stats.ImagesAttached,
	})
}

// finish writes the report directory and metrics textfile when configured.
// Failures here are logged; the import itself already happened.
func (r *run) finish(ctx context.Context) {
	logger := logging.FromContext(ctx)

	if r.recorder != nil && r.config.reportDir != "" {
		dir, err := r.recorder.Write(r.config.reportDir, r.result.Started)
		if err != nil {
			logger.Warn().Err(err).Str("dir", r.config.reportDir).Msg("Could not write reports")
		} else {
			r.result.ReportDir = dir
			if err := r.recorder.WriteSummary(dir, r.summary()); err != nil {
				logger.Warn().Err(err).Str("dir", dir).Msg("Could not write run summary")
			}
			logger.Info().Str("dir", dir).Msg("Reports written")
		}
	}

	if r.metrics != nil {
		r.metrics.Finish(r.result.Duration, r.now())
		if err := r.metrics.WriteTextfile(r.config.metricsFile); err != nil {
			logger.Warn().Err(err).Str("file", r.config.metricsFile).Msg("Could not write metrics")
		}
	}
}

// summary converts the run result into the markdown summary rows.
func (r *run) summary() report.Summary {
	s := report.Summary{
		RunID:   r.result.RunID,
		Started: r.result.Started,
		DryRun:  r.result.DryRun,
	}
	for _, c := range r.result.Ran() {
		stats := r.result.Categories[c]
		s.Rows = append(s.Rows, report.SummaryRow{
			Category:   string(c),
			Processed:  stats.Processed,
			Created:    stats.Created,
			Existing:   stats.Existing,
			Duplicates: stats.Duplicates,
			NoMatches:  stats.NoMatches,
			Failed:     stats.Failed,
		})
	}
	return s
}

func joinCategories(categories []sync.Category) string {
	names := make([]string, len(categories))
	for i, c := range categories {
		names[i] = string(c)
	}
	return strings.Join(names, ",")
}
