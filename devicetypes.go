package devicemap

import (
	"context"

	"github.com/agentstation/devicemap/pkg/elevation"
	"github.com/agentstation/devicemap/pkg/errors"
	"github.com/agentstation/devicemap/pkg/importer"
	"github.com/agentstation/devicemap/pkg/inventory"
	"github.com/agentstation/devicemap/pkg/library"
	"github.com/agentstation/devicemap/pkg/logging"
	"github.com/agentstation/devicemap/pkg/resolver"
	"github.com/agentstation/devicemap/pkg/sync"
)

// importDeviceTypes resolves every discovered model (stack members
// included) and creates the matching device types with their components.
func (r *run) importDeviceTypes(ctx context.Context, stats *importer.Stats) error {
	logger := logging.FromContext(ctx)

	models, err := r.source.Models(ctx)
	if err != nil {
		return err
	}
	logger.Info().Int("models", len(models)).Msg("Models discovered")

	for _, asset := range models {
		asset.Kind = inventory.KindDevice
		vendor := r.vendors.Resolve(asset.Vendor)

		res, ok := r.resolveAsset(ctx, library.DeviceTypes, vendor, asset, stats)
		if !ok || !r.observe(ctx, sync.Devices, res, stats) {
			continue
		}

		tmpl, mfrID, ok := r.prepare(ctx, res, vendor, stats)
		if !ok {
			continue
		}

		outcome := r.importer.Import(ctx, res, importer.Target{
			Kind:           inventory.KindDevice,
			Template:       tmpl,
			ManufacturerID: mfrID,
		}, stats)
		r.recordOutcome(sync.Devices, vendor, res, outcome)

		if outcome.Created && r.options.Images {
			r.attachImages(ctx, vendor, tmpl, outcome.ID(), stats)
		}
	}
	return nil
}

// resolveAsset runs the resolver for kind. A vendor without a library
// directory yields an unmatched result. Any other listing failure is counted
// against the asset and reported false so the caller moves on.
func (r *run) resolveAsset(ctx context.Context, kind library.Kind, vendor string, asset inventory.Asset, stats *importer.Stats) (resolver.Result, bool) {
	entries, err := r.libraryEntries(kind, vendor)
	switch {
	case errors.IsNotFound(err):
		return resolver.Result{Asset: asset, Stage: resolver.StageNone}, true
	case err != nil:
		stats.Processed++
		stats.Failed++
		r.recorder.ImportError(asset.Kind.String(), vendor, asset.Model, false, err.Error())
		logging.FromContext(ctx).Error().Err(err).
			Str("vendor", vendor).
			Str("model", asset.Model).
			Msg("Library not listed")
		return resolver.Result{}, false
	}
	if kind == library.ModuleTypes {
		return r.modules.Resolve(asset, entries), true
	}
	return r.models.Resolve(asset, entries), true
}

// observe counts and reports a resolution. It reports whether the caller
// should go on to create the record.
func (r *run) observe(ctx context.Context, category sync.Category, res resolver.Result, stats *importer.Stats) bool {
	stats.Observe(res)
	r.recorder.Resolution(res)

	logger := logging.FromContext(ctx)
	if !res.Matched {
		logger.Warn().
			Str("vendor", res.Asset.Vendor).
			Str("model", res.Asset.Model).
			Int("attempts", len(res.Attempts)).
			Msg("No library match")
		r.hooks.noMatch(category, res)
		return false
	}

	logger.Debug().
		Str("vendor", res.Asset.Vendor).
		Str("model", res.Asset.Model).
		Str("template", res.Entry.File).
		Str("stage", res.Stage.String()).
		Float64("score", res.Score).
		Msg("Library match")
	return !r.options.DryRun
}

// prepare loads the matched template and looks up its manufacturer.
func (r *run) prepare(ctx context.Context, res resolver.Result, vendor string, stats *importer.Stats) (*library.Template, int, bool) {
	logger := logging.FromContext(ctx)
	kind := res.Asset.Kind.String()

	mfrID, ok := r.manufacturerID(vendor)
	if !ok {
		stats.Failed++
		r.recorder.ImportError(kind, vendor, res.Entry.File, false, "manufacturer not found in NetBox")
		logger.Warn().Str("vendor", vendor).Msg("No manufacturer in NetBox, import manufacturers first")
		return nil, 0, false
	}

	tmpl, err := r.lib.Load(*res.Entry)
	if err != nil {
		stats.Failed++
		r.recorder.ImportError(kind, vendor, res.Entry.File, false, err.Error())
		logger.Error().Err(err).Str("template", res.Entry.File).Msg("Template not loaded")
		return nil, 0, false
	}
	return tmpl, mfrID, true
}

// recordOutcome fires hooks and report rows for a type import.
func (r *run) recordOutcome(category sync.Category, vendor string, res resolver.Result, outcome importer.Outcome) {
	kind := res.Asset.Kind.String()
	switch {
	case outcome.Created:
		r.hooks.created(category, res.Entry.File, outcome.ID())
	case outcome.Duplicate:
		r.hooks.duplicate(category, res.Entry.File)
		r.recorder.ImportError(kind, vendor, res.Entry.File, true, outcome.ErrorDetail)
	default:
		r.recorder.ImportError(kind, vendor, res.Entry.File, false, outcome.ErrorDetail)
	}
	for _, detail := range outcome.ComponentErrors {
		r.recorder.ComponentError(kind, res.Entry.File, detail)
	}
}

// attachImages uploads the vendor's elevation images for a device type this
// run just created.
func (r *run) attachImages(ctx context.Context, vendor string, tmpl *library.Template, id int, stats *importer.Stats) {
	images, err := r.libraryEntries(library.ElevationImages, vendor)
	if err != nil && !errors.IsNotFound(err) {
		logging.FromContext(ctx).Warn().Err(err).Str("vendor", vendor).Msg("Elevation images not listed")
		return
	}

	matches := elevation.Match(tmpl.Slug(), images, r.config.thresholds.Image)
	for _, m := range matches {
		image := ""
		if m.Image != nil {
			image = m.Image.File
		}
		r.recorder.Image(m.Slug, string(m.Side), image, m.Score, m.Matched)
	}
	logging.FromContext(ctx).Debug().Str("slug", tmpl.Slug()).Str("images", elevation.Names(matches)).Msg("Elevation images matched")

	n, err := elevation.Attach(ctx, r.target, id, matches)
	stats.ImagesAttached += n
	if err != nil {
		r.recorder.ComponentError("image", tmpl.Entry.File, err.Error())
	}
}
