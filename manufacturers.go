package devicemap

import (
	"context"
	"strings"

	"github.com/agentstation/devicemap/internal/netbox"
	"github.com/agentstation/devicemap/pkg/importer"
	"github.com/agentstation/devicemap/pkg/inventory"
	"github.com/agentstation/devicemap/pkg/logging"
	"github.com/agentstation/devicemap/pkg/sync"
)

const manufacturersPath = "dcim/manufacturers/"

// importManufacturers creates one NetBox manufacturer per resolved library
// vendor. Vendors without a library match are created under their
// discovered name. Manufacturers already in NetBox are skipped.
func (r *run) importManufacturers(ctx context.Context, stats *importer.Stats) error {
	logger := logging.FromContext(ctx)

	discovered, err := r.source.Vendors(ctx)
	if err != nil {
		return err
	}
	discovered = inventory.Unique(discovered)
	logger.Info().Int("vendors", len(discovered)).Msg("Vendors discovered")

	for _, vendor := range discovered {
		vm := r.vendors.Lookup(vendor)
		r.recorder.Vendor(vendor, vm.Vendor, vm.Score, vm.Matched)
		if !vm.Matched {
			stats.NoMatches++
			logger.Warn().Str("vendor", vendor).Msg("No library vendor matched, using discovered name")
		}

		name := vm.Vendor
		if _, ok := r.manufacturerID(name); ok {
			stats.Processed++
			stats.Existing++
			logger.Debug().Str("vendor", vendor).Str("manufacturer", name).Msg("Manufacturer already in NetBox")
			continue
		}
		if r.options.DryRun {
			stats.Processed++
			continue
		}

		outcome := r.importer.ImportRecord(ctx, manufacturersPath, map[string]any{
			"name": name,
			"slug": netbox.SlugFromName(name),
		}, stats)
		r.recordRecord(sync.Manufacturers, name, outcome)
		if outcome.Created {
			r.manufacturers[strings.ToLower(name)] = outcome.ID()
		}
	}
	return nil
}

// recordRecord fires hooks and report rows for a flat record outcome.
func (r *run) recordRecord(category sync.Category, name string, outcome importer.Outcome) {
	switch {
	case outcome.Created:
		r.hooks.created(category, name, outcome.ID())
	case outcome.Duplicate:
		r.hooks.duplicate(category, name)
		r.recorder.ImportError(string(category), "", name, true, outcome.ErrorDetail)
	default:
		r.recorder.ImportError(string(category), "", name, false, outcome.ErrorDetail)
	}
}
