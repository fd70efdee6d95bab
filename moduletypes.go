package devicemap

import (
	"context"

	"github.com/agentstation/devicemap/pkg/importer"
	"github.com/agentstation/devicemap/pkg/inventory"
	"github.com/agentstation/devicemap/pkg/library"
	"github.com/agentstation/devicemap/pkg/logging"
	"github.com/agentstation/devicemap/pkg/resolver"
	"github.com/agentstation/devicemap/pkg/sync"
)

// importModuleTypes resolves every discovered module part number and creates
// the matching module types, classified into a NetBox profile.
func (r *run) importModuleTypes(ctx context.Context, stats *importer.Stats) error {
	logger := logging.FromContext(ctx)

	parts, err := r.source.Parts(ctx)
	if err != nil {
		return err
	}
	groups := inventory.GroupModules(inventory.FilterModules(parts))
	logger.Info().Int("parts", len(parts)).Int("vendors", len(groups)).Msg("Modules discovered")

	profiles := r.moduleProfiles(ctx)

	for _, group := range groups {
		vendor := r.vendors.Resolve(group.Vendor)
		vctx := logging.WithVendor(ctx, vendor)

		for _, pn := range group.PartNumbers {
			asset := inventory.Asset{Vendor: group.Vendor, Model: pn, Kind: inventory.KindModule}

			res, ok := r.resolveAsset(vctx, library.ModuleTypes, vendor, asset, stats)
			if !ok || !r.observe(vctx, sync.Modules, res, stats) {
				continue
			}

			tmpl, mfrID, ok := r.prepare(vctx, res, vendor, stats)
			if !ok {
				continue
			}

			profile := resolver.Classify(tmpl)
			outcome := r.importer.Import(vctx, res, importer.Target{
				Kind:           inventory.KindModule,
				Template:       tmpl,
				ManufacturerID: mfrID,
				ProfileID:      profiles[profile],
			}, stats)
			r.recordOutcome(sync.Modules, vendor, res, outcome)
		}
	}
	return nil
}

// moduleProfiles maps profiles to NetBox IDs. NetBox releases without module
// type profiles leave the map empty and modules are created without one.
func (r *run) moduleProfiles(ctx context.Context) map[resolver.Profile]int {
	out := map[resolver.Profile]int{}
	list, err := r.target.ListModuleTypeProfiles(ctx)
	if err != nil {
		logging.FromContext(ctx).Warn().Err(err).Msg("Module type profiles not available")
		return out
	}

	byName := make(map[string]int, len(list))
	for _, p := range list {
		byName[p.Name] = p.ID
	}
	for _, p := range []resolver.Profile{resolver.ProfilePowerSupply, resolver.ProfileExpansionCard, resolver.ProfileFan} {
		if id, ok := byName[p.String()]; ok {
			out[p] = id
		}
	}
	return out
}
