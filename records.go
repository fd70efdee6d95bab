package devicemap

import (
	"context"
	"strings"

	"github.com/agentstation/devicemap/internal/netbox"
	"github.com/agentstation/devicemap/pkg/constants"
	"github.com/agentstation/devicemap/pkg/importer"
	"github.com/agentstation/devicemap/pkg/inventory"
	"github.com/agentstation/devicemap/pkg/logging"
	"github.com/agentstation/devicemap/pkg/sync"
)

const (
	sitesPath     = "dcim/sites/"
	rolesPath     = "dcim/device-roles/"
	platformsPath = "dcim/platforms/"

	importedDescription = "Imported from IP Fabric"
)

// importSites creates one NetBox site per discovered site name.
func (r *run) importSites(ctx context.Context, stats *importer.Stats) error {
	sites, err := r.source.Sites(ctx)
	if err != nil {
		return err
	}
	sites = inventory.Unique(sites)
	logging.FromContext(ctx).Info().Int("sites", len(sites)).Msg("Sites discovered")

	for _, name := range sites {
		r.createRecord(ctx, sync.Sites, sitesPath, name, map[string]any{
			"name":        name,
			"slug":        netbox.SlugFromName(name),
			"description": importedDescription,
		}, stats)
	}
	return nil
}

// importRoles creates one NetBox device role per discovered device type,
// colored from the configured role colors.
func (r *run) importRoles(ctx context.Context, stats *importer.Stats) error {
	devices, err := r.source.Devices(ctx)
	if err != nil {
		return err
	}
	roles := make([]string, 0, len(devices))
	for _, d := range devices {
		roles = append(roles, d.Role)
	}
	roles = inventory.Unique(roles)
	logging.FromContext(ctx).Info().Int("roles", len(roles)).Msg("Device roles discovered")

	for _, role := range roles {
		r.createRecord(ctx, sync.Roles, rolesPath, role, map[string]any{
			"name":        role,
			"slug":        netbox.SlugFromName(role),
			"color":       r.roleColor(role),
			"description": importedDescription,
		}, stats)
	}
	return nil
}

// roleColor returns the configured color for role, or the default grey.
func (r *run) roleColor(role string) string {
	if color, ok := r.config.roleColors[role]; ok && color != "" {
		return color
	}
	return constants.DefaultRoleColor
}

// importPlatforms creates one NetBox platform per discovered device family,
// linked to its manufacturer when one exists.
func (r *run) importPlatforms(ctx context.Context, stats *importer.Stats) error {
	families, err := r.source.Families(ctx)
	if err != nil {
		return err
	}
	logging.FromContext(ctx).Info().Int("families", len(families)).Msg("Platforms discovered")

	seen := map[string]bool{}
	for _, f := range families {
		name := strings.TrimSpace(f.Family)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true

		payload := map[string]any{
			"name":        name,
			"slug":        netbox.SlugFromName(name),
			"description": importedDescription,
		}
		if id, ok := r.platformManufacturer(f.Vendor); ok {
			payload["manufacturer"] = id
		}
		r.createRecord(ctx, sync.Platforms, platformsPath, name, payload, stats)
	}
	return nil
}

// platformManufacturer finds the manufacturer by discovered name first,
// then by resolved library vendor.
func (r *run) platformManufacturer(vendor string) (int, bool) {
	if id, ok := r.manufacturerID(vendor); ok {
		return id, true
	}
	return r.manufacturerID(r.vendors.Resolve(vendor))
}

// createRecord creates a flat record unless the run is a dry run.
func (r *run) createRecord(ctx context.Context, category sync.Category, path, name string, payload map[string]any, stats *importer.Stats) {
	if r.options.DryRun {
		stats.Processed++
		return
	}
	outcome := r.importer.ImportRecord(ctx, path, payload, stats)
	r.recordRecord(category, name, outcome)
}
