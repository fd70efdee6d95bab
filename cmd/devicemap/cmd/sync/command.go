// Package sync provides the sync command, which runs an import.
package sync

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/devicemap/cmd/application"
)

// NewCommand creates the sync command using app context.
func NewCommand(app application.Application) *cobra.Command {
	flags := &Flags{}

	cmd := &cobra.Command{
		Use:     "sync",
		GroupID: "core",
		Short:   "Import discovered hardware types into NetBox",
		Args:    cobra.NoArgs,
		Long: `Sync reads the hardware inventory from IP Fabric and creates the missing
NetBox records, category by category:

1. manufacturers - discovered vendors matched to library vendor directories
2. devices       - device types with their component templates
3. modules       - module types with their component templates and profile
4. sites, roles, platforms - flat records, only when requested

Before importing, the command checks the thresholds, both APIs and the
device-type library remote, then clones or updates the local library mirror.

NetBox records that already exist are counted as duplicates and never changed.`,
		Example: `  devicemap sync                                  # manufacturers, devices, modules
  devicemap sync --categories all                 # every category
  devicemap sync --categories devices --images    # device types with elevation images
  devicemap sync --dry-run -o json                # resolve and report only`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Persistent root flag; absent when the command runs standalone.
			flags.NoColor, _ = cmd.Flags().GetBool("no-color")
			return Execute(cmd.Context(), app, flags, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	addFlags(cmd, flags)
	return cmd
}
