// Package library provides commands to manage and browse the local
// device-type library mirror.
package library

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/devicemap/cmd/application"
	"github.com/agentstation/devicemap/internal/cmd/output"
	"github.com/agentstation/devicemap/internal/cmd/table"
	devicelib "github.com/agentstation/devicemap/pkg/library"
	"github.com/agentstation/devicemap/pkg/logging"
)

// NewCommand creates the library command.
func NewCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "library",
		GroupID: "management",
		Short:   "Manage the local device-type library mirror",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	cmd.AddCommand(newUpdateCommand(app))
	cmd.AddCommand(newVendorsCommand(app))
	cmd.AddCommand(newLsCommand(app))
	return cmd
}

func newUpdateCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:   "update",
		Short: "Clone or update the library mirror",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := logging.WithLogger(cmd.Context(), app.Logger())
			mirror := app.Mirror()
			if err := mirror.Reachable(ctx); err != nil {
				return err
			}
			if err := mirror.Sync(ctx); err != nil {
				return err
			}
			cmd.Printf("library %s (%s) is up to date in %s\n", mirror.Source, mirror.Branch, mirror.Path)
			return nil
		},
	}
}

func newVendorsCommand(app application.Application) *cobra.Command {
	var modules bool
	cmd := &cobra.Command{
		Use:   "vendors",
		Short: "List vendor directories with their template counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			lib, err := app.Library()
			if err != nil {
				return err
			}
			kind := kindOf(modules)
			vendors, err := lib.Vendors(kind)
			if err != nil {
				return err
			}
			counts := make(map[string]int, len(vendors))
			for _, v := range vendors {
				entries, err := lib.Entries(kind, v)
				if err != nil {
					return err
				}
				counts[v] = len(entries)
			}
			return output.Print(cmd.OutOrStdout(), app.OutputFormat(), counts, func(bool) table.Data {
				return table.VendorsToTableData(vendors, counts)
			})
		},
	}
	cmd.Flags().BoolVar(&modules, "modules", false, "list module-types instead of device-types")
	return cmd
}

func newLsCommand(app application.Application) *cobra.Command {
	var modules bool
	cmd := &cobra.Command{
		Use:     "ls <vendor>",
		Short:   "List the templates of one vendor",
		Args:    cobra.ExactArgs(1),
		Example: `  devicemap library ls Cisco --modules`,
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := app.Library()
			if err != nil {
				return err
			}
			entries, err := lib.Entries(kindOf(modules), args[0])
			if err != nil {
				return fmt.Errorf("listing %s: %w", args[0], err)
			}
			return output.Print(cmd.OutOrStdout(), app.OutputFormat(), entries, func(bool) table.Data {
				return table.EntriesToTableData(entries)
			})
		},
	}
	cmd.Flags().BoolVar(&modules, "modules", false, "list module-types instead of device-types")
	return cmd
}

func kindOf(modules bool) devicelib.Kind {
	if modules {
		return devicelib.ModuleTypes
	}
	return devicelib.DeviceTypes
}
