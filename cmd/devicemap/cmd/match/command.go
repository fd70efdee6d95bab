// Package match provides offline matching diagnostics against the local
// device-type library mirror.
package match

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/devicemap/cmd/application"
)

// Flags holds the match command flags.
type Flags struct {
	Threshold float64
	Family    string
	Platform  string
}

// NewCommand creates the match command and its vendor, model and module subcommands.
func NewCommand(app application.Application) *cobra.Command {
	flags := &Flags{}

	cmd := &cobra.Command{
		Use:     "match",
		GroupID: "core",
		Short:   "Show how a discovered name matches the device-type library",
		Long: `Match runs the same fuzzy lookups as sync against the local library
mirror, without contacting IP Fabric or NetBox, and prints every attempted
query with its closest candidate and score.

Use it to tune thresholds for names that end up as no-matches or duplicates.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	cmd.PersistentFlags().Float64Var(&flags.Threshold, "threshold", 0,
		"threshold for the final lookup (default from configuration)")

	cmd.AddCommand(newVendorCommand(app, flags))
	cmd.AddCommand(newModelCommand(app, flags))
	cmd.AddCommand(newModuleCommand(app, flags))
	return cmd
}

func newVendorCommand(app application.Application, flags *Flags) *cobra.Command {
	return &cobra.Command{
		Use:     "vendor <name>",
		Short:   "Match a discovered vendor to a library vendor directory",
		Args:    cobra.ExactArgs(1),
		Example: `  devicemap match vendor "Cisco Systems"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := Vendor(app, flags, args[0])
			if err != nil {
				return err
			}
			return Print(cmd.OutOrStdout(), app.OutputFormat(), d)
		},
	}
}

func newModelCommand(app application.Application, flags *Flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "model <vendor> <model>",
		Short:   "Match a discovered device model to a device-type template",
		Args:    cobra.ExactArgs(2),
		Example: `  devicemap match model cisco WS-C3850-24 --family c3850 --platform cat3k`,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := Model(app, flags, args[0], args[1])
			if err != nil {
				return err
			}
			return Print(cmd.OutOrStdout(), app.OutputFormat(), d)
		},
	}
	cmd.Flags().StringVar(&flags.Family, "family", "", "device family for the family-model stage")
	cmd.Flags().StringVar(&flags.Platform, "platform", "", "platform for the platform-model stage")
	return cmd
}

func newModuleCommand(app application.Application, flags *Flags) *cobra.Command {
	return &cobra.Command{
		Use:     "module <vendor> <part-number>",
		Short:   "Match a discovered part number to a module-type template",
		Args:    cobra.ExactArgs(2),
		Example: `  devicemap match module cisco PWR-C1-715WAC`,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := Module(app, flags, args[0], args[1])
			if err != nil {
				return err
			}
			return Print(cmd.OutOrStdout(), app.OutputFormat(), d)
		},
	}
}
