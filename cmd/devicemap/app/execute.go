package app

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Execute builds the command tree and runs it with args.
func (a *App) Execute(ctx context.Context, args []string) error {
	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(a.contextLogger(ctx))
}

func (a *App) createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "devicemap",
		Short:   "Import IP Fabric hardware into NetBox device types",
		Version: a.version,
		Long: `Devicemap reads the vendors, models and part numbers discovered by
IP Fabric, matches them against the netbox-community devicetype-library and
creates the missing manufacturers, device types and module types in NetBox.

Records that already exist in NetBox are never modified.`,
		PersistentPreRunE: a.setupCommand,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	rootCmd.AddGroup(
		&cobra.Group{ID: "core", Title: "Core Commands:"},
		&cobra.Group{ID: "management", Title: "Management Commands:"},
	)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.config.ConfigFile, "config", "", "config file (default $HOME/.devicemap.yaml)")
	flags.BoolVarP(&a.config.Verbose, "verbose", "v", false, "debug logging (same as --log-level=debug)")
	flags.BoolVarP(&a.config.Quiet, "quiet", "q", false, "only warnings and errors (same as --log-level=warn)")
	flags.BoolVar(&a.config.NoColor, "no-color", a.config.NoColor, "disable colored output")
	flags.StringVarP(&a.config.Format, "format", "o", a.config.Format, "output format: table, wide, csv, json, yaml")
	flags.StringVar(&a.config.LogLevel, "log-level", a.config.LogLevel, "trace, debug, info, warn or error; beats -v and -q")

	rootCmd.SetVersionTemplate("devicemap {{.Version}}\n")

	a.registerCommands(rootCmd)

	return rootCmd
}

// setupCommand runs before every command. Flags are bound straight into
// a.config, so only an explicit --config needs a reload.
func (a *App) setupCommand(cmd *cobra.Command, _ []string) error {
	if cmd.Flags().Changed("config") {
		if err := a.reload(a.config.ConfigFile); err != nil {
			return err
		}
	}

	logger := NewLogger(a.config)
	a.logger = &logger
	cmd.SetContext(a.contextLogger(cmd.Context()))
	return nil
}

// ExitOnError prints err to stderr and exits 1. Used by main only.
func ExitOnError(err error) {
	if err == nil {
		return
	}
	fmt.Fprintln(os.Stderr, "devicemap:", err)
	os.Exit(1)
}
