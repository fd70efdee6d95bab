// Package completion provides the completion command.
package completion

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/devicemap/internal/cmd/completion"
)

// NewCommand creates the completion command.
func NewCommand() *cobra.Command {
	var install, uninstall bool

	cmd := &cobra.Command{
		Use:   "completion <bash|zsh|fish|powershell>",
		Short: "Generate shell completion scripts",
		Long: `Generate a shell completion script for devicemap.

Load for the current session:

  $ source <(devicemap completion bash)
  $ devicemap completion fish | source

Install permanently (bash, zsh, fish):

  $ devicemap completion zsh --install
  $ devicemap completion zsh --uninstall`,
		DisableFlagsInUseLine: true,
		ValidArgs:             completion.Shells,
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := cmd.Root()
			shell := args[0]

			switch {
			case uninstall:
				path, err := completion.Uninstall(root, shell)
				if err != nil {
					return err
				}
				cmd.Printf("Removed %s completion from %s\n", shell, path)
				return nil
			case install:
				path, err := completion.Install(root, shell)
				if err != nil {
					return err
				}
				cmd.Printf("Installed %s completion to %s\n", shell, path)
				return nil
			default:
				return completion.Generate(root, shell, cmd.OutOrStdout())
			}
		},
	}

	cmd.Flags().BoolVar(&install, "install", false, "Install the script to the shell's completion directory")
	cmd.Flags().BoolVar(&uninstall, "uninstall", false, "Remove a previously installed script")
	cmd.MarkFlagsMutuallyExclusive("install", "uninstall")

	return cmd
}
