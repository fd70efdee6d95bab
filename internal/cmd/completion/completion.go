// Package completion generates and installs shell completion scripts.
package completion

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/agentstation/devicemap/pkg/constants"
	"github.com/agentstation/devicemap/pkg/errors"
)

// Supported shells.
const (
	ShellBash       = "bash"
	ShellZsh        = "zsh"
	ShellFish       = "fish"
	ShellPowerShell = "powershell"
)

// Shells lists every shell Generate accepts.
var Shells = []string{ShellBash, ShellZsh, ShellFish, ShellPowerShell}

// Generate writes the completion script for shell to w.
func Generate(root *cobra.Command, shell string, w io.Writer) error {
	switch shell {
	case ShellBash:
		return root.GenBashCompletionV2(w, true)
	case ShellZsh:
		return root.GenZshCompletion(w)
	case ShellFish:
		return root.GenFishCompletion(w, true)
	case ShellPowerShell:
		return root.GenPowerShellCompletionWithDesc(w)
	default:
		return &errors.ValidationError{
			Field:   "shell",
			Value:   shell,
			Message: "unsupported shell",
		}
	}
}

// Path returns the per-user install location of the completion script for shell.
// A Homebrew prefix, when set, takes precedence.
func Path(shell, name string) (string, error) {
	brew := os.Getenv("HOMEBREW_PREFIX")
	home, err := os.UserHomeDir()
	if err != nil && brew == "" {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}

	switch shell {
	case ShellBash:
		if brew != "" {
			return filepath.Join(brew, "etc", "bash_completion.d", name), nil
		}
		return filepath.Join(home, ".bash_completion.d", name), nil
	case ShellZsh:
		if brew != "" {
			return filepath.Join(brew, "share", "zsh", "site-functions", "_"+name), nil
		}
		return filepath.Join(home, ".zsh", "completions", "_"+name), nil
	case ShellFish:
		if brew != "" {
			return filepath.Join(brew, "share", "fish", "vendor_completions.d", name+".fish"), nil
		}
		return filepath.Join(home, ".config", "fish", "completions", name+".fish"), nil
	default:
		return "", &errors.ValidationError{
			Field:   "shell",
			Value:   shell,
			Message: "no install location; redirect the generated script instead",
		}
	}
}

// Install writes the completion script for shell to its install location
// and returns the path written.
func Install(root *cobra.Command, shell string) (string, error) {
	target, err := Path(shell, root.Name())
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(target), constants.DirPermissions); err != nil {
		return "", fmt.Errorf("creating completion directory: %w", err)
	}

	file, err := os.Create(target) // #nosec G304 - path built by Path
	if err != nil {
		return "", fmt.Errorf("creating completion file: %w", err)
	}
	defer file.Close() //nolint:errcheck

	if err := Generate(root, shell, file); err != nil {
		return "", fmt.Errorf("generating %s completion: %w", shell, err)
	}
	return target, nil
}

// Uninstall removes an installed completion script. A missing file is not an error.
func Uninstall(root *cobra.Command, shell string) (string, error) {
	target, err := Path(shell, root.Name())
	if err != nil {
		return "", err
	}
	if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
		return "", fmt.Errorf("removing %s: %w", target, err)
	}
	return target, nil
}
