package library

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/agentstation/devicemap/pkg/constants"
	"github.com/agentstation/devicemap/pkg/errors"
	"github.com/agentstation/devicemap/pkg/logging"
)

// Mirror keeps a local shallow clone of the device-type library.
type Mirror struct {
	Source string
	Branch string
	Path   string
}

// NewMirror creates a Mirror, filling defaults for empty fields.
func NewMirror(source, branch, path string) *Mirror {
	if source == "" {
		source = constants.DeviceTypeLibraryGit
	}
	if branch == "" {
		branch = constants.DefaultLibraryBranch
	}
	if path == "" {
		path = constants.DefaultLibraryPath
	}
	return &Mirror{Source: source, Branch: branch, Path: expandPath(path)}
}

// Exists reports whether the mirror has been cloned.
func (m *Mirror) Exists() bool {
	_, err := os.Stat(filepath.Join(m.Path, ".git"))
	return err == nil
}

// Reachable checks that the remote answers. A failure is a ConnectivityError.
func (m *Mirror) Reachable(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, constants.PingTimeout)
	defer cancel()

	if err := git(ctx, "", "probe remote", "ls-remote", "--heads", m.Source, m.Branch); err != nil {
		return errors.NewConnectivityError("device-type library", m.Source, err)
	}
	return nil
}

// Sync clones the library when absent, otherwise discards local changes and pulls.
func (m *Mirror) Sync(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, constants.GitTimeout)
	defer cancel()

	logger := logging.FromContext(ctx)
	if !m.Exists() {
		logger.Info().Str("source", m.Source).Str("path", m.Path).Msg("Cloning device-type library")
		if err := os.MkdirAll(filepath.Dir(m.Path), constants.DirPermissions); err != nil {
			return errors.WrapIO("create", filepath.Dir(m.Path), err)
		}
		return git(ctx, "", "clone library", "clone", "--branch", m.Branch, "--depth", "1", m.Source, m.Path)
	}

	logger.Info().Str("path", m.Path).Msg("Updating device-type library")
	if err := git(ctx, m.Path, "discard local changes", "reset", "--hard", "HEAD"); err != nil {
		return err
	}
	return git(ctx, m.Path, "pull library", "pull", "origin", m.Branch)
}

// git runs one git subcommand in dir, folding its combined output into a
// ProcessError on failure.
func git(ctx context.Context, dir, operation string, args ...string) error {
	cmd := exec.CommandContext(ctx, "git", args...) //nolint:gosec // arguments come from configuration
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		return &errors.ProcessError{
			Operation: operation,
			Command:   "git " + args[0],
			Output:    strings.TrimSpace(string(out)),
			Err:       err,
		}
	}
	return nil
}
