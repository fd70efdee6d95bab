package sync

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/devicemap"
	"github.com/agentstation/devicemap/cmd/application"
	"github.com/agentstation/devicemap/pkg/errors"
	"github.com/agentstation/devicemap/pkg/importer"
	"github.com/agentstation/devicemap/pkg/library"
	gosync "github.com/agentstation/devicemap/pkg/sync"
)

// fakeDevicemap records the options of its single Sync call.
type fakeDevicemap struct {
	options *gosync.Options
	result  *gosync.Result
	err     error
}

func (f *fakeDevicemap) Sync(_ context.Context, opts ...gosync.Option) (*gosync.Result, error) {
	f.options = gosync.Defaults().Apply(opts...)
	return f.result, f.err
}

func (f *fakeDevicemap) Thresholds() devicemap.Thresholds    { return devicemap.DefaultThresholds() }
func (f *fakeDevicemap) OnCreated(devicemap.CreatedHook)     {}
func (f *fakeDevicemap) OnDuplicate(devicemap.DuplicateHook) {}
func (f *fakeDevicemap) OnNoMatch(devicemap.NoMatchHook)     {}

func clonedMirror(t *testing.T) *library.Mirror {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".git"), 0o755))
	return &library.Mirror{Source: "https://example.com/library.git", Branch: "master", Path: dir}
}

func testResult() *gosync.Result {
	result := gosync.NewResult("run-1", time.Date(2026, 10, 19, 8, 30, 0, 0, time.UTC), false)
	*result.Stats(gosync.Manufacturers) = importer.Stats{Processed: 3, Created: 2, Existing: 1}
	*result.Stats(gosync.Devices) = importer.Stats{Processed: 5, Resolved: 3, NoMatches: 2, Created: 2, Duplicates: 1}
	result.ReportDir = "Logs/20261019-083000"
	return result
}

type fixture struct {
	app    *application.Mock
	dm     *fakeDevicemap
	opts   []devicemap.Option
	stdout bytes.Buffer
	stderr bytes.Buffer
}

func newFixture(t *testing.T, format string) *fixture {
	t.Helper()
	f := &fixture{dm: &fakeDevicemap{result: testResult()}}
	mirror := clonedMirror(t)
	f.app = &application.Mock{
		PreflightFunc: func(context.Context) []application.Check {
			return []application.Check{
				{System: "IP Fabric", Target: "https://ipf.example.com"},
				{System: "NetBox", Target: "https://netbox.example.com/api"},
			}
		},
		MirrorFunc: func() *library.Mirror { return mirror },
		DevicemapFunc: func(opts ...devicemap.Option) (devicemap.Devicemap, error) {
			f.opts = opts
			return f.dm, nil
		},
		OutputFormatFunc: func() string { return format },
	}
	return f
}

func (f *fixture) run(flags *Flags) error {
	return Execute(context.Background(), f.app, flags, &f.stdout, &f.stderr)
}

func TestExecute(t *testing.T) {
	f := newFixture(t, "table")

	err := f.run(&Flags{Categories: "devices,manufacturers", DryRun: true, Images: true, SkipLibraryUpdate: true})
	require.NoError(t, err)

	require.NotNil(t, f.dm.options)
	assert.Equal(t, []gosync.Category{gosync.Devices, gosync.Manufacturers}, f.dm.options.Categories)
	assert.True(t, f.dm.options.DryRun)
	assert.True(t, f.dm.options.Images)
	assert.Empty(t, f.opts)

	stderr := f.stderr.String()
	assert.Contains(t, stderr, "IP Fabric reachable")
	assert.Contains(t, stderr, "NetBox reachable")
	assert.Contains(t, stderr, "Using device-type library as is")
	assert.Contains(t, stderr, "2 no-matches vs 1 duplicates: consider lowering thresholds.model")
	assert.Contains(t, stderr, "0 duplicates and 0 no-matches: thresholds.vendor looks balanced")
	assert.Contains(t, stderr, "4 created, 1 duplicates, 2 no-matches, 0 failed across 2 categories")
	assert.Contains(t, stderr, "reports: Logs/20261019-083000")

	stdout := f.stdout.String()
	assert.Contains(t, stdout, "Manufacturers")
	assert.Contains(t, stdout, "Devices")
	assert.Contains(t, stdout, "lower")
}

func TestExecuteJSON(t *testing.T) {
	f := newFixture(t, "json")

	require.NoError(t, f.run(&Flags{SkipLibraryUpdate: true, ReportDir: "/tmp/reports", MetricsFile: "/tmp/devicemap.prom"}))

	var decoded gosync.Result
	require.NoError(t, json.Unmarshal(f.stdout.Bytes(), &decoded))
	assert.Equal(t, "run-1", decoded.RunID)
	assert.Equal(t, 2, decoded.Categories[gosync.Devices].Created)
	assert.Len(t, f.opts, 2)
	assert.Empty(t, f.dm.options.Categories)
}

func TestExecutePreflightFailure(t *testing.T) {
	f := newFixture(t, "table")
	unreachable := errors.NewConnectivityError("netbox", "https://netbox.example.com/api", errors.New("connection refused"))
	f.app.PreflightFunc = func(context.Context) []application.Check {
		return []application.Check{
			{System: "IP Fabric", Target: "https://ipf.example.com"},
			{System: "NetBox", Target: "https://netbox.example.com/api", Err: unreachable},
		}
	}

	err := f.run(&Flags{SkipLibraryUpdate: true})
	require.ErrorIs(t, err, errors.ErrUnreachable)
	assert.Contains(t, f.stderr.String(), "NetBox check failed")
	assert.Nil(t, f.dm.options, "no import after a failed check")
}

func TestExecuteInvalidThresholds(t *testing.T) {
	f := newFixture(t, "table")
	f.app.ThresholdsFunc = func() devicemap.Thresholds {
		return devicemap.Thresholds{Vendor: 0.8, Model: 1.5, Module: 0.8, Image: 0.8}
	}

	err := f.run(&Flags{SkipLibraryUpdate: true})
	require.True(t, errors.IsValidationError(err))
	assert.Contains(t, f.stderr.String(), "Invalid thresholds")
	assert.Nil(t, f.dm.options)
}

func TestExecuteInvalidCategories(t *testing.T) {
	f := newFixture(t, "table")

	err := f.run(&Flags{Categories: "devices,racks"})
	require.True(t, errors.IsValidationError(err))
	assert.Empty(t, f.stderr.String())
}

func TestExecuteMissingMirror(t *testing.T) {
	f := newFixture(t, "table")
	f.app.MirrorFunc = func() *library.Mirror {
		return &library.Mirror{Path: filepath.Join(t.TempDir(), "absent")}
	}

	err := f.run(&Flags{SkipLibraryUpdate: true})
	require.True(t, errors.IsNotFound(err))
	assert.Contains(t, f.stderr.String(), "Device-type library not cloned")
}

func TestExecuteSyncErrorStillPrints(t *testing.T) {
	f := newFixture(t, "table")
	f.dm.err = context.Canceled

	err := f.run(&Flags{SkipLibraryUpdate: true})
	require.ErrorIs(t, err, context.Canceled)
	assert.Contains(t, f.stdout.String(), "Manufacturers")
}

func TestCommandFlags(t *testing.T) {
	f := newFixture(t, "table")
	cmd := NewCommand(f.app)
	cmd.SetOut(&f.stdout)
	cmd.SetErr(&f.stderr)
	cmd.SetArgs([]string{"--categories", "all", "--skip-library-update", "--report-dir", "out"})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, gosync.Order, f.dm.options.Categories)
	assert.Len(t, f.opts, 1)
}

func TestCommandNoDiagnostics(t *testing.T) {
	f := newFixture(t, "json")
	cmd := NewCommand(f.app)
	cmd.SetOut(&f.stdout)
	cmd.SetErr(&f.stderr)
	cmd.SetArgs([]string{"--skip-library-update", "--no-diagnostics"})

	require.NoError(t, cmd.Execute())
	assert.Len(t, f.opts, 1)
}
