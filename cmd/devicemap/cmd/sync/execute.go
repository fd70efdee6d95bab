package sync

import (
	"context"
	"fmt"
	"io"

	"github.com/agentstation/devicemap/cmd/application"
	"github.com/agentstation/devicemap/internal/cmd/alerts"
	"github.com/agentstation/devicemap/internal/cmd/output"
	"github.com/agentstation/devicemap/internal/cmd/table"
	"github.com/agentstation/devicemap/pkg/errors"
	"github.com/agentstation/devicemap/pkg/importer"
	"github.com/agentstation/devicemap/pkg/logging"
	gosync "github.com/agentstation/devicemap/pkg/sync"
)

// Execute runs the startup checks and then the import. Check failures are
// fatal; per-record failures are only counted in the printed summary.
func Execute(ctx context.Context, app application.Application, flags *Flags, stdout, stderr io.Writer) error {
	status := alerts.NewWriter(stderr, flags.NoColor)
	ctx = logging.WithLogger(ctx, app.Logger())

	syncOpts, err := flags.syncOptions()
	if err != nil {
		return err
	}

	// Step 1: Thresholds
	if err := app.Thresholds().Validate(); err != nil {
		_ = status.Write(alerts.NewError("Invalid thresholds").WithError(err))
		return err
	}

	// Step 2: Remote APIs
	if err := preflight(ctx, app, status); err != nil {
		return err
	}

	// Step 3: Library mirror
	if err := updateLibrary(ctx, app, flags, status); err != nil {
		return err
	}

	// Step 4: Import
	dm, err := app.Devicemap(flags.devicemapOptions()...)
	if err != nil {
		return err
	}
	result, err := dm.Sync(ctx, syncOpts...)
	if result != nil {
		if printErr := printResult(stdout, status, app.OutputFormat(), result); printErr != nil {
			return printErr
		}
	}
	return err
}

// preflight prints every check and fails on the first broken one.
func preflight(ctx context.Context, app application.Application, status *alerts.Writer) error {
	var first error
	for _, check := range app.Preflight(ctx) {
		if check.OK() {
			_ = status.Write(alerts.NewSuccess(fmt.Sprintf("%s reachable", check.System)).WithDetails(check.Target))
			continue
		}
		_ = status.Write(alerts.NewError(fmt.Sprintf("%s check failed", check.System)).WithError(check.Err))
		if first == nil {
			first = check.Err
		}
	}
	return first
}

// updateLibrary probes the library remote and refreshes the mirror. With
// --skip-library-update an existing mirror is used unchecked.
func updateLibrary(ctx context.Context, app application.Application, flags *Flags, status *alerts.Writer) error {
	mirror := app.Mirror()
	if flags.SkipLibraryUpdate {
		if !mirror.Exists() {
			err := errors.NewNotFoundError("library mirror", mirror.Path)
			_ = status.Write(alerts.NewError("Device-type library not cloned").WithError(err))
			return err
		}
		_ = status.Write(alerts.NewInfo("Using device-type library as is").WithDetails(mirror.Path))
		return nil
	}

	if err := mirror.Reachable(ctx); err != nil {
		_ = status.Write(alerts.NewError("Device-type library unreachable").WithError(err))
		return err
	}
	if err := mirror.Sync(ctx); err != nil {
		_ = status.Write(alerts.NewError("Device-type library update failed").WithError(err))
		return err
	}
	_ = status.Write(alerts.NewSuccess("Device-type library up to date").WithDetails(mirror.Path))
	return nil
}

// printResult writes the summary table (or JSON/YAML) to stdout and the
// threshold advice to stderr.
func printResult(stdout io.Writer, status *alerts.Writer, format string, result *gosync.Result) error {
	if err := output.Print(stdout, format, result, func(wide bool) table.Data {
		return table.ResultToTableData(result, wide)
	}); err != nil {
		return err
	}

	for _, c := range result.Ran() {
		threshold := gosync.Threshold(c)
		if threshold == "" {
			continue
		}
		stats := result.Categories[c]
		level := alerts.LevelInfo
		if stats.Recommendation() != importer.KeepThreshold {
			level = alerts.LevelWarning
		}
		_ = status.Write(alerts.New(level, fmt.Sprintf("%s: %s", c, stats.Advice(threshold))))
	}

	summary := alerts.NewSuccess(result.Summary())
	if result.HasFailures() {
		summary = alerts.NewWarning(result.Summary())
	}
	if result.ReportDir != "" {
		summary.WithDetails("reports: " + result.ReportDir)
	}
	return status.Write(summary)
}
