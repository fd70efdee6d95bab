package sync

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/devicemap"
	gosync "github.com/agentstation/devicemap/pkg/sync"
)

// Flags holds the sync command flags.
type Flags struct {
	Categories        string
	DryRun            bool
	Images            bool
	SkipLibraryUpdate bool
	ReportDir         string
	MetricsFile       string
	NoDiagnostics     bool

	// NoColor mirrors the root --no-color flag.
	NoColor bool
}

func addFlags(cmd *cobra.Command, flags *Flags) {
	cmd.Flags().StringVar(&flags.Categories, "categories", "",
		"comma separated categories (manufacturers, devices, modules, sites, roles, platforms) or all")
	cmd.Flags().BoolVar(&flags.DryRun, "dry-run", false, "resolve and report without writing to NetBox")
	cmd.Flags().BoolVar(&flags.Images, "images", false, "attach elevation images to device types created in this run")
	cmd.Flags().BoolVar(&flags.SkipLibraryUpdate, "skip-library-update", false, "use the local library mirror as is")
	cmd.Flags().StringVar(&flags.ReportDir, "report-dir", "", "directory for the run's CSV reports (overrides report.dir)")
	cmd.Flags().StringVar(&flags.MetricsFile, "metrics-file", "", "write Prometheus metrics to this textfile (overrides metrics.textfile)")
	cmd.Flags().BoolVar(&flags.NoDiagnostics, "no-diagnostics", false, "leave the closest near-miss candidate out of failed match attempts")
}

// syncOptions builds the run options from the flags.
func (f *Flags) syncOptions() ([]gosync.Option, error) {
	categories, err := gosync.ParseCategories(f.Categories)
	if err != nil {
		return nil, err
	}
	return []gosync.Option{
		gosync.WithCategories(categories...),
		gosync.WithDryRun(f.DryRun),
		gosync.WithImages(f.Images),
	}, nil
}

// devicemapOptions returns overrides of the configured importer options.
func (f *Flags) devicemapOptions() []devicemap.Option {
	var opts []devicemap.Option
	if f.ReportDir != "" {
		opts = append(opts, devicemap.WithReportDir(f.ReportDir))
	}
	if f.MetricsFile != "" {
		opts = append(opts, devicemap.WithMetricsFile(f.MetricsFile))
	}
	if f.NoDiagnostics {
		opts = append(opts, devicemap.WithDiagnostics(false))
	}
	return opts
}
