package sync

import (
	"fmt"
	"strings"
	"time"

	"github.com/agentstation/devicemap/pkg/importer"
)

// Result is the outcome of one import run.
type Result struct {
	RunID      string                       `json:"run_id" yaml:"run_id"`
	Started    time.Time                    `json:"started" yaml:"started"`
	Duration   time.Duration                `json:"duration" yaml:"duration"`
	DryRun     bool                         `json:"dry_run" yaml:"dry_run"`
	Categories map[Category]*importer.Stats `json:"categories" yaml:"categories"`
	ReportDir  string                       `json:"report_dir,omitempty" yaml:"report_dir,omitempty"`
}

// NewResult returns an empty Result for runID.
func NewResult(runID string, started time.Time, dryRun bool) *Result {
	return &Result{
		RunID:      runID,
		Started:    started,
		DryRun:     dryRun,
		Categories: make(map[Category]*importer.Stats),
	}
}

// Stats returns the stats of c, creating them on first use.
func (r *Result) Stats(c Category) *importer.Stats {
	s, ok := r.Categories[c]
	if !ok {
		s = &importer.Stats{}
		r.Categories[c] = s
	}
	return s
}

// Ran lists the categories with stats, in execution order.
func (r *Result) Ran() []Category {
	var out []Category
	for _, c := range Order {
		if _, ok := r.Categories[c]; ok {
			out = append(out, c)
		}
	}
	return out
}

// Totals sums the stats of every category.
func (r *Result) Totals() importer.Stats {
	var total importer.Stats
	for _, s := range r.Categories {
		total.Add(*s)
	}
	return total
}

// HasFailures reports whether any create failed outright.
func (r *Result) HasFailures() bool {
	t := r.Totals()
	return t.Failed > 0 || t.ComponentErrors > 0
}

// Summary returns a one line human-readable summary.
func (r *Result) Summary() string {
	t := r.Totals()
	summary := fmt.Sprintf("%d created, %d duplicates, %d no-matches, %d failed across %d categories",
		t.Created, t.Duplicates, t.NoMatches, t.Failed, len(r.Categories))

	var flags []string
	if r.DryRun {
		flags = append(flags, "(Dry run)")
	}
	if len(flags) > 0 {
		summary += " " + strings.Join(flags, " ")
	}
	return summary
}

// Threshold names the configuration key that tunes matching for c.
func Threshold(c Category) string {
	switch c {
	case Manufacturers:
		return "thresholds.vendor"
	case Devices:
		return "thresholds.model"
	case Modules:
		return "thresholds.module"
	default:
		return ""
	}
}
