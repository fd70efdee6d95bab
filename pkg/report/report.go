// Package report collects per-run mapping and error rows and writes them as
// CSV files into a timestamped run directory.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/agentstation/devicemap/pkg/constants"
	"github.com/agentstation/devicemap/pkg/errors"
	"github.com/agentstation/devicemap/pkg/inventory"
	"github.com/agentstation/devicemap/pkg/resolver"
)

// Table names one CSV file of a run report.
type Table string

const (
	VendorMapping   Table = "mappings_vendor"
	DeviceMapping   Table = "mappings_device"
	ModuleMapping   Table = "mappings_module"
	ImageMapping    Table = "mappings_image"
	MatchErrors     Table = "errors_match"
	ImportErrors    Table = "errors_import"
	ComponentErrors Table = "errors_components"
)

// Tables in write order.
var Tables = []Table{
	VendorMapping, DeviceMapping, ModuleMapping, ImageMapping,
	MatchErrors, ImportErrors, ComponentErrors,
}

var headers = map[Table][]string{
	VendorMapping:   {"discovered_vendor", "result", "library_vendor", "score"},
	DeviceMapping:   {"vendor", "model", "result", "library_match", "stage", "query", "score"},
	ModuleMapping:   {"vendor", "part_number", "result", "library_match", "stage", "query", "score"},
	ImageMapping:    {"slug", "side", "result", "image", "score"},
	MatchErrors:     {"kind", "vendor", "model", "closest", "score"},
	ImportErrors:    {"kind", "vendor", "template", "duplicate", "detail"},
	ComponentErrors: {"kind", "template", "detail"},
}

// FileName is the CSV file name of t.
func (t Table) FileName() string {
	return string(t) + ".csv"
}

// Header returns the column names of t.
func (t Table) Header() []string {
	return headers[t]
}

// Recorder gathers report rows in memory. It is safe for concurrent use.
type Recorder struct {
	mu   sync.Mutex
	rows map[Table][][]string
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{rows: make(map[Table][][]string)}
}

func (r *Recorder) add(t Table, row ...string) {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[t] = append(r.rows[t], row)
}

// Rows returns a copy of the rows recorded for t.
func (r *Recorder) Rows(t Table) [][]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([][]string, len(r.rows[t]))
	copy(out, r.rows[t])
	return out
}

// Len is the total number of recorded rows.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, rows := range r.rows {
		n += len(rows)
	}
	return n
}

// Vendor records a vendor resolution.
func (r *Recorder) Vendor(discovered, resolved string, score float64, matched bool) {
	r.add(VendorMapping, discovered, result(matched), resolved, formatScore(score))
}

// Resolution records a device or module resolution. An unmatched resolution
// is also recorded as a match error with the closest candidate seen.
func (r *Recorder) Resolution(res resolver.Result) {
	table := DeviceMapping
	if res.Asset.Kind == inventory.KindModule {
		table = ModuleMapping
	}

	match := ""
	if res.Entry != nil {
		match = res.Entry.File
	}
	r.add(table, res.Asset.Vendor, res.Asset.Model, result(res.Matched), match,
		res.Stage.String(), res.Query, formatScore(res.Score))

	if !res.Matched {
		closest, score := closestAttempt(res.Attempts)
		r.add(MatchErrors, res.Asset.Kind.String(), res.Asset.Vendor, res.Asset.Model, closest, formatScore(score))
	}
}

// Image records one elevation image lookup.
func (r *Recorder) Image(slug, side, image string, score float64, matched bool) {
	r.add(ImageMapping, slug, side, result(matched), image, formatScore(score))
}

// ImportError records a failed or duplicate create.
func (r *Recorder) ImportError(kind, vendor, template string, duplicate bool, detail string) {
	r.add(ImportErrors, kind, vendor, template, strconv.FormatBool(duplicate), detail)
}

// ComponentError records a component template that could not be created.
func (r *Recorder) ComponentError(kind, template, detail string) {
	r.add(ComponentErrors, kind, template, detail)
}

// Write creates "<dir>/<started as YYYYMMDD-HHMMSS>/" and one CSV per
// non-empty table, header first. It returns the run directory.
func (r *Recorder) Write(dir string, started time.Time) (string, error) {
	runDir := filepath.Join(dir, started.Format(constants.TimeFormatFilename))
	if err := os.MkdirAll(runDir, constants.DirPermissions); err != nil {
		return "", errors.WrapIO("create", runDir, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, t := range Tables {
		rows := r.rows[t]
		if len(rows) == 0 {
			continue
		}
		if err := writeCSV(filepath.Join(runDir, t.FileName()), t.Header(), rows); err != nil {
			return runDir, err
		}
	}
	return runDir, nil
}

func writeCSV(path string, header []string, rows [][]string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, constants.FilePermissions)
	if err != nil {
		return errors.WrapIO("create", path, err)
	}
	return encodeCSV(f, path, header, rows)
}

// encodeCSV writes header and rows to w and closes it. A failed close is
// reported like a failed write since the file may be incomplete.
func encodeCSV(w io.WriteCloser, path string, header []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	err := cw.Write(header)
	if err == nil {
		err = cw.WriteAll(rows)
	}
	if cerr := w.Close(); err == nil && cerr != nil {
		return errors.WrapIO("close", path, cerr)
	}
	if err != nil {
		return errors.WrapIO("write", path, err)
	}
	return nil
}

func result(matched bool) string {
	if matched {
		return "success"
	}
	return "fail"
}

func formatScore(score float64) string {
	return fmt.Sprintf("%.2f", score)
}

// closestAttempt picks the highest scoring candidate across attempts.
func closestAttempt(attempts []resolver.Attempt) (string, float64) {
	if len(attempts) == 0 {
		return "", 0
	}
	sorted := make([]resolver.Attempt, len(attempts))
	copy(sorted, attempts)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Score > sorted[j].Score })
	return sorted[0].Candidate, sorted[0].Score
}
