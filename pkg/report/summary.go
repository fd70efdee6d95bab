package report

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	md "github.com/nao1215/markdown"

	"github.com/agentstation/devicemap/pkg/constants"
	"github.com/agentstation/devicemap/pkg/errors"
)

// SummaryFile is the file name of the markdown run summary.
const SummaryFile = "summary.md"

// Summary is the per-category outcome of a run.
type Summary struct {
	RunID   string
	Started time.Time
	DryRun  bool
	Rows    []SummaryRow
}

// SummaryRow holds the counters of one category.
type SummaryRow struct {
	Category   string
	Processed  int
	Created    int
	Existing   int
	Duplicates int
	NoMatches  int
	Failed     int
}

// WriteSummary renders s as markdown into runDir, listing the CSV tables
// the recorder produced alongside it.
func (r *Recorder) WriteSummary(runDir string, s Summary) error {
	path := filepath.Join(runDir, SummaryFile)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, constants.FilePermissions)
	if err != nil {
		return errors.WrapIO("create", path, err)
	}
	defer f.Close()

	doc := md.NewMarkdown(f).
		H1("Devicemap run "+s.RunID).LF().
		PlainTextf("Started %s", s.Started.UTC().Format(time.RFC3339)).LF()
	if s.DryRun {
		doc.PlainText(md.Bold("Dry run: nothing was created in NetBox.")).LF()
	}

	rows := make([][]string, 0, len(s.Rows))
	for _, row := range s.Rows {
		rows = append(rows, []string{
			row.Category,
			strconv.Itoa(row.Processed),
			strconv.Itoa(row.Created),
			strconv.Itoa(row.Existing),
			strconv.Itoa(row.Duplicates),
			strconv.Itoa(row.NoMatches),
			strconv.Itoa(row.Failed),
		})
	}
	doc.H2("Categories").LF().Table(md.TableSet{
		Header: []string{"Category", "Processed", "Created", "Existing", "Duplicates", "No Matches", "Failed"},
		Rows:   rows,
	})

	if files := r.files(); len(files) > 0 {
		doc.H2("Reports").LF().BulletList(files...)
	}

	if err := doc.Build(); err != nil {
		return errors.WrapIO("write", path, err)
	}
	return nil
}

// files lists the CSV file names of the non-empty tables.
func (r *Recorder) files() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []string
	for _, t := range Tables {
		if len(r.rows[t]) > 0 {
			out = append(out, t.FileName())
		}
	}
	return out
}
