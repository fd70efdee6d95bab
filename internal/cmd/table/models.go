// Package table converts devicemap results into rows for table output.
package table

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/agentstation/devicemap/internal/cmd/emoji"
	"github.com/agentstation/devicemap/pkg/library"
	"github.com/agentstation/devicemap/pkg/resolver"
	"github.com/agentstation/devicemap/pkg/sync"
)

// Align represents column alignment in tables.
type Align int

const (
	// AlignDefault uses the default alignment (skip).
	AlignDefault Align = iota
	// AlignLeft aligns content to the left.
	AlignLeft
	// AlignCenter centers content.
	AlignCenter
	// AlignRight aligns content to the right.
	AlignRight
)

// Data represents table formatting data to avoid import cycles.
type Data struct {
	Headers         []string
	Rows            [][]string
	ColumnAlignment []Align // Optional: column alignment
}

// ResultToTableData converts a run result to one row per category plus a
// total row. Wide output adds component and image counters.
func ResultToTableData(result *sync.Result, wide bool) Data {
	headers := []string{"Category", "Processed", "Created", "Existing", "Duplicates", "No Matches", "Failed", "Advice"}
	if wide {
		headers = append(headers, "Resolved", "Components", "Component Errors", "Images")
	}

	rows := make([][]string, 0, len(result.Categories)+1)
	for _, c := range result.Ran() {
		s := result.Categories[c]
		advice := "-"
		if sync.Threshold(c) != "" {
			advice = s.Recommendation().String()
		}
		row := []string{
			Title(string(c)),
			strconv.Itoa(s.Processed),
			strconv.Itoa(s.Created),
			strconv.Itoa(s.Existing),
			strconv.Itoa(s.Duplicates),
			strconv.Itoa(s.NoMatches),
			strconv.Itoa(s.Failed),
			advice,
		}
		if wide {
			row = append(row,
				strconv.Itoa(s.Resolved),
				strconv.Itoa(s.Components),
				strconv.Itoa(s.ComponentErrors),
				strconv.Itoa(s.ImagesAttached),
			)
		}
		rows = append(rows, row)
	}

	t := result.Totals()
	total := []string{
		"Total",
		strconv.Itoa(t.Processed),
		strconv.Itoa(t.Created),
		strconv.Itoa(t.Existing),
		strconv.Itoa(t.Duplicates),
		strconv.Itoa(t.NoMatches),
		strconv.Itoa(t.Failed),
		"",
	}
	if wide {
		total = append(total,
			strconv.Itoa(t.Resolved),
			strconv.Itoa(t.Components),
			strconv.Itoa(t.ComponentErrors),
			strconv.Itoa(t.ImagesAttached),
		)
	}
	rows = append(rows, total)

	alignment := []Align{AlignLeft}
	for i := 1; i < len(headers); i++ {
		alignment = append(alignment, AlignRight)
	}
	alignment[7] = AlignLeft

	return Data{
		Headers:         headers,
		Rows:            rows,
		ColumnAlignment: alignment,
	}
}

// AttemptsToTableData lists each evaluated stage of a resolution.
func AttemptsToTableData(res resolver.Result) Data {
	rows := make([][]string, 0, len(res.Attempts))
	for _, a := range res.Attempts {
		rows = append(rows, []string{
			a.Stage.String(),
			a.Query,
			dash(a.Candidate),
			FormatScore(a.Score),
			Status(a.Matched),
		})
	}
	return Data{
		Headers:         []string{"Stage", "Query", "Candidate", "Score", "Match"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignLeft, AlignLeft, AlignLeft, AlignRight, AlignCenter},
	}
}

// VendorMatchToTableData shows one vendor lookup.
func VendorMatchToTableData(vm resolver.VendorMatch) Data {
	return Data{
		Headers: []string{"Discovered", "Library Vendor", "Score", "Match"},
		Rows: [][]string{{
			vm.Input,
			vm.Vendor,
			FormatScore(vm.Score),
			Status(vm.Matched),
		}},
		ColumnAlignment: []Align{AlignLeft, AlignLeft, AlignRight, AlignCenter},
	}
}

// EntriesToTableData lists library entries of one vendor.
func EntriesToTableData(entries []library.Entry) Data {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{e.BaseName, e.Vendor, e.File})
	}
	return Data{
		Headers: []string{"Name", "Vendor", "File"},
		Rows:    rows,
	}
}

// VendorsToTableData lists library vendor directories with their entry counts.
func VendorsToTableData(vendors []string, counts map[string]int) Data {
	rows := make([][]string, 0, len(vendors))
	for _, v := range vendors {
		rows = append(rows, []string{v, strconv.Itoa(counts[v])})
	}
	return Data{
		Headers:         []string{"Vendor", "Templates"},
		Rows:            rows,
		ColumnAlignment: []Align{AlignLeft, AlignRight},
	}
}

// FormatScore renders a similarity score with two decimals.
func FormatScore(score float64) string {
	return fmt.Sprintf("%.2f", score)
}

// Status renders a match flag as a symbol.
func Status(ok bool) string {
	if ok {
		return emoji.Success
	}
	return emoji.Error
}

// Title turns a snake_case key into a title ("no_matches" -> "No Matches").
func Title(key string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(key, "_", " "))
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
