// Package output renders command results as tables, CSV, JSON or YAML.
package output

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/mattn/go-isatty"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/agentstation/devicemap/internal/cmd/table"
	"github.com/agentstation/devicemap/pkg/errors"
)

// Format names an output format.
type Format string

const (
	FormatTable Format = "table"
	FormatWide  Format = "wide"
	FormatCSV   Format = "csv"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// Formats lists the accepted --format values.
var Formats = []Format{FormatTable, FormatWide, FormatCSV, FormatJSON, FormatYAML}

// Tabular reports whether f renders table.Data rather than the raw value.
func (f Format) Tabular() bool {
	switch f {
	case FormatTable, FormatWide, FormatCSV, "":
		return true
	}
	return false
}

// Formatter writes data to w.
type Formatter interface {
	Format(w io.Writer, data any) error
}

// NewFormatter returns the formatter for format; unknown formats render tables.
func NewFormatter(format Format) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{Indent: "  "}
	case FormatYAML:
		return &YAMLFormatter{}
	case FormatCSV:
		return &CSVFormatter{}
	default:
		return &TableFormatter{}
	}
}

// JSONFormatter writes indented JSON.
type JSONFormatter struct {
	Indent string
}

// Format implements Formatter.
func (f *JSONFormatter) Format(w io.Writer, data any) error {
	enc := json.NewEncoder(w)
	if f.Indent != "" {
		enc.SetIndent("", f.Indent)
	}
	return enc.Encode(data)
}

// YAMLFormatter writes YAML with two-space indentation.
type YAMLFormatter struct{}

// Format implements Formatter.
func (f *YAMLFormatter) Format(w io.Writer, data any) error {
	out, err := yaml.MarshalWithOptions(data, yaml.Indent(2), yaml.IndentSequence(false))
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}

// CSVFormatter writes table.Data as CSV with a header row, the same layout
// as the run reports. Other values fall back to JSON.
type CSVFormatter struct{}

// Format implements Formatter.
func (f *CSVFormatter) Format(w io.Writer, data any) error {
	d, ok := tableData(data)
	if !ok {
		return (&JSONFormatter{Indent: "  "}).Format(w, data)
	}
	cw := csv.NewWriter(w)
	if len(d.Headers) > 0 {
		if err := cw.Write(d.Headers); err != nil {
			return err
		}
	}
	if err := cw.WriteAll(d.Rows); err != nil {
		return err
	}
	return cw.Error()
}

// TableFormatter draws table.Data with tablewriter. Other values fall back to JSON.
type TableFormatter struct{}

// Format implements Formatter.
func (f *TableFormatter) Format(w io.Writer, data any) error {
	d, ok := tableData(data)
	if !ok {
		return (&JSONFormatter{Indent: "  "}).Format(w, data)
	}

	var config tablewriter.Config
	if align := alignment(d.ColumnAlignment); align != nil {
		config.Header.Alignment = tw.CellAlignment{PerColumn: align}
		config.Row.Alignment = tw.CellAlignment{PerColumn: align}
	}
	tbl := tablewriter.NewTable(w, tablewriter.WithConfig(config))

	if len(d.Headers) > 0 {
		tbl.Header(cells(d.Headers)...)
	}
	for _, row := range d.Rows {
		if err := tbl.Append(cells(row)...); err != nil {
			return err
		}
	}
	return tbl.Render()
}

func tableData(data any) (table.Data, bool) {
	switch v := data.(type) {
	case table.Data:
		return v, true
	case *table.Data:
		return *v, v != nil
	}
	return table.Data{}, false
}

func alignment(cols []table.Align) []tw.Align {
	if len(cols) == 0 {
		return nil
	}
	out := make([]tw.Align, len(cols))
	for i, a := range cols {
		switch a {
		case table.AlignLeft:
			out[i] = tw.AlignLeft
		case table.AlignCenter:
			out[i] = tw.AlignCenter
		case table.AlignRight:
			out[i] = tw.AlignRight
		default:
			out[i] = tw.Skip
		}
	}
	return out
}

func cells(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

// DetectFormat returns explicit when set. Otherwise terminals get tables and
// pipes get JSON.
func DetectFormat(explicit string) Format {
	if explicit != "" {
		return Format(strings.ToLower(explicit))
	}
	fd := os.Stdout.Fd()
	if isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd) {
		return FormatTable
	}
	return FormatJSON
}

// ParseFormat validates s. The empty string is accepted and means "detect".
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(s))
	if f == "" {
		return f, nil
	}
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", errors.NewValidationError("format", s, "must be one of table, wide, csv, json, yaml")
}

// Resolve parses s and falls back to DetectFormat when it is empty.
func Resolve(s string) (Format, error) {
	f, err := ParseFormat(s)
	if err != nil || f != "" {
		return f, err
	}
	return DetectFormat(""), nil
}
