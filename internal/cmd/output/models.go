package output

import (
	"io"

	"github.com/agentstation/devicemap/internal/cmd/table"
)

// Print writes raw as JSON or YAML, or the table built from it for tabular
// formats. toTable receives whether wide output was requested.
func Print(w io.Writer, format string, raw any, toTable func(wide bool) table.Data) error {
	f, err := Resolve(format)
	if err != nil {
		return err
	}
	if f.Tabular() {
		return NewFormatter(f).Format(w, toTable(f == FormatWide))
	}
	return NewFormatter(f).Format(w, raw)
}
