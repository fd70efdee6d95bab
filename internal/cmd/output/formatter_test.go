package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/devicemap/internal/cmd/table"
	"github.com/agentstation/devicemap/pkg/errors"
)

type record struct {
	Name  string  `json:"name" yaml:"name"`
	Score float64 `json:"score" yaml:"score"`
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", "", false},
		{"JSON", FormatJSON, false},
		{"yaml", FormatYAML, false},
		{"wide", FormatWide, false},
		{"table", FormatTable, false},
		{"CSV", FormatCSV, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.True(t, errors.IsValidationError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestJSONAndYAML(t *testing.T) {
	data := []record{{Name: "c3850-24", Score: 0.84}}

	var buf bytes.Buffer
	require.NoError(t, NewFormatter(FormatJSON).Format(&buf, data))
	want := "[\n  {\n    \"name\": \"c3850-24\",\n    \"score\": 0.84\n  }\n]\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("json mismatch (-want +got):\n%s", diff)
	}

	buf.Reset()
	require.NoError(t, NewFormatter(FormatYAML).Format(&buf, data))
	want = "- name: c3850-24\n  score: 0.84\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("yaml mismatch (-want +got):\n%s", diff)
	}
}

func TestTableFormatter(t *testing.T) {
	data := table.Data{
		Headers:         []string{"Vendor", "Templates"},
		Rows:            [][]string{{"Cisco", "12"}, {"Juniper", "3"}},
		ColumnAlignment: []table.Align{table.AlignLeft, table.AlignRight},
	}

	var buf bytes.Buffer
	require.NoError(t, NewFormatter(FormatTable).Format(&buf, data))
	out := buf.String()
	assert.Contains(t, out, "Cisco")
	assert.Contains(t, out, "Juniper")
	assert.Contains(t, strings.ToUpper(out), "TEMPLATES")

	buf.Reset()
	require.NoError(t, NewFormatter(FormatTable).Format(&buf, record{Name: "x"}))
	assert.Contains(t, buf.String(), `"name": "x"`)
}

func TestPrint(t *testing.T) {
	raw := []record{{Name: "c3850-24"}}
	toTable := func(wide bool) table.Data {
		header := "Name"
		if wide {
			header = "Wide Name"
		}
		return table.Data{Headers: []string{header}, Rows: [][]string{{raw[0].Name}}}
	}

	var buf bytes.Buffer
	require.NoError(t, Print(&buf, "wide", raw, toTable))
	assert.Contains(t, strings.ToUpper(buf.String()), "WIDE NAME")

	buf.Reset()
	require.NoError(t, Print(&buf, "json", raw, toTable))
	assert.Contains(t, buf.String(), `"name": "c3850-24"`)

	buf.Reset()
	require.NoError(t, Print(&buf, "csv", raw, toTable))
	if diff := cmp.Diff("Name\nc3850-24\n", buf.String()); diff != "" {
		t.Errorf("csv mismatch (-want +got):\n%s", diff)
	}

	assert.Error(t, Print(&buf, "xml", raw, toTable))
}

func TestCSVFormatterQuotes(t *testing.T) {
	data := &table.Data{
		Headers: []string{"vendor", "detail"},
		Rows:    [][]string{{"Cisco", "already exists, skipped"}},
	}

	var buf bytes.Buffer
	require.NoError(t, NewFormatter(FormatCSV).Format(&buf, data))
	want := "vendor,detail\nCisco,\"already exists, skipped\"\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("csv mismatch (-want +got):\n%s", diff)
	}
}
