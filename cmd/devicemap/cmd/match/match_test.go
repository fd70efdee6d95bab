package match

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/devicemap"
	"github.com/agentstation/devicemap/cmd/application"
	"github.com/agentstation/devicemap/pkg/library"
	"github.com/agentstation/devicemap/pkg/resolver"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func testApp(t *testing.T, format string) *application.Mock {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "device-types", "Cisco", "c3850-24.yaml"),
		"manufacturer: Cisco\nmodel: C3850-24\nslug: cisco-c3850-24\n")
	writeFile(t, filepath.Join(root, "device-types", "Juniper", "ex4300-48t.yaml"),
		"manufacturer: Juniper\nmodel: EX4300-48T\nslug: juniper-ex4300-48t\n")
	writeFile(t, filepath.Join(root, "module-types", "Cisco", "PWR-C1-350WAC.yaml"),
		"manufacturer: Cisco\nmodel: PWR-C1-350WAC\npower-ports:\n  - name: PS\n")

	return &application.Mock{
		LibraryFunc: func() (*library.Library, error) {
			return library.Open(root)
		},
		ThresholdsFunc: func() devicemap.Thresholds {
			return devicemap.Thresholds{Vendor: 0.5, Model: 0.75, Module: 0.8, Image: 0.8}
		},
		OutputFormatFunc: func() string { return format },
	}
}

func TestVendor(t *testing.T) {
	app := testApp(t, "table")

	d, err := Vendor(app, &Flags{}, "Cisco Systems")
	require.NoError(t, err)
	assert.True(t, d.Vendor.Matched)
	assert.Equal(t, "Cisco", d.Vendor.Vendor)
	assert.InDelta(t, 0.556, d.Vendor.Score, 0.001)
	assert.Nil(t, d.Result)

	d, err = Vendor(app, &Flags{Threshold: 0.6}, "Cisco Systems")
	require.NoError(t, err)
	assert.False(t, d.Vendor.Matched)
	assert.Equal(t, "Cisco Systems", d.Vendor.Vendor)
}

func TestModel(t *testing.T) {
	app := testApp(t, "table")

	t.Run("direct match", func(t *testing.T) {
		d, err := Model(app, &Flags{}, "Cisco Systems", "WS-C3850-24")
		require.NoError(t, err)
		require.NotNil(t, d.Result)
		assert.True(t, d.Result.Matched)
		assert.Equal(t, resolver.StageDirect, d.Result.Stage)
		assert.Equal(t, "c3850-24", d.Result.Entry.BaseName)
		assert.InDelta(t, 0.842, d.Result.Score, 0.001)
	})

	t.Run("threshold override records every stage", func(t *testing.T) {
		d, err := Model(app, &Flags{Threshold: 0.9}, "Cisco Systems", "WS-C3850-24")
		require.NoError(t, err)
		assert.False(t, d.Result.Matched)
		require.Len(t, d.Result.Attempts, 2)
		assert.Equal(t, resolver.StageVendorModel, d.Result.Attempts[1].Stage)
		assert.Equal(t, "cisco systems-ws-c3850-24", d.Result.Attempts[1].Query)
		assert.Equal(t, "c3850-24", d.Result.Attempts[1].Candidate)
		assert.InDelta(t, 0.485, d.Result.Attempts[1].Score, 0.001)
	})

	t.Run("family and platform stages", func(t *testing.T) {
		d, err := Model(app, &Flags{Threshold: 0.99, Family: "c3850", Platform: "cat3k"}, "Cisco", "zzz-1")
		require.NoError(t, err)
		require.Len(t, d.Result.Attempts, 4)
		assert.Equal(t, "cat3k-zzz-1", d.Result.Attempts[3].Query)
	})

	t.Run("unknown vendor has no entries", func(t *testing.T) {
		d, err := Model(app, &Flags{}, "Nobody", "X1")
		require.NoError(t, err)
		assert.False(t, d.Vendor.Matched)
		assert.False(t, d.Result.Matched)
		assert.Empty(t, d.Result.Attempts[0].Candidate)
	})
}

func TestModule(t *testing.T) {
	app := testApp(t, "table")

	d, err := Module(app, &Flags{}, "Cisco Systems", "PWR-C1-715WAC")
	require.NoError(t, err)
	require.True(t, d.Result.Matched)
	assert.Equal(t, "pwr-c1-350wac", d.Result.Entry.BaseName)
	assert.Equal(t, "Power supply", d.Profile)

	d, err = Module(app, &Flags{}, "Cisco Systems", "SFP-10G-SR")
	require.NoError(t, err)
	assert.False(t, d.Result.Matched)
	assert.Empty(t, d.Profile)
}

func TestPrint(t *testing.T) {
	app := testApp(t, "table")
	d, err := Module(app, &Flags{}, "Cisco Systems", "PWR-C1-715WAC")
	require.NoError(t, err)

	t.Run("table", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Print(&buf, "table", d))
		out := buf.String()
		assert.Contains(t, out, "Cisco Systems")
		assert.Contains(t, out, "pwr-c1-715wac")
		assert.Contains(t, out, "0.85")
		assert.Contains(t, out, "Power supply")
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Print(&buf, "json", d))
		var decoded map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
		assert.Equal(t, "Power supply", decoded["profile"])
		assert.Equal(t, "Cisco", decoded["vendor"].(map[string]any)["vendor"])
	})

	t.Run("invalid format", func(t *testing.T) {
		assert.Error(t, Print(&bytes.Buffer{}, "xml", d))
	})
}

func TestCommand(t *testing.T) {
	app := testApp(t, "json")
	cmd := NewCommand(app)

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"model", "--family", "c3850", "Cisco", "WS-C3850-24"})
	require.NoError(t, cmd.Execute())

	var d Diagnosis
	require.NoError(t, json.Unmarshal(out.Bytes(), &d))
	require.NotNil(t, d.Result)
	assert.True(t, d.Result.Matched)
	assert.Equal(t, "c3850", d.Result.Asset.Family)

	cmd.SetArgs([]string{"vendor"})
	assert.Error(t, cmd.Execute())
}
