package library

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/devicemap/cmd/application"
	devicelib "github.com/agentstation/devicemap/pkg/library"
)

func testApp(t *testing.T, format string) *application.Mock {
	t.Helper()
	root := t.TempDir()
	for _, file := range []string{
		"device-types/Cisco/c3850-24.yaml",
		"device-types/Cisco/c9300-48p.yaml",
		"device-types/Juniper/ex4300-48t.yml",
		"device-types/Juniper/README.md",
		"module-types/Cisco/PWR-C1-350WAC.yaml",
	} {
		path := filepath.Join(root, file)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("model: x\n"), 0o600))
	}
	return &application.Mock{
		LibraryFunc:      func() (*devicelib.Library, error) { return devicelib.Open(root) },
		OutputFormatFunc: func() string { return format },
	}
}

func run(t *testing.T, app application.Application, args ...string) (string, error) {
	t.Helper()
	cmd := NewCommand(app)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVendors(t *testing.T) {
	out, err := run(t, testApp(t, "json"), "vendors")
	require.NoError(t, err)

	var counts map[string]int
	require.NoError(t, json.Unmarshal([]byte(out), &counts))
	assert.Equal(t, map[string]int{"Cisco": 2, "Juniper": 1}, counts)

	out, err = run(t, testApp(t, "json"), "vendors", "--modules")
	require.NoError(t, err)
	var moduleCounts map[string]int
	require.NoError(t, json.Unmarshal([]byte(out), &moduleCounts))
	assert.Equal(t, map[string]int{"Cisco": 1}, moduleCounts)
}

func TestLs(t *testing.T) {
	out, err := run(t, testApp(t, "table"), "ls", "Cisco")
	require.NoError(t, err)
	assert.Contains(t, out, "c3850-24")
	assert.Contains(t, out, "c9300-48p.yaml")

	out, err = run(t, testApp(t, "table"), "ls", "Cisco", "--modules")
	require.NoError(t, err)
	assert.Contains(t, out, "pwr-c1-350wac")

	_, err = run(t, testApp(t, "table"), "ls", "Arista")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listing Arista")
}
