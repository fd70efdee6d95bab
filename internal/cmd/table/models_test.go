package table

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/devicemap/internal/cmd/emoji"
	"github.com/agentstation/devicemap/pkg/importer"
	"github.com/agentstation/devicemap/pkg/inventory"
	"github.com/agentstation/devicemap/pkg/library"
	"github.com/agentstation/devicemap/pkg/resolver"
	"github.com/agentstation/devicemap/pkg/sync"
)

func TestResultToTableData(t *testing.T) {
	result := sync.NewResult("run", time.Now(), false)
	*result.Stats(sync.Sites) = importer.Stats{Processed: 2, Created: 2}
	*result.Stats(sync.Manufacturers) = importer.Stats{Processed: 3, Created: 1, Existing: 2}
	*result.Stats(sync.Devices) = importer.Stats{Processed: 4, Resolved: 3, NoMatches: 1, Created: 1, Duplicates: 2, Components: 7, ImagesAttached: 1}

	data := ResultToTableData(result, false)
	want := [][]string{
		{"Manufacturers", "3", "1", "2", "0", "0", "0", "keep"},
		{"Devices", "4", "1", "0", "2", "1", "0", "raise"},
		{"Sites", "2", "2", "0", "0", "0", "0", "-"},
		{"Total", "9", "4", "2", "2", "1", "0", ""},
	}
	if diff := cmp.Diff(want, data.Rows); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
	assert.Len(t, data.ColumnAlignment, len(data.Headers))
	assert.Equal(t, AlignLeft, data.ColumnAlignment[7])

	wide := ResultToTableData(result, true)
	require.Len(t, wide.Headers, 12)
	assert.Equal(t, []string{"3", "7", "0", "1"}, wide.Rows[1][8:])
	assert.Equal(t, []string{"3", "7", "0", "1"}, wide.Rows[3][8:])
}

func TestAttemptsToTableData(t *testing.T) {
	res := resolver.Result{
		Asset: inventory.Asset{Vendor: "Cisco", Model: "WS-C3850-24"},
		Attempts: []resolver.Attempt{
			{Stage: resolver.StageDirect, Query: "ws-c3850-24", Candidate: "c3850-24", Score: 0.8421},
			{Stage: resolver.StageVendorModel, Query: "cisco-ws-c3850-24", Score: 0},
		},
	}

	data := AttemptsToTableData(res)
	want := [][]string{
		{"direct", "ws-c3850-24", "c3850-24", "0.84", emoji.Error},
		{"vendor-model", "cisco-ws-c3850-24", "-", "0.00", emoji.Error},
	}
	if diff := cmp.Diff(want, data.Rows); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestVendorAndEntries(t *testing.T) {
	vm := VendorMatchToTableData(resolver.VendorMatch{Input: "Cisco Systems", Vendor: "Cisco", Matched: true, Score: 0.5555})
	assert.Equal(t, [][]string{{"Cisco Systems", "Cisco", "0.56", emoji.Success}}, vm.Rows)

	entries := EntriesToTableData([]library.Entry{{Vendor: "Cisco", File: "c3850-24.yaml", BaseName: "c3850-24"}})
	assert.Equal(t, [][]string{{"c3850-24", "Cisco", "c3850-24.yaml"}}, entries.Rows)

	vendors := VendorsToTableData([]string{"Cisco", "Juniper"}, map[string]int{"Cisco": 2})
	assert.Equal(t, [][]string{{"Cisco", "2"}, {"Juniper", "0"}}, vendors.Rows)
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "No Matches", Title("no_matches"))
	assert.Equal(t, "Platforms", Title("platforms"))
}
