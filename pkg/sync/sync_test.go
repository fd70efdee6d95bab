package sync

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/devicemap/pkg/errors"
	"github.com/agentstation/devicemap/pkg/importer"
)

func TestParseCategories(t *testing.T) {
	tests := []struct {
		in   string
		want []Category
		err  bool
	}{
		{in: "", want: nil},
		{in: "devices", want: []Category{Devices}},
		{in: " Devices , modules ", want: []Category{Devices, Modules}},
		{in: "all", want: Order},
		{in: "devices,,sites", want: []Category{Devices, Sites}},
		{in: "cables", err: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCategories(tt.in)
			if tt.err {
				require.Error(t, err)
				assert.True(t, errors.IsValidationError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOptionsPlanned(t *testing.T) {
	assert.Equal(t, DefaultCategories, Defaults().Planned())

	opts := Defaults().Apply(WithCategories(Platforms, Devices, Manufacturers))
	assert.Equal(t, []Category{Manufacturers, Devices, Platforms}, opts.Planned())
	assert.False(t, opts.Enabled(Modules))
}

func TestOptionsValidate(t *testing.T) {
	assert.NoError(t, Defaults().Apply(WithDryRun(true), WithImages(true)).Validate())
	assert.Error(t, Defaults().Apply(WithTimeout(-time.Second)).Validate())
	assert.Error(t, Defaults().Apply(WithCategories("cables")).Validate())
}

func TestResult(t *testing.T) {
	r := NewResult("run", time.Now(), true)
	r.Stats(Modules).Created = 2
	r.Stats(Devices).Created = 1
	r.Stats(Devices).Duplicates = 3
	r.Stats(Devices).NoMatches = 1

	assert.Equal(t, []Category{Devices, Modules}, r.Ran())
	assert.Equal(t, importer.Stats{Created: 3, Duplicates: 3, NoMatches: 1}, r.Totals())
	assert.False(t, r.HasFailures())
	assert.Equal(t, "3 created, 3 duplicates, 1 no-matches, 0 failed across 2 categories (Dry run)", r.Summary())

	r.Stats(Sites).Failed = 1
	assert.True(t, r.HasFailures())
}

func TestThreshold(t *testing.T) {
	assert.Equal(t, "thresholds.model", Threshold(Devices))
	assert.Equal(t, "thresholds.module", Threshold(Modules))
	assert.Equal(t, "thresholds.vendor", Threshold(Manufacturers))
	assert.Empty(t, Threshold(Sites))
}
