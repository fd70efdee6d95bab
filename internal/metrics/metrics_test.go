package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorObserve(t *testing.T) {
	c := New("run-1")
	c.Observe("devices", Counts{Resolved: 3, NoMatches: 1, Created: 2, Duplicates: 1, Components: 12, ComponentErrors: 1})
	c.Observe("devices", Counts{Created: 1})

	families, err := c.Registry().Gather()
	require.NoError(t, err)

	values := map[string]float64{}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			key := mf.GetName()
			for _, l := range m.GetLabel() {
				if l.GetName() == "run_id" {
					assert.Equal(t, "run-1", l.GetValue())
					continue
				}
				key += "|" + l.GetValue()
			}
			if m.GetCounter() != nil {
				values[key] = m.GetCounter().GetValue()
			}
		}
	}

	assert.Equal(t, 3.0, values[MetricOutcomesTotal+"|devices|created"])
	assert.Equal(t, 1.0, values[MetricOutcomesTotal+"|devices|duplicate"])
	assert.Equal(t, 1.0, values[MetricOutcomesTotal+"|devices|no_match"])
	assert.Equal(t, 12.0, values[MetricComponentsTotal+"|devices|created"])
	assert.Equal(t, 1.0, values[MetricComponentsTotal+"|devices|failed"])
	_, hasFailed := values[MetricOutcomesTotal+"|devices|failed"]
	assert.False(t, hasFailed)
}

func TestCollectorWriteTextfile(t *testing.T) {
	c := New("run-2")
	c.Observe("modules", Counts{Created: 4})
	c.Finish(90*time.Second, time.Unix(1700000000, 0))

	path := filepath.Join(t.TempDir(), "devicemap.prom")
	require.NoError(t, c.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, `devicemap_outcomes_total{category="modules",outcome="created",run_id="run-2"} 4`)
	assert.Contains(t, text, `devicemap_run_duration_seconds{run_id="run-2"} 90`)
	assert.Contains(t, text, "# HELP devicemap_last_run_timestamp_seconds")
}

func TestCollectorWriteTextfileBadPath(t *testing.T) {
	c := New("run-3")
	err := c.WriteTextfile(filepath.Join(t.TempDir(), "missing", "devicemap.prom"))
	assert.Error(t, err)
}

func TestNilCollector(t *testing.T) {
	var c *Collector
	assert.NotPanics(t, func() {
		c.Observe("devices", Counts{Created: 1})
		c.Finish(time.Second, time.Now())
	})
}
