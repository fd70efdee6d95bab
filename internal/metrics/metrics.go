// Package metrics exposes per-run import counters as Prometheus metrics and
// writes them in the node-exporter textfile format.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/agentstation/devicemap/pkg/errors"
)

// Metric names.
const (
	MetricOutcomesTotal      = "devicemap_outcomes_total"
	MetricComponentsTotal    = "devicemap_components_total"
	MetricRunDurationSeconds = "devicemap_run_duration_seconds"
	MetricLastRunTimestamp   = "devicemap_last_run_timestamp_seconds"
)

// Outcome labels.
const (
	OutcomeResolved      = "resolved"
	OutcomeNoMatch       = "no_match"
	OutcomeCreated       = "created"
	OutcomeDuplicate     = "duplicate"
	OutcomeFailed        = "failed"
	OutcomeImageAttached = "image_attached"
	componentCreated     = "created"
	componentFailed      = "failed"
)

// Counts is the per-category view the collector needs. importer.Stats
// satisfies it through the pipeline's adapter.
type Counts struct {
	Resolved        int
	NoMatches       int
	Created         int
	Duplicates      int
	Failed          int
	Components      int
	ComponentErrors int
	ImagesAttached  int
}

// Collector holds the run's metrics in a private registry.
//
// Thread Safety: Safe for concurrent use by multiple goroutines.
type Collector struct {
	mu       sync.Mutex
	registry *prometheus.Registry

	outcomes   *prometheus.CounterVec
	components *prometheus.CounterVec
	duration   prometheus.Gauge
	lastRun    prometheus.Gauge
}

// New returns a Collector whose metrics carry the run_id constant label.
func New(runID string) *Collector {
	labels := prometheus.Labels{"run_id": runID}
	c := &Collector{
		registry: prometheus.NewRegistry(),
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        MetricOutcomesTotal,
			Help:        "Import outcomes by category.",
			ConstLabels: labels,
		}, []string{"category", "outcome"}),
		components: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        MetricComponentsTotal,
			Help:        "Component templates by category and result.",
			ConstLabels: labels,
		}, []string{"category", "result"}),
		duration: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        MetricRunDurationSeconds,
			Help:        "Wall time of the last run in seconds.",
			ConstLabels: labels,
		}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:        MetricLastRunTimestamp,
			Help:        "Unix time the last run finished.",
			ConstLabels: labels,
		}),
	}
	c.registry.MustRegister(c.outcomes, c.components, c.duration, c.lastRun)
	return c
}

// Registry returns the private registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Observe adds one category's counts.
func (c *Collector) Observe(category string, n Counts) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	add := func(outcome string, v int) {
		if v > 0 {
			c.outcomes.WithLabelValues(category, outcome).Add(float64(v))
		}
	}
	add(OutcomeResolved, n.Resolved)
	add(OutcomeNoMatch, n.NoMatches)
	add(OutcomeCreated, n.Created)
	add(OutcomeDuplicate, n.Duplicates)
	add(OutcomeFailed, n.Failed)
	add(OutcomeImageAttached, n.ImagesAttached)

	if n.Components > 0 {
		c.components.WithLabelValues(category, componentCreated).Add(float64(n.Components))
	}
	if n.ComponentErrors > 0 {
		c.components.WithLabelValues(category, componentFailed).Add(float64(n.ComponentErrors))
	}
}

// Finish records the run duration and completion time.
func (c *Collector) Finish(d time.Duration, at time.Time) {
	if c == nil {
		return
	}
	c.duration.Set(d.Seconds())
	c.lastRun.Set(float64(at.Unix()))
}

// WriteTextfile writes the registry to path atomically.
func (c *Collector) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return errors.WrapIO("write", path, err)
	}
	return nil
}
