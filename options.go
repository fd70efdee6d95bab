package devicemap

import (
	"strings"
	"time"

	"github.com/agentstation/devicemap/internal/matcher"
	"github.com/agentstation/devicemap/pkg/constants"
	"github.com/agentstation/devicemap/pkg/report"
)

// Thresholds are the similarity cutoffs for each kind of lookup.
type Thresholds struct {
	Vendor float64 `json:"vendor" yaml:"vendor" mapstructure:"vendor"`
	Model  float64 `json:"model" yaml:"model" mapstructure:"model"`
	Module float64 `json:"module" yaml:"module" mapstructure:"module"`
	Image  float64 `json:"image" yaml:"image" mapstructure:"image"`
}

// DefaultThresholds returns constants.DefaultThreshold for every lookup.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Vendor: constants.DefaultThreshold,
		Model:  constants.DefaultThreshold,
		Module: constants.DefaultThreshold,
		Image:  constants.DefaultThreshold,
	}
}

// Validate reports the first threshold outside [0,1].
func (t Thresholds) Validate() error {
	for _, f := range []struct {
		field string
		value float64
	}{
		{"thresholds.vendor", t.Vendor},
		{"thresholds.model", t.Model},
		{"thresholds.module", t.Module},
		{"thresholds.image", t.Image},
	} {
		if err := matcher.ValidateThreshold(f.field, f.value); err != nil {
			return err
		}
	}
	return nil
}

// Option is a function that configures a Devicemap instance.
type Option func(*config) error

// config holds the configuration for a Devicemap instance.
type config struct {
	thresholds  Thresholds
	roleColors  map[string]string
	recorder    *report.Recorder
	reportDir   string
	metricsFile string
	diagnostics bool
	clock       func() time.Time
}

func defaultConfig() *config {
	return &config{
		thresholds:  DefaultThresholds(),
		roleColors:  map[string]string{},
		diagnostics: true,
		clock:       time.Now,
	}
}

// options applies the given options to the Devicemap instance.
func (d *devicemap) options(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(d.config); err != nil {
			return err
		}
	}
	return nil
}

// WithThresholds configures the matching thresholds.
func WithThresholds(t Thresholds) Option {
	return func(c *config) error {
		c.thresholds = t
		return nil
	}
}

// WithRoleColors configures device role colors, keyed by role name.
// Roles not listed get constants.DefaultRoleColor.
func WithRoleColors(colors map[string]string) Option {
	return func(c *config) error {
		for role, color := range colors {
			c.roleColors[role] = strings.ToLower(strings.TrimPrefix(color, "#"))
		}
		return nil
	}
}

// WithRecorder collects mapping and error rows into r.
func WithRecorder(r *report.Recorder) Option {
	return func(c *config) error {
		c.recorder = r
		return nil
	}
}

// WithReportDir writes the run's CSV reports under dir.
func WithReportDir(dir string) Option {
	return func(c *config) error {
		c.reportDir = dir
		return nil
	}
}

// WithMetricsFile writes the run's Prometheus metrics to path.
func WithMetricsFile(path string) Option {
	return func(c *config) error {
		c.metricsFile = path
		return nil
	}
}

// WithDiagnostics records the closest candidate of failed match stages.
func WithDiagnostics(enabled bool) Option {
	return func(c *config) error {
		c.diagnostics = enabled
		return nil
	}
}

// WithClock overrides the time source.
func WithClock(clock func() time.Time) Option {
	return func(c *config) error {
		c.clock = clock
		return nil
	}
}
