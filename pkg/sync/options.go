// Package sync provides options and results for an import run.
package sync

import (
	"fmt"
	"strings"
	"time"

	"github.com/agentstation/devicemap/pkg/errors"
)

// Category is one kind of NetBox record an import run creates.
type Category string

const (
	Manufacturers Category = "manufacturers"
	Devices       Category = "devices"
	Modules       Category = "modules"
	Sites         Category = "sites"
	Roles         Category = "roles"
	Platforms     Category = "platforms"
)

// Order is the fixed execution order of all categories. Manufacturers come
// first so device and module types can reference them.
var Order = []Category{Manufacturers, Devices, Modules, Sites, Roles, Platforms}

// DefaultCategories are run when none are requested.
var DefaultCategories = []Category{Manufacturers, Devices, Modules}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	for _, known := range Order {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCategories parses a comma separated category list. "all" selects
// every category.
func ParseCategories(s string) ([]Category, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if strings.EqualFold(s, "all") {
		return append([]Category(nil), Order...), nil
	}

	var out []Category
	for _, part := range strings.Split(s, ",") {
		c := Category(strings.ToLower(strings.TrimSpace(part)))
		if c == "" {
			continue
		}
		if !c.Valid() {
			return nil, errors.NewValidationError("categories", part,
				fmt.Sprintf("unknown category %q", part))
		}
		out = append(out, c)
	}
	return out, nil
}

// Options controls one import run.
type Options struct {
	DryRun     bool          // Resolve and report without any write
	Images     bool          // Attach elevation images to device types created in this run
	Categories []Category    // Which categories to run (empty means DefaultCategories)
	Timeout    time.Duration // Timeout for the entire run
}

// Option is a function that configures Options.
type Option func(*Options)

// Defaults returns the default run options.
func Defaults() *Options {
	return &Options{}
}

// Apply applies the given options.
func (o *Options) Apply(opts ...Option) *Options {
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Validate checks the options.
func (o *Options) Validate() error {
	if o.Timeout < 0 {
		return &errors.ValidationError{
			Field:   "Timeout",
			Value:   o.Timeout,
			Message: "timeout must be non-negative",
		}
	}
	for _, c := range o.Categories {
		if !c.Valid() {
			return &errors.ValidationError{
				Field:   "Categories",
				Value:   c,
				Message: fmt.Sprintf("unknown category %q", c),
			}
		}
	}
	return nil
}

// Enabled reports whether category c runs.
func (o *Options) Enabled(c Category) bool {
	cats := o.Categories
	if len(cats) == 0 {
		cats = DefaultCategories
	}
	for _, want := range cats {
		if want == c {
			return true
		}
	}
	return false
}

// Planned lists the enabled categories in execution order.
func (o *Options) Planned() []Category {
	var out []Category
	for _, c := range Order {
		if o.Enabled(c) {
			out = append(out, c)
		}
	}
	return out
}

// WithDryRun configures dry run mode.
func WithDryRun(dryRun bool) Option {
	return func(o *Options) {
		o.DryRun = dryRun
	}
}

// WithImages configures elevation image upload.
func WithImages(enabled bool) Option {
	return func(o *Options) {
		o.Images = enabled
	}
}

// WithCategories configures which categories run.
func WithCategories(categories ...Category) Option {
	return func(o *Options) {
		o.Categories = categories
	}
}

// WithTimeout configures the run timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(o *Options) {
		o.Timeout = timeout
	}
}
