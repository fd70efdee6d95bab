// Package importer turns resolved library templates into NetBox records.
// It only ever creates: a record that already exists is counted as a
// duplicate and left untouched.
package importer

import (
	"context"
	"strconv"

	"github.com/agentstation/devicemap/pkg/errors"
	"github.com/agentstation/devicemap/pkg/inventory"
	"github.com/agentstation/devicemap/pkg/library"
	"github.com/agentstation/devicemap/pkg/logging"
	"github.com/agentstation/devicemap/pkg/resolver"
)

// Writer is the create-only part of the NetBox API the importer needs.
type Writer interface {
	CreateDeviceType(ctx context.Context, payload map[string]any) (int, error)
	CreateModuleType(ctx context.Context, payload map[string]any) (int, error)
	CreateComponentTemplate(ctx context.Context, kind string, payload map[string]any) (int, error)
	CreateRecord(ctx context.Context, path string, payload map[string]any) (int, error)
}

// Outcome is the result of one import attempt.
type Outcome struct {
	Created     bool   `json:"created" yaml:"created"`
	Duplicate   bool   `json:"duplicate" yaml:"duplicate"`
	TargetID    string `json:"target_id,omitempty" yaml:"target_id,omitempty"`
	ErrorDetail string `json:"error_detail,omitempty" yaml:"error_detail,omitempty"`
	// Components counts component templates created under the record.
	Components      int      `json:"components" yaml:"components"`
	ComponentErrors []string `json:"component_errors,omitempty" yaml:"component_errors,omitempty"`
}

// ID returns TargetID as an int, or 0.
func (o Outcome) ID() int {
	id, _ := strconv.Atoi(o.TargetID)
	return id
}

// Target carries what a create needs beyond the resolution itself.
type Target struct {
	Kind           inventory.Kind
	Template       *library.Template
	ManufacturerID int
	// ProfileID is the module type profile; 0 leaves it unset.
	ProfileID int
}

// Importer creates records through a Writer.
type Importer struct {
	writer Writer
}

// New returns an Importer writing through w.
func New(w Writer) *Importer {
	return &Importer{writer: w}
}

// Import creates the device or module type for a matched resolution and then
// its component templates. Duplicates and failures are counted in stats and
// reported in the outcome; they never abort the caller's batch.
func (im *Importer) Import(ctx context.Context, res resolver.Result, target Target, stats *Stats) Outcome {
	logger := logging.FromContext(ctx).With().
		Str("kind", target.Kind.String()).
		Str("model", res.Asset.Model).
		Logger()

	if !res.Matched || res.Entry == nil {
		return Outcome{ErrorDetail: "unresolved"}
	}
	if target.Template == nil {
		stats.Failed++
		return Outcome{ErrorDetail: "template not loaded"}
	}

	payload := BuildPayload(target)
	var (
		id  int
		err error
	)
	if target.Kind == inventory.KindModule {
		id, err = im.writer.CreateModuleType(ctx, payload)
	} else {
		id, err = im.writer.CreateDeviceType(ctx, payload)
	}

	outcome := classify(err, id, stats)
	switch {
	case outcome.Duplicate:
		logger.Warn().Str("template", res.Entry.File).Str("detail", outcome.ErrorDetail).Msg("Already exists in NetBox")
		return outcome
	case !outcome.Created:
		logger.Error().Str("template", res.Entry.File).Str("detail", outcome.ErrorDetail).Msg("Create failed")
		return outcome
	}

	logger.Info().Str("template", res.Entry.File).Int("id", id).Msg("Created")
	im.createComponents(ctx, target, id, &outcome, stats)
	return outcome
}

// ImportRecord creates a flat record (manufacturer, site, role, platform).
func (im *Importer) ImportRecord(ctx context.Context, path string, payload map[string]any, stats *Stats) Outcome {
	stats.Processed++
	id, err := im.writer.CreateRecord(ctx, path, payload)
	outcome := classify(err, id, stats)

	logger := logging.FromContext(ctx)
	switch {
	case outcome.Duplicate:
		logger.Debug().Str("path", path).Interface("name", payload["name"]).Msg("Already exists in NetBox")
	case !outcome.Created:
		logger.Error().Str("path", path).Interface("name", payload["name"]).Str("detail", outcome.ErrorDetail).Msg("Create failed")
	}
	return outcome
}

// classify turns a create result into an Outcome and bumps the matching counter.
func classify(err error, id int, stats *Stats) Outcome {
	if err == nil {
		stats.Created++
		return Outcome{Created: true, TargetID: strconv.Itoa(id)}
	}

	outcome := Outcome{ErrorDetail: detail(err)}
	if errors.IsAlreadyExists(err) {
		outcome.Duplicate = true
		stats.Duplicates++
	} else {
		stats.Failed++
	}
	return outcome
}

// detail prefers the server's response text over the wrapped error chain.
func detail(err error) string {
	var apiErr *errors.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}
