package resolver

import (
	"strings"

	"github.com/agentstation/devicemap/internal/matcher"
	"github.com/agentstation/devicemap/pkg/inventory"
	"github.com/agentstation/devicemap/pkg/library"
)

// queryFunc builds a stage query from an asset; false skips the stage.
type queryFunc func(inventory.Asset) (string, bool)

type modelStage struct {
	stage Stage
	query queryFunc
}

// modelStages are tried in order until one clears the threshold.
var modelStages = []modelStage{
	{StageDirect, func(a inventory.Asset) (string, bool) { return a.Model, true }},
	{StageVendorModel, func(a inventory.Asset) (string, bool) { return prefixed(a.Vendor, a.Model) }},
	{StageFamilyModel, func(a inventory.Asset) (string, bool) { return prefixed(a.Family, a.Model) }},
	{StagePlatformModel, func(a inventory.Asset) (string, bool) { return prefixed(a.Platform, a.Model) }},
}

func prefixed(prefix, model string) (string, bool) {
	if strings.TrimSpace(prefix) == "" {
		return "", false
	}
	return prefix + "-" + model, true
}

// ModelResolver matches device models with staged fallback queries.
type ModelResolver struct {
	Threshold float64
	// Diagnostics records the closest candidate of failed stages.
	Diagnostics bool
}

// NewModelResolver validates threshold and returns a resolver.
func NewModelResolver(threshold float64) (*ModelResolver, error) {
	if err := matcher.ValidateThreshold("thresholds.model", threshold); err != nil {
		return nil, err
	}
	return &ModelResolver{Threshold: threshold}, nil
}

// Resolve matches asset against the vendor's device-type entries, stopping at
// the first stage that clears the threshold. Stages whose context (vendor,
// family, platform) is empty are skipped.
func (r *ModelResolver) Resolve(asset inventory.Asset, entries []library.Entry) Result {
	result := Result{Asset: asset, Stage: StageNone}
	names := library.BaseNames(entries)

	for _, s := range modelStages {
		query, ok := s.query(asset)
		if !ok {
			continue
		}
		query = matcher.Normalize(query)

		a, entry := attempt(s.stage, query, entries, names, r.Threshold, r.Diagnostics)
		result.Attempts = append(result.Attempts, a)
		if entry != nil {
			result.Matched = true
			result.Entry = entry
			result.Stage = s.stage
			result.Score = a.Score
			result.Query = query
			return result
		}
	}
	return result
}
