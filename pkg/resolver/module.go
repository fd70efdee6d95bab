package resolver

import (
	"github.com/agentstation/devicemap/internal/matcher"
	"github.com/agentstation/devicemap/pkg/inventory"
	"github.com/agentstation/devicemap/pkg/library"
)

// Profile is a NetBox module type profile.
type Profile int

const (
	// ProfileNone leaves the module type without a profile.
	ProfileNone Profile = iota
	// ProfilePowerSupply is the "Power supply" profile.
	ProfilePowerSupply
	// ProfileExpansionCard is the "Expansion card" profile.
	ProfileExpansionCard
	// ProfileFan is the "Fan" profile.
	ProfileFan
)

// String returns the NetBox profile name, or "" for ProfileNone.
func (p Profile) String() string {
	switch p {
	case ProfilePowerSupply:
		return "Power supply"
	case ProfileExpansionCard:
		return "Expansion card"
	case ProfileFan:
		return "Fan"
	default:
		return ""
	}
}

// Classify picks the profile of a module template. Rules are checked in
// order and the first hit wins: power ports, then interfaces, then the word
// "fan" anywhere in the template text.
func Classify(t *library.Template) Profile {
	switch {
	case t == nil:
		return ProfileNone
	case t.Has("power-ports"):
		return ProfilePowerSupply
	case t.Has("interfaces"):
		return ProfileExpansionCard
	case t.Contains("fan"):
		return ProfileFan
	default:
		return ProfileNone
	}
}

// ModuleResolver matches part numbers directly against module-type entries.
type ModuleResolver struct {
	Threshold   float64
	Diagnostics bool
}

// NewModuleResolver validates threshold and returns a resolver.
func NewModuleResolver(threshold float64) (*ModuleResolver, error) {
	if err := matcher.ValidateThreshold("thresholds.module", threshold); err != nil {
		return nil, err
	}
	return &ModuleResolver{Threshold: threshold}, nil
}

// Resolve matches asset.Model (the part number) with a single direct stage.
func (r *ModuleResolver) Resolve(asset inventory.Asset, entries []library.Entry) Result {
	result := Result{Asset: asset, Stage: StageNone}
	query := matcher.Normalize(asset.Model)

	a, entry := attempt(StageDirect, query, entries, library.BaseNames(entries), r.Threshold, r.Diagnostics)
	result.Attempts = []Attempt{a}
	if entry != nil {
		result.Matched = true
		result.Entry = entry
		result.Stage = StageDirect
		result.Score = a.Score
		result.Query = query
	}
	return result
}
