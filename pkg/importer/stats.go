package importer

import (
	"fmt"

	"github.com/agentstation/devicemap/pkg/resolver"
)

// Stats are the counters of one category for one run. Counters only grow.
type Stats struct {
	Processed int `json:"processed" yaml:"processed"`
	Resolved  int `json:"resolved" yaml:"resolved"`
	NoMatches int `json:"no_matches" yaml:"no_matches"`
	Created   int `json:"created" yaml:"created"`
	// Existing counts records already listed in NetBox and never posted.
	Existing        int `json:"existing" yaml:"existing"`
	Duplicates      int `json:"duplicates" yaml:"duplicates"`
	Failed          int `json:"failed" yaml:"failed"`
	Components      int `json:"components" yaml:"components"`
	ComponentErrors int `json:"component_errors" yaml:"component_errors"`
	ImagesAttached  int `json:"images_attached" yaml:"images_attached"`
}

// Observe counts a resolution: resolved or no-match.
func (s *Stats) Observe(res resolver.Result) {
	s.Processed++
	if res.Matched {
		s.Resolved++
	} else {
		s.NoMatches++
	}
}

// Add folds other into s.
func (s *Stats) Add(other Stats) {
	s.Processed += other.Processed
	s.Resolved += other.Resolved
	s.NoMatches += other.NoMatches
	s.Created += other.Created
	s.Existing += other.Existing
	s.Duplicates += other.Duplicates
	s.Failed += other.Failed
	s.Components += other.Components
	s.ComponentErrors += other.ComponentErrors
	s.ImagesAttached += other.ImagesAttached
}

// Recommendation is the threshold tuning hint derived from a category's stats.
type Recommendation int

const (
	// KeepThreshold when duplicates and no-matches balance.
	KeepThreshold Recommendation = iota
	// RaiseThreshold when duplicates dominate: loose matching maps many models onto one template.
	RaiseThreshold
	// LowerThreshold when no-matches dominate.
	LowerThreshold
)

// String implements fmt.Stringer.
func (r Recommendation) String() string {
	switch r {
	case RaiseThreshold:
		return "raise"
	case LowerThreshold:
		return "lower"
	default:
		return "keep"
	}
}

// Recommendation compares duplicates with no-matches.
func (s Stats) Recommendation() Recommendation {
	switch {
	case s.Duplicates > s.NoMatches:
		return RaiseThreshold
	case s.NoMatches > s.Duplicates:
		return LowerThreshold
	default:
		return KeepThreshold
	}
}

// Advice renders the recommendation for the named threshold.
func (s Stats) Advice(threshold string) string {
	switch s.Recommendation() {
	case RaiseThreshold:
		return fmt.Sprintf("%d duplicates vs %d no-matches: consider raising %s", s.Duplicates, s.NoMatches, threshold)
	case LowerThreshold:
		return fmt.Sprintf("%d no-matches vs %d duplicates: consider lowering %s", s.NoMatches, s.Duplicates, threshold)
	default:
		return fmt.Sprintf("%d duplicates and %d no-matches: %s looks balanced", s.Duplicates, s.NoMatches, threshold)
	}
}
