// Package resolver maps discovered vendor, model and part-number strings to
// entries of the device-type library using the fuzzy matcher.
package resolver

import (
	"github.com/agentstation/devicemap/internal/matcher"
	"github.com/agentstation/devicemap/pkg/inventory"
	"github.com/agentstation/devicemap/pkg/library"
)

// Stage identifies which query produced a match.
type Stage int

const (
	// StageNone means no stage cleared the threshold.
	StageNone Stage = iota
	// StageDirect matched the model or part number alone.
	StageDirect
	// StageVendorModel matched "<vendor>-<model>".
	StageVendorModel
	// StageFamilyModel matched "<family>-<model>".
	StageFamilyModel
	// StagePlatformModel matched "<platform>-<model>".
	StagePlatformModel
)

var stageNames = map[Stage]string{
	StageNone:          "none",
	StageDirect:        "direct",
	StageVendorModel:   "vendor-model",
	StageFamilyModel:   "family-model",
	StagePlatformModel: "platform-model",
}

// String implements fmt.Stringer.
func (s Stage) String() string {
	if name, ok := stageNames[s]; ok {
		return name
	}
	return "unknown"
}

// Attempt records one evaluated stage.
type Attempt struct {
	Stage     Stage   `json:"stage" yaml:"stage"`
	Query     string  `json:"query" yaml:"query"`
	Matched   bool    `json:"matched" yaml:"matched"`
	Candidate string  `json:"candidate,omitempty" yaml:"candidate,omitempty"`
	Score     float64 `json:"score" yaml:"score"`
}

// Result is the outcome of resolving one asset. It is not modified after
// the resolver returns it.
type Result struct {
	Asset    inventory.Asset `json:"asset" yaml:"asset"`
	Matched  bool            `json:"matched" yaml:"matched"`
	Entry    *library.Entry  `json:"entry,omitempty" yaml:"entry,omitempty"`
	Stage    Stage           `json:"stage" yaml:"stage"`
	Score    float64         `json:"score" yaml:"score"`
	Query    string          `json:"query,omitempty" yaml:"query,omitempty"`
	Attempts []Attempt       `json:"attempts,omitempty" yaml:"attempts,omitempty"`
}

// attempt runs one query against the entry base names. When diagnostics is
// set, a failed attempt still records the closest candidate and its score.
func attempt(stage Stage, query string, entries []library.Entry, names []string, threshold float64, diagnostics bool) (Attempt, *library.Entry) {
	a := Attempt{Stage: stage, Query: query}
	if m, ok := matcher.Best(query, names, threshold); ok {
		a.Matched = true
		a.Candidate = m.Candidate
		a.Score = m.Score
		entry := entries[m.Index]
		return a, &entry
	}
	if diagnostics {
		if m, ok := matcher.Best(query, names, 0); ok {
			a.Candidate = m.Candidate
			a.Score = m.Score
		}
	}
	return a, nil
}
