// Package matcher scores free-text names against candidate lists with a
// sequence-similarity ratio (longest matching blocks, not edit distance) and
// picks the best candidate that clears a threshold.
package matcher

import (
	"math"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/agentstation/devicemap/pkg/errors"
)

// Match is the winning candidate of a Best call.
type Match struct {
	// Candidate is the matched string as it appeared in the input.
	Candidate string
	// Index is the candidate's position in the input slice.
	Index int
	// Score is the similarity ratio in [0,1].
	Score float64
}

// ValidateThreshold reports a ValidationError for values outside [0,1].
func ValidateThreshold(field string, threshold float64) error {
	if math.IsNaN(threshold) || threshold < 0 || threshold > 1 {
		return errors.NewValidationError(field, threshold, "must be between 0 and 1")
	}
	return nil
}

// Similarity returns the ratio of candidate to query: 2*M/T where M is the
// number of characters in matching blocks and T the combined length.
// Two empty strings are identical (1.0).
func Similarity(query, candidate string) float64 {
	return difflib.NewMatcher(chars(candidate), chars(query)).Ratio()
}

// Best returns the highest scoring candidate whose score is at least threshold.
// Ties go to the earliest candidate. It reports false when candidates is empty
// or nothing qualifies; callers compare already-normalized strings.
func Best(query string, candidates []string, threshold float64) (Match, bool) {
	if len(candidates) == 0 {
		return Match{}, false
	}

	// the query is the second sequence so its index is built once
	sm := difflib.NewMatcher(nil, chars(query))
	best := Match{Index: -1}
	for i, candidate := range candidates {
		sm.SetSeq1(chars(candidate))
		if sm.RealQuickRatio() < threshold || sm.QuickRatio() < threshold {
			continue
		}
		score := sm.Ratio()
		if score < threshold {
			continue
		}
		if best.Index < 0 || score > best.Score {
			best = Match{Candidate: candidate, Index: i, Score: score}
		}
	}
	if best.Index < 0 {
		return Match{}, false
	}
	return best, true
}

// Normalize trims and lowercases s for comparison.
func Normalize(s string) string {
	return cases.Lower(language.Und).String(strings.TrimSpace(s))
}

// NormalizeAll applies Normalize to every value.
func NormalizeAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = Normalize(v)
	}
	return out
}

// chars splits s into one element per rune.
func chars(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
