package matcher

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/devicemap/pkg/errors"
)

func TestSimilarity(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		candidate string
		want      float64
	}{
		{"identical", "c9300-48p", "c9300-48p", 1.0},
		{"both empty", "", "", 1.0},
		{"one empty", "cisco", "", 0.0},
		{"disjoint", "abc", "xyz", 0.0},
		{"prefix dropped", "ws-c3850-24", "c3850-24", 16.0 / 19.0},
		{"vendor suffix", "cisco systems", "cisco", 10.0 / 18.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Similarity(tt.query, tt.candidate), 1e-9)
		})
	}
}

func TestBest(t *testing.T) {
	t.Run("vendor with suffix", func(t *testing.T) {
		got, ok := Best("cisco systems", []string{"cisco", "juniper", "arista"}, 0.5)
		require.True(t, ok)
		assert.Equal(t, "cisco", got.Candidate)
		assert.Equal(t, 0, got.Index)
		assert.InDelta(t, 10.0/18.0, got.Score, 1e-9)
	})

	t.Run("empty candidates", func(t *testing.T) {
		_, ok := Best("cisco", nil, 0)
		assert.False(t, ok)
	})

	t.Run("nothing clears threshold", func(t *testing.T) {
		_, ok := Best("ex4300-48t", []string{"c9300-48p", "dcs-7050sx3-48yc12"}, 0.9)
		assert.False(t, ok)
	})

	t.Run("highest score wins", func(t *testing.T) {
		got, ok := Best("c9300-48p", []string{"c9300-24p", "c9300-48p", "c9300-48u"}, 0.5)
		require.True(t, ok)
		assert.Equal(t, "c9300-48p", got.Candidate)
		assert.Equal(t, 1.0, got.Score)
	})

	t.Run("ties keep input order", func(t *testing.T) {
		got, ok := Best("ab", []string{"ax", "ay", "ab-"}, 0.5)
		require.True(t, ok)
		assert.Equal(t, "ab-", got.Candidate)

		got, ok = Best("ab", []string{"ac", "ad"}, 0.5)
		require.True(t, ok)
		assert.Equal(t, "ac", got.Candidate)
		assert.Equal(t, 0, got.Index)
	})

	t.Run("zero threshold always matches", func(t *testing.T) {
		got, ok := Best("abc", []string{"xyz"}, 0)
		require.True(t, ok)
		assert.Equal(t, "xyz", got.Candidate)
		assert.Equal(t, 0.0, got.Score)
	})
}

func TestBestNeverBelowThreshold(t *testing.T) {
	candidates := []string{
		"c9300-48p", "c9300-24t", "c3850-24", "ws-c2960x-48fpd-l", "ex4300-48t",
		"dcs-7050sx3-48yc12", "n9k-c93180yc-ex", "mx204", "pa-3220", "",
	}
	queries := []string{"c9300-48p", "ws-c3850-24", "cisco-c9300", "ex4300", "7050", "", "zzz"}

	for _, q := range queries {
		for i := 0; i <= 20; i++ {
			threshold := float64(i) / 20
			t.Run(fmt.Sprintf("%s@%.2f", q, threshold), func(t *testing.T) {
				got, ok := Best(q, candidates, threshold)
				if !ok {
					for _, c := range candidates {
						assert.Less(t, Similarity(q, c), threshold)
					}
					return
				}
				assert.GreaterOrEqual(t, got.Score, threshold)
				assert.InDelta(t, Similarity(q, got.Candidate), got.Score, 1e-12)
				for _, c := range candidates {
					assert.LessOrEqual(t, Similarity(q, c), got.Score)
				}
			})
		}
	}
}

func TestBestDeterministic(t *testing.T) {
	candidates := []string{"c9300-48p", "c9300-48u", "c9300-48t", "c9300-24p"}
	first, ok := Best("c9300-48", candidates, 0.6)
	require.True(t, ok)
	for i := 0; i < 50; i++ {
		again, ok := Best("c9300-48", candidates, 0.6)
		require.True(t, ok)
		assert.Equal(t, first, again)
	}
}

func TestValidateThreshold(t *testing.T) {
	for _, ok := range []float64{0, 0.8, 1} {
		assert.NoError(t, ValidateThreshold("thresholds.model", ok))
	}
	for _, bad := range []float64{-0.1, 1.01, math.NaN()} {
		err := ValidateThreshold("thresholds.model", bad)
		assert.True(t, errors.IsValidationError(err), "threshold %v", bad)
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "cisco systems", Normalize("  Cisco Systems "))
	assert.Equal(t, "ws-c3850-24", Normalize("WS-C3850-24"))
	assert.Equal(t, []string{"a", "b"}, NormalizeAll([]string{"A", " b"}))
}
