package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shelterstats/internal/errors"
)

func TestKruskalWallis(t *testing.T) {
	// Fully separated groups, no ties: ranks 1-3 vs 4-6 give
	// H = 12/(6·7) · (3·1.5² + 3·1.5²) = 27/7.
	groups := map[string][]float64{
		"CAT": {1, 2, 3},
		"DOG": {4, 5, 6},
	}

	result, err := KruskalWallis("animal_type", groups)
	require.NoError(t, err)

	assert.Equal(t, "animal_type", result.Grouping)
	assert.InDelta(t, 27.0/7.0, result.H, 1e-9)
	assert.Equal(t, 1, result.DF)
	assert.Greater(t, result.PValue, 0.0)
	assert.Less(t, result.PValue, 0.06)
}

func TestKruskalWallis_TieCorrection(t *testing.T) {
	// The corrected H must exceed the uncorrected value when ties exist.
	tied := map[string][]float64{
		"CAT": {1, 1, 2},
		"DOG": {3, 3, 4},
	}

	result, err := KruskalWallis("animal_type", tied)
	require.NoError(t, err)
	assert.Greater(t, result.H, 0.0)

	// Monotone transform invariance: a rank test depends only on order,
	// so scaling the data changes nothing.
	scaled := map[string][]float64{
		"CAT": {10, 10, 20},
		"DOG": {30, 30, 40},
	}
	scaledResult, err := KruskalWallis("animal_type", scaled)
	require.NoError(t, err)
	assert.InDelta(t, result.H, scaledResult.H, 1e-12)
	assert.InDelta(t, result.PValue, scaledResult.PValue, 1e-12)
}

func TestKruskalWallis_Degenerate(t *testing.T) {
	tests := []struct {
		name   string
		groups map[string][]float64
	}{
		{
			name:   "single group",
			groups: map[string][]float64{"DOG": {1, 2}},
		},
		{
			name: "group with one observation",
			groups: map[string][]float64{
				"DOG": {1, 2},
				"CAT": {3},
			},
		},
		{
			name: "all observations tied",
			groups: map[string][]float64{
				"DOG": {5, 5},
				"CAT": {5, 5},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := KruskalWallis("animal_type", tt.groups)
			require.Error(t, err)
			assert.True(t, errors.IsInsufficientData(err))
		})
	}
}
