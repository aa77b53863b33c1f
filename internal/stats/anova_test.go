package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shelterstats/internal/errors"
)

func TestOneWayANOVA(t *testing.T) {
	// Two groups with means 2 and 5: SSB = 13.5, SSW = 4,
	// F(1,4) = 13.5 / 1.0 = 13.5.
	groups := map[string][]float64{
		"CAT": {1, 2, 3},
		"DOG": {4, 5, 6},
	}

	result, err := OneWayANOVA("animal_type", groups)
	require.NoError(t, err)

	assert.Equal(t, "animal_type", result.Grouping)
	assert.InDelta(t, 13.5, result.FStatistic, 1e-9)
	assert.Equal(t, 1, result.DFBetween)
	assert.Equal(t, 4, result.DFWithin)
	assert.Less(t, result.PValue, 0.05)
	assert.Greater(t, result.PValue, 0.0)

	require.Len(t, result.Groups, 2)
	assert.Equal(t, GroupSummary{Level: "CAT", N: 3, Mean: 2}, result.Groups[0])
	assert.Equal(t, GroupSummary{Level: "DOG", N: 3, Mean: 5}, result.Groups[1])
}

func TestOneWayANOVA_IdenticalGroups(t *testing.T) {
	groups := map[string][]float64{
		"CAT": {1, 2, 3},
		"DOG": {1, 2, 3},
	}

	result, err := OneWayANOVA("animal_type", groups)
	require.NoError(t, err)

	assert.InDelta(t, 0.0, result.FStatistic, 1e-12)
	assert.InDelta(t, 1.0, result.PValue, 1e-9)
}

func TestOneWayANOVA_Degenerate(t *testing.T) {
	tests := []struct {
		name   string
		groups map[string][]float64
	}{
		{
			name:   "single group",
			groups: map[string][]float64{"DOG": {1, 2, 3}},
		},
		{
			name: "group with one observation",
			groups: map[string][]float64{
				"DOG": {1, 2, 3},
				"CAT": {5},
			},
		},
		{
			name: "zero within-group variance",
			groups: map[string][]float64{
				"DOG": {2, 2},
				"CAT": {5, 5},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := OneWayANOVA("animal_type", tt.groups)
			require.Error(t, err)
			assert.True(t, errors.IsInsufficientData(err))
		})
	}
}
