package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shelterstats/internal/errors"
)

func TestWelchTTest(t *testing.T) {
	adopted := []float64{4, 6, 5, 7, 5, 6}
	notAdopted := []float64{12, 15, 14, 18, 13, 16}

	result, err := WelchTTest("adopted", adopted, "not_adopted", notAdopted, 0.95)
	require.NoError(t, err)

	assert.Equal(t, 6, result.NA)
	assert.Equal(t, 6, result.NB)
	assert.InDelta(t, 5.5, result.MeanA, 1e-9)
	assert.InDelta(t, 14.666666667, result.MeanB, 1e-6)
	assert.Negative(t, result.T, "adopted animals stay shorter")
	assert.Less(t, result.PValue, 0.001)

	// The CI brackets the observed mean difference
	diff := result.MeanA - result.MeanB
	assert.Less(t, result.CILow, diff)
	assert.Greater(t, result.CIHigh, diff)
	assert.Negative(t, result.CIHigh, "a significant difference excludes zero from the CI")
}

func TestWelchTTest_IdenticalGroups(t *testing.T) {
	xs := []float64{3, 5, 7, 9}

	result, err := WelchTTest("a", xs, "b", xs, 0.95)
	require.NoError(t, err)

	assert.InDelta(t, 0.0, result.T, 1e-12)
	assert.InDelta(t, 1.0, result.PValue, 1e-9)
	assert.InDelta(t, 6.0, result.DF, 1e-9, "equal variances and sizes reduce to n_a+n_b-2")
	assert.Less(t, result.CILow, 0.0)
	assert.Greater(t, result.CIHigh, 0.0)
}

func TestWelchTTest_WiderConfidenceWidensInterval(t *testing.T) {
	a := []float64{1, 2, 3, 4}
	b := []float64{3, 4, 5, 6}

	narrow, err := WelchTTest("a", a, "b", b, 0.90)
	require.NoError(t, err)
	wide, err := WelchTTest("a", a, "b", b, 0.99)
	require.NoError(t, err)

	assert.Less(t, wide.CILow, narrow.CILow)
	assert.Greater(t, wide.CIHigh, narrow.CIHigh)
	assert.InDelta(t, narrow.PValue, wide.PValue, 1e-12, "the p-value does not depend on the CI level")
}

func TestWelchTTest_Degenerate(t *testing.T) {
	t.Run("too few observations", func(t *testing.T) {
		_, err := WelchTTest("a", []float64{1}, "b", []float64{2, 3}, 0.95)
		require.Error(t, err)
		assert.True(t, errors.IsInsufficientData(err))
	})

	t.Run("zero variance in both groups", func(t *testing.T) {
		_, err := WelchTTest("a", []float64{5, 5}, "b", []float64{5, 5}, 0.95)
		require.Error(t, err)
		assert.True(t, errors.IsInsufficientData(err))
	})

	t.Run("confidence level out of range", func(t *testing.T) {
		_, err := WelchTTest("a", []float64{1, 2}, "b", []float64{3, 4}, 1.0)
		require.Error(t, err)
	})
}
