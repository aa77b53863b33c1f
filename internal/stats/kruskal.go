package stats

import (
	"fmt"

	"gonum.org/v1/gonum/stat/distuv"

	"shelterstats/internal/errors"
)

// KruskalWallis runs the rank-based alternative to the one-way ANOVA on
// the same grouping. The H statistic is corrected for ties; the p-value
// uses the chi-squared approximation with k-1 degrees of freedom.
func KruskalWallis(grouping string, groups map[string][]float64) (*KruskalWallisResult, error) {
	levels := sortedLevels(groups)
	if len(levels) < 2 {
		return nil, errors.NewInsufficientDataError(
			fmt.Sprintf("Kruskal-Wallis on %s needs at least 2 groups, have %d", grouping, len(levels)))
	}

	var pooled []float64
	bounds := make(map[string][2]int, len(levels))
	for _, level := range levels {
		xs := groups[level]
		if len(xs) < 2 {
			return nil, errors.NewInsufficientDataError(
				fmt.Sprintf("Kruskal-Wallis group %s=%s has fewer than 2 observations (%d)", grouping, level, len(xs)))
		}
		bounds[level] = [2]int{len(pooled), len(pooled) + len(xs)}
		pooled = append(pooled, xs...)
	}

	n := float64(len(pooled))
	ranks, tieSum := averageRanks(pooled)
	if tieSum >= n*n*n-n {
		return nil, errors.NewInsufficientDataError(
			fmt.Sprintf("Kruskal-Wallis on %s: all observations are tied; ranks carry no information", grouping))
	}

	h := 0.0
	for _, level := range levels {
		b := bounds[level]
		sum := 0.0
		for _, r := range ranks[b[0]:b[1]] {
			sum += r
		}
		ni := float64(b[1] - b[0])
		meanRank := sum / ni
		d := meanRank - (n+1)/2
		h += ni * d * d
	}
	h *= 12 / (n * (n + 1))

	// Tie correction divides H by 1 - Σ(t³−t)/(N³−N).
	h /= 1 - tieSum/(n*n*n-n)

	df := len(levels) - 1
	chi := distuv.ChiSquared{K: float64(df)}

	return &KruskalWallisResult{
		Grouping: grouping,
		H:        h,
		DF:       df,
		PValue:   chi.Survival(h),
	}, nil
}
