package stats

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"

	"shelterstats/internal/errors"
)

// DunnTest runs Dunn's pairwise rank-sum comparisons across all group
// pairs, typically after a significant Kruskal-Wallis result. Per-pair
// two-sided p-values are adjusted for multiple comparisons with the
// requested method (Holm step-down by default).
func DunnTest(grouping string, groups map[string][]float64, method AdjustMethod) (*DunnResult, error) {
	switch method {
	case AdjustHolm, AdjustBonferroni:
	case "":
		method = AdjustHolm
	default:
		return nil, errors.NewValidationError(
			fmt.Sprintf("unknown p-value adjustment method %q", method))
	}

	levels := sortedLevels(groups)
	if len(levels) < 2 {
		return nil, errors.NewInsufficientDataError(
			fmt.Sprintf("Dunn's test on %s needs at least 2 groups, have %d", grouping, len(levels)))
	}

	var pooled []float64
	bounds := make(map[string][2]int, len(levels))
	for _, level := range levels {
		xs := groups[level]
		if len(xs) < 2 {
			return nil, errors.NewInsufficientDataError(
				fmt.Sprintf("Dunn's test group %s=%s has fewer than 2 observations (%d)", grouping, level, len(xs)))
		}
		bounds[level] = [2]int{len(pooled), len(pooled) + len(xs)}
		pooled = append(pooled, xs...)
	}

	n := float64(len(pooled))
	ranks, tieSum := averageRanks(pooled)

	meanRank := make(map[string]float64, len(levels))
	size := make(map[string]float64, len(levels))
	for _, level := range levels {
		b := bounds[level]
		sum := 0.0
		for _, r := range ranks[b[0]:b[1]] {
			sum += r
		}
		size[level] = float64(b[1] - b[0])
		meanRank[level] = sum / size[level]
	}

	// Pooled rank variance term with tie correction.
	variance := n*(n+1)/12 - tieSum/(12*(n-1))
	if variance <= 0 {
		return nil, errors.NewInsufficientDataError(
			fmt.Sprintf("Dunn's test on %s: tied ranks leave zero variance", grouping))
	}

	result := &DunnResult{Grouping: grouping, Adjustment: method}
	for i := 0; i < len(levels); i++ {
		for j := i + 1; j < len(levels); j++ {
			a, b := levels[i], levels[j]
			se := math.Sqrt(variance * (1/size[a] + 1/size[b]))
			z := (meanRank[a] - meanRank[b]) / se
			p := 2 * distuv.UnitNormal.Survival(math.Abs(z))
			result.Comparisons = append(result.Comparisons, DunnComparison{
				LevelA: a,
				LevelB: b,
				Z:      z,
				PValue: p,
			})
		}
	}

	adjustPValues(result.Comparisons, method)

	return result, nil
}

// adjustPValues fills AdjustedP in place for the chosen method
func adjustPValues(comparisons []DunnComparison, method AdjustMethod) {
	m := len(comparisons)
	if m == 0 {
		return
	}

	switch method {
	case AdjustBonferroni:
		for i := range comparisons {
			comparisons[i].AdjustedP = math.Min(1, comparisons[i].PValue*float64(m))
		}
	default: // Holm step-down
		order := make([]int, m)
		for i := range order {
			order[i] = i
		}
		sort.Slice(order, func(a, b int) bool {
			return comparisons[order[a]].PValue < comparisons[order[b]].PValue
		})
		running := 0.0
		for rank, idx := range order {
			adj := math.Min(1, float64(m-rank)*comparisons[idx].PValue)
			running = math.Max(running, adj)
			comparisons[idx].AdjustedP = running
		}
	}
}
