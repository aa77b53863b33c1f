package stats

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"shelterstats/internal/errors"
)

// OneWayANOVA runs a one-way analysis of variance of the grouped values.
// Every group must contribute at least 2 observations; degenerate input
// fails with a descriptive error instead of producing NaN.
func OneWayANOVA(grouping string, groups map[string][]float64) (*ANOVAResult, error) {
	levels := sortedLevels(groups)
	if len(levels) < 2 {
		return nil, errors.NewInsufficientDataError(
			fmt.Sprintf("ANOVA on %s needs at least 2 groups, have %d", grouping, len(levels)))
	}

	total := 0
	grandSum := 0.0
	for _, level := range levels {
		xs := groups[level]
		if len(xs) < 2 {
			return nil, errors.NewInsufficientDataError(
				fmt.Sprintf("ANOVA group %s=%s has fewer than 2 observations (%d)", grouping, level, len(xs)))
		}
		total += len(xs)
		for _, x := range xs {
			grandSum += x
		}
	}
	grandMean := grandSum / float64(total)

	var ssBetween, ssWithin float64
	summaries := make([]GroupSummary, 0, len(levels))
	for _, level := range levels {
		xs := groups[level]
		m := stat.Mean(xs, nil)
		d := m - grandMean
		ssBetween += float64(len(xs)) * d * d
		for _, x := range xs {
			ssWithin += (x - m) * (x - m)
		}
		summaries = append(summaries, GroupSummary{Level: level, N: len(xs), Mean: m})
	}

	if ssWithin == 0 {
		return nil, errors.NewInsufficientDataError(
			fmt.Sprintf("ANOVA on %s has zero within-group variance; F statistic is undefined", grouping))
	}

	dfBetween := len(levels) - 1
	dfWithin := total - len(levels)
	f := (ssBetween / float64(dfBetween)) / (ssWithin / float64(dfWithin))
	fDist := distuv.F{D1: float64(dfBetween), D2: float64(dfWithin)}

	return &ANOVAResult{
		Grouping:   grouping,
		FStatistic: f,
		DFBetween:  dfBetween,
		DFWithin:   dfWithin,
		PValue:     fDist.Survival(f),
		Groups:     summaries,
	}, nil
}
