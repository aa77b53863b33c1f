package stats

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/stat/distuv"

	"shelterstats/internal/aggregate"
	"shelterstats/internal/errors"
)

// lowExpectedThreshold is the standard caveat bound: the asymptotic
// chi-squared approximation is unreliable when any expected cell count
// falls below it.
const lowExpectedThreshold = 5

// ChiSquareOptions configures a single independence test
type ChiSquareOptions struct {
	Simulate bool  // use a Monte-Carlo p-value instead of the asymptotic one
	Draws    int   // number of resampled tables when simulating
	Seed     int64 // PRNG seed; required for reproducible simulation
}

// ChiSquareTest runs Pearson's chi-squared test of independence over a
// contingency table and computes the companion Cramér's V. With
// opts.Simulate the p-value is estimated by resampling tables with the
// observed margins, the standard fallback when expected cell counts are
// small.
func ChiSquareTest(table *aggregate.Crosstab, opts ChiSquareOptions) (*ChiSquareResult, error) {
	r, c := len(table.RowLevels), len(table.ColLevels)
	if r < 2 || c < 2 {
		return nil, errors.NewInsufficientDataError(
			fmt.Sprintf("contingency table %s x %s degenerates to %dx%d; independence is untestable",
				table.RowVar, table.ColVar, r, c))
	}
	if table.N == 0 {
		return nil, errors.NewInsufficientDataError(
			fmt.Sprintf("contingency table %s x %s is empty", table.RowVar, table.ColVar))
	}

	rowTotals := table.RowTotals()
	colTotals := table.ColTotals()

	statistic, lowExpected := pearsonStatistic(table.Counts, rowTotals, colTotals, table.N)
	df := (r - 1) * (c - 1)

	result := &ChiSquareResult{
		RowVar:      string(table.RowVar),
		ColVar:      string(table.ColVar),
		N:           table.N,
		Statistic:   statistic,
		DF:          df,
		LowExpected: lowExpected,
		CramersV:    cramersV(statistic, table.N, r, c),
	}

	if opts.Simulate {
		if opts.Draws < 1 {
			return nil, errors.NewValidationError(
				fmt.Sprintf("simulated p-value needs at least 1 draw, got %d", opts.Draws))
		}
		result.Simulated = true
		result.Draws = opts.Draws
		result.Seed = opts.Seed
		result.PValue = simulatePValue(statistic, rowTotals, colTotals, table.N, opts)
	} else {
		chi := distuv.ChiSquared{K: float64(df)}
		result.PValue = chi.Survival(statistic)
	}

	return result, nil
}

// pearsonStatistic computes Σ (observed-expected)²/expected and reports
// whether any expected count falls under the small-cell threshold.
func pearsonStatistic(counts [][]int, rowTotals, colTotals []int, n int) (float64, bool) {
	statistic := 0.0
	lowExpected := false
	for i := range counts {
		for j := range counts[i] {
			expected := float64(rowTotals[i]) * float64(colTotals[j]) / float64(n)
			if expected == 0 {
				continue
			}
			if expected < lowExpectedThreshold {
				lowExpected = true
			}
			d := float64(counts[i][j]) - expected
			statistic += d * d / expected
		}
	}
	return statistic, lowExpected
}

// simulatePValue estimates the p-value by generating tables with the
// observed margins: a pooled vector of column labels is shuffled and cut
// into rows of the observed row sizes. The estimate is (b+1)/(B+1) where
// b counts resampled statistics at least as extreme as the observed one.
func simulatePValue(observed float64, rowTotals, colTotals []int, n int, opts ChiSquareOptions) float64 {
	rng := rand.New(rand.NewSource(opts.Seed))

	labels := make([]int, 0, n)
	for j, total := range colTotals {
		for k := 0; k < total; k++ {
			labels = append(labels, j)
		}
	}

	counts := make([][]int, len(rowTotals))
	for i := range counts {
		counts[i] = make([]int, len(colTotals))
	}

	const tolerance = 1e-9
	extreme := 0
	for draw := 0; draw < opts.Draws; draw++ {
		rng.Shuffle(len(labels), func(a, b int) {
			labels[a], labels[b] = labels[b], labels[a]
		})

		for i := range counts {
			for j := range counts[i] {
				counts[i][j] = 0
			}
		}
		pos := 0
		for i, total := range rowTotals {
			for k := 0; k < total; k++ {
				counts[i][labels[pos]]++
				pos++
			}
		}

		statistic, _ := pearsonStatistic(counts, rowTotals, colTotals, n)
		if statistic >= observed-tolerance {
			extreme++
		}
	}

	return float64(extreme+1) / float64(opts.Draws+1)
}

// cramersV normalizes a chi-squared statistic into the [0,1] association
// strength V = sqrt(χ² / (N · min(r-1, c-1))).
func cramersV(statistic float64, n, r, c int) float64 {
	k := r - 1
	if c-1 < k {
		k = c - 1
	}
	v := math.Sqrt(statistic / (float64(n) * float64(k)))
	// Clamp float noise so callers can rely on the documented bounds.
	if v > 1 {
		v = 1
	}
	return v
}
