package stats

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"shelterstats/internal/aggregate"
	"shelterstats/internal/dataset"
)

// Battery analysis names used in failure and note reporting
const (
	AnalysisLinearModel   = "linear_model"
	AnalysisANOVA         = "anova"
	AnalysisKruskalWallis = "kruskal_wallis"
	AnalysisDunn          = "dunn"
	AnalysisWelchT        = "welch_t"
	AnalysisChiSquare     = "chi_square"
)

// postHocAlpha gates Dunn's test on the Kruskal-Wallis result
const postHocAlpha = 0.05

// Options configures the test battery
type Options struct {
	Adjustment      AdjustMethod // Dunn p-value adjustment
	ConfidenceLevel float64      // t-test confidence interval level
	Simulate        bool         // Monte-Carlo chi-squared p-values
	SimulationDraws int
	Seed            int64
}

// DefaultOptions returns the battery defaults: Holm adjustment, 95%
// confidence intervals, asymptotic chi-squared p-values.
func DefaultOptions() Options {
	return Options{
		Adjustment:      AdjustHolm,
		ConfidenceLevel: 0.95,
		Simulate:        false,
		SimulationDraws: 2000,
		Seed:            1,
	}
}

// Runner executes the fixed battery over a cleaned and derived dataset.
// Analyses are independent: a precondition failure is recorded against
// that analysis alone and the battery continues.
type Runner struct {
	opts   Options
	logger *slog.Logger
}

// NewRunner creates a battery runner
func NewRunner(opts Options, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.ConfidenceLevel == 0 {
		opts.ConfidenceLevel = 0.95
	}
	if opts.Adjustment == "" {
		opts.Adjustment = AdjustHolm
	}
	return &Runner{opts: opts, logger: logger}
}

// Run executes every analysis and returns the collected results. The
// three chi-squared tests are independent and run concurrently; all other
// analyses run in sequence. Nothing here mutates the dataset.
func (r *Runner) Run(ctx context.Context, ds *dataset.Dataset, agg *aggregate.Aggregator) *BatteryResult {
	result := &BatteryResult{
		Failures: make(map[string]string),
		Notes:    make(map[string]string),
	}

	stayGroups := StayByAnimalType(ds)

	if ols, err := FitOLS(ds); err != nil {
		r.recordFailure(ctx, result, AnalysisLinearModel, err)
	} else {
		result.LinearModel = ols
	}

	if anova, err := OneWayANOVA("animal_type", stayGroups); err != nil {
		r.recordFailure(ctx, result, AnalysisANOVA, err)
	} else {
		result.ANOVA = anova
	}

	if kw, err := KruskalWallis("animal_type", stayGroups); err != nil {
		r.recordFailure(ctx, result, AnalysisKruskalWallis, err)
		result.Notes[AnalysisDunn] = "skipped: Kruskal-Wallis did not run"
	} else {
		result.KruskalWallis = kw
		if kw.PValue < postHocAlpha {
			if dunn, err := DunnTest("animal_type", stayGroups, r.opts.Adjustment); err != nil {
				r.recordFailure(ctx, result, AnalysisDunn, err)
			} else {
				result.Dunn = dunn
			}
		} else {
			result.Notes[AnalysisDunn] = fmt.Sprintf(
				"skipped: Kruskal-Wallis p=%.4f is not significant at %.2f", kw.PValue, postHocAlpha)
		}
	}

	adopted, notAdopted := StayByAdoption(ds)
	if tt, err := WelchTTest("adopted", adopted, "not_adopted", notAdopted, r.opts.ConfidenceLevel); err != nil {
		r.recordFailure(ctx, result, AnalysisWelchT, err)
	} else {
		result.WelchT = tt
	}

	r.runChiSquareBattery(ctx, ds, agg, result)

	r.logger.InfoContext(ctx, "test battery complete",
		slog.Int("failures", len(result.Failures)),
		slog.Int("notes", len(result.Notes)))

	return result
}

// runChiSquareBattery executes the three pairwise independence tests
// concurrently. All inputs are read-only after derivation, so this is a
// pure optimization with identical output to sequential execution.
func (r *Runner) runChiSquareBattery(ctx context.Context, ds *dataset.Dataset, agg *aggregate.Aggregator, result *BatteryResult) {
	pairs := [][2]aggregate.Variable{
		{aggregate.VarIntakeType, aggregate.VarOutcomeType},
		{aggregate.VarIntakeType, aggregate.VarAnimalType},
		{aggregate.VarOutcomeType, aggregate.VarAnimalType},
	}

	results := make([]*ChiSquareResult, len(pairs))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for i, pair := range pairs {
		i, pair := i, pair
		g.Go(func() error {
			table, err := agg.NewCrosstab(gctx, ds, pair[0], pair[1])
			if err == nil {
				var test *ChiSquareResult
				test, err = ChiSquareTest(table, ChiSquareOptions{
					Simulate: r.opts.Simulate,
					Draws:    r.opts.SimulationDraws,
					Seed:     r.opts.Seed,
				})
				results[i] = test
			}
			if err != nil {
				name := fmt.Sprintf("%s_%s_x_%s", AnalysisChiSquare, pair[0], pair[1])
				mu.Lock()
				result.Failures[name] = err.Error()
				mu.Unlock()
				r.logger.WarnContext(gctx, "analysis failed",
					slog.String("test", name),
					slog.String("error", err.Error()))
			}
			return nil
		})
	}
	_ = g.Wait() // workers record failures instead of returning errors

	for _, test := range results {
		if test != nil {
			result.ChiSquare = append(result.ChiSquare, test)
		}
	}
}

// recordFailure notes a per-test failure without aborting the battery
func (r *Runner) recordFailure(ctx context.Context, result *BatteryResult, name string, err error) {
	result.Failures[name] = err.Error()
	r.logger.WarnContext(ctx, "analysis failed",
		slog.String("test", name),
		slog.String("error", err.Error()))
}
