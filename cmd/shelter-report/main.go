// shelter-report runs the county animal-services analysis pipeline:
// load the intake/outcome snapshot, apply the exclusion policy, derive
// per-record features, build descriptive tables, run the statistical
// test battery, and write the report artifacts.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"time"

	"shelterstats/internal/cleaning"
	"shelterstats/internal/config"
	"shelterstats/internal/dataset"
	"shelterstats/internal/exporter"
	"shelterstats/internal/infrastructure"
	"shelterstats/internal/operations"
	"shelterstats/internal/stats"
)

func main() {
	inputPath := flag.String("input", "", "path to the intake/outcome snapshot CSV (overrides config)")
	outputDir := flag.String("out", "", "output directory for report artifacts (overrides config)")
	configFile := flag.String("config", "", "path to config file (defaults to config.yaml if present)")
	policyPath := flag.String("policy", "", "path to the exclusion policy YAML (overrides config)")
	simulate := flag.Bool("simulate", false, "use Monte-Carlo chi-squared p-values")
	draws := flag.Int("draws", 0, "Monte-Carlo replicate count (overrides config)")
	seed := flag.Int64("seed", 0, "Monte-Carlo random seed (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Flags override both file and environment values
	if *inputPath != "" {
		cfg.Input.DatasetPath = *inputPath
	}
	if *outputDir != "" {
		cfg.Output.ReportsDir = *outputDir
	}
	if *policyPath != "" {
		cfg.Input.PolicyPath = *policyPath
	}
	if *simulate {
		cfg.Analysis.Simulate = true
	}
	if *draws > 0 {
		cfg.Analysis.SimulationDraws = *draws
	}
	if *seed != 0 {
		cfg.Analysis.Seed = *seed
	}

	if err := cfg.EnsureOutputDirs(); err != nil {
		slog.Error("Failed to create output directories", "error", err)
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Error("Failed to initialize logger", "error", err)
		os.Exit(1)
	}
	defer infrastructure.CloseLogFile()

	runID := infrastructure.NewRunID()
	ctx := infrastructure.WithRunID(context.Background(), runID)

	state, runner, err := run(ctx, cfg, logger, runID)
	if err != nil {
		logger.ErrorContext(ctx, "analysis run failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	printSummary(os.Stdout, state, runner)
}

// run assembles and executes the pipeline
func run(ctx context.Context, cfg *config.Config, logger *slog.Logger, runID string) (*operations.State, *operations.Runner, error) {
	logger.InfoContext(ctx, "starting analysis run",
		slog.String("dataset", cfg.Input.DatasetPath),
		slog.String("reports_dir", cfg.Output.ReportsDir))

	if _, err := os.Stat(cfg.Input.DatasetPath); os.IsNotExist(err) {
		return nil, nil, fmt.Errorf("snapshot not found: %s", cfg.Input.DatasetPath)
	}

	policy := cleaning.DefaultPolicy()
	if cfg.Input.PolicyPath != "" {
		p, err := cleaning.LoadPolicy(cfg.Input.PolicyPath)
		if err != nil {
			return nil, nil, fmt.Errorf("load exclusion policy: %w", err)
		}
		policy = p
	}

	labels, err := dataset.LoadLabelTable(ctx, logger, cfg.Input.LabelsPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load label table: %w", err)
	}

	loader := dataset.NewLoader(logger, dataset.LoaderConfig{DateFormat: cfg.Input.DateFormat})
	exp := exporter.New(cfg.Output.ReportsDir, labels, logger)

	opts := stats.Options{
		Adjustment:      stats.AdjustMethod(cfg.Analysis.Adjustment),
		ConfidenceLevel: cfg.Analysis.ConfidenceLevel,
		Simulate:        cfg.Analysis.Simulate,
		SimulationDraws: cfg.Analysis.SimulationDraws,
		Seed:            cfg.Analysis.Seed,
	}

	steps := []operations.Step{
		operations.NewLoadStep(loader, cfg.Input.DatasetPath),
		operations.NewCleanStep(policy, logger),
		operations.NewDeriveStep(logger),
		operations.NewAggregateStep(logger),
		operations.NewAnalyzeStep(opts, logger),
		operations.NewExportStep(exp, cfg.Output.WriteExcel, cfg.Output.WriteJSON, cfg.Output.CleanedExport),
	}

	runner := operations.NewRunner(steps, logger)
	state, err := runner.Run(ctx, runID)
	if err != nil {
		return state, runner, err
	}

	return state, runner, nil
}

// printSummary writes a human-readable run recap. Map-backed sections are
// printed in sorted key order so reruns produce identical output.
func printSummary(w io.Writer, state *operations.State, runner *operations.Runner) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Animal Services Analysis Report")
	fmt.Fprintln(w, "===============================")
	fmt.Fprintf(w, "Run ID: %s\n", state.RunID)
	fmt.Fprintln(w)

	if r := state.CleanReport; r != nil {
		fmt.Fprintf(w, "Records loaded:   %d\n", r.Loaded)
		fmt.Fprintf(w, "Records retained: %d\n", r.Retained)
		rules := make([]string, 0, len(r.Dropped))
		for rule := range r.Dropped {
			rules = append(rules, rule)
		}
		sort.Strings(rules)
		for _, rule := range rules {
			fmt.Fprintf(w, "  dropped (%s): %d\n", rule, r.Dropped[rule])
		}
	}
	if state.Derived != nil && len(state.Derived.Issues) > 0 {
		fmt.Fprintf(w, "Parse issues flagged: %d\n", len(state.Derived.Issues))
	}
	fmt.Fprintln(w)

	if b := state.Battery; b != nil {
		if m := b.LinearModel; m != nil {
			fmt.Fprintf(w, "Linear model %s: R²=%.4f, F=%.2f (p=%.4g)\n", m.Formula, m.RSquared, m.FStatistic, m.PValue)
		}
		if a := b.ANOVA; a != nil {
			fmt.Fprintf(w, "ANOVA: F(%d,%d)=%.2f (p=%.4g)\n", a.DFBetween, a.DFWithin, a.FStatistic, a.PValue)
		}
		if k := b.KruskalWallis; k != nil {
			fmt.Fprintf(w, "Kruskal-Wallis: H=%.2f, df=%d (p=%.4g)\n", k.H, k.DF, k.PValue)
		}
		if t := b.WelchT; t != nil {
			fmt.Fprintf(w, "Welch t-test (%s vs %s): t=%.2f (p=%.4g)\n", t.GroupA, t.GroupB, t.T, t.PValue)
		}
		for _, c := range b.ChiSquare {
			mode := "asymptotic"
			if c.Simulated {
				mode = "simulated"
			}
			fmt.Fprintf(w, "Chi-squared %s x %s: X²=%.2f (p=%.4g, %s), V=%.3f\n",
				c.RowVar, c.ColVar, c.Statistic, c.PValue, mode, c.CramersV)
		}
		names := make([]string, 0, len(b.Failures))
		for name := range b.Failures {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(w, "Skipped %s: %s\n", name, b.Failures[name])
		}
	}
	fmt.Fprintln(w)

	for _, s := range runner.StepStates() {
		fmt.Fprintf(w, "  [%s] %-28s %s\n", s.Status, s.Name, s.Duration().Round(time.Millisecond))
	}
}
