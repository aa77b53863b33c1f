package operations

import (
	"context"
	"fmt"
	"log/slog"

	"shelterstats/internal/aggregate"
	"shelterstats/internal/cleaning"
	"shelterstats/internal/dataset"
	"shelterstats/internal/exporter"
	"shelterstats/internal/features"
	"shelterstats/internal/stats"
)

// Step IDs in execution order
const (
	StepIDLoad      = "load"
	StepIDClean     = "clean"
	StepIDDerive    = "derive"
	StepIDAggregate = "aggregate"
	StepIDAnalyze   = "analyze"
	StepIDExport    = "export"
)

// LoadStep reads the intake snapshot into the pipeline state
type LoadStep struct {
	loader *dataset.Loader
	path   string
}

// NewLoadStep creates the snapshot loading step
func NewLoadStep(loader *dataset.Loader, path string) *LoadStep {
	return &LoadStep{loader: loader, path: path}
}

func (s *LoadStep) ID() string   { return StepIDLoad }
func (s *LoadStep) Name() string { return "Load snapshot" }

func (s *LoadStep) Execute(ctx context.Context, state *State) error {
	ds, err := s.loader.Load(ctx, s.path)
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}
	state.Raw = ds
	return nil
}

// CleanStep applies the exclusion policy
type CleanStep struct {
	cleaner *cleaning.Cleaner
	policy  cleaning.Policy
	logger  *slog.Logger
}

// NewCleanStep creates the exclusion-policy step
func NewCleanStep(policy cleaning.Policy, logger *slog.Logger) *CleanStep {
	return &CleanStep{
		cleaner: cleaning.NewCleaner(policy, logger),
		policy:  policy,
		logger:  logger,
	}
}

func (s *CleanStep) ID() string   { return StepIDClean }
func (s *CleanStep) Name() string { return "Apply exclusion policy" }

func (s *CleanStep) Execute(ctx context.Context, state *State) error {
	if state.Raw == nil {
		return fmt.Errorf("clean: no raw dataset loaded")
	}
	// Stale policy categories warn; they never fail the run.
	s.policy.WarnUnknownCategories(ctx, s.logger, state.Raw)
	state.Cleaned, state.CleanReport = s.cleaner.Clean(ctx, state.Raw)
	return nil
}

// DeriveStep computes the per-record derived attributes
type DeriveStep struct {
	deriver *features.Deriver
}

// NewDeriveStep creates the feature derivation step
func NewDeriveStep(logger *slog.Logger) *DeriveStep {
	return &DeriveStep{deriver: features.NewDeriver(logger)}
}

func (s *DeriveStep) ID() string   { return StepIDDerive }
func (s *DeriveStep) Name() string { return "Derive record features" }

func (s *DeriveStep) Execute(ctx context.Context, state *State) error {
	if state.Cleaned == nil {
		return fmt.Errorf("derive: no cleaned dataset")
	}
	state.Derived = s.deriver.Derive(ctx, state.Cleaned)
	return nil
}

// AggregateStep builds the descriptive tables
type AggregateStep struct {
	agg *aggregate.Aggregator
}

// NewAggregateStep creates the descriptive aggregation step
func NewAggregateStep(logger *slog.Logger) *AggregateStep {
	return &AggregateStep{agg: aggregate.NewAggregator(logger)}
}

func (s *AggregateStep) ID() string   { return StepIDAggregate }
func (s *AggregateStep) Name() string { return "Build descriptive tables" }

func (s *AggregateStep) Execute(ctx context.Context, state *State) error {
	if state.Derived == nil {
		return fmt.Errorf("aggregate: no derived dataset")
	}

	state.Monthly = s.agg.MonthlySeries(ctx, state.Derived)
	state.Rates = s.agg.AdoptionRates(ctx, state.Derived)

	pairs := [][2]aggregate.Variable{
		{aggregate.VarIntakeType, aggregate.VarOutcomeType},
		{aggregate.VarIntakeType, aggregate.VarAnimalType},
		{aggregate.VarOutcomeType, aggregate.VarAnimalType},
	}
	state.Tables = state.Tables[:0]
	for _, pair := range pairs {
		table, err := s.agg.NewCrosstab(ctx, state.Derived, pair[0], pair[1])
		if err != nil {
			return fmt.Errorf("aggregate: %w", err)
		}
		state.Tables = append(state.Tables, table)
	}
	return nil
}

// AnalyzeStep runs the statistical test battery
type AnalyzeStep struct {
	runner *stats.Runner
	agg    *aggregate.Aggregator
}

// NewAnalyzeStep creates the test battery step
func NewAnalyzeStep(opts stats.Options, logger *slog.Logger) *AnalyzeStep {
	return &AnalyzeStep{
		runner: stats.NewRunner(opts, logger),
		agg:    aggregate.NewAggregator(logger),
	}
}

func (s *AnalyzeStep) ID() string   { return StepIDAnalyze }
func (s *AnalyzeStep) Name() string { return "Run statistical tests" }

func (s *AnalyzeStep) Execute(ctx context.Context, state *State) error {
	if state.Derived == nil {
		return fmt.Errorf("analyze: no derived dataset")
	}
	// Per-test failures live inside the battery result; only a missing
	// dataset aborts this step.
	state.Battery = s.runner.Run(ctx, state.Derived, s.agg)
	return nil
}

// ExportStep writes every report artifact
type ExportStep struct {
	exporter   *exporter.Exporter
	writeExcel bool
	writeJSON  bool
	cleanedCSV bool
}

// NewExportStep creates the artifact export step
func NewExportStep(exp *exporter.Exporter, writeExcel, writeJSON, cleanedCSV bool) *ExportStep {
	return &ExportStep{
		exporter:   exp,
		writeExcel: writeExcel,
		writeJSON:  writeJSON,
		cleanedCSV: cleanedCSV,
	}
}

func (s *ExportStep) ID() string   { return StepIDExport }
func (s *ExportStep) Name() string { return "Export report artifacts" }

func (s *ExportStep) Execute(ctx context.Context, state *State) error {
	if state.Derived == nil || state.Battery == nil {
		return fmt.Errorf("export: pipeline artifacts missing")
	}

	if s.cleanedCSV {
		if err := s.exporter.WriteCleanedRecords(ctx, state.Derived); err != nil {
			return fmt.Errorf("export cleaned records: %w", err)
		}
	}
	if err := s.exporter.WriteMonthlySeries(ctx, state.Monthly); err != nil {
		return fmt.Errorf("export monthly series: %w", err)
	}
	if err := s.exporter.WriteAdoptionRates(ctx, state.Rates); err != nil {
		return fmt.Errorf("export adoption rates: %w", err)
	}
	for _, table := range state.Tables {
		if err := s.exporter.WriteCrosstab(ctx, table); err != nil {
			return fmt.Errorf("export contingency table: %w", err)
		}
	}
	if s.writeJSON {
		if err := s.exporter.WriteSummary(ctx, state.RunID, state.CleanReport, state.Derived.Issues, state.Battery); err != nil {
			return fmt.Errorf("export summary: %w", err)
		}
	}
	if s.writeExcel {
		input := exporter.WorkbookInput{
			Monthly: state.Monthly,
			Rates:   state.Rates,
			Tables:  state.Tables,
			Battery: state.Battery,
		}
		if err := s.exporter.WriteWorkbook(ctx, input); err != nil {
			return fmt.Errorf("export workbook: %w", err)
		}
	}
	return nil
}
