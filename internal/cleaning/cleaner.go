package cleaning

import (
	"context"
	"log/slog"

	"shelterstats/internal/dataset"
)

// Rule names used in the Report's drop counts
const (
	RuleExcludedOutcome    = "excluded_outcome"
	RuleExcludedIntakeType = "excluded_intake_type"
	RuleExcludedCondition  = "excluded_condition"
	RuleExcludedKennel     = "excluded_kennel"
)

// Report summarizes one cleaning pass for the audit trail
type Report struct {
	Loaded   int            `json:"loaded"`
	Retained int            `json:"retained"`
	Dropped  map[string]int `json:"dropped"`
}

// Cleaner applies the exclusion policy to a loaded dataset. It is a pure
// filter: the input dataset is retained untouched for audit and a new
// dataset is returned.
type Cleaner struct {
	policy Policy
	logger *slog.Logger
}

// NewCleaner creates a cleaner for the given exclusion policy
func NewCleaner(policy Policy, logger *slog.Logger) *Cleaner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cleaner{policy: policy, logger: logger}
}

// Clean returns the subset of records passing every exclusion rule,
// together with per-rule drop counts. Parse issues ride along unchanged
// so the downstream report stays auditable.
func (c *Cleaner) Clean(ctx context.Context, ds *dataset.Dataset) (*dataset.Dataset, *Report) {
	excludedOutcomes := toSet(c.policy.ExcludedOutcomes)
	excludedIntakes := toSet(c.policy.ExcludedIntakeTypes)
	excludedConditions := toSet(c.policy.ExcludedConditions)
	excludedKennels := toSet(c.policy.ExcludedKennels)

	report := &Report{
		Loaded: len(ds.Records),
		Dropped: map[string]int{
			RuleExcludedOutcome:    0,
			RuleExcludedIntakeType: 0,
			RuleExcludedCondition:  0,
			RuleExcludedKennel:     0,
		},
	}

	retained := make([]dataset.Record, 0, len(ds.Records))
	for i := range ds.Records {
		rec := ds.Records[i]

		if outcome, ok := rec.Outcome(); ok && excludedOutcomes[outcome] {
			report.Dropped[RuleExcludedOutcome]++
			continue
		}
		if excludedIntakes[rec.IntakeType] {
			report.Dropped[RuleExcludedIntakeType]++
			continue
		}
		if excludedConditions[rec.IntakeCondition] {
			report.Dropped[RuleExcludedCondition]++
			continue
		}
		if excludedKennels[rec.KennelCode] {
			report.Dropped[RuleExcludedKennel]++
			continue
		}

		retained = append(retained, rec)
	}

	report.Retained = len(retained)

	c.logger.InfoContext(ctx, "applied exclusion policy",
		slog.Int("loaded", report.Loaded),
		slog.Int("retained", report.Retained),
		slog.Int("dropped_outcome", report.Dropped[RuleExcludedOutcome]),
		slog.Int("dropped_intake_type", report.Dropped[RuleExcludedIntakeType]),
		slog.Int("dropped_condition", report.Dropped[RuleExcludedCondition]),
		slog.Int("dropped_kennel", report.Dropped[RuleExcludedKennel]))

	return &dataset.Dataset{Records: retained, Issues: ds.Issues}, report
}
