package cleaning

import (
	"context"
	"log/slog"
	"os"
	"sort"

	"gopkg.in/yaml.v2"

	"shelterstats/internal/dataset"
	"shelterstats/internal/errors"
)

// Policy is the fixed exclusion policy applied by the Cleaner. Category
// lists are matched against the upper-cased canonical values the loader
// produces.
type Policy struct {
	ExcludedOutcomes    []string `yaml:"excluded_outcomes"`
	ExcludedIntakeTypes []string `yaml:"excluded_intake_types"`
	ExcludedConditions  []string `yaml:"excluded_conditions"`
	ExcludedKennels     []string `yaml:"excluded_kennels"`
}

// DefaultPolicy returns the standard county exclusion policy: disposal
// and expired-hold records, dead-on-arrival intakes, and the FOUND/LOST
// bookkeeping kennels that never hold a real animal.
func DefaultPolicy() Policy {
	return Policy{
		ExcludedOutcomes: []string{
			dataset.OutcomeDisposal,
			dataset.OutcomeLostExpired,
			dataset.OutcomeFoundExpired,
		},
		ExcludedIntakeTypes: []string{dataset.IntakeTypeDisposal},
		ExcludedConditions:  []string{dataset.ConditionDead},
		ExcludedKennels:     []string{dataset.KennelFound, dataset.KennelLost},
	}
}

// LoadPolicy reads an exclusion policy from a YAML file, or returns the
// default policy when path is empty.
func LoadPolicy(path string) (Policy, error) {
	if path == "" {
		return DefaultPolicy(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Policy{}, errors.NewConfigError("failed to read exclusion policy", err)
	}

	var policy Policy
	if err := yaml.Unmarshal(data, &policy); err != nil {
		return Policy{}, errors.NewConfigError("failed to parse exclusion policy", err)
	}

	return policy, nil
}

// WarnUnknownCategories logs a warning for every policy entry that names
// a category absent from the data. A stale policy entry is benign, so
// this never fails.
func (p Policy) WarnUnknownCategories(ctx context.Context, logger *slog.Logger, ds *dataset.Dataset) {
	if logger == nil {
		logger = slog.Default()
	}

	outcomes := make(map[string]bool)
	intakes := make(map[string]bool)
	conditions := make(map[string]bool)
	kennels := make(map[string]bool)
	for i := range ds.Records {
		rec := &ds.Records[i]
		if outcome, ok := rec.Outcome(); ok {
			outcomes[outcome] = true
		}
		intakes[rec.IntakeType] = true
		conditions[rec.IntakeCondition] = true
		kennels[rec.KennelCode] = true
	}

	warn := func(list []string, present map[string]bool, field string) {
		var missing []string
		for _, category := range list {
			if !present[category] {
				missing = append(missing, category)
			}
		}
		sort.Strings(missing)
		for _, category := range missing {
			logger.WarnContext(ctx, "exclusion policy names a category not present in the data",
				slog.String("field", field),
				slog.String("category", category))
		}
	}

	warn(p.ExcludedOutcomes, outcomes, "outcome_type")
	warn(p.ExcludedIntakeTypes, intakes, "intake_type")
	warn(p.ExcludedConditions, conditions, "intake_condition")
	warn(p.ExcludedKennels, kennels, "kennel_code")
}

// toSet converts a category list to a lookup set
func toSet(list []string) map[string]bool {
	set := make(map[string]bool, len(list))
	for _, v := range list {
		set[v] = true
	}
	return set
}
