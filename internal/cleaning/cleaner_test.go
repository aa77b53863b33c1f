package cleaning

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shelterstats/internal/dataset"
)

func strptr(s string) *string { return &s }

func TestCleaner_Clean(t *testing.T) {
	ds := &dataset.Dataset{
		Records: []dataset.Record{
			{AnimalID: "A001", AnimalType: "DOG", IntakeType: "STRAY", OutcomeType: strptr(dataset.OutcomeAdoption)},
			{AnimalID: "A002", AnimalType: "CAT", IntakeType: "STRAY", OutcomeType: strptr(dataset.OutcomeDisposal)},
			{AnimalID: "A003", AnimalType: "DOG", IntakeType: dataset.IntakeTypeDisposal},
			{AnimalID: "A004", AnimalType: "CAT", IntakeType: "STRAY", IntakeCondition: dataset.ConditionDead},
			{AnimalID: "A005", AnimalType: "DOG", IntakeType: "STRAY", KennelCode: dataset.KennelFound},
			{AnimalID: "A006", AnimalType: "DOG", IntakeType: "STRAY", OutcomeType: strptr(dataset.OutcomeLostExpired)},
			{AnimalID: "A007", AnimalType: "CAT", IntakeType: "STRAY"}, // still in care, retained
		},
		Issues: []dataset.ParseIssue{{Line: 3, Field: "intake_date"}},
	}

	cleaner := NewCleaner(DefaultPolicy(), nil)
	cleaned, report := cleaner.Clean(context.Background(), ds)

	assert.Equal(t, 7, report.Loaded)
	assert.Equal(t, 2, report.Retained)
	assert.Equal(t, 2, report.Dropped[RuleExcludedOutcome])
	assert.Equal(t, 1, report.Dropped[RuleExcludedIntakeType])
	assert.Equal(t, 1, report.Dropped[RuleExcludedCondition])
	assert.Equal(t, 1, report.Dropped[RuleExcludedKennel])

	require.Len(t, cleaned.Records, 2)
	assert.Equal(t, "A001", cleaned.Records[0].AnimalID)
	assert.Equal(t, "A007", cleaned.Records[1].AnimalID)

	assert.Len(t, ds.Records, 7, "input dataset is not mutated")
	assert.Equal(t, ds.Issues, cleaned.Issues, "parse issues ride along")
}

func TestCleaner_Clean_RuleOrder(t *testing.T) {
	// A record matching several rules counts against the first one only,
	// so the drop counts sum to loaded minus retained.
	ds := &dataset.Dataset{
		Records: []dataset.Record{
			{
				AnimalID:        "A001",
				IntakeType:      dataset.IntakeTypeDisposal,
				IntakeCondition: dataset.ConditionDead,
				OutcomeType:     strptr(dataset.OutcomeDisposal),
			},
		},
	}

	_, report := NewCleaner(DefaultPolicy(), nil).Clean(context.Background(), ds)

	assert.Equal(t, 1, report.Dropped[RuleExcludedOutcome])
	assert.Equal(t, 0, report.Dropped[RuleExcludedIntakeType])
	assert.Equal(t, 0, report.Dropped[RuleExcludedCondition])

	total := 0
	for _, n := range report.Dropped {
		total += n
	}
	assert.Equal(t, report.Loaded-report.Retained, total)
}

func TestCleaner_Clean_EmptyPolicy(t *testing.T) {
	ds := &dataset.Dataset{
		Records: []dataset.Record{
			{AnimalID: "A001", OutcomeType: strptr(dataset.OutcomeDisposal)},
		},
	}

	cleaned, report := NewCleaner(Policy{}, nil).Clean(context.Background(), ds)

	assert.Equal(t, 1, report.Retained)
	assert.Len(t, cleaned.Records, 1)
}

func TestLoadPolicy(t *testing.T) {
	t.Run("empty path returns default", func(t *testing.T) {
		policy, err := LoadPolicy("")
		require.NoError(t, err)
		assert.Equal(t, DefaultPolicy(), policy)
	})

	t.Run("loads from yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "policy.yaml")
		yaml := "excluded_outcomes:\n  - DISPOSAL\nexcluded_kennels:\n  - FOUND\n"
		require.NoError(t, os.WriteFile(path, []byte(yaml), 0644))

		policy, err := LoadPolicy(path)
		require.NoError(t, err)
		assert.Equal(t, []string{"DISPOSAL"}, policy.ExcludedOutcomes)
		assert.Equal(t, []string{"FOUND"}, policy.ExcludedKennels)
		assert.Empty(t, policy.ExcludedIntakeTypes)
	})

	t.Run("missing file fails", func(t *testing.T) {
		_, err := LoadPolicy(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
	})
}
