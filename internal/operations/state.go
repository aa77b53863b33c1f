package operations

import (
	"shelterstats/internal/aggregate"
	"shelterstats/internal/cleaning"
	"shelterstats/internal/dataset"
	"shelterstats/internal/stats"
)

// State carries the artifacts between pipeline steps. Each step reads the
// fields earlier steps produced and writes its own; datasets are replaced
// wholesale, never mutated, so the raw snapshot stays available for
// audit after cleaning.
type State struct {
	RunID string

	// Datasets, one per transformation stage
	Raw     *dataset.Dataset
	Cleaned *dataset.Dataset
	Derived *dataset.Dataset

	// Cleaning audit trail
	CleanReport *cleaning.Report

	// Descriptive aggregates
	Monthly []aggregate.MonthlyCount
	Rates   []aggregate.AdoptionRate
	Tables  []*aggregate.Crosstab

	// Statistical test battery output
	Battery *stats.BatteryResult
}

// NewState creates pipeline state for one run
func NewState(runID string) *State {
	return &State{RunID: runID}
}
