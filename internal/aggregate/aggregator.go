package aggregate

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"shelterstats/internal/dataset"
	"shelterstats/internal/errors"
	"shelterstats/internal/features"
)

// Variable identifies a categorical column usable in a cross tabulation
type Variable string

const (
	VarAnimalType  Variable = "animal_type"
	VarIntakeType  Variable = "intake_type"
	VarOutcomeType Variable = "outcome_type"
)

// MonthlyCount is one calendar month's intake and adoption counts with
// the month's season attached for the dashboard's seasonal series.
type MonthlyCount struct {
	Year      int            `json:"year"`
	Month     time.Month     `json:"month"`
	Season    dataset.Season `json:"season"`
	Intakes   int            `json:"intakes"`
	Adoptions int            `json:"adoptions"`
}

// AdoptionRate is the adoption rate for one animal type. Eligible
// excludes wildlife and records with no outcome yet; an animal still in
// care is never counted as a failed adoption.
type AdoptionRate struct {
	AnimalType string  `json:"animal_type"`
	Eligible   int     `json:"eligible"`
	Adopted    int     `json:"adopted"`
	Rate       float64 `json:"rate"`
}

// Aggregator produces the descriptive tables consumed by plotting and by
// the statistical test battery. All methods operate read-only on the
// derived dataset and return deterministically ordered output.
type Aggregator struct {
	logger *slog.Logger
}

// NewAggregator creates an aggregator
func NewAggregator(logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{logger: logger}
}

// MonthlySeries returns intake and adoption counts grouped by calendar
// month, sorted chronologically. Records with an unparseable intake date
// have no month and are skipped here; they remain visible in the parse
// issue report.
func (a *Aggregator) MonthlySeries(ctx context.Context, ds *dataset.Dataset) []MonthlyCount {
	type monthKey struct {
		year  int
		month time.Month
	}

	counts := make(map[monthKey]*MonthlyCount)
	for i := range ds.Records {
		rec := &ds.Records[i]
		if !rec.HasIntakeDate() {
			continue
		}
		key := monthKey{rec.IntakeDate.Year(), rec.IntakeDate.Month()}
		mc, ok := counts[key]
		if !ok {
			mc = &MonthlyCount{
				Year:   key.year,
				Month:  key.month,
				Season: features.SeasonOf(rec.IntakeDate),
			}
			counts[key] = mc
		}
		mc.Intakes++
		if rec.Adopted {
			mc.Adoptions++
		}
	}

	series := make([]MonthlyCount, 0, len(counts))
	for _, mc := range counts {
		series = append(series, *mc)
	}
	sort.Slice(series, func(i, j int) bool {
		if series[i].Year != series[j].Year {
			return series[i].Year < series[j].Year
		}
		return series[i].Month < series[j].Month
	})

	a.logger.DebugContext(ctx, "built monthly series", slog.Int("months", len(series)))

	return series
}

// AdoptionRates returns the adoption-rate table per animal type, sorted
// by type. Wildlife and still-in-care records are excluded from the
// denominator entirely.
func (a *Aggregator) AdoptionRates(ctx context.Context, ds *dataset.Dataset) []AdoptionRate {
	byType := make(map[string]*AdoptionRate)
	for i := range ds.Records {
		rec := &ds.Records[i]
		if rec.AnimalType == dataset.AnimalWildlife || !rec.HasOutcome() {
			continue
		}
		ar, ok := byType[rec.AnimalType]
		if !ok {
			ar = &AdoptionRate{AnimalType: rec.AnimalType}
			byType[rec.AnimalType] = ar
		}
		ar.Eligible++
		if rec.Adopted {
			ar.Adopted++
		}
	}

	rates := make([]AdoptionRate, 0, len(byType))
	for _, ar := range byType {
		if ar.Eligible > 0 {
			ar.Rate = float64(ar.Adopted) / float64(ar.Eligible)
		}
		rates = append(rates, *ar)
	}
	sort.Slice(rates, func(i, j int) bool {
		return rates[i].AnimalType < rates[j].AnimalType
	})

	a.logger.DebugContext(ctx, "built adoption rate table", slog.Int("animal_types", len(rates)))

	return rates
}

// Crosstab is a contingency table of counts for two categorical variables
type Crosstab struct {
	RowVar    Variable `json:"row_var"`
	ColVar    Variable `json:"col_var"`
	RowLevels []string `json:"row_levels"`
	ColLevels []string `json:"col_levels"`
	Counts    [][]int  `json:"counts"`
	N         int      `json:"n"`
}

// NewCrosstab cross-tabulates two categorical variables over the dataset.
// Records lacking a value for either variable (no outcome yet, empty
// category) are excluded from the table. Level order is sorted so output
// is deterministic.
func (a *Aggregator) NewCrosstab(ctx context.Context, ds *dataset.Dataset, rowVar, colVar Variable) (*Crosstab, error) {
	if rowVar == colVar {
		return nil, errors.NewValidationError(
			fmt.Sprintf("cross tabulation needs two distinct variables, got %q twice", rowVar))
	}

	cells := make(map[string]map[string]int)
	for i := range ds.Records {
		rec := &ds.Records[i]
		row, ok := variableValue(rec, rowVar)
		if !ok {
			continue
		}
		col, ok := variableValue(rec, colVar)
		if !ok {
			continue
		}
		if cells[row] == nil {
			cells[row] = make(map[string]int)
		}
		cells[row][col]++
	}

	rowLevels := make([]string, 0, len(cells))
	colSet := make(map[string]bool)
	for row, cols := range cells {
		rowLevels = append(rowLevels, row)
		for col := range cols {
			colSet[col] = true
		}
	}
	sort.Strings(rowLevels)

	colLevels := make([]string, 0, len(colSet))
	for col := range colSet {
		colLevels = append(colLevels, col)
	}
	sort.Strings(colLevels)

	table := &Crosstab{
		RowVar:    rowVar,
		ColVar:    colVar,
		RowLevels: rowLevels,
		ColLevels: colLevels,
		Counts:    make([][]int, len(rowLevels)),
	}
	for i, row := range rowLevels {
		table.Counts[i] = make([]int, len(colLevels))
		for j, col := range colLevels {
			table.Counts[i][j] = cells[row][col]
			table.N += cells[row][col]
		}
	}

	a.logger.DebugContext(ctx, "built contingency table",
		slog.String("rows", string(rowVar)),
		slog.String("cols", string(colVar)),
		slog.Int("n", table.N))

	return table, nil
}

// RowTotals returns the row marginal sums
func (t *Crosstab) RowTotals() []int {
	totals := make([]int, len(t.RowLevels))
	for i, row := range t.Counts {
		for _, c := range row {
			totals[i] += c
		}
	}
	return totals
}

// ColTotals returns the column marginal sums
func (t *Crosstab) ColTotals() []int {
	totals := make([]int, len(t.ColLevels))
	for _, row := range t.Counts {
		for j, c := range row {
			totals[j] += c
		}
	}
	return totals
}

// variableValue extracts a variable's value from a record. The second
// return is false when the record has no value for the variable, e.g. an
// animal still in care has no outcome type.
func variableValue(rec *dataset.Record, v Variable) (string, bool) {
	switch v {
	case VarAnimalType:
		return rec.AnimalType, rec.AnimalType != ""
	case VarIntakeType:
		return rec.IntakeType, rec.IntakeType != ""
	case VarOutcomeType:
		return rec.Outcome()
	default:
		return "", false
	}
}
