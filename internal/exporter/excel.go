package exporter

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"shelterstats/internal/aggregate"
	"shelterstats/internal/errors"
	"shelterstats/internal/stats"
)

// WorkbookInput bundles everything the dashboard workbook mirrors
type WorkbookInput struct {
	Monthly []aggregate.MonthlyCount
	Rates   []aggregate.AdoptionRate
	Tables  []*aggregate.Crosstab
	Battery *stats.BatteryResult
}

// WriteWorkbook writes the Excel report workbook: one sheet per artifact,
// with display labels applied. The workbook duplicates the CSV/JSON
// exports for consumers that want a single file.
func (e *Exporter) WriteWorkbook(ctx context.Context, input WorkbookInput) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := e.writeMonthlySheet(f, input.Monthly); err != nil {
		return err
	}
	if err := e.writeRatesSheet(f, input.Rates); err != nil {
		return err
	}
	for _, table := range input.Tables {
		if err := e.writeCrosstabSheet(f, table); err != nil {
			return err
		}
	}
	if err := e.writeTestsSheet(f, input.Battery); err != nil {
		return err
	}

	path := e.csv.resolvePath(WorkbookFile)
	if err := f.SaveAs(path); err != nil {
		return errors.NewStorageError("failed to save report workbook", err)
	}

	e.logger.InfoContext(ctx, "wrote report workbook", slog.String("file", WorkbookFile))

	return nil
}

// setRow writes one row of values starting at column 1
func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return fmt.Errorf("invalid cell coordinates: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return fmt.Errorf("failed to set cell %s: %w", cell, err)
		}
	}
	return nil
}

func (e *Exporter) writeMonthlySheet(f *excelize.File, series []aggregate.MonthlyCount) error {
	const sheet = "Monthly Series"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return errors.NewStorageError("failed to name monthly sheet", err)
	}

	if err := setRow(f, sheet, 1, []interface{}{"Year", "Month", "Season", "Intakes", "Adoptions"}); err != nil {
		return errors.NewStorageError("failed to write monthly sheet header", err)
	}
	for i, mc := range series {
		row := []interface{}{mc.Year, mc.Month.String(), string(mc.Season), mc.Intakes, mc.Adoptions}
		if err := setRow(f, sheet, i+2, row); err != nil {
			return errors.NewStorageError("failed to write monthly sheet row", err)
		}
	}
	return nil
}

func (e *Exporter) writeRatesSheet(f *excelize.File, rates []aggregate.AdoptionRate) error {
	const sheet = "Adoption Rates"
	if _, err := f.NewSheet(sheet); err != nil {
		return errors.NewStorageError("failed to create rates sheet", err)
	}

	if err := setRow(f, sheet, 1, []interface{}{"Animal Type", "Eligible", "Adopted", "Rate"}); err != nil {
		return errors.NewStorageError("failed to write rates sheet header", err)
	}
	for i, ar := range rates {
		row := []interface{}{e.labels.Lookup(ar.AnimalType), ar.Eligible, ar.Adopted, ar.Rate}
		if err := setRow(f, sheet, i+2, row); err != nil {
			return errors.NewStorageError("failed to write rates sheet row", err)
		}
	}
	return nil
}

func (e *Exporter) writeCrosstabSheet(f *excelize.File, table *aggregate.Crosstab) error {
	sheet := fmt.Sprintf("%s x %s", table.RowVar, table.ColVar)
	if _, err := f.NewSheet(sheet); err != nil {
		return errors.NewStorageError("failed to create contingency sheet", err)
	}

	header := []interface{}{""}
	for _, col := range table.ColLevels {
		header = append(header, e.labels.Lookup(col))
	}
	if err := setRow(f, sheet, 1, header); err != nil {
		return errors.NewStorageError("failed to write contingency header", err)
	}
	for i, rowLevel := range table.RowLevels {
		row := []interface{}{e.labels.Lookup(rowLevel)}
		for j := range table.ColLevels {
			row = append(row, table.Counts[i][j])
		}
		if err := setRow(f, sheet, i+2, row); err != nil {
			return errors.NewStorageError("failed to write contingency row", err)
		}
	}
	return nil
}

// writeTestsSheet renders every battery result as statistic/value rows
func (e *Exporter) writeTestsSheet(f *excelize.File, battery *stats.BatteryResult) error {
	const sheet = "Test Results"
	if _, err := f.NewSheet(sheet); err != nil {
		return errors.NewStorageError("failed to create tests sheet", err)
	}

	rows := [][]interface{}{{"Test", "Statistic", "Value"}}

	if battery != nil {
		if m := battery.LinearModel; m != nil {
			rows = append(rows,
				[]interface{}{"linear_model", "formula", m.Formula},
				[]interface{}{"linear_model", "n", m.N},
				[]interface{}{"linear_model", "r_squared", m.RSquared},
				[]interface{}{"linear_model", "residual_std_err", m.ResidualStdErr},
				[]interface{}{"linear_model", "f_statistic", m.FStatistic},
				[]interface{}{"linear_model", "p_value", m.PValue},
			)
			for _, c := range m.Coefficients {
				rows = append(rows, []interface{}{"linear_model", "coef " + c.Name, c.Estimate})
			}
		}
		if a := battery.ANOVA; a != nil {
			rows = append(rows,
				[]interface{}{"anova", "f_statistic", a.FStatistic},
				[]interface{}{"anova", "df", fmt.Sprintf("%d, %d", a.DFBetween, a.DFWithin)},
				[]interface{}{"anova", "p_value", a.PValue},
			)
		}
		if k := battery.KruskalWallis; k != nil {
			rows = append(rows,
				[]interface{}{"kruskal_wallis", "h_statistic", k.H},
				[]interface{}{"kruskal_wallis", "df", k.DF},
				[]interface{}{"kruskal_wallis", "p_value", k.PValue},
			)
		}
		if d := battery.Dunn; d != nil {
			for _, c := range d.Comparisons {
				pair := fmt.Sprintf("%s vs %s (%s)", c.LevelA, c.LevelB, d.Adjustment)
				rows = append(rows, []interface{}{"dunn", pair, c.AdjustedP})
			}
		}
		if t := battery.WelchT; t != nil {
			rows = append(rows,
				[]interface{}{"welch_t", "t_statistic", t.T},
				[]interface{}{"welch_t", "df", t.DF},
				[]interface{}{"welch_t", "p_value", t.PValue},
				[]interface{}{"welch_t", "mean_" + t.GroupA, t.MeanA},
				[]interface{}{"welch_t", "mean_" + t.GroupB, t.MeanB},
				[]interface{}{"welch_t", "ci_low", t.CILow},
				[]interface{}{"welch_t", "ci_high", t.CIHigh},
			)
		}
		for _, c := range battery.ChiSquare {
			name := fmt.Sprintf("chi_square %s x %s", c.RowVar, c.ColVar)
			rows = append(rows,
				[]interface{}{name, "statistic", c.Statistic},
				[]interface{}{name, "df", c.DF},
				[]interface{}{name, "p_value", c.PValue},
				[]interface{}{name, "simulated", c.Simulated},
				[]interface{}{name, "cramers_v", c.CramersV},
			)
		}
	}

	for i, row := range rows {
		if err := setRow(f, sheet, i+1, row); err != nil {
			return errors.NewStorageError("failed to write tests sheet row", err)
		}
	}
	return nil
}
