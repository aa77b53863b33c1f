package exporter

import (
	"context"
	"fmt"
	"log/slog"

	"shelterstats/internal/aggregate"
	"shelterstats/internal/dataset"
	"shelterstats/internal/errors"
)

// Artifact file names under the reports directory
const (
	CleanedRecordsFile = "cleaned_records.csv"
	MonthlySeriesFile  = "monthly_series.csv"
	AdoptionRatesFile  = "adoption_rates.csv"
	SummaryFile        = "summary.json"
	WorkbookFile       = "shelter_report.xlsx"
)

// Exporter writes the cleaned dataset and every summary artifact for the
// dashboard collaborator. Display labels are applied only here; the
// statistical pipeline always sees raw canonical categories.
type Exporter struct {
	csv    *CSVWriter
	labels *dataset.LabelTable
	logger *slog.Logger
}

// New creates an exporter rooted at the reports directory
func New(outDir string, labels *dataset.LabelTable, logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	if labels == nil {
		labels = dataset.DefaultLabelTable()
	}
	return &Exporter{
		csv:    NewCSVWriter(outDir),
		labels: labels,
		logger: logger,
	}
}

// cleanedHeaders is the column layout of the cleaned-records export
var cleanedHeaders = []string{
	"AnimalID", "Name", "AnimalType", "IntakeType", "IntakeCondition",
	"IntakeDate", "OutcomeType", "OutcomeDate", "KennelCode", "Breed",
	"Color", "Adopted", "IntakeSeason", "StayDurationDays",
}

// WriteCleanedRecords streams the cleaned and derived dataset to CSV
func (e *Exporter) WriteCleanedRecords(ctx context.Context, ds *dataset.Dataset) error {
	stream, err := e.csv.CreateStreamWriter(CleanedRecordsFile, cleanedHeaders)
	if err != nil {
		return errors.NewStorageError("failed to create cleaned records export", err)
	}

	for i := range ds.Records {
		rec := &ds.Records[i]
		row := []string{
			rec.AnimalID,
			rec.Name,
			e.labels.Lookup(rec.AnimalType),
			e.labels.Lookup(rec.IntakeType),
			e.labels.Lookup(rec.IntakeCondition),
			formatDate(rec.IntakeDate),
			formatOutcome(rec, e.labels),
			formatOptionalDate(rec.OutcomeDate),
			rec.KennelCode,
			rec.Breed,
			rec.Color,
			formatBool(rec.Adopted),
			string(rec.IntakeSeason),
			formatOptionalDays(rec.StayDays),
		}
		if err := stream.WriteRecord(row); err != nil {
			stream.Close()
			return errors.NewStorageError("failed to write cleaned record", err)
		}
	}

	if err := stream.Close(); err != nil {
		return errors.NewStorageError("failed to finish cleaned records export", err)
	}

	e.logger.InfoContext(ctx, "wrote cleaned records",
		slog.String("file", CleanedRecordsFile),
		slog.Int("records", len(ds.Records)))

	return nil
}

// WriteMonthlySeries writes the month-by-season intake/adoption series
func (e *Exporter) WriteMonthlySeries(ctx context.Context, series []aggregate.MonthlyCount) error {
	headers := []string{"Year", "Month", "Season", "Intakes", "Adoptions"}
	records := make([][]string, 0, len(series))
	for _, mc := range series {
		records = append(records, []string{
			formatInt(mc.Year),
			mc.Month.String(),
			string(mc.Season),
			formatInt(mc.Intakes),
			formatInt(mc.Adoptions),
		})
	}

	if err := e.csv.WriteSimpleCSV(MonthlySeriesFile, headers, records); err != nil {
		return errors.NewStorageError("failed to write monthly series", err)
	}
	return nil
}

// WriteAdoptionRates writes the per-animal-type adoption rate table
func (e *Exporter) WriteAdoptionRates(ctx context.Context, rates []aggregate.AdoptionRate) error {
	headers := []string{"AnimalType", "Eligible", "Adopted", "Rate"}
	records := make([][]string, 0, len(rates))
	for _, ar := range rates {
		records = append(records, []string{
			e.labels.Lookup(ar.AnimalType),
			formatInt(ar.Eligible),
			formatInt(ar.Adopted),
			formatFloat(ar.Rate),
		})
	}

	if err := e.csv.WriteSimpleCSV(AdoptionRatesFile, headers, records); err != nil {
		return errors.NewStorageError("failed to write adoption rates", err)
	}
	return nil
}

// WriteCrosstab writes one contingency table with row/column labels
func (e *Exporter) WriteCrosstab(ctx context.Context, table *aggregate.Crosstab) error {
	headers := make([]string, 0, len(table.ColLevels)+1)
	headers = append(headers, fmt.Sprintf("%s \\ %s", table.RowVar, table.ColVar))
	for _, col := range table.ColLevels {
		headers = append(headers, e.labels.Lookup(col))
	}

	records := make([][]string, 0, len(table.RowLevels))
	for i, row := range table.RowLevels {
		record := make([]string, 0, len(table.ColLevels)+1)
		record = append(record, e.labels.Lookup(row))
		for j := range table.ColLevels {
			record = append(record, formatInt(table.Counts[i][j]))
		}
		records = append(records, record)
	}

	file := fmt.Sprintf("contingency_%s_x_%s.csv", table.RowVar, table.ColVar)
	if err := e.csv.WriteSimpleCSV(file, headers, records); err != nil {
		return errors.NewStorageError("failed to write contingency table", err)
	}
	return nil
}
