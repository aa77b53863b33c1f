package dataset

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"shelterstats/internal/errors"
)

// Loader reads the intake/outcome snapshot CSV into Records. Columns are
// located by header name so the snapshot's column order does not matter.
type Loader struct {
	logger     *slog.Logger
	dateFormat string
}

// LoaderConfig holds configuration options for the Loader.
type LoaderConfig struct {
	DateFormat string // Format for date columns, defaults to 2006-01-02
}

// NewLoader creates a new snapshot loader
func NewLoader(logger *slog.Logger, cfg LoaderConfig) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.DateFormat == "" {
		cfg.DateFormat = "2006-01-02"
	}
	return &Loader{
		logger:     logger,
		dateFormat: cfg.DateFormat,
	}
}

// columnIndices maps the snapshot's columns to their positions
type columnIndices struct {
	animalID, name, animalType, intakeType, intakeCondition int
	intakeDate, outcomeType, outcomeDate                    int
	kennelCode, breed, color                                int
}

// Load parses the CSV at path into a Dataset. Malformed date cells are
// collected as ParseIssues on the returned Dataset; only a missing file,
// an unreadable stream, or a header without the required columns fails
// the load outright.
func (l *Loader) Load(ctx context.Context, path string) (*Dataset, error) {
	l.logger.InfoContext(ctx, "loading intake snapshot", slog.String("path", path))

	file, err := os.Open(path)
	if err != nil {
		return nil, errors.NewStorageError("failed to open snapshot file", err)
	}
	defer file.Close()

	ds, err := l.Read(ctx, file)
	if err != nil {
		return nil, err
	}

	l.logger.InfoContext(ctx, "loaded intake snapshot",
		slog.Int("records", len(ds.Records)),
		slog.Int("parse_issues", len(ds.Issues)))

	return ds, nil
}

// Read parses CSV rows from r into a Dataset
func (l *Loader) Read(ctx context.Context, r io.Reader) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // tolerate ragged rows, flagged per record

	header, err := reader.Read()
	if err != nil {
		return nil, errors.NewParsingError("failed to read snapshot header", err)
	}

	cols, err := mapColumns(header)
	if err != nil {
		return nil, err
	}

	ds := &Dataset{}
	line := 1 // header consumed

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			ds.Issues = append(ds.Issues, ParseIssue{
				Line:   line,
				Reason: fmt.Sprintf("unreadable row: %v", err),
			})
			continue
		}

		rec, issues := l.parseRow(row, cols, line)
		ds.Issues = append(ds.Issues, issues...)
		ds.Records = append(ds.Records, rec)
	}

	return ds, nil
}

// parseRow converts one CSV row into a Record, collecting issues for any
// cell that fails to parse. The record is always returned; data-quality
// problems are flagged, not dropped.
func (l *Loader) parseRow(row []string, cols columnIndices, line int) (Record, []ParseIssue) {
	var issues []ParseIssue

	cell := func(idx int) string {
		if idx < 0 || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}
	category := func(idx int) string {
		return strings.ToUpper(cell(idx))
	}

	rec := Record{
		AnimalID:        cell(cols.animalID),
		Name:            cell(cols.name),
		AnimalType:      category(cols.animalType),
		IntakeType:      category(cols.intakeType),
		IntakeCondition: category(cols.intakeCondition),
		KennelCode:      category(cols.kennelCode),
		Breed:           cell(cols.breed),
		Color:           cell(cols.color),
	}

	if raw := cell(cols.intakeDate); raw == "" {
		issues = append(issues, ParseIssue{
			Line: line, AnimalID: rec.AnimalID,
			Field: "intake_date", Value: raw, Reason: "missing intake date",
		})
	} else if t, err := time.Parse(l.dateFormat, raw); err != nil {
		issues = append(issues, ParseIssue{
			Line: line, AnimalID: rec.AnimalID,
			Field: "intake_date", Value: raw, Reason: "unparseable intake date",
		})
	} else {
		rec.IntakeDate = t
	}

	// Empty outcome cells mean the animal is still in care, which is a
	// valid state, not a parse problem.
	if raw := category(cols.outcomeType); raw != "" {
		outcome := raw
		rec.OutcomeType = &outcome
	}
	if raw := cell(cols.outcomeDate); raw != "" {
		if t, err := time.Parse(l.dateFormat, raw); err != nil {
			issues = append(issues, ParseIssue{
				Line: line, AnimalID: rec.AnimalID,
				Field: "outcome_date", Value: raw, Reason: "unparseable outcome date",
			})
		} else {
			rec.OutcomeDate = &t
		}
	}

	return rec, issues
}

// mapColumns locates each known column in the header. Required columns
// must be present; optional descriptive columns may be absent.
func mapColumns(header []string) (columnIndices, error) {
	cols := columnIndices{
		animalID: -1, name: -1, animalType: -1, intakeType: -1,
		intakeCondition: -1, intakeDate: -1, outcomeType: -1,
		outcomeDate: -1, kennelCode: -1, breed: -1, color: -1,
	}

	for i, raw := range header {
		switch normalizeHeader(raw) {
		case "animalid", "id":
			cols.animalID = i
		case "animalname", "name":
			cols.name = i
		case "animaltype", "type":
			cols.animalType = i
		case "intaketype":
			cols.intakeType = i
		case "intakecondition", "condition":
			cols.intakeCondition = i
		case "intakedate":
			cols.intakeDate = i
		case "outcometype":
			cols.outcomeType = i
		case "outcomedate":
			cols.outcomeDate = i
		case "kennelcode", "kennelstatus":
			cols.kennelCode = i
		case "breed":
			cols.breed = i
		case "color", "colour":
			cols.color = i
		}
	}

	required := map[string]int{
		"animal_id":    cols.animalID,
		"animal_type":  cols.animalType,
		"intake_type":  cols.intakeType,
		"intake_date":  cols.intakeDate,
		"outcome_type": cols.outcomeType,
		"outcome_date": cols.outcomeDate,
	}
	for name, idx := range required {
		if idx < 0 {
			return cols, errors.NewParsingError(
				fmt.Sprintf("snapshot header is missing required column %q", name), nil)
		}
	}

	return cols, nil
}

// normalizeHeader lowercases a header cell and strips spaces, underscores
// and hyphens so "Intake Type", "intake_type" and "IntakeType" all match.
func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	h = strings.NewReplacer(" ", "", "_", "", "-", "").Replace(h)
	return h
}
