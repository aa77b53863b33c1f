package exporter

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"shelterstats/internal/cleaning"
	"shelterstats/internal/dataset"
	"shelterstats/internal/errors"
	"shelterstats/internal/stats"
)

// summaryFormat tags the JSON envelope so the dashboard can detect
// incompatible layout changes.
const summaryFormat = "shelter_summary_v1"

// Summary is the structured export consumed by the dashboard: every test
// statistic as a value, never free text.
type Summary struct {
	RunID       string               `json:"run_id"`
	GeneratedAt string               `json:"generated_at"`
	Format      string               `json:"format"`
	Cleaning    *cleaning.Report     `json:"cleaning"`
	ParseIssues []dataset.ParseIssue `json:"parse_issues"`
	Tests       *stats.BatteryResult `json:"tests"`
}

// WriteSummary writes the summary JSON with its metadata envelope
func (e *Exporter) WriteSummary(ctx context.Context, runID string, report *cleaning.Report, issues []dataset.ParseIssue, battery *stats.BatteryResult) error {
	if issues == nil {
		issues = []dataset.ParseIssue{}
	}

	summary := Summary{
		RunID:       runID,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Format:      summaryFormat,
		Cleaning:    report,
		ParseIssues: issues,
		Tests:       battery,
	}

	path := e.csv.resolvePath(SummaryFile)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.NewStorageError("failed to create directory for summary", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return errors.NewStorageError("failed to create summary file", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(summary); err != nil {
		return errors.NewStorageError("failed to encode summary", err)
	}

	e.logger.InfoContext(ctx, "wrote summary",
		slog.String("file", SummaryFile),
		slog.Int("parse_issues", len(issues)))

	return nil
}
