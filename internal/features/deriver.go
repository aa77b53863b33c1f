package features

import (
	"context"
	"log/slog"
	"time"

	"shelterstats/internal/dataset"
)

// Deriver computes the per-record derived attributes: the adoption flag,
// the intake season bucket, and the shelter-stay duration. Derivation is
// a pure function; the input dataset is not mutated.
type Deriver struct {
	logger *slog.Logger
}

// NewDeriver creates a feature deriver
func NewDeriver(logger *slog.Logger) *Deriver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Deriver{logger: logger}
}

// Derive returns a new dataset whose records carry the derived fields.
// A negative intake-to-outcome span is a data-quality condition: the stay
// duration is left nil and the record is flagged, matching the loader's
// treatment of unparseable cells.
func (d *Deriver) Derive(ctx context.Context, ds *dataset.Dataset) *dataset.Dataset {
	records := make([]dataset.Record, len(ds.Records))
	copy(records, ds.Records)

	var issues []dataset.ParseIssue
	unknownSeasons := 0

	for i := range records {
		rec := &records[i]

		outcome, ok := rec.Outcome()
		rec.Adopted = ok && outcome == dataset.OutcomeAdoption

		rec.IntakeSeason = SeasonOf(rec.IntakeDate)
		if rec.IntakeSeason == dataset.SeasonUnknown {
			unknownSeasons++
		}

		rec.StayDays = nil
		if rec.OutcomeDate != nil && rec.HasIntakeDate() {
			days := rec.OutcomeDate.Sub(rec.IntakeDate).Hours() / 24
			if days < 0 {
				issues = append(issues, dataset.ParseIssue{
					AnimalID: rec.AnimalID,
					Field:    "stay_duration_days",
					Reason:   "outcome date precedes intake date",
				})
			} else {
				stay := days
				rec.StayDays = &stay
			}
		}
	}

	d.logger.InfoContext(ctx, "derived record features",
		slog.Int("records", len(records)),
		slog.Int("unknown_seasons", unknownSeasons),
		slog.Int("negative_spans", len(issues)))

	out := &dataset.Dataset{Records: records, Issues: ds.Issues}
	if len(issues) > 0 {
		out = out.WithIssues(issues)
	}
	return out
}

// SeasonOf buckets a date into its meteorological season by month:
// Dec/Jan/Feb Winter, Mar/Apr/May Spring, Jun/Jul/Aug Summer,
// Sep/Oct/Nov Fall. A zero date (unparseable intake) maps to the
// explicit Unknown season, never to a default.
func SeasonOf(t time.Time) dataset.Season {
	if t.IsZero() {
		return dataset.SeasonUnknown
	}
	switch t.Month() {
	case time.December, time.January, time.February:
		return dataset.SeasonWinter
	case time.March, time.April, time.May:
		return dataset.SeasonSpring
	case time.June, time.July, time.August:
		return dataset.SeasonSummer
	default:
		return dataset.SeasonFall
	}
}
