package exporter

import (
	"fmt"
	"time"

	"shelterstats/internal/dataset"
)

// formatFloat formats a statistic for CSV output with 4 decimal places
func formatFloat(f float64) string {
	return fmt.Sprintf("%.4f", f)
}

// formatInt formats an int value for CSV output
func formatInt(i int) string {
	return fmt.Sprintf("%d", i)
}

// formatBool formats a boolean value for CSV output
func formatBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// formatDate formats a date, empty for the zero value
func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

// formatOptionalDate formats a nullable date, empty when nil
func formatOptionalDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

// formatOptionalDays formats a nullable stay duration, empty when the
// animal is still in care. Zero and missing are different states and must
// render differently.
func formatOptionalDays(d *float64) string {
	if d == nil {
		return ""
	}
	return fmt.Sprintf("%.0f", *d)
}

// formatOutcome formats the nullable outcome with display labels applied
func formatOutcome(rec *dataset.Record, labels *dataset.LabelTable) string {
	outcome, ok := rec.Outcome()
	if !ok {
		return ""
	}
	return labels.Lookup(outcome)
}
