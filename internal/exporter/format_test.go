package exporter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"shelterstats/internal/dataset"
)

func TestFormatOptionalDays(t *testing.T) {
	zero := 0.0
	week := 7.0

	assert.Equal(t, "", formatOptionalDays(nil), "still in care renders empty, never zero")
	assert.Equal(t, "0", formatOptionalDays(&zero))
	assert.Equal(t, "7", formatOptionalDays(&week))
}

func TestFormatDates(t *testing.T) {
	d := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "2024-03-05", formatDate(d))
	assert.Equal(t, "", formatDate(time.Time{}))
	assert.Equal(t, "2024-03-05", formatOptionalDate(&d))
	assert.Equal(t, "", formatOptionalDate(nil))
}

func TestFormatOutcome(t *testing.T) {
	labels := dataset.DefaultLabelTable()

	rto := "RTO"
	assert.Equal(t, "Return to Owner", formatOutcome(&dataset.Record{OutcomeType: &rto}, labels))

	unknown := "XYZZY"
	assert.Equal(t, "XYZZY", formatOutcome(&dataset.Record{OutcomeType: &unknown}, labels), "unknown codes pass through")

	assert.Equal(t, "", formatOutcome(&dataset.Record{}, labels))
}

func TestFormatFloat(t *testing.T) {
	assert.Equal(t, "0.3333", formatFloat(1.0/3.0))
	assert.Equal(t, "1.0000", formatFloat(1))
}
