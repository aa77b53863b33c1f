package dataset

import (
	"time"
)

// Season buckets an intake date by calendar month.
type Season string

const (
	SeasonWinter Season = "Winter"
	SeasonSpring Season = "Spring"
	SeasonSummer Season = "Summer"
	SeasonFall   Season = "Fall"
	// SeasonUnknown marks records whose intake date failed to parse.
	// It is an explicit category so such records are visible in counts
	// instead of being coerced into a real season.
	SeasonUnknown Season = "Unknown"
)

// Canonical category values referenced by the cleaning policy and the
// feature deriver. Categories are normalized to upper case at load time.
const (
	OutcomeAdoption     = "ADOPTION"
	OutcomeDisposal     = "DISPOSAL"
	OutcomeLostExpired  = "LOST-EXPIRED"
	OutcomeFoundExpired = "FOUND-EXPIRED"

	IntakeTypeDisposal = "DISPOSAL"
	ConditionDead      = "DEAD"

	KennelFound = "FOUND"
	KennelLost  = "LOST"

	AnimalWildlife = "WILDLIFE"
)

// Record is one animal-intake event. OutcomeType and OutcomeDate are nil
// while the animal is still in care; that third state is materially
// different from any concrete outcome and is never coerced to a default.
type Record struct {
	AnimalID        string
	Name            string
	AnimalType      string
	IntakeType      string
	IntakeCondition string
	IntakeDate      time.Time // zero when the raw value failed to parse
	OutcomeType     *string
	OutcomeDate     *time.Time
	KennelCode      string
	Breed           string
	Color           string

	// Derived attributes, filled once by the feature deriver and
	// immutable thereafter.
	Adopted      bool
	IntakeSeason Season
	StayDays     *float64 // nil while the animal is still in care
}

// HasOutcome reports whether the record has a recorded outcome
func (r *Record) HasOutcome() bool {
	return r.OutcomeType != nil
}

// Outcome returns the outcome type and whether one is recorded
func (r *Record) Outcome() (string, bool) {
	if r.OutcomeType == nil {
		return "", false
	}
	return *r.OutcomeType, true
}

// HasIntakeDate reports whether the intake date parsed successfully
func (r *Record) HasIntakeDate() bool {
	return !r.IntakeDate.IsZero()
}

// ParseIssue records a per-record data-quality problem found while loading
// or deriving. Offending records are flagged, never silently dropped, so
// downstream counts stay auditable.
type ParseIssue struct {
	Line     int    `json:"line"`
	AnimalID string `json:"animal_id"`
	Field    string `json:"field"`
	Value    string `json:"value"`
	Reason   string `json:"reason"`
}

// Dataset is an immutable record set plus the data-quality issues
// collected while producing it. Pipeline stages return new Dataset values
// and never mutate their input.
type Dataset struct {
	Records []Record
	Issues  []ParseIssue
}

// Len returns the number of records in the dataset
func (d *Dataset) Len() int {
	return len(d.Records)
}

// WithIssues returns a copy of the dataset carrying additional issues
func (d *Dataset) WithIssues(issues []ParseIssue) *Dataset {
	combined := make([]ParseIssue, 0, len(d.Issues)+len(issues))
	combined = append(combined, d.Issues...)
	combined = append(combined, issues...)
	return &Dataset{Records: d.Records, Issues: combined}
}
