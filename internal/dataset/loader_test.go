package dataset

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const snapshotHeader = "Animal ID,Animal Name,Animal Type,Intake Type,Intake Condition,Intake Date,Outcome Type,Outcome Date,Kennel Code,Breed,Color\n"

func loadSnapshot(t *testing.T, rows string) *Dataset {
	t.Helper()
	loader := NewLoader(nil, LoaderConfig{})
	ds, err := loader.Read(context.Background(), strings.NewReader(snapshotHeader+rows))
	require.NoError(t, err)
	return ds
}

func TestLoader_Read(t *testing.T) {
	ds := loadSnapshot(t,
		"A001,Rex,dog,stray,healthy,2024-01-10,adoption,2024-01-25,ADOPT,Terrier,Brown\n"+
			"A002,,cat,owner surrender,sick,2024-02-03,,,HOLD,,Black\n")

	require.Len(t, ds.Records, 2)
	assert.Empty(t, ds.Issues)

	rex := ds.Records[0]
	assert.Equal(t, "A001", rex.AnimalID)
	assert.Equal(t, "DOG", rex.AnimalType, "categories normalize to upper case")
	assert.Equal(t, "STRAY", rex.IntakeType)
	require.True(t, rex.HasOutcome())
	outcome, ok := rex.Outcome()
	require.True(t, ok)
	assert.Equal(t, OutcomeAdoption, outcome)
	require.NotNil(t, rex.OutcomeDate)
	assert.Equal(t, "2024-01-25", rex.OutcomeDate.Format("2006-01-02"))

	inCare := ds.Records[1]
	assert.False(t, inCare.HasOutcome(), "empty outcome means still in care, not a parse problem")
	assert.Nil(t, inCare.OutcomeType)
	assert.Nil(t, inCare.OutcomeDate)
}

func TestLoader_Read_HeaderVariants(t *testing.T) {
	// Same columns, different spelling and order
	csv := "intake_date,OUTCOME-TYPE,animal_id,AnimalType,Intake Type,outcome_date\n" +
		"2024-03-01,adoption,A010,dog,stray,2024-03-15\n"

	loader := NewLoader(nil, LoaderConfig{})
	ds, err := loader.Read(context.Background(), strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, ds.Records, 1)
	assert.Equal(t, "A010", ds.Records[0].AnimalID)
	assert.Equal(t, "DOG", ds.Records[0].AnimalType)
}

func TestLoader_Read_MissingRequiredColumn(t *testing.T) {
	csv := "animal_id,animal_type,intake_type,intake_date,outcome_type\n" +
		"A001,dog,stray,2024-01-01,adoption\n"

	loader := NewLoader(nil, LoaderConfig{})
	_, err := loader.Read(context.Background(), strings.NewReader(csv))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "outcome_date")
}

func TestLoader_Read_FlagsBadDates(t *testing.T) {
	tests := []struct {
		name      string
		row       string
		wantField string
		wantKept  bool
	}{
		{
			name:      "unparseable intake date",
			row:       "A001,Rex,dog,stray,healthy,not-a-date,adoption,2024-01-25,ADOPT,,",
			wantField: "intake_date",
			wantKept:  true,
		},
		{
			name:      "missing intake date",
			row:       "A002,Rex,dog,stray,healthy,,adoption,2024-01-25,ADOPT,,",
			wantField: "intake_date",
			wantKept:  true,
		},
		{
			name:      "unparseable outcome date",
			row:       "A003,Rex,dog,stray,healthy,2024-01-10,adoption,25/01/2024,ADOPT,,",
			wantField: "outcome_date",
			wantKept:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds := loadSnapshot(t, tt.row+"\n")

			require.Len(t, ds.Records, 1, "flagged records are kept, not dropped")
			require.Len(t, ds.Issues, 1)
			assert.Equal(t, tt.wantField, ds.Issues[0].Field)
			assert.Equal(t, 2, ds.Issues[0].Line)
		})
	}
}

func TestLoader_Read_RaggedRow(t *testing.T) {
	// Short row: trailing columns read as empty
	ds := loadSnapshot(t, "A001,Rex,dog,stray,healthy,2024-01-10,adoption,2024-01-20\n")

	require.Len(t, ds.Records, 1)
	assert.Empty(t, ds.Records[0].KennelCode)
	assert.Empty(t, ds.Records[0].Breed)
}

func TestLoader_Read_CustomDateFormat(t *testing.T) {
	loader := NewLoader(nil, LoaderConfig{DateFormat: "01/02/2006"})
	csv := snapshotHeader + "A001,Rex,dog,stray,healthy,03/15/2024,adoption,03/20/2024,ADOPT,,\n"

	ds, err := loader.Read(context.Background(), strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, ds.Records, 1)
	assert.Empty(t, ds.Issues)
	assert.Equal(t, "2024-03-15", ds.Records[0].IntakeDate.Format("2006-01-02"))
}

func TestDataset_WithIssues(t *testing.T) {
	ds := &Dataset{
		Records: []Record{{AnimalID: "A001"}},
		Issues:  []ParseIssue{{Line: 2, Field: "intake_date"}},
	}

	combined := ds.WithIssues([]ParseIssue{{Line: 3, Field: "outcome_date"}})

	assert.Len(t, combined.Issues, 2)
	assert.Len(t, ds.Issues, 1, "original dataset is not mutated")
	assert.Equal(t, ds.Records, combined.Records)
}
