package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shelterstats/internal/dataset"
)

func stay(days float64) *float64 { return &days }

func TestStayByAnimalType(t *testing.T) {
	ds := &dataset.Dataset{Records: []dataset.Record{
		{AnimalType: "DOG", StayDays: stay(3)},
		{AnimalType: "DOG", StayDays: stay(7)},
		{AnimalType: "CAT", StayDays: stay(12)},
		{AnimalType: "CAT", StayDays: nil}, // still in care
		{AnimalType: "", StayDays: stay(5)},
	}}

	groups := StayByAnimalType(ds)

	require.Len(t, groups, 2)
	assert.Equal(t, []float64{3, 7}, groups["DOG"])
	assert.Equal(t, []float64{12}, groups["CAT"], "nil stays never join a group")
}

func TestStayByAdoption(t *testing.T) {
	ds := &dataset.Dataset{Records: []dataset.Record{
		{Adopted: true, StayDays: stay(4)},
		{Adopted: true, StayDays: stay(6)},
		{Adopted: false, StayDays: stay(20)},
		{Adopted: false, StayDays: nil}, // in care: neither group
	}}

	adopted, notAdopted := StayByAdoption(ds)

	assert.Equal(t, []float64{4, 6}, adopted)
	assert.Equal(t, []float64{20}, notAdopted)
}

func TestAverageRanks(t *testing.T) {
	t.Run("no ties", func(t *testing.T) {
		ranks, tieSum := averageRanks([]float64{10, 30, 20})
		assert.Equal(t, []float64{1, 3, 2}, ranks)
		assert.Zero(t, tieSum)
	})

	t.Run("ties share the averaged rank", func(t *testing.T) {
		ranks, tieSum := averageRanks([]float64{3, 1, 4, 1, 5})
		assert.Equal(t, []float64{3, 1.5, 4, 1.5, 5}, ranks)
		assert.InDelta(t, 6.0, tieSum, 1e-12, "one tie group of 2 contributes 2³-2")
	})

	t.Run("all tied", func(t *testing.T) {
		ranks, tieSum := averageRanks([]float64{7, 7, 7})
		assert.Equal(t, []float64{2, 2, 2}, ranks)
		assert.InDelta(t, 24.0, tieSum, 1e-12)
	})
}
