package stats

import (
	"sort"

	"shelterstats/internal/dataset"
)

// StayByAnimalType groups defined stay durations by animal type. Records
// still in care (nil stay) do not participate in any duration analysis.
func StayByAnimalType(ds *dataset.Dataset) map[string][]float64 {
	groups := make(map[string][]float64)
	for i := range ds.Records {
		rec := &ds.Records[i]
		if rec.StayDays == nil || rec.AnimalType == "" {
			continue
		}
		groups[rec.AnimalType] = append(groups[rec.AnimalType], *rec.StayDays)
	}
	return groups
}

// StayByAdoption splits defined stay durations into adopted and
// not-adopted groups. The not-adopted group contains only records with a
// concrete non-adoption outcome; animals still in care have no stay
// duration and fall into neither group.
func StayByAdoption(ds *dataset.Dataset) (adopted, notAdopted []float64) {
	for i := range ds.Records {
		rec := &ds.Records[i]
		if rec.StayDays == nil {
			continue
		}
		if rec.Adopted {
			adopted = append(adopted, *rec.StayDays)
		} else {
			notAdopted = append(notAdopted, *rec.StayDays)
		}
	}
	return adopted, notAdopted
}

// sortedLevels returns the group keys in sorted order for deterministic
// iteration and reference-level selection.
func sortedLevels(groups map[string][]float64) []string {
	levels := make([]string, 0, len(groups))
	for level := range groups {
		levels = append(levels, level)
	}
	sort.Strings(levels)
	return levels
}

// averageRanks assigns 1-based ranks to xs with ties averaged, returning
// the rank of each element in input order plus the tie-correction sum
// Σ(t³−t) over tie groups.
func averageRanks(xs []float64) (ranks []float64, tieSum float64) {
	n := len(xs)
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool { return xs[idx[a]] < xs[idx[b]] })

	ranks = make([]float64, n)
	for i := 0; i < n; {
		j := i
		for j < n && xs[idx[j]] == xs[idx[i]] {
			j++
		}
		// Positions i..j-1 share the averaged rank.
		avg := float64(i+j+1) / 2
		for k := i; k < j; k++ {
			ranks[idx[k]] = avg
		}
		t := float64(j - i)
		if t > 1 {
			tieSum += t*t*t - t
		}
		i = j
	}

	return ranks, tieSum
}
