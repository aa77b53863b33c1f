package stats

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"shelterstats/internal/dataset"
	"shelterstats/internal/errors"
)

// olsFormula is the fixed model specification from the capstone analysis
const olsFormula = "stay_duration_days ~ animal_type + intake_type + intake_season"

// olsFactor is one categorical predictor with its observed levels
type olsFactor struct {
	name   string
	levels []string
	value  func(*dataset.Record) string
}

// FitOLS fits the ordinary-least-squares model
// stay_duration_days ~ animal_type + intake_type + intake_season.
// Factors are dummy coded with the first level in sorted order as the
// reference. Only records with a defined stay duration and a known intake
// season participate.
func FitOLS(ds *dataset.Dataset) (*OLSResult, error) {
	var rows []*dataset.Record
	for i := range ds.Records {
		rec := &ds.Records[i]
		if rec.StayDays == nil || rec.IntakeSeason == dataset.SeasonUnknown {
			continue
		}
		rows = append(rows, rec)
	}

	factors := []olsFactor{
		{name: "animal_type", value: func(r *dataset.Record) string { return r.AnimalType }},
		{name: "intake_type", value: func(r *dataset.Record) string { return r.IntakeType }},
		{name: "intake_season", value: func(r *dataset.Record) string { return string(r.IntakeSeason) }},
	}
	for fi := range factors {
		seen := make(map[string][]float64)
		for _, rec := range rows {
			seen[factors[fi].value(rec)] = nil
		}
		factors[fi].levels = sortedLevels(seen)
		if len(factors[fi].levels) < 2 {
			return nil, errors.NewInsufficientDataError(
				fmt.Sprintf("linear model factor %s has fewer than 2 levels among the %d usable records",
					factors[fi].name, len(rows)))
		}
	}

	// Intercept plus one dummy column per non-reference level.
	p := 1
	for _, f := range factors {
		p += len(f.levels) - 1
	}
	n := len(rows)
	if n <= p {
		return nil, errors.NewInsufficientDataError(
			fmt.Sprintf("linear model needs more than %d observations for %d parameters, have %d", p, p, n))
	}

	names := make([]string, 0, p)
	names = append(names, "(Intercept)")
	for _, f := range factors {
		for _, level := range f.levels[1:] {
			names = append(names, fmt.Sprintf("%s:%s", f.name, level))
		}
	}

	X := mat.NewDense(n, p, nil)
	y := mat.NewVecDense(n, nil)
	for i, rec := range rows {
		X.Set(i, 0, 1)
		col := 1
		for _, f := range factors {
			v := f.value(rec)
			for _, level := range f.levels[1:] {
				if v == level {
					X.Set(i, col, 1)
				}
				col++
			}
		}
		y.SetVec(i, *rec.StayDays)
	}

	var qr mat.QR
	qr.Factorize(X)
	var beta mat.Dense
	if err := qr.SolveTo(&beta, false, y); err != nil {
		return nil, errors.NewInsufficientDataError(
			"linear model design matrix is rank deficient; factor levels are confounded")
	}

	var fitted mat.Dense
	fitted.Mul(X, &beta)

	mean := 0.0
	for i := 0; i < n; i++ {
		mean += y.AtVec(i)
	}
	mean /= float64(n)

	var sse, sst float64
	for i := 0; i < n; i++ {
		r := y.AtVec(i) - fitted.At(i, 0)
		sse += r * r
		d := y.AtVec(i) - mean
		sst += d * d
	}
	if sst == 0 {
		return nil, errors.NewInsufficientDataError(
			"stay duration has zero variance; linear model is undefined")
	}

	dfModel := p - 1
	dfResidual := n - p
	f := ((sst - sse) / float64(dfModel)) / (sse / float64(dfResidual))
	pValue := math.NaN()
	if !math.IsInf(f, 0) && !math.IsNaN(f) {
		fDist := distuv.F{D1: float64(dfModel), D2: float64(dfResidual)}
		pValue = fDist.Survival(f)
	}

	coefs := make([]Coefficient, p)
	for j := 0; j < p; j++ {
		coefs[j] = Coefficient{Name: names[j], Estimate: beta.At(j, 0)}
	}

	return &OLSResult{
		Formula:        olsFormula,
		N:              n,
		Coefficients:   coefs,
		RSquared:       1 - sse/sst,
		ResidualStdErr: math.Sqrt(sse / float64(dfResidual)),
		FStatistic:     f,
		DFModel:        dfModel,
		DFResidual:     dfResidual,
		PValue:         pValue,
	}, nil
}
