package stats

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"shelterstats/internal/errors"
)

// WelchTTest runs the two-sample unequal-variance t-test between groups a
// and b with Welch–Satterthwaite degrees of freedom, returning the test
// statistic, two-sided p-value, group means, and the confidence interval
// for the mean difference (a minus b).
func WelchTTest(nameA string, a []float64, nameB string, b []float64, confidence float64) (*TTestResult, error) {
	if len(a) < 2 || len(b) < 2 {
		return nil, errors.NewInsufficientDataError(
			fmt.Sprintf("t-test needs at least 2 observations per group, have %s=%d %s=%d",
				nameA, len(a), nameB, len(b)))
	}
	if confidence <= 0 || confidence >= 1 {
		return nil, errors.NewValidationError(
			fmt.Sprintf("confidence level must be in (0,1), got %g", confidence))
	}

	meanA, meanB := stat.Mean(a, nil), stat.Mean(b, nil)
	varA, varB := stat.Variance(a, nil), stat.Variance(b, nil)
	na, nb := float64(len(a)), float64(len(b))

	seSq := varA/na + varB/nb
	if seSq == 0 {
		return nil, errors.NewInsufficientDataError(
			"t-test is undefined: both groups have zero variance")
	}
	se := math.Sqrt(seSq)

	// Welch–Satterthwaite degrees of freedom.
	df := seSq * seSq / ((varA/na)*(varA/na)/(na-1) + (varB/nb)*(varB/nb)/(nb-1))

	diff := meanA - meanB
	t := diff / se

	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	p := 2 * dist.Survival(math.Abs(t))
	tCrit := dist.Quantile(1 - (1-confidence)/2)

	return &TTestResult{
		GroupA:          nameA,
		GroupB:          nameB,
		NA:              len(a),
		NB:              len(b),
		MeanA:           meanA,
		MeanB:           meanB,
		T:               t,
		DF:              df,
		PValue:          p,
		ConfidenceLevel: confidence,
		CILow:           diff - tCrit*se,
		CIHigh:          diff + tCrit*se,
	}, nil
}
