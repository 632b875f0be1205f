package tdist

import (
	"fmt"
	"math"

	"ttestcalc/domain/core"

	"gonum.org/v1/gonum/stat/distuv"
)

// StudentsTQuantile resolves t-distribution quantiles with gonum
type StudentsTQuantile struct{}

// NewStudentsTQuantile creates a new quantile adapter
func NewStudentsTQuantile() *StudentsTQuantile {
	return &StudentsTQuantile{}
}

// Quantile returns the inverse CDF of the standard t distribution with df degrees of freedom
func (q *StudentsTQuantile) Quantile(p float64, df int) (float64, error) {
	if df < 1 {
		return 0, core.NewInvalidInputError("degrees of freedom", fmt.Sprintf("must be at least 1, got %d", df))
	}
	if math.IsNaN(p) || p <= 0 || p >= 1 {
		return 0, core.NewInvalidInputError("probability", fmt.Sprintf("must lie in (0,1), got %v", p))
	}

	tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(df)}
	return tDist.Quantile(p), nil
}

// CDF returns P(T <= t) for T ~ t(df); used to cross-check quantiles
func (q *StudentsTQuantile) CDF(t float64, df int) float64 {
	if df < 1 {
		return math.NaN()
	}
	tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(df)}
	return tDist.CDF(t)
}
