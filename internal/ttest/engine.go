package ttest

import (
	"fmt"
	"math"

	"ttestcalc/adapters/stats/tdist"
	"ttestcalc/domain/core"
	"ttestcalc/domain/hypothesis"
	"ttestcalc/ports"
)

// Engine computes two-sample t-tests from summary statistics.
// It holds no mutable state and is safe for concurrent use.
type Engine struct {
	quantile ports.QuantilePort
}

// NewEngine creates an engine backed by the gonum t distribution
func NewEngine() *Engine {
	return NewEngineWithQuantile(tdist.NewStudentsTQuantile())
}

// NewEngineWithQuantile creates an engine with a caller-supplied quantile function
func NewEngineWithQuantile(q ports.QuantilePort) *Engine {
	return &Engine{quantile: q}
}

// Compute runs the test for one request
func (e *Engine) Compute(req hypothesis.Request) (*hypothesis.TestResult, error) {
	req = req.WithDefaults()
	return e.ComputeWithAlpha(req.SampleA, req.SampleB, req.Direction, req.Alpha)
}

// ComputeWithAlpha tests sample A against sample B in the given direction.
// No partial result is returned on error.
func (e *Engine) ComputeWithAlpha(a, b hypothesis.SampleSummary, direction hypothesis.Direction, alpha float64) (*hypothesis.TestResult, error) {
	if err := validateSample("sample A", a); err != nil {
		return nil, err
	}
	if err := validateSample("sample B", b); err != nil {
		return nil, err
	}
	if math.IsNaN(alpha) || alpha <= 0 || alpha >= 1 {
		return nil, core.NewInvalidInputError("alpha", fmt.Sprintf("must lie in (0,1), got %v", alpha))
	}
	if !direction.Valid() {
		return nil, core.NewInvalidInputError("direction", fmt.Sprintf("unknown direction %q", direction))
	}

	df := a.Size + b.Size - 2
	if df < 1 {
		return nil, core.NewInvalidInputError("degrees of freedom", fmt.Sprintf("n1 + n2 - 2 = %d, need at least 1", df))
	}

	n1 := float64(a.Size)
	n2 := float64(b.Size)
	// sqrt(sd1²/n1 + sd2²/n2) without squaring, so extreme sds neither
	// underflow to zero nor overflow to +Inf
	se := math.Hypot(a.StdDev/math.Sqrt(n1), b.StdDev/math.Sqrt(n2))
	if se == 0 {
		if a.StdDev > 0 || b.StdDev > 0 {
			return nil, core.NewDivisionByZeroError(fmt.Sprintf("standard error underflows to zero (sd1=%g, sd2=%g)", a.StdDev, b.StdDev))
		}
		return nil, core.NewDivisionByZeroError("standard error is zero because both standard deviations are zero")
	}
	if math.IsInf(se, 0) {
		return nil, core.NewNonFiniteError(fmt.Sprintf("standard error overflows (sd1=%g, sd2=%g)", a.StdDev, b.StdDev))
	}
	tStat := (a.Mean - b.Mean) / se
	if math.IsInf(tStat, 0) || math.IsNaN(tStat) {
		return nil, core.NewNonFiniteError(fmt.Sprintf("t statistic overflows (mean1=%g, mean2=%g, se=%g)", a.Mean, b.Mean, se))
	}

	var tail float64
	if direction == hypothesis.TwoTailed {
		tail = 1 - alpha/2
	} else {
		tail = 1 - alpha
	}
	tCrit, err := e.quantile.Quantile(tail, df)
	if err != nil {
		return nil, fmt.Errorf("critical value at p=%v, df=%d: %w", tail, df, err)
	}

	var reject bool
	switch direction {
	case hypothesis.TwoTailed:
		reject = math.Abs(tStat) > tCrit
	case hypothesis.Greater:
		reject = tStat > tCrit
	case hypothesis.Less:
		reject = tStat < -tCrit
	}

	decision := hypothesis.FailToReject
	if reject {
		decision = hypothesis.Reject
	}

	// Both bounds are reported for one-tailed tests too.
	return &hypothesis.TestResult{
		TStatistic:       tStat,
		DegreesOfFreedom: df,
		StandardError:    se,
		CriticalNegative: -tCrit,
		CriticalPositive: tCrit,
		Decision:         decision,
		Direction:        direction,
		Alpha:            alpha,
	}, nil
}

func validateSample(name string, s hypothesis.SampleSummary) error {
	if s.Size < 1 {
		return core.NewInvalidInputError(name+" size", fmt.Sprintf("must be at least 1, got %d", s.Size))
	}
	if math.IsNaN(s.Mean) || math.IsInf(s.Mean, 0) {
		return core.NewInvalidInputError(name+" mean", "must be a finite number")
	}
	if math.IsNaN(s.StdDev) || math.IsInf(s.StdDev, 0) || s.StdDev < 0 {
		return core.NewInvalidInputError(name+" standard deviation", fmt.Sprintf("must be a finite non-negative number, got %v", s.StdDev))
	}
	return nil
}
