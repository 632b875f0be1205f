package hypothesis

import (
	"fmt"
	"strings"

	"ttestcalc/domain/core"
)

// DefaultAlpha is the significance level used when a request leaves it unset.
const DefaultAlpha = 0.01

// SampleSummary describes one sample by its size, mean and standard deviation
type SampleSummary struct {
	Size   int     `json:"size" db:"size"`
	Mean   float64 `json:"mean" db:"mean"`
	StdDev float64 `json:"standard_deviation" db:"standard_deviation"`
}

// Direction selects which alternative hypothesis is tested
type Direction string

const (
	TwoTailed Direction = "two-tailed" // H1: mu1 != mu2
	Greater   Direction = "greater"    // H1: mu1 > mu2
	Less      Direction = "less"       // H1: mu1 < mu2
)

// Directions lists the supported directions in display order
var Directions = []Direction{TwoTailed, Greater, Less}

// ParseDirection accepts the wire names plus a few common aliases
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "two-tailed", "two_tailed", "twotailed", "two-sided", "two":
		return TwoTailed, nil
	case "greater", "right", "right-tailed":
		return Greater, nil
	case "less", "left", "left-tailed":
		return Less, nil
	}
	return "", core.NewInvalidInputError("direction", fmt.Sprintf("%q is not one of two-tailed, greater, less", s))
}

// Valid reports whether d is one of the three supported directions
func (d Direction) Valid() bool {
	return d == TwoTailed || d == Greater || d == Less
}

// Label is the human-readable name shown on the form
func (d Direction) Label() string {
	switch d {
	case TwoTailed:
		return "Two-Tailed"
	case Greater:
		return "Right-Tailed"
	case Less:
		return "Left-Tailed"
	}
	return string(d)
}

// Alternative returns the alternative hypothesis for the direction
func (d Direction) Alternative() string {
	switch d {
	case TwoTailed:
		return "H₁: μ₁ ≠ μ₂"
	case Greater:
		return "H₁: μ₁ > μ₂"
	case Less:
		return "H₁: μ₁ < μ₂"
	}
	return ""
}

// Decision is the outcome of comparing the statistic against the critical value
type Decision string

const (
	Reject       Decision = "Reject H0"
	FailToReject Decision = "Fail to Reject H0"
)

// Rejected reports whether the null hypothesis was rejected
func (d Decision) Rejected() bool {
	return d == Reject
}

// TestResult holds everything a single computation produces.
// INVARIANTS:
// - DegreesOfFreedom == SampleA.Size + SampleB.Size - 2
// - CriticalNegative == -CriticalPositive for every direction
type TestResult struct {
	TStatistic       float64   `json:"t_statistic"`
	DegreesOfFreedom int       `json:"degrees_of_freedom"`
	StandardError    float64   `json:"standard_error"`
	CriticalNegative float64   `json:"critical_negative"`
	CriticalPositive float64   `json:"critical_positive"`
	Decision         Decision  `json:"decision"`
	Direction        Direction `json:"direction"`
	Alpha            float64   `json:"alpha"`
}

// Request bundles the inputs of one computation
type Request struct {
	SampleA   SampleSummary `json:"sample_a"`
	SampleB   SampleSummary `json:"sample_b"`
	Direction Direction     `json:"direction"`
	Alpha     float64       `json:"alpha,omitempty"`
}

// WithDefaults fills in the direction and alpha when they were left empty
func (r Request) WithDefaults() Request {
	if r.Direction == "" {
		r.Direction = TwoTailed
	}
	if r.Alpha == 0 {
		r.Alpha = DefaultAlpha
	}
	return r
}

// Run is a computation that has been executed and recorded
type Run struct {
	ID        core.RunID     `json:"id"`
	Request   Request        `json:"request"`
	Result    TestResult     `json:"result"`
	CreatedAt core.Timestamp `json:"created_at"`
}

// BatchItem is the outcome of one row of a batch; Run is nil when the row failed
type BatchItem struct {
	Index   int     `json:"index"`
	Request Request `json:"request"`
	Run     *Run    `json:"run,omitempty"`
	Error   string  `json:"error,omitempty"`
	Code    string  `json:"code,omitempty"`
}

// Failed reports whether the row could not be computed
func (b BatchItem) Failed() bool {
	return b.Run == nil
}
