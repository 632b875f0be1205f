package ports

import "ttestcalc/domain/hypothesis"

// SummarizerPort reduces raw observations to a sample summary
type SummarizerPort interface {
	Summarize(observations []float64) (hypothesis.SampleSummary, error)
}
