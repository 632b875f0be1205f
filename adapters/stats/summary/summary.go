package summary

import (
	"fmt"
	"math"
	"strings"

	"ttestcalc/domain/core"
	"ttestcalc/domain/hypothesis"

	"github.com/montanaflynn/stats"
)

// Summarizer turns raw observations into a SampleSummary
type Summarizer struct{}

// NewSummarizer creates a new summarizer
func NewSummarizer() *Summarizer {
	return &Summarizer{}
}

// Summarize computes size, mean and sample standard deviation (n-1 denominator).
// A single observation has standard deviation 0.
func (s *Summarizer) Summarize(observations []float64) (hypothesis.SampleSummary, error) {
	if len(observations) == 0 {
		return hypothesis.SampleSummary{}, core.NewInvalidInputError("observations", "must contain at least one value")
	}
	for i, v := range observations {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return hypothesis.SampleSummary{}, core.NewInvalidInputError("observations", fmt.Sprintf("value %d is not finite", i))
		}
	}

	data := stats.Float64Data(observations)
	mean, err := data.Mean()
	if err != nil {
		return hypothesis.SampleSummary{}, fmt.Errorf("mean: %w", err)
	}

	sd := 0.0
	if data.Len() > 1 {
		sd, err = data.StandardDeviationSample()
		if err != nil {
			return hypothesis.SampleSummary{}, fmt.Errorf("standard deviation: %w", err)
		}
	}

	return hypothesis.SampleSummary{
		Size:   data.Len(),
		Mean:   mean,
		StdDev: sd,
	}, nil
}

var separators = strings.NewReplacer(",", " ", ";", " ")

// ParseObservations reads a comma, semicolon or whitespace separated list of numbers
func ParseObservations(raw string) ([]float64, error) {
	normalized := separators.Replace(raw)
	tokens := strings.Fields(normalized)
	if len(tokens) == 0 {
		return nil, core.NewInvalidInputError("observations", "no values given")
	}

	// LoadRawData drops tokens it cannot parse, so a short result means junk input
	data := stats.LoadRawData(normalized)
	if len(data) != len(tokens) {
		return nil, core.NewInvalidInputError("observations", fmt.Sprintf("expected %d numbers, parsed %d", len(tokens), len(data)))
	}
	return data, nil
}
