package postgres

import (
	"testing"
	"time"

	"ttestcalc/domain/core"
	"ttestcalc/domain/hypothesis"

	"github.com/stretchr/testify/assert"
)

func TestRowMapping_RoundTrip(t *testing.T) {
	created := time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC)
	run := &hypothesis.Run{
		ID: core.NewRunID(),
		Request: hypothesis.Request{
			SampleA:   hypothesis.SampleSummary{Size: 60, Mean: 86, StdDev: 6},
			SampleB:   hypothesis.SampleSummary{Size: 75, Mean: 82, StdDev: 9},
			Direction: hypothesis.Less,
			Alpha:     0.01,
		},
		Result: hypothesis.TestResult{
			TStatistic:       3.086,
			DegreesOfFreedom: 133,
			StandardError:    1.2961,
			CriticalNegative: -2.3547,
			CriticalPositive: 2.3547,
			Decision:         hypothesis.FailToReject,
			Direction:        hypothesis.Less,
			Alpha:            0.01,
		},
		CreatedAt: core.NewTimestamp(created),
	}

	row := toRow(run)
	assert.Equal(t, "less", row.Direction)
	assert.Equal(t, "Fail to Reject H0", row.Decision)
	assert.Equal(t, 75, row.SizeB)

	assert.Equal(t, run, fromRow(row))
}
