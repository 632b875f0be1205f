package report

import (
	"strings"
	"testing"

	"ttestcalc/domain/hypothesis"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixture() (hypothesis.Request, *hypothesis.TestResult) {
	req := hypothesis.Request{
		SampleA:   hypothesis.SampleSummary{Size: 60, Mean: 86, StdDev: 6},
		SampleB:   hypothesis.SampleSummary{Size: 75, Mean: 82, StdDev: 9},
		Direction: hypothesis.TwoTailed,
		Alpha:     0.01,
	}
	res := &hypothesis.TestResult{
		TStatistic:       3.0860669992,
		DegreesOfFreedom: 133,
		StandardError:    1.2961481397,
		CriticalNegative: -2.6133004771,
		CriticalPositive: 2.6133004771,
		Decision:         hypothesis.Reject,
		Direction:        hypothesis.TwoTailed,
		Alpha:            0.01,
	}
	return req, res
}

func TestMetrics_FourDecimals(t *testing.T) {
	_, res := fixture()

	metrics := Metrics(res)
	require.Len(t, metrics, 6)
	assert.Equal(t, Metric{"Calculated t-statistic", "3.0861"}, metrics[0])
	assert.Equal(t, Metric{"Degrees of Freedom", "133"}, metrics[1])
	assert.Equal(t, Metric{"Standard Error", "1.2961"}, metrics[2])
	assert.Equal(t, Metric{"Critical Value (Negative)", "-2.6133"}, metrics[3])
	assert.Equal(t, Metric{"Critical Value (Positive)", "2.6133"}, metrics[4])
	assert.Equal(t, Metric{"Decision", "Reject H0"}, metrics[5])
}

func TestMarkdown_RestatesInputs(t *testing.T) {
	req, res := fixture()

	md := Markdown(req, res)
	for _, want := range []string{
		"Sample 1 size (n1): 60",
		"Sample 2 size (n2): 75",
		"Sample 1 mean (x̄1): 86.0000",
		"Sample 2 standard deviation (s2): 9.0000",
		"Test Type: TWO-TAILED",
		"Critical Values (α = 0.01): [-2.6133, 2.6133]",
		"**Conclusion:** Reject H0",
	} {
		assert.Contains(t, md, want)
	}
}

func TestHTML_RendersList(t *testing.T) {
	req, res := fixture()

	out := string(HTML(Markdown(req, res)))
	assert.Contains(t, out, "<ul>")
	assert.Contains(t, out, "<strong>Conclusion:</strong> Reject H0")
	assert.Contains(t, out, "-2.6133")
}

func TestText_NoMarkdownEmphasis(t *testing.T) {
	req, res := fixture()

	out := Text(req, res)
	assert.False(t, strings.Contains(out, "**"))
	assert.Contains(t, out, "Decision:")
	assert.Contains(t, out, "Conclusion: Reject H0")
}
