package tdist

import (
	"testing"

	"ttestcalc/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Reference values from published t tables
func TestQuantile_KnownValues(t *testing.T) {
	q := NewStudentsTQuantile()

	cases := []struct {
		p    float64
		df   int
		want float64
	}{
		{0.975, 10, 2.228139},
		{0.95, 4, 2.131847},
		{0.995, 2, 9.924843},
		{0.975, 28, 2.048407},
		{0.995, 133, 2.613300},
		{0.99, 133, 2.354712},
	}

	for _, tc := range cases {
		got, err := q.Quantile(tc.p, tc.df)
		require.NoError(t, err)
		assert.InDelta(t, tc.want, got, 1e-4, "quantile(%v, %d)", tc.p, tc.df)
	}
}

func TestQuantile_InvertsCDF(t *testing.T) {
	q := NewStudentsTQuantile()

	for _, df := range []int{1, 3, 17, 60, 500} {
		for _, p := range []float64{0.01, 0.25, 0.5, 0.9, 0.995} {
			x, err := q.Quantile(p, df)
			require.NoError(t, err)
			assert.InDelta(t, p, q.CDF(x, df), 1e-8, "df=%d p=%v", df, p)
		}
	}
}

func TestQuantile_Symmetric(t *testing.T) {
	q := NewStudentsTQuantile()

	upper, err := q.Quantile(0.99, 12)
	require.NoError(t, err)
	lower, err := q.Quantile(0.01, 12)
	require.NoError(t, err)
	assert.InDelta(t, -upper, lower, 1e-9)
}

func TestQuantile_RejectsOutOfDomain(t *testing.T) {
	q := NewStudentsTQuantile()

	_, err := q.Quantile(0.99, 0)
	assert.True(t, core.IsInvalidInput(err), "df=0 should be invalid input, got %v", err)

	for _, p := range []float64{0, 1, -0.1, 1.5} {
		_, err := q.Quantile(p, 10)
		assert.True(t, core.IsInvalidInput(err), "p=%v should be invalid input, got %v", p, err)
	}
}
