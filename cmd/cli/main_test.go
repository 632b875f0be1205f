package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"ttestcalc/domain/core"
	"ttestcalc/domain/hypothesis"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("DATABASE_URL", "")
	t.Setenv("ALPHA", "")
	t.Setenv("LOG_LEVEL", "ERROR")

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCompute_Defaults(t *testing.T) {
	out, err := execute(t, "compute")
	require.NoError(t, err)

	assert.Contains(t, out, "Calculated t-statistic:")
	assert.Contains(t, out, "3.0861")
	assert.Contains(t, out, "1.2961")
	assert.Contains(t, out, "[-2.6133, 2.6133]")
	assert.Contains(t, out, "Conclusion: Reject H0")
	assert.NotContains(t, out, "**")
}

func TestCompute_LessFailsToReject(t *testing.T) {
	out, err := execute(t, "compute", "--direction", "less")
	require.NoError(t, err)
	assert.Contains(t, out, "Fail to Reject H0")
	assert.Contains(t, out, "[-2.3547, 2.3547]")
}

func TestCompute_JSON(t *testing.T) {
	out, err := execute(t, "compute", "--n1", "10", "--mean1", "5", "--sd1", "2",
		"--n2", "12", "--mean2", "4", "--sd2", "2", "--alpha", "0.05", "--json")
	require.NoError(t, err)

	var run hypothesis.Run
	require.NoError(t, json.Unmarshal([]byte(out), &run))
	assert.Equal(t, 20, run.Result.DegreesOfFreedom)
	assert.Equal(t, 0.05, run.Result.Alpha)
	assert.Equal(t, hypothesis.FailToReject, run.Result.Decision)
	assert.NotEmpty(t, run.ID)
}

func TestCompute_RawObservations(t *testing.T) {
	out, err := execute(t, "compute", "--raw-a", "1, 2, 3, 4, 5", "--raw-b", "2 3 4 5 6", "--json")
	require.NoError(t, err)

	var run hypothesis.Run
	require.NoError(t, json.Unmarshal([]byte(out), &run))
	assert.Equal(t, 5, run.Request.SampleA.Size)
	assert.InDelta(t, -1.0, run.Result.TStatistic, 1e-9)
}

func TestCompute_Errors(t *testing.T) {
	_, err := execute(t, "compute", "--sd1", "0", "--sd2", "0")
	require.Error(t, err)
	assert.True(t, core.IsDivisionByZero(err))

	_, err = execute(t, "compute", "--n1", "1", "--n2", "1")
	require.Error(t, err)
	assert.True(t, core.IsInvalidInput(err))

	_, err = execute(t, "compute", "--direction", "sideways")
	require.Error(t, err)
	assert.True(t, core.IsInvalidInput(err))

	_, err = execute(t, "compute", "--raw-a", "1 x 3", "--raw-b", "1 2 3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--raw-a")
}

func TestBatch(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "batch.csv")
	require.NoError(t, os.WriteFile(in, []byte(
		"n1,n2,mean1,mean2,sd1,sd2,direction\n"+
			"60,75,86,82,6,9,greater\n"+
			"5,5,1,2,0,0,two-tailed\n"), 0o644))
	outPath := filepath.Join(dir, "results.xlsx")

	out, err := execute(t, "batch", in, "--out", outPath)
	require.NoError(t, err)
	assert.Contains(t, out, "row 1: greater")
	assert.Contains(t, out, "row 2: error:")
	assert.Contains(t, out, "1 computed, 1 failed")

	f, err := excelize.OpenFile(outPath)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Results")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Reject H0", rows[1][13])
}

func TestBatch_MissingFile(t *testing.T) {
	_, err := execute(t, "batch", filepath.Join(t.TempDir(), "nope.xlsx"))
	assert.Error(t, err)
}

func TestHistory_NeedsDatabase(t *testing.T) {
	_, err := execute(t, "history")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}
