package config

import (
	"testing"
	"time"

	"ttestcalc/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"DATABASE_URL", "PORT", "GIN_MODE", "ALPHA", "BATCH_CONCURRENCY", "HISTORY_LIMIT", "MEMORY_MAX_RUNS", "READ_TIMEOUT"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.False(t, cfg.Database.Enabled())
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.GinMode)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 0.01, cfg.TTest.Alpha)
	assert.Equal(t, 4, cfg.TTest.BatchConcurrency)
	assert.Equal(t, 50, cfg.TTest.HistoryLimit)
	assert.Equal(t, 1000, cfg.TTest.MemoryMaxRuns)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/ttest?sslmode=disable")
	t.Setenv("PORT", "9090")
	t.Setenv("ALPHA", "0.05")
	t.Setenv("BATCH_CONCURRENCY", "8")
	t.Setenv("READ_TIMEOUT", "2s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.Database.Enabled())
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 0.05, cfg.TTest.Alpha)
	assert.Equal(t, 8, cfg.TTest.BatchConcurrency)
	assert.Equal(t, 2*time.Second, cfg.Server.ReadTimeout)
}

func TestLoad_RejectsBadAlpha(t *testing.T) {
	t.Setenv("ALPHA", "1.5")

	_, err := Load()
	require.Error(t, err)
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
}

func TestLoad_RejectsZeroConcurrency(t *testing.T) {
	t.Setenv("ALPHA", "")
	t.Setenv("BATCH_CONCURRENCY", "0")

	_, err := Load()
	require.Error(t, err)
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
}

func TestLoad_MemoryMaxRunsCoversHistory(t *testing.T) {
	t.Setenv("ALPHA", "")
	t.Setenv("BATCH_CONCURRENCY", "")
	t.Setenv("HISTORY_LIMIT", "50")
	t.Setenv("MEMORY_MAX_RUNS", "10")

	_, err := Load()
	require.Error(t, err)
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
	assert.Contains(t, err.Error(), "MEMORY_MAX_RUNS")

	t.Setenv("MEMORY_MAX_RUNS", "200")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 200, cfg.TTest.MemoryMaxRuns)
}
