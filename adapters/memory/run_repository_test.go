package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"ttestcalc/domain/core"
	"ttestcalc/domain/hypothesis"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRun(mean float64) *hypothesis.Run {
	return &hypothesis.Run{
		ID: core.NewRunID(),
		Request: hypothesis.Request{
			SampleA:   hypothesis.SampleSummary{Size: 10, Mean: mean, StdDev: 1},
			SampleB:   hypothesis.SampleSummary{Size: 10, Mean: 0, StdDev: 1},
			Direction: hypothesis.TwoTailed,
			Alpha:     0.01,
		},
		CreatedAt: core.Now(),
	}
}

func TestRunRepository_SaveAndGet(t *testing.T) {
	repo := NewRunRepository()
	ctx := context.Background()

	run := newRun(1.5)
	require.NoError(t, repo.SaveRun(ctx, run))

	got, err := repo.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.Request, got.Request)

	got.Request.SampleA.Mean = 99
	again, err := repo.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, 1.5, again.Request.SampleA.Mean, "callers must not mutate stored runs")

	_, err = repo.GetRun(ctx, core.NewRunID())
	assert.True(t, core.IsNotFoundError(err))
}

func TestRunRepository_ListNewestFirst(t *testing.T) {
	repo := NewRunRepository()
	ctx := context.Background()

	var ids []core.RunID
	for i := 0; i < 5; i++ {
		run := newRun(float64(i))
		ids = append(ids, run.ID)
		require.NoError(t, repo.SaveRun(ctx, run))
	}

	// re-saving must not duplicate or reorder
	first, _ := repo.GetRun(ctx, ids[0])
	require.NoError(t, repo.SaveRun(ctx, first))

	runs, err := repo.ListRuns(ctx, 3)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, ids[4], runs[0].ID)
	assert.Equal(t, ids[3], runs[1].ID)
	assert.Equal(t, ids[2], runs[2].ID)

	all, err := repo.ListRuns(ctx, 100)
	require.NoError(t, err)
	assert.Len(t, all, 5)
}

func TestRunRepository_ConcurrentSaves(t *testing.T) {
	repo := NewRunRepository()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, repo.SaveRun(ctx, newRun(float64(i))), fmt.Sprintf("save %d", i))
		}(i)
	}
	wg.Wait()

	runs, err := repo.ListRuns(ctx, 1000)
	require.NoError(t, err)
	assert.Len(t, runs, 50)
}

func TestRunRepository_CancelledContext(t *testing.T) {
	repo := NewRunRepository()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, repo.SaveRun(ctx, newRun(1)), context.Canceled)
}

func TestRunRepository_EvictsOldest(t *testing.T) {
	repo := NewRunRepositoryWithLimit(3)
	ctx := context.Background()

	var ids []core.RunID
	for i := 0; i < 5; i++ {
		run := newRun(float64(i))
		ids = append(ids, run.ID)
		require.NoError(t, repo.SaveRun(ctx, run))
	}

	for _, id := range ids[:2] {
		_, err := repo.GetRun(ctx, id)
		assert.ErrorIs(t, err, core.ErrRunNotFound, "run %s should have been evicted", id)
	}
	for _, id := range ids[2:] {
		_, err := repo.GetRun(ctx, id)
		assert.NoError(t, err)
	}

	runs, err := repo.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, ids[4], runs[0].ID)
	assert.Equal(t, ids[2], runs[2].ID)

	store := repo.(*RunRepository)
	assert.Len(t, store.runs, 3)
	assert.Len(t, store.order, 3)
}

func TestRunRepository_DefaultLimit(t *testing.T) {
	assert.Equal(t, DefaultMaxRuns, NewRunRepositoryWithLimit(0).(*RunRepository).maxRuns)
	assert.Equal(t, DefaultMaxRuns, NewRunRepository().(*RunRepository).maxRuns)
}
