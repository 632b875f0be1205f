package memory

import (
	"context"
	"sync"

	"ttestcalc/domain/core"
	"ttestcalc/domain/hypothesis"
	"ttestcalc/ports"
)

// DefaultMaxRuns is the retention bound used by NewRunRepository
const DefaultMaxRuns = 1000

// RunRepository keeps the most recent runs in process memory
type RunRepository struct {
	runs    map[core.RunID]hypothesis.Run
	order   []core.RunID // insertion order, oldest first
	maxRuns int
	mu      sync.RWMutex
}

// NewRunRepository creates an empty in-memory run store holding at most
// DefaultMaxRuns runs
func NewRunRepository() ports.RunRepository {
	return NewRunRepositoryWithLimit(DefaultMaxRuns)
}

// NewRunRepositoryWithLimit creates an in-memory run store that evicts the
// oldest runs once more than maxRuns are saved. maxRuns < 1 means DefaultMaxRuns.
func NewRunRepositoryWithLimit(maxRuns int) ports.RunRepository {
	if maxRuns < 1 {
		maxRuns = DefaultMaxRuns
	}
	return &RunRepository{
		runs:    make(map[core.RunID]hypothesis.Run),
		maxRuns: maxRuns,
	}
}

func (r *RunRepository) SaveRun(ctx context.Context, run *hypothesis.Run) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.runs[run.ID]; !exists {
		r.order = append(r.order, run.ID)
	}
	r.runs[run.ID] = *run

	if excess := len(r.order) - r.maxRuns; excess > 0 {
		for _, id := range r.order[:excess] {
			delete(r.runs, id)
		}
		n := copy(r.order, r.order[excess:])
		clear(r.order[n:])
		r.order = r.order[:n]
	}
	return nil
}

func (r *RunRepository) GetRun(ctx context.Context, id core.RunID) (*hypothesis.Run, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	run, ok := r.runs[id]
	if !ok {
		return nil, core.ErrRunNotFound
	}
	return &run, nil
}

func (r *RunRepository) ListRuns(ctx context.Context, limit int) ([]*hypothesis.Run, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if limit <= 0 {
		return []*hypothesis.Run{}, nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	runs := make([]*hypothesis.Run, 0, min(limit, len(r.order)))
	for i := len(r.order) - 1; i >= 0 && len(runs) < limit; i-- {
		run := r.runs[r.order[i]]
		runs = append(runs, &run)
	}
	return runs, nil
}
