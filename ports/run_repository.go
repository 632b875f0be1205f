package ports

import (
	"context"

	"ttestcalc/domain/core"
	"ttestcalc/domain/hypothesis"
)

// RunRepository persists executed t-test computations
type RunRepository interface {
	// SaveRun stores a run, replacing any run with the same ID
	SaveRun(ctx context.Context, run *hypothesis.Run) error

	// GetRun retrieves a run by ID, returning core.ErrRunNotFound when absent
	GetRun(ctx context.Context, id core.RunID) (*hypothesis.Run, error)

	// ListRuns returns the most recent runs first, at most limit of them
	ListRuns(ctx context.Context, limit int) ([]*hypothesis.Run, error)
}
