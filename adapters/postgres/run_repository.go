package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"ttestcalc/domain/core"
	"ttestcalc/domain/hypothesis"
	"ttestcalc/ports"

	"github.com/jmoiron/sqlx"
)

// RunRepositoryImpl implements RunRepository for PostgreSQL
type RunRepositoryImpl struct {
	db *sqlx.DB
}

// NewRunRepository creates a new PostgreSQL run repository
func NewRunRepository(db *sqlx.DB) ports.RunRepository {
	return &RunRepositoryImpl{db: db}
}

// runRow is the flat ttest_runs row
type runRow struct {
	ID               string    `db:"id"`
	Direction        string    `db:"direction"`
	Alpha            float64   `db:"alpha"`
	SizeA            int       `db:"size_a"`
	MeanA            float64   `db:"mean_a"`
	SDA              float64   `db:"sd_a"`
	SizeB            int       `db:"size_b"`
	MeanB            float64   `db:"mean_b"`
	SDB              float64   `db:"sd_b"`
	TStatistic       float64   `db:"t_statistic"`
	DegreesOfFreedom int       `db:"degrees_of_freedom"`
	StandardError    float64   `db:"standard_error"`
	CriticalNegative float64   `db:"critical_negative"`
	CriticalPositive float64   `db:"critical_positive"`
	Decision         string    `db:"decision"`
	CreatedAt        time.Time `db:"created_at"`
}

const selectRunColumns = `
	SELECT id, direction, alpha, size_a, mean_a, sd_a, size_b, mean_b, sd_b,
		   t_statistic, degrees_of_freedom, standard_error, critical_negative,
		   critical_positive, decision, created_at
	FROM ttest_runs`

// SaveRun upserts a run
func (r *RunRepositoryImpl) SaveRun(ctx context.Context, run *hypothesis.Run) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO ttest_runs (
			id, direction, alpha, size_a, mean_a, sd_a, size_b, mean_b, sd_b,
			t_statistic, degrees_of_freedom, standard_error, critical_negative,
			critical_positive, decision, created_at
		) VALUES (
			:id, :direction, :alpha, :size_a, :mean_a, :sd_a, :size_b, :mean_b, :sd_b,
			:t_statistic, :degrees_of_freedom, :standard_error, :critical_negative,
			:critical_positive, :decision, :created_at
		)
		ON CONFLICT (id) DO UPDATE SET
			t_statistic = EXCLUDED.t_statistic,
			degrees_of_freedom = EXCLUDED.degrees_of_freedom,
			standard_error = EXCLUDED.standard_error,
			critical_negative = EXCLUDED.critical_negative,
			critical_positive = EXCLUDED.critical_positive,
			decision = EXCLUDED.decision`, toRow(run))
	return err
}

// GetRun retrieves a run by ID
func (r *RunRepositoryImpl) GetRun(ctx context.Context, id core.RunID) (*hypothesis.Run, error) {
	var row runRow
	err := r.db.GetContext(ctx, &row, selectRunColumns+` WHERE id = $1`, id.String())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrRunNotFound
	}
	if err != nil {
		return nil, err
	}
	return fromRow(row), nil
}

// ListRuns returns the most recent runs first
func (r *RunRepositoryImpl) ListRuns(ctx context.Context, limit int) ([]*hypothesis.Run, error) {
	if limit <= 0 {
		return []*hypothesis.Run{}, nil
	}

	var rows []runRow
	if err := r.db.SelectContext(ctx, &rows, selectRunColumns+` ORDER BY created_at DESC, id DESC LIMIT $1`, limit); err != nil {
		return nil, err
	}

	runs := make([]*hypothesis.Run, 0, len(rows))
	for _, row := range rows {
		runs = append(runs, fromRow(row))
	}
	return runs, nil
}

func toRow(run *hypothesis.Run) runRow {
	return runRow{
		ID:               run.ID.String(),
		Direction:        string(run.Request.Direction),
		Alpha:            run.Request.Alpha,
		SizeA:            run.Request.SampleA.Size,
		MeanA:            run.Request.SampleA.Mean,
		SDA:              run.Request.SampleA.StdDev,
		SizeB:            run.Request.SampleB.Size,
		MeanB:            run.Request.SampleB.Mean,
		SDB:              run.Request.SampleB.StdDev,
		TStatistic:       run.Result.TStatistic,
		DegreesOfFreedom: run.Result.DegreesOfFreedom,
		StandardError:    run.Result.StandardError,
		CriticalNegative: run.Result.CriticalNegative,
		CriticalPositive: run.Result.CriticalPositive,
		Decision:         string(run.Result.Decision),
		CreatedAt:        run.CreatedAt.Time(),
	}
}

func fromRow(row runRow) *hypothesis.Run {
	direction := hypothesis.Direction(row.Direction)
	return &hypothesis.Run{
		ID: core.RunID(row.ID),
		Request: hypothesis.Request{
			SampleA:   hypothesis.SampleSummary{Size: row.SizeA, Mean: row.MeanA, StdDev: row.SDA},
			SampleB:   hypothesis.SampleSummary{Size: row.SizeB, Mean: row.MeanB, StdDev: row.SDB},
			Direction: direction,
			Alpha:     row.Alpha,
		},
		Result: hypothesis.TestResult{
			TStatistic:       row.TStatistic,
			DegreesOfFreedom: row.DegreesOfFreedom,
			StandardError:    row.StandardError,
			CriticalNegative: row.CriticalNegative,
			CriticalPositive: row.CriticalPositive,
			Decision:         hypothesis.Decision(row.Decision),
			Direction:        direction,
			Alpha:            row.Alpha,
		},
		CreatedAt: core.NewTimestamp(row.CreatedAt),
	}
}
