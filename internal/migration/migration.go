package migration

import (
	"context"

	"ttestcalc/internal/errors"

	"github.com/jmoiron/sqlx"
)

// Migrator defines the interface for database migration operations
type Migrator interface {
	Run(ctx context.Context, db *sqlx.DB) error
	Version() string
}

// MigrationRunner handles database schema migrations
type MigrationRunner struct {
	version string
}

// NewRunner creates a new migration runner
func NewRunner() *MigrationRunner {
	return &MigrationRunner{
		version: "1.1.0",
	}
}

// Version returns the migration version
func (r *MigrationRunner) Version() string {
	return r.version
}

// Run executes all database migrations in order. Every statement is idempotent.
func (r *MigrationRunner) Run(ctx context.Context, db *sqlx.DB) error {
	if err := r.createRunsTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create ttest_runs table")
	}

	if _, err := db.ExecContext(ctx, widenCountColumnsSQL); err != nil {
		return errors.Wrap(err, "failed to widen ttest_runs count columns")
	}

	if err := r.createIndexes(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create indexes")
	}

	return nil
}

// Statements returns the DDL in execution order
func (r *MigrationRunner) Statements() []string {
	return []string{createRunsTableSQL, widenCountColumnsSQL, createRunsIndexSQL}
}

const createRunsTableSQL = `
	CREATE TABLE IF NOT EXISTS ttest_runs (
		id UUID PRIMARY KEY,
		direction VARCHAR(16) NOT NULL CHECK (direction IN ('two-tailed', 'greater', 'less')),
		alpha DOUBLE PRECISION NOT NULL CHECK (alpha > 0 AND alpha < 1),
		size_a BIGINT NOT NULL CHECK (size_a >= 1),
		mean_a DOUBLE PRECISION NOT NULL,
		sd_a DOUBLE PRECISION NOT NULL CHECK (sd_a >= 0),
		size_b BIGINT NOT NULL CHECK (size_b >= 1),
		mean_b DOUBLE PRECISION NOT NULL,
		sd_b DOUBLE PRECISION NOT NULL CHECK (sd_b >= 0),
		t_statistic DOUBLE PRECISION NOT NULL,
		degrees_of_freedom BIGINT NOT NULL,
		standard_error DOUBLE PRECISION NOT NULL,
		critical_negative DOUBLE PRECISION NOT NULL,
		critical_positive DOUBLE PRECISION NOT NULL,
		decision VARCHAR(32) NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
	)
`

// widenCountColumnsSQL upgrades 1.0.0 tables, whose INTEGER columns cannot
// hold every sample size an int accepts
const widenCountColumnsSQL = `
	ALTER TABLE ttest_runs
		ALTER COLUMN size_a TYPE BIGINT,
		ALTER COLUMN size_b TYPE BIGINT,
		ALTER COLUMN degrees_of_freedom TYPE BIGINT
`

const createRunsIndexSQL = `
	CREATE INDEX IF NOT EXISTS idx_ttest_runs_created_at ON ttest_runs (created_at DESC)
`

func (r *MigrationRunner) createRunsTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, createRunsTableSQL)
	return err
}

func (r *MigrationRunner) createIndexes(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, createRunsIndexSQL)
	return err
}
