package container

import (
	"context"
	"fmt"

	"ttestcalc/adapters/memory"
	"ttestcalc/adapters/postgres"
	"ttestcalc/adapters/stats/summary"
	"ttestcalc/app"
	"ttestcalc/internal"
	"ttestcalc/internal/config"
	"ttestcalc/internal/errors"
	"ttestcalc/internal/migration"
	"ttestcalc/internal/ttest"
	"ttestcalc/ports"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Infrastructure; nil when history is kept in memory
	DB *sqlx.DB

	// Repositories (data access layer)
	RunRepo ports.RunRepository

	// Computation
	Engine     *ttest.Engine
	Summarizer *summary.Summarizer
	Service    *app.TTestService
}

// New creates a new dependency injection container
func New(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	c := &Container{
		Config:     cfg,
		Logger:     internal.NewLogger(internal.ParseLogLevel(cfg.LogLevel)),
		Engine:     ttest.NewEngine(),
		Summarizer: summary.NewSummarizer(),
	}

	return c, nil
}

// Init picks the run store from the configuration: PostgreSQL when
// DATABASE_URL is set, memory otherwise
func (c *Container) Init(ctx context.Context) error {
	if !c.Config.Database.Enabled() {
		c.InitInMemory()
		return nil
	}

	db, err := sqlx.Connect("postgres", c.Config.Database.URL)
	if err != nil {
		return errors.WithCode(errors.CodeDatabaseError, fmt.Errorf("failed to connect to database: %w", err))
	}
	db.SetMaxOpenConns(c.Config.Database.MaxOpenConns)
	db.SetConnMaxLifetime(c.Config.Database.ConnMaxLifetime)

	if err := c.InitWithDatabase(ctx, db); err != nil {
		db.Close()
		return err
	}
	return nil
}

// InitInMemory wires the service to an in-process run store
func (c *Container) InitInMemory() {
	c.RunRepo = memory.NewRunRepositoryWithLimit(c.Config.TTest.MemoryMaxRuns)
	c.initService()
	c.Logger.Info("run history kept in memory (last %d runs)", c.Config.TTest.MemoryMaxRuns)
}

// InitWithDatabase migrates the schema and wires the PostgreSQL run store
func (c *Container) InitWithDatabase(ctx context.Context, db *sqlx.DB) error {
	if db == nil {
		return fmt.Errorf("database connection cannot be nil")
	}

	if err := db.PingContext(ctx); err != nil {
		return errors.WithCode(errors.CodeDatabaseError, fmt.Errorf("database connection test failed: %w", err))
	}

	migrator := migration.NewRunner()
	if err := migrator.Run(ctx, db); err != nil {
		return errors.WithCode(errors.CodeDatabaseError, fmt.Errorf("database migration failed: %w", err))
	}

	c.DB = db
	c.RunRepo = postgres.NewRunRepository(db)
	c.initService()

	c.Logger.Info("run history stored in PostgreSQL (schema %s)", migrator.Version())
	return nil
}

func (c *Container) initService() {
	c.Service = app.NewTTestService(c.Engine, c.RunRepo, c.Summarizer, c.Logger, app.ServiceOptions{
		Alpha:            c.Config.TTest.Alpha,
		BatchConcurrency: c.Config.TTest.BatchConcurrency,
		HistoryLimit:     c.Config.TTest.HistoryLimit,
	})
}

// Shutdown releases the database connection, if any
func (c *Container) Shutdown(ctx context.Context) error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
