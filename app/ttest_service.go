package app

import (
	"context"
	"fmt"
	"time"

	"ttestcalc/domain/core"
	"ttestcalc/domain/hypothesis"
	"ttestcalc/internal"
	"ttestcalc/internal/errors"
	"ttestcalc/ports"

	"golang.org/x/sync/errgroup"
)

// Computer is the pure t-test computation the service delegates to
type Computer interface {
	Compute(req hypothesis.Request) (*hypothesis.TestResult, error)
}

// TTestService runs t-tests, records them and serves the history
type TTestService struct {
	engine     Computer
	runs       ports.RunRepository
	summarizer ports.SummarizerPort
	logger     *internal.Logger
	options    ServiceOptions
}

// ServiceOptions tunes defaults and limits
type ServiceOptions struct {
	Alpha            float64 // used when a request leaves alpha at 0
	BatchConcurrency int
	HistoryLimit     int
}

// DefaultServiceOptions mirrors the configuration defaults
func DefaultServiceOptions() ServiceOptions {
	return ServiceOptions{
		Alpha:            hypothesis.DefaultAlpha,
		BatchConcurrency: 4,
		HistoryLimit:     50,
	}
}

// RawRequest carries raw observations instead of summaries
type RawRequest struct {
	ObservationsA []float64            `json:"observations_a"`
	ObservationsB []float64            `json:"observations_b"`
	Direction     hypothesis.Direction `json:"direction"`
	Alpha         float64              `json:"alpha,omitempty"`
}

// NewTTestService creates a t-test service
func NewTTestService(engine Computer, runs ports.RunRepository, summarizer ports.SummarizerPort, logger *internal.Logger, options ServiceOptions) *TTestService {
	defaults := DefaultServiceOptions()
	if options.Alpha <= 0 || options.Alpha >= 1 {
		options.Alpha = defaults.Alpha
	}
	if options.BatchConcurrency < 1 {
		options.BatchConcurrency = defaults.BatchConcurrency
	}
	if options.HistoryLimit < 1 {
		options.HistoryLimit = defaults.HistoryLimit
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}

	return &TTestService{
		engine:     engine,
		runs:       runs,
		summarizer: summarizer,
		logger:     logger.With("ttest"),
		options:    options,
	}
}

// Options returns the effective service options
func (s *TTestService) Options() ServiceOptions {
	return s.options
}

// Normalize applies the service defaults to a request
func (s *TTestService) Normalize(req hypothesis.Request) hypothesis.Request {
	if req.Alpha == 0 {
		req.Alpha = s.options.Alpha
	}
	return req.WithDefaults()
}

// Run computes one t-test and records it. Computation errors keep their
// core sentinel so callers can tell InvalidInput from DivisionByZero.
func (s *TTestService) Run(ctx context.Context, req hypothesis.Request) (*hypothesis.Run, error) {
	req = s.Normalize(req)
	startTime := time.Now()

	result, err := s.engine.Compute(req)
	if err != nil {
		if core.IsComputationError(err) {
			s.logger.Warn("computation rejected (%s): %v", errors.GetCode(err), err)
		} else {
			s.logger.Error("computation failed: %v", err)
		}
		return nil, errors.Wrap(err, "t-test computation failed")
	}

	run := &hypothesis.Run{
		ID:        core.NewRunID(),
		Request:   req,
		Result:    *result,
		CreatedAt: core.Now(),
	}

	if err := s.runs.SaveRun(ctx, run); err != nil {
		s.logger.Error("failed to record run %s: %v", run.ID, err)
		return nil, errors.WithCode(errors.CodeDatabaseError, fmt.Errorf("saving run %s: %w", run.ID, err))
	}

	s.logger.Info("run %s: %s t=%.4f df=%d crit=±%.4f -> %s (%.2fms)",
		run.ID, req.Direction, result.TStatistic, result.DegreesOfFreedom, result.CriticalPositive,
		result.Decision, float64(time.Since(startTime).Nanoseconds())/1e6)

	return run, nil
}

// RunRaw summarises both observation lists and runs the test on the summaries
func (s *TTestService) RunRaw(ctx context.Context, raw RawRequest) (*hypothesis.Run, error) {
	a, err := s.summarizer.Summarize(raw.ObservationsA)
	if err != nil {
		return nil, errors.Wrap(err, "sample A")
	}
	b, err := s.summarizer.Summarize(raw.ObservationsB)
	if err != nil {
		return nil, errors.Wrap(err, "sample B")
	}

	s.logger.Debug("summarised raw samples: A=%+v B=%+v", a, b)

	return s.Run(ctx, hypothesis.Request{
		SampleA:   a,
		SampleB:   b,
		Direction: raw.Direction,
		Alpha:     raw.Alpha,
	})
}

// RunBatch computes every request with bounded concurrency. Rows fail
// independently; the returned error is only set when ctx is cancelled.
func (s *TTestService) RunBatch(ctx context.Context, reqs []hypothesis.Request) ([]hypothesis.BatchItem, error) {
	items := make([]hypothesis.BatchItem, len(reqs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.options.BatchConcurrency)

	for i, req := range reqs {
		i, req := i, req
		items[i] =hypothesis.BatchItem{Index: i, Request: s.Normalize(req)}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			run, err := s.Run(gctx, req)
			if err != nil {
				items[i].Error = err.Error()
				items[i].Code = errors.GetCode(err)
				s.logger.Trace("batch row %d failed: %s", i, items[i].Code)
				return nil
			}
			items[i].Run = run
			s.logger.Trace("batch row %d -> run %s", i, run.ID)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return items, err
	}

	failed := 0
	for _, item := range items {
		if item.Failed() {
			failed++
		}
	}
	s.logger.Info("batch of %d finished: %d computed, %d failed", len(reqs), len(reqs)-failed, failed)

	return items, nil
}

// History lists recent runs, newest first, capped at the configured limit
func (s *TTestService) History(ctx context.Context, limit int) ([]*hypothesis.Run, error) {
	if limit <= 0 || limit > s.options.HistoryLimit {
		limit = s.options.HistoryLimit
	}
	runs, err := s.runs.ListRuns(ctx, limit)
	if err != nil {
		return nil, errors.WithCode(errors.CodeDatabaseError, fmt.Errorf("listing runs: %w", err))
	}
	return runs, nil
}

// Get fetches a recorded run by its string ID
func (s *TTestService) Get(ctx context.Context, id string) (*hypothesis.Run, error) {
	runID, err := core.ParseRunID(id)
	if err != nil {
		return nil, errors.WithCode(errors.CodeValidationError, err)
	}
	run, err := s.runs.GetRun(ctx, runID)
	if err != nil {
		if core.IsNotFoundError(err) {
			return nil, errors.Wrap(err, fmt.Sprintf("run %s", runID))
		}
		return nil, errors.WithCode(errors.CodeDatabaseError, err)
	}
	return run, nil
}
