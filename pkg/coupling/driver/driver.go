// Package driver runs the iterative coupling time loop: checkpoint at
// the window start, solve, exchange, and either roll back or commit,
// until the peer ends the coupling or the configured end time is
// reached.
package driver

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/houkili/dumux-adapter/pkg/coupling"
	"github.com/houkili/dumux-adapter/pkg/coupling/observability"
)

// ErrNoSolver indicates Run was called without a solver.
var ErrNoSolver = errors.New("no solver attached to driver")

// TransferFunc moves boundary data between the solver and the session's
// field buffers. Transfer errors are fatal to the run.
type TransferFunc func(s *coupling.Session) error

// Stats summarizes a finished run.
type Stats struct {
	// Windows is the number of committed coupling windows.
	Windows int
	// Iterations is the total number of sub-iterations, including
	// repeats of non-converged windows.
	Iterations int
	// Rollbacks is the number of non-converged iterations.
	Rollbacks int
	// FinalTime is the solver's simulation time after the last commit.
	FinalTime float64
}

// config holds the optional collaborators of a driver.
type config struct {
	readBoundary  TransferFunc
	writeBoundary TransferFunc
	endTime       float64
	logger        *slog.Logger
	metrics       observability.MetricsRecorder
}

// Option configures a Driver.
type Option func(*config)

// WithBoundaryReader sets the transfer applying pulled field values to
// the solver's boundary conditions before each solve.
func WithBoundaryReader(fn TransferFunc) Option {
	return func(c *config) { c.readBoundary = fn }
}

// WithBoundaryWriter sets the transfer filling the write buffers from
// the solver after each solve.
func WithBoundaryWriter(fn TransferFunc) Option {
	return func(c *config) { c.writeBoundary = fn }
}

// WithEndTime stops the loop once the solver reaches t, even if the
// peer keeps coupling. 0 (the default) runs until the peer stops.
func WithEndTime(t float64) Option {
	return func(c *config) { c.endTime = t }
}

// WithLogger enables structured logging via slog.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithMetrics records solve latencies to the given recorder.
func WithMetrics(rec observability.MetricsRecorder) Option {
	return func(c *config) {
		if rec != nil {
			c.metrics = rec
		}
	}
}

// Driver owns one participant's time loop.
type Driver struct {
	config

	session *coupling.Session
	solver  coupling.Solver
}

// New creates a driver for the session and solver. The solver is
// attached to the session's checkpoint controller.
func New(session *coupling.Session, solver coupling.Solver, opts ...Option) *Driver {
	cfg := config{metrics: observability.NoopMetrics{}}
	for _, opt := range opts {
		opt(&cfg)
	}
	d := &Driver{config: cfg, session: session, solver: solver}
	if solver != nil {
		session.AttachSolver(solver)
	}
	return d
}

// Run executes the coupled time loop until the peer ends the coupling,
// the end time is reached, or an error occurs. ctx propagates trace and
// metric context only; there is no mid-iteration cancellation, matching
// the lock-step coupling scheme.
//
// The loop per window: save the checkpoint if the peer asked for one,
// apply incoming boundary data, solve, publish outgoing boundary data,
// advance, then restore and repeat on non-convergence or commit and move
// to the next window.
func (d *Driver) Run(ctx context.Context) (Stats, error) {
	var stats Stats
	if d.solver == nil {
		return stats, ErrNoSolver
	}

	d.solver.ApplyInitialSolution()

	dt, err := d.session.Initialize()
	if err != nil {
		return stats, err
	}

	if d.session.RequiresInitialData() {
		if err := d.transfer(d.writeBoundary); err != nil {
			return stats, err
		}
		if err := d.session.WriteInitialData(); err != nil {
			return stats, err
		}
	}

	cp := d.session.Checkpoint()

	for d.session.IsCouplingOngoing() {
		if cp.RequiresWrite() {
			if err := cp.Save(); err != nil {
				return stats, err
			}
			observability.LogCheckpointSaved(d.logger, stats.Windows+1, len(d.solver.CurrentState().Solution))
		}

		if err := d.transfer(d.readBoundary); err != nil {
			return stats, err
		}

		solveStart := time.Now()
		_, solveErr := d.solver.Solve(dt)
		d.metrics.RecordSolve(ctx, time.Since(solveStart), solveErr)
		if solveErr != nil {
			return stats, solveErr
		}
		d.solver.AdvanceTimeStep()

		if err := d.transfer(d.writeBoundary); err != nil {
			return stats, err
		}

		accepted, converged, err := d.session.ExchangeAndAdvance(dt)
		stats.Iterations++
		if err != nil {
			return stats, err
		}

		if !converged {
			stats.Rollbacks++
			if err := cp.Restore(); err != nil {
				return stats, err
			}
			continue
		}

		if err := cp.Commit(); err != nil {
			return stats, err
		}
		stats.Windows++
		stats.FinalTime = d.solver.CurrentState().Time
		dt = accepted

		if d.endTime > 0 && stats.FinalTime >= d.endTime {
			break
		}
	}

	if err := d.session.Finalize(); err != nil {
		return stats, err
	}
	return stats, nil
}

func (d *Driver) transfer(fn TransferFunc) error {
	if fn == nil {
		return nil
	}
	return fn(d.session)
}
