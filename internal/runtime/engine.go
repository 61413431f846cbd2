package runtime

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/MohammadGhaderi0/Diabetes-Markov-Model/pkg/domain"
	"golang.org/x/sync/errgroup"
)

// Engine is the Monte Carlo simulator for a single Markov model.
//
// The model is read-only for the engine's lifetime. The k-th cohort of an
// engine seeded with s gives patient i its own PCG stream keyed by (s, k, i),
// so a seeded cohort yields the same result whatever the worker count.
// Single-patient runs draw from the engine's generator, guarded by a mutex.
type Engine struct {
	model   *domain.Model
	rows    transitions
	steps   int
	workers int
	hooks   domain.LifecycleHooks
	logger  *slog.Logger
	seed    *uint64

	mu      sync.Mutex
	src     rand.Source
	cohorts uint64
}

// NewEngine creates an engine for model.
func NewEngine(model *domain.Model, opts ...EngineOption) (*Engine, error) {
	if model == nil {
		return nil, &domain.ModelError{Problems: []string{"model is nil"}}
	}

	e := &Engine{
		model:   model,
		steps:   domain.DefaultSteps,
		workers: 1,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.steps <= 0 {
		return nil, &domain.ModelError{Problems: []string{fmt.Sprintf("horizon must be positive, got %d steps", e.steps)}}
	}
	if e.workers < 1 {
		e.workers = 1
	}
	if e.seed == nil {
		var seed uint64
		if e.src != nil {
			seed = e.src.Uint64()
		} else {
			s, err := newSeed()
			if err != nil {
				return nil, err
			}
			seed = s
		}
		e.seed = &seed
	}
	if e.src == nil {
		e.src = rand.NewPCG(*e.seed, seedStream)
	}
	e.rows = newTransitions(model)

	return e, nil
}

// Model returns the engine's model.
func (e *Engine) Model() *domain.Model {
	return e.model
}

// Steps returns the simulation horizon.
func (e *Engine) Steps() int {
	return e.steps
}

// Seed returns the seed reported on every CohortResult of the engine.
func (e *Engine) Seed() uint64 {
	return *e.seed
}

// SimulatePatient simulates one trajectory from start using the engine's generator.
//
// The start state is recorded first. Then up to Steps() next states are drawn
// from the current state's row; the walk stops right after a terminal state is
// drawn. At least one draw always happens, so starting in a terminal state
// yields [start, start].
func (e *Engine) SimulatePatient(start int) (domain.Trajectory, error) {
	if err := e.model.ValidateState(start); err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.walk(e.src, start), nil
}

// SimulateCohort simulates n patients that all start in the given state.
func (e *Engine) SimulateCohort(ctx context.Context, n, start int) (*domain.CohortResult, error) {
	if err := e.model.ValidateState(start); err != nil {
		return nil, err
	}
	return e.simulate(ctx, n, func(rand.Source) int { return start })
}

// SimulateCohortFrom simulates n patients whose start states are drawn from initial.
func (e *Engine) SimulateCohortFrom(ctx context.Context, n int, initial []float64) (*domain.CohortResult, error) {
	if err := e.model.ValidateDistribution(initial); err != nil {
		return nil, err
	}
	starts := newCategorical(initial)
	return e.simulate(ctx, n, starts.draw)
}

// startFunc picks a patient's start state from the patient's own stream.
type startFunc func(src rand.Source) int

func (e *Engine) simulate(ctx context.Context, n int, startOf startFunc) (*domain.CohortResult, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: patient count must be positive, got %d", domain.ErrInvalidCohort, n)
	}

	began := time.Now()
	cohort := e.nextCohort()
	seed := cohortSeed(*e.seed, cohort)
	workers := min(e.workers, n)
	e.logger.Debug("simulating cohort", "patients", n, "steps", e.steps, "seed", *e.seed, "cohort", cohort, "workers", workers)

	trajectories := make([]domain.Trajectory, n)
	runPatient := func(i int) {
		src := patientSource(seed, i)
		start := startOf(src)
		traj := e.walk(src, start)
		trajectories[i] = traj

		if e.hooks.OnPatientComplete != nil {
			e.hooks.OnPatientComplete(ctx, &domain.PatientEvent{
				Index:    i,
				Start:    start,
				Final:    traj.Final(),
				Length:   len(traj),
				Absorbed: traj.Absorbed(e.model),
			})
		}
	}

	if workers == 1 {
		for i := range n {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			runPatient(i)
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(workers)
		for i := range n {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				runPatient(i)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	counts := make([]int, e.model.NumStates())
	for _, t := range trajectories {
		counts[t.Final()]++
	}

	result := &domain.CohortResult{
		Labels:       e.model.Labels(),
		Trajectories: trajectories,
		Counts:       counts,
		Steps:        e.steps,
		Seed:         *e.seed,
		Cohort:       cohort,
	}

	elapsed := time.Since(began)
	if e.hooks.OnCohortComplete != nil {
		e.hooks.OnCohortComplete(ctx, &domain.CohortEvent{
			Patients: n,
			Counts:   counts,
			Seed:     *e.seed,
			Cohort:   cohort,
			Duration: elapsed,
		})
	}
	e.logger.Info("cohort complete", "patients", n, "counts", counts, "duration", elapsed)

	return result, nil
}

func (e *Engine) walk(src rand.Source, start int) domain.Trajectory {
	traj := make(domain.Trajectory, 1, e.steps+1)
	traj[0] = start

	current := start
	for range e.steps {
		current = e.rows.next(src, current)
		traj = append(traj, current)
		if e.model.IsTerminal(current) {
			break
		}
	}
	return traj
}

// nextCohort returns the ordinal of the next cohort.
func (e *Engine) nextCohort() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	k := e.cohorts
	e.cohorts++
	return k
}
