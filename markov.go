package markov

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/MohammadGhaderi0/Diabetes-Markov-Model/internal/runtime"
	"github.com/MohammadGhaderi0/Diabetes-Markov-Model/pkg/adapters/file"
	"github.com/MohammadGhaderi0/Diabetes-Markov-Model/pkg/domain"
	"github.com/MohammadGhaderi0/Diabetes-Markov-Model/pkg/ports"
)

// Version is the release string reported by the CLI and the HTTP API.
var Version = "v0.1.0"

// Engine is the high-level entry point for the simulator.
// It wraps the internal runtime and provides a simplified API for consumers.
type Engine struct {
	runtime *runtime.Engine
	loader  ports.ModelLoader
	model   *domain.Model
	hooks   domain.LifecycleHooks
	logger  *slog.Logger
	steps   int
	workers int
	seed    *uint64
}

var _ ports.Simulator = (*Engine)(nil)

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLoader injects a custom ModelLoader, bypassing the default file loader.
func WithLoader(l ports.ModelLoader) Option {
	return func(e *Engine) {
		e.loader = l
	}
}

// WithModel uses an already built model.
func WithModel(m *domain.Model) Option {
	return func(e *Engine) {
		e.model = m
	}
}

// WithSteps sets the simulation horizon. Zero keeps the model's own horizon,
// or domain.DefaultSteps when it has none.
func WithSteps(n int) Option {
	return func(e *Engine) {
		e.steps = n
	}
}

// WithSeed makes every run of the engine reproducible.
func WithSeed(seed uint64) Option {
	return func(e *Engine) {
		e.seed = &seed
	}
}

// WithWorkers sets how many goroutines simulate a cohort.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		e.workers = n
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// New initializes a new Engine.
// By default it loads the model from modelPath, falling back to the stock
// diabetes model when the path is empty or does not exist.
// If WithLoader or WithModel is provided, modelPath is ignored.
func New(modelPath string, opts ...Option) (*Engine, error) {
	return NewContext(context.Background(), modelPath, opts...)
}

// NewContext is New with a context for the model load.
func NewContext(ctx context.Context, modelPath string, opts ...Option) (*Engine, error) {
	eng := &Engine{
		workers: 1,
	}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.logger == nil {
		eng.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	if eng.model == nil {
		if eng.loader == nil {
			eng.loader = file.New(modelPath, file.WithLogger(eng.logger))
		}
		m, err := eng.loader.Load(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load model: %w", err)
		}
		eng.model = m
	}

	if eng.steps == 0 {
		eng.steps = eng.model.Horizon
	}
	if eng.steps == 0 {
		eng.steps = domain.DefaultSteps
	}
	eng.logger = eng.logger.With("model", eng.model.Origin)

	rt, err := eng.newRuntime(eng.seed)
	if err != nil {
		return nil, err
	}
	eng.runtime = rt
	return eng, nil
}

func (e *Engine) newRuntime(seed *uint64) (*runtime.Engine, error) {
	opts := []runtime.EngineOption{
		runtime.WithSteps(e.steps),
		runtime.WithWorkers(e.workers),
		runtime.WithLogger(e.logger),
		runtime.WithLifecycleHooks(e.hooks),
	}
	if seed != nil {
		opts = append(opts, runtime.WithSeed(*seed))
	}
	return runtime.NewEngine(e.model, opts...)
}

// Model returns the loaded model.
func (e *Engine) Model() *domain.Model {
	return e.model
}

// Steps returns the simulation horizon.
func (e *Engine) Steps() int {
	return e.runtime.Steps()
}

// SimulatePatient simulates a single patient starting in start.
func (e *Engine) SimulatePatient(start int) (domain.Trajectory, error) {
	return e.runtime.SimulatePatient(start)
}

// SimulateCohort simulates n patients starting in start and tallies their final states.
func (e *Engine) SimulateCohort(ctx context.Context, n, start int) (*domain.CohortResult, error) {
	return e.runtime.SimulateCohort(ctx, n, start)
}

// SimulateCohortFrom simulates n patients whose start states are drawn from initial.
func (e *Engine) SimulateCohortFrom(ctx context.Context, n int, initial []float64) (*domain.CohortResult, error) {
	return e.runtime.SimulateCohortFrom(ctx, n, initial)
}

// ExpectedDistribution returns the exact state distribution after steps transitions from start.
func (e *Engine) ExpectedDistribution(start, steps int) ([]float64, error) {
	return e.runtime.ExpectedDistribution(start, steps)
}

// ExpectedCounts returns the expected final-state counts of an n-patient cohort.
func (e *Engine) ExpectedCounts(n, start int) ([]float64, error) {
	return e.runtime.ExpectedCounts(n, start)
}

// Fork returns an engine over the same model, configuration and hooks,
// with its generator seeded by seed.
func (e *Engine) Fork(seed uint64) (ports.Simulator, error) {
	rt, err := e.newRuntime(&seed)
	if err != nil {
		return nil, err
	}
	fork := *e
	fork.runtime = rt
	fork.seed = &seed
	return &fork, nil
}
