package runtime

import (
	"log/slog"
	"math/rand/v2"

	"github.com/MohammadGhaderi0/Diabetes-Markov-Model/pkg/domain"
)

// EngineOption configures the runtime engine.
type EngineOption func(*Engine)

// WithSteps sets the simulation horizon (default domain.DefaultSteps).
func WithSteps(n int) EngineOption {
	return func(e *Engine) {
		e.steps = n
	}
}

// WithSource injects the generator used for single-patient runs.
// Without WithSeed the engine's seed is drawn from src once, at construction.
func WithSource(src rand.Source) EngineOption {
	return func(e *Engine) {
		e.src = src
	}
}

// WithSeed makes every run reproducible. The seed is reported on each
// CohortResult, so feeding it back reproduces the cohort.
func WithSeed(seed uint64) EngineOption {
	return func(e *Engine) {
		e.seed = &seed
	}
}

// WithWorkers sets how many goroutines simulate a cohort (default 1).
func WithWorkers(n int) EngineOption {
	return func(e *Engine) {
		e.workers = n
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}
