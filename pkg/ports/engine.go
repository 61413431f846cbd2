package ports

import (
	"context"

	"github.com/MohammadGhaderi0/Diabetes-Markov-Model/pkg/domain"
)

// Simulator is the engine surface used by transport adapters (e.g. HTTP).
type Simulator interface {
	// Model returns the model the simulator was built from.
	Model() *domain.Model

	// Steps returns the simulation horizon.
	Steps() int

	// SimulateCohort runs n patients from a single start state.
	SimulateCohort(ctx context.Context, n, start int) (*domain.CohortResult, error)

	// SimulateCohortFrom runs n patients whose start states follow initial.
	SimulateCohortFrom(ctx context.Context, n int, initial []float64) (*domain.CohortResult, error)

	// ExpectedDistribution returns the exact state distribution after steps transitions from start.
	ExpectedDistribution(start, steps int) ([]float64, error)

	// Fork returns a simulator over the same model whose generator is seeded with seed.
	Fork(seed uint64) (Simulator, error)
}
