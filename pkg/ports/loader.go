package ports

import (
	"context"

	"github.com/MohammadGhaderi0/Diabetes-Markov-Model/pkg/domain"
)

// ModelLoader defines how the engine obtains its transition model.
// This allows the source (CSV/YAML/XLSX file, memory, Redis) to be decoupled.
type ModelLoader interface {
	// Load returns a validated model. Malformed input yields an error matching domain.ErrInvalidModel.
	Load(ctx context.Context) (*domain.Model, error)
}

// LoaderFunc adapts a function to ModelLoader.
type LoaderFunc func(ctx context.Context) (*domain.Model, error)

// Load calls f(ctx).
func (f LoaderFunc) Load(ctx context.Context) (*domain.Model, error) {
	return f(ctx)
}
