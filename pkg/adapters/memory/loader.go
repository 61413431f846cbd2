package memory

import (
	"context"
	"fmt"

	"github.com/MohammadGhaderi0/Diabetes-Markov-Model/pkg/domain"
)

// Loader implements ports.ModelLoader for a model built in code.
type Loader struct {
	model *domain.Model
}

// NewLoader wraps an already validated model.
func NewLoader(m *domain.Model) *Loader {
	return &Loader{model: m}
}

// NewFromMatrix validates matrix and labels and wraps the resulting model.
// This improves DX for tests and embedded scenarios.
func NewFromMatrix(matrix [][]float64, labels []string, terminal ...int) (*Loader, error) {
	m, err := domain.NewModel(matrix, labels, terminal...)
	if err != nil {
		return nil, err
	}
	m.Origin = domain.OriginMemory
	return &Loader{model: m}, nil
}

// Load returns the wrapped model.
func (l *Loader) Load(ctx context.Context) (*domain.Model, error) {
	if l.model == nil {
		return nil, fmt.Errorf("%w: memory loader has no model", domain.ErrInvalidModel)
	}
	return l.model, nil
}
