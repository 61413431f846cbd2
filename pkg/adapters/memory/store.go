package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/MohammadGhaderi0/Diabetes-Markov-Model/pkg/domain"
)

// Store implements ports.ModelStore in process memory.
type Store struct {
	mu     sync.RWMutex
	models map[string]*domain.Model
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		models: make(map[string]*domain.Model),
	}
}

// Save stores the model under name.
func (s *Store) Save(ctx context.Context, name string, model *domain.Model) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.models[name] = model
	return nil
}

// Load retrieves a model by name.
func (s *Store) Load(ctx context.Context, name string) (*domain.Model, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.models[name]
	if !ok {
		return nil, domain.ErrModelNotFound
	}
	return m, nil
}

// Delete removes a model.
func (s *Store) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.models, name)
	return nil
}

// List returns all model names, sorted.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.models))
	for name := range s.models {
		names = append(names, name)
	}
	slices.Sort(names)
	return names, nil
}
