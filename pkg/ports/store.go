package ports

import (
	"context"

	"github.com/MohammadGhaderi0/Diabetes-Markov-Model/pkg/domain"
)

// ModelStore defines a named registry of transition models.
// It holds model input only; simulation results are never stored.
type ModelStore interface {
	// Save stores the model under name, replacing any previous entry.
	Save(ctx context.Context, name string, model *domain.Model) error

	// Load retrieves the model stored under name.
	// Returns domain.ErrModelNotFound if it does not exist.
	Load(ctx context.Context, name string) (*domain.Model, error)

	// Delete removes the model stored under name.
	Delete(ctx context.Context, name string) error

	// List returns the stored model names in ascending order.
	List(ctx context.Context) ([]string, error)
}

// StoreLoader exposes one entry of a ModelStore as a ModelLoader.
func StoreLoader(store ModelStore, name string) ModelLoader {
	return LoaderFunc(func(ctx context.Context) (*domain.Model, error) {
		return store.Load(ctx, name)
	})
}
