package ports

import (
	"context"
	"testing"
	"time"

	"github.com/MohammadGhaderi0/Diabetes-Markov-Model/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunModelStoreContract runs a suite of tests to verify that a ModelStore implementation
// adheres to the defined interface contract.
func RunModelStoreContract(t *testing.T, store ModelStore) {
	ctx := context.Background()
	name := "contract-test-model-" + time.Now().Format("20060102150405")

	custom, err := domain.NewModel(
		[][]float64{{0.7, 0.2, 0.1}, {0, 0.6, 0.4}, {0, 0, 1}},
		[]string{"Well", "Sick", "Dead"},
	)
	require.NoError(t, err)

	t.Run("Save and Load", func(t *testing.T) {
		err := store.Save(ctx, name, custom)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, name)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, custom.Labels(), loaded.Labels())
		assert.Equal(t, custom.Matrix(), loaded.Matrix())
		assert.Equal(t, custom.TerminalStates(), loaded.TerminalStates())
	})

	t.Run("Save Overwrites", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, name, domain.DefaultModel()))

		loaded, err := store.Load(ctx, name)
		require.NoError(t, err)
		assert.Equal(t, domain.DefaultStates, loaded.Labels())
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+name)
		assert.ErrorIs(t, err, domain.ErrModelNotFound)
	})

	t.Run("StoreLoader", func(t *testing.T) {
		loaded, err := StoreLoader(store, name).Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, 4, loaded.NumStates())
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Delete(ctx, name)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, name)
		assert.ErrorIs(t, err, domain.ErrModelNotFound, "Load after Delete should return ErrModelNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := name + "-1"
		id2 := name + "-2"
		require.NoError(t, store.Save(ctx, id2, custom))
		require.NoError(t, store.Save(ctx, id1, custom))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		names, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, names, id1)
		assert.Contains(t, names, id2)
		assert.IsNonDecreasing(t, names)
	})
}
