package memory_test

import (
	"context"
	"testing"

	"github.com/MohammadGhaderi0/Diabetes-Markov-Model/pkg/adapters/memory"
	"github.com/MohammadGhaderi0/Diabetes-Markov-Model/pkg/domain"
	"github.com/MohammadGhaderi0/Diabetes-Markov-Model/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Contract(t *testing.T) {
	ports.RunModelStoreContract(t, memory.NewStore())
}

func TestLoader(t *testing.T) {
	l, err := memory.NewFromMatrix([][]float64{{0, 1}, {1, 0}}, []string{"A", "B"})
	require.NoError(t, err)

	m, err := l.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.OriginMemory, m.Origin)
	assert.Equal(t, []string{"A", "B"}, m.Labels())

	_, err = memory.NewFromMatrix([][]float64{{0.5, 0.4}, {0, 1}}, []string{"A", "B"})
	assert.ErrorIs(t, err, domain.ErrInvalidModel)

	_, err = memory.NewLoader(nil).Load(context.Background())
	assert.ErrorIs(t, err, domain.ErrInvalidModel)
}
