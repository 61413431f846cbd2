package domain_test

import (
	"errors"
	"testing"

	"github.com/MohammadGhaderi0/Diabetes-Markov-Model/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewModel_Valid(t *testing.T) {
	m, err := domain.NewModel([][]float64{{0.5, 0.5}, {0, 1}}, []string{"A", "B"})
	require.NoError(t, err)

	assert.Equal(t, 2, m.NumStates())
	assert.Equal(t, []string{"A", "B"}, m.Labels())
	assert.Equal(t, []int{1}, m.TerminalStates())
	assert.False(t, m.IsTerminal(0))
	assert.True(t, m.IsTerminal(1))
	assert.False(t, m.IsTerminal(7))
}

func TestNewModel_RejectsMalformed(t *testing.T) {
	tests := []struct {
		name   string
		matrix [][]float64
		labels []string
	}{
		{"row sums to 0.9", [][]float64{{0.5, 0.4}, {0, 1}}, []string{"A", "B"}},
		{"not square", [][]float64{{1, 0, 0}, {0, 1, 0}}, []string{"A", "B"}},
		{"label mismatch", [][]float64{{1, 0}, {0, 1}}, []string{"A", "B", "C"}},
		{"negative entry", [][]float64{{1.5, -0.5}, {0, 1}}, []string{"A", "B"}},
		{"entry above one", [][]float64{{1.2, -0.2}, {0, 1}}, []string{"A", "B"}},
		{"no labels", nil, nil},
		{"duplicate label", [][]float64{{1, 0}, {0, 1}}, []string{"A", "A"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := domain.NewModel(tt.matrix, tt.labels)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidModel)

			var me *domain.ModelError
			require.True(t, errors.As(err, &me))
			assert.NotEmpty(t, me.Problems)
		})
	}
}

func TestNewModel_RowSumTolerance(t *testing.T) {
	_, err := domain.NewModel([][]float64{{0.5, 0.5 + 5e-7}, {0, 1}}, []string{"A", "B"})
	assert.NoError(t, err)

	_, err = domain.NewModel([][]float64{{0.5, 0.5 + 5e-6}, {0, 1}}, []string{"A", "B"})
	assert.ErrorIs(t, err, domain.ErrInvalidModel)
}

func TestNewModel_CollectsAllProblems(t *testing.T) {
	_, err := domain.NewModel([][]float64{{0.5, 0.4}, {0.2, 0.2}}, []string{"A", "B"})

	var me *domain.ModelError
	require.True(t, errors.As(err, &me))
	assert.Len(t, me.Problems, 2)
	assert.Contains(t, err.Error(), "2 problems")
}

func TestNewModel_TerminalDesignation(t *testing.T) {
	t.Run("explicit terminal must be absorbing", func(t *testing.T) {
		_, err := domain.NewModel([][]float64{{0, 1}, {1, 0}}, []string{"A", "B"}, 1)
		assert.ErrorIs(t, err, domain.ErrInvalidModel)
	})

	t.Run("explicit terminal out of range", func(t *testing.T) {
		_, err := domain.NewModel([][]float64{{1, 0}, {0, 1}}, []string{"A", "B"}, 2)
		assert.ErrorIs(t, err, domain.ErrInvalidModel)
	})

	t.Run("explicit subset of absorbing rows", func(t *testing.T) {
		m, err := domain.NewModel([][]float64{{1, 0}, {0, 1}}, []string{"A", "B"}, 1)
		require.NoError(t, err)
		assert.Equal(t, []int{1}, m.TerminalStates())
	})

	t.Run("no absorbing rows means no terminal", func(t *testing.T) {
		m, err := domain.NewModel([][]float64{{0, 1}, {1, 0}}, []string{"A", "B"})
		require.NoError(t, err)
		assert.Empty(t, m.TerminalStates())
	})
}

func TestModel_IsImmutable(t *testing.T) {
	matrix := [][]float64{{0.5, 0.5}, {0, 1}}
	labels := []string{"A", "B"}
	m, err := domain.NewModel(matrix, labels)
	require.NoError(t, err)

	matrix[0][0] = 0.9
	labels[0] = "Z"
	m.Row(0)[0] = 0.1
	m.Matrix()[0][1] = 0.1

	assert.Equal(t, 0.5, m.Probability(0, 0))
	assert.Equal(t, 0.5, m.Probability(0, 1))
	assert.Equal(t, "A", m.Label(0))
}

func TestModel_ValidateState(t *testing.T) {
	m := domain.DefaultModel()

	assert.NoError(t, m.ValidateState(0))
	assert.NoError(t, m.ValidateState(3))

	err := m.ValidateState(5)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	var se *domain.StateError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, 5, se.State)
	assert.Equal(t, 4, se.NumStates)

	assert.ErrorIs(t, m.ValidateState(-1), domain.ErrInvalidState)
}

func TestModel_ValidateDistribution(t *testing.T) {
	m := domain.DefaultModel()

	assert.NoError(t, m.ValidateDistribution([]float64{0.7, 0.2, 0.1, 0}))
	assert.ErrorIs(t, m.ValidateDistribution([]float64{0.5, 0.5}), domain.ErrInvalidCohort)
	assert.ErrorIs(t, m.ValidateDistribution([]float64{0.5, 0.2, 0.1, 0}), domain.ErrInvalidCohort)
	assert.ErrorIs(t, m.ValidateDistribution([]float64{1.5, -0.5, 0, 0}), domain.ErrInvalidCohort)
}

func TestDefaultModel(t *testing.T) {
	m := domain.DefaultModel()

	assert.Equal(t, domain.DefaultStates, m.Labels())
	assert.Equal(t, []int{3}, m.TerminalStates())
	assert.Equal(t, domain.OriginDefault, m.Origin)

	idx, ok := m.Index("Severe")
	assert.True(t, ok)
	assert.Equal(t, 2, idx)
	_, ok = m.Index("Unknown")
	assert.False(t, ok)
}
