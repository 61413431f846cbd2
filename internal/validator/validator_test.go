package validator_test

import (
	"testing"

	"github.com/MohammadGhaderi0/Diabetes-Markov-Model/internal/testutils"
	"github.com/MohammadGhaderi0/Diabetes-Markov-Model/internal/validator"
	"github.com/MohammadGhaderi0/Diabetes-Markov-Model/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateModel(t *testing.T) {
	tests := []struct {
		name        string
		model       *domain.Model
		start       int
		unreachable []int
		trapped     []int
	}{
		{
			name:  "Default Model",
			model: domain.DefaultModel(),
		},
		{
			name: "Unreachable State",
			// C can only be left, never entered.
			model: testutils.NewModel(t,
				[][]float64{{0.5, 0.5, 0}, {0, 1, 0}, {0.5, 0.5, 0}},
				[]string{"A", "B", "C"}),
			unreachable: []int{2},
		},
		{
			name: "Trapped States",
			// A and B oscillate forever; D is terminal but only reachable from C.
			model: testutils.NewModel(t,
				[][]float64{{0, 1, 0, 0}, {1, 0, 0, 0}, {0, 0, 0.5, 0.5}, {0, 0, 0, 1}},
				[]string{"A", "B", "C", "D"}),
			unreachable: []int{2, 3},
			trapped:     []int{0, 1},
		},
		{
			name: "No Terminal States",
			model: testutils.NewModel(t,
				[][]float64{{0, 1}, {1, 0}},
				[]string{"A", "B"}),
		},
		{
			name:  "Start In Terminal",
			model: domain.DefaultModel(),
			start: 3,
			// Nothing leaves Death.
			unreachable: []int{0, 1, 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, err := validator.ValidateModel(tt.model, tt.start)
			require.NoError(t, err)
			assert.Equal(t, tt.unreachable, report.Unreachable)
			assert.Equal(t, tt.trapped, report.Trapped)
			assert.Equal(t, tt.unreachable == nil && tt.trapped == nil, report.OK())
		})
	}
}

func TestValidateModel_InvalidStart(t *testing.T) {
	_, err := validator.ValidateModel(domain.DefaultModel(), 9)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestReport_Warnings(t *testing.T) {
	m := testutils.NewModel(t,
		[][]float64{{0, 1, 0, 0}, {1, 0, 0, 0}, {0, 0, 0.5, 0.5}, {0, 0, 0, 1}},
		[]string{"A", "B", "C", "D"})

	report, err := validator.ValidateModel(m, 0)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"state 'C' is unreachable from the start state",
		"state 'D' is unreachable from the start state",
		"state 'A' can never reach a terminal state",
		"state 'B' can never reach a terminal state",
	}, report.Warnings(m))
	assert.Contains(t, validator.Describe(m, report), "found 4 warnings:\n- state 'C'")
}
