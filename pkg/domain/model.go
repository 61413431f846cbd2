package domain

import (
	"fmt"
	"math"
	"slices"
)

// Tolerance is the allowed deviation of a row sum from 1.0.
const Tolerance = 1e-6

// Origin values describing where a model was loaded from.
const (
	OriginDefault = "default"
	OriginMemory  = "memory"
)

// Model is a discrete-time Markov chain over an ordered set of health states.
// It is immutable once built; accessors return copies.
type Model struct {
	labels   []string
	matrix   [][]float64
	terminal []bool

	// Origin describes where the model came from (e.g. "default", "file:probabilities.csv").
	Origin string

	// Horizon is the number of steps the model source suggests. Zero means none;
	// engines then use DefaultSteps unless told otherwise.
	Horizon int
}

// NewModel validates and builds a model.
//
// terminal lists the absorbing state indices. When it is empty every state whose
// row is the identity distribution is treated as terminal, so a model without
// absorbing rows has no terminal state at all.
//
// Every problem found is reported in a single *ModelError.
func NewModel(matrix [][]float64, labels []string, terminal ...int) (*Model, error) {
	var problems []string
	n := len(labels)

	if n == 0 {
		problems = append(problems, "at least one state label is required")
	}
	seen := make(map[string]bool, n)
	for i, l := range labels {
		if l == "" {
			problems = append(problems, fmt.Sprintf("state %d has an empty label", i))
			continue
		}
		if seen[l] {
			problems = append(problems, fmt.Sprintf("duplicate state label %q", l))
		}
		seen[l] = true
	}

	if len(matrix) != n {
		problems = append(problems, fmt.Sprintf("matrix has %d rows but %d labels were given", len(matrix), n))
	}
	for i, row := range matrix {
		if len(row) != len(matrix) {
			problems = append(problems, fmt.Sprintf("row %d has %d columns, matrix is not square", i, len(row)))
			continue
		}
		sum := 0.0
		for j, p := range row {
			if math.IsNaN(p) || math.IsInf(p, 0) || p < 0 || p > 1 {
				problems = append(problems, fmt.Sprintf("entry [%d][%d] = %v is outside [0,1]", i, j, p))
			}
			sum += p
		}
		if math.Abs(sum-1) > Tolerance {
			problems = append(problems, fmt.Sprintf("row %d sums to %.6g, want 1", i, sum))
		}
	}

	if len(problems) > 0 {
		return nil, &ModelError{Problems: problems}
	}

	m := &Model{
		labels:   slices.Clone(labels),
		matrix:   make([][]float64, n),
		terminal: make([]bool, n),
	}
	for i, row := range matrix {
		m.matrix[i] = slices.Clone(row)
	}

	if len(terminal) == 0 {
		for i := range n {
			m.terminal[i] = isAbsorbing(m.matrix[i], i)
		}
		return m, nil
	}

	for _, t := range terminal {
		if t < 0 || t >= n {
			problems = append(problems, fmt.Sprintf("terminal state %d is outside [0, %d)", t, n))
			continue
		}
		if !isAbsorbing(m.matrix[t], t) {
			problems = append(problems, fmt.Sprintf("terminal state %q is not absorbing (self-transition %.6g)", labels[t], m.matrix[t][t]))
			continue
		}
		m.terminal[t] = true
	}
	if len(problems) > 0 {
		return nil, &ModelError{Problems: problems}
	}

	return m, nil
}

func isAbsorbing(row []float64, i int) bool {
	return math.Abs(row[i]-1) <= Tolerance
}

// NumStates returns the number of states.
func (m *Model) NumStates() int {
	return len(m.labels)
}

// Labels returns a copy of the ordered state labels.
func (m *Model) Labels() []string {
	return slices.Clone(m.labels)
}

// Label returns the label of state i, or "" if i is out of range.
func (m *Model) Label(i int) string {
	if i < 0 || i >= len(m.labels) {
		return ""
	}
	return m.labels[i]
}

// Index returns the index of the state with the given label.
func (m *Model) Index(label string) (int, bool) {
	i := slices.Index(m.labels, label)
	return i, i >= 0
}

// Row returns a copy of the transition distribution out of state i.
func (m *Model) Row(i int) []float64 {
	return slices.Clone(m.matrix[i])
}

// Probability returns the one-step probability of moving from i to j.
func (m *Model) Probability(i, j int) float64 {
	return m.matrix[i][j]
}

// Matrix returns a deep copy of the transition matrix.
func (m *Model) Matrix() [][]float64 {
	out := make([][]float64, len(m.matrix))
	for i, row := range m.matrix {
		out[i] = slices.Clone(row)
	}
	return out
}

// IsTerminal reports whether state i is a designated absorbing state.
func (m *Model) IsTerminal(i int) bool {
	return i >= 0 && i < len(m.terminal) && m.terminal[i]
}

// AbsorbingStates returns the indices of the states whose row is the identity
// distribution, i.e. the terminal set NewModel infers when none is given.
func (m *Model) AbsorbingStates() []int {
	var out []int
	for i, row := range m.matrix {
		if isAbsorbing(row, i) {
			out = append(out, i)
		}
	}
	return out
}

// TerminalStates returns the indices of the terminal states in ascending order.
func (m *Model) TerminalStates() []int {
	var out []int
	for i, t := range m.terminal {
		if t {
			out = append(out, i)
		}
	}
	return out
}

// ValidateState returns a *StateError if s is not a state of the model.
func (m *Model) ValidateState(s int) error {
	if s < 0 || s >= len(m.labels) {
		return &StateError{State: s, NumStates: len(m.labels)}
	}
	return nil
}

// ValidateDistribution checks that p is a probability vector over the model's states.
func (m *Model) ValidateDistribution(p []float64) error {
	if len(p) != len(m.labels) {
		return fmt.Errorf("%w: distribution has %d entries, model has %d states", ErrInvalidCohort, len(p), len(m.labels))
	}
	sum := 0.0
	for i, v := range p {
		if math.IsNaN(v) || v < 0 || v > 1 {
			return fmt.Errorf("%w: distribution entry %d = %v is outside [0,1]", ErrInvalidCohort, i, v)
		}
		sum += v
	}
	if math.Abs(sum-1) > Tolerance {
		return fmt.Errorf("%w: distribution sums to %.6g, want 1", ErrInvalidCohort, sum)
	}
	return nil
}
