package runtime

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// ExpectedDistribution returns the exact state distribution after steps
// transitions from start, i.e. row start of P^steps.
//
// Terminal states are absorbing, so stopping a trajectory early does not change
// where it ends: for steps == Steps() this is the expected value of a cohort's
// Proportions.
func (e *Engine) ExpectedDistribution(start, steps int) ([]float64, error) {
	if err := e.model.ValidateState(start); err != nil {
		return nil, err
	}
	if steps < 0 {
		return nil, fmt.Errorf("steps must be non-negative, got %d", steps)
	}

	n := e.model.NumStates()
	p := mat.NewDense(n, n, nil)
	for i := range n {
		p.SetRow(i, e.model.Row(i))
	}

	var pow mat.Dense
	pow.Pow(p, steps)
	return mat.Row(nil, start, &pow), nil
}

// ExpectedCounts scales ExpectedDistribution over the engine horizon to a cohort of n patients.
func (e *Engine) ExpectedCounts(n, start int) ([]float64, error) {
	dist, err := e.ExpectedDistribution(start, e.steps)
	if err != nil {
		return nil, err
	}
	for i := range dist {
		dist[i] *= float64(n)
	}
	return dist, nil
}
