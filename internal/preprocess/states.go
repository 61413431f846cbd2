package preprocess

import (
	"fmt"

	"github.com/MohammadGhaderi0/Diabetes-Markov-Model/pkg/domain"
)

// Glucose thresholds in mg/dL.
const (
	UncontrolledGlucose = 140
	SevereGlucose       = 200
)

// Labels of the states a glucose reading can be classified into.
const (
	StateControlled   = "Controlled"
	StateUncontrolled = "Uncontrolled"
	StateSevere       = "Severe"
)

// ClassifyGlucose maps a glucose reading onto a disease state.
func ClassifyGlucose(glucose float64) string {
	switch {
	case glucose < UncontrolledGlucose:
		return StateControlled
	case glucose < SevereGlucose:
		return StateUncontrolled
	default:
		return StateSevere
	}
}

// StateCounts tallies the classified state of every patient.
func (d *Dataset) StateCounts() map[string]int {
	counts := make(map[string]int, 3)
	for _, p := range d.Patients {
		counts[ClassifyGlucose(p.Glucose)]++
	}
	return counts
}

// Distribution returns the share of patients in each state, ordered like the
// model's labels. States the data never produces get zero.
func (d *Dataset) Distribution(m *domain.Model) ([]float64, error) {
	if len(d.Patients) == 0 {
		return nil, fmt.Errorf("%w: no usable patient records", domain.ErrInvalidCohort)
	}

	counts := d.StateCounts()
	dist := make([]float64, m.NumStates())
	for state, c := range counts {
		i, ok := m.Index(state)
		if !ok {
			return nil, fmt.Errorf("%w: model has no state %q", domain.ErrInvalidState, state)
		}
		dist[i] = float64(c) / float64(len(d.Patients))
	}
	return dist, nil
}
