package domain

// Trajectory is the ordered sequence of state indices visited by one patient.
// The first element is the start state.
type Trajectory []int

// Final returns the last state reached, or -1 for an empty trajectory.
func (t Trajectory) Final() int {
	if len(t) == 0 {
		return -1
	}
	return t[len(t)-1]
}

// Absorbed reports whether the trajectory ended in a terminal state of m.
func (t Trajectory) Absorbed(m *Model) bool {
	return m.IsTerminal(t.Final())
}

// Labels maps the trajectory onto the model's state labels.
func (t Trajectory) Labels(m *Model) []string {
	out := make([]string, len(t))
	for i, s := range t {
		out[i] = m.Label(s)
	}
	return out
}

// CohortResult holds every trajectory of a cohort and the tally of final states.
type CohortResult struct {
	Labels       []string     `json:"labels"`
	Trajectories []Trajectory `json:"trajectories,omitempty"`
	// Counts[i] is the number of trajectories whose last element is state i.
	Counts []int `json:"counts"`
	Steps  int   `json:"steps"`
	// Seed is the engine seed. Cohort is the ordinal of this cohort among the
	// engine's runs; an engine built with Seed reproduces cohort k as its k-th run.
	Seed   uint64 `json:"seed"`
	Cohort uint64 `json:"cohort"`
}

// Patients returns the cohort size.
func (r *CohortResult) Patients() int {
	total := 0
	for _, c := range r.Counts {
		total += c
	}
	return total
}

// CountsByLabel returns the final-state tally keyed by state label.
func (r *CohortResult) CountsByLabel() map[string]int {
	out := make(map[string]int, len(r.Labels))
	for i, l := range r.Labels {
		out[l] = r.Counts[i]
	}
	return out
}

// Proportions returns the final-state tally normalised by cohort size.
func (r *CohortResult) Proportions() []float64 {
	out := make([]float64, len(r.Counts))
	n := r.Patients()
	if n == 0 {
		return out
	}
	for i, c := range r.Counts {
		out[i] = float64(c) / float64(n)
	}
	return out
}

// MeanLength returns the average trajectory length.
func (r *CohortResult) MeanLength() float64 {
	if len(r.Trajectories) == 0 {
		return 0
	}
	total := 0
	for _, t := range r.Trajectories {
		total += len(t)
	}
	return float64(total) / float64(len(r.Trajectories))
}

// Occupancy returns, for every step 0..Steps, how many patients were in each state.
// A trajectory that stopped early keeps counting in its final state.
func (r *CohortResult) Occupancy() [][]int {
	out := make([][]int, r.Steps+1)
	for step := range out {
		out[step] = make([]int, len(r.Labels))
	}
	for _, t := range r.Trajectories {
		if len(t) == 0 {
			continue
		}
		for step := range out {
			s := t[min(step, len(t)-1)]
			out[step][s]++
		}
	}
	return out
}
