package validator

import (
	"fmt"
	"strings"

	"github.com/MohammadGhaderi0/Diabetes-Markov-Model/pkg/domain"
)

// Report lists structural warnings about a valid model.
// None of them make the model unusable; they usually point at a typo in the matrix.
type Report struct {
	// Unreachable states can never be entered from the start state.
	Unreachable []int
	// Trapped states are reachable but cannot reach any terminal state.
	// Always empty for models without terminal states.
	Trapped []int
}

// OK reports whether no warning was found.
func (r *Report) OK() bool {
	return len(r.Unreachable) == 0 && len(r.Trapped) == 0
}

// Warnings renders the report using the model's labels.
func (r *Report) Warnings(m *domain.Model) []string {
	var out []string
	for _, s := range r.Unreachable {
		out = append(out, fmt.Sprintf("state '%s' is unreachable from the start state", m.Label(s)))
	}
	for _, s := range r.Trapped {
		out = append(out, fmt.Sprintf("state '%s' can never reach a terminal state", m.Label(s)))
	}
	return out
}

// ValidateModel crawls the transition graph from start, following every
// transition with non-zero probability.
func ValidateModel(m *domain.Model, start int) (*Report, error) {
	if err := m.ValidateState(start); err != nil {
		return nil, err
	}

	n := m.NumStates()
	visited := crawl(n, start, func(s int) []int {
		var next []int
		for j, p := range m.Row(s) {
			if p > 0 {
				next = append(next, j)
			}
		}
		return next
	})

	report := &Report{}
	for s := range n {
		if !visited[s] {
			report.Unreachable = append(report.Unreachable, s)
		}
	}

	terminals := m.TerminalStates()
	if len(terminals) == 0 {
		return report, nil
	}

	// Walk the reversed graph from every terminal state.
	canFinish := make([]bool, n)
	for _, t := range terminals {
		reached := crawl(n, t, func(s int) []int {
			var prev []int
			for i := range n {
				if m.Probability(i, s) > 0 {
					prev = append(prev, i)
				}
			}
			return prev
		})
		for s, ok := range reached {
			canFinish[s] = canFinish[s] || ok
		}
	}
	for s := range n {
		if visited[s] && !canFinish[s] {
			report.Trapped = append(report.Trapped, s)
		}
	}
	return report, nil
}

// crawl runs a breadth-first search and returns the visited set.
func crawl(n, from int, next func(int) []int) []bool {
	visited := make([]bool, n)
	queue := []int{from}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if visited[current] {
			continue
		}
		visited[current] = true
		for _, target := range next(current) {
			if !visited[target] {
				queue = append(queue, target)
			}
		}
	}
	return visited
}

// Describe joins the warnings into a bullet list.
func Describe(m *domain.Model, r *Report) string {
	return fmt.Sprintf("found %d warnings:\n- %s", len(r.Unreachable)+len(r.Trapped), strings.Join(r.Warnings(m), "\n- "))
}
