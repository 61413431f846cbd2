package tui

import (
	"fmt"
	"strings"

	"github.com/MohammadGhaderi0/Diabetes-Markov-Model/pkg/domain"
)

const barWidth = 30

// Report builds a markdown summary of a cohort run: the final state
// distribution with proportional bars, optionally compared with the analytic
// expectation, and the first trajectory as a sample.
func Report(m *domain.Model, result *domain.CohortResult, expected []float64) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# Cohort simulation\n\n")
	fmt.Fprintf(&sb, "- **Model**: %s\n", originOrDefault(m.Origin))
	fmt.Fprintf(&sb, "- **Patients**: %d\n", result.Patients())
	fmt.Fprintf(&sb, "- **Horizon**: %d steps\n", result.Steps)
	fmt.Fprintf(&sb, "- **Seed**: %d\n", result.Seed)
	if result.Cohort > 0 {
		fmt.Fprintf(&sb, "- **Cohort**: %d\n", result.Cohort)
	}
	if len(result.Trajectories) > 0 {
		fmt.Fprintf(&sb, "- **Mean trajectory length**: %.2f\n", result.MeanLength())
	}
	sb.WriteString("\n## Final state distribution\n\n")

	withExpected := len(expected) == len(result.Counts)
	if withExpected {
		sb.WriteString("| State | Patients | Share | Expected | |\n")
		sb.WriteString("|---|---:|---:|---:|---|\n")
	} else {
		sb.WriteString("| State | Patients | Share | |\n")
		sb.WriteString("|---|---:|---:|---|\n")
	}

	props := result.Proportions()
	for i, label := range result.Labels {
		bar := Bar(props[i], barWidth)
		if withExpected {
			fmt.Fprintf(&sb, "| %s | %d | %.1f%% | %.1f%% | `%s` |\n", label, result.Counts[i], props[i]*100, expected[i]*100, bar)
		} else {
			fmt.Fprintf(&sb, "| %s | %d | %.1f%% | `%s` |\n", label, result.Counts[i], props[i]*100, bar)
		}
	}

	if len(result.Trajectories) > 0 {
		sample := result.Trajectories[0]
		sb.WriteString("\n## Sample trajectory (patient 1)\n\n")
		sb.WriteString(strings.Join(sample.Labels(m), " → "))
		sb.WriteString("\n")
	}

	return sb.String()
}

// Bar draws a horizontal bar of the given fraction of width.
func Bar(fraction float64, width int) string {
	fraction = max(0, min(1, fraction))
	filled := int(fraction*float64(width) + 0.5)
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func originOrDefault(origin string) string {
	if origin == "" {
		return domain.OriginDefault
	}
	return origin
}
