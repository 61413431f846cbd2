package graph

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/MohammadGhaderi0/Diabetes-Markov-Model/pkg/domain"
)

// Overlay contains simulated path data to visualize on the graph.
type Overlay struct {
	Visited []int
	Current int
}

// TrajectoryOverlay highlights the states visited by t, marking its final state as current.
func TrajectoryOverlay(t domain.Trajectory) *Overlay {
	if len(t) == 0 {
		return nil
	}
	return &Overlay{Visited: t, Current: t.Final()}
}

// GenerateMermaid produces a Mermaid state diagram of the model.
//
// Each state becomes a named node, every non-zero transition an edge labelled
// with its probability, and every terminal state is linked to the end marker.
// Overlay styles are applied if an overlay is provided.
func GenerateMermaid(m *domain.Model, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("stateDiagram-v2\n")

	for i, label := range m.Labels() {
		// Labels may contain spaces or punctuation, so node IDs are positional.
		sb.WriteString(fmt.Sprintf("    state \"%s\" as %s\n", escapeLabel(label), nodeID(i)))
	}
	if m.NumStates() > 0 {
		sb.WriteString(fmt.Sprintf("    [*] --> %s\n", nodeID(0)))
	}

	for i, row := range m.Matrix() {
		for j, p := range row {
			if p == 0 {
				continue
			}
			sb.WriteString(fmt.Sprintf("    %s --> %s: %s\n", nodeID(i), nodeID(j), formatProbability(p)))
		}
	}
	for _, t := range m.TerminalStates() {
		sb.WriteString(fmt.Sprintf("    %s --> [*]\n", nodeID(t)))
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Black text keeps the highlight readable on both light and dark themes.
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000\n")

		seen := make(map[int]bool)
		for _, s := range overlay.Visited {
			if s == overlay.Current || seen[s] || m.ValidateState(s) != nil {
				continue
			}
			seen[s] = true
			sb.WriteString(fmt.Sprintf("    class %s visited\n", nodeID(s)))
		}
		if m.ValidateState(overlay.Current) == nil {
			sb.WriteString(fmt.Sprintf("    class %s current\n", nodeID(overlay.Current)))
		}
	}

	return sb.String()
}

func nodeID(i int) string {
	return "s" + strconv.Itoa(i)
}

func formatProbability(p float64) string {
	return strconv.FormatFloat(p, 'g', 4, 64)
}

func escapeLabel(label string) string {
	return strings.ReplaceAll(label, "\"", "'")
}
