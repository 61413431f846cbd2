package dto

import (
	"fmt"

	"github.com/MohammadGhaderi0/Diabetes-Markov-Model/pkg/domain"
	"github.com/mitchellh/mapstructure"
)

// ModelDocument is the serialised form of a transition model.
// It uses "mapstructure" tags so that loosely typed YAML/JSON maps decode into it.
type ModelDocument struct {
	Name     string      `json:"name,omitempty" yaml:"name,omitempty" mapstructure:"name"`
	States   []string    `json:"states" yaml:"states" mapstructure:"states"`
	Matrix   [][]float64 `json:"matrix" yaml:"matrix" mapstructure:"matrix"`
	Terminal []string    `json:"terminal,omitempty" yaml:"terminal,omitempty" mapstructure:"terminal"`
	Steps    int         `json:"steps,omitempty" yaml:"steps,omitempty" mapstructure:"steps"`
}

// Decode converts a generic map (as produced by YAML/JSON decoders) into a ModelDocument.
// Numbers given as strings or integers are accepted.
func Decode(raw map[string]any) (ModelDocument, error) {
	var doc ModelDocument
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &doc,
		TagName:          "mapstructure",
	})
	if err != nil {
		return doc, err
	}
	if err := dec.Decode(raw); err != nil {
		return doc, fmt.Errorf("failed to decode model document: %w", err)
	}
	return doc, nil
}

// ToModel validates the document and builds a domain model.
// Terminal labels must name states of the document.
func (d ModelDocument) ToModel() (*domain.Model, error) {
	var terminal []int
	for _, label := range d.Terminal {
		idx := -1
		for i, s := range d.States {
			if s == label {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, &domain.ModelError{Problems: []string{fmt.Sprintf("terminal state %q is not a declared state", label)}}
		}
		terminal = append(terminal, idx)
	}
	m, err := domain.NewModel(d.Matrix, d.States, terminal...)
	if err != nil {
		return nil, err
	}
	if d.Steps < 0 {
		return nil, &domain.ModelError{Problems: []string{fmt.Sprintf("steps must not be negative, got %d", d.Steps)}}
	}
	m.Horizon = d.Steps
	return m, nil
}

// FromModel captures a model as a document.
func FromModel(name string, m *domain.Model) ModelDocument {
	doc := ModelDocument{
		Name:   name,
		States: m.Labels(),
		Matrix: m.Matrix(),
		Steps:  m.Horizon,
	}
	for _, t := range m.TerminalStates() {
		doc.Terminal = append(doc.Terminal, m.Label(t))
	}
	return doc
}
