package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidModel is returned when a transition matrix or its labels are malformed.
var ErrInvalidModel = errors.New("invalid model")

// ErrInvalidState is returned when a state index is outside the model.
var ErrInvalidState = errors.New("invalid state")

// ErrInvalidCohort is returned for a non-positive cohort size or a malformed initial distribution.
var ErrInvalidCohort = errors.New("invalid cohort")

// ErrModelNotFound is returned when a named model cannot be found in a store.
var ErrModelNotFound = errors.New("model not found")

// ModelError collects every problem found while validating a model.
type ModelError struct {
	Problems []string
}

func (e *ModelError) Error() string {
	if len(e.Problems) == 1 {
		return fmt.Sprintf("invalid model: %s", e.Problems[0])
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "invalid model: %d problems:", len(e.Problems))
	for i, p := range e.Problems {
		fmt.Fprintf(&sb, "\n  %d. %s", i+1, p)
	}
	return sb.String()
}

// Unwrap lets errors.Is match ErrInvalidModel.
func (e *ModelError) Unwrap() error {
	return ErrInvalidModel
}

// StateError reports a start state outside [0, NumStates).
type StateError struct {
	State     int
	NumStates int
}

func (e *StateError) Error() string {
	return fmt.Sprintf("invalid state: %d is outside [0, %d)", e.State, e.NumStates)
}

// Unwrap lets errors.Is match ErrInvalidState.
func (e *StateError) Unwrap() error {
	return ErrInvalidState
}
