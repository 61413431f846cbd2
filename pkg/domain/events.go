package domain

import (
	"context"
	"time"
)

// PatientEvent describes one finished trajectory.
type PatientEvent struct {
	Index    int  `json:"index"`
	Start    int  `json:"start"`
	Final    int  `json:"final"`
	Length   int  `json:"length"`
	Absorbed bool `json:"absorbed"`
}

// CohortEvent describes a finished cohort run.
type CohortEvent struct {
	Patients int           `json:"patients"`
	Counts   []int         `json:"counts"`
	Seed     uint64        `json:"seed"`
	Cohort   uint64        `json:"cohort"`
	Duration time.Duration `json:"duration"`
}

// LifecycleHooks defines callbacks for engine observability.
// When the engine runs with several workers OnPatientComplete is called concurrently.
type LifecycleHooks struct {
	OnPatientComplete func(context.Context, *PatientEvent)
	OnCohortComplete  func(context.Context, *CohortEvent)
}
