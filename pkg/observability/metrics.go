package observability

import (
	"context"

	"github.com/MohammadGhaderi0/Diabetes-Markov-Model/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the simulator's collectors.
type Metrics struct {
	PatientsSimulated prometheus.Counter
	FinalStates       *prometheus.CounterVec
	TrajectoryLength  prometheus.Histogram
	CohortDuration    prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		PatientsSimulated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "markov_patients_simulated_total",
			Help: "Total number of simulated patient trajectories",
		}),
		FinalStates: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "markov_final_state_total",
				Help: "Number of trajectories ending in each state",
			},
			[]string{"state"},
		),
		TrajectoryLength: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "markov_trajectory_length",
			Help:    "Number of states recorded per trajectory, start state included",
			Buckets: []float64{2, 4, 8, 16, 32, 61, 121, 241},
		}),
		CohortDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name: "markov_cohort_duration_seconds",
			Help: "Wall time spent simulating a cohort",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.PatientsSimulated, m.FinalStates, m.TrajectoryLength, m.CohortDuration)
	}
	return m
}

// Hooks returns lifecycle hooks that record into m, naming final states with labels.
func (m *Metrics) Hooks(labels []string) domain.LifecycleHooks {
	stateName := func(i int) string {
		if i >= 0 && i < len(labels) {
			return labels[i]
		}
		return "unknown"
	}

	return domain.LifecycleHooks{
		OnPatientComplete: func(_ context.Context, e *domain.PatientEvent) {
			m.PatientsSimulated.Inc()
			m.FinalStates.WithLabelValues(stateName(e.Final)).Inc()
			m.TrajectoryLength.Observe(float64(e.Length))
		},
		OnCohortComplete: func(_ context.Context, e *domain.CohortEvent) {
			m.CohortDuration.Observe(e.Duration.Seconds())
		},
	}
}

// Combine fans every event out to each set of hooks in order.
func Combine(hooks ...domain.LifecycleHooks) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnPatientComplete: func(ctx context.Context, e *domain.PatientEvent) {
			for _, h := range hooks {
				if h.OnPatientComplete != nil {
					h.OnPatientComplete(ctx, e)
				}
			}
		},
		OnCohortComplete: func(ctx context.Context, e *domain.CohortEvent) {
			for _, h := range hooks {
				if h.OnCohortComplete != nil {
					h.OnCohortComplete(ctx, e)
				}
			}
		},
	}
}
