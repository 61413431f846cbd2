package runtime_test

import (
	"context"
	"math"
	"math/rand/v2"
	"sync/atomic"
	"testing"

	"github.com/MohammadGhaderi0/Diabetes-Markov-Model/internal/runtime"
	"github.com/MohammadGhaderi0/Diabetes-Markov-Model/internal/testutils"
	"github.com/MohammadGhaderi0/Diabetes-Markov-Model/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine(t *testing.T, m *domain.Model, opts ...runtime.EngineOption) *runtime.Engine {
	t.Helper()
	e, err := runtime.NewEngine(m, opts...)
	require.NoError(t, err)
	return e
}

func TestNewEngine_Validation(t *testing.T) {
	_, err := runtime.NewEngine(nil)
	assert.ErrorIs(t, err, domain.ErrInvalidModel)

	_, err = runtime.NewEngine(domain.DefaultModel(), runtime.WithSteps(0))
	assert.ErrorIs(t, err, domain.ErrInvalidModel)

	e, err := runtime.NewEngine(domain.DefaultModel())
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSteps, e.Steps())
}

func TestSimulatePatient_TrajectoryShape(t *testing.T) {
	m := domain.DefaultModel()
	e := newEngine(t, m, runtime.WithSeed(7), runtime.WithSteps(24))

	for start := range m.NumStates() {
		for range 200 {
			traj, err := e.SimulatePatient(start)
			require.NoError(t, err)

			assert.Equal(t, start, traj[0], "first element must be the start state")
			assert.GreaterOrEqual(t, len(traj), 2)
			assert.LessOrEqual(t, len(traj), 24+1)

			for i, s := range traj[1:] {
				if m.IsTerminal(s) {
					assert.Equal(t, len(traj)-1, i+1, "no state may follow a terminal state")
				}
			}
			if len(traj) < 24+1 {
				assert.True(t, traj.Absorbed(m), "short trajectories must end in a terminal state")
			}
		}
	}
}

func TestSimulatePatient_StartInTerminal(t *testing.T) {
	m := domain.DefaultModel()
	e := newEngine(t, m, runtime.WithSeed(1))

	traj, err := e.SimulatePatient(3)
	require.NoError(t, err)
	assert.Equal(t, domain.Trajectory{3, 3}, traj)
}

func TestSimulatePatient_InvalidStart(t *testing.T) {
	m := testutils.NewModel(t, [][]float64{{0.5, 0.5, 0}, {0, 0.5, 0.5}, {0, 0, 1}}, []string{"A", "B", "C"})
	e := newEngine(t, m, runtime.WithSeed(1))

	_, err := e.SimulatePatient(5)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	_, err = e.SimulatePatient(-1)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	_, err = e.SimulateCohort(context.Background(), 10, 5)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestScenario_IdentityMatrix(t *testing.T) {
	m := testutils.NewModel(t, [][]float64{{1, 0}, {0, 1}}, []string{"A", "B"})
	e := newEngine(t, m, runtime.WithSteps(10), runtime.WithSeed(3))

	traj, err := e.SimulatePatient(0)
	require.NoError(t, err)
	assert.Equal(t, domain.Trajectory{0, 0}, traj)

	result, err := e.SimulateCohort(context.Background(), 100, 0)
	require.NoError(t, err)
	for _, tr := range result.Trajectories {
		assert.Equal(t, domain.Trajectory{0, 0}, tr)
	}
	assert.Equal(t, map[string]int{"A": 100, "B": 0}, result.CountsByLabel())
}

func TestScenario_Oscillating(t *testing.T) {
	m := testutils.NewModel(t, [][]float64{{0, 1}, {1, 0}}, []string{"A", "B"})
	e := newEngine(t, m, runtime.WithSteps(5), runtime.WithSeed(3))

	result, err := e.SimulateCohort(context.Background(), 20, 0)
	require.NoError(t, err)

	for _, tr := range result.Trajectories {
		assert.Equal(t, domain.Trajectory{0, 1, 0, 1, 0, 1}, tr)
	}
	assert.Equal(t, []int{0, 20}, result.Counts)
}

func TestSimulateCohort_CountsSumToPatients(t *testing.T) {
	e := newEngine(t, domain.DefaultModel(), runtime.WithSeed(11))

	for _, n := range []int{1, 7, 250} {
		result, err := e.SimulateCohort(context.Background(), n, 0)
		require.NoError(t, err)
		assert.Len(t, result.Trajectories, n)
		assert.Len(t, result.Counts, 4)
		assert.Equal(t, n, result.Patients())

		for i, tr := range result.Trajectories {
			assert.Equal(t, 0, tr[0], "patient %d", i)
		}
	}
}

func TestSimulateCohort_RejectsNonPositiveSize(t *testing.T) {
	e := newEngine(t, domain.DefaultModel(), runtime.WithSeed(1))

	_, err := e.SimulateCohort(context.Background(), 0, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidCohort)
	_, err = e.SimulateCohort(context.Background(), -3, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidCohort)
}

func TestSimulateCohort_Deterministic(t *testing.T) {
	run := func(workers int) *domain.CohortResult {
		e := newEngine(t, domain.DefaultModel(), runtime.WithSeed(42), runtime.WithWorkers(workers))
		result, err := e.SimulateCohort(context.Background(), 300, 1)
		require.NoError(t, err)
		return result
	}

	sequential := run(1)
	assert.Equal(t, sequential, run(1), "same seed must reproduce the cohort")
	assert.Equal(t, sequential, run(4), "worker count must not change the outcome")
	assert.Equal(t, sequential, run(16))
}

func TestSimulateCohort_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, workers := range []int{1, 4} {
		e := newEngine(t, domain.DefaultModel(), runtime.WithSeed(1), runtime.WithWorkers(workers))
		_, err := e.SimulateCohort(ctx, 100, 0)
		assert.ErrorIs(t, err, context.Canceled)
	}
}

func TestSimulateCohort_Hooks(t *testing.T) {
	var patients, absorbed atomic.Int64
	var cohort *domain.CohortEvent

	hooks := domain.LifecycleHooks{
		OnPatientComplete: func(_ context.Context, ev *domain.PatientEvent) {
			patients.Add(1)
			if ev.Absorbed {
				absorbed.Add(1)
			}
		},
		OnCohortComplete: func(_ context.Context, ev *domain.CohortEvent) {
			cohort = ev
		},
	}

	e := newEngine(t, domain.DefaultModel(),
		runtime.WithSeed(5),
		runtime.WithWorkers(3),
		runtime.WithLifecycleHooks(hooks),
	)
	result, err := e.SimulateCohort(context.Background(), 120, 2)
	require.NoError(t, err)

	assert.EqualValues(t, 120, patients.Load())
	assert.EqualValues(t, result.Counts[3], absorbed.Load())
	require.NotNil(t, cohort)
	assert.Equal(t, 120, cohort.Patients)
	assert.Equal(t, result.Counts, cohort.Counts)
	assert.Equal(t, result.Seed, cohort.Seed)
}

func TestSimulateCohortFrom(t *testing.T) {
	m := testutils.NewModel(t, [][]float64{{0, 1}, {1, 0}}, []string{"A", "B"})
	e := newEngine(t, m, runtime.WithSteps(3), runtime.WithSeed(9))

	result, err := e.SimulateCohortFrom(context.Background(), 50, []float64{0, 1})
	require.NoError(t, err)
	for _, tr := range result.Trajectories {
		assert.Equal(t, domain.Trajectory{1, 0, 1, 0}, tr)
	}

	mixed, err := e.SimulateCohortFrom(context.Background(), 2000, []float64{0.5, 0.5})
	require.NoError(t, err)
	starts := 0
	for _, tr := range mixed.Trajectories {
		starts += tr[0]
	}
	assert.InDelta(t, 1000, starts, 150)

	_, err = e.SimulateCohortFrom(context.Background(), 10, []float64{1})
	assert.ErrorIs(t, err, domain.ErrInvalidCohort)
}

func TestExpectedDistribution(t *testing.T) {
	osc := newEngine(t, testutils.NewModel(t, [][]float64{{0, 1}, {1, 0}}, []string{"A", "B"}), runtime.WithSeed(1))

	dist, err := osc.ExpectedDistribution(0, 5)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0, 1}, dist, 1e-12)

	dist, err = osc.ExpectedDistribution(0, 0)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{1, 0}, dist, 1e-12)

	_, err = osc.ExpectedDistribution(4, 1)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	_, err = osc.ExpectedDistribution(0, -1)
	assert.Error(t, err)
}

func TestMonteCarloMatchesExpected(t *testing.T) {
	e := newEngine(t, domain.DefaultModel(), runtime.WithSeed(2024), runtime.WithWorkers(4))

	const n = 20000
	result, err := e.SimulateCohort(context.Background(), n, 0)
	require.NoError(t, err)

	expected, err := e.ExpectedCounts(n, 0)
	require.NoError(t, err)

	for i, p := range result.Proportions() {
		assert.InDelta(t, expected[i]/n, p, 0.02, "state %d", i)
	}
}

// constSource yields the same 64-bit value forever.
type constSource uint64

func (c constSource) Uint64() uint64 { return uint64(c) }

func TestWithSource_NeverTakesZeroProbabilityTransitions(t *testing.T) {
	m := domain.DefaultModel()

	for _, src := range []constSource{0, math.MaxUint64, 1 << 63} {
		e := newEngine(t, m, runtime.WithSource(src), runtime.WithSteps(24))

		for start := range m.NumStates() {
			traj, err := e.SimulatePatient(start)
			require.NoError(t, err)

			for i := 1; i < len(traj); i++ {
				assert.Positive(t, m.Probability(traj[i-1], traj[i]),
					"source %d: transition %d -> %d has zero probability", src, traj[i-1], traj[i])
			}
		}

		traj, err := e.SimulatePatient(3)
		require.NoError(t, err)
		assert.Equal(t, domain.Trajectory{3, 3}, traj, "death must stay absorbing")
	}
}

func TestWithSource_Extremes(t *testing.T) {
	m := domain.DefaultModel()

	low := newEngine(t, m, runtime.WithSource(constSource(0)))
	traj, err := low.SimulatePatient(2)
	require.NoError(t, err)
	assert.Equal(t, 1, traj[1], "the smallest draw picks the first state with positive weight")

	high := newEngine(t, m, runtime.WithSource(constSource(math.MaxUint64)))
	traj, err = high.SimulatePatient(2)
	require.NoError(t, err)
	assert.Equal(t, domain.Trajectory{2, 3}, traj, "the largest draw picks the last state with positive weight")
}

func TestWithSource_SeedsCohorts(t *testing.T) {
	e := newEngine(t, domain.DefaultModel(), runtime.WithSource(rand.NewPCG(1, 2)))

	result, err := e.SimulateCohort(context.Background(), 10, 0)
	require.NoError(t, err)
	assert.Equal(t, rand.NewPCG(1, 2).Uint64(), result.Seed, "the engine seed is the first value of the source")
	assert.Equal(t, e.Seed(), result.Seed)
}

func TestSimulatePatient_Reproducible(t *testing.T) {
	run := func() []domain.Trajectory {
		e := newEngine(t, domain.DefaultModel(), runtime.WithSeed(17))
		var out []domain.Trajectory
		for range 50 {
			traj, err := e.SimulatePatient(1)
			require.NoError(t, err)
			out = append(out, traj)
		}
		return out
	}

	assert.Equal(t, run(), run())
}

func TestCohortResult_ReportsSeedAndOrdinal(t *testing.T) {
	ctx := context.Background()
	e := newEngine(t, domain.DefaultModel(), runtime.WithSeed(42))

	first, err := e.SimulateCohort(ctx, 200, 1)
	require.NoError(t, err)
	second, err := e.SimulateCohort(ctx, 200, 1)
	require.NoError(t, err)

	assert.EqualValues(t, 42, first.Seed)
	assert.EqualValues(t, 0, first.Cohort)
	assert.EqualValues(t, 42, second.Seed)
	assert.EqualValues(t, 1, second.Cohort)
	assert.NotEqual(t, first.Trajectories, second.Trajectories, "successive cohorts use distinct streams")

	replay := newEngine(t, domain.DefaultModel(), runtime.WithSeed(first.Seed))
	again, err := replay.SimulateCohort(ctx, 200, 1)
	require.NoError(t, err)
	assert.Equal(t, first, again, "the reported seed reproduces the cohort")
}

func TestSimulateCohortFrom_SkipsZeroWeightStarts(t *testing.T) {
	for _, src := range []constSource{0, math.MaxUint64} {
		e := newEngine(t, domain.DefaultModel(), runtime.WithSource(src), runtime.WithSteps(2))

		result, err := e.SimulateCohortFrom(context.Background(), 100, []float64{0, 0.5, 0.5, 0})
		require.NoError(t, err)
		for _, tr := range result.Trajectories {
			assert.Contains(t, []int{1, 2}, tr[0])
		}
	}
}
