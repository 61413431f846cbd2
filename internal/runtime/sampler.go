package runtime

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand/v2"
	"sort"

	"github.com/MohammadGhaderi0/Diabetes-Markov-Model/pkg/domain"
	"gonum.org/v1/gonum/floats"
)

// seedStream is the PCG stream selector used for engine-level generators.
const seedStream = 0x9e3779b97f4a7c15

// categorical draws indices from a fixed weight vector by inverting its CDF.
// Entries with zero weight are never returned, whatever the source yields.
type categorical struct {
	cdf []float64
}

func newCategorical(weights []float64) categorical {
	cdf := make([]float64, len(weights))
	floats.CumSum(cdf, weights)
	return categorical{cdf: cdf}
}

// draw maps one 64-bit value from src onto u in (0, 1] and returns the first
// index whose cumulative weight reaches u times the total weight.
func (c categorical) draw(src rand.Source) int {
	u := float64(src.Uint64()>>11+1) / (1 << 53)
	return sort.SearchFloat64s(c.cdf, u*c.cdf[len(c.cdf)-1])
}

// transitions holds one categorical per row of a model. It is read-only and
// shared by every walk of an engine.
type transitions []categorical

func newTransitions(m *domain.Model) transitions {
	rows := make(transitions, m.NumStates())
	for i := range rows {
		rows[i] = newCategorical(m.Row(i))
	}
	return rows
}

// next draws the state that follows current.
func (t transitions) next(src rand.Source, current int) int {
	return t[current].draw(src)
}

// cohortSeed derives the seed of the k-th cohort simulated by an engine seeded with seed.
func cohortSeed(seed, k uint64) uint64 {
	return seed + k*seedStream
}

// patientSource returns the independent stream for patient i of a cohort.
func patientSource(cohortSeed uint64, i int) rand.Source {
	return rand.NewPCG(cohortSeed, uint64(i))
}

// newSeed generates a random seed using crypto/rand.
func newSeed() (uint64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}
