package domain

// DefaultSteps is the default simulation horizon (months).
const DefaultSteps = 60

// DefaultStates are the labels of the stock diabetes progression model.
var DefaultStates = []string{"Controlled", "Uncontrolled", "Severe", "Death"}

// DefaultMatrix returns the stock monthly transition matrix for DefaultStates.
func DefaultMatrix() [][]float64 {
	return [][]float64{
		{0.96, 0.03, 0.0095, 0.0005}, // Controlled
		{0.10, 0.80, 0.095, 0.005},   // Uncontrolled
		{0.00, 0.05, 0.945, 0.005},   // Severe
		{0.00, 0.00, 0.00, 1.00},     // Death
	}
}

// DefaultModel returns the stock 4-state model with Death as its terminal state.
func DefaultModel() *Model {
	m, err := NewModel(DefaultMatrix(), DefaultStates, len(DefaultStates)-1)
	if err != nil {
		// The stock matrix is a compile-time constant.
		panic(err)
	}
	m.Origin = OriginDefault
	return m
}
