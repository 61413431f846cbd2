/*
Package markov simulates disease-state progression for a population of patients
with a discrete-time Markov chain.

A model is an ordered set of health states and a row-stochastic transition
matrix. Each simulated patient starts in a given state and, once per step, moves
to a state drawn from the current state's row until an absorbing (terminal)
state is reached or the horizon runs out. A cohort is a batch of independent
patients summarised by how many ended in each state.

# Usage

	eng, err := markov.New("probabilities.csv", markov.WithSeed(42))
	if err != nil {
		log.Fatal(err)
	}

	result, err := eng.SimulateCohort(context.Background(), 1000, 0)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(result.CountsByLabel())

When the model file is missing the stock four-state diabetes model
(Controlled, Uncontrolled, Severe, Death) is used and a warning is logged.
Models can also come from memory (pkg/adapters/memory), a Redis registry
(pkg/adapters/redis) or any ports.ModelLoader.
*/
package markov
