/*
Package domain contains the core models of the disease progression simulator.

It defines the health-state Markov chain (Model), the per-patient output
(Trajectory) and the aggregated cohort output (CohortResult). This package is
kept pure and free of I/O, randomness and persistence so that adapters and the
runtime can share it without cycles.

# Key Entities

  - Model: ordered state labels, a row-stochastic transition matrix and the set
    of terminal (absorbing) states.
  - Trajectory: the sequence of state indices visited by one simulated patient.
  - CohortResult: every trajectory of a cohort plus the final-state tally.
  - LifecycleHooks: callbacks fired as patients and cohorts complete.
*/
package domain
