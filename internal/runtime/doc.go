/*
Package runtime implements the Monte Carlo engine behind the simulator.

An Engine owns one validated domain.Model and a seedable generator. It walks
individual patient trajectories, runs cohorts (optionally over a bounded pool of
goroutines) and computes the exact n-step distribution for comparison with the
Monte Carlo estimate.
*/
package runtime
