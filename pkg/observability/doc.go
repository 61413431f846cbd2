/*
Package observability turns engine lifecycle events into Prometheus metrics.

Metrics.Hooks returns a domain.LifecycleHooks value that counts simulated
patients, tallies final states by label and records trajectory lengths and
cohort durations. Combine fans one event out to several hook sets.
*/
package observability
