// Package engine runs the discrete-event simulation of a task graph over a
// fixed pool of cores.
//
// A Session owns all mutable run state: the graph's per-task execution
// fields, the core records and the clock. Nothing is process-global, so
// independent sessions (and tests) cannot interfere. Cores are not real
// executors — they are slots advanced in ascending core-id order within one
// logical tick, which is what makes every run deterministic.
//
// Core and task reference each other by id only, never by pointer: the core
// stores the bound task id and the task stores the bound core id, and the
// two must agree at every instant.
package engine
