// Package graph is the task store for a scheduling run.
//
// A Graph holds an ordered sequence of tasks plus a directed edge relation
// from dependency to dependent. The topology (tasks, edges, dependency
// lists) is immutable once construction is done; the per-task execution
// fields (remaining ticks, completion, core binding, start/finish) are
// mutable and owned by exactly one simulation run at a time. ResetExecution
// restores them so the same graph can be re-simulated.
//
// Cycle detection is advisory: a cyclic graph is flagged but still
// simulatable, because tasks on a cycle simply never become ready and the
// engine's safety bound terminates the run.
package graph
