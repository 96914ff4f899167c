package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/vk/dagsched/internal/ctxlog"
	"github.com/vk/dagsched/internal/graph"
)

const (
	// MaxCores bounds the simulated core pool.
	MaxCores = 16

	// DefaultCores is used when the configured core count is out of range.
	DefaultCores = 4

	// MinQuantum is the smallest accepted time quantum.
	MinQuantum = 10

	// DefaultQuantum is used when the configured quantum is below MinQuantum.
	DefaultQuantum = 50

	// DefaultMaxTicks is the safety bound on the clock. A run that has not
	// completed by then did not converge, typically because of an
	// unsatisfiable cyclic dependency.
	DefaultMaxTicks = 10000
)

// noTask marks a core slot with nothing bound to it.
const noTask = -1

// ErrNotConverged reports that the safety tick bound was exceeded before
// every task completed. The run halts; partial metrics remain readable.
var ErrNotConverged = errors.New("scheduling did not converge")

// DelayFunc is an optional pacing hook invoked once per tick. It is purely
// cosmetic: a run must produce identical results with the hook removed.
type DelayFunc func()

// Options configures a simulation session. Zero values fall back to the
// package defaults.
type Options struct {
	Cores    int
	Quantum  int
	MaxTicks int
	Pace     DelayFunc
}

// withDefaults returns a copy with every unset or nonsensical field replaced
// by its default. The stricter operator-facing bounds (1..MaxCores cores,
// quantum >= MinQuantum) are enforced by the app configuration layer; the
// engine itself accepts any positive values so tests can run tight quanta.
func (o Options) withDefaults() Options {
	if o.Cores < 1 {
		o.Cores = DefaultCores
	}
	if o.Quantum < 1 {
		o.Quantum = DefaultQuantum
	}
	if o.MaxTicks <= 0 {
		o.MaxTicks = DefaultMaxTicks
	}
	return o
}

// core is one simulated execution slot.
type core struct {
	id        int
	taskID    int
	slice     int
	idle      bool
	idleTicks int
}

// unbind releases the core's current task and marks it idle.
func (c *core) unbind() {
	c.taskID = noTask
	c.slice = 0
	c.idle = true
}

// Session is one simulation run over a graph: a fixed core pool, a single
// integer clock and the per-task execution state it mutates.
type Session struct {
	graph *graph.Graph
	opts  Options
	runID uuid.UUID

	cores []core
	clock int

	// yielded holds the ids of tasks preempted during the current tick.
	// Selection ranks them below equal-priority, equal-period peers, so an
	// exhausted quantum rotates the core without demoting the task past
	// anything it strictly outranks.
	yielded map[int]bool
}

// NewSession creates a session for the given graph. The graph's execution
// state is reset when Run starts, so the same graph can be simulated by
// consecutive sessions.
func NewSession(g *graph.Graph, opts Options) *Session {
	return &Session{
		graph:   g,
		opts:    opts.withDefaults(),
		runID:   uuid.New(),
		yielded: make(map[int]bool),
	}
}

// RunID returns the unique id of this session.
func (s *Session) RunID() uuid.UUID {
	return s.runID
}

// Result is the final state of a run, read by the metrics collector.
type Result struct {
	RunID     uuid.UUID
	Elapsed   int
	Completed int
	CoreIdle  []int
	Converged bool
}

// Run executes the simulation until every task completes or the safety
// bound is exceeded, in which case it returns ErrNotConverged together with
// the partial result.
//
// Per tick, always in ascending core-id order: advance running cores and
// apply completion/preemption, fill idle cores, advance the clock, account
// idle time. Completion is checked before quantum expiry, so a task
// finishing exactly as its quantum runs out counts as completed, not
// preempted. The loop halts as soon as the last task completes, before the
// clock moves again.
func (s *Session) Run(ctx context.Context) (Result, error) {
	logger := ctxlog.FromContext(ctx).With("run_id", s.runID)

	s.graph.ResetExecution()
	s.clock = 0
	s.cores = make([]core, s.opts.Cores)
	for i := range s.cores {
		s.cores[i] = core{id: i, taskID: noTask, idle: true}
	}

	total := s.graph.Len()
	completed := 0
	logger.Info("Simulation started.",
		"tasks", total, "cores", s.opts.Cores, "quantum", s.opts.Quantum)

	for completed < total {
		clear(s.yielded)

		for i := range s.cores {
			c := &s.cores[i]
			if c.idle {
				continue
			}
			t := s.graph.Task(c.taskID)
			t.Remaining--
			c.slice--

			switch {
			case t.Remaining <= 0:
				t.Remaining = 0
				t.Completed = true
				t.Core = graph.NoCore
				t.Finish = s.clock
				completed++
				c.unbind()
				logger.Debug("Task completed.",
					"task", t.Name, "core", c.id, "tick", s.clock)
			case c.slice <= 0:
				t.Core = graph.NoCore
				s.yielded[t.ID] = true
				c.unbind()
				logger.Debug("Task preempted.",
					"task", t.Name, "core", c.id, "tick", s.clock, "remaining", t.Remaining)
			}
		}

		if completed == total {
			break
		}

		for i := range s.cores {
			c := &s.cores[i]
			if !c.idle {
				continue
			}
			id := s.selectNext()
			if id == noTask {
				continue
			}
			t := s.graph.Task(id)
			c.taskID = id
			c.slice = s.opts.Quantum
			c.idle = false
			t.Core = c.id
			if t.Start == graph.Unset {
				// First-ever run; resumes after preemption keep the
				// original start time.
				t.Start = s.clock
			}
			logger.Debug("Task started.",
				"task", t.Name, "core", c.id, "tick", s.clock, "priority", t.Priority)
		}

		s.clock++

		for i := range s.cores {
			if s.cores[i].idle {
				s.cores[i].idleTicks++
			}
		}

		if s.opts.Pace != nil {
			s.opts.Pace()
		}

		if s.clock > s.opts.MaxTicks {
			res := s.result(completed, false)
			logger.Error("Safety tick bound exceeded.",
				"bound", s.opts.MaxTicks, "completed", completed, "tasks", total)
			return res, fmt.Errorf("%w: %d of %d tasks completed after %d ticks",
				ErrNotConverged, completed, total, s.opts.MaxTicks)
		}
	}

	res := s.result(completed, true)
	logger.Info("Simulation completed.", "elapsed", res.Elapsed)
	return res, nil
}

func (s *Session) result(completed int, converged bool) Result {
	idle := make([]int, len(s.cores))
	for i := range s.cores {
		idle[i] = s.cores[i].idleTicks
	}
	return Result{
		RunID:     s.runID,
		Elapsed:   s.clock,
		Completed: completed,
		CoreIdle:  idle,
		Converged: converged,
	}
}
