package graph

import "fmt"

const (
	// NoCore marks a task that is not bound to any core.
	NoCore = -1

	// Unset marks a start or finish tick that has not been recorded yet.
	Unset = -1

	// DefaultMaxTasks is the validation bound on graph size unless the
	// caller chooses another one.
	DefaultMaxTasks = 100
)

// Task is a single schedulable unit of work.
type Task struct {
	ID       int
	Name     string
	Duration int
	Period   int

	// Priority is derived once from Period after construction; see the rms
	// package.
	Priority int

	// Deps holds the ids of the tasks this one depends on, in declaration
	// order. Never mutated after construction.
	Deps []int

	// Execution state, owned by a single simulation run.
	Remaining int
	Completed bool
	Core      int
	Start     int
	Finish    int
}

// edge is a directed dependency→dependent pair.
type edge struct {
	from int
	to   int
}

// Graph is an ordered collection of tasks and their dependency edges.
type Graph struct {
	tasks     []*Task
	edges     map[edge]struct{}
	maxTasks  int
	hasCycles bool
}

// New returns an empty graph bounded by DefaultMaxTasks.
func New() *Graph {
	return NewWithCapacity(DefaultMaxTasks)
}

// NewWithCapacity returns an empty graph that accepts at most maxTasks
// tasks. Non-positive bounds fall back to DefaultMaxTasks.
func NewWithCapacity(maxTasks int) *Graph {
	if maxTasks <= 0 {
		maxTasks = DefaultMaxTasks
	}
	return &Graph{
		edges:    make(map[edge]struct{}),
		maxTasks: maxTasks,
	}
}

// AddTask appends a task with an empty dependency set and returns it. The
// task id is its position in the graph. An empty name is replaced with a
// generated one. Fails with ErrCapacityExceeded when the graph is full.
func (g *Graph) AddTask(name string, duration, period int) (*Task, error) {
	if len(g.tasks) >= g.maxTasks {
		return nil, fmt.Errorf("%w: limit is %d tasks", ErrCapacityExceeded, g.maxTasks)
	}

	id := len(g.tasks)
	if name == "" {
		name = fmt.Sprintf("task%d", id)
	}

	t := &Task{
		ID:        id,
		Name:      name,
		Duration:  duration,
		Period:    period,
		Remaining: duration,
		Core:      NoCore,
		Start:     Unset,
		Finish:    Unset,
	}
	g.tasks = append(g.tasks, t)
	return t, nil
}

// AddDependency declares that taskID depends on dependsOnID, adding the edge
// dependsOnID→taskID. Out-of-range ids fail with ErrInvalidReference and a
// self-dependency with ErrSelfDependency. Re-declaring an existing edge is a
// silent no-op.
func (g *Graph) AddDependency(taskID, dependsOnID int) error {
	if taskID < 0 || taskID >= len(g.tasks) {
		return fmt.Errorf("%w: task %d", ErrInvalidReference, taskID)
	}
	if dependsOnID < 0 || dependsOnID >= len(g.tasks) {
		return fmt.Errorf("%w: dependency %d", ErrInvalidReference, dependsOnID)
	}
	if taskID == dependsOnID {
		return fmt.Errorf("%w: task %d", ErrSelfDependency, taskID)
	}

	e := edge{from: dependsOnID, to: taskID}
	if _, ok := g.edges[e]; ok {
		return nil
	}

	g.edges[e] = struct{}{}
	g.tasks[taskID].Deps = append(g.tasks[taskID].Deps, dependsOnID)
	return nil
}

// Task returns the task with the given id, or nil if out of range.
func (g *Graph) Task(id int) *Task {
	if id < 0 || id >= len(g.tasks) {
		return nil
	}
	return g.tasks[id]
}

// Tasks returns the tasks in id order. The slice must not be reordered by
// the caller.
func (g *Graph) Tasks() []*Task {
	return g.tasks
}

// Len returns the number of tasks.
func (g *Graph) Len() int {
	return len(g.tasks)
}

// HasCycles reports the flag computed by the last DetectCycles call.
func (g *Graph) HasCycles() bool {
	return g.hasCycles
}

// IsReady reports whether the task may run now: not yet completed and every
// task in its dependency set completed. A task with no dependencies is
// trivially ready.
func (g *Graph) IsReady(id int) bool {
	t := g.Task(id)
	if t == nil || t.Completed {
		return false
	}
	for _, dep := range t.Deps {
		if !g.tasks[dep].Completed {
			return false
		}
	}
	return true
}

// CompletedCount returns the number of completed tasks.
func (g *Graph) CompletedCount() int {
	n := 0
	for _, t := range g.tasks {
		if t.Completed {
			n++
		}
	}
	return n
}

// ResetExecution restores every task's execution state to its initial
// values so the graph can be simulated again.
func (g *Graph) ResetExecution() {
	for _, t := range g.tasks {
		t.Remaining = t.Duration
		t.Completed = false
		t.Core = NoCore
		t.Start = Unset
		t.Finish = Unset
	}
}
