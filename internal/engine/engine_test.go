package engine

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/dagsched/internal/graph"
	"github.com/vk/dagsched/internal/rms"
)

// newGraph builds a graph from (duration, period) pairs and
// (task, dependsOn) declarations, with priorities assigned.
func newGraph(t *testing.T, tasks [][2]int, deps [][2]int) *graph.Graph {
	t.Helper()
	g := graph.New()
	for _, def := range tasks {
		_, err := g.AddTask("", def[0], def[1])
		require.NoError(t, err)
	}
	for _, d := range deps {
		require.NoError(t, g.AddDependency(d[0], d[1]))
	}
	rms.Assign(context.Background(), g)
	return g
}

type taskTimes struct {
	Start  int
	Finish int
}

func schedule(g *graph.Graph) map[int]taskTimes {
	out := make(map[int]taskTimes, g.Len())
	for _, task := range g.Tasks() {
		out[task.ID] = taskTimes{Start: task.Start, Finish: task.Finish}
	}
	return out
}

func TestRunSingleCoreQuantumPreemption(t *testing.T) {
	// Three independent equal-priority tasks on one core with quantum 2.
	// The first task exhausts its quantum at tick 2 and must yield to the
	// second even though both rank identically.
	g := newGraph(t, [][2]int{{4, 500}, {2, 500}, {3, 500}}, nil)
	s := NewSession(g, Options{Cores: 1, Quantum: 2})

	res, err := s.Run(context.Background())
	require.NoError(t, err)

	want := map[int]taskTimes{
		0: {Start: 0, Finish: 6},
		1: {Start: 2, Finish: 4},
		2: {Start: 6, Finish: 9},
	}
	assert.Empty(t, cmp.Diff(want, schedule(g)))

	assert.True(t, res.Converged)
	assert.Equal(t, 9, res.Elapsed)
	assert.Equal(t, []int{0}, res.CoreIdle, "the core never goes idle")
	assert.Equal(t, 3, res.Completed)
}

func TestRunPreemptedTaskOutranksAlternatives(t *testing.T) {
	// Task 0 (period 100, priority 10) exhausts its quantum at tick 2 while
	// task 1 (period 1000, priority 1) is ready. The preempted task strictly
	// outranks the alternative and must reclaim the core immediately.
	g := newGraph(t, [][2]int{{4, 100}, {2, 1000}}, nil)
	require.Greater(t, g.Task(0).Priority, g.Task(1).Priority)

	s := NewSession(g, Options{Cores: 1, Quantum: 2})
	res, err := s.Run(context.Background())
	require.NoError(t, err)

	want := map[int]taskTimes{
		0: {Start: 0, Finish: 4},
		1: {Start: 4, Finish: 6},
	}
	assert.Empty(t, cmp.Diff(want, schedule(g)))

	assert.True(t, res.Converged)
	assert.Equal(t, 6, res.Elapsed)
	assert.Equal(t, []int{0}, res.CoreIdle)
}

func TestRunDependencyGatesHigherPriorityTask(t *testing.T) {
	// Task 1 depends on task 0 and outranks it (shorter period), yet must
	// wait for the dependency to finish at tick 3.
	g := newGraph(t, [][2]int{{3, 500}, {2, 100}}, [][2]int{{1, 0}})
	require.Greater(t, g.Task(1).Priority, g.Task(0).Priority)

	s := NewSession(g, Options{Cores: 1, Quantum: 10})
	res, err := s.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, g.Task(0).Finish)
	assert.Equal(t, 3, g.Task(1).Start, "dependent must not start before its dependency completes")
	assert.Equal(t, 5, g.Task(1).Finish)
	assert.True(t, res.Converged)
}

func TestRunCompletionBeatsQuantumExpiry(t *testing.T) {
	// Duration equals the quantum: the task finishes exactly as its slice
	// runs out and must be recorded as completed, not preempted.
	g := newGraph(t, [][2]int{{10, 200}}, nil)
	s := NewSession(g, Options{Cores: 1, Quantum: 10})

	res, err := s.Run(context.Background())
	require.NoError(t, err)

	task := g.Task(0)
	assert.True(t, task.Completed)
	assert.Equal(t, 0, task.Start)
	assert.Equal(t, 10, task.Finish)
	assert.Equal(t, 0, task.Remaining)
	assert.Equal(t, 10, res.Elapsed)
}

func TestRunUnsatisfiableCycleHitsSafetyBound(t *testing.T) {
	// Two tasks depending on each other can never become ready; the run
	// must terminate through the non-convergence path.
	g := newGraph(t, [][2]int{{5, 100}, {5, 100}}, [][2]int{{0, 1}, {1, 0}})
	assert.True(t, g.DetectCycles())

	s := NewSession(g, Options{Cores: 1, Quantum: 10, MaxTicks: 50})
	res, err := s.Run(context.Background())

	require.ErrorIs(t, err, ErrNotConverged)
	assert.False(t, res.Converged)
	assert.Equal(t, 0, res.Completed)
	assert.Equal(t, 51, res.Elapsed)
	assert.Equal(t, []int{51}, res.CoreIdle)
	assert.Equal(t, graph.Unset, g.Task(0).Start)
	assert.Equal(t, graph.Unset, g.Task(1).Start)
}

func TestRunMultiCoreInvariants(t *testing.T) {
	tasks := [][2]int{
		{172, 500}, {105, 200}, {252, 800}, {91, 300}, {120, 250},
		{138, 350}, {47, 150}, {65, 400}, {185, 600}, {78, 100},
	}
	deps := [][2]int{
		{1, 0}, {2, 0}, {3, 1}, {4, 1}, {5, 2},
		{6, 3}, {6, 4}, {7, 5}, {8, 6}, {9, 7}, {9, 8},
	}

	for _, cores := range []int{1, 2, 4} {
		g := newGraph(t, tasks, deps)
		s := NewSession(g, Options{Cores: cores, Quantum: 50})

		res, err := s.Run(context.Background())
		require.NoError(t, err, "cores=%d", cores)
		require.True(t, res.Converged)

		for _, task := range g.Tasks() {
			assert.True(t, task.Completed, "cores=%d task=%d", cores, task.ID)
			assert.Equal(t, 0, task.Remaining)
			assert.Equal(t, graph.NoCore, task.Core)
			assert.GreaterOrEqual(t, task.Finish, task.Start)
			assert.GreaterOrEqual(t, task.Start, 0)
		}

		ticksAccounted := 0
		for _, idle := range res.CoreIdle {
			busy := res.Elapsed - idle
			assert.GreaterOrEqual(t, busy, 0)
			ticksAccounted += busy + idle
		}
		assert.Equal(t, cores*res.Elapsed, ticksAccounted)
	}
}

func TestRunDeterminism(t *testing.T) {
	tasks := [][2]int{{40, 300}, {25, 100}, {60, 500}, {15, 100}, {30, 250}}
	deps := [][2]int{{2, 0}, {3, 1}, {4, 3}}

	g1 := newGraph(t, tasks, deps)
	g2 := newGraph(t, tasks, deps)

	res1, err := NewSession(g1, Options{Cores: 2, Quantum: 10}).Run(context.Background())
	require.NoError(t, err)
	res2, err := NewSession(g2, Options{Cores: 2, Quantum: 10}).Run(context.Background())
	require.NoError(t, err)

	assert.Empty(t, cmp.Diff(schedule(g1), schedule(g2)))
	assert.Equal(t, res1.Elapsed, res2.Elapsed)
	assert.Equal(t, res1.CoreIdle, res2.CoreIdle)
}

func TestRunPacingHookIsCosmetic(t *testing.T) {
	tasks := [][2]int{{12, 200}, {7, 100}, {9, 400}}

	paced := newGraph(t, tasks, nil)
	plain := newGraph(t, tasks, nil)

	calls := 0
	resPaced, err := NewSession(paced, Options{Cores: 2, Quantum: 5, Pace: func() { calls++ }}).
		Run(context.Background())
	require.NoError(t, err)
	resPlain, err := NewSession(plain, Options{Cores: 2, Quantum: 5}).
		Run(context.Background())
	require.NoError(t, err)

	assert.Positive(t, calls)
	assert.Empty(t, cmp.Diff(schedule(paced), schedule(plain)))
	assert.Equal(t, resPlain.Elapsed, resPaced.Elapsed)
	assert.Equal(t, resPlain.CoreIdle, resPaced.CoreIdle)
}

func TestRunGraphCanBeResimulated(t *testing.T) {
	g := newGraph(t, [][2]int{{8, 100}, {6, 200}}, [][2]int{{1, 0}})

	first, err := NewSession(g, Options{Cores: 1, Quantum: 10}).Run(context.Background())
	require.NoError(t, err)
	firstTimes := schedule(g)

	second, err := NewSession(g, Options{Cores: 1, Quantum: 10}).Run(context.Background())
	require.NoError(t, err)

	assert.Empty(t, cmp.Diff(firstTimes, schedule(g)))
	assert.Equal(t, first.Elapsed, second.Elapsed)
	assert.NotEqual(t, first.RunID, second.RunID)
}

func TestOptionsWithDefaults(t *testing.T) {
	opts := Options{}.withDefaults()
	assert.Equal(t, DefaultCores, opts.Cores)
	assert.Equal(t, DefaultQuantum, opts.Quantum)
	assert.Equal(t, DefaultMaxTicks, opts.MaxTicks)

	small := Options{Cores: 1, Quantum: 2, MaxTicks: 10}.withDefaults()
	assert.Equal(t, 1, small.Cores)
	assert.Equal(t, 2, small.Quantum, "engine accepts tight quanta; clamping is the app's job")
	assert.Equal(t, 10, small.MaxTicks)
}
