// Package metrics derives per-task and per-core records from the final
// state of a simulation run. Records are read-only views; nothing here
// feeds back into scheduling.
package metrics

import (
	"github.com/google/uuid"
	"github.com/markphelps/optional"
	"gonum.org/v1/gonum/stat"

	"github.com/vk/dagsched/internal/engine"
	"github.com/vk/dagsched/internal/graph"
)

// TaskRecord is one row of the per-task report. Start, Finish and
// Turnaround are absent when the task never started, which can only happen
// on a run that hit the safety bound.
type TaskRecord struct {
	ID         int
	Name       string
	Duration   int
	Period     int
	Priority   int
	Start      optional.Int
	Finish     optional.Int
	Turnaround optional.Int
}

// CoreRecord is one row of the per-core report. BusyTime is derived as
// elapsed ticks minus idle ticks; Utilization is busy over elapsed as a
// percentage.
type CoreRecord struct {
	ID          int
	BusyTime    int
	IdleTime    int
	Utilization float64
}

// Report is the narrow read-only interface consumed by export and
// reporting collaborators.
type Report struct {
	RunID     uuid.UUID
	Elapsed   int
	Converged bool
	Tasks     []TaskRecord
	Cores     []CoreRecord
}

// Collect builds the report from the graph's final task state and the
// engine result.
func Collect(g *graph.Graph, res engine.Result) *Report {
	r := &Report{
		RunID:     res.RunID,
		Elapsed:   res.Elapsed,
		Converged: res.Converged,
		Tasks:     make([]TaskRecord, 0, g.Len()),
		Cores:     make([]CoreRecord, 0, len(res.CoreIdle)),
	}

	for _, t := range g.Tasks() {
		rec := TaskRecord{
			ID:       t.ID,
			Name:     t.Name,
			Duration: t.Duration,
			Period:   t.Period,
			Priority: t.Priority,
		}
		if t.Start != graph.Unset {
			rec.Start = optional.NewInt(t.Start)
		}
		if t.Finish != graph.Unset {
			rec.Finish = optional.NewInt(t.Finish)
		}
		if t.Start != graph.Unset && t.Finish != graph.Unset {
			rec.Turnaround = optional.NewInt(t.Finish - t.Start)
		}
		r.Tasks = append(r.Tasks, rec)
	}

	for id, idle := range res.CoreIdle {
		busy := res.Elapsed - idle
		util := 0.0
		if res.Elapsed > 0 {
			util = float64(busy) / float64(res.Elapsed) * 100
		}
		r.Cores = append(r.Cores, CoreRecord{
			ID:          id,
			BusyTime:    busy,
			IdleTime:    idle,
			Utilization: util,
		})
	}

	return r
}

// Incomplete returns the names of tasks that never finished. Non-empty only
// for non-converged runs.
func (r *Report) Incomplete() []string {
	var names []string
	for _, t := range r.Tasks {
		if !t.Finish.Present() {
			names = append(names, t.Name)
		}
	}
	return names
}

// AverageTurnaround is the mean turnaround over tasks that completed, or 0
// when none did.
func (r *Report) AverageTurnaround() float64 {
	var xs []float64
	for _, t := range r.Tasks {
		if v, err := t.Turnaround.Get(); err == nil {
			xs = append(xs, float64(v))
		}
	}
	if len(xs) == 0 {
		return 0
	}
	return stat.Mean(xs, nil)
}

// AverageUtilization is the mean core utilization percentage.
func (r *Report) AverageUtilization() float64 {
	if len(r.Cores) == 0 {
		return 0
	}
	xs := make([]float64, 0, len(r.Cores))
	for _, c := range r.Cores {
		xs = append(xs, c.Utilization)
	}
	return stat.Mean(xs, nil)
}
