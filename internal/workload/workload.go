// Package workload models the set of tasks a simulation runs: loading it
// from HCL files, validating attributes against documented defaults, and
// building the dependency graph.
package workload

import (
	"context"
	"fmt"

	"github.com/vk/dagsched/internal/ctxlog"
	"github.com/vk/dagsched/internal/graph"
)

// DefaultPeriod replaces a missing or negative task period.
const DefaultPeriod = 500

// TaskDef is the declaration of a single task, before graph construction.
type TaskDef struct {
	Name      string
	Duration  int
	Period    int
	DependsOn []string
}

// Workload is an ordered set of task declarations. Dependencies refer to
// task names and may cross file boundaries; they are resolved to ids only
// when the graph is built.
type Workload struct {
	Tasks []TaskDef
}

// BuildGraph constructs the dependency graph. Tasks are added in
// declaration order, so ids match declaration positions. Invalid dependency
// declarations (unknown names, self-dependencies) are reported and skipped;
// construction continues without them. Capacity overflow aborts, since the
// remaining declarations could not be represented at all.
func (w *Workload) BuildGraph(ctx context.Context) (*graph.Graph, error) {
	logger := ctxlog.FromContext(ctx)
	g := graph.New()

	idByName := make(map[string]int, len(w.Tasks))
	for _, def := range w.Tasks {
		task, err := g.AddTask(def.Name, def.Duration, def.Period)
		if err != nil {
			return nil, fmt.Errorf("adding task %q: %w", def.Name, err)
		}
		if _, dup := idByName[task.Name]; dup {
			return nil, fmt.Errorf("duplicate task name %q", task.Name)
		}
		idByName[task.Name] = task.ID
	}

	for _, def := range w.Tasks {
		taskID := idByName[def.Name]
		for _, depName := range def.DependsOn {
			depID, ok := idByName[depName]
			if !ok {
				logger.Warn("Skipping dependency on unknown task.",
					"task", def.Name, "depends_on", depName)
				continue
			}
			if err := g.AddDependency(taskID, depID); err != nil {
				logger.Warn("Skipping invalid dependency declaration.",
					"task", def.Name, "depends_on", depName, "error", err)
			}
		}
	}

	return g, nil
}
