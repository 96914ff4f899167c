package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vk/dagsched/internal/ctxlog"
	"github.com/vk/dagsched/internal/engine"
	"github.com/vk/dagsched/internal/metrics"
	"github.com/vk/dagsched/internal/rms"
	"github.com/vk/dagsched/internal/workload"
)

// Run executes one full simulation: load the workload, build and validate
// the graph, assign priorities, run the engine and write the report. A
// non-converged run still writes its partial report before the error is
// returned.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)

	w, err := a.loadWorkload(ctx)
	if err != nil {
		return err
	}

	g, err := w.BuildGraph(ctx)
	if err != nil {
		return fmt.Errorf("failed to build task graph: %w", err)
	}
	a.logger.Info("Task graph built.", "tasks", g.Len())

	rms.Assign(ctx, g)

	if g.DetectCycles() {
		// Non-fatal: tasks on a cycle never become ready and the safety
		// bound terminates the run.
		a.logger.Warn("Dependency cycle detected; affected tasks will never run.")
	}

	var pace engine.DelayFunc
	if a.config.Pace > 0 {
		pace = func() { time.Sleep(a.config.Pace) }
	}

	session := engine.NewSession(g, engine.Options{
		Cores:    a.config.Cores,
		Quantum:  a.config.Quantum,
		MaxTicks: a.config.MaxTicks,
		Pace:     pace,
	})

	result, runErr := session.Run(ctx)
	if runErr != nil && !errors.Is(runErr, engine.ErrNotConverged) {
		return runErr
	}

	report := metrics.Collect(g, result)
	if err := a.writeReport(report); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	return runErr
}

func (a *App) loadWorkload(ctx context.Context) (*workload.Workload, error) {
	if a.config.UseSample {
		a.logger.Info("Using the built-in sample workload.")
		return workload.Sample(), nil
	}

	w, err := workload.Load(ctx, a.config.WorkloadPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load workload: %w", err)
	}
	return w, nil
}
