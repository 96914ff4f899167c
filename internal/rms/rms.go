// Package rms assigns run-time priorities using the Rate-Monotonic scheme:
// the shorter a task's period, the higher its priority.
package rms

import (
	"context"

	"github.com/vk/dagsched/internal/ctxlog"
	"github.com/vk/dagsched/internal/graph"
)

const (
	// MinPriority is the lowest assignable priority, also used for
	// aperiodic tasks.
	MinPriority = 1

	// MaxPriority is the highest assignable priority.
	MaxPriority = 10
)

// PriorityForPeriod maps a period to a priority in [MinPriority, MaxPriority].
// A period of 0 means aperiodic and always maps to MinPriority. Otherwise the
// period is scaled inversely into the fixed range; the integer scaling can
// assign equal priorities to different periods, which is accepted — the
// selection tie-break on raw period recovers the ordering.
func PriorityForPeriod(period int) int {
	if period == 0 {
		return MinPriority
	}

	p := MaxPriority - (period*9)/1000
	if p < MinPriority {
		p = MinPriority
	}
	if p > MaxPriority {
		p = MaxPriority
	}
	return p
}

// Assign computes and stores the priority of every task in the graph. It
// runs once, after graph construction completes.
func Assign(ctx context.Context, g *graph.Graph) {
	logger := ctxlog.FromContext(ctx)
	for _, t := range g.Tasks() {
		t.Priority = PriorityForPeriod(t.Period)
		logger.Debug("Assigned rate-monotonic priority.",
			"task", t.Name, "period", t.Period, "priority", t.Priority)
	}
}
