package engine

import "github.com/vk/dagsched/internal/graph"

// selectNext picks the task to place on an idle core: among all ready,
// unbound tasks the numerically highest priority wins, ties broken by the
// shorter period (more urgent under RMS regardless of the coarse priority
// bucket). Among tasks of equal rank, one preempted during the current tick
// defers to one that was not, so an exhausted quantum rotates the core
// between peers; a preempted task that outranks every alternative reclaims
// the core immediately. Remaining ties go to the lower id.
//
// This is a full linear rescan on every call. Task counts are small and
// bounded, so no incremental ready queue is kept.
func (s *Session) selectNext() int {
	var best *graph.Task
	for _, t := range s.graph.Tasks() {
		if t.Core != graph.NoCore || !s.graph.IsReady(t.ID) {
			continue
		}
		if best == nil || s.outranks(t, best) {
			best = t
		}
	}
	if best == nil {
		return noTask
	}
	return best.ID
}

func (s *Session) outranks(t, best *graph.Task) bool {
	if t.Priority != best.Priority {
		return t.Priority > best.Priority
	}
	if t.Period != best.Period {
		return t.Period < best.Period
	}
	return !s.yielded[t.ID] && s.yielded[best.ID]
}
