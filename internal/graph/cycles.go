package graph

import "sort"

// frame is one level of the explicit DFS stack used by DetectCycles.
type frame struct {
	id   int
	next int
}

// DetectCycles runs a depth-first traversal over the dependency→dependent
// edges, sets the graph's cycle flag and returns it. The traversal keeps an
// on-stack marker per node and stops at the first back-edge it finds.
//
// The DFS is iterative with an explicit frame stack, so graphs at the
// capacity bound cannot exhaust the call stack. Children are visited in
// ascending id order, which makes the traversal deterministic; the result is
// order-independent either way, since it only reports existence.
func (g *Graph) DetectCycles() bool {
	n := len(g.tasks)

	dependents := make([][]int, n)
	for e := range g.edges {
		dependents[e.from] = append(dependents[e.from], e.to)
	}
	for _, ds := range dependents {
		sort.Ints(ds)
	}

	visited := make([]bool, n)
	onStack := make([]bool, n)
	g.hasCycles = false

	for start := 0; start < n && !g.hasCycles; start++ {
		if visited[start] {
			continue
		}
		visited[start] = true
		onStack[start] = true
		stack := []frame{{id: start}}

		for len(stack) > 0 && !g.hasCycles {
			top := &stack[len(stack)-1]
			children := dependents[top.id]

			if top.next >= len(children) {
				onStack[top.id] = false
				stack = stack[:len(stack)-1]
				continue
			}

			child := children[top.next]
			top.next++

			if onStack[child] {
				// Back-edge into a node still on the stack: cycle.
				g.hasCycles = true
				break
			}
			if !visited[child] {
				visited[child] = true
				onStack[child] = true
				stack = append(stack, frame{id: child})
			}
		}
	}

	return g.hasCycles
}
