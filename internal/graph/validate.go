package graph

import "fmt"

// Validate checks structural integrity: every edge endpoint resolves and the
// graph is acyclic. Acyclicity is a documented builder precondition, not a
// construction-time gate, so this check is opt-in (the CLI validate command
// and tests call it).
//
// Cycles are detected with depth-first search and white/grey/black coloring.
func (g *Graph) Validate() error {
	for i, e := range g.edges {
		if e.removed {
			continue
		}
		if e.from < 0 || e.from >= len(g.nodes) || e.to < 0 || e.to >= len(g.nodes) {
			return fmt.Errorf("edge %d: %w", i, ErrInvalidEdgeEndpoint)
		}
	}

	const (
		white = iota // unvisited
		grey         // on the current DFS path
		black        // fully explored
	)
	colors := make([]int, len(g.nodes))

	var visit func(idx int) error
	visit = func(idx int) error {
		colors[idx] = grey
		for _, e := range g.edges {
			if e.removed || e.from != idx {
				continue
			}
			switch colors[e.to] {
			case grey:
				return fmt.Errorf("node %d: %w", e.to, ErrGraphHasCycle)
			case white:
				if err := visit(e.to); err != nil {
					return err
				}
			}
		}
		colors[idx] = black
		return nil
	}

	for i := range g.nodes {
		if colors[i] == white {
			if err := visit(i); err != nil {
				return err
			}
		}
	}
	return nil
}
