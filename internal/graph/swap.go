package graph

// swapMarked applies all queued parent/child rotations.
//
// A builder sometimes must attach a "read to decide existence" operation as
// a structural child of the operation that logically depends on its answer,
// because the dependent operation does not exist yet at construction time.
// The queued pair later promotes that child to run before its nominal
// parent: child becomes a new ancestor of parent without breaking the
// ordering guarantees of parent's other ancestors.
//
// For each pair, processed in REVERSE declaration order:
//
//  1. Every current parent P of parent is connected to child. If P is an If
//     node and the edge is a branch edge, the Then/Else edge itself moves:
//     a new branch edge P -> child carries the same payload and the original
//     P -> parent edge is dropped, so control fan-out is preserved exactly.
//     For any other P, a plain ExecutionOrder edge P -> child is added and
//     P's original edge to parent stays.
//  2. A direct edge parent -> child, if present, is reversed: removed and
//     recreated with the same payload as child -> parent.
//
// Reverse application order is a contract: later-declared rotations must be
// structurally independent of earlier ones, and forward order is known to
// break. Do not change it without proving it safe against this algorithm.
func (g *Graph) swapMarked() error {
	if len(g.markedPairs) > 0 {
		g.logger.Debug("applying marked pairs", "count", len(g.markedPairs))
	}

	marked := g.markedPairs
	g.markedPairs = nil

	for i := len(marked) - 1; i >= 0; i-- {
		parent, child := marked[i].parent, marked[i].child

		for _, parentEdge := range g.IncomingEdges(parent) {
			grandparent := g.EdgeSource(parentEdge)
			content := g.EdgeContent(parentEdge)

			_, sourceIsIf := g.NodeContent(grandparent).(*IfNode)
			if sourceIsIf && isBranchDependency(content) {
				dep := g.RemoveEdge(parentEdge)
				g.createEdgeUnchecked(grandparent, child, dep)
				g.logger.Debug("moved branch edge onto child",
					"source", grandparent.ID(), "child", child.ID())
				continue
			}

			g.createEdgeUnchecked(grandparent, child, &ExecutionOrder{})
			g.logger.Debug("connected parent of parent with child",
				"source", grandparent.ID(), "child", child.ID())
		}

		if edge, ok := g.findEdge(parent, child); ok {
			dep := g.RemoveEdge(edge)
			g.createEdgeUnchecked(child, parent, dep)
		}
	}

	return nil
}
