package graph

// normalizeIfNodes orders If nodes before their unrelated siblings.
//
// After rotation an If node may end up scheduled concurrently-in-structure
// with siblings that happen to share a parent. Without an explicit order the
// interpreter has no guarantee the branch predicate's data is stable
// relative to a sibling's side effects. For every If node and each of its
// parents, every other child of that parent gains an ExecutionOrder edge
// from the If node, unless the sibling
//
//   - is itself a control node,
//   - already has an edge to or from the If node, or
//   - is a Then/Else child of some other control node (its ordering is
//     already governed by that branch).
func (g *Graph) normalizeIfNodes() error {
	for _, ifNode := range g.Nodes() {
		if _, ok := g.NodeContent(ifNode).(*IfNode); !ok {
			continue
		}

		for _, parentEdge := range g.IncomingEdges(ifNode) {
			parent := g.EdgeSource(parentEdge)

			for _, sibling := range g.ChildPairs(parent) {
				if sibling.Node == ifNode {
					continue
				}
				if content := g.NodeContent(sibling.Node); content == nil || IsControlNode(content) {
					continue
				}
				if _, ok := g.findEdge(ifNode, sibling.Node); ok {
					continue
				}
				if _, ok := g.findEdge(sibling.Node, ifNode); ok {
					continue
				}
				if g.isBranchChild(sibling.Node) {
					continue
				}

				g.createEdgeUnchecked(ifNode, sibling.Node, &ExecutionOrder{})
				g.logger.Debug("ordered if node before sibling",
					"if", ifNode.ID(), "sibling", sibling.Node.ID())
			}
		}
	}

	return nil
}

// isBranchChild reports whether node hangs off a Then/Else edge of some
// control node.
func (g *Graph) isBranchChild(node NodeRef) bool {
	for _, e := range g.IncomingEdges(node) {
		if isBranchDependency(g.EdgeContent(e)) {
			return true
		}
	}
	return false
}
