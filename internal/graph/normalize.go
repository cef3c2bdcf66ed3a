package graph

import (
	"github.com/roach88/plangraph/internal/query"
	"github.com/roach88/plangraph/internal/selection"
)

// mergeReturnDependencies makes Return nodes transparent to field demands.
//
// A Return node produces nothing itself: whatever its children need, its
// producer must be made to produce (or a reload must later be synthesized
// for it). For every Return node, the selections requested by all outgoing
// projected dependencies are unioned and merged into the single incoming
// projected dependency, if one exists.
func (g *Graph) mergeReturnDependencies() error {
	for _, node := range g.Nodes() {
		if _, ok := g.NodeContent(node).(*ReturnNode); !ok {
			continue
		}

		demanded := selection.Selection{}
		for _, e := range g.OutgoingEdges(node) {
			if sel, ok := projectedSelection(g.EdgeContent(e)); ok {
				demanded = demanded.Union(sel)
			}
		}
		if demanded.IsEmpty() {
			continue
		}

		for _, e := range g.IncomingEdges(node) {
			content := g.EdgeContent(e)
			if _, ok := projectedSelection(content); ok {
				mergeProjectedSelection(content, demanded)
				g.logger.Debug("merged return dependencies",
					"node", node.ID(), "selection", demanded.String())
				break
			}
		}
	}

	return nil
}

// unsatisfiedDemand returns the union of every outgoing projected selection
// the operation's declared result does not cover. Empty means all
// dependencies are satisfiable.
func (g *Graph) unsatisfiedDemand(node NodeRef, op query.Operation) selection.Selection {
	missing := selection.Selection{}
	for _, e := range g.OutgoingEdges(node) {
		sel, ok := projectedSelection(g.EdgeContent(e))
		if ok && !op.Satisfies(sel) {
			missing = missing.Union(sel)
		}
	}
	return missing
}

// normalizeDataDependencies widens operation results in place.
//
// For every operation node with at least one outgoing projected dependency
// the declared result does not cover: if the node is a single-row
// create/update/delete and the storage engine cannot return extended fields
// for that kind, it is structurally unable to help and is skipped (reload
// insertion deals with it). Otherwise the operation widens its own declared
// result to cover the union of missing fields.
func (g *Graph) normalizeDataDependencies(caps query.Capabilities) error {
	for _, node := range g.Nodes() {
		opNode, ok := g.NodeContent(node).(*OperationNode)
		if !ok {
			continue
		}

		missing := g.unsatisfiedDemand(node, opNode.Op)
		if missing.IsEmpty() {
			continue
		}
		if !caps.CanWiden(opNode.Op.Kind()) {
			g.logger.Debug("widening blocked by capabilities",
				"node", node.ID(), "kind", opNode.Op.Kind().String())
			continue
		}

		opNode.Op.SatisfyDependency(missing)
		g.logger.Debug("widened operation result",
			"node", node.ID(), "selection", opNode.Op.ResultSelection().String())
	}

	return nil
}
