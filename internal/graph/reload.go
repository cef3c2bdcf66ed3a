package graph

import (
	"github.com/roach88/plangraph/internal/query"
	"github.com/roach88/plangraph/internal/selection"
)

// insertReloads resolves the dependencies result widening could not.
//
// This pass runs the unsatisfied-dependency scan again after
// normalizeDataDependencies, so only the genuinely capability-blocked cases
// remain. For each blocked operation node a read-many "reload" node for the
// same model is synthesized. It is filtered at run time by the primary
// identity of whatever the blocked node actually returns, and selects the
// primary identity plus the full union of the demanded fields. Every
// outgoing edge of the blocked node is then re-rooted at the reload node in
// original order; the blocked node keeps a single projected dependency onto
// the reload.
func (g *Graph) insertReloads() error {
	// Snapshot: reload nodes created below must not themselves be scanned.
	nodes := g.Nodes()

	for _, node := range nodes {
		opNode, ok := g.NodeContent(node).(*OperationNode)
		if !ok {
			continue
		}

		demanded := selection.Selection{}
		blocked := false
		for _, e := range g.OutgoingEdges(node) {
			sel, ok := projectedSelection(g.EdgeContent(e))
			if ok && !opNode.Op.Satisfies(sel) {
				demanded = demanded.Union(sel)
				blocked = true
			}
		}
		if !blocked {
			continue
		}

		model := opNode.Op.Model()
		children := g.OutgoingEdges(node)

		reload := g.CreateNode(&OperationNode{Op: query.NewReload(model, demanded)})
		g.logger.Debug("inserted reload node",
			"blocked", node.ID(), "reload", reload.ID(), "selection", demanded.String())

		// The reload is filtered by whatever the blocked node actually
		// returned, which is at least the primary identity.
		g.createEdgeUnchecked(node, reload, &ProjectedDataDependency{
			Selection: model.PrimaryID,
			Transform: injectReloadFilter,
		})

		// The blocked node no longer has any children; reload inherits them
		// all, in original order.
		for _, e := range children {
			target := g.EdgeTarget(e)
			dep := g.RemoveEdge(e)
			g.createEdgeUnchecked(reload, target, dep)
		}
	}

	return nil
}

// injectReloadFilter copies the blocked node's identity rows into the reload
// query's run-time filter.
func injectReloadFilter(target Node, rows []query.Row) (Node, error) {
	opNode, ok := target.(*OperationNode)
	if !ok {
		return target, nil
	}
	if read, ok := opNode.Op.(*query.ReadQuery); ok {
		read.SetFilter(rows)
	}
	return target, nil
}
