package graph

import "github.com/roach88/plangraph/internal/query"

// Finalize performs all remaining structural rewrites exactly once, in this
// fixed order:
//
//	swapMarked -> mergeReturnDependencies -> normalizeDataDependencies ->
//	insertReloads -> normalizeIfNodes
//
// After Finalize returns, no rotation markers remain and every surviving
// projected dependency is satisfiable by its source. Calling Finalize again
// is a no-op regardless of caps.
func (g *Graph) Finalize(caps query.Capabilities) error {
	if g.finalized {
		return nil
	}

	g.logger.Debug("finalizing plan",
		"nodes", len(g.nodes), "edges", len(g.edges), "marked", len(g.markedPairs))

	if err := g.swapMarked(); err != nil {
		return err
	}
	if err := g.mergeReturnDependencies(); err != nil {
		return err
	}
	if err := g.normalizeDataDependencies(caps); err != nil {
		return err
	}
	if err := g.insertReloads(); err != nil {
		return err
	}
	if err := g.normalizeIfNodes(); err != nil {
		return err
	}

	g.finalized = true
	return nil
}

// Finalized reports whether Finalize has run.
func (g *Graph) Finalized() bool { return g.finalized }
