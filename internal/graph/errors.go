package graph

import "errors"

var (
	// ErrBranchRequiresIf is returned by [Graph.CreateEdge] when a Then or
	// Else dependency originates from anything other than an If node.
	ErrBranchRequiresIf = errors.New("then/else edges must originate from an If node")

	// ErrGraphFinalized is returned by mutating operations invoked after
	// [Graph.Finalize]. The finalized graph only supports plucking.
	ErrGraphFinalized = errors.New("graph already finalized")

	// ErrInvalidEdgeEndpoint is returned by [Graph.Validate] when an edge
	// references a node outside the arena. This indicates graph corruption.
	ErrInvalidEdgeEndpoint = errors.New("invalid edge endpoint")

	// ErrGraphHasCycle is returned by [Graph.Validate] when a cycle is
	// detected. Builders are trusted to keep the graph acyclic by
	// construction; a cycle means a builder bug.
	ErrGraphHasCycle = errors.New("graph contains a cycle")
)
