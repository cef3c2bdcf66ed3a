package graph

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// NodeRef is an opaque, stable, orderable handle to a node. Handles stay
// valid for the lifetime of the graph, across plucks, rotations and reload
// insertions.
type NodeRef struct {
	idx int
}

// ID returns the unique identifier of the node.
func (n NodeRef) ID() string { return strconv.Itoa(n.idx) }

// EdgeRef is an opaque, stable, orderable handle to an edge. A RemoveEdge
// invalidates the handle; everything else keeps it valid.
type EdgeRef struct {
	idx int
}

// ID returns the unique identifier of the edge.
func (e EdgeRef) ID() string { return strconv.Itoa(e.idx) }

type nodeCell struct {
	content Slot[Node]
	visited bool
}

type edgeCell struct {
	from, to int
	content  Slot[Dependency]
	removed  bool
}

type markedPair struct {
	parent, child NodeRef
}

// Graph is the execution-plan DAG. One instance exists per logical
// multi-step request. Not safe for concurrent use; the builder, the
// finalization passes and the interpreter all run on a single goroutine.
type Graph struct {
	id    string
	nodes []nodeCell
	edges []edgeCell

	// resultNodes designates the nodes returning the result of the whole
	// plan. Empty means the interpreter uses the last node visited.
	resultNodes []NodeRef

	// markedPairs holds queued parent/child rotations, applied in reverse
	// declaration order by swapMarked.
	markedPairs []markedPair

	finalized     bool
	transactional bool

	logger *log.Logger
}

// New creates an empty plan graph with a fresh plan ID.
func New() *Graph {
	return &Graph{
		id:     uuid.Must(uuid.NewV7()).String(),
		logger: log.New(io.Discard),
	}
}

// ID returns the plan identifier stamped into diagnostics and log lines.
func (g *Graph) ID() string { return g.id }

// SetLogger routes pass tracing to l. The default logger discards.
func (g *Graph) SetLogger(l *log.Logger) {
	if l != nil {
		g.logger = l.With("plan", g.id)
	}
}

// checkNode panics on a handle that was never constructed by this graph.
// Per the error design, a dangling reference is a builder bug, not a
// runtime condition.
func (g *Graph) checkNode(n NodeRef) {
	if n.idx < 0 || n.idx >= len(g.nodes) {
		panic(fmt.Sprintf("graph: invalid node reference %d", n.idx))
	}
}

func (g *Graph) checkEdge(e EdgeRef) {
	if e.idx < 0 || e.idx >= len(g.edges) {
		panic(fmt.Sprintf("graph: invalid edge reference %d", e.idx))
	}
	if g.edges[e.idx].removed {
		panic(fmt.Sprintf("graph: edge reference %d was removed", e.idx))
	}
}

// CreateNode adds a node with the given content and returns its handle.
func (g *Graph) CreateNode(content Node) NodeRef {
	g.nodes = append(g.nodes, nodeCell{content: NewSlot(content)})
	return NodeRef{idx: len(g.nodes) - 1}
}

// CreateEdge adds a directed dependency from one node to another.
//
// PRECONDITION: the builder keeps the graph acyclic. No acyclicity proof is
// computed here; Validate exists as an opt-in diagnostic.
//
// Returns ErrBranchRequiresIf when dep is Then/Else and the source is not an
// If node, and ErrGraphFinalized when invoked after Finalize.
func (g *Graph) CreateEdge(from, to NodeRef, dep Dependency) (EdgeRef, error) {
	g.checkNode(from)
	g.checkNode(to)

	if g.finalized {
		return EdgeRef{}, ErrGraphFinalized
	}
	if isBranchDependency(dep) {
		content, _ := g.nodes[from.idx].content.Get()
		if _, ok := content.(*IfNode); !ok {
			return EdgeRef{}, ErrBranchRequiresIf
		}
	}

	g.edges = append(g.edges, edgeCell{from: from.idx, to: to.idx, content: NewSlot(dep)})
	return EdgeRef{idx: len(g.edges) - 1}, nil
}

// createEdgeUnchecked is used by finalize passes, which run after the
// builder contract has been frozen and may legitimately move branch edges.
func (g *Graph) createEdgeUnchecked(from, to NodeRef, dep Dependency) EdgeRef {
	g.edges = append(g.edges, edgeCell{from: from.idx, to: to.idx, content: NewSlot(dep)})
	return EdgeRef{idx: len(g.edges) - 1}
}

// NodeContent returns the content of the node, or nil if it was plucked.
// Panics on a handle this graph never produced.
func (g *Graph) NodeContent(n NodeRef) Node {
	g.checkNode(n)
	content, ok := g.nodes[n.idx].content.Get()
	if !ok {
		return nil
	}
	return content
}

// EdgeContent returns the content of the edge, or nil if it was plucked.
// Panics on an invalid or removed edge handle.
func (g *Graph) EdgeContent(e EdgeRef) Dependency {
	g.checkEdge(e)
	content, ok := g.edges[e.idx].content.Get()
	if !ok {
		return nil
	}
	return content
}

// EdgeSource returns the node the edge originates from.
func (g *Graph) EdgeSource(e EdgeRef) NodeRef {
	g.checkEdge(e)
	return NodeRef{idx: g.edges[e.idx].from}
}

// EdgeTarget returns the node the edge points to.
func (g *Graph) EdgeTarget(e EdgeRef) NodeRef {
	g.checkEdge(e)
	return NodeRef{idx: g.edges[e.idx].to}
}

// Nodes returns handles to every node ever created, in creation order,
// including plucked ones.
func (g *Graph) Nodes() []NodeRef {
	out := make([]NodeRef, len(g.nodes))
	for i := range g.nodes {
		out[i] = NodeRef{idx: i}
	}
	return out
}

// OutgoingEdges returns the edges originating from n, in stable total order.
func (g *Graph) OutgoingEdges(n NodeRef) []EdgeRef {
	g.checkNode(n)
	return g.collectEdges(func(c edgeCell) bool { return c.from == n.idx })
}

// IncomingEdges returns the edges pointing to n, in stable total order.
func (g *Graph) IncomingEdges(n NodeRef) []EdgeRef {
	g.checkNode(n)
	return g.collectEdges(func(c edgeCell) bool { return c.to == n.idx })
}

// collectEdges scans the arena in index order, which is the stable total
// order every traversal relies on.
func (g *Graph) collectEdges(match func(edgeCell) bool) []EdgeRef {
	var out []EdgeRef
	for i, c := range g.edges {
		if !c.removed && match(c) {
			out = append(out, EdgeRef{idx: i})
		}
	}
	return out
}

// findEdge returns the (single) live edge between from and to, if any.
func (g *Graph) findEdge(from, to NodeRef) (EdgeRef, bool) {
	for i, c := range g.edges {
		if !c.removed && c.from == from.idx && c.to == to.idx {
			return EdgeRef{idx: i}, true
		}
	}
	return EdgeRef{}, false
}

// RootNodes returns all nodes with no incoming edges.
func (g *Graph) RootNodes() []NodeRef {
	var out []NodeRef
	for i := range g.nodes {
		n := NodeRef{idx: i}
		if len(g.IncomingEdges(n)) == 0 {
			out = append(out, n)
		}
	}
	return out
}

// MarkVisited records that the interpreter has executed n. Visited nodes no
// longer gate their children for scheduling purposes (see IsDirectChild).
func (g *Graph) MarkVisited(n NodeRef) {
	g.checkNode(n)
	g.nodes[n.idx].visited = true
}

// IsVisited reports whether n was marked visited.
func (g *Graph) IsVisited(n NodeRef) bool {
	g.checkNode(n)
	return g.nodes[n.idx].visited
}

// IsDirectChild reports whether every incoming edge of child either comes
// from parent or from a node already marked visited: once all other
// parents have executed, parent is, for scheduling purposes, the sole gate.
func (g *Graph) IsDirectChild(parent, child NodeRef) bool {
	for _, e := range g.IncomingEdges(child) {
		source := g.EdgeSource(e)
		if source != parent && !g.IsVisited(source) {
			return false
		}
	}
	return true
}

// ChildPairs returns every child reachable by an outgoing edge of node,
// together with the connecting edge, in stable edge order.
func (g *Graph) ChildPairs(node NodeRef) []EdgePair {
	edges := g.OutgoingEdges(node)
	out := make([]EdgePair, len(edges))
	for i, e := range edges {
		out[i] = EdgePair{Edge: e, Node: g.EdgeTarget(e)}
	}
	return out
}

// DirectChildPairs returns the subset of ChildPairs for which node is the
// sole remaining gate. See IsDirectChild.
func (g *Graph) DirectChildPairs(node NodeRef) []EdgePair {
	var out []EdgePair
	for _, p := range g.ChildPairs(node) {
		if g.IsDirectChild(node, p.Node) {
			out = append(out, p)
		}
	}
	return out
}

// EdgePair couples an edge with one of its endpoints.
type EdgePair struct {
	Edge EdgeRef
	Node NodeRef
}

// ZipSourceNodes resolves the source node of every edge.
func (g *Graph) ZipSourceNodes(edges []EdgeRef) []EdgePair {
	out := make([]EdgePair, len(edges))
	for i, e := range edges {
		out[i] = EdgePair{Edge: e, Node: g.EdgeSource(e)}
	}
	return out
}

// IsAncestor reports whether successor is reachable from ancestor.
func (g *Graph) IsAncestor(ancestor, successor NodeRef) bool {
	for _, p := range g.ChildPairs(ancestor) {
		if p.Node == successor || g.IsAncestor(p.Node, successor) {
			return true
		}
	}
	return false
}

// MarkNodes queues a rotation request: child will become a parent of parent
// when the graph is finalized. This is a deferred request, not an immediate
// mutation. Multiple requests accumulate and are applied in reverse
// declaration order; see swapMarked.
func (g *Graph) MarkNodes(parent, child NodeRef) {
	g.checkNode(parent)
	g.checkNode(child)
	g.markedPairs = append(g.markedPairs, markedPair{parent: parent, child: child})
}

// PluckNode removes and returns the node's content, leaving the position
// (and every handle to it) intact. Panics if the content was already
// plucked: double consumption is an interpreter bug.
func (g *Graph) PluckNode(n NodeRef) Node {
	g.checkNode(n)
	return g.nodes[n.idx].content.Unset()
}

// PluckEdge removes and returns the edge's content, leaving the edge in
// place. Panics if the content was already plucked.
func (g *Graph) PluckEdge(e EdgeRef) Dependency {
	g.checkEdge(e)
	return g.edges[e.idx].content.Unset()
}

// RemoveEdge destroys the edge entirely and returns its content (nil if it
// was plucked first). Unlike plucking, this invalidates the handle; it is
// only used when a dependency must be physically rerouted. Nodes are never
// removed.
func (g *Graph) RemoveEdge(e EdgeRef) Dependency {
	g.checkEdge(e)
	content, _ := g.edges[e.idx].content.Take()
	g.edges[e.idx].removed = true
	return content
}

// AddResultNode marks node as one of the suppliers of the overall plan
// result.
func (g *Graph) AddResultNode(node NodeRef) {
	g.checkNode(node)
	g.resultNodes = append(g.resultNodes, node)
}

// ResultNodes returns the marked result nodes in marking order.
func (g *Graph) ResultNodes() []NodeRef {
	out := make([]NodeRef, len(g.resultNodes))
	copy(out, g.resultNodes)
	return out
}

// IsResultNode reports whether node is marked as a result node.
func (g *Graph) IsResultNode(node NodeRef) bool {
	g.checkNode(node)
	for _, r := range g.resultNodes {
		if r == node {
			return true
		}
	}
	return false
}

// SubgraphContainsResult reports whether the subgraph rooted at node
// contains a result node.
func (g *Graph) SubgraphContainsResult(node NodeRef) bool {
	if g.IsResultNode(node) {
		return true
	}
	for _, p := range g.ChildPairs(node) {
		if g.SubgraphContainsResult(p.Node) {
			return true
		}
	}
	return false
}

// FlagTransactional marks the whole plan for execution inside a single
// transaction.
func (g *Graph) FlagTransactional() { g.transactional = true }

// NeedsTransaction reports whether the plan must run inside a transaction.
func (g *Graph) NeedsTransaction() bool { return g.transactional }
