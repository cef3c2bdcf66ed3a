package graph

import (
	"fmt"
	"strings"
)

// Format renders the graph as a deterministic human-readable dump, used for
// debugging and golden-output tests. Nodes are labeled by kind with root and
// result nodes flagged; edges are labeled by dependency kind. Removed edges
// do not appear; plucked content renders as "(plucked)".
//
// The plan ID is deliberately absent: it is fresh per graph, and Format
// output must be byte-stable across runs.
func (g *Graph) Format() string {
	var b strings.Builder

	fmt.Fprintf(&b, "plan graph (transactional=%v, finalized=%v)\n", g.transactional, g.finalized)

	roots := make(map[NodeRef]bool)
	for _, r := range g.RootNodes() {
		roots[r] = true
	}

	b.WriteString("nodes:\n")
	for _, n := range g.Nodes() {
		var flags []string
		if roots[n] {
			flags = append(flags, "root")
		}
		if g.IsResultNode(n) {
			flags = append(flags, "result")
		}
		suffix := ""
		if len(flags) > 0 {
			suffix = " [" + strings.Join(flags, ", ") + "]"
		}
		fmt.Fprintf(&b, "  %s: %s%s\n", n.ID(), NodeLabel(g.NodeContent(n)), suffix)
	}

	b.WriteString("edges:\n")
	for i, c := range g.edges {
		if c.removed {
			continue
		}
		e := EdgeRef{idx: i}
		label := "(plucked)"
		if content := g.EdgeContent(e); content != nil {
			label = content.String()
		}
		fmt.Fprintf(&b, "  %d -> %d: %s\n", c.from, c.to, label)
	}

	return b.String()
}

// String implements fmt.Stringer.
func (g *Graph) String() string { return g.Format() }
