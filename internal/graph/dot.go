package graph

import (
	"bytes"
	"fmt"
	"strings"
)

// ToDOT converts the graph to Graphviz DOT format for visualization.
// Operation nodes render as boxes, control nodes as diamonds, computation
// nodes as ellipses; result nodes are filled. Branch edges are bold, data
// edges labeled with their dependency kind.
func (g *Graph) ToDOT() string {
	var buf bytes.Buffer
	buf.WriteString("digraph plan {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  node [shape=box, style=rounded, fontsize=11];\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes() {
		content := g.NodeContent(n)
		attrs := []string{fmt.Sprintf("label=%q", NodeLabel(content))}
		attrs = append(attrs, dotNodeAttrs(content)...)
		if g.IsResultNode(n) {
			attrs = append(attrs, "style=\"rounded,filled\"", "fillcolor=lightblue")
		}
		fmt.Fprintf(&buf, "  n%s [%s];\n", n.ID(), strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for i, c := range g.edges {
		if c.removed {
			continue
		}
		label := "(plucked)"
		style := ""
		if content, ok := g.edges[i].content.Get(); ok {
			label = content.String()
			if isBranchDependency(content) {
				style = ", style=bold"
			}
		}
		fmt.Fprintf(&buf, "  n%d -> n%d [label=%q%s];\n", c.from, c.to, label, style)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func dotNodeAttrs(n Node) []string {
	switch n.(type) {
	case *IfNode, *ReturnNode:
		return []string{"shape=diamond"}
	case *DiffNode:
		return []string{"shape=ellipse"}
	case nil:
		return []string{"style=dashed"}
	default:
		return nil
	}
}
