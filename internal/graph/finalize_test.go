package graph

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/plangraph/internal/query"
	"github.com/roach88/plangraph/internal/selection"
)

func TestFinalizeIsIdempotent(t *testing.T) {
	g := New()
	p := g.CreateNode(newOp(query.KindCreateOne))
	a := g.CreateNode(newOp(query.KindUpdateOne))
	b := g.CreateNode(newReadOp("check", "id"))
	ifNode := g.CreateNode(NewIfNonEmpty())
	s := g.CreateNode(newOp(query.KindUpdateOne))

	mustEdge(t, g, p, a, &ExecutionOrder{})
	mustEdge(t, g, a, b, &ExecutionOrder{})
	mustEdge(t, g, p, ifNode, &ExecutionOrder{})
	mustEdge(t, g, p, s, &ExecutionOrder{})
	mustEdge(t, g, a, s, &ProjectedDataDependency{Selection: selection.New("id", "name")})
	g.MarkNodes(a, b)

	caps := query.Capabilities{}
	require.NoError(t, g.Finalize(caps))
	require.True(t, g.Finalized())
	first := g.Format()

	require.NoError(t, g.Finalize(caps))
	assert.Equal(t, first, g.Format())
}

func TestFinalizeClearsRotationMarkers(t *testing.T) {
	g := New()
	a := g.CreateNode(newOp(query.KindCreateOne))
	b := g.CreateNode(newReadOp("check", "id"))
	mustEdge(t, g, a, b, &ExecutionOrder{})
	g.MarkNodes(a, b)

	require.NoError(t, g.Finalize(query.Capabilities{}))
	assert.Empty(t, g.markedPairs)
}

// allProjectedDependenciesSatisfied checks the central post-finalize
// property: every surviving projected dependency whose source is an
// operation node is covered by that operation's declared result.
func allProjectedDependenciesSatisfied(g *Graph) error {
	for i, c := range g.edges {
		if c.removed || c.content.IsEmpty() {
			continue
		}
		content, _ := c.content.Get()
		sel, ok := projectedSelection(content)
		if !ok {
			continue
		}
		opNode, ok := g.nodes[c.from].content.Get()
		if !ok {
			continue
		}
		op, ok := opNode.(*OperationNode)
		if !ok {
			continue
		}
		if !op.Op.Satisfies(sel) {
			return fmt.Errorf("edge %d: %s does not satisfy %s", i, op.Op.ResultSelection(), sel)
		}
	}
	return nil
}

func TestFinalizeSatisfiesAllProjectedDependencies(t *testing.T) {
	// Random layered graphs of under-specified writes with random projected
	// demands. Seeded for reproducibility.
	fields := []string{"id", "a", "b", "c", "d", "e"}
	kinds := []query.Kind{
		query.KindCreateOne, query.KindUpdateOne, query.KindDeleteOne,
		query.KindUpdateMany, query.KindReadMany,
	}

	rng := rand.New(rand.NewSource(1))

	for trial := 0; trial < 50; trial++ {
		g := New()

		var refs []NodeRef
		nodeCount := 4 + rng.Intn(8)
		for i := 0; i < nodeCount; i++ {
			kind := kinds[rng.Intn(len(kinds))]
			var op query.Operation
			if kind == query.KindReadMany {
				op = query.NewReadMany("find", userModel, selection.New("id"))
			} else {
				op = query.NewWriteQuery(kind, userModel, nil)
			}
			refs = append(refs, g.CreateNode(&OperationNode{Op: op}))
		}

		// Edges always point from a lower index to a higher one, which
		// keeps the graph acyclic by construction.
		for i := 0; i < nodeCount; i++ {
			for j := i + 1; j < nodeCount; j++ {
				if rng.Intn(3) != 0 {
					continue
				}
				demand := selection.New("id")
				for _, f := range fields {
					if rng.Intn(3) == 0 {
						demand = demand.Union(selection.New(f))
					}
				}
				mustEdge(t, g, refs[i], refs[j], &ProjectedDataDependency{Selection: demand})
			}
		}

		caps := query.Capabilities{
			CreateReturning: rng.Intn(2) == 0,
			UpdateReturning: rng.Intn(2) == 0,
			DeleteReturning: rng.Intn(2) == 0,
		}

		require.NoError(t, g.Finalize(caps), "trial %d", trial)
		require.NoError(t, g.Validate(), "trial %d", trial)
		require.NoError(t, allProjectedDependenciesSatisfied(g), "trial %d", trial)
	}
}

func TestHandlesSurviveFinalize(t *testing.T) {
	g := New()
	p := g.CreateNode(newOp(query.KindCreateOne))
	a := g.CreateNode(newOp(query.KindUpdateOne))
	b := g.CreateNode(newReadOp("check", "id"))
	mustEdge(t, g, p, a, &ExecutionOrder{})
	mustEdge(t, g, a, b, &ExecutionOrder{})
	g.MarkNodes(a, b)
	g.AddResultNode(a)

	require.NoError(t, g.Finalize(query.Capabilities{}))

	// Node handles captured before finalization still resolve.
	assert.NotNil(t, g.NodeContent(p))
	assert.NotNil(t, g.NodeContent(a))
	assert.NotNil(t, g.NodeContent(b))
	assert.True(t, g.IsResultNode(a))
}
