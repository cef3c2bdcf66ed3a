package planspec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/plangraph/internal/graph"
	"github.com/roach88/plangraph/internal/query"
	"github.com/roach88/plangraph/internal/selection"
)

func TestBuildUpsert(t *testing.T) {
	plan, err := Load("testdata/upsert.yaml")
	require.NoError(t, err)

	g, refs, err := plan.Build()
	require.NoError(t, err)
	require.Len(t, refs, 4)

	create, ok := g.NodeContent(refs["create"]).(*graph.OperationNode)
	require.True(t, ok)
	assert.Equal(t, query.KindCreateOne, create.Op.Kind())
	assert.Equal(t, "User", create.Op.Model().Name)
	assert.True(t, create.Op.ResultSelection().Equal(selection.New("id")))

	_, ok = g.NodeContent(refs["exists"]).(*graph.IfNode)
	assert.True(t, ok)

	ret, ok := g.NodeContent(refs["fallback"]).(*graph.ReturnNode)
	require.True(t, ok)
	assert.True(t, ret.Fixed)
	require.Len(t, ret.Result, 1)
	assert.Equal(t, 1, ret.Result[0]["id"])

	// The projected edge carries its expectation.
	edges := g.OutgoingEdges(refs["create"])
	require.Len(t, edges, 1)
	dep, ok := g.EdgeContent(edges[0]).(*graph.ProjectedDataDependency)
	require.True(t, ok)
	assert.True(t, dep.Selection.Equal(selection.New("id")))
	require.NotNil(t, dep.Expectation)
	assert.Equal(t, "RECORD_NOT_FOUND", dep.Expectation.Error.ID())

	assert.True(t, g.IsResultNode(refs["update"]))
	assert.False(t, g.NeedsTransaction())
}

func TestBuildAndFinalizeUpsert(t *testing.T) {
	plan, err := Load("testdata/upsert.yaml")
	require.NoError(t, err)

	g, refs, err := plan.Build()
	require.NoError(t, err)
	require.NoError(t, g.Finalize(plan.GraphCapabilities()))

	// The flow node gained no spurious edges and the branch targets are
	// still reachable through their handles.
	assert.NotNil(t, g.NodeContent(refs["update"]))
	assert.NotNil(t, g.NodeContent(refs["fallback"]))
	assert.True(t, g.Finalized())
}

func TestBuildConnect(t *testing.T) {
	plan, err := Load("testdata/connect.yaml")
	require.NoError(t, err)

	g, refs, err := plan.Build()
	require.NoError(t, err)

	read, ok := g.NodeContent(refs["find_user"]).(*graph.OperationNode)
	require.True(t, ok)
	rq, ok := read.Op.(*query.ReadQuery)
	require.True(t, ok)
	assert.Equal(t, "findUser", rq.Name())
	assert.True(t, rq.ResultSelection().Equal(selection.New("id", "email")))

	edges := g.OutgoingEdges(refs["create_post"])
	require.Len(t, edges, 1)
	dep, ok := g.EdgeContent(edges[0]).(*graph.ProjectedDataSinkDependency)
	require.True(t, ok)
	assert.Equal(t, graph.SinkSingleRow, dep.Sink.Shape)

	assert.True(t, g.NeedsTransaction())

	// The mark flips the edge during finalization: afterwards the read
	// points at the create.
	require.NoError(t, g.Finalize(query.Capabilities{}))
	out := g.OutgoingEdges(refs["find_user"])
	require.Len(t, out, 1)
	assert.Equal(t, refs["create_post"], g.EdgeTarget(out[0]))
}

func TestBuildRejectsBranchFromOperation(t *testing.T) {
	plan, err := Parse([]byte(`
name: bad-branch
models:
  - name: User
    primary_id: [id]
nodes:
  - id: a
    op: CreateOne
    model: User
  - id: b
    op: UpdateOne
    model: User
edges:
  - from: a
    to: b
    dep: then
`))
	require.NoError(t, err)

	_, _, err = plan.Build()
	require.Error(t, err)
	assert.ErrorIs(t, err, graph.ErrBranchRequiresIf)
}

func TestBuildRejectsSelectOnWrite(t *testing.T) {
	plan, err := Parse([]byte(`
name: bad-write
models:
  - name: User
    primary_id: [id]
nodes:
  - id: a
    op: CreateOne
    model: User
    select: [id, name]
`))
	require.NoError(t, err)

	_, _, err = plan.Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "select is only valid on reads")
}
