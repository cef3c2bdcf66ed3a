package harness

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/plangraph/internal/graph"
	"github.com/roach88/plangraph/internal/planspec"
	"github.com/roach88/plangraph/internal/query"
)

func TestRunUpsert(t *testing.T) {
	result, err := RunWithGolden(t, "testdata/upsert.yaml")
	require.NoError(t, err)

	assert.True(t, result.Graph.Finalized())
	assert.True(t, result.Graph.IsResultNode(result.Refs["update"]))
}

func TestRunConnect(t *testing.T) {
	result, err := RunWithGolden(t, "testdata/connect.yaml")
	require.NoError(t, err)

	// The mark flipped the dependency: the read now gates the create.
	out := result.Graph.OutgoingEdges(result.Refs["find_user"])
	require.Len(t, out, 1)
	assert.Equal(t, result.Refs["create_post"], result.Graph.EdgeTarget(out[0]))
	assert.True(t, result.Graph.NeedsTransaction())
}

func TestRunReloadInsertion(t *testing.T) {
	result, err := RunWithGolden(t, "testdata/reload.yaml")
	require.NoError(t, err)

	// The update could not widen, so a reload sits between it and the read.
	out := result.Graph.OutgoingEdges(result.Refs["update"])
	require.Len(t, out, 1)

	reloadRef := result.Graph.EdgeTarget(out[0])
	reload, ok := result.Graph.NodeContent(reloadRef).(*graph.OperationNode)
	require.True(t, ok)
	assert.Equal(t, query.KindReadMany, reload.Op.Kind())
	assert.Equal(t, "User", reload.Op.Model().Name)

	reloadOut := result.Graph.OutgoingEdges(reloadRef)
	require.Len(t, reloadOut, 1)
	assert.Equal(t, result.Refs["posts"], result.Graph.EdgeTarget(reloadOut[0]))
}

func TestRunWithLoggerTracesPasses(t *testing.T) {
	plan, err := planspec.Load("testdata/reload.yaml")
	require.NoError(t, err)

	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})

	_, err = RunWithLogger(plan, logger)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "inserted reload node")
}

func TestRunRejectsCycle(t *testing.T) {
	_, err := RunFile("testdata/cycle.yaml")
	require.Error(t, err)
	assert.ErrorIs(t, err, graph.ErrGraphHasCycle)
}

func TestRunFileMissing(t *testing.T) {
	_, err := RunFile("testdata/nope.yaml")
	require.Error(t, err)
}
