package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadPlanYAML(t *testing.T) {
	plan, err := LoadPlan("testdata/upsert.yaml")
	require.NoError(t, err)
	assert.Equal(t, "upsert", plan.Name)
	assert.Len(t, plan.Nodes, 4)
}

func TestLoadPlanCUE(t *testing.T) {
	plan, err := LoadPlan("testdata/upsert.cue")
	require.NoError(t, err)
	assert.Equal(t, "upsert-cue", plan.Name)
	assert.Len(t, plan.Nodes, 4)
	assert.True(t, plan.Capabilities.UpdateReturning)
	assert.Equal(t, []string{"update"}, plan.Result)

	g, refs, err := plan.Build()
	require.NoError(t, err)
	require.Len(t, refs, 4)
	assert.True(t, g.IsResultNode(refs["update"]))
}

func TestLoadPlanMissing(t *testing.T) {
	_, err := LoadPlan("testdata/nope.yaml")
	require.Error(t, err)
	assertLoadCode(t, err, ErrCodeNotFound)
}

func TestLoadPlanBadExtension(t *testing.T) {
	_, err := LoadPlan("testdata/upsert.cue.bak")
	require.Error(t, err)
	// Stat fails before the extension check.
	assertLoadCode(t, err, ErrCodeNotFound)

	_, err = LoadPlan("loader.go")
	require.Error(t, err)
	assertLoadCode(t, err, ErrCodeBadExt)
}

func TestLoadPlanBrokenCUE(t *testing.T) {
	_, err := LoadPlan("testdata/broken.cue")
	require.Error(t, err)
	assertLoadCode(t, err, ErrCodeParseFailed)
}

func TestLoadPlanInvalidCUE(t *testing.T) {
	_, err := LoadPlan("testdata/invalid.cue")
	require.Error(t, err)
	assertLoadCode(t, err, ErrCodeInvalidPlan)
	assert.Contains(t, err.Error(), `unknown target node "ghost"`)
}

func assertLoadCode(t *testing.T, err error, code string) {
	t.Helper()
	loadErr, ok := err.(*LoadError)
	require.True(t, ok, "expected *LoadError, got %T", err)
	assert.Equal(t, code, loadErr.Code)
}
