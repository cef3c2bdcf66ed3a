package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileText(t *testing.T) {
	out, _, err := execCommand(t, "compile", "testdata/upsert.yaml")
	require.NoError(t, err)
	assert.Contains(t, out, `✓ Compiled plan "upsert"`)
	assert.Contains(t, out, "plan graph (transactional=false, finalized=true)")
	assert.Contains(t, out, "If non-empty")
}

func TestCompileJSON(t *testing.T) {
	out, _, err := execCommand(t, "--format", "json", "compile", "testdata/upsert.yaml")
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)

	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "upsert", data["name"])
	assert.Contains(t, data["dump"], "If non-empty")
}

func TestCompileWritesOutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "upsert.txt")

	out, _, err := execCommand(t, "compile", "testdata/upsert.yaml", "-o", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote plan dump to")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "plan graph")
}

func TestCompileCycleFails(t *testing.T) {
	out, _, err := execCommand(t, "compile", "testdata/cycle.yaml")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, ErrCodeCycle)
}

func TestCompileMissingFile(t *testing.T) {
	out, _, err := execCommand(t, "compile", "testdata/nope.yaml")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, ErrCodeNotFound)
}
