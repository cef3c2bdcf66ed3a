package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExitErrorCodes(t *testing.T) {
	assert.Equal(t, ExitFailure, GetExitCode(fmt.Errorf("plain error")))
	assert.Equal(t, ExitCommandError, GetExitCode(NewExitError(ExitCommandError, "bad path")))

	wrapped := fmt.Errorf("outer: %w", WrapExitError(ExitFailure, "inner", nil))
	assert.Equal(t, ExitFailure, GetExitCode(wrapped))
}

func TestExitErrorMessage(t *testing.T) {
	err := WrapExitError(ExitFailure, "compiling", fmt.Errorf("boom"))
	assert.Equal(t, "compiling: boom", err.Error())
	assert.Equal(t, "boom", err.Unwrap().Error())

	bare := NewExitError(ExitCommandError, "bad path")
	assert.Equal(t, "bad path", bare.Error())
	assert.Nil(t, bare.Unwrap())
}

func TestFormatterSuccessJSON(t *testing.T) {
	var buf bytes.Buffer
	f := &OutputFormatter{Format: "json", Writer: &buf}
	require.NoError(t, f.Success(map[string]string{"name": "upsert"}))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestFormatterErrorText(t *testing.T) {
	var buf bytes.Buffer
	f := &OutputFormatter{Format: "text", Writer: &buf, Verbose: true}
	require.NoError(t, f.Error(ErrCodeCycle, "plan graph is cyclic", "node 2"))

	out := buf.String()
	assert.Contains(t, out, "Error [E007]: plan graph is cyclic")
	assert.Contains(t, out, "Details: node 2")
}

func TestFormatterErrWriterFallback(t *testing.T) {
	var out bytes.Buffer
	f := &OutputFormatter{Writer: &out}
	assert.Equal(t, &out, f.GetErrWriter())

	var errOut bytes.Buffer
	f.ErrWriter = &errOut
	assert.Equal(t, &errOut, f.GetErrWriter())
}
