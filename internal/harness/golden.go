package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"
)

// RunWithGolden compiles a fixture file and compares the finished plan's
// deterministic dump against a golden file. The golden file is stored in
// testdata/golden/{plan.Name}.golden.
//
// Test failure (via goldie) occurs if the dump does not match the golden
// file. Returns an error only when compilation itself fails.
func RunWithGolden(t *testing.T, path string) (*Result, error) {
	t.Helper()

	result, err := RunFile(path)
	if err != nil {
		return nil, err
	}

	AssertGolden(t, result.Plan.Name, result)
	return result, nil
}

// AssertGolden compares an already-compiled result against the golden file
// named name. Useful when a test wants to mutate or inspect the graph before
// snapshotting it.
func AssertGolden(t *testing.T, name string, result *Result) {
	t.Helper()

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, []byte(result.Graph.Format()))
}
