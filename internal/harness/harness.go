package harness

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/roach88/plangraph/internal/graph"
	"github.com/roach88/plangraph/internal/planspec"
)

// Result holds the outcome of compiling one plan fixture.
type Result struct {
	// Plan is the fixture that was compiled.
	Plan *planspec.Plan

	// Graph is the finalized plan graph.
	Graph *graph.Graph

	// Refs resolves fixture node IDs to graph handles. Handles stay valid
	// through finalization, so callers can inspect individual nodes of the
	// finished plan.
	Refs map[string]graph.NodeRef
}

// Run compiles a plan fixture end to end: build, validate, finalize.
// Validation runs before finalization because the finalizer assumes an
// acyclic graph; a cyclic fixture must fail here, not loop there.
func Run(plan *planspec.Plan) (*Result, error) {
	return RunWithLogger(plan, nil)
}

// RunWithLogger compiles like Run but routes finalize-pass tracing to
// logger. A nil logger keeps the graph's discarding default.
func RunWithLogger(plan *planspec.Plan, logger *log.Logger) (*Result, error) {
	g, refs, err := plan.Build()
	if err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}
	if logger != nil {
		g.SetLogger(logger)
	}

	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}

	if err := g.Finalize(plan.GraphCapabilities()); err != nil {
		return nil, fmt.Errorf("finalize: %w", err)
	}

	return &Result{Plan: plan, Graph: g, Refs: refs}, nil
}

// RunFile loads a fixture from path and compiles it.
func RunFile(path string) (*Result, error) {
	plan, err := planspec.Load(path)
	if err != nil {
		return nil, err
	}
	return Run(plan)
}
