package graph

import (
	"fmt"

	"github.com/roach88/plangraph/internal/query"
	"github.com/roach88/plangraph/internal/selection"
)

// Dependency is the payload of an edge: the semantics by which the target
// depends on the source. The source executes (conceptually) before the
// target.
//
// Variants are pointers for the same reason nodes are: return-dependency
// merging rewrites projected selections in place.
type Dependency interface {
	isDependency()

	// String is the label used by the formatter and DOT export.
	String() string
}

// ExecutionOrder expresses ordering only, no payload.
type ExecutionOrder struct{}

func (*ExecutionOrder) isDependency() {}
func (*ExecutionOrder) String() string { return "ExecutionOrder" }

// TransformFn rewrites the target node given the whole source result.
// It is one-shot: the interpreter plucks the edge content to invoke it.
type TransformFn func(target Node, result []query.Row) (Node, error)

// DataDependency feeds the whole source result into the target through a
// one-shot transform.
type DataDependency struct {
	Transform TransformFn
}

func (*DataDependency) isDependency() {}
func (*DataDependency) String() string { return "Data" }

// ProjectedDataDependency feeds only the rows projected onto Selection into
// the target. Selection is the minimal field set the source result must
// contain; Expectation, if present, is a row-count rule the projected rows
// must satisfy.
type ProjectedDataDependency struct {
	Selection   selection.Selection
	Transform   TransformFn
	Expectation *Expectation
}

func (*ProjectedDataDependency) isDependency() {}

func (d *ProjectedDataDependency) String() string {
	return "ProjectedData " + d.Selection.String() + expectationSuffix(d.Expectation)
}

// SinkShape is the closed set of ways projected rows land in a target field.
type SinkShape int

const (
	// SinkAllRows writes the full projected row set.
	SinkAllRows SinkShape = iota
	// SinkSingleRow writes exactly one row; the expectation on the edge
	// guarantees there is exactly one.
	SinkSingleRow
	// SinkSingleRowAsList writes one row boxed as a one-element list.
	SinkSingleRowAsList
)

func (s SinkShape) String() string {
	switch s {
	case SinkAllRows:
		return "all"
	case SinkSingleRow:
		return "one"
	case SinkSingleRowAsList:
		return "one-as-list"
	default:
		return "unknown"
	}
}

// RowSink addresses a statically known field slot of the target operation.
// Bind is an accessor bound to the concrete payload type by whoever built
// the edge; the graph never reflects over payloads.
type RowSink struct {
	Shape SinkShape
	Bind  func(op query.Operation, rows []query.Row) error
}

// Apply writes rows into the sink, shaping them first.
func (s RowSink) Apply(op query.Operation, rows []query.Row) error {
	switch s.Shape {
	case SinkAllRows:
		return s.Bind(op, rows)
	case SinkSingleRow, SinkSingleRowAsList:
		if len(rows) != 1 {
			return fmt.Errorf("graph: sink shape %s requires exactly one row, got %d", s.Shape, len(rows))
		}
		return s.Bind(op, rows[:1])
	default:
		return fmt.Errorf("graph: unknown sink shape %d", s.Shape)
	}
}

// ProjectedDataSinkDependency has the same contract as
// ProjectedDataDependency, but instead of a caller transform it writes the
// projected rows directly into a field slot of the target node.
type ProjectedDataSinkDependency struct {
	Selection   selection.Selection
	Sink        RowSink
	Expectation *Expectation
}

func (*ProjectedDataSinkDependency) isDependency() {}

func (d *ProjectedDataSinkDependency) String() string {
	return fmt.Sprintf("ProjectedDataSink %s [%s]%s", d.Selection, d.Sink.Shape, expectationSuffix(d.Expectation))
}

// Then selects the branch taken when an If node's rule evaluates true.
// Valid only as an outgoing edge of an If node.
type Then struct{}

func (*Then) isDependency() {}
func (*Then) String() string { return "Then" }

// Else selects the branch taken when an If node's rule evaluates false.
// Valid only as an outgoing edge of an If node.
type Else struct{}

func (*Else) isDependency() {}
func (*Else) String() string { return "Else" }

// projectedSelection returns the required selection of a projected
// dependency, reporting false for every other dependency kind.
func projectedSelection(d Dependency) (selection.Selection, bool) {
	switch v := d.(type) {
	case *ProjectedDataDependency:
		return v.Selection, true
	case *ProjectedDataSinkDependency:
		return v.Selection, true
	default:
		return selection.Selection{}, false
	}
}

// mergeProjectedSelection widens the required selection of a projected
// dependency in place.
func mergeProjectedSelection(d Dependency, extra selection.Selection) {
	switch v := d.(type) {
	case *ProjectedDataDependency:
		v.Selection = v.Selection.Union(extra)
	case *ProjectedDataSinkDependency:
		v.Selection = v.Selection.Union(extra)
	}
}

func isBranchDependency(d Dependency) bool {
	switch d.(type) {
	case *Then, *Else:
		return true
	default:
		return false
	}
}

func expectationSuffix(e *Expectation) string {
	if e == nil {
		return ""
	}
	return " expect " + e.Rule.describe(e.Count)
}
