package graph

import (
	"fmt"

	"github.com/roach88/plangraph/internal/query"
	"github.com/roach88/plangraph/internal/selection"
)

// Node is a step in the plan: an operation, a control node (If/Return) or a
// pure computation. The plucked "empty" state is not a variant: it is the
// emptied slot itself, observable as a nil result from Graph.NodeContent.
//
// Variants are pointers so that dependency transforms and finalize passes
// can mutate node payloads in place through the content they read.
type Node interface {
	isNode()
}

// OperationNode wraps one concrete database call. The graph never interprets
// the operation beyond the query.Operation contract.
type OperationNode struct {
	Op query.Operation
}

func (*OperationNode) isNode() {}

// RuleMode selects the predicate an If node evaluates against its snapshot.
type RuleMode int

const (
	// RuleNonEmpty takes the Then branch when the snapshot has rows.
	RuleNonEmpty RuleMode = iota
	// RuleEmpty takes the Then branch when the snapshot has no rows.
	RuleEmpty
	// RuleFunc delegates to an arbitrary predicate. Reserved for the rare
	// condition the closed modes cannot express.
	RuleFunc
)

// IfRule is the branch predicate of an If node.
type IfRule struct {
	Mode RuleMode
	Func func(rows []query.Row) bool
}

// Evaluate applies the rule to a result snapshot.
func (r IfRule) Evaluate(rows []query.Row) bool {
	switch r.Mode {
	case RuleNonEmpty:
		return len(rows) > 0
	case RuleEmpty:
		return len(rows) == 0
	case RuleFunc:
		return r.Func(rows)
	default:
		panic(fmt.Sprintf("graph: unknown rule mode %d", r.Mode))
	}
}

func (r IfRule) String() string {
	switch r.Mode {
	case RuleNonEmpty:
		return "non-empty"
	case RuleEmpty:
		return "empty"
	default:
		return "func"
	}
}

// IfNode branches to exactly one of a Then or Else child at run time.
// Snapshot may be overwritten by an incoming data dependency before the
// branch is taken.
type IfNode struct {
	Rule     IfRule
	Snapshot []query.Row
}

func (*IfNode) isNode() {}

// NewIfNonEmpty returns an If node branching on a non-empty snapshot.
func NewIfNonEmpty() *IfNode { return &IfNode{Rule: IfRule{Mode: RuleNonEmpty}} }

// NewIfEmpty returns an If node branching on an empty snapshot.
func NewIfEmpty() *IfNode { return &IfNode{Rule: IfRule{Mode: RuleEmpty}} }

// ReturnNode terminates a branch. If Fixed is set, Result overrides whatever
// the normal traversal result would have been, regardless of which operation
// executed.
type ReturnNode struct {
	Fixed  bool
	Result []query.Row
}

func (*ReturnNode) isNode() {}

// DiffNode is a pure, no-I/O computation holding two result lists
// accumulated from two different incoming edges, used to compute set
// differences (e.g. which previously linked children must be disconnected).
type DiffNode struct {
	Left  []query.Row
	Right []query.Row
}

func (*DiffNode) isNode() {}

// Diff returns the rows of Left that do not appear in Right, compared by
// projecting both sides onto the given identity and matching field values.
func (d *DiffNode) Diff(id selection.Selection) []query.Row {
	fields := id.Fields()
	var out []query.Row
	for _, l := range d.Left {
		matched := false
		for _, r := range d.Right {
			if rowsMatch(l, r, fields) {
				matched = true
				break
			}
		}
		if !matched {
			out = append(out, l)
		}
	}
	return out
}

func rowsMatch(a, b query.Row, fields []string) bool {
	for _, f := range fields {
		if a[f] != b[f] {
			return false
		}
	}
	return true
}

// IsControlNode reports whether n is an If or Return node.
func IsControlNode(n Node) bool {
	switch n.(type) {
	case *IfNode, *ReturnNode:
		return true
	default:
		return false
	}
}

// NodeLabel returns the diagnostic label for a node, "(empty)" for nil.
func NodeLabel(n Node) string {
	switch v := n.(type) {
	case nil:
		return "(empty)"
	case *OperationNode:
		return "Operation " + v.Op.Description()
	case *IfNode:
		return "If " + v.Rule.String()
	case *ReturnNode:
		if v.Fixed {
			return fmt.Sprintf("Return fixed(%d rows)", len(v.Result))
		}
		return "Return"
	case *DiffNode:
		return "Diff"
	default:
		return fmt.Sprintf("unknown(%T)", n)
	}
}
