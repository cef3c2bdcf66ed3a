package graph

import (
	"errors"
	"fmt"
)

// RowCountRule is the closed set of row-count invariants a projected
// dependency can attach to its rows.
type RowCountRule int

const (
	// RowCountExactly requires exactly Count rows.
	RowCountExactly RowCountRule = iota
	// RowCountEmpty requires zero rows.
	RowCountEmpty
	// RowCountNonEmpty requires at least one row.
	RowCountNonEmpty
)

func (r RowCountRule) describe(count int) string {
	switch r {
	case RowCountExactly:
		return fmt.Sprintf("exactly %d", count)
	case RowCountEmpty:
		return "empty"
	case RowCountNonEmpty:
		return "non-empty"
	default:
		return "unknown"
	}
}

// holds reports whether n rows satisfy the rule.
func (r RowCountRule) holds(n, count int) bool {
	switch r {
	case RowCountExactly:
		return n == count
	case RowCountEmpty:
		return n == 0
	case RowCountNonEmpty:
		return n > 0
	default:
		return false
	}
}

// ExpectationError constructs the user-facing error for a violated
// expectation. Implementations carry the domain context (which model, which
// relation) the graph itself does not know.
type ExpectationError interface {
	// ID identifies the error category, e.g. "RECORD_NOT_FOUND".
	ID() string

	// Context returns structured fields for diagnostics.
	Context() map[string]string

	// RuntimeError builds the error surfaced to the caller, given the row
	// count actually observed.
	RuntimeError(rows int) error
}

// Expectation is a row-count rule attached to a projected dependency.
// A violation aborts the whole plan with the attached error; it is a data
// failure, never silently recovered.
type Expectation struct {
	Rule  RowCountRule
	Count int
	Error ExpectationError
}

// ExpectExactly requires exactly n projected rows.
func ExpectExactly(n int, err ExpectationError) *Expectation {
	return &Expectation{Rule: RowCountExactly, Count: n, Error: err}
}

// ExpectEmpty requires zero projected rows.
func ExpectEmpty(err ExpectationError) *Expectation {
	return &Expectation{Rule: RowCountEmpty, Error: err}
}

// ExpectNonEmpty requires at least one projected row.
func ExpectNonEmpty(err ExpectationError) *Expectation {
	return &Expectation{Rule: RowCountNonEmpty, Error: err}
}

// Check validates the rule against the observed row count. On violation it
// returns the error built by the attached ExpectationError.
func (e *Expectation) Check(rows int) error {
	if e.Rule.holds(rows, e.Count) {
		return nil
	}
	return e.Error.RuntimeError(rows)
}

// ExpectationViolation is the runtime error a violated expectation converts
// to. It aborts the whole plan and is always surfaced to the caller.
type ExpectationViolation struct {
	// Code identifies the error category (ExpectationError.ID).
	Code string

	// Message is a human-readable description.
	Message string

	// Rows is the row count actually observed.
	Rows int

	// Context carries structured diagnostic fields.
	Context map[string]string
}

// Error implements the error interface.
func (e *ExpectationViolation) Error() string {
	return fmt.Sprintf("%s: %s (got %d rows)", e.Code, e.Message, e.Rows)
}

// IsExpectationViolation reports whether err is (or wraps) an expectation
// violation. Uses errors.As to handle wrapped errors.
func IsExpectationViolation(err error) bool {
	var ev *ExpectationViolation
	return errors.As(err, &ev)
}

// RecordNotFound reports that a record required by a relation does not
// exist, e.g. a connect against a missing related record.
type RecordNotFound struct {
	Model    string
	Relation string
}

// ID implements ExpectationError.
func (e RecordNotFound) ID() string { return "RECORD_NOT_FOUND" }

// Context implements ExpectationError.
func (e RecordNotFound) Context() map[string]string {
	return map[string]string{"model": e.Model, "relation": e.Relation}
}

// RuntimeError implements ExpectationError.
func (e RecordNotFound) RuntimeError(rows int) error {
	return &ExpectationViolation{
		Code:    e.ID(),
		Message: fmt.Sprintf("no %q record was found for relation %q", e.Model, e.Relation),
		Rows:    rows,
		Context: e.Context(),
	}
}

// RecordsNotConnected reports that two records expected to be connected
// through a relation are not.
type RecordsNotConnected struct {
	Parent   string
	Child    string
	Relation string
}

// ID implements ExpectationError.
func (e RecordsNotConnected) ID() string { return "RECORDS_NOT_CONNECTED" }

// Context implements ExpectationError.
func (e RecordsNotConnected) Context() map[string]string {
	return map[string]string{"parent": e.Parent, "child": e.Child, "relation": e.Relation}
}

// RuntimeError implements ExpectationError.
func (e RecordsNotConnected) RuntimeError(rows int) error {
	return &ExpectationViolation{
		Code:    e.ID(),
		Message: fmt.Sprintf("expected %q and %q to be connected through %q", e.Parent, e.Child, e.Relation),
		Rows:    rows,
		Context: e.Context(),
	}
}

// RelationViolation reports a generic relation constraint breach, used where
// neither of the specific shapes applies.
type RelationViolation struct {
	Relation string
	Detail   string
}

// ID implements ExpectationError.
func (e RelationViolation) ID() string { return "RELATION_VIOLATION" }

// Context implements ExpectationError.
func (e RelationViolation) Context() map[string]string {
	return map[string]string{"relation": e.Relation}
}

// RuntimeError implements ExpectationError.
func (e RelationViolation) RuntimeError(rows int) error {
	return &ExpectationViolation{
		Code:    e.ID(),
		Message: fmt.Sprintf("relation %q violated: %s", e.Relation, e.Detail),
		Rows:    rows,
		Context: e.Context(),
	}
}
