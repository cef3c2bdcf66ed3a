package query

import (
	"fmt"

	"github.com/roach88/plangraph/internal/selection"
)

// WriteQuery creates, updates or deletes records of a model.
//
// Args carries the column values supplied by the builder. Dependency sinks
// write into Args (for data injection, e.g. a foreign key resolved from an
// ancestor's result) or into Filter (for identity injection on the *Many
// kinds); both are plain fields so sink accessors stay cheap.
type WriteQuery struct {
	kind     Kind
	model    Model
	selected selection.Selection

	// Args holds the column values written by this query.
	Args Row

	// Filter holds identity rows restricting UpdateMany / DeleteMany.
	// Nil until injected.
	Filter []Row
}

// NewWriteQuery builds a write of the given kind. If selected is empty, the
// declared result defaults to the model's primary identifier, which is the
// baseline every storage engine can return for a write.
func NewWriteQuery(kind Kind, model Model, args Row) *WriteQuery {
	if args == nil {
		args = Row{}
	}
	return &WriteQuery{
		kind:     kind,
		model:    model,
		selected: model.PrimaryID,
		Args:     args,
	}
}

// Kind implements Operation.
func (q *WriteQuery) Kind() Kind { return q.kind }

// Model implements Operation.
func (q *WriteQuery) Model() Model { return q.model }

// ResultSelection implements Operation.
func (q *WriteQuery) ResultSelection() selection.Selection { return q.selected }

// Satisfies implements Operation.
func (q *WriteQuery) Satisfies(required selection.Selection) bool {
	return q.selected.ContainsAll(required)
}

// SatisfyDependency implements Operation. The caller is responsible for
// checking Capabilities.CanWiden first; widening a write the engine cannot
// honor produces a plan the connector will reject.
func (q *WriteQuery) SatisfyDependency(required selection.Selection) {
	q.selected = q.selected.Union(required)
}

// SetArg injects a single argument value, overwriting any builder-supplied
// value for the same field. Used by data-dependency sinks.
func (q *WriteQuery) SetArg(field string, value any) {
	q.Args[field] = value
}

// SetFilter injects the identity rows restricting a multi-row write.
func (q *WriteQuery) SetFilter(rows []Row) { q.Filter = rows }

// Description implements Operation.
func (q *WriteQuery) Description() string {
	return fmt.Sprintf("%s %s", q.kind, q.model.Name)
}
