package query

import (
	"fmt"

	"github.com/roach88/plangraph/internal/selection"
)

// ReadQuery reads one or many records of a model.
//
// The filter is deliberately loose: it is a set of identity rows resolved at
// run time, because read queries inside a plan are almost always filtered by
// whatever an ancestor operation actually returned. Builders and the reload
// pass inject it through SetFilter.
type ReadQuery struct {
	name     string
	kind     Kind
	model    Model
	selected selection.Selection

	// Filter holds identity rows restricting the read. Nil until injected.
	Filter []Row
}

// NewReadOne builds a single-record read returning selected.
func NewReadOne(name string, model Model, selected selection.Selection) *ReadQuery {
	return &ReadQuery{name: name, kind: KindReadOne, model: model, selected: selected}
}

// NewReadMany builds a multi-record read returning selected.
func NewReadMany(name string, model Model, selected selection.Selection) *ReadQuery {
	return &ReadQuery{name: name, kind: KindReadMany, model: model, selected: selected}
}

// NewReload builds the read-many query the finalizer inserts behind a write
// that cannot be widened. It selects the model's primary identifier plus
// every field the write's dependents are missing; the filter is injected at
// run time from the write's actual result.
func NewReload(model Model, missing selection.Selection) *ReadQuery {
	return &ReadQuery{
		name:     "reload",
		kind:     KindReadMany,
		model:    model,
		selected: model.PrimaryID.Union(missing),
	}
}

// Name returns the builder-assigned query name ("reload" for synthesized
// reload queries).
func (q *ReadQuery) Name() string { return q.name }

// Kind implements Operation.
func (q *ReadQuery) Kind() Kind { return q.kind }

// Model implements Operation.
func (q *ReadQuery) Model() Model { return q.model }

// ResultSelection implements Operation.
func (q *ReadQuery) ResultSelection() selection.Selection { return q.selected }

// Satisfies implements Operation.
func (q *ReadQuery) Satisfies(required selection.Selection) bool {
	return q.selected.ContainsAll(required)
}

// SatisfyDependency implements Operation. Reads can always widen.
func (q *ReadQuery) SatisfyDependency(required selection.Selection) {
	q.selected = q.selected.Union(required)
}

// SetFilter injects the identity rows restricting this read.
func (q *ReadQuery) SetFilter(rows []Row) { q.Filter = rows }

// Description implements Operation.
func (q *ReadQuery) Description() string {
	return fmt.Sprintf("%s %s %q", q.kind, q.model.Name, q.name)
}
