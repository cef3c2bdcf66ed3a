package query

import "github.com/roach88/plangraph/internal/selection"

// Kind identifies the shape of a query without exposing its contents.
// The graph core only ever branches on the three single-row write kinds,
// which are the ones a storage engine may refuse to widen (see Capabilities).
type Kind int

const (
	// KindReadOne reads at most one record.
	KindReadOne Kind = iota
	// KindReadMany reads a filtered set of records.
	KindReadMany
	// KindCreateOne creates exactly one record.
	KindCreateOne
	// KindUpdateOne updates at most one record addressed by a unique filter.
	KindUpdateOne
	// KindUpdateMany updates a filtered set of records.
	KindUpdateMany
	// KindDeleteOne deletes at most one record addressed by a unique filter.
	KindDeleteOne
	// KindDeleteMany deletes a filtered set of records.
	KindDeleteMany
)

// String returns the kind name used in diagnostics output.
func (k Kind) String() string {
	switch k {
	case KindReadOne:
		return "ReadOne"
	case KindReadMany:
		return "ReadMany"
	case KindCreateOne:
		return "CreateOne"
	case KindUpdateOne:
		return "UpdateOne"
	case KindUpdateMany:
		return "UpdateMany"
	case KindDeleteOne:
		return "DeleteOne"
	case KindDeleteMany:
		return "DeleteMany"
	default:
		return "Unknown"
	}
}

// Model names the record type a query operates on, together with the field
// set that uniquely identifies one record. The primary identifier is what a
// write returns when the storage engine cannot return anything richer, and
// what a reload query filters on.
type Model struct {
	Name      string
	PrimaryID selection.Selection
}

// Row is one record of a query result. Values are opaque to the graph; they
// only flow through dependency transforms and sinks.
type Row map[string]any

// Project returns a copy of the row restricted to the given selection.
// Fields the row does not carry are omitted.
func (r Row) Project(sel selection.Selection) Row {
	out := make(Row, sel.Len())
	for _, f := range sel.Fields() {
		if v, ok := r[f]; ok {
			out[f] = v
		}
	}
	return out
}

// ProjectRows projects every row onto sel.
func ProjectRows(rows []Row, sel selection.Selection) []Row {
	out := make([]Row, len(rows))
	for i, r := range rows {
		out[i] = r.Project(sel)
	}
	return out
}

// Operation is a concrete database call wrapped by an Operation node.
//
// Implementations must use pointer receivers: SatisfyDependency mutates the
// operation in place, and the graph hands out the same instance it stores.
type Operation interface {
	// Kind reports the query shape.
	Kind() Kind

	// Model reports the record type the query operates on.
	Model() Model

	// ResultSelection is the field set the query is currently declared to
	// return. For writes against engines without extended returning this is
	// typically just the model's primary identifier.
	ResultSelection() selection.Selection

	// Satisfies reports whether the declared result covers required.
	Satisfies(required selection.Selection) bool

	// SatisfyDependency widens the declared result in place so that it
	// additionally covers required. Callers must first check, via
	// Capabilities, that the storage engine can honor the widened shape.
	SatisfyDependency(required selection.Selection)

	// Description is a short human-readable label for diagnostics, e.g.
	// "CreateOne User".
	Description() string
}

// Capabilities is the storage-capability set driving result widening.
// Each flag states that the engine can return fields beyond the primary
// identifier for the corresponding single-row write.
type Capabilities struct {
	CreateReturning bool
	UpdateReturning bool
	DeleteReturning bool
}

// CanWiden reports whether an operation of the given kind may have its
// result selection widened. Reads and multi-row writes always can; single-row
// writes depend on the engine's returning support.
func (c Capabilities) CanWiden(k Kind) bool {
	switch k {
	case KindCreateOne:
		return c.CreateReturning
	case KindUpdateOne:
		return c.UpdateReturning
	case KindDeleteOne:
		return c.DeleteReturning
	default:
		return true
	}
}
