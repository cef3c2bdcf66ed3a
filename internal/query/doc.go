// Package query defines the operation payloads carried by plan-graph nodes.
//
// The graph treats an Operation as opaque: it never inspects what a query
// does, only what it returns. The entire contract between the graph and its
// payloads is the Operation interface: a declared result selection, a
// handful of capability predicates (is this a single-row create, update or
// delete), and the ability to widen the declared result in place when a
// dependency demands more fields than the query was built to return.
//
// Concrete query types in this package exist for builders, for the reload
// queries the finalizer synthesizes itself, and for tests. Connectors and
// the interpreter consume them; this package never talks to a database.
package query
