// Package graph implements the execution-plan graph: a mutable DAG
// intermediate representation for a set of logically related, mutually
// dependent database operations, compiled into a single validated plan that
// an interpreter can execute against a transactional store.
//
// ARCHITECTURE:
//
// Builders populate the graph incrementally through CreateNode, CreateEdge,
// MarkNodes and AddResultNode, one nested operation at a time, possibly from
// many independent sub-builders. Once the whole request is built, Finalize
// runs a fixed pipeline of five passes exactly once:
//
//  1. swapMarked: apply queued parent/child rotations (reverse order)
//  2. mergeReturnDeps: make Return nodes transparent to field demands
//  3. normalizeDataDeps: widen operation results in place where the storage
//     engine allows it
//  4. insertReloads: synthesize read-many nodes for the capability-blocked
//     remainder
//  5. normalizeIfNodes: order If nodes before their unrelated siblings
//
// After Finalize the graph is read-mostly: the interpreter may pluck node
// and edge content exactly once as it consumes it, but must not add nodes or
// edges.
//
// GRAPH INVARIANTS:
//
//   - Directed, acyclic. Acyclicity is a documented precondition on
//     CreateEdge, not an enforced one; Validate exists as an opt-in check.
//   - Node and edge identities are stable and never reused, even after their
//     content is plucked. Content lives in slots so that references captured
//     early survive every later pass.
//   - A node may have several parents, but a dependency may only reference
//     its direct parent or one of that parent's ancestors, never a sibling.
//   - Outgoing edges are totally ordered and evaluated low to high unless a
//     later pass reorders them.
//   - Zero or more result nodes mark which nodes supply the overall plan
//     result; with none marked the interpreter uses the last node visited.
//
// DETERMINISM:
//
// The graph is single-threaded and purely in-memory. Every traversal is in
// stable edge order, so the same construction sequence always produces the
// same finalized plan, the same formatter output and the same DOT export.
// All suspension, parallelism and cancellation belong to the interpreter.
package graph
