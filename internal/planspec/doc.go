// Package planspec loads declarative plan fixtures from YAML and builds
// them into execution-plan graphs.
//
// A fixture names models, nodes, edges, marked rotation pairs, result nodes
// and engine capabilities. It exists for the test harness and the CLI: the
// same file drives golden-output conformance tests and ad-hoc compilation
// from the command line.
//
// Parsing is strict. Unknown fields are rejected so that typos in fixture
// files fail loudly instead of silently producing a different plan.
package planspec
