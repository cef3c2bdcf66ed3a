// Package harness runs plan fixtures through the full compile pipeline and
// compares the finished graphs against golden files.
//
// A conformance run is: load fixture, build the graph, validate it, finalize
// with the fixture's capabilities, render the deterministic dump. The dump
// is the contract; golden files under testdata/golden are the source of
// truth for how each fixture must compile.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
package harness
