// Package refsync owns reference reconciliation.
//
// Ownership boundary:
// - classifying existing references as local or cross-project
// - computing dependency closures over the workspace graph
// - rewriting manifest reference lists and the root aggregate
// - deciding when the formatter runs and what the run reports
//
// Refsync never touches storage or graph loading directly; both arrive
// as injected capabilities, so a run is a deterministic function of its
// (graph, tree, config) inputs.
package refsync
