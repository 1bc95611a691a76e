// Package plan defines the in-memory model for federated query
// execution plans.
//
// A plan is a tree of heterogeneous nodes: ordered sequences, parallel
// groups, subgraph fetches, path rebasing (flatten), conditional
// branches, defers, and subscriptions. The package decodes the JSON
// form emitted by both the legacy and the native planner into this
// model and validates data-model invariants.
//
// Key responsibilities:
//   - Node: closed sum type over the plan node kinds
//   - Path: result-tree addresses used by Flatten and Defer
//   - Selection: the "requires" input selections of a fetch
//   - Decode: parse planner JSON output into a Node tree
//   - Validate: report invariant anomalies without failing
package plan
