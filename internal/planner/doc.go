// Package planner adapts external query planners to the plan model.
//
// Each planner is a black box that, given a schema and an operation,
// returns a query plan or a structured failure. The command adapter
// invokes a configured planner binary and decodes the plan JSON it
// prints; the file adapter loads a pre-dumped plan. Either adapter's
// error is terminal for a comparison run: a partial plan is never
// compared against an error.
package planner
