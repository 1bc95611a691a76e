package planner

import "fmt"

// ErrorKind classifies a planner failure.
type ErrorKind string

const (
	// InvalidOperation: the operation does not plan against the schema.
	InvalidOperation ErrorKind = "InvalidOperation"

	// SchemaCompositionError: the supergraph schema itself is invalid.
	SchemaCompositionError ErrorKind = "SchemaCompositionError"

	// InternalPlannerFailure: the planner crashed or produced
	// undecodable output.
	InternalPlannerFailure ErrorKind = "InternalPlannerFailure"
)

// Error is a structured planner failure, attributed to the planner
// that produced it.
type Error struct {
	// Planner names the failing planner ("legacy" or "native").
	Planner string

	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s planner: %s: %s", e.Planner, e.Kind, e.Message)
}
