package engine

import "github.com/danieljhkim/qpdiff/internal/compare"

// CompareRequest represents a request to plan and compare one operation.
type CompareRequest struct {
	// Schema is the supergraph schema text handed to both planners
	Schema string

	// Operation is the GraphQL operation text to plan
	Operation string

	// Mode selects exhaustive or fail-fast mismatch collection
	Mode compare.Mode
}
