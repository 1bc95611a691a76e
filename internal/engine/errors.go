package engine

import "errors"

var (
	// ErrNoInput indicates neither plan files nor a planner command
	// was configured for a side.
	ErrNoInput = errors.New("no plan input configured")

	// ErrValidation indicates a validation failure.
	ErrValidation = errors.New("validation failed")
)
