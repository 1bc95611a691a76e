package planner

import (
	"context"
	"fmt"
	"os"

	"github.com/danieljhkim/qpdiff/internal/plan"
)

// Planner produces a query plan for a schema/operation pair.
type Planner interface {
	// Name identifies the planner in errors and reports.
	Name() string

	// Plan returns the planner's query plan document, or a *Error.
	Plan(ctx context.Context, schema, operation string) (*plan.Document, error)
}

// FilePlanner serves a pre-dumped plan document from disk, ignoring
// the schema and operation. Used to compare plan files directly.
type FilePlanner struct {
	PlannerName string
	Path        string
}

// NewFilePlanner creates a FilePlanner for the given plan file.
func NewFilePlanner(name, path string) *FilePlanner {
	return &FilePlanner{PlannerName: name, Path: path}
}

func (p *FilePlanner) Name() string { return p.PlannerName }

// Plan loads and decodes the plan file.
func (p *FilePlanner) Plan(ctx context.Context, schema, operation string) (*plan.Document, error) {
	data, err := os.ReadFile(p.Path)
	if err != nil {
		return nil, &Error{
			Planner: p.PlannerName,
			Kind:    InternalPlannerFailure,
			Message: fmt.Sprintf("failed to read plan file: %v", err),
		}
	}
	return decodeOutput(p.PlannerName, data)
}
