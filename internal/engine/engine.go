// Package engine provides the core business logic for qpdiff operations.
//
// The engine package acts as the orchestration layer between CLI commands and
// lower-level operations. It coordinates planner invocation, plan
// canonicalization, lock-step comparison, and report assembly.
//
// Key components:
//   - Engine: Main orchestrator that coordinates all operations
//   - Compare: Plans an operation on both planners and diffs the results
//   - ComparePlans: Diffs two already-decoded plan documents
//   - Show: Canonicalizes and renders a single plan document
package engine

import (
	"context"

	"github.com/danieljhkim/qpdiff/internal/canon"
	"github.com/danieljhkim/qpdiff/internal/compare"
	"github.com/danieljhkim/qpdiff/internal/plan"
	"github.com/danieljhkim/qpdiff/internal/planner"
	"github.com/danieljhkim/qpdiff/internal/report"
)

// Engine orchestrates all qpdiff operations.
// It is the main API surface called by the CLI.
type Engine struct {
	legacy planner.Planner
	native planner.Planner
}

// New creates a new Engine with the given planner adapters.
func New(legacy, native planner.Planner) *Engine {
	return &Engine{legacy: legacy, native: native}
}

// plannerRun carries one planner's outcome across the goroutine boundary.
type plannerRun struct {
	doc *plan.Document
	err error
}

// Compare plans the operation on both planners and compares the two
// plans. Planner failures are terminal: a plan is never compared
// against an error.
func (e *Engine) Compare(ctx context.Context, req *CompareRequest) (*CompareResult, error) {
	legacyCh := make(chan plannerRun, 1)
	nativeCh := make(chan plannerRun, 1)

	go func() {
		doc, err := e.legacy.Plan(ctx, req.Schema, req.Operation)
		legacyCh <- plannerRun{doc: doc, err: err}
	}()
	go func() {
		doc, err := e.native.Plan(ctx, req.Schema, req.Operation)
		nativeCh <- plannerRun{doc: doc, err: err}
	}()

	legacy := <-legacyCh
	native := <-nativeCh

	if legacy.err != nil {
		return nil, legacy.err
	}
	if native.err != nil {
		return nil, native.err
	}

	return e.comparePlans(legacy.doc, native.doc, req.Mode), nil
}

// ComparePlans compares two already-decoded plan documents.
func (e *Engine) ComparePlans(left, right *plan.Document, mode compare.Mode) *CompareResult {
	return e.comparePlans(left, right, mode)
}

func (e *Engine) comparePlans(left, right *plan.Document, mode compare.Mode) *CompareResult {
	result := &CompareResult{
		Anomalies: plan.Validate(left.Node),
	}
	result.Anomalies = append(result.Anomalies, plan.Validate(right.Node)...)

	var canonLeft, canonRight plan.Node
	if left.Node != nil {
		canonLeft = canon.Canonicalize(left.Node)
	}
	if right.Node != nil {
		canonRight = canon.Canonicalize(right.Node)
	}

	diff := compare.Plans(canonLeft, canonRight, mode)

	result.Equivalent = diff.Equivalent()
	result.Mismatches = diff.Mismatches
	result.Summary = report.Summarize(diff.Mismatches)
	result.LeftPlan = canonLeft
	result.RightPlan = canonRight
	result.LeftText = canon.Render(canonLeft)
	result.RightText = canon.Render(canonRight)
	return result
}

// Show canonicalizes and renders one plan document.
func (e *Engine) Show(doc *plan.Document) *ShowResult {
	result := &ShowResult{
		Anomalies: plan.Validate(doc.Node),
	}
	var canonical plan.Node
	if doc.Node != nil {
		canonical = canon.Canonicalize(doc.Node)
	}
	result.Plan = canonical
	result.Text = canon.Render(canonical)
	return result
}
