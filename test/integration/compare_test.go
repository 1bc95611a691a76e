package integration

import (
	"context"
	"strings"
	"testing"

	"github.com/danieljhkim/qpdiff/internal/compare"
	"github.com/danieljhkim/qpdiff/internal/engine"
	"github.com/danieljhkim/qpdiff/internal/planner"
	"github.com/danieljhkim/qpdiff/internal/report"
)

func compareFiles(t *testing.T, left, right string, mode compare.Mode) *engine.CompareResult {
	t.Helper()
	eng := engine.New(
		planner.NewFilePlanner("legacy", left),
		planner.NewFilePlanner("native", right),
	)
	result, err := eng.Compare(context.Background(), &engine.CompareRequest{Mode: mode})
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}
	return result
}

// The legacy envelope and the native bare node describe the same plan
// modulo parallel branch order and field order, so the full pipeline
// must report equivalence.
func TestEquivalentPlans(t *testing.T) {
	left := writePlan(t, "legacy.json", legacyPlanJSON)
	right := writePlan(t, "native.json", nativePlanJSON)

	result := compareFiles(t, left, right, compare.ModeExhaustive)
	if !result.Equivalent {
		t.Fatalf("expected equivalence, got mismatches: %+v", result.Mismatches)
	}
	if len(result.Anomalies) != 0 {
		t.Errorf("unexpected anomalies: %+v", result.Anomalies)
	}

	// Both canonical renderings must be identical text.
	if result.LeftText != result.RightText {
		t.Errorf("canonical renderings differ:\n%s\n---\n%s", result.LeftText, result.RightText)
	}
}

func TestDivergentPlans(t *testing.T) {
	left := writePlan(t, "legacy.json", legacyPlanJSON)
	right := writePlan(t, "divergent.json", divergentPlanJSON)

	result := compareFiles(t, left, right, compare.ModeExhaustive)
	if result.Equivalent {
		t.Fatal("expected divergence")
	}

	var m *compare.Mismatch
	for i := range result.Mismatches {
		if result.Mismatches[i].Kind == compare.OperationMismatch {
			m = &result.Mismatches[i]
			break
		}
	}
	if m == nil {
		t.Fatalf("expected an OperationMismatch, got %+v", result.Mismatches)
	}

	// The mismatch must be addressed to the inventory branch, not a
	// positional parallel index.
	crumb := m.Breadcrumb()
	if !strings.Contains(crumb, "Parallel[service=inventory]") {
		t.Errorf("expected breadcrumb with branch key, got %q", crumb)
	}

	// The rendered report must carry a unified diff of the operation.
	var b strings.Builder
	if err := report.Render(&b, result.Mismatches, report.DefaultSides); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	out := b.String()
	if !strings.Contains(out, "-") || !strings.Contains(out, "shippingEstimate") {
		t.Errorf("expected diff mentioning shippingEstimate, got:\n%s", out)
	}
}

func TestFailFastStopsAtFirstMismatch(t *testing.T) {
	left := writePlan(t, "legacy.json", legacyPlanJSON)
	right := writePlan(t, "divergent.json", divergentPlanJSON)

	result := compareFiles(t, left, right, compare.ModeFailFast)
	if len(result.Mismatches) != 1 {
		t.Errorf("expected exactly one mismatch, got %d", len(result.Mismatches))
	}
}

func TestReflexivity(t *testing.T) {
	left := writePlan(t, "legacy.json", legacyPlanJSON)
	right := writePlan(t, "same.json", legacyPlanJSON)

	result := compareFiles(t, left, right, compare.ModeExhaustive)
	if !result.Equivalent {
		t.Fatalf("plan must equal itself, got %+v", result.Mismatches)
	}
}
