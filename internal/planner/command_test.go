package planner

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testPlanJSON = `{
	"kind": "Fetch",
	"serviceName": "products",
	"operation": "{ topProducts { upc } }",
	"operationKind": "query"
}`

func writeTempPlan(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plan.json")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write plan file: %v", err)
	}
	return path
}

func TestFilePlanner_Plan(t *testing.T) {
	p := NewFilePlanner("legacy", writeTempPlan(t, testPlanJSON))

	doc, err := p.Plan(context.Background(), "", "")
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	if doc.Node == nil {
		t.Fatal("expected a plan node")
	}
}

func TestFilePlanner_MissingFile(t *testing.T) {
	p := NewFilePlanner("legacy", filepath.Join(t.TempDir(), "missing.json"))

	_, err := p.Plan(context.Background(), "", "")
	var plannerErr *Error
	if !errors.As(err, &plannerErr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if plannerErr.Planner != "legacy" || plannerErr.Kind != InternalPlannerFailure {
		t.Errorf("unexpected error attribution: %+v", plannerErr)
	}
}

func TestCommandPlanner_Plan(t *testing.T) {
	planFile := writeTempPlan(t, testPlanJSON)
	p := NewCommandPlanner("native", []string{"sh", "-c", "cat " + planFile}, nil)

	doc, err := p.Plan(context.Background(), "schema", "{ topProducts { upc } }")
	if err != nil {
		t.Fatalf("Plan failed: %v", err)
	}
	if doc.Node == nil {
		t.Fatal("expected a plan node")
	}
}

func TestCommandPlanner_ErrorEnvelope(t *testing.T) {
	p := NewCommandPlanner("legacy", []string{
		"sh", "-c", `echo '{"errors": [{"message": "cannot query field x"}]}'`,
	}, nil)

	_, err := p.Plan(context.Background(), "schema", "{ x }")
	var plannerErr *Error
	if !errors.As(err, &plannerErr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if plannerErr.Kind != InvalidOperation {
		t.Errorf("expected InvalidOperation, got %s", plannerErr.Kind)
	}
	if !strings.Contains(plannerErr.Message, "cannot query field x") {
		t.Errorf("expected planner message to be carried, got %q", plannerErr.Message)
	}
}

func TestCommandPlanner_CommandFailure(t *testing.T) {
	p := NewCommandPlanner("native", []string{"sh", "-c", "echo boom >&2; exit 3"}, nil)

	_, err := p.Plan(context.Background(), "schema", "{ x }")
	var plannerErr *Error
	if !errors.As(err, &plannerErr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if plannerErr.Kind != InternalPlannerFailure {
		t.Errorf("expected InternalPlannerFailure, got %s", plannerErr.Kind)
	}
	if !strings.Contains(plannerErr.Message, "boom") {
		t.Errorf("expected stderr excerpt in message, got %q", plannerErr.Message)
	}
}

func TestCommandPlanner_BuildArgs(t *testing.T) {
	p := NewCommandPlanner("native", []string{"planner", "plan", "-s", "{schema}", "-o", "{operation}"}, []string{"--generate-fragments=true"})

	argv := p.buildArgs("/tmp/s.graphql", "/tmp/o.graphql")
	want := []string{"planner", "plan", "-s", "/tmp/s.graphql", "-o", "/tmp/o.graphql", "--generate-fragments=true"}
	if len(argv) != len(want) {
		t.Fatalf("expected %v, got %v", want, argv)
	}
	for i := range want {
		if argv[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, argv)
		}
	}
}

func TestCommandPlanner_AppendsPathsWithoutPlaceholders(t *testing.T) {
	p := NewCommandPlanner("native", []string{"planner"}, nil)

	argv := p.buildArgs("/tmp/s.graphql", "/tmp/o.graphql")
	joined := strings.Join(argv, " ")
	if !strings.Contains(joined, "--schema /tmp/s.graphql") || !strings.Contains(joined, "--operation /tmp/o.graphql") {
		t.Errorf("expected appended schema/operation flags, got %v", argv)
	}
}
