package planner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/danieljhkim/qpdiff/internal/plan"
)

// Placeholders substituted in a configured planner command line.
const (
	SchemaPlaceholder    = "{schema}"
	OperationPlaceholder = "{operation}"
)

// CommandPlanner invokes an external planner binary. The schema and
// operation are written to temporary files whose paths replace the
// {schema} and {operation} placeholders in the command line (appended
// as trailing arguments when no placeholder is present). The planner
// must print its plan document as JSON on stdout.
type CommandPlanner struct {
	PlannerName string
	Command     []string

	// ExtraArgs carries pass-through planner options from config
	// (for example --generate-fragments).
	ExtraArgs []string
}

// NewCommandPlanner creates a CommandPlanner for the given command line.
func NewCommandPlanner(name string, command, extraArgs []string) *CommandPlanner {
	return &CommandPlanner{PlannerName: name, Command: command, ExtraArgs: extraArgs}
}

func (p *CommandPlanner) Name() string { return p.PlannerName }

// Plan runs the planner command and decodes its output.
func (p *CommandPlanner) Plan(ctx context.Context, schema, operation string) (*plan.Document, error) {
	if len(p.Command) == 0 {
		return nil, &Error{Planner: p.PlannerName, Kind: InternalPlannerFailure, Message: "no command configured"}
	}

	dir, err := os.MkdirTemp("", "qpdiff-")
	if err != nil {
		return nil, &Error{Planner: p.PlannerName, Kind: InternalPlannerFailure, Message: fmt.Sprintf("failed to create temp dir: %v", err)}
	}
	defer func() {
		_ = os.RemoveAll(dir)
	}()

	schemaPath := filepath.Join(dir, "schema.graphql")
	operationPath := filepath.Join(dir, "operation.graphql")
	if err := os.WriteFile(schemaPath, []byte(schema), 0o600); err != nil {
		return nil, &Error{Planner: p.PlannerName, Kind: InternalPlannerFailure, Message: fmt.Sprintf("failed to write schema: %v", err)}
	}
	if err := os.WriteFile(operationPath, []byte(operation), 0o600); err != nil {
		return nil, &Error{Planner: p.PlannerName, Kind: InternalPlannerFailure, Message: fmt.Sprintf("failed to write operation: %v", err)}
	}

	argv := p.buildArgs(schemaPath, operationPath)

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &Error{
			Planner: p.PlannerName,
			Kind:    InternalPlannerFailure,
			Message: fmt.Sprintf("planner command failed: %v: %s", err, excerpt(stderr.String())),
		}
	}

	return decodeOutput(p.PlannerName, stdout.Bytes())
}

func (p *CommandPlanner) buildArgs(schemaPath, operationPath string) []string {
	argv := make([]string, 0, len(p.Command)+len(p.ExtraArgs)+4)
	substituted := false
	for _, arg := range p.Command {
		replaced := strings.ReplaceAll(arg, SchemaPlaceholder, schemaPath)
		replaced = strings.ReplaceAll(replaced, OperationPlaceholder, operationPath)
		if replaced != arg {
			substituted = true
		}
		argv = append(argv, replaced)
	}
	argv = append(argv, p.ExtraArgs...)
	if !substituted {
		argv = append(argv, "--schema", schemaPath, "--operation", operationPath)
	}
	return argv
}

// plannerOutput is the failure envelope planners print on stdout when
// planning fails cleanly.
type plannerOutput struct {
	Errors []struct {
		Message string `json:"message"`
		Kind    string `json:"kind"`
	} `json:"errors"`
}

// decodeOutput classifies planner output: a clean error envelope maps
// to a structured planner error, anything else must decode as a plan
// document.
func decodeOutput(name string, data []byte) (*plan.Document, error) {
	var failure plannerOutput
	if err := json.Unmarshal(data, &failure); err == nil && len(failure.Errors) > 0 {
		kind := InvalidOperation
		messages := make([]string, 0, len(failure.Errors))
		for _, e := range failure.Errors {
			if ErrorKind(e.Kind) == SchemaCompositionError {
				kind = SchemaCompositionError
			}
			messages = append(messages, e.Message)
		}
		return nil, &Error{Planner: name, Kind: kind, Message: strings.Join(messages, "; ")}
	}

	doc, err := plan.Decode(data)
	if err != nil {
		return nil, &Error{
			Planner: name,
			Kind:    InternalPlannerFailure,
			Message: fmt.Sprintf("undecodable planner output: %v", err),
		}
	}
	return doc, nil
}

func excerpt(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 400 {
		s = s[:400] + "..."
	}
	if s == "" {
		s = "<no stderr>"
	}
	return s
}
