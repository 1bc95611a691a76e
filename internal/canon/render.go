package canon

import (
	"fmt"
	"strings"

	"github.com/danieljhkim/qpdiff/internal/plan"
)

// Render produces a human-readable indented rendering of a plan tree,
// in the style of the planners' formatted query plan output. Used by
// the show command and --dump-plans.
func Render(root plan.Node) string {
	if root == nil {
		return "QueryPlan {}"
	}
	var b strings.Builder
	b.WriteString("QueryPlan {\n")
	renderNode(&b, root, 1)
	b.WriteString("}")
	return b.String()
}

func renderNode(b *strings.Builder, node plan.Node, depth int) {
	pad := strings.Repeat("  ", depth)

	switch n := node.(type) {
	case nil:
		fmt.Fprintf(b, "%s<absent>,\n", pad)

	case *plan.SequenceNode:
		fmt.Fprintf(b, "%sSequence {\n", pad)
		for _, child := range n.Nodes {
			renderNode(b, child, depth+1)
		}
		fmt.Fprintf(b, "%s},\n", pad)

	case *plan.ParallelNode:
		fmt.Fprintf(b, "%sParallel {\n", pad)
		for _, child := range n.Nodes {
			renderNode(b, child, depth+1)
		}
		fmt.Fprintf(b, "%s},\n", pad)

	case *plan.FetchNode:
		renderFetch(b, n, depth, "Fetch")

	case *plan.FlattenNode:
		fmt.Fprintf(b, "%sFlatten(path: %q) {\n", pad, n.Path.String())
		renderNode(b, n.Node, depth+1)
		fmt.Fprintf(b, "%s},\n", pad)

	case *plan.ConditionNode:
		fmt.Fprintf(b, "%sCondition(if: $%s) {\n", pad, n.Condition)
		if n.IfClause != nil {
			fmt.Fprintf(b, "%s  Then {\n", pad)
			renderNode(b, n.IfClause, depth+2)
			fmt.Fprintf(b, "%s  },\n", pad)
		}
		if n.ElseClause != nil {
			fmt.Fprintf(b, "%s  Else {\n", pad)
			renderNode(b, n.ElseClause, depth+2)
			fmt.Fprintf(b, "%s  },\n", pad)
		}
		fmt.Fprintf(b, "%s},\n", pad)

	case *plan.SubscriptionNode:
		fmt.Fprintf(b, "%sSubscription {\n", pad)
		if n.Primary != nil {
			renderFetch(b, n.Primary, depth+1, "Primary")
		}
		if n.Rest != nil {
			fmt.Fprintf(b, "%s  Rest {\n", pad)
			renderNode(b, n.Rest, depth+2)
			fmt.Fprintf(b, "%s  },\n", pad)
		}
		fmt.Fprintf(b, "%s},\n", pad)

	case *plan.DeferNode:
		fmt.Fprintf(b, "%sDefer {\n", pad)
		fmt.Fprintf(b, "%s  Primary {\n", pad)
		if n.Primary.Subselection != "" {
			fmt.Fprintf(b, "%s    %s\n", pad, n.Primary.Subselection)
		}
		if n.Primary.Node != nil {
			renderNode(b, n.Primary.Node, depth+2)
		}
		fmt.Fprintf(b, "%s  },\n", pad)
		for _, block := range n.Deferred {
			label := ""
			if block.Label != "" {
				label = fmt.Sprintf("label: %q, ", block.Label)
			}
			fmt.Fprintf(b, "%s  Deferred(%spath: %q, depends: [%s]) {\n",
				pad, label, block.QueryPath.String(), strings.Join(block.Depends, ", "))
			if block.Subselection != "" {
				fmt.Fprintf(b, "%s    %s\n", pad, block.Subselection)
			}
			if block.Node != nil {
				renderNode(b, block.Node, depth+2)
			}
			fmt.Fprintf(b, "%s  },\n", pad)
		}
		fmt.Fprintf(b, "%s},\n", pad)
	}
}

func renderFetch(b *strings.Builder, n *plan.FetchNode, depth int, label string) {
	pad := strings.Repeat("  ", depth)
	name := ""
	if n.OperationName != "" {
		name = fmt.Sprintf(", operation: %q", n.OperationName)
	}
	fmt.Fprintf(b, "%s%s(service: %q%s) {\n", pad, label, n.ServiceName, name)
	if len(n.Requires) > 0 {
		fmt.Fprintf(b, "%s  requires { %s }\n", pad, plan.FormatSelections(n.Requires))
	}
	if len(n.VariableUsages) > 0 {
		fmt.Fprintf(b, "%s  variables [%s]\n", pad, strings.Join(n.VariableUsages, ", "))
	}
	for _, line := range strings.Split(PrettyOperation(n.Operation), "\n") {
		fmt.Fprintf(b, "%s  %s\n", pad, line)
	}
	fmt.Fprintf(b, "%s},\n", pad)
}
