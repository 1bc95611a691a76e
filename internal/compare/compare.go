package compare

import (
	"fmt"
	"strings"

	"github.com/danieljhkim/qpdiff/internal/canon"
	"github.com/danieljhkim/qpdiff/internal/plan"
)

// Mode selects how much of the tree is compared after the first
// divergence.
type Mode int

const (
	// ModeExhaustive collects every mismatch trail in the tree. This
	// is the default for diagnostic reporting.
	ModeExhaustive Mode = iota

	// ModeFailFast stops at the first mismatch; useful for gating.
	ModeFailFast
)

// Result is the outcome of comparing two plans.
type Result struct {
	Mismatches []Mismatch
}

// Equivalent reports whether the comparison found no divergence.
func (r *Result) Equivalent() bool {
	return len(r.Mismatches) == 0
}

// Plans compares two canonical plan trees in lock-step. Inputs must
// already be canonicalized; a nil root is an empty plan document.
func Plans(left, right plan.Node, mode Mode) *Result {
	w := &walker{mode: mode}
	w.compareOptional(nil, "plan", left, right)
	return &Result{Mismatches: w.mismatches}
}

type walker struct {
	mode       Mode
	mismatches []Mismatch
	done       bool
}

func (w *walker) record(path []string, kind MismatchKind, left, right string) {
	if w.done {
		return
	}
	w.mismatches = append(w.mismatches, Mismatch{Path: path, Kind: kind, Left: left, Right: right})
	if w.mode == ModeFailFast {
		w.done = true
	}
}

// step derives a child path. The copy keeps sibling paths independent
// of each other.
func step(path []string, element string) []string {
	out := make([]string, 0, len(path)+1)
	out = append(out, path...)
	return append(out, element)
}

// compareOptional aligns possibly-absent nodes: absent-vs-present is
// always a BranchPresenceMismatch, never equated with an empty plan.
func (w *walker) compareOptional(path []string, label string, left, right plan.Node) {
	if w.done {
		return
	}
	switch {
	case left == nil && right == nil:
		return
	case left == nil:
		w.record(step(path, label), BranchPresenceMismatch, "absent", describeNode(right))
	case right == nil:
		w.record(step(path, label), BranchPresenceMismatch, describeNode(left), "absent")
	default:
		w.compareNode(step(path, label), left, right)
	}
}

func (w *walker) compareNode(path []string, left, right plan.Node) {
	if w.done {
		return
	}

	if left.Kind() != right.Kind() {
		// Terminal for this subtree: nothing below different kinds
		// aligns meaningfully.
		w.record(path, KindMismatch, string(left.Kind()), string(right.Kind()))
		return
	}

	switch l := left.(type) {
	case *plan.SequenceNode:
		w.compareGroup(path, "Sequence", l.Nodes, right.(*plan.SequenceNode).Nodes, false)
	case *plan.ParallelNode:
		w.compareGroup(path, "Parallel", l.Nodes, right.(*plan.ParallelNode).Nodes, true)
	case *plan.FetchNode:
		w.compareFetch(path, l, right.(*plan.FetchNode))
	case *plan.FlattenNode:
		w.compareFlatten(path, l, right.(*plan.FlattenNode))
	case *plan.ConditionNode:
		w.compareCondition(path, l, right.(*plan.ConditionNode))
	case *plan.SubscriptionNode:
		w.compareSubscription(path, l, right.(*plan.SubscriptionNode))
	case *plan.DeferNode:
		w.compareDefer(path, l, right.(*plan.DeferNode))
	}
}

func (w *walker) compareGroup(path []string, label string, left, right []plan.Node, parallel bool) {
	if len(left) == 0 || len(right) == 0 {
		// An empty group violates the data model; it is reported as
		// its own anomaly and never folded into an equivalence class
		// with an absent node.
		w.record(path, MalformedPlan,
			fmt.Sprintf("%s with %d children", label, len(left)),
			fmt.Sprintf("%s with %d children", label, len(right)))
		return
	}

	if len(left) != len(right) {
		// Length differences are reported verbatim; no best-effort
		// alignment is attempted.
		w.record(path, LengthMismatch,
			fmt.Sprintf("%d steps", len(left)),
			fmt.Sprintf("%d steps", len(right)))
		return
	}

	for i := range left {
		element := fmt.Sprintf("%s[%d]", label, i)
		if parallel {
			// Index is an artifact of canonical sorting; address the
			// branch by its discriminating key instead.
			element = fmt.Sprintf("%s[%s]", label, canon.BranchKey(left[i]))
		}
		w.compareOptional(path, element, left[i], right[i])
		if w.done {
			return
		}
	}
}

func (w *walker) compareFetch(path []string, left, right *plan.FetchNode) {
	if left.ServiceName != right.ServiceName {
		// Talking to the wrong subgraph makes the remaining fetch
		// fields incomparable; report only the service divergence.
		w.record(step(path, "Fetch.service"), ServiceMismatch, left.ServiceName, right.ServiceName)
		return
	}
	if left.OperationKind != right.OperationKind {
		w.record(step(path, "Fetch.operationKind"), OperationKindMismatch,
			string(left.OperationKind), string(right.OperationKind))
	}
	if left.OperationName != right.OperationName {
		w.record(step(path, "Fetch.operationName"), OperationNameMismatch,
			left.OperationName, right.OperationName)
	}
	if left.Operation != right.Operation {
		w.record(step(path, "Fetch.operation"), OperationMismatch, left.Operation, right.Operation)
	}
	leftRequires := selectionSet(left.Requires)
	rightRequires := selectionSet(right.Requires)
	if leftRequires != rightRequires {
		w.record(step(path, "Fetch.requires"), RequiresMismatch, leftRequires, rightRequires)
	}
	leftVars := strings.Join(left.VariableUsages, "\n")
	rightVars := strings.Join(right.VariableUsages, "\n")
	if leftVars != rightVars {
		w.record(step(path, "Fetch.variableUsages"), VariablesMismatch, leftVars, rightVars)
	}
	w.compareRewrites(path, "Fetch.inputRewrites", left.InputRewrites, right.InputRewrites)
	w.compareRewrites(path, "Fetch.outputRewrites", left.OutputRewrites, right.OutputRewrites)
	w.compareRewrites(path, "Fetch.contextRewrites", left.ContextRewrites, right.ContextRewrites)
}

// compareRewrites checks a rewrite list in order; rewrites apply
// sequentially, so reordering is a divergence.
func (w *walker) compareRewrites(path []string, label string, left, right []plan.DataRewrite) {
	leftText := plan.FormatRewrites(left)
	rightText := plan.FormatRewrites(right)
	if leftText != rightText {
		w.record(step(path, label), RewriteMismatch, leftText, rightText)
	}
}

func (w *walker) compareFlatten(path []string, left, right *plan.FlattenNode) {
	if !left.Path.Equal(right.Path) {
		w.record(step(path, "Flatten.path"), PathMismatch, left.Path.String(), right.Path.String())
	}
	w.compareOptional(path, fmt.Sprintf("Flatten(%s)", left.Path), left.Node, right.Node)
}

func (w *walker) compareCondition(path []string, left, right *plan.ConditionNode) {
	if left.Condition != right.Condition {
		w.record(step(path, "Condition.if"), ConditionMismatch, left.Condition, right.Condition)
	}
	w.compareOptional(path, "Condition.then", left.IfClause, right.IfClause)
	w.compareOptional(path, "Condition.else", left.ElseClause, right.ElseClause)
}

func (w *walker) compareSubscription(path []string, left, right *plan.SubscriptionNode) {
	switch {
	case left.Primary == nil && right.Primary == nil:
	case left.Primary == nil:
		w.record(step(path, "Subscription.primary"), BranchPresenceMismatch, "absent", "Fetch")
	case right.Primary == nil:
		w.record(step(path, "Subscription.primary"), BranchPresenceMismatch, "Fetch", "absent")
	default:
		w.compareFetch(step(path, "Subscription.primary"), left.Primary, right.Primary)
	}
	w.compareOptional(path, "Subscription.rest", left.Rest, right.Rest)
}

func (w *walker) compareDefer(path []string, left, right *plan.DeferNode) {
	if left.Primary.Subselection != right.Primary.Subselection {
		w.record(step(path, "Defer.primary.subselection"), DeferMismatch,
			left.Primary.Subselection, right.Primary.Subselection)
	}
	w.compareOptional(path, "Defer.primary", left.Primary.Node, right.Primary.Node)

	if len(left.Deferred) != len(right.Deferred) {
		w.record(step(path, "Defer.deferred"), LengthMismatch,
			fmt.Sprintf("%d blocks", len(left.Deferred)),
			fmt.Sprintf("%d blocks", len(right.Deferred)))
		return
	}
	for i := range left.Deferred {
		l, r := left.Deferred[i], right.Deferred[i]
		blockPath := step(path, fmt.Sprintf("Defer.deferred[%d]", i))
		if strings.Join(l.Depends, "\n") != strings.Join(r.Depends, "\n") {
			w.record(step(blockPath, "depends"), DeferMismatch,
				strings.Join(l.Depends, "\n"), strings.Join(r.Depends, "\n"))
		}
		if l.Label != r.Label {
			w.record(step(blockPath, "label"), DeferMismatch, l.Label, r.Label)
		}
		if !l.QueryPath.Equal(r.QueryPath) {
			w.record(step(blockPath, "queryPath"), PathMismatch, l.QueryPath.String(), r.QueryPath.String())
		}
		if l.Subselection != r.Subselection {
			w.record(step(blockPath, "subselection"), DeferMismatch, l.Subselection, r.Subselection)
		}
		w.compareOptional(blockPath, "node", l.Node, r.Node)
		if w.done {
			return
		}
	}
}

// selectionSet renders a requires list one element per line, so set
// mismatches can be reported as a symmetric difference.
func selectionSet(selections []plan.Selection) string {
	lines := make([]string, 0, len(selections))
	for _, sel := range selections {
		lines = append(lines, plan.FormatSelection(sel))
	}
	return strings.Join(lines, "\n")
}

func describeNode(n plan.Node) string {
	if n == nil {
		return "absent"
	}
	return string(n.Kind())
}
