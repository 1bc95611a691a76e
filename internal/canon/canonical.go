package canon

import (
	"sort"
	"strings"

	"github.com/danieljhkim/qpdiff/internal/plan"
)

// Canonicalize derives the canonical form of a plan tree. The result
// is an independent deep copy: the input is never aliased or mutated,
// so planner output can be dropped while a comparison is in progress.
//
// Canonicalization is idempotent and never fails; malformed nodes pass
// through structurally unchanged.
func Canonicalize(root plan.Node) plan.Node {
	return canonicalizeNode(root)
}

func canonicalizeNode(node plan.Node) plan.Node {
	switch n := node.(type) {
	case nil:
		return nil

	case *plan.SequenceNode:
		// Step order encodes data dependencies and is preserved.
		return &plan.SequenceNode{Nodes: canonicalizeNodes(n.Nodes, false)}

	case *plan.ParallelNode:
		// Branch order is a scheduling artifact and is neutralized.
		return &plan.ParallelNode{Nodes: canonicalizeNodes(n.Nodes, true)}

	case *plan.FetchNode:
		return canonicalizeFetch(n)

	case *plan.FlattenNode:
		return &plan.FlattenNode{
			Path: append(plan.Path(nil), n.Path...),
			Node: canonicalizeNode(n.Node),
		}

	case *plan.ConditionNode:
		return &plan.ConditionNode{
			Condition:  strings.TrimSpace(n.Condition),
			IfClause:   canonicalizeNode(n.IfClause),
			ElseClause: canonicalizeNode(n.ElseClause),
		}

	case *plan.SubscriptionNode:
		sub := &plan.SubscriptionNode{Rest: canonicalizeNode(n.Rest)}
		if n.Primary != nil {
			sub.Primary = canonicalizeFetch(n.Primary)
		}
		return sub

	case *plan.DeferNode:
		out := &plan.DeferNode{
			Primary: plan.DeferPrimary{
				Subselection: NormalizeOperation(n.Primary.Subselection),
				Node:         canonicalizeNode(n.Primary.Node),
			},
		}
		// Deferred block order follows response chunk order and is
		// preserved.
		for _, block := range n.Deferred {
			out.Deferred = append(out.Deferred, plan.DeferredBlock{
				Depends:      sortedSet(block.Depends),
				Label:        block.Label,
				QueryPath:    append(plan.Path(nil), block.QueryPath...),
				Subselection: NormalizeOperation(block.Subselection),
				Node:         canonicalizeNode(block.Node),
			})
		}
		return out

	default:
		return node
	}
}

func canonicalizeNodes(nodes []plan.Node, sorted bool) []plan.Node {
	out := make([]plan.Node, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, canonicalizeNode(n))
	}
	if sorted {
		sort.SliceStable(out, func(i, j int) bool {
			return Fingerprint(out[i]) < Fingerprint(out[j])
		})
	}
	return out
}

func canonicalizeFetch(n *plan.FetchNode) *plan.FetchNode {
	return &plan.FetchNode{
		ServiceName:     n.ServiceName,
		Requires:        canonicalizeSelections(n.Requires),
		VariableUsages:  sortedSet(n.VariableUsages),
		Operation:       NormalizeOperation(n.Operation),
		OperationName:   n.OperationName,
		OperationKind:   n.OperationKind,
		ID:              n.ID,
		InputRewrites:   canonicalizeRewrites(n.InputRewrites),
		OutputRewrites:  canonicalizeRewrites(n.OutputRewrites),
		ContextRewrites: canonicalizeRewrites(n.ContextRewrites),
	}
}

// canonicalizeRewrites deep-copies a rewrite list. Rewrites apply in
// sequence, so order is preserved.
func canonicalizeRewrites(rewrites []plan.DataRewrite) []plan.DataRewrite {
	if rewrites == nil {
		return nil
	}
	out := make([]plan.DataRewrite, 0, len(rewrites))
	for _, r := range rewrites {
		switch rw := r.(type) {
		case *plan.ValueSetterRewrite:
			out = append(out, &plan.ValueSetterRewrite{
				Path:  append(plan.Path(nil), rw.Path...),
				Value: rw.Value,
			})
		case *plan.KeyRenamerRewrite:
			out = append(out, &plan.KeyRenamerRewrite{
				Path:        append(plan.Path(nil), rw.Path...),
				RenameKeyTo: rw.RenameKeyTo,
			})
		default:
			out = append(out, r)
		}
	}
	return out
}

// canonicalizeSelections deep-copies a requires selection list, sorts
// it by canonical text, and collapses duplicates (set semantics).
func canonicalizeSelections(selections []plan.Selection) []plan.Selection {
	if selections == nil {
		return nil
	}
	out := make([]plan.Selection, 0, len(selections))
	for _, sel := range selections {
		out = append(out, canonicalizeSelection(sel))
	}
	sort.SliceStable(out, func(i, j int) bool {
		return plan.FormatSelection(out[i]) < plan.FormatSelection(out[j])
	})
	deduped := out[:0]
	var prev string
	for i, sel := range out {
		text := plan.FormatSelection(sel)
		if i == 0 || text != prev {
			deduped = append(deduped, sel)
		}
		prev = text
	}
	return deduped
}

func canonicalizeSelection(sel plan.Selection) plan.Selection {
	switch s := sel.(type) {
	case *plan.FieldSelection:
		return &plan.FieldSelection{
			Alias:      s.Alias,
			Name:       s.Name,
			Selections: canonicalizeSelections(s.Selections),
		}
	case *plan.InlineFragmentSelection:
		return &plan.InlineFragmentSelection{
			TypeCondition: s.TypeCondition,
			Selections:    canonicalizeSelections(s.Selections),
		}
	default:
		return sel
	}
}

// sortedSet returns a sorted, deduplicated copy.
func sortedSet(values []string) []string {
	if values == nil {
		return nil
	}
	out := append([]string(nil), values...)
	sort.Strings(out)
	deduped := out[:0]
	for i, v := range out {
		if i == 0 || v != out[i-1] {
			deduped = append(deduped, v)
		}
	}
	return deduped
}
