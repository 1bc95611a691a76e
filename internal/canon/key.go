package canon

import (
	"strings"
	"unicode/utf8"

	"github.com/danieljhkim/qpdiff/internal/plan"
)

// Fingerprint derives the canonical sort key of a plan node: a total,
// deterministic, collision-resistant textual rendering. Two
// structurally equal canonical nodes always share a fingerprint, so
// sorting Parallel branches by fingerprint yields the same sequence
// regardless of planner scheduling order.
func Fingerprint(node plan.Node) string {
	var b strings.Builder
	writeFingerprint(&b, node)
	return b.String()
}

// BranchKey is the discriminating key used when addressing a Parallel
// branch in reports: the subgraph service for fetch-rooted branches,
// otherwise a truncated fingerprint. Branch indexes are artifacts of
// canonical sorting and are never exposed.
func BranchKey(node plan.Node) string {
	switch n := node.(type) {
	case *plan.FetchNode:
		return "service=" + n.ServiceName
	case *plan.FlattenNode:
		if fetch, ok := n.Node.(*plan.FetchNode); ok {
			return "service=" + fetch.ServiceName
		}
	}
	key := Fingerprint(node)
	if len(key) > 48 {
		// Back the cut off to a rune boundary so multibyte operation
		// text never truncates mid-rune.
		cut := 45
		for cut > 0 && !utf8.RuneStart(key[cut]) {
			cut--
		}
		key = key[:cut] + "..."
	}
	return "key=" + key
}

func writeFingerprint(b *strings.Builder, node plan.Node) {
	switch n := node.(type) {
	case nil:
		b.WriteString("-")

	case *plan.SequenceNode:
		b.WriteString("sequence(")
		writeChildFingerprints(b, n.Nodes)
		b.WriteString(")")

	case *plan.ParallelNode:
		b.WriteString("parallel(")
		writeChildFingerprints(b, n.Nodes)
		b.WriteString(")")

	case *plan.FetchNode:
		writeFetchFingerprint(b, n)

	case *plan.FlattenNode:
		b.WriteString("flatten(path=")
		b.WriteString(n.Path.String())
		b.WriteString(",")
		writeFingerprint(b, n.Node)
		b.WriteString(")")

	case *plan.ConditionNode:
		b.WriteString("condition(if=")
		b.WriteString(n.Condition)
		b.WriteString(",then=")
		writeFingerprint(b, n.IfClause)
		b.WriteString(",else=")
		writeFingerprint(b, n.ElseClause)
		b.WriteString(")")

	case *plan.SubscriptionNode:
		b.WriteString("subscription(primary=")
		if n.Primary != nil {
			writeFetchFingerprint(b, n.Primary)
		} else {
			b.WriteString("-")
		}
		b.WriteString(",rest=")
		writeFingerprint(b, n.Rest)
		b.WriteString(")")

	case *plan.DeferNode:
		b.WriteString("defer(primary={")
		b.WriteString(n.Primary.Subselection)
		b.WriteString(",")
		writeFingerprint(b, n.Primary.Node)
		b.WriteString("}")
		for _, block := range n.Deferred {
			b.WriteString(",deferred={depends=")
			b.WriteString(strings.Join(block.Depends, "|"))
			b.WriteString(",label=")
			b.WriteString(block.Label)
			b.WriteString(",path=")
			b.WriteString(block.QueryPath.String())
			b.WriteString(",")
			b.WriteString(block.Subselection)
			b.WriteString(",")
			writeFingerprint(b, block.Node)
			b.WriteString("}")
		}
		b.WriteString(")")

	default:
		b.WriteString("unknown")
	}
}

func writeChildFingerprints(b *strings.Builder, nodes []plan.Node) {
	for i, n := range nodes {
		if i > 0 {
			b.WriteString(",")
		}
		writeFingerprint(b, n)
	}
}

func writeFetchFingerprint(b *strings.Builder, n *plan.FetchNode) {
	b.WriteString("fetch(service=")
	b.WriteString(n.ServiceName)
	b.WriteString(",kind=")
	b.WriteString(string(n.OperationKind))
	if n.OperationName != "" {
		b.WriteString(",name=")
		b.WriteString(n.OperationName)
	}
	if len(n.Requires) > 0 {
		b.WriteString(",requires={")
		b.WriteString(plan.FormatSelections(n.Requires))
		b.WriteString("}")
	}
	if len(n.VariableUsages) > 0 {
		b.WriteString(",vars=")
		b.WriteString(strings.Join(n.VariableUsages, "|"))
	}
	writeRewriteFingerprint(b, "inputRewrites", n.InputRewrites)
	writeRewriteFingerprint(b, "outputRewrites", n.OutputRewrites)
	writeRewriteFingerprint(b, "contextRewrites", n.ContextRewrites)
	b.WriteString(",op=")
	b.WriteString(n.Operation)
	b.WriteString(")")
}

func writeRewriteFingerprint(b *strings.Builder, label string, rewrites []plan.DataRewrite) {
	if len(rewrites) == 0 {
		return
	}
	b.WriteString(",")
	b.WriteString(label)
	b.WriteString("={")
	for i, r := range rewrites {
		if i > 0 {
			b.WriteString(";")
		}
		b.WriteString(plan.FormatRewrite(r))
	}
	b.WriteString("}")
}
