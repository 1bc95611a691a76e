package plan

import "fmt"

// Anomaly is a data-model invariant violation found inside an
// otherwise parseable plan. Anomalies are diagnostics, not errors: a
// malformed plan still compares, and the anomaly is surfaced alongside
// the comparison report.
type Anomaly struct {
	// Path is the display path of the offending node.
	Path string

	// Reason describes the violated invariant.
	Reason string
}

func (a Anomaly) String() string {
	return fmt.Sprintf("%s: %s", a.Path, a.Reason)
}

// Validate walks the tree and collects invariant anomalies: empty
// Sequence/Parallel groups, nil children inside a group, and fetches
// with no service name. A nil root is valid (an empty plan document).
func Validate(root Node) []Anomaly {
	var anomalies []Anomaly
	validateNode(root, "plan", &anomalies)
	return anomalies
}

func validateNode(node Node, path string, anomalies *[]Anomaly) {
	if node == nil {
		return
	}

	switch n := node.(type) {
	case *SequenceNode:
		validateGroup(n.Nodes, path+" > Sequence", anomalies)
	case *ParallelNode:
		validateGroup(n.Nodes, path+" > Parallel", anomalies)
	case *FetchNode:
		if n.ServiceName == "" {
			*anomalies = append(*anomalies, Anomaly{Path: path + " > Fetch", Reason: "fetch has no service name"})
		}
	case *FlattenNode:
		if n.Node == nil {
			*anomalies = append(*anomalies, Anomaly{Path: path + " > Flatten", Reason: "flatten has no child node"})
			return
		}
		validateNode(n.Node, path+" > Flatten", anomalies)
	case *ConditionNode:
		if n.Condition == "" {
			*anomalies = append(*anomalies, Anomaly{Path: path + " > Condition", Reason: "condition has no condition variable"})
		}
		validateNode(n.IfClause, path+" > Condition(if)", anomalies)
		validateNode(n.ElseClause, path+" > Condition(else)", anomalies)
	case *SubscriptionNode:
		if n.Primary == nil {
			*anomalies = append(*anomalies, Anomaly{Path: path + " > Subscription", Reason: "subscription has no primary fetch"})
		} else if n.Primary.ServiceName == "" {
			*anomalies = append(*anomalies, Anomaly{Path: path + " > Subscription", Reason: "subscription primary has no service name"})
		}
		validateNode(n.Rest, path+" > Subscription(rest)", anomalies)
	case *DeferNode:
		validateNode(n.Primary.Node, path+" > Defer(primary)", anomalies)
		for i, block := range n.Deferred {
			validateNode(block.Node, fmt.Sprintf("%s > Defer(deferred %d)", path, i), anomalies)
		}
	}
}

func validateGroup(nodes []Node, path string, anomalies *[]Anomaly) {
	if len(nodes) == 0 {
		*anomalies = append(*anomalies, Anomaly{Path: path, Reason: "group has no children"})
		return
	}
	for i, child := range nodes {
		if child == nil {
			*anomalies = append(*anomalies, Anomaly{Path: fmt.Sprintf("%s[%d]", path, i), Reason: "group has a missing child"})
			continue
		}
		validateNode(child, fmt.Sprintf("%s[%d]", path, i), anomalies)
	}
}
