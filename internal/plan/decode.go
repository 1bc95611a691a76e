package plan

import (
	"encoding/json"
	"fmt"
)

// Document is a decoded plan document: the root node (nil for an empty
// plan) plus the planner's own pretty-printed form when it was present
// in the input.
type Document struct {
	Node Node

	// FormattedQueryPlan is the legacy planner's display rendering,
	// carried through for --dump-plans. Empty when absent.
	FormattedQueryPlan string
}

// Decode parses a plan document. Three shapes are accepted: the legacy
// planner envelope {"formattedQueryPlan", "queryPlan": {"node": ...}},
// a bare {"node": ...} wrapper, and a bare plan node.
func Decode(data []byte) (*Document, error) {
	var envelope struct {
		FormattedQueryPlan string `json:"formattedQueryPlan"`
		QueryPlan          *struct {
			Node json.RawMessage `json:"node"`
		} `json:"queryPlan"`
		Node json.RawMessage `json:"node"`
		Kind string          `json:"kind"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("failed to parse plan document: %w", err)
	}

	var raw json.RawMessage
	switch {
	case envelope.QueryPlan != nil:
		raw = envelope.QueryPlan.Node
	case envelope.Node != nil:
		raw = envelope.Node
	case envelope.Kind != "":
		raw = json.RawMessage(data)
	default:
		// A plan with no root node (empty operation). Only documents
		// shaped like a plan envelope qualify; an arbitrary JSON object
		// is an input error, not an empty plan.
		var keys map[string]json.RawMessage
		if err := json.Unmarshal(data, &keys); err == nil && len(keys) > 0 {
			_, hasQueryPlan := keys["queryPlan"]
			_, hasNode := keys["node"]
			_, hasFormatted := keys["formattedQueryPlan"]
			if !hasQueryPlan && !hasNode && !hasFormatted {
				return nil, fmt.Errorf("document is not a query plan")
			}
		}
		return &Document{FormattedQueryPlan: envelope.FormattedQueryPlan}, nil
	}

	node, err := decodeNode(raw)
	if err != nil {
		return nil, err
	}
	return &Document{Node: node, FormattedQueryPlan: envelope.FormattedQueryPlan}, nil
}

// DecodeNode parses a single plan node.
func DecodeNode(data []byte) (Node, error) {
	return decodeNode(json.RawMessage(data))
}

func decodeNode(raw json.RawMessage) (Node, error) {
	if isJSONNull(raw) {
		return nil, nil
	}

	var probe struct {
		Kind string `json:"kind"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, fmt.Errorf("failed to parse plan node: %w", err)
	}

	switch Kind(probe.Kind) {
	case KindSequence, KindParallel:
		var v struct {
			Nodes []json.RawMessage `json:"nodes"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("failed to parse %s node: %w", probe.Kind, err)
		}
		nodes, err := decodeNodes(v.Nodes)
		if err != nil {
			return nil, err
		}
		if Kind(probe.Kind) == KindSequence {
			return &SequenceNode{Nodes: nodes}, nil
		}
		return &ParallelNode{Nodes: nodes}, nil

	case KindFetch:
		return decodeFetch(raw)

	case KindFlatten:
		var v struct {
			Path []json.RawMessage `json:"path"`
			Node json.RawMessage   `json:"node"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("failed to parse Flatten node: %w", err)
		}
		path, err := decodePath(v.Path)
		if err != nil {
			return nil, err
		}
		child, err := decodeNode(v.Node)
		if err != nil {
			return nil, err
		}
		return &FlattenNode{Path: path, Node: child}, nil

	case KindCondition:
		var v struct {
			Condition  string          `json:"condition"`
			IfClause   json.RawMessage `json:"ifClause"`
			ElseClause json.RawMessage `json:"elseClause"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("failed to parse Condition node: %w", err)
		}
		ifClause, err := decodeNode(v.IfClause)
		if err != nil {
			return nil, err
		}
		elseClause, err := decodeNode(v.ElseClause)
		if err != nil {
			return nil, err
		}
		return &ConditionNode{Condition: v.Condition, IfClause: ifClause, ElseClause: elseClause}, nil

	case KindSubscription:
		var v struct {
			Primary json.RawMessage `json:"primary"`
			Rest    json.RawMessage `json:"rest"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("failed to parse Subscription node: %w", err)
		}
		var primary *FetchNode
		if !isJSONNull(v.Primary) {
			var err error
			primary, err = decodeFetch(v.Primary)
			if err != nil {
				return nil, err
			}
		}
		rest, err := decodeNode(v.Rest)
		if err != nil {
			return nil, err
		}
		return &SubscriptionNode{Primary: primary, Rest: rest}, nil

	case KindDefer:
		return decodeDefer(raw)

	default:
		return nil, fmt.Errorf("unknown plan node kind %q", probe.Kind)
	}
}

func decodeNodes(raws []json.RawMessage) ([]Node, error) {
	nodes := make([]Node, 0, len(raws))
	for _, raw := range raws {
		node, err := decodeNode(raw)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

func decodeFetch(raw json.RawMessage) (*FetchNode, error) {
	var v struct {
		ServiceName     string            `json:"serviceName"`
		Requires        []json.RawMessage `json:"requires"`
		VariableUsages  []string          `json:"variableUsages"`
		Operation       string            `json:"operation"`
		OperationName   string            `json:"operationName"`
		OperationKind   string            `json:"operationKind"`
		ID              string            `json:"id"`
		InputRewrites   []json.RawMessage `json:"inputRewrites"`
		OutputRewrites  []json.RawMessage `json:"outputRewrites"`
		ContextRewrites []json.RawMessage `json:"contextRewrites"`
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("failed to parse Fetch node: %w", err)
	}

	requires, err := decodeSelections(v.Requires)
	if err != nil {
		return nil, err
	}

	inputRewrites, err := decodeRewrites(v.InputRewrites)
	if err != nil {
		return nil, err
	}
	outputRewrites, err := decodeRewrites(v.OutputRewrites)
	if err != nil {
		return nil, err
	}
	contextRewrites, err := decodeRewrites(v.ContextRewrites)
	if err != nil {
		return nil, err
	}

	kind := OperationKind(v.OperationKind)
	if v.OperationKind == "" {
		kind = OperationQuery
	}

	return &FetchNode{
		ServiceName:     v.ServiceName,
		Requires:        requires,
		VariableUsages:  v.VariableUsages,
		Operation:       v.Operation,
		OperationName:   v.OperationName,
		OperationKind:   kind,
		ID:              v.ID,
		InputRewrites:   inputRewrites,
		OutputRewrites:  outputRewrites,
		ContextRewrites: contextRewrites,
	}, nil
}

func decodeRewrites(raws []json.RawMessage) ([]DataRewrite, error) {
	if raws == nil {
		return nil, nil
	}
	rewrites := make([]DataRewrite, 0, len(raws))
	for _, raw := range raws {
		rewrite, err := decodeRewrite(raw)
		if err != nil {
			return nil, err
		}
		rewrites = append(rewrites, rewrite)
	}
	return rewrites, nil
}

func decodeRewrite(raw json.RawMessage) (DataRewrite, error) {
	var probe struct {
		Kind string `json:"kind"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, fmt.Errorf("failed to parse data rewrite: %w", err)
	}

	switch probe.Kind {
	case "ValueSetter":
		var v struct {
			Path       []json.RawMessage `json:"path"`
			SetValueTo any               `json:"setValueTo"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("failed to parse ValueSetter rewrite: %w", err)
		}
		path, err := decodePath(v.Path)
		if err != nil {
			return nil, err
		}
		// Round-tripping through encoding/json canonicalizes the value
		// text (sorted object keys, compact form).
		value, err := json.Marshal(v.SetValueTo)
		if err != nil {
			return nil, fmt.Errorf("failed to render ValueSetter value: %w", err)
		}
		return &ValueSetterRewrite{Path: path, Value: string(value)}, nil

	case "KeyRenamer":
		var v struct {
			Path        []json.RawMessage `json:"path"`
			RenameKeyTo string            `json:"renameKeyTo"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("failed to parse KeyRenamer rewrite: %w", err)
		}
		path, err := decodePath(v.Path)
		if err != nil {
			return nil, err
		}
		return &KeyRenamerRewrite{Path: path, RenameKeyTo: v.RenameKeyTo}, nil

	default:
		return nil, fmt.Errorf("unknown data rewrite kind %q", probe.Kind)
	}
}

func decodeDefer(raw json.RawMessage) (*DeferNode, error) {
	var v struct {
		Primary struct {
			Subselection string          `json:"subselection"`
			Node         json.RawMessage `json:"node"`
		} `json:"primary"`
		Deferred []struct {
			Depends []struct {
				ID string `json:"id"`
			} `json:"depends"`
			Label        string            `json:"label"`
			QueryPath    []json.RawMessage `json:"queryPath"`
			Subselection string            `json:"subselection"`
			Node         json.RawMessage   `json:"node"`
		} `json:"deferred"`
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("failed to parse Defer node: %w", err)
	}

	primaryNode, err := decodeNode(v.Primary.Node)
	if err != nil {
		return nil, err
	}

	deferred := make([]DeferredBlock, 0, len(v.Deferred))
	for _, d := range v.Deferred {
		queryPath, err := decodePath(d.QueryPath)
		if err != nil {
			return nil, err
		}
		node, err := decodeNode(d.Node)
		if err != nil {
			return nil, err
		}
		depends := make([]string, 0, len(d.Depends))
		for _, dep := range d.Depends {
			depends = append(depends, dep.ID)
		}
		deferred = append(deferred, DeferredBlock{
			Depends:      depends,
			Label:        d.Label,
			QueryPath:    queryPath,
			Subselection: d.Subselection,
			Node:         node,
		})
	}

	return &DeferNode{
		Primary:  DeferPrimary{Subselection: v.Primary.Subselection, Node: primaryNode},
		Deferred: deferred,
	}, nil
}

func decodeSelections(raws []json.RawMessage) ([]Selection, error) {
	if raws == nil {
		return nil, nil
	}
	selections := make([]Selection, 0, len(raws))
	for _, raw := range raws {
		sel, err := decodeSelection(raw)
		if err != nil {
			return nil, err
		}
		selections = append(selections, sel)
	}
	return selections, nil
}

func decodeSelection(raw json.RawMessage) (Selection, error) {
	var probe struct {
		Kind string `json:"kind"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, fmt.Errorf("failed to parse selection: %w", err)
	}

	switch probe.Kind {
	case "Field":
		var v struct {
			Alias      string            `json:"alias"`
			Name       string            `json:"name"`
			Selections []json.RawMessage `json:"selections"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("failed to parse Field selection: %w", err)
		}
		children, err := decodeSelections(v.Selections)
		if err != nil {
			return nil, err
		}
		return &FieldSelection{Alias: v.Alias, Name: v.Name, Selections: children}, nil

	case "InlineFragment":
		var v struct {
			TypeCondition string            `json:"typeCondition"`
			Selections    []json.RawMessage `json:"selections"`
		}
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("failed to parse InlineFragment selection: %w", err)
		}
		children, err := decodeSelections(v.Selections)
		if err != nil {
			return nil, err
		}
		return &InlineFragmentSelection{TypeCondition: v.TypeCondition, Selections: children}, nil

	default:
		return nil, fmt.Errorf("unknown selection kind %q", probe.Kind)
	}
}

func decodePath(raws []json.RawMessage) (Path, error) {
	if raws == nil {
		return nil, nil
	}
	path := make(Path, 0, len(raws))
	for _, raw := range raws {
		var index int
		if err := json.Unmarshal(raw, &index); err == nil {
			path = append(path, PathElement{Kind: ElementIndex, Index: index})
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("failed to parse path element %s: %w", string(raw), err)
		}
		path = append(path, ParsePathElement(s))
	}
	return path, nil
}

func isJSONNull(raw json.RawMessage) bool {
	if len(raw) == 0 {
		return true
	}
	for _, c := range raw {
		switch c {
		case ' ', '\t', '\n', '\r':
			continue
		default:
			return c == 'n'
		}
	}
	return true
}
