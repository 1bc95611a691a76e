package plan

import (
	"strings"
	"testing"
)

const legacyEnvelope = `{
	"formattedQueryPlan": "QueryPlan {\n  Fetch(service: \"products\") {\n    { topProducts { name } }\n  }\n}",
	"queryPlan": {
		"node": {
			"kind": "Sequence",
			"nodes": [
				{
					"kind": "Fetch",
					"serviceName": "products",
					"variableUsages": ["first"],
					"operation": "query($first: Int) { topProducts(first: $first) { __typename upc name } }",
					"operationKind": "query"
				},
				{
					"kind": "Flatten",
					"path": ["topProducts", "@"],
					"node": {
						"kind": "Fetch",
						"serviceName": "reviews",
						"requires": [
							{
								"kind": "InlineFragment",
								"typeCondition": "Product",
								"selections": [
									{"kind": "Field", "name": "__typename"},
									{"kind": "Field", "name": "upc"}
								]
							}
						],
						"variableUsages": [],
						"operation": "query($representations: [_Any!]!) { _entities(representations: $representations) { ... on Product { reviews { body } } } }",
						"operationKind": "query"
					}
				}
			]
		}
	}
}`

func TestDecode_LegacyEnvelope(t *testing.T) {
	doc, err := Decode([]byte(legacyEnvelope))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	if !strings.HasPrefix(doc.FormattedQueryPlan, "QueryPlan {") {
		t.Errorf("expected formatted query plan to be carried through, got %q", doc.FormattedQueryPlan)
	}

	seq, ok := doc.Node.(*SequenceNode)
	if !ok {
		t.Fatalf("expected Sequence root, got %T", doc.Node)
	}
	if len(seq.Nodes) != 2 {
		t.Fatalf("expected 2 sequence steps, got %d", len(seq.Nodes))
	}

	fetch, ok := seq.Nodes[0].(*FetchNode)
	if !ok {
		t.Fatalf("expected Fetch first step, got %T", seq.Nodes[0])
	}
	if fetch.ServiceName != "products" {
		t.Errorf("expected service 'products', got %q", fetch.ServiceName)
	}
	if fetch.OperationKind != OperationQuery {
		t.Errorf("expected query operation kind, got %q", fetch.OperationKind)
	}
	if len(fetch.VariableUsages) != 1 || fetch.VariableUsages[0] != "first" {
		t.Errorf("expected variable usages [first], got %v", fetch.VariableUsages)
	}

	flatten, ok := seq.Nodes[1].(*FlattenNode)
	if !ok {
		t.Fatalf("expected Flatten second step, got %T", seq.Nodes[1])
	}
	if got := flatten.Path.String(); got != "/topProducts/@" {
		t.Errorf("expected flatten path /topProducts/@, got %q", got)
	}

	inner, ok := flatten.Node.(*FetchNode)
	if !ok {
		t.Fatalf("expected Fetch under Flatten, got %T", flatten.Node)
	}
	if len(inner.Requires) != 1 {
		t.Fatalf("expected 1 requires selection, got %d", len(inner.Requires))
	}
	frag, ok := inner.Requires[0].(*InlineFragmentSelection)
	if !ok {
		t.Fatalf("expected inline fragment requires, got %T", inner.Requires[0])
	}
	if frag.TypeCondition != "Product" || len(frag.Selections) != 2 {
		t.Errorf("unexpected requires fragment: %+v", frag)
	}
}

func TestDecode_BareNode(t *testing.T) {
	doc, err := Decode([]byte(`{"kind": "Parallel", "nodes": [
		{"kind": "Fetch", "serviceName": "accounts", "operation": "{ me { id } }", "operationKind": "query"},
		{"kind": "Fetch", "serviceName": "products", "operation": "{ topProducts { upc } }", "operationKind": "query"}
	]}`))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	parallel, ok := doc.Node.(*ParallelNode)
	if !ok {
		t.Fatalf("expected Parallel root, got %T", doc.Node)
	}
	if len(parallel.Nodes) != 2 {
		t.Errorf("expected 2 branches, got %d", len(parallel.Nodes))
	}
}

func TestDecode_NodeWrapper(t *testing.T) {
	doc, err := Decode([]byte(`{"node": {"kind": "Fetch", "serviceName": "accounts", "operation": "{ me { id } }"}}`))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if _, ok := doc.Node.(*FetchNode); !ok {
		t.Fatalf("expected Fetch root, got %T", doc.Node)
	}
}

func TestDecode_EmptyPlan(t *testing.T) {
	doc, err := Decode([]byte(`{"queryPlan": {"node": null}}`))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if doc.Node != nil {
		t.Errorf("expected nil root for empty plan, got %T", doc.Node)
	}
}

func TestDecode_NotAPlan(t *testing.T) {
	_, err := Decode([]byte(`{"foo": 1}`))
	if err == nil {
		t.Fatal("expected error for a JSON object that is not a plan")
	}
	if !strings.Contains(err.Error(), "not a query plan") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestDecode_NullQueryPlanIsEmpty(t *testing.T) {
	doc, err := Decode([]byte(`{"queryPlan": null}`))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if doc.Node != nil {
		t.Errorf("expected nil root, got %T", doc.Node)
	}
}

func TestDecode_FetchRewrites(t *testing.T) {
	node, err := DecodeNode([]byte(`{
		"kind": "Fetch",
		"serviceName": "reviews",
		"operation": "{ topProducts { upc } }",
		"operationKind": "query",
		"inputRewrites": [
			{"kind": "ValueSetter", "path": ["... on Product", "weight"], "setValueTo": 1}
		],
		"outputRewrites": [
			{"kind": "KeyRenamer", "path": ["topProducts", "@", "internalName"], "renameKeyTo": "name"}
		],
		"contextRewrites": [
			{"kind": "KeyRenamer", "path": ["..", "price"], "renameKeyTo": "contextualArgument_1_0"}
		]
	}`))
	if err != nil {
		t.Fatalf("DecodeNode failed: %v", err)
	}
	fetch, ok := node.(*FetchNode)
	if !ok {
		t.Fatalf("expected Fetch node, got %T", node)
	}

	if len(fetch.InputRewrites) != 1 {
		t.Fatalf("expected 1 input rewrite, got %d", len(fetch.InputRewrites))
	}
	setter, ok := fetch.InputRewrites[0].(*ValueSetterRewrite)
	if !ok {
		t.Fatalf("expected ValueSetter input rewrite, got %T", fetch.InputRewrites[0])
	}
	if got := setter.Path.String(); got != "/... on Product/weight" {
		t.Errorf("unexpected setter path %q", got)
	}
	if setter.Value != "1" {
		t.Errorf("expected value 1, got %q", setter.Value)
	}

	if len(fetch.OutputRewrites) != 1 {
		t.Fatalf("expected 1 output rewrite, got %d", len(fetch.OutputRewrites))
	}
	renamer, ok := fetch.OutputRewrites[0].(*KeyRenamerRewrite)
	if !ok {
		t.Fatalf("expected KeyRenamer output rewrite, got %T", fetch.OutputRewrites[0])
	}
	if renamer.RenameKeyTo != "name" {
		t.Errorf("expected rename to 'name', got %q", renamer.RenameKeyTo)
	}

	if len(fetch.ContextRewrites) != 1 {
		t.Fatalf("expected 1 context rewrite, got %d", len(fetch.ContextRewrites))
	}
}

func TestDecode_UnknownRewriteKind(t *testing.T) {
	_, err := DecodeNode([]byte(`{
		"kind": "Fetch",
		"serviceName": "reviews",
		"operation": "{ me { id } }",
		"inputRewrites": [{"kind": "Teleporter", "path": ["me"]}]
	}`))
	if err == nil {
		t.Fatal("expected error for unknown rewrite kind")
	}
	if !strings.Contains(err.Error(), "Teleporter") {
		t.Errorf("expected error to name the unknown kind, got %v", err)
	}
}

func TestDecode_Condition(t *testing.T) {
	node, err := DecodeNode([]byte(`{
		"kind": "Condition",
		"condition": "includeReviews",
		"ifClause": {"kind": "Fetch", "serviceName": "reviews", "operation": "{ reviews { body } }"},
		"elseClause": null
	}`))
	if err != nil {
		t.Fatalf("DecodeNode failed: %v", err)
	}
	cond, ok := node.(*ConditionNode)
	if !ok {
		t.Fatalf("expected Condition node, got %T", node)
	}
	if cond.Condition != "includeReviews" {
		t.Errorf("expected condition 'includeReviews', got %q", cond.Condition)
	}
	if cond.IfClause == nil {
		t.Error("expected present if clause")
	}
	if cond.ElseClause != nil {
		t.Error("expected absent else clause")
	}
}

func TestDecode_Subscription(t *testing.T) {
	node, err := DecodeNode([]byte(`{
		"kind": "Subscription",
		"primary": {
			"serviceName": "reviews",
			"variableUsages": [],
			"operation": "subscription { reviewAdded { body } }",
			"operationKind": "subscription"
		},
		"rest": null
	}`))
	if err != nil {
		t.Fatalf("DecodeNode failed: %v", err)
	}
	sub, ok := node.(*SubscriptionNode)
	if !ok {
		t.Fatalf("expected Subscription node, got %T", node)
	}
	if sub.Primary == nil || sub.Primary.ServiceName != "reviews" {
		t.Errorf("unexpected primary: %+v", sub.Primary)
	}
	if sub.Primary.OperationKind != OperationSubscription {
		t.Errorf("expected subscription kind, got %q", sub.Primary.OperationKind)
	}
	if sub.Rest != nil {
		t.Error("expected absent rest plan")
	}
}

func TestDecode_Defer(t *testing.T) {
	node, err := DecodeNode([]byte(`{
		"kind": "Defer",
		"primary": {
			"subselection": "{ topProducts { name } }",
			"node": {"kind": "Fetch", "serviceName": "products", "operation": "{ topProducts { __typename upc name } }"}
		},
		"deferred": [
			{
				"depends": [{"id": "0"}],
				"label": "slowReviews",
				"queryPath": ["topProducts", "@"],
				"subselection": "{ reviews { body } }",
				"node": {"kind": "Fetch", "serviceName": "reviews", "operation": "{ _entities { ... on Product { reviews { body } } } }"}
			}
		]
	}`))
	if err != nil {
		t.Fatalf("DecodeNode failed: %v", err)
	}
	deferNode, ok := node.(*DeferNode)
	if !ok {
		t.Fatalf("expected Defer node, got %T", node)
	}
	if deferNode.Primary.Node == nil {
		t.Error("expected primary node")
	}
	if len(deferNode.Deferred) != 1 {
		t.Fatalf("expected 1 deferred block, got %d", len(deferNode.Deferred))
	}
	block := deferNode.Deferred[0]
	if len(block.Depends) != 1 || block.Depends[0] != "0" {
		t.Errorf("expected depends [0], got %v", block.Depends)
	}
	if block.Label != "slowReviews" {
		t.Errorf("expected label 'slowReviews', got %q", block.Label)
	}
	if got := block.QueryPath.String(); got != "/topProducts/@" {
		t.Errorf("expected query path /topProducts/@, got %q", got)
	}
}

func TestDecode_UnknownKind(t *testing.T) {
	_, err := DecodeNode([]byte(`{"kind": "Teleport"}`))
	if err == nil {
		t.Fatal("expected error for unknown node kind")
	}
	if !strings.Contains(err.Error(), "Teleport") {
		t.Errorf("expected error to name the unknown kind, got %v", err)
	}
}

func TestValidate_EmptyGroups(t *testing.T) {
	root := &SequenceNode{Nodes: []Node{
		&ParallelNode{},
		&FetchNode{ServiceName: "accounts", Operation: "{ me { id } }"},
	}}
	anomalies := Validate(root)
	if len(anomalies) != 1 {
		t.Fatalf("expected 1 anomaly, got %d: %v", len(anomalies), anomalies)
	}
	if !strings.Contains(anomalies[0].Reason, "no children") {
		t.Errorf("unexpected anomaly reason: %q", anomalies[0].Reason)
	}
}

func TestValidate_CleanPlan(t *testing.T) {
	doc, err := Decode([]byte(legacyEnvelope))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if anomalies := Validate(doc.Node); len(anomalies) != 0 {
		t.Errorf("expected no anomalies, got %v", anomalies)
	}
}

func TestFormatSelections(t *testing.T) {
	selections := []Selection{
		&InlineFragmentSelection{
			TypeCondition: "Product",
			Selections: []Selection{
				&FieldSelection{Name: "__typename"},
				&FieldSelection{Name: "upc"},
			},
		},
	}
	want := "... on Product { __typename upc }"
	if got := FormatSelections(selections); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}
