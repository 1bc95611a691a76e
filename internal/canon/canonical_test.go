package canon

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"

	"github.com/danieljhkim/qpdiff/internal/plan"
)

func fetchNode(service, operation string) *plan.FetchNode {
	return &plan.FetchNode{
		ServiceName:   service,
		Operation:     operation,
		OperationKind: plan.OperationQuery,
	}
}

func TestCanonicalize_Idempotent(t *testing.T) {
	root := plan.Node(&plan.SequenceNode{Nodes: []plan.Node{
		&plan.ParallelNode{Nodes: []plan.Node{
			fetchNode("reviews", "{ reviews { body } }"),
			fetchNode("accounts", "{ me { id name } }"),
		}},
		&plan.FlattenNode{
			Path: plan.Path{{Kind: plan.ElementKey, Key: "me"}},
			Node: &plan.FetchNode{
				ServiceName:    "products",
				Requires:       []plan.Selection{&plan.FieldSelection{Name: "upc"}, &plan.FieldSelection{Name: "id"}},
				VariableUsages: []string{"b", "a", "b"},
				Operation:      "query($representations: [_Any!]!) { _entities(representations: $representations) { ... on Product { price } } }",
				OperationKind:  plan.OperationQuery,
			},
		},
	}})

	once := Canonicalize(root)
	twice := Canonicalize(once)
	require.Equal(t, Fingerprint(once), Fingerprint(twice))
	require.Equal(t, once, twice)
}

func TestCanonicalize_ParallelBranchOrderNeutralized(t *testing.T) {
	a := fetchNode("accounts", "{ me { id } }")
	b := fetchNode("products", "{ topProducts { upc } }")

	left := Canonicalize(&plan.ParallelNode{Nodes: []plan.Node{a, b}})
	right := Canonicalize(&plan.ParallelNode{Nodes: []plan.Node{b, a}})
	require.Equal(t, Fingerprint(left), Fingerprint(right))
}

func TestCanonicalize_SequenceOrderPreserved(t *testing.T) {
	a := fetchNode("accounts", "{ me { id } }")
	b := fetchNode("products", "{ topProducts { upc } }")

	left := Canonicalize(&plan.SequenceNode{Nodes: []plan.Node{a, b}})
	right := Canonicalize(&plan.SequenceNode{Nodes: []plan.Node{b, a}})
	require.NotEqual(t, Fingerprint(left), Fingerprint(right))
}

func TestCanonicalize_RequiresIsASet(t *testing.T) {
	left := Canonicalize(&plan.FetchNode{
		ServiceName: "reviews",
		Requires: []plan.Selection{
			&plan.FieldSelection{Name: "upc"},
			&plan.FieldSelection{Name: "__typename"},
			&plan.FieldSelection{Name: "upc"},
		},
		Operation: "{ x }",
	})
	right := Canonicalize(&plan.FetchNode{
		ServiceName: "reviews",
		Requires: []plan.Selection{
			&plan.FieldSelection{Name: "__typename"},
			&plan.FieldSelection{Name: "upc"},
		},
		Operation: "{ x }",
	})
	require.Equal(t, Fingerprint(left), Fingerprint(right))
}

func TestCanonicalize_VariableUsagesSortedAndDeduped(t *testing.T) {
	canonical := Canonicalize(&plan.FetchNode{
		ServiceName:    "reviews",
		VariableUsages: []string{"second", "first", "second"},
		Operation:      "{ x }",
	})
	fetch := canonical.(*plan.FetchNode)
	require.Equal(t, []string{"first", "second"}, fetch.VariableUsages)
}

func TestCanonicalize_AbsentBranchStaysAbsent(t *testing.T) {
	canonical := Canonicalize(&plan.ConditionNode{
		Condition: "includeReviews",
		IfClause:  fetchNode("reviews", "{ reviews { body } }"),
	})
	cond := canonical.(*plan.ConditionNode)
	require.NotNil(t, cond.IfClause)
	require.Nil(t, cond.ElseClause)
}

func TestCanonicalize_IndependentCopy(t *testing.T) {
	original := &plan.ParallelNode{Nodes: []plan.Node{
		fetchNode("accounts", "{ me { id } }"),
		fetchNode("products", "{ topProducts { upc } }"),
	}}
	canonical := Canonicalize(original)
	before := Fingerprint(canonical)

	// Mutating planner output must not affect the canonical copy.
	original.Nodes[0].(*plan.FetchNode).ServiceName = "mutated"
	original.Nodes = nil
	require.Equal(t, before, Fingerprint(canonical))
}

func TestCanonicalize_NilRoot(t *testing.T) {
	require.Nil(t, Canonicalize(nil))
}

func TestBranchKey_FetchUsesService(t *testing.T) {
	require.Equal(t, "service=products", BranchKey(fetchNode("products", "{ x }")))
	require.Equal(t, "service=reviews", BranchKey(&plan.FlattenNode{
		Path: plan.Path{{Kind: plan.ElementKey, Key: "me"}},
		Node: fetchNode("reviews", "{ x }"),
	}))
}

func TestBranchKey_TruncatesOnRuneBoundary(t *testing.T) {
	// The condition text puts multibyte runes across the cut position.
	node := &plan.ConditionNode{
		Condition: "x" + strings.Repeat("é", 40),
		IfClause:  fetchNode("reviews", "{ x }"),
	}
	key := BranchKey(node)
	require.True(t, strings.HasPrefix(key, "key="))
	require.True(t, strings.HasSuffix(key, "..."))
	require.True(t, utf8.ValidString(key))
}

func TestCanonicalize_RewritesCarried(t *testing.T) {
	original := &plan.FetchNode{
		ServiceName: "products",
		Operation:   "{ x }",
		InputRewrites: []plan.DataRewrite{
			&plan.ValueSetterRewrite{Path: plan.Path{{Kind: plan.ElementKey, Key: "weight"}}, Value: "1"},
		},
		OutputRewrites: []plan.DataRewrite{
			&plan.KeyRenamerRewrite{Path: plan.Path{{Kind: plan.ElementKey, Key: "internalName"}}, RenameKeyTo: "name"},
		},
	}
	canonical := Canonicalize(original).(*plan.FetchNode)
	before := Fingerprint(canonical)
	require.Contains(t, before, "inputRewrites=")
	require.Contains(t, before, "outputRewrites=")

	// Mutating planner output must not affect the canonical copy.
	original.InputRewrites[0].(*plan.ValueSetterRewrite).Value = "2"
	require.Equal(t, before, Fingerprint(canonical))

	bare := Canonicalize(&plan.FetchNode{ServiceName: "products", Operation: "{ x }"})
	require.NotEqual(t, before, Fingerprint(bare))
}

func TestRender_ContainsStructure(t *testing.T) {
	out := Render(Canonicalize(&plan.SequenceNode{Nodes: []plan.Node{
		fetchNode("products", "{ topProducts { upc } }"),
		&plan.FlattenNode{
			Path: plan.Path{{Kind: plan.ElementKey, Key: "topProducts"}, {Kind: plan.ElementFlatten}},
			Node: fetchNode("reviews", "{ _entities { ... on Product { reviews { body } } } }"),
		},
	}}))
	require.Contains(t, out, "QueryPlan {")
	require.Contains(t, out, `Fetch(service: "products")`)
	require.Contains(t, out, `Flatten(path: "/topProducts/@")`)
}
