package integration

import (
	"os"
	"path/filepath"
	"testing"
)

// legacyPlanJSON is a legacy planner dump: the full envelope around a
// federation plan that fetches products, then resolves reviews and
// inventory in parallel.
const legacyPlanJSON = `{
	"formattedQueryPlan": "QueryPlan { ... }",
	"queryPlan": {
		"node": {
			"kind": "Sequence",
			"nodes": [
				{
					"kind": "Fetch",
					"serviceName": "products",
					"variableUsages": ["first"],
					"operation": "query TopProducts($first: Int) { topProducts(first: $first) { __typename upc name price } }",
					"operationName": "TopProducts",
					"operationKind": "query"
				},
				{
					"kind": "Parallel",
					"nodes": [
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
								"operation": "query($representations: [_Any!]!) { _entities(representations: $representations) { ... on Product { reviews { id body author { username } } } } }",
								"operationKind": "query"
							}
						},
						{
							"kind": "Flatten",
							"path": ["topProducts", "@"],
							"node": {
								"kind": "Fetch",
								"serviceName": "inventory",
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
								"operation": "query($representations: [_Any!]!) { _entities(representations: $representations) { ... on Product { inStock shippingEstimate } } }",
								"operationKind": "query"
							}
						}
					]
				}
			]
		}
	}
}`

// nativePlanJSON is the same plan from the native planner as a bare
// node: parallel branches swapped and field order shuffled throughout.
const nativePlanJSON = `{
	"kind": "Sequence",
	"nodes": [
		{
			"kind": "Fetch",
			"serviceName": "products",
			"variableUsages": ["first"],
			"operation": "query TopProducts($first: Int) { topProducts(first: $first) { price name upc __typename } }",
			"operationName": "TopProducts",
			"operationKind": "query"
		},
		{
			"kind": "Parallel",
			"nodes": [
				{
					"kind": "Flatten",
					"path": ["topProducts", "@"],
					"node": {
						"kind": "Fetch",
						"serviceName": "inventory",
						"requires": [
							{
								"kind": "InlineFragment",
								"typeCondition": "Product",
								"selections": [
									{"kind": "Field", "name": "upc"},
									{"kind": "Field", "name": "__typename"}
								]
							}
						],
						"operation": "query($representations: [_Any!]!) { _entities(representations: $representations) { ... on Product { shippingEstimate inStock } } }",
						"operationKind": "query"
					}
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
						"operation": "query($representations: [_Any!]!) { _entities(representations: $representations) { ... on Product { reviews { author { username } body id } } } }",
						"operationKind": "query"
					}
				}
			]
		}
	]
}`

// divergentPlanJSON drops shippingEstimate from the inventory fetch.
const divergentPlanJSON = `{
	"kind": "Sequence",
	"nodes": [
		{
			"kind": "Fetch",
			"serviceName": "products",
			"variableUsages": ["first"],
			"operation": "query TopProducts($first: Int) { topProducts(first: $first) { __typename upc name price } }",
			"operationName": "TopProducts",
			"operationKind": "query"
		},
		{
			"kind": "Parallel",
			"nodes": [
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
						"operation": "query($representations: [_Any!]!) { _entities(representations: $representations) { ... on Product { reviews { id body author { username } } } } }",
						"operationKind": "query"
					}
				},
				{
					"kind": "Flatten",
					"path": ["topProducts", "@"],
					"node": {
						"kind": "Fetch",
						"serviceName": "inventory",
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
						"operation": "query($representations: [_Any!]!) { _entities(representations: $representations) { ... on Product { inStock } } }",
						"operationKind": "query"
					}
				}
			]
		}
	]
}`

// writePlan writes a plan JSON fixture into a temp dir.
func writePlan(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}
