package plan

// Kind identifies a plan node variant.
type Kind string

// Node kinds, matching the "kind" discriminator in planner JSON.
const (
	KindSequence     Kind = "Sequence"
	KindParallel     Kind = "Parallel"
	KindFetch        Kind = "Fetch"
	KindFlatten      Kind = "Flatten"
	KindDefer        Kind = "Defer"
	KindSubscription Kind = "Subscription"
	KindCondition    Kind = "Condition"
)

// OperationKind is the GraphQL operation type of a fetch.
type OperationKind string

const (
	OperationQuery        OperationKind = "query"
	OperationMutation     OperationKind = "mutation"
	OperationSubscription OperationKind = "subscription"
)

// Node is a query plan node. The set of implementations is closed:
// every node is exactly one of the Kind* variants, and consumers
// dispatch by type switch over the concrete types.
type Node interface {
	// Kind returns the variant tag of the node.
	Kind() Kind

	planNode()
}

// SequenceNode executes its children in order. Order is semantically
// significant: it encodes data dependencies between steps.
type SequenceNode struct {
	Nodes []Node
}

// ParallelNode executes its children concurrently. Child order carries
// no meaning (set semantics).
type ParallelNode struct {
	Nodes []Node
}

// FetchNode is a leaf unit of work: one sub-operation sent to one
// subgraph service.
type FetchNode struct {
	// ServiceName is the subgraph the fetch is sent to.
	ServiceName string

	// Requires is the input selection propagated into the fetch
	// (set semantics).
	Requires []Selection

	// VariableUsages is the set of variable names the fetch uses.
	VariableUsages []string

	// Operation is the GraphQL sub-operation text.
	Operation string

	// OperationName is the optional name of the sub-operation.
	OperationName string

	// OperationKind is query, mutation, or subscription.
	OperationKind OperationKind

	// ID is an optional identifier referenced by deferred blocks.
	ID string

	// InputRewrites transform the representation data sent to the
	// subgraph; OutputRewrites transform the data received back;
	// ContextRewrites seed arguments from contextual data. Application
	// order is significant.
	InputRewrites   []DataRewrite
	OutputRewrites  []DataRewrite
	ContextRewrites []DataRewrite
}

// FlattenNode rebases a nested result path before delegating to its
// child.
type FlattenNode struct {
	Path Path
	Node Node
}

// ConditionNode includes one of its branches depending on a runtime
// condition (@skip/@include-driven branching). A nil branch means the
// branch is absent, which is not the same as an empty plan.
type ConditionNode struct {
	Condition  string
	IfClause   Node
	ElseClause Node
}

// SubscriptionNode opens a subscription via its primary fetch and
// executes the optional rest plan for each event.
type SubscriptionNode struct {
	Primary *FetchNode
	Rest    Node
}

// DeferNode splits execution into a primary part and deferred blocks
// delivered in later response chunks.
type DeferNode struct {
	Primary  DeferPrimary
	Deferred []DeferredBlock
}

// DeferPrimary is the non-deferred part of a defer.
type DeferPrimary struct {
	// Subselection is the part of the original query answered by the
	// primary response.
	Subselection string
	Node         Node
}

// DeferredBlock is one deferred response chunk.
type DeferredBlock struct {
	// Depends lists fetch node IDs that must complete before this
	// block starts (set semantics).
	Depends []string

	// Label is the optional @defer label.
	Label string

	// QueryPath is the position of the @defer in the original query.
	QueryPath Path

	// Subselection is the part of the original query answered by this
	// chunk.
	Subselection string

	Node Node
}

func (*SequenceNode) Kind() Kind     { return KindSequence }
func (*ParallelNode) Kind() Kind     { return KindParallel }
func (*FetchNode) Kind() Kind        { return KindFetch }
func (*FlattenNode) Kind() Kind      { return KindFlatten }
func (*ConditionNode) Kind() Kind    { return KindCondition }
func (*SubscriptionNode) Kind() Kind { return KindSubscription }
func (*DeferNode) Kind() Kind        { return KindDefer }

func (*SequenceNode) planNode()     {}
func (*ParallelNode) planNode()     {}
func (*FetchNode) planNode()        {}
func (*FlattenNode) planNode()      {}
func (*ConditionNode) planNode()    {}
func (*SubscriptionNode) planNode() {}
func (*DeferNode) planNode()        {}
