package compare

import "strings"

// MismatchKind classifies why two plans diverge at a position.
// Mismatch kinds are the tool's product, not failures.
type MismatchKind string

const (
	// KindMismatch: different node kinds at the same position.
	KindMismatch MismatchKind = "KindMismatch"

	// LengthMismatch: different child counts in a group or deferred
	// block list.
	LengthMismatch MismatchKind = "LengthMismatch"

	// ServiceMismatch: fetches talk to different subgraphs.
	ServiceMismatch MismatchKind = "ServiceMismatch"

	// OperationMismatch: same subgraph, different normalized
	// sub-operation text.
	OperationMismatch MismatchKind = "OperationMismatch"

	// OperationNameMismatch: different sub-operation names.
	OperationNameMismatch MismatchKind = "OperationNameMismatch"

	// OperationKindMismatch: query vs mutation vs subscription.
	OperationKindMismatch MismatchKind = "OperationKindMismatch"

	// RequiresMismatch: different fetch input selections.
	RequiresMismatch MismatchKind = "RequiresMismatch"

	// VariablesMismatch: different fetch variable usage sets.
	VariablesMismatch MismatchKind = "VariablesMismatch"

	// RewriteMismatch: different input, output, or context data
	// rewrites on a fetch.
	RewriteMismatch MismatchKind = "RewriteMismatch"

	// BranchPresenceMismatch: a branch present on one side, absent on
	// the other. Absence is never equated with an empty plan.
	BranchPresenceMismatch MismatchKind = "BranchPresenceMismatch"

	// ConditionMismatch: different condition variables.
	ConditionMismatch MismatchKind = "ConditionMismatch"

	// PathMismatch: different Flatten or Defer paths.
	PathMismatch MismatchKind = "PathMismatch"

	// DeferMismatch: different deferred block metadata (depends,
	// label, subselection).
	DeferMismatch MismatchKind = "DeferMismatch"

	// MalformedPlan: a data-model invariant violation (for example an
	// empty Sequence), surfaced as a diagnostic rather than a crash.
	MalformedPlan MismatchKind = "MalformedPlan"
)

// Mismatch is one localized divergence between the two plans.
type Mismatch struct {
	// Path is the breadcrumb trail of tree addresses from the root to
	// the divergent position.
	Path []string `json:"path"`

	// Kind classifies the divergence.
	Kind MismatchKind `json:"kind"`

	// Left and Right describe each side at the divergent position.
	Left  string `json:"left"`
	Right string `json:"right"`
}

// Breadcrumb renders the path as "a > b > c".
func (m Mismatch) Breadcrumb() string {
	if len(m.Path) == 0 {
		return "plan"
	}
	return strings.Join(m.Path, " > ")
}
