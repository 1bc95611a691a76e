package engine

import (
	"github.com/danieljhkim/qpdiff/internal/compare"
	"github.com/danieljhkim/qpdiff/internal/plan"
	"github.com/danieljhkim/qpdiff/internal/report"
)

// CompareResult represents the outcome of comparing two plans.
type CompareResult struct {
	// Equivalent is true when no mismatches were recorded
	Equivalent bool `json:"equivalent"`

	// Mismatches is the ordered mismatch list (empty if equivalent)
	Mismatches []compare.Mismatch `json:"mismatches"`

	// Summary aggregates the mismatch counts per kind
	Summary report.Summary `json:"summary"`

	// Anomalies are structural oddities found in either input plan
	Anomalies []plan.Anomaly `json:"anomalies,omitempty"`

	// LeftPlan and RightPlan are the canonicalized plan trees
	LeftPlan  plan.Node `json:"-"`
	RightPlan plan.Node `json:"-"`

	// LeftText and RightText are the rendered canonical plans
	LeftText  string `json:"-"`
	RightText string `json:"-"`
}

// ShowResult represents a single canonicalized plan.
type ShowResult struct {
	// Plan is the canonicalized plan tree
	Plan plan.Node `json:"-"`

	// Text is the rendered canonical plan
	Text string `json:"text"`

	// Anomalies are structural oddities found in the input plan
	Anomalies []plan.Anomaly `json:"anomalies,omitempty"`
}
