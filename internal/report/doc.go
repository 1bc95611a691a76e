// Package report renders mismatch trails for humans and machines.
//
// The text form prints one block per mismatch: a breadcrumb path, the
// mismatch kind, and a side-by-side description — a unified diff for
// operation text, a symmetric difference for sets. Clean equivalence
// renders nothing, consistent with standard diff-tool conventions.
// The machine form is a count summary grouped by mismatch kind, used
// for automated gating.
package report
