// Package compare decides structural equivalence of two canonical
// plan trees and localizes divergences.
//
// The comparator walks both trees in lock-step, carrying a breadcrumb
// path, and produces a mismatch trail instead of a bare "not equal":
// each mismatch names where the trees diverge and why. Inputs are
// expected to be canonicalized (see package canon); the walk is then a
// simple positional descent, with Parallel branches pre-sorted by
// canonical key.
//
// Key responsibilities:
//   - Plans: the comparison entry point
//   - Mismatch / MismatchKind: the localized divergence records
//   - fail-fast and exhaustive comparison modes
package compare
