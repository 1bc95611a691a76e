// Package canon rewrites plan trees into canonical form so that
// semantically equivalent plans become identical trees.
//
// Canonicalization is applied bottom-up and never fails: nodes that
// cannot be normalized (for example an operation that does not parse)
// pass through unchanged and surface as mismatches at comparison time.
//
// Key responsibilities:
//   - Canonicalize: derive an independent canonical copy of a plan
//   - NormalizeOperation: canonical single-line GraphQL operation text
//   - Fingerprint: total, deterministic sort key for plan nodes
//   - Render: human-readable rendering of a plan tree
package canon
