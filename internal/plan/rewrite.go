package plan

import "strings"

// DataRewrite is a transformation the executor applies to fetch data:
// to the representation input before the subgraph call, to the output
// before it is merged, or to values pulled from context. The set of
// implementations is closed.
type DataRewrite interface {
	dataRewrite()
}

// ValueSetterRewrite writes a literal value at a data path.
type ValueSetterRewrite struct {
	Path Path

	// Value is the JSON value to set, in canonical compact text.
	Value string
}

// KeyRenamerRewrite renames the key at a data path.
type KeyRenamerRewrite struct {
	Path        Path
	RenameKeyTo string
}

func (*ValueSetterRewrite) dataRewrite() {}
func (*KeyRenamerRewrite) dataRewrite()  {}

// FormatRewrite renders a rewrite as stable text, used for fingerprints
// and mismatch reporting.
func FormatRewrite(r DataRewrite) string {
	switch rw := r.(type) {
	case *ValueSetterRewrite:
		return "set " + rw.Path.String() + " = " + rw.Value
	case *KeyRenamerRewrite:
		return "rename " + rw.Path.String() + " to " + rw.RenameKeyTo
	}
	return ""
}

// FormatRewrites renders a rewrite list one element per line,
// preserving application order.
func FormatRewrites(rewrites []DataRewrite) string {
	lines := make([]string, 0, len(rewrites))
	for _, r := range rewrites {
		lines = append(lines, FormatRewrite(r))
	}
	return strings.Join(lines, "\n")
}
