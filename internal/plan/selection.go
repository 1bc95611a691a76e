package plan

import "strings"

// Selection is one element of a fetch's "requires" input selection.
// The set of implementations is closed: a selection is either a field
// or an inline fragment.
type Selection interface {
	selection()
}

// FieldSelection selects a field, optionally aliased, with optional
// sub-selections.
type FieldSelection struct {
	Alias      string
	Name       string
	Selections []Selection
}

// InlineFragmentSelection narrows the selection to a type condition.
type InlineFragmentSelection struct {
	TypeCondition string
	Selections    []Selection
}

func (*FieldSelection) selection()          {}
func (*InlineFragmentSelection) selection() {}

// ResponseName returns the alias if present, else the field name.
func (f *FieldSelection) ResponseName() string {
	if f.Alias != "" {
		return f.Alias
	}
	return f.Name
}

// FormatSelection renders a selection in GraphQL-like text, used for
// sort keys and set-difference reporting.
func FormatSelection(s Selection) string {
	var b strings.Builder
	writeSelection(&b, s)
	return b.String()
}

// FormatSelections renders a selection list as "a b ... on T { c }".
func FormatSelections(selections []Selection) string {
	var b strings.Builder
	for i, s := range selections {
		if i > 0 {
			b.WriteString(" ")
		}
		writeSelection(&b, s)
	}
	return b.String()
}

func writeSelection(b *strings.Builder, s Selection) {
	switch sel := s.(type) {
	case *FieldSelection:
		if sel.Alias != "" {
			b.WriteString(sel.Alias)
			b.WriteString(": ")
		}
		b.WriteString(sel.Name)
		if len(sel.Selections) > 0 {
			b.WriteString(" { ")
			b.WriteString(FormatSelections(sel.Selections))
			b.WriteString(" }")
		}
	case *InlineFragmentSelection:
		b.WriteString(fragmentPrefix)
		b.WriteString(sel.TypeCondition)
		b.WriteString(" { ")
		b.WriteString(FormatSelections(sel.Selections))
		b.WriteString(" }")
	}
}
