package canon

import (
	"strconv"
	"strings"

	"github.com/vektah/gqlparser/v2/ast"
)

// printDocument serializes a normalized document. With an empty indent
// the output is a single line with canonical spacing; otherwise
// selection sets are expanded one field per line.
func printDocument(doc *ast.QueryDocument, indent string) string {
	var b strings.Builder
	p := printer{indent: indent}

	for i, op := range doc.Operations {
		if i > 0 {
			p.writeDefinitionSeparator(&b)
		}
		p.writeOperation(&b, op)
	}
	for i, frag := range doc.Fragments {
		if i > 0 || len(doc.Operations) > 0 {
			p.writeDefinitionSeparator(&b)
		}
		p.writeFragmentDefinition(&b, frag)
	}
	return b.String()
}

type printer struct {
	indent string
}

func (p printer) pretty() bool { return p.indent != "" }

func (p printer) writeDefinitionSeparator(b *strings.Builder) {
	if p.pretty() {
		b.WriteString("\n\n")
	} else {
		b.WriteString(" ")
	}
}

func (p printer) writeOperation(b *strings.Builder, op *ast.OperationDefinition) {
	shorthand := op.Operation == ast.Query &&
		op.Name == "" &&
		len(op.VariableDefinitions) == 0 &&
		len(op.Directives) == 0
	if !shorthand {
		b.WriteString(string(op.Operation))
		if op.Name != "" {
			b.WriteString(" ")
			b.WriteString(op.Name)
		}
		if len(op.VariableDefinitions) > 0 {
			b.WriteString("(")
			for i, def := range op.VariableDefinitions {
				if i > 0 {
					b.WriteString(", ")
				}
				p.writeVariableDefinition(b, def)
			}
			b.WriteString(")")
		}
		p.writeDirectives(b, op.Directives)
		b.WriteString(" ")
	}
	p.writeSelectionSet(b, op.SelectionSet, 0)
}

func (p printer) writeVariableDefinition(b *strings.Builder, def *ast.VariableDefinition) {
	b.WriteString("$")
	b.WriteString(def.Variable)
	b.WriteString(": ")
	b.WriteString(def.Type.String())
	if def.DefaultValue != nil {
		b.WriteString(" = ")
		writeValue(b, def.DefaultValue)
	}
	p.writeDirectives(b, def.Directives)
}

func (p printer) writeFragmentDefinition(b *strings.Builder, frag *ast.FragmentDefinition) {
	b.WriteString("fragment ")
	b.WriteString(frag.Name)
	b.WriteString(" on ")
	b.WriteString(frag.TypeCondition)
	p.writeDirectives(b, frag.Directives)
	b.WriteString(" ")
	p.writeSelectionSet(b, frag.SelectionSet, 0)
}

func (p printer) writeSelectionSet(b *strings.Builder, set ast.SelectionSet, depth int) {
	if len(set) == 0 {
		return
	}
	if !p.pretty() {
		b.WriteString("{ ")
		for i, sel := range set {
			if i > 0 {
				b.WriteString(" ")
			}
			p.writeSelection(b, sel, depth)
		}
		b.WriteString(" }")
		return
	}

	b.WriteString("{\n")
	for _, sel := range set {
		b.WriteString(strings.Repeat(p.indent, depth+1))
		p.writeSelection(b, sel, depth+1)
		b.WriteString("\n")
	}
	b.WriteString(strings.Repeat(p.indent, depth))
	b.WriteString("}")
}

func (p printer) writeSelection(b *strings.Builder, sel ast.Selection, depth int) {
	switch s := sel.(type) {
	case *ast.Field:
		if s.Alias != "" && s.Alias != s.Name {
			b.WriteString(s.Alias)
			b.WriteString(": ")
		}
		b.WriteString(s.Name)
		if len(s.Arguments) > 0 {
			b.WriteString("(")
			writeArguments(b, s.Arguments)
			b.WriteString(")")
		}
		p.writeDirectives(b, s.Directives)
		if len(s.SelectionSet) > 0 {
			b.WriteString(" ")
			p.writeSelectionSet(b, s.SelectionSet, depth)
		}
	case *ast.InlineFragment:
		b.WriteString("...")
		if s.TypeCondition != "" {
			b.WriteString(" on ")
			b.WriteString(s.TypeCondition)
		}
		p.writeDirectives(b, s.Directives)
		b.WriteString(" ")
		p.writeSelectionSet(b, s.SelectionSet, depth)
	case *ast.FragmentSpread:
		b.WriteString("...")
		b.WriteString(s.Name)
		p.writeDirectives(b, s.Directives)
	}
}

func (p printer) writeDirectives(b *strings.Builder, directives ast.DirectiveList) {
	for _, d := range directives {
		b.WriteString(" @")
		b.WriteString(d.Name)
		if len(d.Arguments) > 0 {
			b.WriteString("(")
			writeArguments(b, d.Arguments)
			b.WriteString(")")
		}
	}
}

func writeArguments(b *strings.Builder, args ast.ArgumentList) {
	for i, arg := range args {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(arg.Name)
		b.WriteString(": ")
		writeValue(b, arg.Value)
	}
}

func writeValue(b *strings.Builder, v *ast.Value) {
	if v == nil {
		b.WriteString("null")
		return
	}
	switch v.Kind {
	case ast.Variable:
		b.WriteString("$")
		b.WriteString(v.Raw)
	case ast.StringValue, ast.BlockValue:
		// Block strings flatten to regular strings.
		b.WriteString(strconv.Quote(v.Raw))
	case ast.ListValue:
		b.WriteString("[")
		for i, child := range v.Children {
			if i > 0 {
				b.WriteString(", ")
			}
			writeValue(b, child.Value)
		}
		b.WriteString("]")
	case ast.ObjectValue:
		b.WriteString("{")
		for i, child := range v.Children {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(child.Name)
			b.WriteString(": ")
			writeValue(b, child.Value)
		}
		b.WriteString("}")
	default:
		b.WriteString(v.Raw)
	}
}
