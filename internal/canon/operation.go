package canon

import (
	"fmt"
	"sort"
	"strings"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
)

// NormalizeOperation maps a GraphQL operation body to its canonical
// single-line text. Two operation strings that differ only in
// formatting, selection order, argument-object key order, or (when
// interchangeable) variable naming normalize to the same text.
//
// Normalization is fail-soft: text that does not parse as an
// executable document is returned whitespace-trimmed and will surface
// as an operation mismatch downstream.
func NormalizeOperation(operation string) string {
	doc, err := parser.ParseQuery(&ast.Source{Name: "operation.graphql", Input: operation})
	if err != nil {
		return strings.TrimSpace(operation)
	}
	normalizeDocument(doc)
	return printDocument(doc, "")
}

// PrettyOperation renders an operation in indented multi-line form for
// report output. Fail-soft like NormalizeOperation.
func PrettyOperation(operation string) string {
	doc, err := parser.ParseQuery(&ast.Source{Name: "operation.graphql", Input: operation})
	if err != nil {
		return strings.TrimSpace(operation)
	}
	normalizeDocument(doc)
	return printDocument(doc, "  ")
}

func normalizeDocument(doc *ast.QueryDocument) {
	sort.SliceStable(doc.Fragments, func(i, j int) bool {
		return doc.Fragments[i].Name < doc.Fragments[j].Name
	})

	for _, op := range doc.Operations {
		normalizeDirectives(op.Directives)
		normalizeSelectionSet(op.SelectionSet)
	}
	for _, frag := range doc.Fragments {
		normalizeDirectives(frag.Directives)
		normalizeSelectionSet(frag.SelectionSet)
	}

	// Variable scope spans the whole document: a fragment body uses the
	// operation's variables, so both the use walk and the rename cover
	// fragment bodies. Only single-operation documents qualify; with
	// several operations a shared fragment would need one name per
	// scope.
	if len(doc.Operations) != 1 {
		return
	}
	op := doc.Operations[0]
	if order := interchangeableVariables(op, doc.Fragments); order != nil {
		renameVariables(op, doc.Fragments, order)
		// Re-sort so tie-breaks see the positional names.
		normalizeSelectionSet(op.SelectionSet)
		for _, frag := range doc.Fragments {
			normalizeSelectionSet(frag.SelectionSet)
		}
	}
}

// normalizeSelectionSet sorts fields by name, then serialized
// arguments, then alias; fragments sort after fields by their own
// serialized key. Argument lists and object-literal keys are sorted
// recursively.
func normalizeSelectionSet(set ast.SelectionSet) {
	for _, sel := range set {
		switch s := sel.(type) {
		case *ast.Field:
			normalizeArguments(s.Arguments)
			normalizeDirectives(s.Directives)
			normalizeSelectionSet(s.SelectionSet)
		case *ast.InlineFragment:
			normalizeDirectives(s.Directives)
			normalizeSelectionSet(s.SelectionSet)
		case *ast.FragmentSpread:
			normalizeDirectives(s.Directives)
		}
	}

	sort.SliceStable(set, func(i, j int) bool {
		return selectionSortKey(set[i]) < selectionSortKey(set[j])
	})
}

func normalizeArguments(args ast.ArgumentList) {
	for _, arg := range args {
		normalizeValue(arg.Value)
	}
	sort.SliceStable(args, func(i, j int) bool {
		return args[i].Name < args[j].Name
	})
}

func normalizeDirectives(directives ast.DirectiveList) {
	// Directive order on a node is preserved; only each directive's
	// argument list is normalized.
	for _, d := range directives {
		normalizeArguments(d.Arguments)
	}
}

func normalizeValue(v *ast.Value) {
	if v == nil {
		return
	}
	for _, child := range v.Children {
		normalizeValue(child.Value)
	}
	if v.Kind == ast.ObjectValue {
		sort.SliceStable(v.Children, func(i, j int) bool {
			return v.Children[i].Name < v.Children[j].Name
		})
	}
}

func selectionSortKey(sel ast.Selection) string {
	var b strings.Builder
	switch s := sel.(type) {
	case *ast.Field:
		b.WriteString("0:")
		b.WriteString(s.Name)
		b.WriteString("(")
		writeArguments(&b, s.Arguments)
		b.WriteString(")")
		b.WriteString(s.Alias)
	case *ast.InlineFragment:
		b.WriteString("1:")
		b.WriteString(s.TypeCondition)
		b.WriteString("{")
		for _, child := range s.SelectionSet {
			b.WriteString(selectionSortKey(child))
			b.WriteString(" ")
		}
		b.WriteString("}")
	case *ast.FragmentSpread:
		b.WriteString("2:")
		b.WriteString(s.Name)
	}
	return b.String()
}

//-------------------------------------------------------------------------
// Variable renaming

// interchangeableVariables returns the declared variable names in
// first-use order when they may be renamed positionally, or nil when
// variable names must be preserved verbatim. Names are interchangeable
// only when every declared variable is used and the operation
// references no undeclared variables (federation-injected names like
// $representations stay meaningful and are never renamed). Uses inside
// fragment bodies count: the walk follows each spread into its
// fragment definition. If any fragment is unreachable from the
// operation, or a spread names a missing fragment, names are
// preserved.
func interchangeableVariables(op *ast.OperationDefinition, fragments ast.FragmentDefinitionList) []string {
	if len(op.VariableDefinitions) == 0 {
		return nil
	}

	declared := make(map[string]bool, len(op.VariableDefinitions))
	for _, def := range op.VariableDefinitions {
		declared[def.Variable] = true
	}

	c := &variableCollector{
		fragments: make(map[string]*ast.FragmentDefinition, len(fragments)),
		visited:   make(map[string]bool),
		used:      make(map[string]bool),
	}
	for _, frag := range fragments {
		c.fragments[frag.Name] = frag
	}
	c.selectionSet(op.SelectionSet)
	c.directives(op.Directives)

	if c.missing || len(c.visited) != len(c.fragments) {
		return nil
	}
	for name := range c.used {
		if !declared[name] {
			return nil
		}
	}
	for name := range declared {
		if !c.used[name] {
			return nil
		}
	}
	return c.order
}

// variableCollector walks an operation and the fragments it spreads,
// recording variable uses in first-use order. A fragment body is
// walked once, at its first spread site.
type variableCollector struct {
	fragments map[string]*ast.FragmentDefinition
	visited   map[string]bool
	used      map[string]bool
	order     []string
	missing   bool
}

func (c *variableCollector) selectionSet(set ast.SelectionSet) {
	for _, sel := range set {
		switch s := sel.(type) {
		case *ast.Field:
			c.arguments(s.Arguments)
			c.directives(s.Directives)
			c.selectionSet(s.SelectionSet)
		case *ast.InlineFragment:
			c.directives(s.Directives)
			c.selectionSet(s.SelectionSet)
		case *ast.FragmentSpread:
			c.directives(s.Directives)
			c.spread(s.Name)
		}
	}
}

func (c *variableCollector) spread(name string) {
	frag, ok := c.fragments[name]
	if !ok {
		c.missing = true
		return
	}
	if c.visited[name] {
		return
	}
	c.visited[name] = true
	c.directives(frag.Directives)
	c.selectionSet(frag.SelectionSet)
}

func (c *variableCollector) directives(directives ast.DirectiveList) {
	for _, d := range directives {
		c.arguments(d.Arguments)
	}
}

func (c *variableCollector) arguments(args ast.ArgumentList) {
	for _, arg := range args {
		c.value(arg.Value)
	}
}

func (c *variableCollector) value(v *ast.Value) {
	if v == nil {
		return
	}
	if v.Kind == ast.Variable {
		if !c.used[v.Raw] {
			c.order = append(c.order, v.Raw)
		}
		c.used[v.Raw] = true
		return
	}
	for _, child := range v.Children {
		c.value(child.Value)
	}
}

func renameVariables(op *ast.OperationDefinition, fragments ast.FragmentDefinitionList, order []string) {
	mapping := make(map[string]string, len(order))
	position := make(map[string]int, len(order))
	for i, name := range order {
		renamed := fmt.Sprintf("v%d", i)
		mapping[name] = renamed
		position[renamed] = i
	}
	for _, def := range op.VariableDefinitions {
		if renamed, ok := mapping[def.Variable]; ok {
			def.Variable = renamed
		}
	}
	// Definitions are re-ordered to positional order so that the
	// rendered text is a pure function of use order.
	sort.SliceStable(op.VariableDefinitions, func(i, j int) bool {
		return position[op.VariableDefinitions[i].Variable] < position[op.VariableDefinitions[j].Variable]
	})
	renameSelectionVariables(op.SelectionSet, mapping)
	for _, d := range op.Directives {
		renameArgumentVariables(d.Arguments, mapping)
	}
	for _, frag := range fragments {
		renameDirectiveVariables(frag.Directives, mapping)
		renameSelectionVariables(frag.SelectionSet, mapping)
	}
}

func renameSelectionVariables(set ast.SelectionSet, mapping map[string]string) {
	for _, sel := range set {
		switch s := sel.(type) {
		case *ast.Field:
			renameArgumentVariables(s.Arguments, mapping)
			renameDirectiveVariables(s.Directives, mapping)
			renameSelectionVariables(s.SelectionSet, mapping)
		case *ast.InlineFragment:
			renameDirectiveVariables(s.Directives, mapping)
			renameSelectionVariables(s.SelectionSet, mapping)
		case *ast.FragmentSpread:
			renameDirectiveVariables(s.Directives, mapping)
		}
	}
}

func renameDirectiveVariables(directives ast.DirectiveList, mapping map[string]string) {
	for _, d := range directives {
		renameArgumentVariables(d.Arguments, mapping)
	}
}

func renameArgumentVariables(args ast.ArgumentList, mapping map[string]string) {
	for _, arg := range args {
		renameValueVariables(arg.Value, mapping)
	}
}

func renameValueVariables(v *ast.Value, mapping map[string]string) {
	if v == nil {
		return
	}
	if v.Kind == ast.Variable {
		if renamed, ok := mapping[v.Raw]; ok {
			v.Raw = renamed
		}
		return
	}
	for _, child := range v.Children {
		renameValueVariables(child.Value, mapping)
	}
}
