package plan

import (
	"fmt"
	"regexp"
	"strings"
)

const fragmentPrefix = "... on "

var typeConditionsRe = regexp.MustCompile(`\|\[(?P<condition>.+?)?\]`)

// ElementKind identifies a path element variant.
type ElementKind int

const (
	// ElementKey addresses an object field by response name.
	ElementKey ElementKind = iota

	// ElementIndex addresses a list position.
	ElementIndex

	// ElementFlatten flat-maps over the content of a list ("@").
	ElementFlatten

	// ElementFragment applies a type condition ("... on T").
	ElementFragment
)

// PathElement is one segment of a result-tree path.
type PathElement struct {
	Kind ElementKind

	// Key is the field name (ElementKey) or fragment type name
	// (ElementFragment).
	Key string

	// Index is the list position (ElementIndex).
	Index int

	// TypeConditions optionally narrows a key or flatten element to a
	// list of concrete types.
	TypeConditions []string
}

// Path is an address into the result tree. Two paths are equal iff
// their element sequences are equal element-wise.
type Path []PathElement

// ParsePathElement parses the string form of a path element: "@",
// "... on T", or a key, each optionally suffixed with "|[A,B]" type
// conditions.
func ParsePathElement(s string) PathElement {
	if name, ok := strings.CutPrefix(s, fragmentPrefix); ok {
		return PathElement{Kind: ElementFragment, Key: name}
	}

	var conditions []string
	element := typeConditionsRe.ReplaceAllStringFunc(s, func(match string) string {
		inner := match[2 : len(match)-1]
		if inner != "" {
			conditions = strings.Split(inner, ",")
		} else {
			conditions = []string{}
		}
		return ""
	})

	if element == "@" {
		return PathElement{Kind: ElementFlatten, TypeConditions: conditions}
	}
	return PathElement{Kind: ElementKey, Key: element, TypeConditions: conditions}
}

// String renders the element in the planner wire form.
func (e PathElement) String() string {
	switch e.Kind {
	case ElementIndex:
		return fmt.Sprintf("%d", e.Index)
	case ElementFlatten:
		return "@" + typeConditionSuffix(e.TypeConditions)
	case ElementFragment:
		return fragmentPrefix + e.Key
	default:
		return e.Key + typeConditionSuffix(e.TypeConditions)
	}
}

func typeConditionSuffix(conditions []string) string {
	if conditions == nil {
		return ""
	}
	return "|[" + strings.Join(conditions, ",") + "]"
}

// Equal reports element-wise equality with other.
func (p Path) Equal(other Path) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if !p[i].equal(other[i]) {
			return false
		}
	}
	return true
}

func (e PathElement) equal(other PathElement) bool {
	if e.Kind != other.Kind || e.Key != other.Key || e.Index != other.Index {
		return false
	}
	if (e.TypeConditions == nil) != (other.TypeConditions == nil) {
		return false
	}
	if len(e.TypeConditions) != len(other.TypeConditions) {
		return false
	}
	for i := range e.TypeConditions {
		if e.TypeConditions[i] != other.TypeConditions[i] {
			return false
		}
	}
	return true
}

// String renders the path as "/a/@/b|[X]" in the planner's display
// form. An empty path renders as "/".
func (p Path) String() string {
	if len(p) == 0 {
		return "/"
	}
	var b strings.Builder
	for _, e := range p {
		b.WriteString("/")
		b.WriteString(e.String())
	}
	return b.String()
}
