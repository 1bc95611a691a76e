package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/danieljhkim/qpdiff/internal/canon"
	"github.com/danieljhkim/qpdiff/internal/compare"
)

// SideNames labels the two compared plans in rendered output.
type SideNames struct {
	Left  string
	Right string
}

// DefaultSides matches the original planner pairing.
var DefaultSides = SideNames{Left: "legacy", Right: "native"}

// Render writes the text report for a mismatch trail. An empty trail
// writes nothing: clean equivalence is silent success.
func Render(w io.Writer, mismatches []compare.Mismatch, sides SideNames) error {
	for i, m := range mismatches {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		if err := renderMismatch(w, m, sides); err != nil {
			return err
		}
	}
	return nil
}

func renderMismatch(w io.Writer, m compare.Mismatch, sides SideNames) error {
	if _, err := fmt.Fprintf(w, "%s: %s\n", m.Kind, m.Breadcrumb()); err != nil {
		return err
	}

	switch m.Kind {
	case compare.OperationMismatch:
		return renderOperationDiff(w, m, sides)
	case compare.RequiresMismatch, compare.VariablesMismatch:
		return renderSetDifference(w, m, sides)
	default:
		return renderSideBySide(w, m, sides)
	}
}

func renderSideBySide(w io.Writer, m compare.Mismatch, sides SideNames) error {
	left := m.Left
	if left == "" {
		left = "<none>"
	}
	right := m.Right
	if right == "" {
		right = "<none>"
	}
	if _, err := fmt.Fprintf(w, "  %s: %s\n", sides.Left, left); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "  %s: %s\n", sides.Right, right)
	return err
}

// renderOperationDiff shows a unified diff of the pretty-printed
// operation texts.
func renderOperationDiff(w io.Writer, m compare.Mismatch, sides SideNames) error {
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(canon.PrettyOperation(m.Left)),
		B:        difflib.SplitLines(canon.PrettyOperation(m.Right)),
		FromFile: sides.Left,
		ToFile:   sides.Right,
		Context:  3,
	})
	if err != nil {
		return err
	}
	for _, line := range strings.Split(strings.TrimRight(diff, "\n"), "\n") {
		if _, err := fmt.Fprintf(w, "  %s\n", line); err != nil {
			return err
		}
	}
	return nil
}

// renderSetDifference shows the symmetric difference of two sets whose
// elements are newline-separated in the mismatch descriptions.
func renderSetDifference(w io.Writer, m compare.Mismatch, sides SideNames) error {
	onlyLeft, onlyRight := symmetricDifference(splitSet(m.Left), splitSet(m.Right))
	if len(onlyLeft) > 0 {
		if _, err := fmt.Fprintf(w, "  only in %s: {%s}\n", sides.Left, strings.Join(onlyLeft, ", ")); err != nil {
			return err
		}
	}
	if len(onlyRight) > 0 {
		if _, err := fmt.Fprintf(w, "  only in %s: {%s}\n", sides.Right, strings.Join(onlyRight, ", ")); err != nil {
			return err
		}
	}
	return nil
}

func splitSet(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

// symmetricDifference assumes both inputs are sorted, as produced by
// the canonicalizer.
func symmetricDifference(left, right []string) (onlyLeft, onlyRight []string) {
	i, j := 0, 0
	for i < len(left) && j < len(right) {
		switch {
		case left[i] == right[j]:
			i++
			j++
		case left[i] < right[j]:
			onlyLeft = append(onlyLeft, left[i])
			i++
		default:
			onlyRight = append(onlyRight, right[j])
			j++
		}
	}
	onlyLeft = append(onlyLeft, left[i:]...)
	onlyRight = append(onlyRight, right[j:]...)
	return onlyLeft, onlyRight
}
