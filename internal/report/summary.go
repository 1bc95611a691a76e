package report

import (
	"fmt"
	"io"
	"sort"

	"github.com/danieljhkim/qpdiff/internal/compare"
)

// Summary is the machine-readable form of a comparison outcome, used
// for automated gating.
type Summary struct {
	// Equivalent is true when no mismatch was found.
	Equivalent bool `json:"equivalent"`

	// Total is the number of mismatches.
	Total int `json:"total"`

	// ByKind counts mismatches grouped by kind.
	ByKind map[string]int `json:"byKind,omitempty"`
}

// Summarize groups a mismatch trail by kind.
func Summarize(mismatches []compare.Mismatch) Summary {
	s := Summary{
		Equivalent: len(mismatches) == 0,
		Total:      len(mismatches),
	}
	if len(mismatches) > 0 {
		s.ByKind = make(map[string]int)
		for _, m := range mismatches {
			s.ByKind[string(m.Kind)]++
		}
	}
	return s
}

// RenderSummary writes the one-line-per-kind count footer shown after
// the mismatch blocks.
func RenderSummary(w io.Writer, s Summary) error {
	if s.Equivalent {
		return nil
	}
	if _, err := fmt.Fprintf(w, "%d mismatch(es):\n", s.Total); err != nil {
		return err
	}
	kinds := make([]string, 0, len(s.ByKind))
	for kind := range s.ByKind {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	for _, kind := range kinds {
		if _, err := fmt.Fprintf(w, "  %s: %d\n", kind, s.ByKind[kind]); err != nil {
			return err
		}
	}
	return nil
}
