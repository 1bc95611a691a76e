package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/qpdiff/internal/engine"
	"github.com/danieljhkim/qpdiff/internal/plan"
)

var showCmd = &cobra.Command{
	Use:   "show <plan.json>",
	Short: "Canonicalize and render a single plan file",
	Long: `Decode a plan JSON file, canonicalize it, and print the rendered
plan. Useful for inspecting what the comparison actually sees.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read plan file: %w", err)
		}
		doc, err := plan.Decode(data)
		if err != nil {
			return fmt.Errorf("failed to decode plan: %w", err)
		}

		result := engine.New(nil, nil).Show(doc)

		if jsonOutput {
			return outputJSON(result)
		}

		for _, a := range result.Anomalies {
			PrintWarning(fmt.Sprintf("anomaly at %s: %s", a.Path, a.Reason))
		}
		fmt.Println(result.Text)
		return nil
	},
}
