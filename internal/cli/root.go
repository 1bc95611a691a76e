// Package cli implements the qpdiff command-line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	jsonOutput bool
)

// rootCmd is the root command for qpdiff.
var rootCmd = &cobra.Command{
	Use:     "qpdiff",
	Version: "dev",
	Short:   "Semantic diff for federated query plans",
	Long: `qpdiff compares the query plans two planners produce for the same
operation against the same supergraph schema.

Plans are canonicalized before comparison, so orderings the executor
does not observe (parallel branch order, field order, variable naming)
never count as differences. Anything left is reported as a mismatch.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
}

func SetVersion(v string) {
	if v == "" {
		return
	}
	rootCmd.Version = v
	rootCmd.SetVersionTemplate("{{.Version}}\n")
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(showCmd)

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the qpdiff CLI version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintln(os.Stdout, rootCmd.Version)
		},
	})
}

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}
