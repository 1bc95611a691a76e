package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/danieljhkim/qpdiff/internal/compare"
	"github.com/danieljhkim/qpdiff/internal/config"
	"github.com/danieljhkim/qpdiff/internal/engine"
	"github.com/danieljhkim/qpdiff/internal/planner"
	"github.com/danieljhkim/qpdiff/internal/report"
)

var (
	compareSchemaPath    string
	compareOperationPath string
	compareLeftPath      string
	compareRightPath     string
	compareConfigPath    string
	compareFailFast      bool
	compareDumpPlans     bool
)

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare the plans both planners produce for an operation",
	Long: `Plan an operation with the legacy and native planners and compare the
two plans after canonicalization.

Both planner command lines come from the config file. Alternatively,
--left and --right compare two pre-dumped plan JSON files directly,
without invoking any planner.

Exits 0 when the plans are equivalent, 1 when they diverge, and 2 on
operational failure (unreadable input, planner error).`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, req, err := buildCompareRun()
		if err != nil {
			return err
		}

		result, err := eng.Compare(context.Background(), req)
		if err != nil {
			return err
		}

		if jsonOutput {
			if err := outputJSON(result); err != nil {
				return err
			}
			if !result.Equivalent {
				return ErrDivergent
			}
			return nil
		}

		return formatCompareOutput(result)
	},
}

func init() {
	compareCmd.Flags().StringVarP(&compareSchemaPath, "schema", "s", "", "Supergraph schema file")
	compareCmd.Flags().StringVarP(&compareOperationPath, "operation", "o", "", "GraphQL operation file")
	compareCmd.Flags().StringVar(&compareLeftPath, "left", "", "Pre-dumped legacy plan JSON file")
	compareCmd.Flags().StringVar(&compareRightPath, "right", "", "Pre-dumped native plan JSON file")
	compareCmd.Flags().StringVarP(&compareConfigPath, "config", "c", "", "Config file (default: $QPDIFF_CONFIG)")
	compareCmd.Flags().BoolVar(&compareFailFast, "fail-fast", false, "Stop at the first mismatch")
	compareCmd.Flags().BoolVar(&compareDumpPlans, "dump-plans", false, "Print both canonical plans before the report")
}

// buildCompareRun resolves flags and config into an engine and request.
func buildCompareRun() (*engine.Engine, *engine.CompareRequest, error) {
	mode := compare.ModeExhaustive
	if compareFailFast {
		mode = compare.ModeFailFast
	}

	// File-vs-file comparison bypasses the planners entirely.
	if compareLeftPath != "" || compareRightPath != "" {
		if compareLeftPath == "" || compareRightPath == "" {
			return nil, nil, fmt.Errorf("--left and --right must be given together")
		}
		eng := engine.New(
			planner.NewFilePlanner("legacy", compareLeftPath),
			planner.NewFilePlanner("native", compareRightPath),
		)
		return eng, &engine.CompareRequest{Mode: mode}, nil
	}

	if compareSchemaPath == "" || compareOperationPath == "" {
		return nil, nil, fmt.Errorf("--schema and --operation are required unless comparing plan files")
	}

	cfg, err := config.Load(compareConfigPath)
	if err != nil {
		return nil, nil, err
	}
	if len(cfg.Legacy.Command) == 0 || len(cfg.Native.Command) == 0 {
		return nil, nil, fmt.Errorf("%w: both planner commands must be configured", engine.ErrNoInput)
	}

	schema, err := os.ReadFile(compareSchemaPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read schema: %w", err)
	}
	operation, err := os.ReadFile(compareOperationPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read operation: %w", err)
	}

	extraArgs := cfg.Options.PlannerArgs()
	eng := engine.New(
		planner.NewCommandPlanner("legacy", cfg.Legacy.Command, extraArgs),
		planner.NewCommandPlanner("native", cfg.Native.Command, extraArgs),
	)
	req := &engine.CompareRequest{
		Schema:    string(schema),
		Operation: string(operation),
		Mode:      mode,
	}
	return eng, req, nil
}

// formatCompareOutput formats the comparison result for display.
func formatCompareOutput(result *engine.CompareResult) error {
	for _, a := range result.Anomalies {
		PrintWarning(fmt.Sprintf("anomaly at %s: %s", a.Path, a.Reason))
	}

	if compareDumpPlans {
		_, _ = headerColor.Println("legacy plan:")
		fmt.Println(result.LeftText)
		fmt.Println()
		_, _ = headerColor.Println("native plan:")
		fmt.Println(result.RightText)
		fmt.Println()
	}

	if result.Equivalent {
		PrintSuccess("plans are equivalent")
		return nil
	}

	var b strings.Builder
	if err := report.Render(&b, result.Mismatches, report.DefaultSides); err != nil {
		return err
	}
	printReport(b.String())

	fmt.Println()
	var footer strings.Builder
	if err := report.RenderSummary(&footer, result.Summary); err != nil {
		return err
	}
	_, _ = dimColor.Print(footer.String())

	return ErrDivergent
}
