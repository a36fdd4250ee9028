package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/wesleyorama2/schedbench/internal/bench/output"
	"github.com/wesleyorama2/schedbench/internal/bench/report"
)

var compareCmd = &cobra.Command{
	Use:   "compare <baseline.json> <current.json>",
	Short: "Compare two saved JSON reports",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		tolerance, _ := cmd.Flags().GetFloat64("tolerance")
		failOnRegression, _ := cmd.Flags().GetBool("fail-on-regression")
		return compareReports(args[0], args[1], tolerance, failOnRegression, cmd.OutOrStdout())
	},
}

func compareReports(baselinePath, currentPath string, tolerance float64, failOnRegression bool, stdout io.Writer) error {
	baseline, err := report.LoadBaseline(baselinePath)
	if err != nil {
		return err
	}
	current, err := report.LoadBaseline(currentPath)
	if err != nil {
		return err
	}

	cmp := report.Compare(baseline, current, tolerance)
	console := output.NewConsole(output.ConsoleConfig{Writer: stdout})
	console.PrintComparison(cmp)

	if regressions := cmp.Regressions(); failOnRegression && len(regressions) > 0 {
		return fmt.Errorf("%d strategies slower than baseline", len(regressions))
	}
	return nil
}

func init() {
	compareCmd.Flags().Float64("tolerance", report.DefaultTolerance, "Relative change treated as unchanged")
	compareCmd.Flags().Bool("fail-on-regression", false, "Exit non-zero when a strategy got slower")
}
