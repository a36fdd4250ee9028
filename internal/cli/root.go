package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wesleyorama2/schedbench/internal/logger"
)

var version = "0.1.0"

// appLogger is the application logger, configured from the persistent flags.
var appLogger = logger.New()

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:     "schedbench",
	Short:   "Compare concurrency strategies on a simulated blocking workload",
	Version: version,
	Long: `schedbench runs the same workload of blocking tasks through several
concurrency strategies at once (a single context, fixed parallel pools, a
bounded elastic pool and the caller's own context), keeping every strategy's
output in order and surviving injected failures, then ranks the strategies
by wall-clock time.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logJSON, _ := cmd.Flags().GetBool("log-json")
		verbose, _ := cmd.Flags().GetBool("verbose")
		appLogger.SetOutput(cmd.ErrOrStderr())
		appLogger.SetJSON(logJSON)
		appLogger.SetVerbose(verbose)
	},
	Run: func(cmd *cobra.Command, args []string) {
		// If no subcommand is provided, print help
		cmd.Help()
	},
}

// Execute runs the root command. Interrupts cancel the running benchmark,
// which still completes and reports.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := RootCmd.ExecuteContext(ctx); err != nil {
		appLogger.Error(err)
		return err
	}
	return nil
}

func init() {
	RootCmd.PersistentFlags().Bool("log-json", false, "Emit logs as JSON")
	RootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logs")

	// Add subcommands to root command
	RootCmd.AddCommand(runCmd)
	RootCmd.AddCommand(compareCmd)
	RootCmd.AddCommand(strategiesCmd)
}
