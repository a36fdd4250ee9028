package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/wesleyorama2/schedbench/internal/bench/config"
	"github.com/wesleyorama2/schedbench/internal/bench/scheduler"
)

var strategiesCmd = &cobra.Command{
	Use:   "strategies",
	Short: "Describe the strategy types and the configured strategies",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		configFile, _ := cmd.Flags().GetString("config")
		cfg, err := loadConfig(configFile, config.Overrides{})
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		printStrategies(cmd.OutOrStdout(), cfg)
		return nil
	},
}

func printStrategies(w io.Writer, cfg *config.BenchmarkConfig) {
	fmt.Fprintln(w, "Strategy types:")
	for _, t := range scheduler.SupportedTypes() {
		d := scheduler.Describe(t)
		fmt.Fprintf(w, "\n  %s (%s)\n", d.Name, d.Type)
		fmt.Fprintf(w, "    %s\n", d.Description)
		for _, uc := range d.UseCases {
			fmt.Fprintf(w, "    - %s\n", uc)
		}
	}

	fmt.Fprintf(w, "\nConfigured strategies (%s):\n", cfg.Name)
	for i, s := range cfg.Strategies {
		sc := s.SchedulerConfig()
		fmt.Fprintf(w, "  %d. %-20s %-16s max contexts: %d\n", i+1, s.Name, s.Type, scheduler.MaxContexts(sc))
	}

	fmt.Fprintf(w, "\nWorkload: %d elements, %s average, fail every %d, %s on fail\n",
		cfg.Workload.Count, cfg.Workload.AverageDelay, cfg.Workload.FailEvery, cfg.Workload.FailDelay)
}

func init() {
	strategiesCmd.Flags().StringP("config", "c", "", "Benchmark configuration file (YAML or JSON)")
}
