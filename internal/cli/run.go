package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.trai.ch/zerr"

	"github.com/wesleyorama2/schedbench/internal/bench/config"
	"github.com/wesleyorama2/schedbench/internal/bench/engine"
	"github.com/wesleyorama2/schedbench/internal/bench/output"
	"github.com/wesleyorama2/schedbench/internal/bench/report"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the benchmark",
	Long: `Run every configured strategy over one shared workload and print the
delivery log, the contexts each strategy used and the ranking.

Without --config the reference benchmark is used: 120 elements averaging
50ms, every 25th failing with a 200ms recovery, over Single, 10 Parallel,
100 Parallel, Bounded Elastic and Immediate.

Examples:
  schedbench run
  schedbench run --count 40 --seed 7 --sort
  schedbench run --config bench.yaml --output results/run
  schedbench run --baseline results/run.json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := runOptionsFromFlags(cmd)
		if err != nil {
			return err
		}
		return runBenchmark(cmd.Context(), opts, cmd.OutOrStdout())
	},
}

// runOptions holds the parsed flags of the run command.
type runOptions struct {
	ConfigFile       string
	Overrides        config.Overrides
	Quiet            bool
	JSON             bool
	HTML             bool
	Output           string
	Baseline         string
	Tolerance        float64
	FailOnRegression bool
}

func runOptionsFromFlags(cmd *cobra.Command) (runOptions, error) {
	flags := cmd.Flags()
	opts := runOptions{}
	opts.ConfigFile, _ = flags.GetString("config")
	opts.Quiet, _ = flags.GetBool("quiet")
	opts.JSON, _ = flags.GetBool("json")
	opts.HTML, _ = flags.GetBool("html")
	opts.Output, _ = flags.GetString("output")
	opts.Baseline, _ = flags.GetString("baseline")
	opts.Tolerance, _ = flags.GetFloat64("tolerance")
	opts.FailOnRegression, _ = flags.GetBool("fail-on-regression")

	if flags.Changed("name") {
		v, _ := flags.GetString("name")
		opts.Overrides.Name = &v
	}
	if flags.Changed("count") {
		v, _ := flags.GetInt("count")
		opts.Overrides.Count = &v
	}
	if flags.Changed("average-delay") {
		v, err := flags.GetDuration("average-delay")
		if err != nil {
			return opts, err
		}
		opts.Overrides.AverageDelay = &v
	}
	if flags.Changed("fail-every") {
		v, _ := flags.GetInt("fail-every")
		opts.Overrides.FailEvery = &v
	}
	if flags.Changed("fail-delay") {
		v, err := flags.GetDuration("fail-delay")
		if err != nil {
			return opts, err
		}
		opts.Overrides.FailDelay = &v
	}
	if flags.Changed("seed") {
		v, _ := flags.GetInt64("seed")
		opts.Overrides.Seed = &v
	}
	if flags.Changed("isolated") {
		v, _ := flags.GetBool("isolated")
		opts.Overrides.Isolated = &v
	}
	if flags.Changed("sort") {
		v, _ := flags.GetBool("sort")
		opts.Overrides.SortRanking = &v
	}

	return opts, nil
}

// loadConfig returns the file configuration or the reference benchmark,
// with command-line overrides applied.
func loadConfig(path string, overrides config.Overrides) (*config.BenchmarkConfig, error) {
	cfg := config.Default()
	if path != "" {
		var err error
		cfg, err = config.LoadConfig(path)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "failed to load configuration"), "path", path)
		}
	}
	cfg.ApplyOverrides(overrides)
	return cfg, nil
}

// runBenchmark runs the benchmark and writes every requested output.
func runBenchmark(ctx context.Context, opts runOptions, stdout io.Writer) error {
	cfg, err := loadConfig(opts.ConfigFile, opts.Overrides)
	if err != nil {
		return err
	}

	outputIsHTML := opts.HTML || strings.HasSuffix(strings.ToLower(opts.Output), ".html")
	outputIsJSON := opts.JSON || strings.HasSuffix(strings.ToLower(opts.Output), ".json")
	jsonToStdout := outputIsJSON && opts.Output == ""

	// stdout carries only the JSON document in that mode.
	consoleWriter := stdout
	if jsonToStdout {
		consoleWriter = io.Discard
	}
	console := output.NewConsole(output.ConsoleConfig{
		Writer: consoleWriter,
		Quiet:  opts.Quiet,
	})

	// Load the baseline first so a bad file fails before the run.
	var baseline *report.Baseline
	if opts.Baseline != "" {
		baseline, err = report.LoadBaseline(opts.Baseline)
		if err != nil {
			return err
		}
	}

	eng, err := engine.NewEngine(cfg, engine.Options{
		Logger:   appLogger.Slog(),
		Observer: console,
	})
	if err != nil {
		return err
	}

	result, err := eng.Run(ctx)
	if err != nil {
		return zerr.Wrap(err, "benchmark failed")
	}

	sorted := cfg.Options != nil && cfg.Options.SortRanking
	console.PrintSummary(result, sorted)

	switch {
	case outputIsJSON:
		if jsonToStdout {
			if err := report.WriteJSON(stdout, result); err != nil {
				return err
			}
		} else if err := saveJSON(result, opts.Output); err != nil {
			return err
		}
	case outputIsHTML:
		path := opts.Output
		if path == "" {
			path = generateDefaultHTMLPath(cfg.Name)
		}
		if err := saveHTML(result, sorted, path); err != nil {
			return err
		}
	case opts.Output != "":
		// If output path specified without extension, generate both HTML and JSON
		if err := saveHTML(result, sorted, opts.Output+".html"); err != nil {
			return err
		}
		if err := saveJSON(result, opts.Output+".json"); err != nil {
			return err
		}
	}

	if baseline != nil {
		cmp := report.Compare(baseline, report.FromResult(result), opts.Tolerance)
		console.PrintComparison(cmp)
		if cmp.FingerprintMismatch {
			appLogger.Warn("baseline was recorded with a different workload", "baseline", opts.Baseline)
		}
		if regressions := cmp.Regressions(); opts.FailOnRegression && len(regressions) > 0 {
			return fmt.Errorf("%d strategies slower than baseline", len(regressions))
		}
	}

	return nil
}

// generateDefaultHTMLPath creates a default HTML report path based on the benchmark name
func generateDefaultHTMLPath(name string) string {
	safeName := strings.ReplaceAll(name, " ", "-")
	safeName = strings.ReplaceAll(safeName, "/", "-")
	safeName = strings.ToLower(safeName)

	timestamp := time.Now().Format("20060102-150405")
	return fmt.Sprintf("bench-report-%s-%s.html", safeName, timestamp)
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	return nil
}

func saveJSON(result *engine.BenchmarkResult, path string) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	if err := report.SaveJSON(result, path); err != nil {
		return err
	}
	appLogger.Info("JSON report written", "path", path)
	return nil
}

func saveHTML(result *engine.BenchmarkResult, sorted bool, path string) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	if err := report.GenerateHTML(result, sorted, path); err != nil {
		return err
	}
	appLogger.Info("HTML report written", "path", path)
	return nil
}

func init() {
	runCmd.Flags().StringP("config", "c", "", "Benchmark configuration file (YAML or JSON)")
	runCmd.Flags().String("name", "", "Benchmark name")
	runCmd.Flags().IntP("count", "n", config.DefaultCount, "Number of elements")
	runCmd.Flags().Duration("average-delay", config.DefaultAverageDelay, "Average processing time per element")
	runCmd.Flags().Int("fail-every", config.DefaultFailEvery, "Element i fails when i % fail-every == fail-every-1")
	runCmd.Flags().Duration("fail-delay", config.DefaultFailDelay, "Recovery wait per failing element")
	runCmd.Flags().Int64("seed", 0, "Seed for reproducible durations (0 = random)")
	runCmd.Flags().Bool("isolated", false, "Run strategies one after another")
	runCmd.Flags().Bool("sort", false, "Sort the ranking by elapsed time")
	runCmd.Flags().BoolP("quiet", "q", false, "Suppress delivery lines")
	runCmd.Flags().Bool("json", false, "Write the JSON report (to stdout without --output)")
	runCmd.Flags().Bool("html", false, "Write the HTML report")
	runCmd.Flags().StringP("output", "o", "", "Report path (.json, .html, or a base name for both)")
	runCmd.Flags().String("baseline", "", "Compare against a saved JSON report")
	runCmd.Flags().Float64("tolerance", report.DefaultTolerance, "Relative change treated as unchanged in comparisons")
	runCmd.Flags().Bool("fail-on-regression", false, "Exit non-zero when a strategy is slower than the baseline")
}
