package benchmark

import (
	"context"
	"io"
	"log/slog"

	"github.com/wesleyorama2/schedbench/internal/bench"
	"github.com/wesleyorama2/schedbench/internal/bench/config"
	"github.com/wesleyorama2/schedbench/internal/bench/engine"
	"github.com/wesleyorama2/schedbench/internal/bench/pipeline"
	"github.com/wesleyorama2/schedbench/internal/bench/report"
)

// Configuration types.
type (
	Config           = config.BenchmarkConfig
	WorkloadConfig   = config.WorkloadConfig
	StrategyConfig   = config.StrategyConfig
	ExecutionOptions = config.ExecutionOptions
	Duration         = config.Duration
)

// Result types.
type (
	Result         = engine.BenchmarkResult
	StrategyResult = pipeline.Result
	Delivery       = pipeline.Delivery
	Baseline       = report.Baseline
	Comparison     = report.Comparison
	Delta          = report.Delta
)

// Observer types.
type (
	Observer      = pipeline.Observer
	NopObserver   = pipeline.NopObserver
	DeliveryEvent = pipeline.DeliveryEvent
	FailureEvent  = pipeline.FailureEvent
)

// DefaultTolerance is the relative change Compare treats as unchanged.
const DefaultTolerance = report.DefaultTolerance

var (
	// ErrInvalidConfig is returned by Run when the configuration fails validation.
	ErrInvalidConfig = bench.ErrInvalidConfig

	// ErrInvalidBaseline is returned by LoadBaseline for files that are not reports.
	ErrInvalidBaseline = report.ErrInvalidBaseline
)

// DefaultConfig returns the reference benchmark configuration.
func DefaultConfig() *Config {
	return config.Default()
}

// LoadConfig loads a configuration file (YAML or JSON by extension).
func LoadConfig(path string) (*Config, error) {
	return config.LoadConfig(path)
}

// Runner runs a benchmark with optional logging and event observation.
type Runner struct {
	config   *Config
	logger   *slog.Logger
	observer Observer
	engine   *engine.Engine
}

// NewRunner creates a runner for cfg.
func NewRunner(cfg *Config) *Runner {
	return &Runner{config: cfg}
}

// WithLogger sets the logger that receives orchestration and pipeline logs.
func (r *Runner) WithLogger(logger *slog.Logger) *Runner {
	r.logger = logger
	return r
}

// WithObserver sets the observer that receives pipeline events.
func (r *Runner) WithObserver(observer Observer) *Runner {
	r.observer = observer
	return r
}

// Run validates the configuration and runs every strategy over one shared
// workload. Cancelling ctx cuts simulated waits short; every strategy still
// completes and is reported.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	logger := r.logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	eng, err := engine.NewEngine(r.config, engine.Options{
		Logger:   logger,
		Observer: r.observer,
	})
	if err != nil {
		return nil, err
	}
	r.engine = eng

	return eng.Run(ctx)
}

// Utilization returns the number of distinct contexts each strategy has used
// so far. It may be called while Run is in progress.
func (r *Runner) Utilization() map[string]int {
	if r.engine == nil {
		return nil
	}
	return r.engine.Tracker().Counts()
}

// Run runs cfg without logging or observation.
func Run(ctx context.Context, cfg *Config) (*Result, error) {
	return NewRunner(cfg).Run(ctx)
}

// WriteJSON writes the JSON report of result.
func WriteJSON(w io.Writer, result *Result) error {
	return report.WriteJSON(w, result)
}

// LoadBaseline reads a JSON report written by WriteJSON or the CLI.
func LoadBaseline(path string) (*Baseline, error) {
	return report.LoadBaseline(path)
}

// Compare compares result against baseline. A tolerance of zero uses
// DefaultTolerance.
func Compare(baseline *Baseline, result *Result, tolerance float64) *Comparison {
	return report.Compare(baseline, report.FromResult(result), tolerance)
}
