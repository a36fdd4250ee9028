// Package engine orchestrates a benchmark: it runs every strategy's pipeline
// over one shared workload and collects the results.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"

	"github.com/wesleyorama2/schedbench/internal/bench"
	"github.com/wesleyorama2/schedbench/internal/bench/config"
	"github.com/wesleyorama2/schedbench/internal/bench/pipeline"
	"github.com/wesleyorama2/schedbench/internal/bench/scheduler"
)

// Engine is the benchmark orchestrator.
//
// It coordinates:
//   - Workload generation (once, shared by all strategies)
//   - Scheduler and pipeline construction per strategy
//   - Concurrent or isolated dispatch
//   - The completion barrier and result collection
//
// Example usage:
//
//	cfg, _ := config.LoadConfig("bench.yaml")
//	eng, _ := NewEngine(cfg, Options{})
//	result, _ := eng.Run(context.Background())
//	fmt.Println(result.Fastest().Name)
type Engine struct {
	config   *config.BenchmarkConfig
	logger   *slog.Logger
	observer pipeline.Observer
	tracker  *bench.UtilizationTracker

	mu      sync.Mutex
	running bool
}

// Options holds the collaborators of an engine.
type Options struct {
	// Logger receives orchestration and pipeline logs. Defaults to slog.Default().
	Logger *slog.Logger

	// Observer receives pipeline events of every strategy. Optional.
	Observer pipeline.Observer
}

// runner pairs a strategy with the pipeline running it.
type runner struct {
	strategy  config.StrategyConfig
	scheduler scheduler.Scheduler
	pipeline  *pipeline.Pipeline
}

// NewEngine creates an engine. Returns an error if the configuration is invalid.
func NewEngine(cfg *config.BenchmarkConfig, opts Options) (*Engine, error) {
	config.ApplyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", bench.ErrInvalidConfig, err)
	}

	e := &Engine{
		config:   cfg,
		logger:   opts.Logger,
		observer: opts.Observer,
		tracker:  bench.NewUtilizationTracker(),
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	if e.observer == nil {
		e.observer = pipeline.NopObserver{}
	}
	return e, nil
}

// Tracker returns the utilization tracker shared by all strategies.
func (e *Engine) Tracker() *bench.UtilizationTracker {
	return e.tracker
}

// Run generates the workload and runs every strategy over it.
func (e *Engine) Run(ctx context.Context) (*BenchmarkResult, error) {
	w := e.config.Workload
	workload := bench.Generate(w.Count, time.Duration(w.AverageDelay), bench.NewSeededRand(w.Seed))
	return e.RunWorkload(ctx, workload)
}

// RunWorkload runs every strategy over the given workload.
//
// The orchestrator itself is the "main" context: an immediate strategy runs
// its tasks on the goroutine calling RunWorkload. Cancelling ctx cuts the
// simulated waits short; every pipeline still completes and is reported.
func (e *Engine) RunWorkload(ctx context.Context, workload *bench.Workload) (*BenchmarkResult, error) {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return nil, fmt.Errorf("engine is already running")
	}
	e.running = true
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		e.running = false
		e.mu.Unlock()
	}()

	ctx = bench.WithContextID(ctx, bench.MainContextID)
	injector := bench.FailureInjector{
		Every: e.config.Workload.FailEvery,
		Delay: time.Duration(e.config.Workload.FailDelay),
	}

	mode := ModeConcurrent
	if e.config.Options != nil && e.config.Options.Isolated {
		mode = ModeIsolated
	}

	e.logger.Info("starting benchmark",
		"name", e.config.Name,
		"mode", string(mode),
		"tasks", workload.Len(),
		"strategies", len(e.config.Strategies),
		"fingerprint", workload.Fingerprint())

	start := time.Now()

	var (
		collected map[string]*pipeline.Result
		err       error
	)
	if mode == ModeIsolated {
		collected, err = e.runIsolated(ctx, workload, injector)
	} else {
		collected, err = e.runConcurrently(ctx, workload, injector)
	}
	if err != nil {
		return nil, err
	}

	end := time.Now()
	result := &BenchmarkResult{
		Name:        e.config.Name,
		Description: e.config.Description,
		Mode:        mode,
		StartTime:   start,
		EndTime:     end,
		Duration:    end.Sub(start),
		Workload: WorkloadSummary{
			Count:          workload.Len(),
			AverageDelay:   workload.AverageDelay,
			FailEvery:      injector.Every,
			FailDelay:      injector.Delay,
			Seed:           e.config.Workload.Seed,
			Fingerprint:    workload.Fingerprint(),
			ReferenceTotal: workload.TotalWork(),
			Failing:        injector.FailingIndices(workload.Len()),
		},
		Strategies: make([]*pipeline.Result, 0, len(e.config.Strategies)),
	}
	for _, s := range e.config.Strategies {
		if r, ok := collected[s.Name]; ok {
			result.Strategies = append(result.Strategies, r)
		}
	}

	e.logger.Info("benchmark completed",
		"name", e.config.Name,
		"duration", result.Duration.String())

	return result, nil
}

// build creates a scheduler and pipeline per strategy, in registration order.
// The pipelines report into collect.
func (e *Engine) build(workload *bench.Workload, injector bench.FailureInjector, collect func(*pipeline.Result)) ([]*runner, error) {
	runners := make([]*runner, 0, len(e.config.Strategies))
	for _, s := range e.config.Strategies {
		sched, err := scheduler.New(s.SchedulerConfig(), e.logger)
		if err != nil {
			for _, r := range runners {
				r.scheduler.Dispose()
			}
			return nil, zerr.With(zerr.Wrap(err, "failed to create scheduler"), "strategy", s.Name)
		}

		runners = append(runners, &runner{
			strategy:  s,
			scheduler: sched,
			pipeline:  pipeline.New(pipeline.Options{
				Scheduler:  sched,
				Workload:   workload,
				Injector:   injector,
				Tracker:    e.tracker,
				Observer:   e.observer,
				Logger:     e.logger,
				OnComplete: collect,
			}),
		})
	}
	return runners, nil
}

// runConcurrently starts every pooled strategy at once, then the immediate
// ones on the orchestrator goroutine, and waits on the completion barrier.
func (e *Engine) runConcurrently(ctx context.Context, workload *bench.Workload, injector bench.FailureInjector) (map[string]*pipeline.Result, error) {
	barrier := NewBarrier(len(e.config.Strategies))
	results := newCollector()

	runners, err := e.build(workload, injector, func(r *pipeline.Result) {
		results.put(r)
		if err := barrier.Signal(r.Name); err != nil {
			e.logger.Error("completion signaled twice", "strategy", r.Name, "error", err)
		}
	})
	if err != nil {
		return nil, err
	}

	var pooled, immediate []*runner
	for _, r := range runners {
		if r.strategy.Type == string(scheduler.TypeImmediate) {
			immediate = append(immediate, r)
		} else {
			pooled = append(pooled, r)
		}
	}

	// Start may block on scheduler backpressure, so pooled strategies are
	// dispatched from their own goroutines.
	var g errgroup.Group
	for _, r := range pooled {
		g.Go(func() error {
			e.logger.Debug("dispatching strategy", "strategy", r.strategy.Name, "type", r.strategy.Type)
			return r.pipeline.Start(ctx)
		})
	}

	// An immediate pipeline occupies this goroutine until it completes.
	for _, r := range immediate {
		e.logger.Debug("dispatching strategy", "strategy", r.strategy.Name, "type", r.strategy.Type)
		if err := r.pipeline.Start(ctx); err != nil {
			return nil, zerr.Wrap(err, "failed to dispatch strategy")
		}
	}

	if err := g.Wait(); err != nil {
		return nil, zerr.Wrap(err, "failed to dispatch strategies")
	}

	e.awaitCompletion(ctx, barrier)
	return results.snapshot(), nil
}

// awaitCompletion waits for every strategy. Cancellation only shortens the
// simulated waits, so the wait continues after ctx is done.
func (e *Engine) awaitCompletion(ctx context.Context, barrier *Barrier) {
	if err := barrier.WaitContext(ctx); err != nil {
		e.logger.Warn("benchmark interrupted, waiting for running strategies",
			"remaining", barrier.Remaining(), "error", err)
		barrier.Wait()
	}
}

// runIsolated runs strategies one at a time in registration order.
func (e *Engine) runIsolated(ctx context.Context, workload *bench.Workload, injector bench.FailureInjector) (map[string]*pipeline.Result, error) {
	results := newCollector()

	runners, err := e.build(workload, injector, results.put)
	if err != nil {
		return nil, err
	}

	for _, r := range runners {
		e.logger.Debug("dispatching strategy", "strategy", r.strategy.Name, "type", r.strategy.Type)
		if err := r.pipeline.Start(ctx); err != nil {
			return nil, zerr.Wrap(err, "failed to dispatch strategy")
		}
		<-r.pipeline.Done()
	}

	return results.snapshot(), nil
}

// collector stores completed results keyed by strategy name.
type collector struct {
	mu      sync.Mutex
	results map[string]*pipeline.Result
}

func newCollector() *collector {
	return &collector{results: make(map[string]*pipeline.Result)}
}

func (c *collector) put(r *pipeline.Result) {
	c.mu.Lock()
	c.results[r.Name] = r
	c.mu.Unlock()
}

func (c *collector) snapshot() map[string]*pipeline.Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]*pipeline.Result, len(c.results))
	for k, v := range c.results {
		out[k] = v
	}
	return out
}
