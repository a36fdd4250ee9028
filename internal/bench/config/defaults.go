package config

import (
	"time"

	"github.com/wesleyorama2/schedbench/internal/bench/scheduler"
)

// Defaults of the reference benchmark.
const (
	DefaultCount        = 120
	DefaultAverageDelay = 50 * time.Millisecond
	DefaultFailEvery    = 25
	DefaultFailDelay    = 200 * time.Millisecond
	DefaultName         = "Scheduler Benchmark"
)

// Default returns the reference benchmark: 120 tasks averaging 50ms, every
// 25th failing with a 200ms recovery, over five strategies. Immediate is
// registered last because it blocks the goroutine that starts it.
func Default() *BenchmarkConfig {
	return &BenchmarkConfig{
		Name: DefaultName,
		Workload: WorkloadConfig{
			Count:        DefaultCount,
			AverageDelay: Duration(DefaultAverageDelay),
			FailEvery:    DefaultFailEvery,
			FailDelay:    Duration(DefaultFailDelay),
		},
		Strategies: DefaultStrategies(),
		Options:    &ExecutionOptions{},
	}
}

// DefaultStrategies returns the reference strategy list.
func DefaultStrategies() []StrategyConfig {
	return []StrategyConfig{
		{Name: "Single", Type: string(scheduler.TypeSingle)},
		{Name: "10 Parallel", Type: string(scheduler.TypeParallel), Parallelism: 10},
		{Name: "100 Parallel", Type: string(scheduler.TypeParallel), Parallelism: 100},
		{Name: "Bounded Elastic", Type: string(scheduler.TypeBoundedElastic)},
		{Name: "Immediate", Type: string(scheduler.TypeImmediate)},
	}
}

// ApplyDefaults fills in values left empty after parsing.
func ApplyDefaults(cfg *BenchmarkConfig) {
	if cfg.Name == "" {
		cfg.Name = DefaultName
	}
	if len(cfg.Strategies) == 0 {
		cfg.Strategies = DefaultStrategies()
	}
	if cfg.Options == nil {
		cfg.Options = &ExecutionOptions{}
	}
}

// SchedulerConfig converts a strategy entry to a scheduler configuration.
func (s StrategyConfig) SchedulerConfig() scheduler.Config {
	return scheduler.Config{
		Name:          s.Name,
		Type:          scheduler.Type(s.Type),
		Parallelism:   s.Parallelism,
		MaxWorkers:    s.MaxWorkers,
		QueueCapacity: s.QueueCapacity,
		IdleTTL:       s.IdleTTL.GetDuration(scheduler.DefaultIdleTTL),
	}
}
