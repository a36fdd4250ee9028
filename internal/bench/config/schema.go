// Package config provides configuration parsing and validation for the scheduler benchmark.
package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// BenchmarkConfig is the root configuration of a benchmark run.
//
// Example YAML:
//
//	name: "Scheduler comparison"
//	workload:
//	  count: 120
//	  averageDelay: 50ms
//	  failEvery: 25
//	  failDelay: 200ms
//	strategies:
//	  - name: Single
//	    type: single
//	  - name: 10 Parallel
//	    type: parallel
//	    parallelism: 10
//	  - name: Immediate
//	    type: immediate
type BenchmarkConfig struct {
	// Name of the benchmark (for reporting)
	Name string `json:"name" yaml:"name"`

	// Description of the benchmark (optional)
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Workload defines the simulated tasks shared by every strategy
	Workload WorkloadConfig `json:"workload" yaml:"workload"`

	// Strategies are run in registration order; results are reported in the same order
	Strategies []StrategyConfig `json:"strategies" yaml:"strategies"`

	// Options for benchmark execution
	Options *ExecutionOptions `json:"options,omitempty" yaml:"options,omitempty"`
}

// WorkloadConfig defines the simulated workload and failure injection.
type WorkloadConfig struct {
	// Count is the number of tasks
	Count int `json:"count" yaml:"count"`

	// AverageDelay is the mean task duration; durations are drawn from [0, 2*AverageDelay)
	AverageDelay Duration `json:"averageDelay" yaml:"averageDelay"`

	// FailEvery makes task i fail when i % FailEvery == FailEvery-1
	FailEvery int `json:"failEvery" yaml:"failEvery"`

	// FailDelay is the recovery wait applied once per failing task
	FailDelay Duration `json:"failDelay" yaml:"failDelay"`

	// Seed makes durations reproducible; 0 seeds from the clock
	Seed int64 `json:"seed,omitempty" yaml:"seed,omitempty"`
}

// StrategyConfig defines one concurrency strategy under test.
type StrategyConfig struct {
	// Name is the display name, unique within the benchmark
	Name string `json:"name" yaml:"name"`

	// Type is the policy: "single", "parallel", "bounded-elastic" or "immediate"
	Type string `json:"type" yaml:"type"`

	// Parallelism is the context count for "parallel"
	Parallelism int `json:"parallelism,omitempty" yaml:"parallelism,omitempty"`

	// MaxWorkers caps "bounded-elastic" (default: 10 x GOMAXPROCS)
	MaxWorkers int `json:"maxWorkers,omitempty" yaml:"maxWorkers,omitempty"`

	// QueueCapacity bounds pending work for "bounded-elastic"
	QueueCapacity int `json:"queueCapacity,omitempty" yaml:"queueCapacity,omitempty"`

	// IdleTTL is how long an idle "bounded-elastic" context is kept
	IdleTTL Duration `json:"idleTTL,omitempty" yaml:"idleTTL,omitempty"`
}

// ExecutionOptions contains run-wide options.
type ExecutionOptions struct {
	// Isolated runs strategies one after another instead of concurrently
	Isolated bool `json:"isolated,omitempty" yaml:"isolated,omitempty"`

	// SortRanking orders the ranking table by elapsed time instead of registration order
	SortRanking bool `json:"sortRanking,omitempty" yaml:"sortRanking,omitempty"`
}

// Duration is a time.Duration that can be unmarshaled from JSON/YAML strings
// ("200ms") or from integer milliseconds (200).
type Duration time.Duration

// GetDuration returns the duration or a default if empty.
func (d Duration) GetDuration(defaultValue time.Duration) time.Duration {
	if d == 0 {
		return defaultValue
	}
	return time.Duration(d)
}

// MarshalJSON implements json.Marshaler.
func (d Duration) MarshalJSON() ([]byte, error) {
	return []byte(`"` + time.Duration(d).String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Duration) UnmarshalJSON(b []byte) error {
	// Remove quotes if present
	s := string(b)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}

	if s == "" || s == "null" {
		*d = 0
		return nil
	}

	dur, err := parseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}

	if s == "" {
		*d = 0
		return nil
	}

	dur, err := parseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

// String returns the duration as a string.
func (d Duration) String() string {
	return time.Duration(d).String()
}

// parseDuration accepts Go duration strings and bare integers (milliseconds).
func parseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Duration(ms) * time.Millisecond, nil
	}

	dur, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", s, err)
	}
	return dur, nil
}
