package engine

import (
	"sort"
	"time"

	"github.com/wesleyorama2/schedbench/internal/bench/pipeline"
)

// Mode describes how strategies were run.
type Mode string

const (
	// ModeConcurrent runs all strategies at the same time.
	ModeConcurrent Mode = "concurrent"
	// ModeIsolated runs strategies one after another.
	ModeIsolated Mode = "isolated"
)

// WorkloadSummary describes the workload every strategy processed.
type WorkloadSummary struct {
	Count          int           `json:"count"`
	AverageDelay   time.Duration `json:"averageDelay"`
	FailEvery      int           `json:"failEvery"`
	FailDelay      time.Duration `json:"failDelay"`
	Seed           int64         `json:"seed,omitempty"`
	Fingerprint    string        `json:"fingerprint"`
	ReferenceTotal time.Duration `json:"referenceTotal"`
	Failing        []int         `json:"failing"`
}

// BenchmarkResult contains the results of a complete benchmark run.
type BenchmarkResult struct {
	// Benchmark metadata
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Mode        Mode          `json:"mode"`
	StartTime   time.Time     `json:"startTime"`
	EndTime     time.Time     `json:"endTime"`
	Duration    time.Duration `json:"duration"`

	Workload WorkloadSummary `json:"workload"`

	// Strategy results in registration order
	Strategies []*pipeline.Result `json:"strategies"`
}

// Strategy returns the result for the named strategy, or nil.
func (r *BenchmarkResult) Strategy(name string) *pipeline.Result {
	for _, s := range r.Strategies {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// Ranking returns the strategy results for the ranking table. Unless sorted
// is set, registration order is kept; otherwise results are ordered by
// elapsed time, ties keeping registration order.
func (r *BenchmarkResult) Ranking(sorted bool) []*pipeline.Result {
	ranking := make([]*pipeline.Result, len(r.Strategies))
	copy(ranking, r.Strategies)
	if sorted {
		sort.SliceStable(ranking, func(i, j int) bool {
			return ranking[i].Elapsed < ranking[j].Elapsed
		})
	}
	return ranking
}

// Fastest returns the strategy with the shortest elapsed time, or nil.
func (r *BenchmarkResult) Fastest() *pipeline.Result {
	ranking := r.Ranking(true)
	if len(ranking) == 0 {
		return nil
	}
	return ranking[0]
}
