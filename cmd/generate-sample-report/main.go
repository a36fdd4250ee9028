package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/wesleyorama2/schedbench/internal/bench"
	"github.com/wesleyorama2/schedbench/internal/bench/engine"
	"github.com/wesleyorama2/schedbench/internal/bench/metrics"
	"github.com/wesleyorama2/schedbench/internal/bench/pipeline"
	"github.com/wesleyorama2/schedbench/internal/bench/report"
	"github.com/wesleyorama2/schedbench/internal/bench/scheduler"
)

func main() {
	result := createSampleResult()

	outputPath := "sample-report.html"
	if len(os.Args) > 1 {
		outputPath = os.Args[1]
	}

	if err := report.GenerateHTML(result, true, outputPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	jsonPath := strings.TrimSuffix(outputPath, ".html") + ".json"
	if err := report.SaveJSON(result, jsonPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Sample report generated: %s, %s\n", outputPath, jsonPath)
}

// createSampleResult builds a result shaped like a default run, without
// waiting for one.
func createSampleResult() *engine.BenchmarkResult {
	const count = 120
	now := time.Now()

	workload := bench.Generate(count, 50*time.Millisecond, bench.NewSeededRand(42))
	injector := bench.FailureInjector{Every: 25, Delay: 200 * time.Millisecond}
	failing := injector.FailingIndices(count)

	strategies := []struct {
		name     string
		typ      scheduler.Type
		elapsed  time.Duration
		contexts int
	}{
		{"Single", scheduler.TypeSingle, 6812 * time.Millisecond, 1},
		{"10 Parallel", scheduler.TypeParallel, 934 * time.Millisecond, 10},
		{"100 Parallel", scheduler.TypeParallel, 298 * time.Millisecond, 100},
		{"Bounded Elastic", scheduler.TypeBoundedElastic, 301 * time.Millisecond, 120},
		{"Immediate", scheduler.TypeImmediate, 6790 * time.Millisecond, 1},
	}

	result := &engine.BenchmarkResult{
		Name:        "Scheduler Benchmark - sample",
		Description: "Synthetic results for previewing the report layout",
		Mode:        engine.ModeConcurrent,
		StartTime:   now.Add(-7 * time.Second),
		EndTime:     now,
		Duration:    6812 * time.Millisecond,
		Workload: engine.WorkloadSummary{
			Count:          count,
			AverageDelay:   50 * time.Millisecond,
			FailEvery:      injector.Every,
			FailDelay:      injector.Delay,
			Seed:           42,
			Fingerprint:    workload.Fingerprint(),
			ReferenceTotal: workload.TotalWork(),
			Failing:        failing,
		},
	}

	for _, s := range strategies {
		r := &pipeline.Result{
			Name:             s.name,
			Type:             s.typ,
			StartTime:        result.StartTime,
			EndTime:          result.StartTime.Add(s.elapsed),
			Elapsed:          s.elapsed,
			UtilizedContexts: s.contexts,
			Skipped:          failing,
			Metrics: metrics.Snapshot{
				Delivered: int64(count - len(failing)),
				Skipped:   int64(len(failing)),
				TaskLatency: metrics.TaskLatency{
					Min:  time.Millisecond,
					Max:  298 * time.Millisecond,
					Mean: 56 * time.Millisecond,
					P50:  51 * time.Millisecond,
					P90:  90 * time.Millisecond,
					P99:  203 * time.Millisecond,
				},
			},
		}
		for i := 0; i < s.contexts; i++ {
			r.Contexts = append(r.Contexts, sampleContextID(s.typ, s.contexts, i+1))
		}
		for i := 0; i < count; i++ {
			if injector.Fails(i) {
				continue
			}
			r.Delivered = append(r.Delivered, pipeline.Delivery{
				Index:       i,
				ContextID:   r.Contexts[i%s.contexts],
				DeliveredBy: r.Contexts[i%s.contexts],
				Timestamp:   r.StartTime.Add(time.Duration(i) * s.elapsed / count),
			})
		}
		result.Strategies = append(result.Strategies, r)
	}

	return result
}

// sampleContextID mirrors the identities the pools hand out.
func sampleContextID(typ scheduler.Type, contexts, n int) string {
	switch typ {
	case scheduler.TypeImmediate:
		return bench.MainContextID
	case scheduler.TypeSingle:
		return fmt.Sprintf("single-%d", n)
	case scheduler.TypeBoundedElastic:
		return fmt.Sprintf("boundedElastic-%d", n)
	default:
		return fmt.Sprintf("%d-parallel-%d", contexts, n)
	}
}
