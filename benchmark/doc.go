// Package benchmark is the library entry point of schedbench: it runs a
// scheduler benchmark programmatically and exposes the result types.
//
// # Quick Start
//
// The reference benchmark runs with the defaults:
//
//	result, _ := benchmark.Run(context.Background(), benchmark.DefaultConfig())
//	for _, s := range result.Ranking(true) {
//	    fmt.Printf("%s: %dms\n", s.Name, s.ElapsedMillis())
//	}
//
// # Custom Configuration
//
// Configurations can be loaded from YAML or JSON, or built in code:
//
//	cfg := &benchmark.Config{
//	    Name: "parallel only",
//	    Workload: benchmark.WorkloadConfig{
//	        Count:        40,
//	        AverageDelay: benchmark.Duration(20 * time.Millisecond),
//	        FailEvery:    10,
//	        FailDelay:    benchmark.Duration(50 * time.Millisecond),
//	    },
//	    Strategies: []benchmark.StrategyConfig{
//	        {Name: "4 Parallel", Type: "parallel", Parallelism: 4},
//	        {Name: "Elastic", Type: "bounded-elastic", MaxWorkers: 8},
//	    },
//	}
//
// # Observing a Run
//
// A Runner forwards pipeline events to an Observer while strategies run.
// Embed NopObserver to handle only some of them:
//
//	type printer struct{ benchmark.NopObserver }
//
//	func (printer) OnCompleted(r *benchmark.StrategyResult) {
//	    fmt.Println(r.Name, r.Elapsed)
//	}
//
//	runner := benchmark.NewRunner(cfg).WithObserver(printer{})
//	result, err := runner.Run(ctx)
//
// # Baselines
//
// Results can be written as JSON and compared against a previous run:
//
//	baseline, _ := benchmark.LoadBaseline("results/nightly.json")
//	cmp := benchmark.Compare(baseline, result, benchmark.DefaultTolerance)
//	if len(cmp.Regressions()) > 0 {
//	    // ...
//	}
package benchmark
