package pipeline_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/wesleyorama2/schedbench/internal/bench"
	"github.com/wesleyorama2/schedbench/internal/bench/pipeline"
	"github.com/wesleyorama2/schedbench/internal/bench/pipeline/mocks"
	"github.com/wesleyorama2/schedbench/internal/bench/scheduler"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

// uniform returns a workload of count tasks that all block for d.
func uniform(count int, d time.Duration) *bench.Workload {
	tasks := make([]bench.Task, count)
	for i := range tasks {
		tasks[i] = bench.Task{Index: i, Duration: d}
	}
	return &bench.Workload{Tasks: tasks, AverageDelay: d}
}

// run starts a pipeline and waits for its result.
func run(t *testing.T, opts pipeline.Options) *pipeline.Result {
	t.Helper()

	if opts.Logger == nil {
		opts.Logger = discard
	}
	p := pipeline.New(opts)
	require.NoError(t, p.Start(bench.WithContextID(context.Background(), bench.MainContextID)))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()
	result, err := p.Wait(ctx)
	require.NoError(t, err)
	return result
}

func TestPipeline_SingleSkipsFailingTasks(t *testing.T) {
	result := run(t, pipeline.Options{
		Scheduler: scheduler.NewSingle("Single", discard),
		Workload:  uniform(10, 0),
		Injector:  bench.FailureInjector{Every: 5, Delay: 100 * time.Millisecond},
	})

	assert.Equal(t, []int{0, 1, 2, 3, 5, 6, 7, 8}, result.Values())
	assert.Equal(t, []int{4, 9}, result.Skipped)
	assert.Equal(t, 1, result.UtilizedContexts)
	assert.Equal(t, []string{"single-1"}, result.Contexts)

	// Two serial recoveries of 100ms each.
	assert.GreaterOrEqual(t, result.Elapsed, 200*time.Millisecond)
	assert.Less(t, result.Elapsed, 2*time.Second)

	assert.Equal(t, int64(8), result.Metrics.Delivered)
	assert.Equal(t, int64(2), result.Metrics.Skipped)
	assert.Equal(t, int64(2), result.Metrics.Recoveries)

	for _, d := range result.Delivered {
		assert.Equal(t, "single-1", d.ContextID)
		assert.Equal(t, "single-1", d.DeliveredBy)
	}
}

func TestPipeline_ParallelKeepsOrder(t *testing.T) {
	workload := uniform(10, 0)
	injector := bench.FailureInjector{Every: 5, Delay: 100 * time.Millisecond}

	result := run(t, pipeline.Options{
		Scheduler: scheduler.NewParallel("3 Parallel", 3, discard),
		Workload:  workload,
		Injector:  injector,
	})

	assert.Equal(t, []int{0, 1, 2, 3, 5, 6, 7, 8}, result.Values())
	assert.Equal(t, []int{4, 9}, result.Skipped)
	assert.GreaterOrEqual(t, result.UtilizedContexts, 1)
	assert.LessOrEqual(t, result.UtilizedContexts, 3)

	// The two recoveries land on different contexts and overlap, while a
	// single context serializes them.
	single := run(t, pipeline.Options{
		Scheduler: scheduler.NewSingle("Single", discard),
		Workload:  workload,
		Injector:  injector,
	})
	assert.LessOrEqual(t, result.Elapsed, single.Elapsed)
}

func TestPipeline_ElasticWorkloadLargerThanQueue(t *testing.T) {
	workload := bench.Generate(40, time.Millisecond, bench.NewSeededRand(5))
	injector := bench.FailureInjector{Every: 25, Delay: 5 * time.Millisecond}

	result := run(t, pipeline.Options{
		Scheduler: scheduler.NewBoundedElastic("Bounded Elastic", 2, 10, 0, discard),
		Workload:  workload,
		Injector:  injector,
	})

	want := make([]int, 0, 39)
	for i := 0; i < 40; i++ {
		if i != 24 {
			want = append(want, i)
		}
	}
	assert.Equal(t, want, result.Values())
	assert.Equal(t, []int{24}, result.Skipped)
	assert.Equal(t, int64(0), result.Metrics.TerminalErrors)
	assert.LessOrEqual(t, result.UtilizedContexts, 2)
}

func TestPipeline_SingleTaskNeverFails(t *testing.T) {
	result := run(t, pipeline.Options{
		Scheduler: scheduler.NewSingle("Single", discard),
		Workload:  uniform(1, 0),
		Injector:  bench.FailureInjector{Every: 25, Delay: 200 * time.Millisecond},
	})

	assert.Equal(t, []int{0}, result.Values())
	assert.Empty(t, result.Skipped)
	assert.Less(t, result.Elapsed, 200*time.Millisecond)
}

func TestPipeline_RandomDurationsDeliverInOrder(t *testing.T) {
	workload := bench.Generate(60, 10*time.Millisecond, bench.NewSeededRand(3))
	injector := bench.FailureInjector{Every: 7, Delay: 20 * time.Millisecond}
	want := make([]int, 0, 60)
	for i := 0; i < 60; i++ {
		if !injector.Fails(i) {
			want = append(want, i)
		}
	}

	tests := []struct {
		name  string
		sched func() scheduler.Scheduler
		max   int
	}{
		{name: "parallel", sched: func() scheduler.Scheduler { return scheduler.NewParallel("10 Parallel", 10, discard) }, max: 10},
		{name: "elastic", sched: func() scheduler.Scheduler {
			return scheduler.NewBoundedElastic("Bounded Elastic", 8, 0, 0, discard)
		}, max: 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := run(t, pipeline.Options{
				Scheduler: tt.sched(),
				Workload:  workload,
				Injector:  injector,
			})

			assert.Equal(t, want, result.Values())
			assert.Equal(t, injector.FailingIndices(60), result.Skipped)
			assert.LessOrEqual(t, result.UtilizedContexts, tt.max)
		})
	}
}

func TestPipeline_ImmediateRunsOnCaller(t *testing.T) {
	var completed atomic.Int32
	p := pipeline.New(pipeline.Options{
		Scheduler:  scheduler.NewImmediate("Immediate"),
		Workload:   uniform(6, time.Millisecond),
		Injector:   bench.FailureInjector{Every: 3, Delay: 5 * time.Millisecond},
		Logger:     discard,
		OnComplete: func(*pipeline.Result) { completed.Add(1) },
	})

	require.NoError(t, p.Start(bench.WithContextID(context.Background(), bench.MainContextID)))

	// Start returned, so every task already ran on this goroutine.
	select {
	case <-p.Done():
	default:
		t.Fatal("immediate pipeline should complete inside Start")
	}
	result, err := p.Wait(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int32(1), completed.Load())
	assert.Equal(t, []string{bench.MainContextID}, result.Contexts)
	assert.Equal(t, []int{0, 1, 3, 4}, result.Values())
	assert.Equal(t, []int{2, 5}, result.Skipped)
}

func TestPipeline_PanickingBodyIsSkipped(t *testing.T) {
	result := run(t, pipeline.Options{
		Scheduler: scheduler.NewParallel("2 Parallel", 2, discard),
		Workload:  uniform(5, 0),
		Injector:  bench.FailureInjector{Every: 100},
		Body: func(_ context.Context, task bench.Task, _ string) error {
			if task.Index == 2 {
				panic("boom")
			}
			return nil
		},
	})

	assert.Equal(t, []int{0, 1, 3, 4}, result.Values())
	assert.Equal(t, []int{2}, result.Skipped)
	assert.Equal(t, int64(1), result.Metrics.Recoveries)
}

func TestPipeline_BodyErrorIsSkipped(t *testing.T) {
	errBody := errors.New("body failed")
	result := run(t, pipeline.Options{
		Scheduler: scheduler.NewSingle("Single", discard),
		Workload:  uniform(3, 0),
		Body: func(_ context.Context, task bench.Task, _ string) error {
			if task.Index == 0 {
				return errBody
			}
			return nil
		},
	})

	assert.Equal(t, []int{1, 2}, result.Values())
	assert.Equal(t, []int{0}, result.Skipped)
}

func TestPipeline_SchedulerRejectionStillCompletes(t *testing.T) {
	sched := scheduler.NewSingle("Single", discard)
	sched.Dispose()

	var completed atomic.Int32
	result := run(t, pipeline.Options{
		Scheduler:  sched,
		Workload:   uniform(4, 0),
		Injector:   bench.FailureInjector{Every: 25},
		OnComplete: func(*pipeline.Result) { completed.Add(1) },
	})

	assert.Empty(t, result.Values())
	assert.Equal(t, []int{0, 1, 2, 3}, result.Skipped)
	assert.Equal(t, int64(4), result.Metrics.TerminalErrors)
	assert.Equal(t, int32(1), completed.Load())
}

func TestPipeline_EmptyWorkloadCompletesImmediately(t *testing.T) {
	sched := scheduler.NewSingle("Single", discard)
	result := run(t, pipeline.Options{
		Scheduler: sched,
		Workload:  uniform(0, 0),
	})

	assert.Empty(t, result.Values())
	assert.Empty(t, result.Skipped)
	assert.True(t, sched.IsDisposed())
}

func TestPipeline_StartTwice(t *testing.T) {
	p := pipeline.New(pipeline.Options{
		Scheduler: scheduler.NewSingle("Single", discard),
		Workload:  uniform(2, 0),
		Logger:    discard,
	})

	require.NoError(t, p.Start(context.Background()))
	err := p.Start(context.Background())
	assert.ErrorIs(t, err, bench.ErrPipelineStarted)

	<-p.Done()
}

func TestPipeline_DisposesSchedulerAndSetsStates(t *testing.T) {
	sched := scheduler.NewParallel("2 Parallel", 2, discard)
	p := pipeline.New(pipeline.Options{
		Scheduler: sched,
		Workload:  uniform(4, 0),
		Injector:  bench.FailureInjector{Every: 2, Delay: time.Millisecond},
		Logger:    discard,
	})
	assert.Equal(t, pipeline.StatePending, p.State(0))

	require.NoError(t, p.Start(context.Background()))
	<-p.Done()

	assert.True(t, sched.IsDisposed())
	assert.Equal(t, pipeline.StateDelivered, p.State(0))
	assert.Equal(t, pipeline.StateSkipped, p.State(1))
	assert.Equal(t, pipeline.StatePending, p.State(99))
}

func TestPipeline_CancelledContextStillCompletes(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := pipeline.New(pipeline.Options{
		Scheduler: scheduler.NewParallel("2 Parallel", 2, discard),
		Workload:  uniform(6, time.Second),
		Injector:  bench.FailureInjector{Every: 3, Delay: time.Second},
		Logger:    discard,
	})
	require.NoError(t, p.Start(ctx))

	waitCtx, waitCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer waitCancel()
	result, err := p.Wait(waitCtx)
	require.NoError(t, err)

	assert.Equal(t, []int{0, 1, 3, 4}, result.Values())
	assert.Positive(t, result.Metrics.InterruptedWaits)
}

func TestPipeline_ObserverEvents(t *testing.T) {
	ctrl := gomock.NewController(t)
	observer := mocks.NewMockObserver(ctrl)

	var mu sync.Mutex
	var delivered []int
	observer.EXPECT().OnDelivered(gomock.Any()).Times(3).Do(func(e pipeline.DeliveryEvent) {
		mu.Lock()
		delivered = append(delivered, e.Delivery.Index)
		mu.Unlock()
		assert.Equal(t, "Single", e.Strategy)
	})
	observer.EXPECT().OnFailure(gomock.Any()).Times(1).Do(func(e pipeline.FailureEvent) {
		assert.Equal(t, 2, e.Index)
		assert.Equal(t, "single-1", e.ContextID)
		assert.ErrorIs(t, e.Err, bench.ErrInjectedTaskFailure)
	})
	observer.EXPECT().OnRecovered(gomock.Any()).Times(1)
	observer.EXPECT().OnCompleted(gomock.Any()).Times(1).Do(func(r *pipeline.Result) {
		assert.Equal(t, []int{2}, r.Skipped)
	})
	observer.EXPECT().OnTerminalError(gomock.Any(), gomock.Any()).Times(0)

	run(t, pipeline.Options{
		Scheduler: scheduler.NewSingle("Single", discard),
		Workload:  uniform(4, 0),
		Injector:  bench.FailureInjector{Every: 3, Delay: time.Millisecond},
		Observer:  observer,
	})

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []int{0, 1, 3}, delivered)
}

// gatedObserver blocks the first delivery until gate is closed and records
// the order of events.
type gatedObserver struct {
	pipeline.NopObserver

	gate    chan struct{}
	blocked chan struct{}
	once    sync.Once

	mu     sync.Mutex
	events []string
}

func (o *gatedObserver) OnDelivered(e pipeline.DeliveryEvent) {
	o.once.Do(func() {
		close(o.blocked)
		<-o.gate
	})
	o.mu.Lock()
	o.events = append(o.events, string(rune('0'+e.Delivery.Index)))
	o.mu.Unlock()
}

func (o *gatedObserver) OnCompleted(*pipeline.Result) {
	o.mu.Lock()
	o.events = append(o.events, "done")
	o.mu.Unlock()
}

func TestPipeline_SlowObserverDoesNotBlockRelease(t *testing.T) {
	workload := &bench.Workload{Tasks: []bench.Task{
		{Index: 0},
		{Index: 1, Duration: 20 * time.Millisecond},
		{Index: 2, Duration: 20 * time.Millisecond},
		{Index: 3, Duration: 20 * time.Millisecond},
	}}
	obs := &gatedObserver{gate: make(chan struct{}), blocked: make(chan struct{})}

	p := pipeline.New(pipeline.Options{
		Scheduler: scheduler.NewParallel("4 Parallel", 4, discard),
		Workload:  workload,
		Injector:  bench.FailureInjector{Every: 100},
		Observer:  obs,
		Logger:    discard,
	})
	require.NoError(t, p.Start(context.Background()))
	<-obs.blocked

	// Later tasks are released while the first notification is still running.
	require.Eventually(t, func() bool {
		return p.State(1) == pipeline.StateDelivered &&
			p.State(2) == pipeline.StateDelivered &&
			p.State(3) == pipeline.StateDelivered
	}, 2*time.Second, 5*time.Millisecond)

	select {
	case <-p.Done():
		t.Fatal("pipeline completed before its deliveries were notified")
	default:
	}

	close(obs.gate)
	<-p.Done()

	obs.mu.Lock()
	defer obs.mu.Unlock()
	assert.Equal(t, []string{"0", "1", "2", "3", "done"}, obs.events)
}
