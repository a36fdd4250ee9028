// Package pipeline runs one strategy's ordered, concurrent and fault-tolerant
// execution of the benchmark workload.
//
// Every task is submitted to the strategy's scheduler. On its context a task
// registers the context, simulates blocking work and runs the failure check.
// A failure is intercepted at the task boundary: the context waits the
// recovery delay and the task is skipped, never retried. Settled tasks pass
// through a reorder buffer so values are delivered strictly by index even
// when tasks finish out of order. When the last task settles the scheduler
// is disposed and the completion callback fires exactly once.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"go.trai.ch/zerr"

	"github.com/wesleyorama2/schedbench/internal/bench"
	"github.com/wesleyorama2/schedbench/internal/bench/metrics"
	"github.com/wesleyorama2/schedbench/internal/bench/scheduler"
)

// TaskState is the lifecycle state of a task inside a pipeline.
type TaskState int32

const (
	// StatePending means the task has not been submitted.
	StatePending TaskState = iota
	// StateDispatched means the task was handed to the scheduler.
	StateDispatched
	// StateSucceeded means the task produced a value that awaits release.
	StateSucceeded
	// StateFailedRecovering means the task failed and its context is recovering.
	StateFailedRecovering
	// StateDelivered means the task's value was released.
	StateDelivered
	// StateSkipped means the task's slot was released without a value.
	StateSkipped
)

func (s TaskState) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateDispatched:
		return "dispatched"
	case StateSucceeded:
		return "succeeded"
	case StateFailedRecovering:
		return "failed-recovering"
	case StateDelivered:
		return "delivered"
	case StateSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// TaskFunc is the body of a task, run on its execution context after the
// context has been registered. A returned error or a panic is a per-task
// failure.
type TaskFunc func(ctx context.Context, task bench.Task, contextID string) error

// Options configures a pipeline.
type Options struct {
	// Scheduler runs the tasks. The pipeline disposes it on completion.
	Scheduler scheduler.Scheduler

	// Workload is the shared, read-only task sequence.
	Workload *bench.Workload

	// Injector decides which tasks fail and how long recovery takes.
	Injector bench.FailureInjector

	// Tracker records the contexts used. A private tracker is used if nil.
	Tracker *bench.UtilizationTracker

	// Observer receives events. Optional.
	Observer Observer

	// Logger receives failure, recovery and interruption logs. Optional.
	Logger *slog.Logger

	// Body replaces the default task body (simulated wait + failure check).
	Body TaskFunc

	// OnComplete is called exactly once with the frozen result.
	OnComplete func(*Result)
}

// Pipeline runs one strategy over the workload.
type Pipeline struct {
	name       string
	sched      scheduler.Scheduler
	tasks      []bench.Task
	injector   bench.FailureInjector
	tracker    *bench.UtilizationTracker
	observer   Observer
	logger     *slog.Logger
	body       TaskFunc
	onComplete func(*Result)
	recorder   *metrics.Recorder

	states  []atomic.Int32
	started atomic.Bool

	mu        sync.Mutex
	emitMu    sync.Mutex
	buffer    *reorderBuffer
	result    *Result
	startTime time.Time

	completeOnce sync.Once
	done         chan struct{}
}

// New creates a pipeline for the scheduler's strategy.
func New(opts Options) *Pipeline {
	p := &Pipeline{
		name:       opts.Scheduler.Name(),
		sched:      opts.Scheduler,
		injector:   opts.Injector,
		tracker:    opts.Tracker,
		observer:   opts.Observer,
		logger:     opts.Logger,
		onComplete: opts.OnComplete,
		recorder:   metrics.NewRecorder(),
		buffer:     newReorderBuffer(),
		done:       make(chan struct{}),
	}

	if opts.Workload != nil {
		p.tasks = opts.Workload.Tasks
	}
	if p.tracker == nil {
		p.tracker = bench.NewUtilizationTracker()
	}
	if p.observer == nil {
		p.observer = NopObserver{}
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	p.body = opts.Body
	if p.body == nil {
		p.body = p.simulate
	}

	p.states = make([]atomic.Int32, len(p.tasks))
	p.result = &Result{
		Name:      p.name,
		Type:      p.sched.Type(),
		Delivered: make([]Delivery, 0, len(p.tasks)),
		Skipped:   []int{},
	}

	return p
}

// Name returns the strategy name.
func (p *Pipeline) Name() string { return p.name }

// Start dispatches every task to the scheduler.
//
// For pooled schedulers Start returns once all tasks are queued. For the
// immediate scheduler every task runs inside Start, so it returns after
// completion. Use Done or OnComplete to learn when the run has finished.
func (p *Pipeline) Start(ctx context.Context) error {
	if !p.started.CompareAndSwap(false, true) {
		return zerr.With(zerr.Wrap(bench.ErrPipelineStarted, "cannot start"), "strategy", p.name)
	}

	p.mu.Lock()
	p.startTime = time.Now()
	p.result.StartTime = p.startTime
	p.mu.Unlock()

	caller := bench.ContextIDFrom(ctx)
	if len(p.tasks) == 0 {
		p.complete()
		return nil
	}

	for _, task := range p.tasks {
		p.setState(task.Index, StateDispatched)
		err := p.sched.Submit(ctx, func(contextID string) {
			p.process(ctx, task, contextID)
		})
		if err != nil {
			p.terminal(task, err)
			p.settle(outcome{index: task.Index, contextID: caller, skipped: true, err: err}, caller)
		}
	}

	return nil
}

// Done is closed once the pipeline has completed.
func (p *Pipeline) Done() <-chan struct{} {
	return p.done
}

// Wait blocks until the pipeline completes and returns its result.
func (p *Pipeline) Wait(ctx context.Context) (*Result, error) {
	select {
	case <-p.done:
		return p.result, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// State returns the lifecycle state of the task at index.
func (p *Pipeline) State(index int) TaskState {
	if index < 0 || index >= len(p.states) {
		return StatePending
	}
	return TaskState(p.states[index].Load())
}

func (p *Pipeline) setState(index int, s TaskState) {
	if index >= 0 && index < len(p.states) {
		p.states[index].Store(int32(s))
	}
}

// process runs one task on its execution context.
func (p *Pipeline) process(ctx context.Context, task bench.Task, contextID string) {
	// Attribute the context before any work so failing tasks still count.
	p.tracker.Register(p.name, contextID)

	begin := time.Now()
	out := p.execute(ctx, task, contextID)

	kind := metrics.OutcomeDelivered
	if out.skipped {
		kind = metrics.OutcomeSkipped
	}
	p.recorder.RecordTask(time.Since(begin), kind)

	p.settle(out, contextID)
}

// execute is the per-task error boundary: a failure raised by the body is
// converted into a skipped outcome after the recovery delay.
func (p *Pipeline) execute(ctx context.Context, task bench.Task, contextID string) outcome {
	if err := p.runBody(ctx, task, contextID); err != nil {
		p.setState(task.Index, StateFailedRecovering)
		p.recoverTask(ctx, task, contextID, err)
		return outcome{index: task.Index, contextID: contextID, skipped: true, err: err}
	}

	p.setState(task.Index, StateSucceeded)
	return outcome{index: task.Index, contextID: contextID}
}

func (p *Pipeline) runBody(ctx context.Context, task bench.Task, contextID string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = zerr.With(zerr.With(zerr.Wrap(bench.ErrTaskPanicked, fmt.Sprint(r)), "index", task.Index), "panic", fmt.Sprint(r))
		}
	}()
	return p.body(ctx, task, contextID)
}

// simulate is the default body: block for the task duration, then run the
// failure check.
func (p *Pipeline) simulate(ctx context.Context, task bench.Task, contextID string) error {
	p.wait(ctx, task.Duration, task.Index, contextID)
	return p.injector.Check(task.Index)
}

// recoverTask waits the recovery delay on the failing context.
func (p *Pipeline) recoverTask(ctx context.Context, task bench.Task, contextID string, err error) {
	event := FailureEvent{
		Strategy:  p.name,
		Index:     task.Index,
		ContextID: contextID,
		Delay:     p.injector.Delay,
		Err:       err,
	}

	p.logger.Warn(fmt.Sprintf("%s > %d - [%s] failing. Waiting %dms...", p.name, task.Index, contextID, p.injector.Delay.Milliseconds()),
		"strategy", p.name, "index", task.Index, "context", contextID, "error", err)
	p.observer.OnFailure(event)

	p.wait(ctx, p.injector.Delay, task.Index, contextID)

	p.recorder.RecordRecovery()
	p.logger.Warn(fmt.Sprintf("%s > %d - [%s] continuing", p.name, task.Index, contextID),
		"strategy", p.name, "index", task.Index, "context", contextID)
	p.observer.OnRecovered(event)
}

// wait blocks the context for d. An interrupted wait is logged and treated
// as completed.
func (p *Pipeline) wait(ctx context.Context, d time.Duration, index int, contextID string) {
	if err := bench.Sleep(ctx, d); err != nil {
		p.recorder.RecordInterruptedWait()
		p.logger.Warn("wait interrupted, continuing",
			"strategy", p.name, "index", index, "context", contextID, "error", err)
	}
}

// terminal is the stream-level safety net. Every task failure is handled at
// the task boundary, so only scheduler rejections end up here.
func (p *Pipeline) terminal(task bench.Task, err error) {
	p.recorder.RecordTerminalError()
	p.logger.Error("pipeline error",
		"strategy", p.name, "index", task.Index, "error", err)
	p.observer.OnTerminalError(p.name, err)
}

// settle hands an outcome to the reorder buffer and releases every outcome
// that is now in order. Releases are serialized by p.mu. Observers are
// notified after p.mu is dropped; emitMu is taken before that so
// notifications keep the release order and completion comes last.
func (p *Pipeline) settle(o outcome, releasedBy string) {
	p.mu.Lock()
	ready := p.buffer.offer(o)
	var delivered []Delivery
	for _, r := range ready {
		if d, ok := p.release(r, releasedBy); ok {
			delivered = append(delivered, d)
		}
	}
	finished := len(ready) > 0 && p.buffer.released() == len(p.tasks)
	emit := len(delivered) > 0 || finished
	if emit {
		p.emitMu.Lock()
	}
	p.mu.Unlock()

	if emit {
		for _, d := range delivered {
			p.observer.OnDelivered(DeliveryEvent{Strategy: p.name, Delivery: d})
		}
		p.emitMu.Unlock()
	}

	if finished {
		p.complete()
	}
}

// release appends one outcome to the result and returns the delivery, if
// any. Callers hold p.mu.
func (p *Pipeline) release(o outcome, releasedBy string) (Delivery, bool) {
	if o.skipped {
		p.setState(o.index, StateSkipped)
		p.result.Skipped = append(p.result.Skipped, o.index)
		return Delivery{}, false
	}

	d := Delivery{
		Index:       o.index,
		ContextID:   o.contextID,
		DeliveredBy: releasedBy,
		Timestamp:   time.Now(),
	}
	p.setState(o.index, StateDelivered)
	p.result.Delivered = append(p.result.Delivered, d)
	return d, true
}

// complete disposes the scheduler, freezes the result and signals completion.
func (p *Pipeline) complete() {
	p.completeOnce.Do(func() {
		p.sched.Dispose()

		p.mu.Lock()
		end := time.Now()
		p.result.EndTime = end
		p.result.Elapsed = end.Sub(p.startTime)
		p.result.UtilizedContexts = p.tracker.Count(p.name)
		p.result.Contexts = p.tracker.Contexts(p.name)
		p.result.Metrics = p.recorder.Snapshot()
		result := p.result
		p.mu.Unlock()

		p.observer.OnCompleted(result)
		if p.onComplete != nil {
			p.onComplete(result)
		}
		close(p.done)
	})
}
