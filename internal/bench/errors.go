package bench

import "go.trai.ch/zerr"

var (
	// ErrInjectedTaskFailure is raised by the failure injector for a failing task index.
	// It is always intercepted at the per-task boundary of a pipeline.
	ErrInjectedTaskFailure = zerr.New("injected task failure")

	// ErrTaskPanicked is returned when a task body panics. The per-task boundary
	// treats it the same way as an injected failure.
	ErrTaskPanicked = zerr.New("task panicked")

	// ErrInterruptedWait is returned when a simulated blocking wait ends before its duration.
	ErrInterruptedWait = zerr.New("wait interrupted")

	// ErrSchedulerDisposed is returned when work is submitted to a disposed scheduler.
	ErrSchedulerDisposed = zerr.New("scheduler disposed")

	// ErrPipelineStarted is returned when a pipeline is started more than once.
	ErrPipelineStarted = zerr.New("pipeline already started")

	// ErrBarrierOverSignal is returned when a completion barrier receives a duplicate
	// or surplus signal.
	ErrBarrierOverSignal = zerr.New("completion barrier signaled too many times")

	// ErrInvalidConfig is returned when a benchmark configuration fails validation.
	ErrInvalidConfig = zerr.New("invalid configuration")

	// ErrUnknownStrategy is returned for an unsupported strategy type.
	ErrUnknownStrategy = zerr.New("unknown strategy type")
)
