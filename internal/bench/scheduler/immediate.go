package scheduler

import (
	"context"
	"sync/atomic"

	"github.com/wesleyorama2/schedbench/internal/bench"
)

// Immediate runs work synchronously on the submitting goroutine. It adds no
// concurrency: the work reports the caller's context identity.
type Immediate struct {
	name     string
	disposed atomic.Bool
}

// NewImmediate creates an immediate scheduler.
func NewImmediate(name string) *Immediate {
	return &Immediate{name: name}
}

// Name returns the scheduler's display name.
func (i *Immediate) Name() string { return i.name }

// Type returns TypeImmediate.
func (i *Immediate) Type() Type { return TypeImmediate }

// Capacity is always one: the caller's own context.
func (i *Immediate) Capacity() int { return 1 }

// Submit runs work before returning.
func (i *Immediate) Submit(ctx context.Context, work Work) error {
	if i.disposed.Load() {
		return bench.ErrSchedulerDisposed
	}
	work(bench.ContextIDFrom(ctx))
	return nil
}

// Dispose marks the scheduler disposed. There are no contexts to release.
func (i *Immediate) Dispose() {
	i.disposed.Store(true)
}

// IsDisposed reports whether Dispose has been called.
func (i *Immediate) IsDisposed() bool {
	return i.disposed.Load()
}
