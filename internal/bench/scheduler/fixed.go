package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/wesleyorama2/schedbench/internal/bench"
)

// fixedWorker is one long-lived execution context with its own queue.
type fixedWorker struct {
	id    string
	queue *workQueue
}

// Fixed is a pool with a fixed number of contexts. Work is assigned
// round-robin, so a single context preserves submission order while
// several contexts balance load without ordering guarantees.
type Fixed struct {
	name    string
	typ     Type
	workers []*fixedWorker
	next    atomic.Uint64
	logger  *slog.Logger

	mu       sync.RWMutex
	disposed bool
	quit     chan struct{}
	once     sync.Once
	wg       sync.WaitGroup
}

// NewSingle creates a pool with exactly one context.
func NewSingle(name string, logger *slog.Logger) *Fixed {
	return newFixed(name, TypeSingle, 1, "single", logger)
}

// NewParallel creates a pool with k contexts.
func NewParallel(name string, k int, logger *slog.Logger) *Fixed {
	if k < 1 {
		k = 1
	}
	return newFixed(name, TypeParallel, k, fmt.Sprintf("%d-parallel", k), logger)
}

func newFixed(name string, typ Type, k int, prefix string, logger *slog.Logger) *Fixed {
	if logger == nil {
		logger = slog.Default()
	}

	f := &Fixed{
		name:    name,
		typ:     typ,
		workers: make([]*fixedWorker, k),
		logger:  logger,
		quit:    make(chan struct{}),
	}

	for i := range f.workers {
		w := &fixedWorker{
			id:    fmt.Sprintf("%s-%d", strings.ToLower(prefix), i+1),
			queue: newWorkQueue(),
		}
		f.workers[i] = w
		f.wg.Add(1)
		go f.run(w)
	}

	return f
}

// run drains the worker's queue until the pool is disposed and the queue is empty.
func (f *Fixed) run(w *fixedWorker) {
	defer f.wg.Done()

	for {
		if work, ok := w.queue.pop(); ok {
			work(w.id)
			continue
		}

		select {
		case <-w.queue.wake:
		case <-f.quit:
			for {
				work, ok := w.queue.pop()
				if !ok {
					f.logger.Debug("worker stopped", "scheduler", f.name, "context", w.id)
					return
				}
				work(w.id)
			}
		}
	}
}

// Name returns the scheduler's display name.
func (f *Fixed) Name() string { return f.name }

// Type returns TypeSingle or TypeParallel.
func (f *Fixed) Type() Type { return f.typ }

// Capacity returns the number of contexts.
func (f *Fixed) Capacity() int { return len(f.workers) }

// Submit queues work on the next context in round-robin order.
func (f *Fixed) Submit(_ context.Context, work Work) error {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.disposed {
		return bench.ErrSchedulerDisposed
	}

	n := f.next.Add(1) - 1
	f.workers[n%uint64(len(f.workers))].queue.push(work)
	return nil
}

// Dispose stops accepting work. Workers finish what is queued, then exit.
// It does not block, so it may be called from one of the pool's own contexts.
func (f *Fixed) Dispose() {
	f.once.Do(func() {
		f.mu.Lock()
		f.disposed = true
		f.mu.Unlock()
		close(f.quit)
		f.logger.Debug("scheduler disposed", "scheduler", f.name)
	})
}

// IsDisposed reports whether Dispose has been called.
func (f *Fixed) IsDisposed() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.disposed
}
