package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/wesleyorama2/schedbench/internal/bench"
)

// BoundedElastic is a pool that grows on demand up to a ceiling of contexts.
//
// Idle contexts are reused before new ones are spawned, and expire after
// the idle TTL. Pending work waits in a bounded queue and submitters block
// while it is full. Every submission eventually runs because a context
// leaving the pool rechecks the queue before it exits.
type BoundedElastic struct {
	name       string
	maxWorkers int
	idleTTL    time.Duration
	logger     *slog.Logger

	tasks chan Work
	slots *semaphore.Weighted

	idle    atomic.Int32
	live    atomic.Int32
	spawned atomic.Int64

	mu       sync.RWMutex
	disposed bool
	quit     chan struct{}
	once     sync.Once
	wg       sync.WaitGroup
}

// NewBoundedElastic creates an elastic pool.
//
// Zero values select the defaults: DefaultMaxWorkers, DefaultQueueCapacity
// and DefaultIdleTTL.
func NewBoundedElastic(name string, maxWorkers, queueCapacity int, idleTTL time.Duration, logger *slog.Logger) *BoundedElastic {
	if maxWorkers <= 0 {
		maxWorkers = DefaultMaxWorkers()
	}
	if queueCapacity <= 0 {
		queueCapacity = DefaultQueueCapacity
	}
	if idleTTL <= 0 {
		idleTTL = DefaultIdleTTL
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &BoundedElastic{
		name:       name,
		maxWorkers: maxWorkers,
		idleTTL:    idleTTL,
		logger:     logger,
		tasks:      make(chan Work, queueCapacity),
		slots:      semaphore.NewWeighted(int64(maxWorkers)),
		quit:       make(chan struct{}),
	}
}

// Name returns the scheduler's display name.
func (e *BoundedElastic) Name() string { return e.name }

// Type returns TypeBoundedElastic.
func (e *BoundedElastic) Type() Type { return TypeBoundedElastic }

// Capacity returns the worker ceiling.
func (e *BoundedElastic) Capacity() int { return e.maxWorkers }

// LiveWorkers returns the number of contexts currently alive.
func (e *BoundedElastic) LiveWorkers() int { return int(e.live.Load()) }

// Submit enqueues work and spawns a context when none is idle and the
// ceiling allows it. When the queue is full Submit blocks until a context
// takes work off it, so every accepted submission runs.
func (e *BoundedElastic) Submit(_ context.Context, work Work) error {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.disposed {
		return bench.ErrSchedulerDisposed
	}

	select {
	case e.tasks <- work:
	default:
		// A full queue implies a live context; make sure one exists before parking.
		e.ensureWorker()
		e.logger.Debug("queue full, waiting for room", "scheduler", e.name, "capacity", cap(e.tasks))
		e.tasks <- work
	}

	e.ensureWorker()
	return nil
}

// ensureWorker spawns a context when none is idle and the ceiling allows it.
func (e *BoundedElastic) ensureWorker() {
	if e.idle.Load() == 0 && e.slots.TryAcquire(1) {
		e.spawn()
	}
}

func (e *BoundedElastic) spawn() {
	id := fmt.Sprintf("boundedElastic-%d", e.spawned.Add(1))
	e.live.Add(1)
	e.wg.Add(1)
	e.logger.Debug("worker spawned", "scheduler", e.name, "context", id)
	go e.run(id)
}

// run executes queued work until the context idles out or the pool is disposed.
func (e *BoundedElastic) run(id string) {
	defer e.wg.Done()

	timer := time.NewTimer(e.idleTTL)
	defer timer.Stop()

	for {
		e.idle.Add(1)
		select {
		case work := <-e.tasks:
			e.idle.Add(-1)
			work(id)
			resetTimer(timer, e.idleTTL)

		case <-timer.C:
			e.idle.Add(-1)
			if e.retire(id) {
				return
			}
			timer.Reset(e.idleTTL)

		case <-e.quit:
			e.idle.Add(-1)
			for {
				select {
				case work := <-e.tasks:
					work(id)
				default:
					e.live.Add(-1)
					e.slots.Release(1)
					return
				}
			}
		}
	}
}

// retire releases the worker's slot. It returns false when work arrived in
// the meantime and the worker was able to take its slot back.
func (e *BoundedElastic) retire(id string) bool {
	e.live.Add(-1)
	e.slots.Release(1)

	if len(e.tasks) > 0 && e.slots.TryAcquire(1) {
		e.live.Add(1)
		return false
	}

	e.logger.Debug("worker expired", "scheduler", e.name, "context", id)
	return true
}

func resetTimer(t *time.Timer, d time.Duration) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
	t.Reset(d)
}

// Dispose stops accepting work. Live contexts drain the queue, then exit.
func (e *BoundedElastic) Dispose() {
	e.once.Do(func() {
		e.mu.Lock()
		e.disposed = true
		e.mu.Unlock()
		close(e.quit)
		e.logger.Debug("scheduler disposed", "scheduler", e.name)
	})
}

// IsDisposed reports whether Dispose has been called.
func (e *BoundedElastic) IsDisposed() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.disposed
}

