package scheduler

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wesleyorama2/schedbench/internal/bench"
)

// collect submits n work items and returns the context each ran on, indexed
// by submission order.
func collect(t *testing.T, s Scheduler, n int, d time.Duration) []string {
	t.Helper()

	ids := make([]string, n)
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		err := s.Submit(context.Background(), func(id string) {
			defer wg.Done()
			time.Sleep(d)
			ids[i] = id
		})
		require.NoError(t, err)
	}

	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()
	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("work did not complete")
	}
	return ids
}

func distinct(ids []string) []string {
	set := map[string]struct{}{}
	for _, id := range ids {
		set[id] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func TestSingle_PreservesOrderOnOneContext(t *testing.T) {
	s := NewSingle("Single", nil)
	defer s.Dispose()

	var mu sync.Mutex
	var order []int
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		require.NoError(t, s.Submit(context.Background(), func(id string) {
			defer wg.Done()
			assert.Equal(t, "single-1", id)
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
		}))
	}
	wg.Wait()

	for i, v := range order {
		assert.Equal(t, i, v)
	}
	assert.Equal(t, 1, s.Capacity())
	assert.Equal(t, TypeSingle, s.Type())
}

func TestParallel_UsesAtMostKContexts(t *testing.T) {
	s := NewParallel("3 Parallel", 3, nil)
	defer s.Dispose()

	ids := collect(t, s, 12, 5*time.Millisecond)
	used := distinct(ids)

	assert.Equal(t, []string{"3-parallel-1", "3-parallel-2", "3-parallel-3"}, used)
	// Round-robin assignment
	assert.Equal(t, "3-parallel-1", ids[0])
	assert.Equal(t, "3-parallel-2", ids[1])
	assert.Equal(t, "3-parallel-1", ids[3])
}

func TestParallel_RunsConcurrently(t *testing.T) {
	s := NewParallel("4 Parallel", 4, nil)
	defer s.Dispose()

	start := time.Now()
	collect(t, s, 4, 100*time.Millisecond)

	assert.Less(t, time.Since(start), 350*time.Millisecond)
}

func TestFixed_DisposeDrainsQueuedWork(t *testing.T) {
	s := NewSingle("Single", nil)

	var ran atomic.Int32
	for i := 0; i < 5; i++ {
		require.NoError(t, s.Submit(context.Background(), func(string) {
			time.Sleep(time.Millisecond)
			ran.Add(1)
		}))
	}
	s.Dispose()
	s.Wait()

	assert.Equal(t, int32(5), ran.Load())
}

func TestFixed_SubmitAfterDispose(t *testing.T) {
	s := NewParallel("2 Parallel", 2, nil)
	s.Dispose()
	s.Dispose() // idempotent

	assert.True(t, s.IsDisposed())
	err := s.Submit(context.Background(), func(string) {})
	assert.ErrorIs(t, err, bench.ErrSchedulerDisposed)
	s.Wait()
}

func TestFixed_DisposeFromOwnContext(t *testing.T) {
	s := NewSingle("Single", nil)

	done := make(chan struct{})
	require.NoError(t, s.Submit(context.Background(), func(string) {
		s.Dispose()
		close(done)
	}))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Dispose blocked on its own context")
	}
	s.Wait()
}

func TestBoundedElastic_RespectsCeiling(t *testing.T) {
	s := NewBoundedElastic("Bounded Elastic", 4, 0, 0, nil)
	defer s.Dispose()

	var running, peak atomic.Int32
	ids := make([]string, 0, 40)
	var mu sync.Mutex
	var wg sync.WaitGroup
	for i := 0; i < 40; i++ {
		wg.Add(1)
		require.NoError(t, s.Submit(context.Background(), func(id string) {
			defer wg.Done()
			n := running.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			running.Add(-1)
			mu.Lock()
			ids = append(ids, id)
			mu.Unlock()
		}))
	}
	wg.Wait()

	assert.LessOrEqual(t, peak.Load(), int32(4))
	assert.LessOrEqual(t, len(distinct(ids)), 4)
	assert.Len(t, ids, 40)
	for _, id := range ids {
		assert.Contains(t, id, "boundedElastic-")
	}
}

func TestBoundedElastic_ReusesIdleContext(t *testing.T) {
	s := NewBoundedElastic("Bounded Elastic", 8, 0, time.Minute, nil)
	defer s.Dispose()

	first := collect(t, s, 1, 0)
	// Give the worker time to go idle.
	time.Sleep(20 * time.Millisecond)
	second := collect(t, s, 1, 0)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, s.LiveWorkers())
}

func TestBoundedElastic_IdleContextsExpire(t *testing.T) {
	s := NewBoundedElastic("Bounded Elastic", 2, 0, 20*time.Millisecond, nil)
	defer s.Dispose()

	collect(t, s, 2, 5*time.Millisecond)
	require.Eventually(t, func() bool { return s.LiveWorkers() == 0 }, 2*time.Second, 5*time.Millisecond)

	// A new submission after expiry still runs.
	ids := collect(t, s, 1, 0)
	assert.Contains(t, ids[0], "boundedElastic-")
}

func TestBoundedElastic_FullQueueBlocksSubmitter(t *testing.T) {
	s := NewBoundedElastic("Bounded Elastic", 1, 1, 0, nil)
	defer s.Dispose()

	release := make(chan struct{})
	started := make(chan struct{})
	require.NoError(t, s.Submit(context.Background(), func(string) {
		close(started)
		<-release
	}))
	<-started

	var ran atomic.Int32
	require.NoError(t, s.Submit(context.Background(), func(string) { ran.Add(1) }))

	submitted := make(chan error, 1)
	go func() {
		submitted <- s.Submit(context.Background(), func(string) { ran.Add(1) })
	}()

	select {
	case err := <-submitted:
		t.Fatalf("submit returned while the queue was full: %v", err)
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	require.NoError(t, <-submitted)
	require.Eventually(t, func() bool { return ran.Load() == 2 }, 2*time.Second, 5*time.Millisecond)
}

func TestBoundedElastic_RunsMoreWorkThanQueueCapacity(t *testing.T) {
	s := NewBoundedElastic("Bounded Elastic", 2, 3, 0, nil)
	defer s.Dispose()

	var mu sync.Mutex
	seen := map[int]bool{}
	var wg sync.WaitGroup
	for i := 0; i < 40; i++ {
		wg.Add(1)
		require.NoError(t, s.Submit(context.Background(), func(string) {
			defer wg.Done()
			time.Sleep(time.Millisecond)
			mu.Lock()
			seen[i] = true
			mu.Unlock()
		}))
	}
	wg.Wait()

	assert.Len(t, seen, 40)
	assert.LessOrEqual(t, s.LiveWorkers(), 2)
}

func TestBoundedElastic_SubmitAfterDispose(t *testing.T) {
	s := NewBoundedElastic("Bounded Elastic", 2, 0, 0, nil)
	collect(t, s, 3, 0)
	s.Dispose()
	s.Dispose()

	assert.True(t, s.IsDisposed())
	assert.ErrorIs(t, s.Submit(context.Background(), func(string) {}), bench.ErrSchedulerDisposed)
	s.Wait()
	assert.Equal(t, 0, s.LiveWorkers())
}

func TestImmediate_RunsOnCaller(t *testing.T) {
	s := NewImmediate("Immediate")

	var got string
	ctx := bench.WithContextID(context.Background(), "main")
	require.NoError(t, s.Submit(ctx, func(id string) { got = id }))
	assert.Equal(t, "main", got)

	require.NoError(t, s.Submit(context.Background(), func(id string) { got = id }))
	assert.Equal(t, bench.MainContextID, got)

	s.Dispose()
	s.Dispose()
	assert.True(t, s.IsDisposed())
	assert.ErrorIs(t, s.Submit(ctx, func(string) {}), bench.ErrSchedulerDisposed)
}

func TestWorkQueue(t *testing.T) {
	q := newWorkQueue()
	_, ok := q.pop()
	assert.False(t, ok)

	var got []string
	q.push(func(string) { got = append(got, "a") })
	q.push(func(string) { got = append(got, "b") })
	assert.Equal(t, 2, q.len())

	for {
		w, ok := q.pop()
		if !ok {
			break
		}
		w("")
	}
	assert.Equal(t, []string{"a", "b"}, got)
}
