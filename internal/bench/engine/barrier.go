package engine

import (
	"context"
	"sync"

	"go.trai.ch/zerr"

	"github.com/wesleyorama2/schedbench/internal/bench"
)

// Barrier waits for a fixed set of parties to signal completion.
//
// Each party signals at most once. A barrier created for zero parties is
// already released.
type Barrier struct {
	mu        sync.Mutex
	remaining int
	signaled  map[string]struct{}
	done      chan struct{}
}

// NewBarrier creates a barrier for the given number of parties.
func NewBarrier(parties int) *Barrier {
	if parties < 0 {
		parties = 0
	}
	b := &Barrier{
		remaining: parties,
		signaled:  make(map[string]struct{}, parties),
		done:      make(chan struct{}),
	}
	if parties == 0 {
		close(b.done)
	}
	return b
}

// Signal records that party has completed. Signaling twice for the same
// party, or more times than there are parties, returns ErrBarrierOverSignal
// and leaves the count unchanged.
func (b *Barrier) Signal(party string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, dup := b.signaled[party]; dup {
		return zerr.With(zerr.Wrap(bench.ErrBarrierOverSignal, "duplicate completion"), "party", party)
	}
	if b.remaining == 0 {
		return zerr.With(zerr.Wrap(bench.ErrBarrierOverSignal, "barrier already released"), "party", party)
	}

	b.signaled[party] = struct{}{}
	b.remaining--
	if b.remaining == 0 {
		close(b.done)
	}
	return nil
}

// Remaining returns the number of parties that have not signaled.
func (b *Barrier) Remaining() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.remaining
}

// Wait blocks until every party has signaled.
func (b *Barrier) Wait() {
	<-b.done
}

// WaitContext blocks until every party has signaled or ctx is done.
func (b *Barrier) WaitContext(ctx context.Context) error {
	select {
	case <-b.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
