package pipeline

// outcome is the settled result of a single task.
type outcome struct {
	index     int
	contextID string
	skipped   bool
	err       error
}

// reorderBuffer holds settled outcomes until every lower index has been
// released. It is not safe for concurrent use; the pipeline serializes it.
type reorderBuffer struct {
	next    int
	pending map[int]outcome
}

func newReorderBuffer() *reorderBuffer {
	return &reorderBuffer{pending: make(map[int]outcome)}
}

// offer stores o and returns the run of outcomes that are now releasable,
// in ascending index order. Outcomes for already released or already
// pending indices are dropped.
func (b *reorderBuffer) offer(o outcome) []outcome {
	if o.index < b.next {
		return nil
	}
	if _, dup := b.pending[o.index]; dup {
		return nil
	}
	b.pending[o.index] = o

	var ready []outcome
	for {
		next, ok := b.pending[b.next]
		if !ok {
			break
		}
		delete(b.pending, b.next)
		ready = append(ready, next)
		b.next++
	}
	return ready
}

// released returns how many outcomes have been released so far.
func (b *reorderBuffer) released() int {
	return b.next
}

// buffered returns how many outcomes are waiting on a predecessor.
func (b *reorderBuffer) buffered() int {
	return len(b.pending)
}
