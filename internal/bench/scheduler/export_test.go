package scheduler

// Wait blocks until every worker has exited. Only meaningful after Dispose.
func (f *Fixed) Wait() {
	f.wg.Wait()
}

// Wait blocks until every context has exited. Only meaningful after Dispose.
func (e *BoundedElastic) Wait() {
	e.wg.Wait()
}
