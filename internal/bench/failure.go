package bench

import (
	"time"

	"go.trai.ch/zerr"
)

// FailureInjector decides which task indices fail and how long recovery takes.
//
// It has no state: Fails is a pure function of the index.
type FailureInjector struct {
	// Every is the failure period. Index i fails when i%Every == Every-1.
	Every int

	// Delay is the recovery wait applied once per failing task on the
	// context that hit the failure.
	Delay time.Duration
}

// Fails reports whether the task at index fails.
func (f FailureInjector) Fails(index int) bool {
	if f.Every <= 0 {
		return false
	}
	return index%f.Every == f.Every-1
}

// Check returns an injected failure for a failing index, nil otherwise.
func (f FailureInjector) Check(index int) error {
	if !f.Fails(index) {
		return nil
	}
	return zerr.With(zerr.Wrap(ErrInjectedTaskFailure, "task failed"), "index", index)
}

// FailingIndices returns every failing index in 0..count-1.
func (f FailureInjector) FailingIndices(count int) []int {
	var out []int
	for i := 0; i < count; i++ {
		if f.Fails(i) {
			out = append(out, i)
		}
	}
	return out
}

// ExpectedDelivered returns how many of count tasks deliver a value.
func (f FailureInjector) ExpectedDelivered(count int) int {
	return count - len(f.FailingIndices(count))
}
