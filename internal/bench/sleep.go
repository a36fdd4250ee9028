package bench

import (
	"context"
	"time"

	"go.trai.ch/zerr"
)

// Sleep blocks the calling goroutine for d, simulating blocking work.
//
// It returns ErrInterruptedWait if ctx ends first. Callers log the
// interruption and carry on as though the wait completed.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return zerr.With(zerr.Wrap(ErrInterruptedWait, ctx.Err().Error()), "wait", d.String())
	}
}
