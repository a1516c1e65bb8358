package util

import (
	"context"
	"time"
)

// Sleep waits for d or until ctx is done, returning ctx.Err in that case.
// A non-positive d only reports ctx state.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
