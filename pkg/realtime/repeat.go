package realtime

import (
	"context"
	"time"
)

// Repeat schedules fn to run count times, interval apart, starting one interval from
// now. It models "re-assert this side effect a few times over a short window" — the
// favicon re-install workaround — without inlining magic delays at call sites. The
// returned cancel stops any runs that have not fired yet; fn must be safe to skip.
func Repeat(count int, interval time.Duration, fn func()) context.CancelFunc {
	ctx, cancel := context.WithCancel(context.Background())
	if count < 1 {
		return cancel
	}
	if interval <= 0 {
		interval = time.Millisecond
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for i := 0; i < count; i++ {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				fn()
			}
		}
	}()
	return cancel
}
