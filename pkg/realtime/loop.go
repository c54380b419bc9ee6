package realtime

import (
	"context"
	"sync"
	"time"
)

// TickFunc is called by Loop each time it wakes. It returns the next wake instant
// and whether the loop should exit. TickFunc must be idempotent: the loop may call
// it redundantly (wakes, timer races around cancellation), and correctness relies on
// the tick deriving state from the clock rather than counting invocations.
type TickFunc func(now time.Time) (next time.Time, stop bool)

// Loop is a cancellable wall-clock timing loop with an out-of-band wake channel.
// Each run segment gets its own Loop; Stop guarantees the segment's pending timer
// never fires into a later segment's state.
type Loop struct {
	mu     sync.Mutex
	cancel context.CancelFunc
	wake   chan struct{}
}

// Start launches the loop goroutine. No-op (returns false) while a previous start on
// this Loop is still running.
func (l *Loop) Start(tick TickFunc) bool {
	l.mu.Lock()
	if l.cancel != nil {
		l.mu.Unlock()
		return false
	}
	ctx, cancel := context.WithCancel(context.Background())
	wake := make(chan struct{}, 1)
	l.cancel = cancel
	l.wake = wake
	l.mu.Unlock()

	go func() {
		defer func() {
			l.mu.Lock()
			if l.wake == wake {
				l.cancel = nil
				l.wake = nil
			}
			l.mu.Unlock()
			cancel()
		}()

		for {
			next, stop := tick(time.Now().UTC())
			if stop {
				return
			}
			wait := time.Until(next)
			if wait < 0 {
				wait = 0
			}
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
				// Fell through to the next tick.
			case <-wake:
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
			}
		}
	}()
	return true
}

// Wake unblocks the loop immediately so it re-derives state without waiting for the
// armed timer (pause, reset, visibility corrections).
func (l *Loop) Wake() {
	l.mu.Lock()
	wake := l.wake
	l.mu.Unlock()
	if wake == nil {
		return
	}
	select {
	case wake <- struct{}{}:
	default:
	}
}

// Stop cancels the running loop, if any. At worst one already-racing tick can still
// run after Stop returns; an idempotent TickFunc makes that harmless.
func (l *Loop) Stop() {
	l.mu.Lock()
	cancel := l.cancel
	l.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}
