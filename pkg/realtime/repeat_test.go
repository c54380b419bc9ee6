package realtime

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestRepeat_FiresExactlyCountTimes(t *testing.T) {
	var runs atomic.Int32
	cancel := Repeat(2, time.Millisecond, func() { runs.Add(1) })
	defer cancel()

	deadline := time.Now().Add(time.Second)
	for runs.Load() < 2 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	time.Sleep(10 * time.Millisecond)
	if got := runs.Load(); got != 2 {
		t.Errorf("fn ran %d times, want exactly 2", got)
	}
}

func TestRepeat_CancelStopsPendingRuns(t *testing.T) {
	var runs atomic.Int32
	cancel := Repeat(100, 5*time.Millisecond, func() { runs.Add(1) })
	time.Sleep(12 * time.Millisecond)
	cancel()
	after := runs.Load()
	time.Sleep(25 * time.Millisecond)
	if got := runs.Load(); got != after {
		t.Errorf("fn kept running after cancel: %d then %d", after, got)
	}
}

func TestRepeat_ZeroCountNeverFires(t *testing.T) {
	var runs atomic.Int32
	cancel := Repeat(0, time.Millisecond, func() { runs.Add(1) })
	defer cancel()
	time.Sleep(10 * time.Millisecond)
	if runs.Load() != 0 {
		t.Error("fn should never run for count 0")
	}
}
