package timer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"pomoglow/pkg/countdown"
	"pomoglow/pkg/geometry"
	"pomoglow/pkg/realtime"
)

// Event names published through the broadcaster, one per presentation sink: the
// timer fragment, the page title, and the favicon pair.
const (
	EventTimer = "timer"
	EventTitle = "title"
	EventIcons = "icons"
)

// PristineTitle is the page title before the timer has ever run (and after reset).
const PristineTitle = "Pomodoro"

// Session owns the single countdown and keeps the presentation sinks in sync: every
// state change publishes all three events, and the favicon event is re-published a
// few times afterwards to defeat browser icon caching. State is only ever mutated
// here; handlers and views read Snapshots.
type Session struct {
	mu            sync.Mutex
	c             *countdown.Countdown
	hub           *realtime.Broadcaster
	loop          *realtime.Loop
	iconRetries   int
	iconRetryGap  time.Duration
	cancelRetries context.CancelFunc
}

// NewSession creates a session in the pristine state. iconRetries/iconRetryGap
// control how often the icons event is re-asserted after each change.
func NewSession(hub *realtime.Broadcaster, total int, iconRetries int, iconRetryGap time.Duration) *Session {
	return &Session{
		c:            countdown.New(total),
		hub:          hub,
		iconRetries:  iconRetries,
		iconRetryGap: iconRetryGap,
	}
}

// Start begins or resumes a run segment and arms a fresh timing loop for it. No-op
// while running or at zero remaining. Reports whether a segment started.
func (s *Session) Start(now time.Time) bool {
	s.mu.Lock()
	started := s.c.Start(now)
	var old *realtime.Loop
	var loop *realtime.Loop
	if started {
		old = s.loop
		loop = &realtime.Loop{}
		s.loop = loop
	}
	s.mu.Unlock()
	if !started {
		return false
	}
	if old != nil {
		old.Stop()
	}
	loop.Start(s.tick)
	s.publishChange()
	return true
}

// Pause freezes the countdown and cancels the run segment's loop.
func (s *Session) Pause(now time.Time) {
	s.mu.Lock()
	wasRunning := s.c.Running
	s.c.Pause(now)
	loop := s.loop
	s.mu.Unlock()
	if !wasRunning {
		return
	}
	if loop != nil {
		loop.Stop()
	}
	s.publishChange()
}

// Reset returns to the pristine state from anywhere, cancelling any pending loop.
func (s *Session) Reset() {
	s.mu.Lock()
	s.c.Reset()
	loop := s.loop
	s.mu.Unlock()
	if loop != nil {
		loop.Stop()
	}
	s.publishChange()
}

// tick drives the countdown from the run loop. It publishes only when the visible
// second changed, and stops the loop once the countdown is no longer running
// (zero-reach, or a pause that raced the timer).
func (s *Session) tick(now time.Time) (time.Time, bool) {
	s.mu.Lock()
	changed := s.c.Tick(now)
	next, ok := s.c.NextWake(now)
	s.mu.Unlock()
	if changed {
		s.publishChange()
	}
	if !ok {
		return time.Time{}, true
	}
	return next, false
}

// publishChange pushes all three sinks and schedules the favicon re-asserts. A new
// change supersedes any still-pending re-asserts from the previous one.
func (s *Session) publishChange() {
	s.hub.Publish(EventTimer)
	s.hub.Publish(EventTitle)
	s.hub.Publish(EventIcons)

	s.mu.Lock()
	if s.cancelRetries != nil {
		s.cancelRetries()
	}
	s.cancelRetries = realtime.Repeat(s.iconRetries, s.iconRetryGap, func() {
		s.hub.Publish(EventIcons)
	})
	s.mu.Unlock()
}

// Snapshot holds everything the presentation layer derives from TimerState.
type Snapshot struct {
	Total      int
	Remaining  int
	Running    bool
	Pristine   bool
	Progress   float64
	DeadlineMs int64 // 0 unless running
	Clock      string
	Title      string
	StateLabel string
	ClipPath   string
}

// Snapshot returns a consistent view of the current state, re-deriving the
// remaining time from the deadline first.
func (s *Session) Snapshot(now time.Time) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.c.Tick(now)
	snap := Snapshot{
		Total:     s.c.Total,
		Remaining: s.c.Remaining,
		Running:   s.c.Running,
		Pristine:  s.c.Pristine(),
		Progress:  s.c.Progress(),
	}
	if snap.Running {
		snap.DeadlineMs = s.c.Deadline.UnixMilli()
	}
	snap.Clock = FormatClock(snap.Remaining)
	snap.Title = titleFor(snap)
	snap.StateLabel = stateLabelFor(snap)
	snap.ClipPath = geometry.CSS(snap.Progress)
	return snap
}

// FormatClock renders whole seconds as zero-padded mm:ss.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

func titleFor(snap Snapshot) string {
	switch {
	case snap.Pristine:
		return PristineTitle
	case snap.Running:
		return snap.Clock + " - Pomodoro"
	default:
		return snap.Clock + " - Paused"
	}
}

func stateLabelFor(snap Snapshot) string {
	switch {
	case snap.Pristine:
		return "Ready"
	case snap.Running:
		return "Focus"
	case snap.Remaining == 0:
		return "Done"
	default:
		return "Paused"
	}
}
