package countdown

import "time"

// DefaultTotal is the fixed session length in seconds (25 minutes).
const DefaultTotal = 25 * 60

// Countdown holds the timing state for a single fixed-length session. Remaining is
// always re-derived from Deadline rather than decremented per tick, so redundant
// ticks within the same second cannot drift the value and a throttled caller catches
// up correctly on its next tick.
type Countdown struct {
	Total     int // session length in seconds, fixed at construction
	Remaining int // seconds left, quantized to whole seconds
	Running   bool
	Deadline  time.Time // instant the current run segment reaches zero; zero unless Running
}

// New creates a countdown in the pristine state.
func New(total int) *Countdown {
	if total <= 0 {
		total = DefaultTotal
	}
	return &Countdown{Total: total, Remaining: total}
}

// Start arms the deadline for the remaining time. No-op while already running or
// after the session has reached zero (only Reset revives it). Reports whether a run
// segment began.
func (c *Countdown) Start(now time.Time) bool {
	if c.Running || c.Remaining == 0 {
		return false
	}
	c.Deadline = now.Add(time.Duration(c.Remaining) * time.Second)
	c.Running = true
	return true
}

// Pause freezes the last derived remaining value and clears the deadline. Remaining
// is kept, so a later Start resumes where the run left off.
func (c *Countdown) Pause(now time.Time) {
	if !c.Running {
		return
	}
	c.Remaining = remainingAt(c.Deadline, now)
	c.Running = false
	c.Deadline = time.Time{}
}

// Reset returns to the pristine state regardless of what came before.
func (c *Countdown) Reset() {
	c.Running = false
	c.Deadline = time.Time{}
	c.Remaining = c.Total
}

// Tick re-derives Remaining from the deadline. Reaching zero stops the run and
// clears the deadline. Reports whether visible state changed.
func (c *Countdown) Tick(now time.Time) bool {
	if !c.Running {
		return false
	}
	rem := remainingAt(c.Deadline, now)
	changed := rem != c.Remaining
	c.Remaining = rem
	if rem == 0 {
		c.Running = false
		c.Deadline = time.Time{}
		changed = true
	}
	return changed
}

// NextWake returns the instant the displayed second next changes, and whether a wake
// is needed (false when not running).
func (c *Countdown) NextWake(now time.Time) (time.Time, bool) {
	if !c.Running {
		return time.Time{}, false
	}
	rem := remainingAt(c.Deadline, now)
	if rem == 0 {
		return now, true
	}
	return c.Deadline.Add(-time.Duration(rem-1) * time.Second), true
}

// Progress is the elapsed fraction of the session in [0,1].
func (c *Countdown) Progress() float64 {
	if c.Total == 0 {
		return 0
	}
	return 1 - float64(c.Remaining)/float64(c.Total)
}

// Pristine reports the initial/reset state: full session remaining and not running.
func (c *Countdown) Pristine() bool {
	return !c.Running && c.Remaining == c.Total
}

// remainingAt rounds up, so a deadline 0.2s away still shows one second left.
// Negative durations (clock jumped past the deadline) clamp to zero.
func remainingAt(deadline, now time.Time) int {
	d := deadline.Sub(now)
	if d <= 0 {
		return 0
	}
	return int((d + time.Second - 1) / time.Second)
}
