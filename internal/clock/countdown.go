package clock

import (
	"sync"
	"time"
)

// TickInterval is the cadence of countdown ticks while running.
const TickInterval = 1000 * time.Millisecond

// Countdown is a pausable countdown over a Source. It ticks every
// TickInterval while running and calls onExpire once when the remaining time
// reaches zero. After Cancel no callback fires.
//
// Callbacks run without the countdown lock held, so they may call back into
// the countdown.
type Countdown struct {
	mu       sync.Mutex
	src      Source
	total    time.Duration
	onTick   func(remaining time.Duration)
	onExpire func()

	accumulated  time.Duration
	runningSince time.Time
	running      bool
	cancelled    bool
	expired      bool
	generation   int
	stopTicker   func()
	stopExpiry   func()
}

// StartCountdown creates a running countdown of total duration.
func StartCountdown(src Source, total time.Duration, onTick func(remaining time.Duration), onExpire func()) *Countdown {
	c := &Countdown{
		src:      src,
		total:    total,
		onTick:   onTick,
		onExpire: onExpire,
	}
	c.mu.Lock()
	c.startLocked()
	c.mu.Unlock()
	return c
}

// Pause freezes the remaining time. It returns false when the countdown was
// not running.
func (c *Countdown) Pause() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.running || c.cancelled {
		return false
	}
	c.accumulated = c.elapsedLocked()
	c.running = false
	c.stopLocked()
	return true
}

// Resume continues from the frozen remaining time. It returns false when the
// countdown was not paused.
func (c *Countdown) Resume() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running || c.cancelled || c.expired {
		return false
	}
	c.startLocked()
	return true
}

// Cancel stops the countdown permanently. Calling it more than once is a no-op.
func (c *Countdown) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancelled {
		return
	}
	if c.running {
		c.accumulated = c.elapsedLocked()
		c.running = false
	}
	c.cancelled = true
	c.stopLocked()
}

// Elapsed returns the running time so far, capped at the total duration.
func (c *Countdown) Elapsed() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.elapsedLocked()
}

// Remaining returns the time left.
func (c *Countdown) Remaining() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.total - c.elapsedLocked()
}

func (c *Countdown) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

func (c *Countdown) Total() time.Duration {
	return c.total
}

func (c *Countdown) startLocked() {
	c.generation++
	gen := c.generation
	c.running = true
	c.runningSince = c.src.Now()
	remaining := c.total - c.accumulated
	c.stopTicker = c.src.Every(TickInterval, func() { c.tick(gen) })
	c.stopExpiry = c.src.AfterFunc(remaining, func() { c.expire(gen) })
}

func (c *Countdown) stopLocked() {
	if c.stopTicker != nil {
		c.stopTicker()
		c.stopTicker = nil
	}
	if c.stopExpiry != nil {
		c.stopExpiry()
		c.stopExpiry = nil
	}
}

func (c *Countdown) elapsedLocked() time.Duration {
	elapsed := c.accumulated
	if c.running {
		elapsed += c.src.Now().Sub(c.runningSince)
	}
	if elapsed > c.total {
		return c.total
	}
	if elapsed < 0 {
		return 0
	}
	return elapsed
}

// live reports whether a callback scheduled in generation gen may still fire.
func (c *Countdown) liveLocked(gen int) bool {
	return c.running && !c.cancelled && !c.expired && gen == c.generation
}

func (c *Countdown) tick(gen int) {
	c.mu.Lock()
	if !c.liveLocked(gen) {
		c.mu.Unlock()
		return
	}
	remaining := c.total - c.elapsedLocked()
	if remaining <= 0 {
		// Expiry timer owns the final transition.
		c.mu.Unlock()
		return
	}
	fn := c.onTick
	c.mu.Unlock()

	if fn != nil {
		fn(remaining)
	}
}

func (c *Countdown) expire(gen int) {
	c.mu.Lock()
	if !c.liveLocked(gen) {
		c.mu.Unlock()
		return
	}
	c.accumulated = c.total
	c.running = false
	c.expired = true
	c.stopLocked()
	fn := c.onExpire
	c.mu.Unlock()

	if fn != nil {
		fn()
	}
}
