package tui

import "time"

// tickClock turns wall-clock readings into whole elapsed seconds. Bubble Tea
// ticks can arrive late or be coalesced while the terminal is busy, so the
// countdown is advanced by the real time passed rather than once per message.
// The sub-second remainder carries over to the next reading.
type tickClock struct {
	last    time.Time
	started bool
}

// reset starts measuring from now.
func (c *tickClock) reset(now time.Time) {
	c.last = now
	c.started = true
}

func (c *tickClock) stop() {
	c.started = false
}

// advance returns the number of whole seconds since the previous reading.
func (c *tickClock) advance(now time.Time) int {
	if !c.started {
		return 0
	}
	elapsed := now.Sub(c.last)
	if elapsed < time.Second {
		return 0
	}
	n := int(elapsed / time.Second)
	c.last = c.last.Add(time.Duration(n) * time.Second)
	return n
}
