package anim

import "time"

// DefaultTickRate is the nominal playback rate in ticks per second.
const DefaultTickRate = 60

// Player is the playback state for one animation: a play/pause flag and the
// elapsed tick counter. The animation's CurrentFrame is derived from Elapsed
// on every change.
type Player struct {
	Playing bool
	Elapsed int
}

// Toggle switches between playing and paused.
func (p *Player) Toggle() {
	p.Playing = !p.Playing
}

// Update advances one tick if playing.
func (p *Player) Update(a *Animation) {
	if !p.Playing {
		return
	}
	p.Step(a)
}

// Step advances one tick regardless of the play state, wrapping to 0 once the
// end of the animation is reached.
func (p *Player) Step(a *Animation) {
	p.Elapsed++
	if a == nil {
		return
	}
	if p.Elapsed >= a.TotalFrames() {
		p.Elapsed = 0
	}
	a.CurrentFrame = a.FrameAt(p.Elapsed)
}

// StepBack moves one tick backwards, stopping at 0.
func (p *Player) StepBack(a *Animation) {
	if p.Elapsed > 0 {
		p.Elapsed--
	}
	if a != nil {
		a.CurrentFrame = a.FrameAt(p.Elapsed)
	}
}

// Scrub jumps to tick k. It bypasses the play state and is idempotent.
func (p *Player) Scrub(a *Animation, k int) {
	if k < 0 {
		k = 0
	}
	p.Elapsed = k
	if a != nil {
		a.CurrentFrame = a.FrameAt(p.Elapsed)
	}
}

// Reset rewinds to tick 0 and pauses.
func (p *Player) Reset(a *Animation) {
	p.Playing = false
	p.Scrub(a, 0)
}

// Clock turns wall-clock time into whole playback ticks.
type Clock struct {
	// Interval is the length of one tick.
	Interval time.Duration
	// MaxCatchUp caps how many ticks a single call may report after a stall.
	// Zero means no cap.
	MaxCatchUp int

	last    time.Time
	pending time.Duration
}

// NewClock creates a clock ticking rate times per second.
func NewClock(rate, maxCatchUp int) *Clock {
	if rate <= 0 {
		rate = DefaultTickRate
	}
	return &Clock{
		Interval:   time.Second / time.Duration(rate),
		MaxCatchUp: maxCatchUp,
	}
}

// Ticks returns the number of whole intervals elapsed since the previous call.
// The first call only records now and returns 0. Leftover time is carried
// into the next call, so a stall is caught up instead of slowing playback.
func (c *Clock) Ticks(now time.Time) int {
	if c.last.IsZero() {
		c.last = now
		return 0
	}
	if now.Before(c.last) {
		c.last = now
		return 0
	}

	c.pending += now.Sub(c.last)
	c.last = now

	n := int(c.pending / c.Interval)
	c.pending -= time.Duration(n) * c.Interval
	if c.MaxCatchUp > 0 && n > c.MaxCatchUp {
		n = c.MaxCatchUp
		c.pending = 0
	}
	return n
}

// Reset forgets the last observed time.
func (c *Clock) Reset() {
	c.last = time.Time{}
	c.pending = 0
}
