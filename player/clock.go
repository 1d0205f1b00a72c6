package player

import "time"

// Default timings.
const (
	DefaultStep       = 16 * time.Millisecond
	DefaultMaxBacklog = 250 * time.Millisecond
)

// Clock advances simulation time in fixed steps. Real time accumulates
// between calls; each call consumes at most one step and carries the rest.
type Clock struct {
	Step time.Duration
	// MaxBacklog caps the carried real time, so a long stall (a debugger
	// pause, a dragged window) is not replayed step by step afterwards.
	MaxBacklog time.Duration

	last    time.Time
	started bool
	acc     time.Duration
	sim     time.Duration
	steps   uint64
}

// NewClock returns a clock with the default step and backlog.
func NewClock() *Clock {
	return &Clock{Step: DefaultStep, MaxBacklog: DefaultMaxBacklog}
}

// Start sets the reference point for the first Advance.
func (c *Clock) Start(now time.Time) {
	c.last = now
	c.started = true
}

// Advance accounts for the real time elapsed since the previous call and,
// if at least one step is due, moves simulation time by one step in the
// direction of rate (+1, -1 or 0). It reports whether a step was consumed.
// Simulation time never goes below zero.
func (c *Clock) Advance(now time.Time, rate int) bool {
	if c.Step <= 0 {
		c.Step = DefaultStep
	}
	if !c.started {
		c.Start(now)
	}
	if elapsed := now.Sub(c.last); elapsed > 0 {
		c.acc += elapsed
	}
	c.last = now
	if c.MaxBacklog > 0 && c.acc > c.MaxBacklog {
		c.acc = c.MaxBacklog
	}
	if c.acc < c.Step {
		return false
	}
	c.acc -= c.Step
	c.steps++
	c.sim += time.Duration(rate) * c.Step
	if c.sim < 0 {
		c.sim = 0
	}
	return true
}

// Time is the simulation time.
func (c *Clock) Time() time.Duration { return c.sim }

// Seconds is the simulation time in seconds.
func (c *Clock) Seconds() float64 { return c.sim.Seconds() }

// Backlog is the real time carried to the next Advance.
func (c *Clock) Backlog() time.Duration { return c.acc }

// Steps counts consumed steps, including paused ones.
func (c *Clock) Steps() uint64 { return c.steps }
