package player

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var t0 = time.Date(2024, 2, 17, 20, 0, 0, 0, time.UTC)

func TestClockCarriesRemainder(t *testing.T) {
	c := NewClock()
	c.Start(t0)

	now := t0.Add(40 * time.Millisecond)
	assert.True(t, c.Advance(now, 1))
	assert.Equal(t, 16*time.Millisecond, c.Time())
	assert.Equal(t, 24*time.Millisecond, c.Backlog())

	assert.True(t, c.Advance(now, 1))
	assert.Equal(t, 32*time.Millisecond, c.Time())

	assert.False(t, c.Advance(now, 1))
	assert.Equal(t, 32*time.Millisecond, c.Time())
	assert.Equal(t, 8*time.Millisecond, c.Backlog())
	assert.EqualValues(t, 2, c.Steps())
}

func TestClockAtMostOneStepPerCall(t *testing.T) {
	c := NewClock()
	c.Start(t0)
	now := t0
	for _, gap := range []time.Duration{0, time.Millisecond, 17 * time.Millisecond, time.Second, time.Hour} {
		before := c.Time()
		now = now.Add(gap)
		c.Advance(now, 1)
		assert.LessOrEqual(t, c.Time()-before, c.Step, "gap %v", gap)
	}
}

func TestClockBacklogIsCapped(t *testing.T) {
	c := NewClock()
	c.Start(t0)
	c.Advance(t0.Add(10*time.Second), 1)
	assert.Equal(t, DefaultMaxBacklog-DefaultStep, c.Backlog())
}

func TestClockRates(t *testing.T) {
	c := NewClock()
	c.Start(t0)
	now := t0
	step := func(rate int) {
		now = now.Add(c.Step)
		assert.True(t, c.Advance(now, rate))
	}

	step(1)
	step(1)
	assert.Equal(t, 32*time.Millisecond, c.Time())
	step(0)
	assert.Equal(t, 32*time.Millisecond, c.Time(), "paused steps consume real time only")
	step(-1)
	assert.Equal(t, 16*time.Millisecond, c.Time())
	step(-1)
	step(-1)
	assert.Equal(t, time.Duration(0), c.Time(), "reverse stops at zero")
	assert.Zero(t, c.Backlog())
}

func TestClockStartsOnFirstAdvance(t *testing.T) {
	c := &Clock{}
	assert.False(t, c.Advance(t0, 1))
	assert.True(t, c.Advance(t0.Add(DefaultStep), 1))
	assert.Equal(t, DefaultStep, c.Time())
}

func TestClockIgnoresBackwardsTime(t *testing.T) {
	c := NewClock()
	c.Start(t0)
	assert.False(t, c.Advance(t0.Add(-time.Second), 1))
	assert.Zero(t, c.Backlog())
}
