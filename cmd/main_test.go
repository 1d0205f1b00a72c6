package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type window struct {
	polls  int
	closed bool
}

func (w *window) PollEvents()       { w.polls++ }
func (w *window) ShouldClose() bool { return w.closed }

func TestFrameLimit(t *testing.T) {
	w := &window{}
	f := &frameLimit{EventSource: w, total: 3}
	var frames int
	for {
		f.PollEvents()
		frames++
		if f.ShouldClose() {
			break
		}
	}
	assert.Equal(t, 3, frames)
	assert.Equal(t, 3, w.polls)

	w2 := &window{closed: true}
	f = &frameLimit{EventSource: w2, total: 100}
	f.PollEvents()
	assert.True(t, f.ShouldClose(), "closing the window stops a recording early")
}

func TestSteppedClock(t *testing.T) {
	now := steppedClock(20 * time.Millisecond)
	a := now()
	b := now()
	c := now()
	assert.Equal(t, 20*time.Millisecond, b.Sub(a))
	assert.Equal(t, 20*time.Millisecond, c.Sub(b))
}
