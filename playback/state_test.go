package playback

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/solar-nl/wgpu-spielerei/command"
)

var allCommands = []command.Command{
	command.Play,
	command.Pause,
	command.PlayForward,
	command.PlayReverse,
	command.DebugDraw,
	command.Quit,
}

func TestInitialState(t *testing.T) {
	m := New()
	assert.Equal(t, Playing, m.State())
	assert.Equal(t, 1, m.Rate())
	assert.False(t, m.Terminal())
}

func TestTransitions(t *testing.T) {
	tests := []struct {
		cmd   command.Command
		state State
		rate  int
	}{
		{command.Play, Playing, 1},
		{command.Pause, Paused, 0},
		{command.PlayForward, PlayingForward, 1},
		{command.PlayReverse, PlayingReverse, -1},
	}
	for _, from := range allCommands[:5] {
		for _, tt := range tests {
			m := New()
			m.Apply(from)
			got := m.Apply(tt.cmd)
			assert.Equal(t, tt.state, got, "%v then %v", from, tt.cmd)
			assert.Equal(t, tt.rate, m.Rate(), "%v then %v", from, tt.cmd)
		}
	}
}

func TestDebugDrawKeepsRate(t *testing.T) {
	for _, tt := range []struct {
		before command.Command
		rate   int
	}{
		{command.Play, 1},
		{command.Pause, 0},
		{command.PlayReverse, -1},
	} {
		m := New()
		m.Apply(tt.before)
		assert.Equal(t, DebugDraw, m.Apply(command.DebugDraw))
		assert.Equal(t, tt.rate, m.Rate(), "debug draw after %v", tt.before)
	}
}

func TestQuitIsTerminal(t *testing.T) {
	for _, from := range allCommands {
		m := New()
		m.Apply(from)
		assert.Equal(t, Quit, m.Apply(command.Quit))
		for _, c := range allCommands {
			assert.Equal(t, Quit, m.Apply(c), "after quit from %v, applying %v", from, c)
		}
		assert.True(t, m.Terminal())
		assert.Zero(t, m.Rate())
	}
}
