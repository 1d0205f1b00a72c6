// Package playback implements the playback state machine driven by
// dequeued commands.
package playback

import (
	"fmt"

	"github.com/solar-nl/wgpu-spielerei/command"
)

// State is the current playback mode.
type State int

const (
	Playing State = iota
	Paused
	PlayingForward
	PlayingReverse
	DebugDraw
	Quit
)

func (s State) String() string {
	switch s {
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	case PlayingForward:
		return "playing-forward"
	case PlayingReverse:
		return "playing-reverse"
	case DebugDraw:
		return "debug-draw"
	case Quit:
		return "quit"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Machine holds the single playback state of the process. The zero value
// is not ready; use New.
type Machine struct {
	state State
	rate  int
}

// New returns a machine that starts playing forward.
func New() *Machine {
	return &Machine{state: Playing, rate: 1}
}

// State returns the current state.
func (m *Machine) State() State { return m.state }

// Terminal reports whether Quit has been applied.
func (m *Machine) Terminal() bool { return m.state == Quit }

// Rate is the direction simulation time moves in: +1, -1 or 0.
func (m *Machine) Rate() int {
	if m.state == Quit {
		return 0
	}
	return m.rate
}

// Apply transitions on c and returns the resulting state. Once in Quit,
// every command is ignored.
func (m *Machine) Apply(c command.Command) State {
	if m.state == Quit {
		return m.state
	}
	switch c {
	case command.Quit:
		m.state = Quit
	case command.Play:
		m.state, m.rate = Playing, 1
	case command.Pause:
		m.state, m.rate = Paused, 0
	case command.PlayForward:
		m.state, m.rate = PlayingForward, 1
	case command.PlayReverse:
		m.state, m.rate = PlayingReverse, -1
	case command.DebugDraw:
		// keeps the rate of the mode it was entered from
		m.state = DebugDraw
	}
	return m.state
}
