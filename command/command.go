// Package command holds the discrete playback commands produced by input
// handling and the FIFO queue that carries them to the tick loop.
package command

import "fmt"

// Command is one discrete playback request.
type Command int

const (
	Play Command = iota
	Pause
	PlayForward
	PlayReverse
	DebugDraw
	Quit
)

var names = [...]string{
	Play:        "play",
	Pause:       "pause",
	PlayForward: "play-forward",
	PlayReverse: "play-reverse",
	DebugDraw:   "debug-draw",
	Quit:        "quit",
}

func (c Command) String() string {
	if c.Valid() {
		return names[c]
	}
	return fmt.Sprintf("command(%d)", int(c))
}

// Valid reports whether c is one of the declared commands.
func (c Command) Valid() bool {
	return c >= Play && c <= Quit
}

// Queue is an unbounded FIFO of commands. It is owned by the control
// thread and is not safe for concurrent use.
type Queue struct {
	commands []Command
	head     int
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Enqueue appends c to the tail.
func (q *Queue) Enqueue(c Command) {
	q.commands = append(q.commands, c)
}

// Next removes and returns the head of the queue. ok is false when the
// queue is empty.
func (q *Queue) Next() (c Command, ok bool) {
	if q.head >= len(q.commands) {
		return 0, false
	}
	c = q.commands[q.head]
	q.head++
	if q.head == len(q.commands) {
		// reuse the backing array once drained
		q.commands = q.commands[:0]
		q.head = 0
	}
	return c, true
}

// Len reports how many commands are waiting.
func (q *Queue) Len() int {
	return len(q.commands) - q.head
}
