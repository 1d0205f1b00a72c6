package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueIsFIFO(t *testing.T) {
	sequences := [][]Command{
		{},
		{Quit},
		{Play, Pause, PlayForward, PlayReverse, DebugDraw, Quit},
		{Pause, Pause, Play, Pause, Quit, Play},
	}
	for _, seq := range sequences {
		q := NewQueue()
		for _, c := range seq {
			q.Enqueue(c)
		}
		require.Equal(t, len(seq), q.Len())

		for i, want := range seq {
			got, ok := q.Next()
			require.True(t, ok, "dequeue %d of %v", i, seq)
			assert.Equal(t, want, got)
		}
		_, ok := q.Next()
		assert.False(t, ok)
		assert.Zero(t, q.Len())
	}
}

func TestQueueInterleaved(t *testing.T) {
	q := NewQueue()
	q.Enqueue(Play)
	q.Enqueue(Pause)

	c, ok := q.Next()
	require.True(t, ok)
	assert.Equal(t, Play, c)

	q.Enqueue(Quit)
	c, _ = q.Next()
	assert.Equal(t, Pause, c)
	c, _ = q.Next()
	assert.Equal(t, Quit, c)

	_, ok = q.Next()
	assert.False(t, ok)

	// drained queues keep working
	q.Enqueue(DebugDraw)
	c, ok = q.Next()
	require.True(t, ok)
	assert.Equal(t, DebugDraw, c)
}

func TestTranslate(t *testing.T) {
	tests := []struct {
		key    Key
		action Action
		want   Command
		ok     bool
	}{
		{KeyEscape, Release, Quit, true},
		{KeyJ, Release, PlayReverse, true},
		{KeyK, Release, Pause, true},
		{KeyL, Release, PlayForward, true},
		{KeySpace, Release, Play, true},
		{KeyGrave, Release, DebugDraw, true},
		{KeyEscape, Press, 0, false},
		{KeyL, Repeat, 0, false},
		{KeyUnknown, Release, 0, false},
	}
	for _, tt := range tests {
		got, ok := Translate(tt.key, tt.action)
		assert.Equal(t, tt.ok, ok, "key %d action %d", tt.key, tt.action)
		if tt.ok {
			assert.Equal(t, tt.want, got)
		}
	}
}

func TestCommandString(t *testing.T) {
	assert.Equal(t, "play-reverse", PlayReverse.String())
	assert.Equal(t, "command(42)", Command(42).String())
	assert.False(t, Command(-1).Valid())
}
