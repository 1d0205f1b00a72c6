package glfwcontext

import (
	"testing"

	glfw "github.com/go-gl/glfw/v3.3/glfw"
	"github.com/stretchr/testify/assert"

	"github.com/solar-nl/wgpu-spielerei/command"
)

func TestTranslateKey(t *testing.T) {
	tests := []struct {
		key    glfw.Key
		action glfw.Action
		want   command.Command
		ok     bool
	}{
		{glfw.KeyEscape, glfw.Release, command.Quit, true},
		{glfw.KeyJ, glfw.Release, command.PlayReverse, true},
		{glfw.KeyK, glfw.Release, command.Pause, true},
		{glfw.KeyL, glfw.Release, command.PlayForward, true},
		{glfw.KeySpace, glfw.Release, command.Play, true},
		{glfw.KeyGraveAccent, glfw.Release, command.DebugDraw, true},
		{glfw.KeySpace, glfw.Press, 0, false},
		{glfw.KeyEscape, glfw.Repeat, 0, false},
		{glfw.KeyA, glfw.Release, 0, false},
	}
	for _, tt := range tests {
		got, ok := translateKey(tt.key, tt.action)
		assert.Equal(t, tt.ok, ok, "key %v action %v", tt.key, tt.action)
		if tt.ok {
			assert.Equal(t, tt.want, got)
		}
	}
}

func TestKeyCallbackDispatches(t *testing.T) {
	var got []command.Command
	c := &Context{}
	c.OnCommand(func(cmd command.Command) { got = append(got, cmd) })

	c.glfwKeyCallback(nil, glfw.KeyL, 0, glfw.Press, 0)
	c.glfwKeyCallback(nil, glfw.KeyL, 0, glfw.Release, 0)
	c.glfwKeyCallback(nil, glfw.KeyGraveAccent, 0, glfw.Release, 0)
	assert.Equal(t, []command.Command{command.PlayForward, command.DebugDraw}, got)

	var w, h int
	c.OnResize(func(width, height int) { w, h = width, height })
	c.glfwFramebufferSizeCallback(nil, 800, 600)
	assert.Equal(t, 800, w)
	assert.Equal(t, 600, h)
}
