package glfwcontext

import (
	"runtime"

	glfw "github.com/go-gl/glfw/v3.3/glfw"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/solar-nl/wgpu-spielerei/command"
	options "github.com/solar-nl/wgpu-spielerei/options"
)

// Context is the GLFW window hosting the GL context. It turns key releases
// into playback commands and reports framebuffer resizes.
type Context struct {
	window   *glfw.Window
	onCmd    func(command.Command)
	onResize func(width, height int)
}

var keyMap = map[glfw.Key]command.Key{
	glfw.KeyEscape:      command.KeyEscape,
	glfw.KeyJ:           command.KeyJ,
	glfw.KeyK:           command.KeyK,
	glfw.KeyL:           command.KeyL,
	glfw.KeySpace:       command.KeySpace,
	glfw.KeyGraveAccent: command.KeyGrave,
}

var actionMap = map[glfw.Action]command.Action{
	glfw.Press:   command.Press,
	glfw.Release: command.Release,
	glfw.Repeat:  command.Repeat,
}

// translateKey maps a GLFW key event to a playback command.
func translateKey(key glfw.Key, action glfw.Action) (command.Command, bool) {
	k, ok := keyMap[key]
	if !ok {
		return 0, false
	}
	a, ok := actionMap[action]
	if !ok {
		return 0, false
	}
	return command.Translate(k, a)
}

// New creates the window. A hidden window is used for recording.
func New(o *options.Options, visible bool) (*Context, error) {
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	if o.BitDepth > 8 {
		glfw.WindowHint(glfw.RedBits, 16)
		glfw.WindowHint(glfw.GreenBits, 16)
		glfw.WindowHint(glfw.BlueBits, 16)
	}

	if visible {
		glfw.WindowHint(glfw.Resizable, glfw.True)
	} else {
		glfw.WindowHint(glfw.Visible, glfw.False)
	}

	win, err := glfw.CreateWindow(o.Width, o.Height, o.Title, nil, nil)
	if err != nil {
		return nil, errors.Wrap(err, "create window")
	}

	c := &Context{window: win}
	win.SetKeyCallback(c.glfwKeyCallback)
	win.SetFramebufferSizeCallback(c.glfwFramebufferSizeCallback)
	return c, nil
}

// OnCommand registers the receiver of translated key commands.
func (c *Context) OnCommand(f func(command.Command)) { c.onCmd = f }

// OnResize registers the receiver of framebuffer size changes.
func (c *Context) OnResize(f func(width, height int)) { c.onResize = f }

func (c *Context) glfwKeyCallback(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	cmd, ok := translateKey(key, action)
	if !ok || c.onCmd == nil {
		return
	}
	log.Debug().Stringer("command", cmd).Msg("key")
	c.onCmd(cmd)
}

func (c *Context) glfwFramebufferSizeCallback(w *glfw.Window, width, height int) {
	if c.onResize != nil {
		c.onResize(width, height)
	}
}

// MakeCurrent makes the context current for the calling goroutine.
func (c *Context) MakeCurrent() {
	c.window.MakeContextCurrent()
	glfw.SwapInterval(1)
}

func (c *Context) Shutdown() {
	c.window.Destroy()
}

func (c *Context) ShouldClose() bool {
	return c.window.ShouldClose()
}

func (c *Context) SwapBuffers() {
	c.window.SwapBuffers()
}

func (c *Context) PollEvents() {
	glfw.PollEvents()
}

func (c *Context) GetFramebufferSize() (int, int) {
	return c.window.GetFramebufferSize()
}

func (c *Context) Time() float64 {
	return glfw.GetTime()
}

// InitGraphics initializes GLFW. Must be called from the main thread.
func InitGraphics() error {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		return errors.Wrap(err, "initialize GLFW")
	}
	log.Debug().Msg("GLFW initialized")
	return nil
}

// TerminateGraphics shuts GLFW down. Must be called from the main thread.
func TerminateGraphics() {
	glfw.Terminate()
	log.Debug().Msg("GLFW terminated")
}
