package graphics

// Context defines the interface for the window that hosts the GL context.
type Context interface {
	MakeCurrent()
	Shutdown()
	ShouldClose() bool
	// SwapBuffers hands the default framebuffer to the window system.
	SwapBuffers()
	// PollEvents dispatches pending window events to the registered callbacks.
	PollEvents()
	GetFramebufferSize() (int, int)
	Time() float64
}
