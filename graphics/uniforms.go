package graphics

import "github.com/go-gl/mathgl/mgl32"

// Pass indices understood by the shared shader program.
const (
	PassFeedback  int32 = 0
	PassComposite int32 = 1
)

// UniformBlock is the record pushed to the GPU before every draw.
type UniformBlock struct {
	Resolution mgl32.Vec2
	Time       float32
	Pass       int32
	Debug      bool
}

// NewUniformBlock builds the block for one pass of a frame.
func NewUniformBlock(width, height int, seconds float64, pass int32, debug bool) UniformBlock {
	return UniformBlock{
		Resolution: mgl32.Vec2{float32(width), float32(height)},
		Time:       float32(seconds),
		Pass:       pass,
		Debug:      debug,
	}
}
