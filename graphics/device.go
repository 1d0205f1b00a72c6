package graphics

import (
	"image"

	"github.com/go-gl/mathgl/mgl32"
)

// PixelFormat is the storage format of an image or surface.
type PixelFormat int

const (
	FormatRGBA8 PixelFormat = iota
	FormatRGBA16F
)

func (f PixelFormat) String() string {
	switch f {
	case FormatRGBA8:
		return "rgba8"
	case FormatRGBA16F:
		return "rgba16f"
	default:
		return "unknown"
	}
}

// Target is anything a pass can render into.
type Target interface {
	Size() (int, int)
}

// Image is an off-screen image that can be rendered into and sampled.
type Image interface {
	Target
	Format() PixelFormat
	Destroy()
}

// SurfaceImage is the acquired window back-buffer for one frame.
type SurfaceImage interface {
	Target
}

// Sampler describes how images are filtered and wrapped when read.
type Sampler interface {
	Destroy()
}

// SamplerDesc configures a Sampler. Filter is "linear" or "nearest"; Wrap
// is "repeat", "clamp" or "mirror".
type SamplerDesc struct {
	Filter string
	Wrap   string
}

// UniformBuffer holds the UniformBlock visible to the next submitted pass.
type UniformBuffer interface {
	Write(UniformBlock)
	Destroy()
}

// BindingSetDesc lists the resources a pass reads. Images are bound to
// slots in order; a nil entry leaves that slot unbound.
type BindingSetDesc struct {
	Label    string
	Uniforms UniformBuffer
	Sampler  Sampler
	Images   []Image
}

// BindingSet is an immutable association of resources to shader slots.
type BindingSet interface {
	Images() []Image
	Destroy()
}

// PipelineDesc carries translated shader stages and the mapping from the
// logical uniform names (iResolution, iTime, iPass, iDebug, iChannelN)
// to the names used in the compiled source.
type PipelineDesc struct {
	Label          string
	VertexSource   string
	FragmentSource string
	UniformNames   map[string]string
	Channels       int
}

// Pipeline is a linked shader program.
type Pipeline interface {
	Destroy()
}

// CommandBuffer is finished, submittable GPU work.
type CommandBuffer interface{}

// PassEncoder records the commands of one render pass.
type PassEncoder interface {
	SetPipeline(Pipeline)
	SetBindingSet(BindingSet)
	// Draw issues a draw without vertex buffers.
	Draw(vertexCount, instanceCount int)
	End()
}

// Encoder records passes into a CommandBuffer.
type Encoder interface {
	BeginPass(target Target, clear mgl32.Vec4) PassEncoder
	Finish() CommandBuffer
}

// Device creates GPU objects and executes submissions in the order issued.
type Device interface {
	CreateImage(width, height int, format PixelFormat) (Image, error)
	CreateImageFromRGBA(img *image.RGBA) (Image, error)
	CreateSampler(desc SamplerDesc) (Sampler, error)
	CreateUniformBuffer() (UniformBuffer, error)
	CreateBindingSet(desc BindingSetDesc) (BindingSet, error)
	CreatePipeline(desc PipelineDesc) (Pipeline, error)
	NewEncoder(label string) Encoder
	Submit(cb CommandBuffer) error
}

// Surface is the presentable side of a window (or a recording sink).
type Surface interface {
	Configure(width, height int) error
	Format() PixelFormat
	// Acquire returns the image to present this frame, or one of the
	// Err* values declared in errors.go.
	Acquire() (SurfaceImage, error)
	Present(SurfaceImage) error
}
