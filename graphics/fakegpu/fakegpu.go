// Package fakegpu is an in-memory graphics.Device and graphics.Surface that
// records every submitted pass. It lets the frame logic be tested without
// a GL context.
package fakegpu

import (
	"fmt"
	"image"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/solar-nl/wgpu-spielerei/graphics"
)

// Image is a recorded off-screen image.
type Image struct {
	ID        int
	Width     int
	Height    int
	Fmt       graphics.PixelFormat
	Static    bool
	Destroyed bool
}

func (i *Image) Size() (int, int)              { return i.Width, i.Height }
func (i *Image) Format() graphics.PixelFormat { return i.Fmt }
func (i *Image) Destroy()                     { i.Destroyed = true }
func (i *Image) String() string               { return fmt.Sprintf("image#%d", i.ID) }

type sampler struct{ destroyed bool }

func (s *sampler) Destroy() { s.destroyed = true }

// UniformBuffer keeps the last written block.
type UniformBuffer struct {
	Current   graphics.UniformBlock
	Writes    int
	Destroyed bool
}

func (u *UniformBuffer) Write(b graphics.UniformBlock) {
	u.Current = b
	u.Writes++
}
func (u *UniformBuffer) Destroy() { u.Destroyed = true }

// BindingSet is a recorded binding configuration.
type BindingSet struct {
	Label     string
	Uniforms  *UniformBuffer
	images    []graphics.Image
	Destroyed bool
}

func (b *BindingSet) Images() []graphics.Image { return b.images }
func (b *BindingSet) Destroy()                 { b.Destroyed = true }

// Pipeline is a recorded pipeline.
type Pipeline struct {
	Desc      graphics.PipelineDesc
	Destroyed bool
}

func (p *Pipeline) Destroy() { p.Destroyed = true }

// Draw is one recorded draw call.
type Draw struct {
	Vertices  int
	Instances int
}

// Pass is one executed render pass as seen at submission time.
type Pass struct {
	Encoder  string
	Target   graphics.Target
	Clear    mgl32.Vec4
	Pipeline *Pipeline
	Bindings *BindingSet
	Reads    []graphics.Image
	Uniforms graphics.UniformBlock
	Draws    []Draw
}

type commandBuffer struct {
	label  string
	passes []*Pass
}

type encoder struct {
	label  string
	passes []*Pass
}

func (e *encoder) BeginPass(target graphics.Target, clear mgl32.Vec4) graphics.PassEncoder {
	p := &Pass{Encoder: e.label, Target: target, Clear: clear}
	e.passes = append(e.passes, p)
	return &passEncoder{pass: p}
}

func (e *encoder) Finish() graphics.CommandBuffer {
	return &commandBuffer{label: e.label, passes: e.passes}
}

type passEncoder struct {
	pass  *Pass
	ended bool
}

func (p *passEncoder) SetPipeline(pl graphics.Pipeline) { p.pass.Pipeline = pl.(*Pipeline) }
func (p *passEncoder) SetBindingSet(bs graphics.BindingSet) {
	p.pass.Bindings = bs.(*BindingSet)
}
func (p *passEncoder) Draw(vertexCount, instanceCount int) {
	p.pass.Draws = append(p.pass.Draws, Draw{Vertices: vertexCount, Instances: instanceCount})
}
func (p *passEncoder) End() { p.ended = true }

// Device records everything created and submitted through it.
type Device struct {
	Images      []*Image
	Pipelines   []*Pipeline
	BindingSets []*BindingSet
	Uniforms    []*UniformBuffer
	// Submissions holds the passes of every submission, in order.
	Submissions [][]*Pass
	// SubmitErr, when set, is returned by the next Submit.
	SubmitErr error
	// CreateImageErr, when set, is returned by every CreateImage.
	CreateImageErr error
}

// NewDevice creates an empty recording device.
func NewDevice() *Device {
	return &Device{}
}

func (d *Device) newImage(w, h int, f graphics.PixelFormat) *Image {
	img := &Image{ID: len(d.Images), Width: w, Height: h, Fmt: f}
	d.Images = append(d.Images, img)
	return img
}

func (d *Device) CreateImage(width, height int, format graphics.PixelFormat) (graphics.Image, error) {
	if d.CreateImageErr != nil {
		return nil, d.CreateImageErr
	}
	return d.newImage(width, height, format), nil
}

func (d *Device) CreateImageFromRGBA(img *image.RGBA) (graphics.Image, error) {
	b := img.Bounds()
	i := d.newImage(b.Dx(), b.Dy(), graphics.FormatRGBA8)
	i.Static = true
	return i, nil
}

func (d *Device) CreateSampler(graphics.SamplerDesc) (graphics.Sampler, error) {
	return &sampler{}, nil
}

func (d *Device) CreateUniformBuffer() (graphics.UniformBuffer, error) {
	u := &UniformBuffer{}
	d.Uniforms = append(d.Uniforms, u)
	return u, nil
}

func (d *Device) CreateBindingSet(desc graphics.BindingSetDesc) (graphics.BindingSet, error) {
	u, _ := desc.Uniforms.(*UniformBuffer)
	bs := &BindingSet{
		Label:    desc.Label,
		Uniforms: u,
		images:   append([]graphics.Image(nil), desc.Images...),
	}
	d.BindingSets = append(d.BindingSets, bs)
	return bs, nil
}

func (d *Device) CreatePipeline(desc graphics.PipelineDesc) (graphics.Pipeline, error) {
	p := &Pipeline{Desc: desc}
	d.Pipelines = append(d.Pipelines, p)
	return p, nil
}

func (d *Device) NewEncoder(label string) graphics.Encoder {
	return &encoder{label: label}
}

// Submit snapshots the uniform buffer into each pass and rejects work
// that touches a destroyed image.
func (d *Device) Submit(cb graphics.CommandBuffer) error {
	if d.SubmitErr != nil {
		err := d.SubmitErr
		d.SubmitErr = nil
		return err
	}
	c := cb.(*commandBuffer)
	for _, p := range c.passes {
		if img, ok := p.Target.(*Image); ok && img.Destroyed {
			return fmt.Errorf("pass %q renders into destroyed %v", c.label, img)
		}
		if p.Bindings == nil {
			continue
		}
		if p.Bindings.Destroyed {
			return fmt.Errorf("pass %q uses destroyed binding set %q", c.label, p.Bindings.Label)
		}
		for _, img := range p.Bindings.images {
			if fi, ok := img.(*Image); ok && fi.Destroyed {
				return fmt.Errorf("pass %q reads destroyed %v", c.label, fi)
			}
		}
		p.Reads = p.Bindings.images
		if p.Bindings.Uniforms != nil {
			p.Uniforms = p.Bindings.Uniforms.Current
		}
	}
	d.Submissions = append(d.Submissions, c.passes)
	return nil
}

// Passes flattens all submitted passes in submission order.
func (d *Device) Passes() []*Pass {
	var out []*Pass
	for _, s := range d.Submissions {
		out = append(out, s...)
	}
	return out
}

// LiveImages returns the images that have not been destroyed.
func (d *Device) LiveImages() []*Image {
	var out []*Image
	for _, img := range d.Images {
		if !img.Destroyed {
			out = append(out, img)
		}
	}
	return out
}

// SurfaceImage is an acquired fake back-buffer.
type SurfaceImage struct {
	Frame  int
	Width  int
	Height int
}

func (s *SurfaceImage) Size() (int, int) { return s.Width, s.Height }

// Surface is a fake presentable surface.
type Surface struct {
	Width      int
	Height     int
	Fmt        graphics.PixelFormat
	Configures int
	Presented  []*SurfaceImage
	// AcquireErrs are returned, in order, by the next Acquire calls.
	AcquireErrs []error
	acquired    int
}

// NewSurface creates a fake surface with the given format.
func NewSurface(format graphics.PixelFormat) *Surface {
	return &Surface{Fmt: format}
}

func (s *Surface) Configure(width, height int) error {
	s.Width, s.Height = width, height
	s.Configures++
	return nil
}

func (s *Surface) Format() graphics.PixelFormat { return s.Fmt }

func (s *Surface) Acquire() (graphics.SurfaceImage, error) {
	if len(s.AcquireErrs) > 0 {
		err := s.AcquireErrs[0]
		s.AcquireErrs = s.AcquireErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	s.acquired++
	return &SurfaceImage{Frame: s.acquired, Width: s.Width, Height: s.Height}, nil
}

func (s *Surface) Present(img graphics.SurfaceImage) error {
	s.Presented = append(s.Presented, img.(*SurfaceImage))
	return nil
}
