// Package gldevice implements graphics.Device and graphics.Surface on
// OpenGL 4.1 core. Every call must happen on the thread that owns the
// window's GL context.
package gldevice

import (
	"image"
	"sync"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/solar-nl/wgpu-spielerei/graphics"
)

var glInitOnce sync.Once

// Device owns the GL objects shared by every pass: an empty vertex array
// for attribute-less draws.
type Device struct {
	vao uint32
}

// New makes ctx current and loads the GL entry points.
func New(ctx graphics.Context) (*Device, error) {
	ctx.MakeCurrent()

	var initErr error
	glInitOnce.Do(func() {
		initErr = gl.Init()
	})
	if initErr != nil {
		return nil, errors.Wrap(initErr, "initialize OpenGL")
	}
	log.Info().
		Str("version", gl.GoStr(gl.GetString(gl.VERSION))).
		Str("renderer", gl.GoStr(gl.GetString(gl.RENDERER))).
		Msg("OpenGL ready")

	d := &Device{}
	gl.GenVertexArrays(1, &d.vao)
	return d, nil
}

// Destroy releases the device's own objects.
func (d *Device) Destroy() {
	if d.vao != 0 {
		gl.DeleteVertexArrays(1, &d.vao)
		d.vao = 0
	}
}

func (d *Device) CreateImage(width, height int, format graphics.PixelFormat) (graphics.Image, error) {
	img, err := newImage(width, height, format, nil)
	if err != nil {
		return nil, err
	}
	return img, nil
}

// CreateImageFromRGBA uploads src as an 8-bit texture with mipmaps.
func (d *Device) CreateImageFromRGBA(src *image.RGBA) (graphics.Image, error) {
	b := src.Bounds()
	img, err := newImage(b.Dx(), b.Dy(), graphics.FormatRGBA8, gl.Ptr(src.Pix))
	if err != nil {
		return nil, err
	}
	gl.BindTexture(gl.TEXTURE_2D, img.texture)
	gl.GenerateMipmap(gl.TEXTURE_2D)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return img, nil
}

func (d *Device) CreateSampler(desc graphics.SamplerDesc) (graphics.Sampler, error) {
	s := &sampler{}
	gl.GenSamplers(1, &s.id)
	minFilter, magFilter := getFilterMode(desc.Filter)
	wrap := getWrapMode(desc.Wrap)
	gl.SamplerParameteri(s.id, gl.TEXTURE_MIN_FILTER, minFilter)
	gl.SamplerParameteri(s.id, gl.TEXTURE_MAG_FILTER, magFilter)
	gl.SamplerParameteri(s.id, gl.TEXTURE_WRAP_S, wrap)
	gl.SamplerParameteri(s.id, gl.TEXTURE_WRAP_T, wrap)
	return s, nil
}

func (d *Device) CreateUniformBuffer() (graphics.UniformBuffer, error) {
	return &uniformBuffer{}, nil
}

func (d *Device) CreateBindingSet(desc graphics.BindingSetDesc) (graphics.BindingSet, error) {
	bs := &bindingSet{label: desc.Label}
	if desc.Uniforms != nil {
		u, ok := desc.Uniforms.(*uniformBuffer)
		if !ok {
			return nil, errors.Errorf("binding set %s: foreign uniform buffer %T", desc.Label, desc.Uniforms)
		}
		bs.uniforms = u
	}
	if desc.Sampler != nil {
		s, ok := desc.Sampler.(*sampler)
		if !ok {
			return nil, errors.Errorf("binding set %s: foreign sampler %T", desc.Label, desc.Sampler)
		}
		bs.sampler = s
	}
	for i, img := range desc.Images {
		if img == nil {
			bs.images = append(bs.images, nil)
			continue
		}
		gi, ok := img.(*glImage)
		if !ok {
			return nil, errors.Errorf("binding set %s: slot %d holds foreign image %T", desc.Label, i, img)
		}
		bs.images = append(bs.images, gi)
	}
	return bs, nil
}

func (d *Device) CreatePipeline(desc graphics.PipelineDesc) (graphics.Pipeline, error) {
	return newPipeline(desc)
}

func (d *Device) NewEncoder(label string) graphics.Encoder {
	return &encoder{device: d, label: label}
}

// Submit runs the recorded commands, flushes and reports GL errors. Out of
// memory maps to graphics.ErrOutOfMemory.
func (d *Device) Submit(cb graphics.CommandBuffer) error {
	c, ok := cb.(*commandBuffer)
	if !ok {
		return errors.Errorf("foreign command buffer %T", cb)
	}
	if c.err != nil {
		return c.err
	}
	for _, img := range c.uses {
		if img.destroyed {
			return errors.Errorf("%s: uses destroyed image %d", c.label, img.texture)
		}
	}
	for _, op := range c.ops {
		op()
	}
	gl.Flush()
	return checkError(c.label)
}

func checkError(label string) error {
	code := gl.GetError()
	if code == gl.NO_ERROR {
		return nil
	}
	// drain the remaining flags
	for gl.GetError() != gl.NO_ERROR {
	}
	if code == gl.OUT_OF_MEMORY {
		return errors.Wrap(graphics.ErrOutOfMemory, label)
	}
	return errors.Errorf("%s: gl error 0x%04x", label, code)
}

type sampler struct {
	id uint32
}

func (s *sampler) Destroy() {
	if s.id != 0 {
		gl.DeleteSamplers(1, &s.id)
		s.id = 0
	}
}

// uniformBuffer keeps the block on the CPU; it is uploaded as plain
// uniforms when a draw executes.
type uniformBuffer struct {
	block graphics.UniformBlock
}

func (u *uniformBuffer) Write(b graphics.UniformBlock) { u.block = b }
func (u *uniformBuffer) Destroy()                      {}

type bindingSet struct {
	label    string
	uniforms *uniformBuffer
	sampler  *sampler
	images   []*glImage
}

func (b *bindingSet) Images() []graphics.Image {
	out := make([]graphics.Image, len(b.images))
	for i, img := range b.images {
		if img != nil {
			out[i] = img
		}
	}
	return out
}

func (b *bindingSet) Destroy() {
	b.images = nil
}
