package gldevice

import (
	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/solar-nl/wgpu-spielerei/graphics"
)

// framebufferTarget is a target backed by a GL framebuffer object; 0 is
// the window's default framebuffer.
type framebufferTarget interface {
	graphics.Target
	framebuffer() uint32
}

// commandBuffer is a recorded list of GL calls. GL has no deferred
// submission, so the calls run when the buffer is submitted.
type commandBuffer struct {
	label string
	ops   []func()
	uses  []*glImage
	err   error
}

type encoder struct {
	device *Device
	label  string
	cb     commandBuffer
}

func (e *encoder) record(op func()) { e.cb.ops = append(e.cb.ops, op) }

func (e *encoder) use(img *glImage) { e.cb.uses = append(e.cb.uses, img) }

func (e *encoder) fail(err error) {
	if e.cb.err == nil {
		e.cb.err = err
	}
}

func (e *encoder) BeginPass(target graphics.Target, clear mgl32.Vec4) graphics.PassEncoder {
	pe := &passEncoder{enc: e}
	fb, ok := target.(framebufferTarget)
	if !ok {
		e.fail(errors.Errorf("%s: target %T is not a GL framebuffer", e.label, target))
		return pe
	}
	if img, ok := target.(*glImage); ok {
		e.use(img)
	}
	w, h := target.Size()
	e.record(func() {
		gl.BindFramebuffer(gl.FRAMEBUFFER, fb.framebuffer())
		gl.Viewport(0, 0, int32(w), int32(h))
		gl.ClearColor(clear.X(), clear.Y(), clear.Z(), clear.W())
		gl.Clear(gl.COLOR_BUFFER_BIT)
	})
	return pe
}

func (e *encoder) Finish() graphics.CommandBuffer {
	cb := e.cb
	cb.label = e.label
	if cb.err != nil {
		cb.ops = nil
	}
	e.cb = commandBuffer{}
	return &cb
}

type passEncoder struct {
	enc      *encoder
	pipeline *pipeline
	bindings *bindingSet
}

func (p *passEncoder) SetPipeline(pl graphics.Pipeline) {
	gp, ok := pl.(*pipeline)
	if !ok {
		p.enc.fail(errors.Errorf("%s: foreign pipeline %T", p.enc.label, pl))
		return
	}
	p.pipeline = gp
	p.enc.record(func() { gl.UseProgram(gp.program) })
}

func (p *passEncoder) SetBindingSet(bs graphics.BindingSet) {
	gb, ok := bs.(*bindingSet)
	if !ok {
		p.enc.fail(errors.Errorf("%s: foreign binding set %T", p.enc.label, bs))
		return
	}
	if p.pipeline == nil {
		p.enc.fail(errors.Errorf("%s: binding set %s set before a pipeline", p.enc.label, gb.label))
		return
	}
	p.bindings = gb
	pl := p.pipeline
	for _, img := range gb.images {
		if img != nil {
			p.enc.use(img)
		}
	}
	p.enc.record(func() {
		for i, img := range gb.images {
			var tex uint32
			if img != nil {
				tex = img.texture
			}
			unit := uint32(i)
			gl.ActiveTexture(gl.TEXTURE0 + unit)
			gl.BindTexture(gl.TEXTURE_2D, tex)
			if gb.sampler != nil {
				gl.BindSampler(unit, gb.sampler.id)
			}
			if i < len(pl.channelLocs) && pl.channelLocs[i] != -1 {
				gl.Uniform1i(pl.channelLocs[i], int32(i))
			}
		}
	})
}

// Draw uploads the binding set's uniform block as it is when the draw
// executes, then draws without vertex buffers.
func (p *passEncoder) Draw(vertexCount, instanceCount int) {
	if p.pipeline == nil {
		p.enc.fail(errors.Errorf("%s: draw without a pipeline", p.enc.label))
		return
	}
	pl, bs, vao := p.pipeline, p.bindings, p.enc.device.vao
	p.enc.record(func() {
		if bs != nil && bs.uniforms != nil {
			pl.setUniforms(bs.uniforms.block)
		}
		gl.BindVertexArray(vao)
		gl.DrawArraysInstanced(gl.TRIANGLES, 0, int32(vertexCount), int32(instanceCount))
	})
}

func (p *passEncoder) End() {
	bs := p.bindings
	p.enc.record(func() {
		if bs != nil {
			for i := range bs.images {
				unit := uint32(i)
				gl.ActiveTexture(gl.TEXTURE0 + unit)
				gl.BindTexture(gl.TEXTURE_2D, 0)
				gl.BindSampler(unit, 0)
			}
		}
		gl.BindVertexArray(0)
		gl.UseProgram(0)
		gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	})
}
