package renderer

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"

	"github.com/solar-nl/wgpu-spielerei/graphics"
)

// Vertex and instance counts of the full-screen triangle draw.
const (
	triangleVertices  = 3
	triangleInstances = 1
)

// RenderPass describes one pass of a frame: what it reads, what it writes,
// how the target is cleared and which branch of the shader runs.
type RenderPass struct {
	Name     string
	Index    int32
	Clear    mgl32.Vec4
	Target   graphics.Target
	Bindings graphics.BindingSet
}

// aliased reports whether the pass reads its own write target.
func (p *RenderPass) aliased() bool {
	for _, img := range p.Bindings.Images() {
		if img != nil && graphics.Target(img) == p.Target {
			return true
		}
	}
	return false
}

// runPass uploads the pass's uniforms, records the draw and submits it as
// its own unit of work. Submissions execute in order, so the next pass sees
// everything this one wrote.
func (r *Renderer) runPass(p *RenderPass, f Frame) error {
	if p.aliased() {
		return errors.Errorf("pass %s reads its own target", p.Name)
	}
	w, h := p.Target.Size()
	r.uniforms.Write(graphics.NewUniformBlock(w, h, f.Time, p.Index, f.Debug))

	enc := r.device.NewEncoder(p.Name)
	pe := enc.BeginPass(p.Target, p.Clear)
	pe.SetPipeline(r.pipeline)
	pe.SetBindingSet(p.Bindings)
	pe.Draw(triangleVertices, triangleInstances)
	pe.End()

	if err := r.device.Submit(enc.Finish()); err != nil {
		return errors.Wrapf(err, "submit %s pass", p.Name)
	}
	return nil
}

// runPasses executes passes strictly in order and stops at the first failure.
func (r *Renderer) runPasses(passes []RenderPass, f Frame) error {
	for i := range passes {
		if err := r.runPass(&passes[i], f); err != nil {
			return err
		}
	}
	return nil
}
