package renderer

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/solar-nl/wgpu-spielerei/graphics"
	inputs "github.com/solar-nl/wgpu-spielerei/inputs"
)

// ErrFatal is the cause of every error RenderFrame cannot recover from.
var ErrFatal = errors.New("unrecoverable gpu failure")

// Status is the outcome of a frame that did not fail fatally.
type Status int

const (
	// StatusPresented means both passes ran and the surface was presented.
	StatusPresented Status = iota
	// StatusReconfigured means the surface was stale and has been
	// configured again; the frame is retried on the next tick.
	StatusReconfigured
	// StatusSkipped means acquisition timed out; nothing was drawn.
	StatusSkipped
)

func (s Status) String() string {
	switch s {
	case StatusPresented:
		return "presented"
	case StatusReconfigured:
		return "reconfigured"
	case StatusSkipped:
		return "skipped"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Frame is the per-frame input of the renderer.
type Frame struct {
	// Time is the simulation time in seconds.
	Time  float64
	Debug bool
}

// Default clear colours: blue behind the feedback pass, black behind the
// composite.
var (
	DefaultFeedbackClear  = mgl32.Vec4{0, 0, 1, 1}
	DefaultCompositeClear = mgl32.Vec4{0, 0, 0, 1}
)

// Config holds everything the renderer needs. The renderer takes ownership
// of Logo.
type Config struct {
	Device         graphics.Device
	Surface        graphics.Surface
	Logo           graphics.Image
	FragmentSource string
	Translate      TranslateFunc
	Width          int
	Height         int
	FeedbackImages int
	ClearColors    [2]mgl32.Vec4
	Sampler        graphics.SamplerDesc
	// WindowSize reports the current framebuffer size; it is consulted
	// when the surface turns out to be stale.
	WindowSize func() (int, int)
}

// Renderer runs the two-pass feedback frame: the feedback pass renders into
// a ring image while reading earlier frames, the composite pass reads the
// image just written and renders into the window surface.
type Renderer struct {
	device     graphics.Device
	surface    graphics.Surface
	logo       graphics.Image
	sampler    graphics.Sampler
	uniforms   graphics.UniformBuffer
	pipeline   graphics.Pipeline
	feedback   *inputs.Feedback
	count      int
	clear      [2]mgl32.Vec4
	windowSize func() (int, int)

	width, height int
	pendingW      int
	pendingH      int
	pending       bool
	debug         bool
	frames        uint64
}

// New configures the surface and creates the sampler, uniform buffer,
// pipeline and feedback ring.
func New(cfg Config) (*Renderer, error) {
	if cfg.FeedbackImages == 0 {
		cfg.FeedbackImages = inputs.MaxFeedbackImages
	}
	if cfg.ClearColors == ([2]mgl32.Vec4{}) {
		cfg.ClearColors = [2]mgl32.Vec4{DefaultFeedbackClear, DefaultCompositeClear}
	}
	if cfg.Sampler == (graphics.SamplerDesc{}) {
		cfg.Sampler = graphics.SamplerDesc{Filter: "linear", Wrap: "repeat"}
	}
	r := &Renderer{
		device:     cfg.Device,
		surface:    cfg.Surface,
		logo:       cfg.Logo,
		count:      cfg.FeedbackImages,
		clear:      cfg.ClearColors,
		windowSize: cfg.WindowSize,
		width:      cfg.Width,
		height:     cfg.Height,
	}

	if err := r.surface.Configure(cfg.Width, cfg.Height); err != nil {
		r.Destroy()
		return nil, errors.Wrap(err, "configure surface")
	}

	var err error
	if r.sampler, err = r.device.CreateSampler(cfg.Sampler); err != nil {
		r.Destroy()
		return nil, errors.Wrap(err, "create sampler")
	}
	if r.uniforms, err = r.device.CreateUniformBuffer(); err != nil {
		r.Destroy()
		return nil, errors.Wrap(err, "create uniform buffer")
	}

	desc, err := pipelineDesc(cfg.FragmentSource, r.count+1, cfg.Translate)
	if err != nil {
		r.Destroy()
		return nil, err
	}
	if r.pipeline, err = r.device.CreatePipeline(desc); err != nil {
		r.Destroy()
		return nil, errors.Wrap(err, "create pipeline")
	}

	if r.feedback, err = r.newFeedback(cfg.Width, cfg.Height); err != nil {
		r.Destroy()
		return nil, err
	}
	log.Info().Int("width", cfg.Width).Int("height", cfg.Height).
		Int("feedback_images", r.count).Str("format", r.surface.Format().String()).
		Msg("renderer ready")
	return r, nil
}

func (r *Renderer) newFeedback(w, h int) (*inputs.Feedback, error) {
	f, err := inputs.NewFeedback(r.device, inputs.FeedbackConfig{
		Width:    w,
		Height:   h,
		Format:   r.surface.Format(),
		Count:    r.count,
		Logo:     r.logo,
		Sampler:  r.sampler,
		Uniforms: r.uniforms,
	})
	if err != nil {
		return nil, errors.Wrap(err, "create feedback images")
	}
	return f, nil
}

// Resize records a new window size. The surface and the feedback ring are
// rebuilt at the start of the next frame, so no recorded work can refer to
// a destroyed image. Zero sizes (a minimised window) are ignored.
func (r *Renderer) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	r.pendingW, r.pendingH, r.pending = width, height, true
}

// Size returns the size frames are rendered at.
func (r *Renderer) Size() (int, int) { return r.width, r.height }

// Frames returns how many frames have been presented.
func (r *Renderer) Frames() uint64 { return r.frames }

func (r *Renderer) applyResize() error {
	w, h := r.pendingW, r.pendingH
	r.pending = false
	if err := r.surface.Configure(w, h); err != nil {
		return err
	}
	if fw, fh := r.feedback.Size(); fw == w && fh == h {
		r.width, r.height = w, h
		return nil
	}
	r.feedback.Destroy()
	f, err := r.newFeedback(w, h)
	if err != nil {
		r.feedback = nil
		return err
	}
	r.feedback = f
	r.width, r.height = w, h
	log.Info().Int("width", w).Int("height", h).Msg("feedback images recreated")
	return nil
}

// framePasses lays out this frame's two passes.
func (r *Renderer) framePasses(target graphics.SurfaceImage) []RenderPass {
	return []RenderPass{
		{
			Name:     "feedback",
			Index:    graphics.PassFeedback,
			Clear:    r.clear[0],
			Target:   r.feedback.Target(),
			Bindings: r.feedback.WriteSet(),
		},
		{
			Name:     "composite",
			Index:    graphics.PassComposite,
			Clear:    r.clear[1],
			Target:   target,
			Bindings: r.feedback.CompositeSet(),
		},
	}
}

// RenderFrame renders and presents one frame. A non-nil error always has
// ErrFatal as its cause.
func (r *Renderer) RenderFrame(f Frame) (Status, error) {
	if r.feedback == nil {
		return StatusSkipped, errors.Wrap(ErrFatal, "renderer has no feedback images")
	}
	if r.pending {
		if err := r.applyResize(); err != nil {
			return StatusSkipped, errors.Wrapf(ErrFatal, "resize: %v", err)
		}
	}
	if f.Debug != r.debug {
		r.debug = f.Debug
		log.Info().Bool("debug", f.Debug).Msg("debug draw toggled")
	}

	img, err := r.surface.Acquire()
	if err != nil {
		return r.acquireFailed(err)
	}

	if err := r.runPasses(r.framePasses(img), f); err != nil {
		return StatusSkipped, errors.Wrapf(ErrFatal, "%v", err)
	}
	if err := r.surface.Present(img); err != nil {
		if graphics.Recoverable(err) || graphics.Transient(err) {
			log.Warn().Err(err).Msg("present failed")
		} else {
			return StatusSkipped, errors.Wrapf(ErrFatal, "present: %v", err)
		}
	}
	r.feedback.Advance()
	r.frames++
	return StatusPresented, nil
}

func (r *Renderer) acquireFailed(err error) (Status, error) {
	switch {
	case graphics.Recoverable(err):
		w, h := r.width, r.height
		if r.windowSize != nil {
			if ww, wh := r.windowSize(); ww > 0 && wh > 0 {
				w, h = ww, wh
			}
		}
		log.Info().Err(err).Int("width", w).Int("height", h).Msg("reconfiguring surface")
		r.pendingW, r.pendingH, r.pending = w, h, true
		if rerr := r.applyResize(); rerr != nil {
			return StatusSkipped, errors.Wrapf(ErrFatal, "reconfigure: %v", rerr)
		}
		return StatusReconfigured, nil
	case graphics.Transient(err):
		log.Warn().Err(err).Msg("surface timeout, frame skipped")
		return StatusSkipped, nil
	default:
		log.Error().Err(err).Msg("surface acquisition failed")
		return StatusSkipped, errors.Wrapf(ErrFatal, "acquire surface: %v", err)
	}
}

// Destroy releases every GPU object the renderer owns.
func (r *Renderer) Destroy() {
	if r.feedback != nil {
		r.feedback.Destroy()
		r.feedback = nil
	}
	if r.pipeline != nil {
		r.pipeline.Destroy()
		r.pipeline = nil
	}
	if r.uniforms != nil {
		r.uniforms.Destroy()
		r.uniforms = nil
	}
	if r.sampler != nil {
		r.sampler.Destroy()
		r.sampler = nil
	}
	if r.logo != nil {
		r.logo.Destroy()
		r.logo = nil
	}
}
