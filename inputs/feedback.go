package inputs

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/solar-nl/wgpu-spielerei/graphics"
)

// MinFeedbackImages and MaxFeedbackImages bound the ring size.
const (
	MinFeedbackImages = 2
	MaxFeedbackImages = 4
)

// FeedbackConfig describes a feedback ring.
type FeedbackConfig struct {
	Width    int
	Height   int
	Format   graphics.PixelFormat
	Count    int
	Logo     graphics.Image
	Sampler  graphics.Sampler
	Uniforms graphics.UniformBuffer
}

// Feedback manages a ring of off-screen images so that a pass can read the
// images written in earlier frames. It generalises a double-buffered
// read/write pair to N images.
//
// Every binding set uses the same slot layout: slot 0 is the static logo,
// slots 1..N hold feedback images newest first. The write set for a ring
// position never contains that position's image; its last slot is left
// unbound.
type Feedback struct {
	images    []graphics.Image
	write     []graphics.BindingSet
	composite []graphics.BindingSet
	current   int // ring position written this frame
	width     int
	height    int
}

// NewFeedback creates the images and the 2N binding sets of a ring.
func NewFeedback(dev graphics.Device, cfg FeedbackConfig) (*Feedback, error) {
	if cfg.Count < MinFeedbackImages || cfg.Count > MaxFeedbackImages {
		return nil, errors.Errorf("feedback image count %d out of range [%d,%d]", cfg.Count, MinFeedbackImages, MaxFeedbackImages)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, errors.Errorf("invalid feedback size %dx%d", cfg.Width, cfg.Height)
	}

	f := &Feedback{width: cfg.Width, height: cfg.Height}
	for i := 0; i < cfg.Count; i++ {
		img, err := dev.CreateImage(cfg.Width, cfg.Height, cfg.Format)
		if err != nil {
			f.Destroy()
			return nil, errors.Wrapf(err, "create feedback image %d", i)
		}
		f.images = append(f.images, img)
	}

	for k := 0; k < cfg.Count; k++ {
		ws, err := dev.CreateBindingSet(graphics.BindingSetDesc{
			Label:    fmt.Sprintf("feedback-write-%d", k),
			Uniforms: cfg.Uniforms,
			Sampler:  cfg.Sampler,
			Images:   f.slots(cfg.Logo, k, false),
		})
		if err != nil {
			f.Destroy()
			return nil, errors.Wrapf(err, "create write binding set %d", k)
		}
		f.write = append(f.write, ws)

		cs, err := dev.CreateBindingSet(graphics.BindingSetDesc{
			Label:    fmt.Sprintf("feedback-composite-%d", k),
			Uniforms: cfg.Uniforms,
			Sampler:  cfg.Sampler,
			Images:   f.slots(cfg.Logo, k, true),
		})
		if err != nil {
			f.Destroy()
			return nil, errors.Wrapf(err, "create composite binding set %d", k)
		}
		f.composite = append(f.composite, cs)
	}
	return f, nil
}

// slots lays out the images read while position k is the write target.
func (f *Feedback) slots(logo graphics.Image, k int, includeTarget bool) []graphics.Image {
	n := len(f.images)
	out := make([]graphics.Image, 0, n+1)
	out = append(out, logo)
	first := 1
	if includeTarget {
		first = 0
	}
	for age := first; age < n; age++ {
		out = append(out, f.images[(k-age+n)%n])
	}
	for len(out) < n+1 {
		out = append(out, nil)
	}
	return out
}

// Channels is the number of sampler slots of every binding set.
func (f *Feedback) Channels() int { return len(f.images) + 1 }

// Target is the image written this frame.
func (f *Feedback) Target() graphics.Image { return f.images[f.current] }

// Previous is the image written last frame.
func (f *Feedback) Previous() graphics.Image {
	n := len(f.images)
	return f.images[(f.current-1+n)%n]
}

// WriteSet binds the earlier frames' images while Target is written.
func (f *Feedback) WriteSet() graphics.BindingSet { return f.write[f.current] }

// CompositeSet binds Target, newest first, for the composite pass.
func (f *Feedback) CompositeSet() graphics.BindingSet { return f.composite[f.current] }

// Advance moves to the next ring position. Call it once a frame has been
// submitted.
func (f *Feedback) Advance() {
	f.current = (f.current + 1) % len(f.images)
}

// Images returns the ring images in creation order.
func (f *Feedback) Images() []graphics.Image { return f.images }

// Size returns the size the ring was created with.
func (f *Feedback) Size() (int, int) { return f.width, f.height }

// Destroy releases the binding sets and images. The logo and sampler are
// owned by the caller.
func (f *Feedback) Destroy() {
	for _, bs := range f.write {
		bs.Destroy()
	}
	for _, bs := range f.composite {
		bs.Destroy()
	}
	for _, img := range f.images {
		img.Destroy()
	}
	f.write, f.composite, f.images = nil, nil, nil
}
