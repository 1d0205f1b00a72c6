package gldevice

import (
	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/solar-nl/wgpu-spielerei/graphics"
)

type windowImage struct {
	width, height int
}

func (w *windowImage) Size() (int, int)    { return w.width, w.height }
func (w *windowImage) framebuffer() uint32 { return 0 }

// WindowSurface presents through the window's default framebuffer.
// Acquisition compares the configured size with the live framebuffer
// size: a mismatch is reported as outdated, a zero size (minimised
// window) as a timeout.
type WindowSurface struct {
	ctx        graphics.Context
	format     graphics.PixelFormat
	width      int
	height     int
	configured bool
}

// NewWindowSurface wraps ctx. format is the format offered to images that
// are composed into this surface.
func NewWindowSurface(ctx graphics.Context, format graphics.PixelFormat) *WindowSurface {
	return &WindowSurface{ctx: ctx, format: format}
}

func (s *WindowSurface) Configure(width, height int) error {
	if width <= 0 || height <= 0 {
		return errors.Errorf("invalid surface size %dx%d", width, height)
	}
	s.width, s.height, s.configured = width, height, true
	log.Debug().Int("width", width).Int("height", height).Msg("window surface configured")
	return nil
}

func (s *WindowSurface) Format() graphics.PixelFormat { return s.format }

func (s *WindowSurface) Acquire() (graphics.SurfaceImage, error) {
	fw, fh := s.ctx.GetFramebufferSize()
	switch {
	case fw == 0 || fh == 0:
		return nil, graphics.ErrSurfaceTimeout
	case !s.configured:
		return nil, graphics.ErrSurfaceLost
	case fw != s.width || fh != s.height:
		return nil, graphics.ErrSurfaceOutdated
	}
	return &windowImage{width: s.width, height: s.height}, nil
}

func (s *WindowSurface) Present(graphics.SurfaceImage) error {
	s.ctx.SwapBuffers()
	return nil
}

// FrameSink receives every presented frame as tightly packed RGBA rows,
// top row first.
type FrameSink interface {
	WriteFrame(pixels []byte) error
}

// RecordSurface renders into an off-screen image and hands each presented
// frame to a FrameSink.
type RecordSurface struct {
	sink   FrameSink
	image  *glImage
	pixels []byte
}

// NewRecordSurface creates a surface whose frames go to sink.
func NewRecordSurface(sink FrameSink) *RecordSurface {
	return &RecordSurface{sink: sink}
}

// Configure (re)creates the off-screen image when the size changes.
func (s *RecordSurface) Configure(width, height int) error {
	if s.image != nil {
		if w, h := s.image.Size(); w == width && h == height {
			return nil
		}
		s.image.Destroy()
		s.image = nil
	}
	img, err := newImage(width, height, graphics.FormatRGBA8, nil)
	if err != nil {
		return errors.Wrap(err, "record surface")
	}
	s.image = img
	s.pixels = make([]byte, width*height*4)
	return nil
}

func (s *RecordSurface) Format() graphics.PixelFormat { return graphics.FormatRGBA8 }

func (s *RecordSurface) Acquire() (graphics.SurfaceImage, error) {
	if s.image == nil {
		return nil, graphics.ErrSurfaceLost
	}
	return s.image, nil
}

// Present reads the frame back and writes it to the sink.
func (s *RecordSurface) Present(img graphics.SurfaceImage) error {
	gi, ok := img.(*glImage)
	if !ok || gi != s.image {
		return errors.New("present of an image not acquired from this surface")
	}
	w, h := gi.Size()
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, gi.fbo)
	gl.ReadBuffer(gl.COLOR_ATTACHMENT0)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(s.pixels))
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, 0)
	if err := checkError("read back frame"); err != nil {
		return err
	}
	flipRows(s.pixels, w*4)
	if err := s.sink.WriteFrame(s.pixels); err != nil {
		return errors.Wrap(err, "write frame")
	}
	return nil
}

// Destroy releases the off-screen image.
func (s *RecordSurface) Destroy() {
	if s.image != nil {
		s.image.Destroy()
		s.image = nil
	}
}
