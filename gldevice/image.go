package gldevice

import (
	"unsafe"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/pkg/errors"

	"github.com/solar-nl/wgpu-spielerei/graphics"
)

// glImage is a texture with its own framebuffer so it can be both
// rendered into and sampled.
type glImage struct {
	texture   uint32
	fbo       uint32
	width     int
	height    int
	format    graphics.PixelFormat
	destroyed bool
}

// textureFormat maps a pixel format to the TexImage2D arguments.
func textureFormat(f graphics.PixelFormat) (internal int32, pixelType uint32) {
	switch f {
	case graphics.FormatRGBA16F:
		return gl.RGBA16F, gl.FLOAT
	default:
		return gl.RGBA8, gl.UNSIGNED_BYTE
	}
}

func newImage(width, height int, format graphics.PixelFormat, pixels unsafe.Pointer) (*glImage, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.Errorf("invalid image size %dx%d", width, height)
	}
	img := &glImage{width: width, height: height, format: format}
	internal, pixelType := textureFormat(format)

	gl.GenTextures(1, &img.texture)
	gl.BindTexture(gl.TEXTURE_2D, img.texture)
	gl.TexImage2D(gl.TEXTURE_2D, 0, internal, int32(width), int32(height), 0, gl.RGBA, pixelType, pixels)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)

	gl.GenFramebuffers(1, &img.fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, img.fbo)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, img.texture, 0)
	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)

	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	if status != gl.FRAMEBUFFER_COMPLETE {
		img.Destroy()
		return nil, errors.Errorf("framebuffer for %dx%d %v image is not complete (0x%04x)", width, height, format, status)
	}
	if err := checkError("create image"); err != nil {
		img.Destroy()
		return nil, err
	}
	return img, nil
}

func (i *glImage) Size() (int, int)              { return i.width, i.height }
func (i *glImage) Format() graphics.PixelFormat { return i.format }
func (i *glImage) framebuffer() uint32          { return i.fbo }

func (i *glImage) Destroy() {
	if i.destroyed {
		return
	}
	i.destroyed = true
	if i.fbo != 0 {
		gl.DeleteFramebuffers(1, &i.fbo)
	}
	if i.texture != 0 {
		gl.DeleteTextures(1, &i.texture)
	}
}
