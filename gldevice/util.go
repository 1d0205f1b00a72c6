package gldevice

import (
	gl "github.com/go-gl/gl/v4.1-core/gl"
)

// Helper to convert a sampler wrap name to the OpenGL constant.
func getWrapMode(wrap string) int32 {
	switch wrap {
	case "clamp":
		return gl.CLAMP_TO_EDGE
	case "mirror":
		return gl.MIRRORED_REPEAT
	default:
		return gl.REPEAT
	}
}

// Helper to convert a sampler filter name to OpenGL constants. Render
// targets carry no mipmaps, so there is no mipmapped mode.
func getFilterMode(filter string) (minFilter, magFilter int32) {
	switch filter {
	case "nearest":
		return gl.NEAREST, gl.NEAREST
	default:
		return gl.LINEAR, gl.LINEAR
	}
}

// flipRows reverses the row order of a tightly packed image in place; GL
// reads back bottom row first.
func flipRows(pix []byte, stride int) {
	if stride <= 0 {
		return
	}
	rows := len(pix) / stride
	tmp := make([]byte, stride)
	for top, bottom := 0, rows-1; top < bottom; top, bottom = top+1, bottom-1 {
		a := pix[top*stride : (top+1)*stride]
		b := pix[bottom*stride : (bottom+1)*stride]
		copy(tmp, a)
		copy(a, b)
		copy(b, tmp)
	}
}
