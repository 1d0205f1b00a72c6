package gldevice

import (
	"testing"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"github.com/stretchr/testify/assert"

	"github.com/solar-nl/wgpu-spielerei/graphics"
)

func TestFlipRows(t *testing.T) {
	pix := []byte{
		1, 1, 1, 1,
		2, 2, 2, 2,
		3, 3, 3, 3,
	}
	flipRows(pix, 4)
	assert.Equal(t, []byte{3, 3, 3, 3, 2, 2, 2, 2, 1, 1, 1, 1}, pix)

	single := []byte{9, 8, 7, 6}
	flipRows(single, 4)
	assert.Equal(t, []byte{9, 8, 7, 6}, single)
}

func TestSamplerModes(t *testing.T) {
	assert.Equal(t, int32(gl.CLAMP_TO_EDGE), getWrapMode("clamp"))
	assert.Equal(t, int32(gl.MIRRORED_REPEAT), getWrapMode("mirror"))
	assert.Equal(t, int32(gl.REPEAT), getWrapMode("repeat"))
	assert.Equal(t, int32(gl.REPEAT), getWrapMode(""))

	min, mag := getFilterMode("nearest")
	assert.Equal(t, int32(gl.NEAREST), min)
	assert.Equal(t, int32(gl.NEAREST), mag)
	min, _ = getFilterMode("linear")
	assert.Equal(t, int32(gl.LINEAR), min)
}

func TestTextureFormat(t *testing.T) {
	internal, typ := textureFormat(graphics.FormatRGBA16F)
	assert.Equal(t, int32(gl.RGBA16F), internal)
	assert.Equal(t, uint32(gl.FLOAT), typ)

	internal, typ = textureFormat(graphics.FormatRGBA8)
	assert.Equal(t, int32(gl.RGBA8), internal)
	assert.Equal(t, uint32(gl.UNSIGNED_BYTE), typ)
}
