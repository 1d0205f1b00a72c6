package inputs

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solar-nl/wgpu-spielerei/graphics/fakegpu"
)

func writePNG(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	// red top row, blue everywhere else
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.RGBA{B: 255, A: 255}
			if y == 0 {
				c = color.RGBA{R: 255, A: 255}
			}
			img.Set(x, y, c)
		}
	}
	path := filepath.Join(t.TempDir(), "logo.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
	return path
}

func TestLoadImageFlips(t *testing.T) {
	path := writePNG(t, 4, 3)
	img, err := LoadImage(path, 0)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 4, 3), img.Bounds())
	// the top row of the file is the last row after the flip
	assert.Equal(t, color.RGBA{R: 255, A: 255}, img.RGBAAt(0, 2))
	assert.Equal(t, color.RGBA{B: 255, A: 255}, img.RGBAAt(0, 0))
}

func TestLoadImageDownscales(t *testing.T) {
	path := writePNG(t, 200, 100)
	img, err := LoadImage(path, 50)
	require.NoError(t, err)
	assert.Equal(t, 50, img.Bounds().Dx())
	assert.Equal(t, 25, img.Bounds().Dy())
}

func TestFitWithin(t *testing.T) {
	tests := []struct{ w, h, max, ww, wh int }{
		{10, 10, 0, 10, 10},
		{10, 10, 20, 10, 10},
		{400, 100, 100, 100, 25},
		{100, 400, 100, 25, 100},
		{1000, 1, 10, 10, 1},
	}
	for _, tt := range tests {
		w, h := fitWithin(tt.w, tt.h, tt.max)
		assert.Equal(t, tt.ww, w)
		assert.Equal(t, tt.wh, h)
	}
}

func TestNewLogoFallsBack(t *testing.T) {
	dev := fakegpu.NewDevice()
	logo, err := NewLogo(dev, filepath.Join(t.TempDir(), "missing.png"), 512)
	require.NoError(t, err)
	w, h := logo.Size()
	assert.Equal(t, 1, w)
	assert.Equal(t, 1, h)

	logo, err = NewLogo(dev, writePNG(t, 8, 4), 512)
	require.NoError(t, err)
	w, h = logo.Size()
	assert.Equal(t, 8, w)
	assert.Equal(t, 4, h)
}
