// inputs/image.go
package inputs

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	"github.com/rs/zerolog/log"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/solar-nl/wgpu-spielerei/graphics"
)

// vflip vertically flips the provided RGBA image so that row 0 is the
// bottom row, as GL texture uploads expect.
func vflip(src *image.RGBA) *image.RGBA {
	bounds := src.Bounds()
	flipped := image.NewRGBA(bounds)
	height := bounds.Dy()

	rowSize := bounds.Dx() * 4
	for y := 0; y < height; y++ {
		srcRow := src.Pix[((height-1)-y)*src.Stride:]
		dstRow := flipped.Pix[y*flipped.Stride:]
		copy(dstRow, srcRow[:rowSize])
	}
	return flipped
}

// fitWithin returns the size of w x h scaled down to fit in max x max,
// keeping the aspect ratio. Images already inside the bound keep their size.
func fitWithin(w, h, max int) (int, int) {
	if max <= 0 || (w <= max && h <= max) {
		return w, h
	}
	if w >= h {
		return max, maxInt(1, h*max/w)
	}
	return maxInt(1, w*max/h), max
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// LoadImage decodes the image at path, downscales it to fit maxSize and
// returns it flipped for upload.
func LoadImage(path string, maxSize int) (*image.RGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	src, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	b := src.Bounds()
	w, h := fitWithin(b.Dx(), b.Dy(), maxSize)
	rgba := image.NewRGBA(image.Rect(0, 0, w, h))
	if w == b.Dx() && h == b.Dy() {
		draw.Draw(rgba, rgba.Bounds(), src, b.Min, draw.Src)
	} else {
		log.Info().Str("path", path).Int("width", w).Int("height", h).Msg("downscaling image")
		draw.CatmullRom.Scale(rgba, rgba.Bounds(), src, b, draw.Src, nil)
	}
	log.Debug().Str("path", path).Str("format", format).Msg("image decoded")
	return vflip(rgba), nil
}

// blank is the 1x1 white stand-in used when no logo is available.
func blank() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.Set(0, 0, color.White)
	return img
}

// NewLogo uploads the static texture read by both passes. An empty path or
// an unreadable file yields a 1x1 white texture.
func NewLogo(dev graphics.Device, path string, maxSize int) (graphics.Image, error) {
	img := blank()
	if path != "" {
		loaded, err := LoadImage(path, maxSize)
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("logo unavailable, using blank texture")
		} else {
			img = loaded
		}
	}
	return dev.CreateImageFromRGBA(img)
}
