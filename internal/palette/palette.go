package palette

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/mmcdole/dex/internal/domain"
)

const (
	// bucketBits is how many bits per channel survive quantization
	bucketBits = 4
	// minAlpha is the 16-bit alpha below which a pixel is ignored
	minAlpha = 0x8000
	// maxSamples caps how many pixels are inspected on large images
	maxSamples = 128 * 128
)

// Fallback is used when no color can be derived
var Fallback = colorful.Color{R: 0.5, G: 0.5, B: 0.5}

type bucket struct {
	count   int
	r, g, b float64
}

// Dominant decodes PNG, JPEG or GIF bytes and returns the most common
// color among opaque pixels, averaged within its quantization bucket.
func Dominant(data []byte) (colorful.Color, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return Fallback, fmt.Errorf("failed to decode image: %w", err)
	}
	return DominantImage(img)
}

// DominantImage is Dominant for an already decoded image
func DominantImage(img image.Image) (colorful.Color, error) {
	bounds := img.Bounds()
	step := 1
	for (bounds.Dx()/step)*(bounds.Dy()/step) > maxSamples {
		step++
	}

	buckets := make(map[uint32]*bucket)
	var best *bucket

	for y := bounds.Min.Y; y < bounds.Max.Y; y += step {
		for x := bounds.Min.X; x < bounds.Max.X; x += step {
			r, g, b, a := img.At(x, y).RGBA()
			if a < minAlpha {
				continue
			}
			// Un-premultiply so partially transparent edges keep their hue
			r, g, b = r*0xffff/a, g*0xffff/a, b*0xffff/a

			shift := 16 - bucketBits
			key := (r>>shift)<<(2*bucketBits) | (g>>shift)<<bucketBits | (b >> shift)

			bk, ok := buckets[key]
			if !ok {
				bk = &bucket{}
				buckets[key] = bk
			}
			bk.count++
			bk.r += float64(r) / 0xffff
			bk.g += float64(g) / 0xffff
			bk.b += float64(b) / 0xffff

			if best == nil || bk.count > best.count {
				best = bk
			}
		}
	}

	if best == nil {
		return Fallback, domain.ErrNoImage
	}

	n := float64(best.count)
	return colorful.Color{R: best.r / n, G: best.g / n, B: best.b / n}.Clamped(), nil
}

// Accent adjusts a dominant color so it stays readable on a dark terminal:
// hue is kept, lightness is clamped into a mid band.
func Accent(c colorful.Color) colorful.Color {
	h, chroma, l := c.Hcl()
	switch {
	case l < 0.45:
		l = 0.45
	case l > 0.85:
		l = 0.85
	}
	return colorful.Hcl(h, chroma, l).Clamped()
}
