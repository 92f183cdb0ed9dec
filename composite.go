package ssr

import (
	"github.com/gogpu/ssr/internal/blend"
	"github.com/gogpu/ssr/internal/filter"
)

// Composite returns a 4-channel copy of color with layer blended on top
// using source-over.
func Composite(color, layer *Buffer) *Buffer {
	display := toRGBA(color)
	blend.Layer(layer.Pix, display.Pix, blend.ModeSourceOver)
	return display
}

// Blur returns src filtered with a (2*radius+1)² box blur.
func Blur(src *Buffer, radius int) *Buffer {
	dst := NewBuffer(src.Width, src.Height, src.Channels)
	filter.NewBoxBlur(radius).Apply(src.Pix, dst.Pix, src.Width, src.Height, src.Channels)
	return dst
}

// CountHits returns the number of pixels of an RGBA layer with non-zero
// alpha.
func CountHits(layer *Buffer) int {
	if layer.Channels != 4 {
		return 0
	}
	n := 0
	for i := 3; i < len(layer.Pix); i += 4 {
		if layer.Pix[i] > 0 {
			n++
		}
	}
	return n
}

// toRGBA returns a 4-channel copy of b.
func toRGBA(b *Buffer) *Buffer {
	if b.Channels == 4 {
		return b.Clone()
	}
	out := NewBuffer(b.Width, b.Height, 4)
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			out.Set(x, y, b.At(x, y))
		}
	}
	return out
}
