package ssr

import (
	"fmt"
	"image"
	"math"

	"github.com/gogpu/gputypes"
)

// Buffer is a float32 image with 1, 3 or 4 interleaved channels.
//
// Rows are stored bottom-up: (0, 0) is the bottom-left texel, matching
// texture coordinates where uv (0, 0) is the bottom-left corner.
// FromImage and ToImage flip rows when converting from and to image.Image.
type Buffer struct {
	Width, Height int
	Channels      int
	Pix           []float32
}

// NewBuffer creates a zeroed buffer.
func NewBuffer(width, height, channels int) *Buffer {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Buffer{
		Width:    width,
		Height:   height,
		Channels: channels,
		Pix:      make([]float32, width*height*channels),
	}
}

// Format returns the GPU texture format matching the buffer layout.
func (b *Buffer) Format() gputypes.TextureFormat {
	switch b.Channels {
	case 1:
		return gputypes.TextureFormatR32Float
	case 2:
		return gputypes.TextureFormatRG32Float
	default:
		// 3-channel data is padded to RGBA on upload.
		return gputypes.TextureFormatRGBA32Float
	}
}

// SameSize reports whether b and o have identical dimensions.
func (b *Buffer) SameSize(o *Buffer) bool {
	return b.Width == o.Width && b.Height == o.Height
}

// validate checks that Pix matches the declared shape.
func (b *Buffer) validate(name string, channels ...int) error {
	ok := len(channels) == 0
	for _, c := range channels {
		if b.Channels == c {
			ok = true
			break
		}
	}
	if !ok {
		return fmt.Errorf("%w: %s has %d channels, want one of %v", ErrInvalidBuffer, name, b.Channels, channels)
	}
	if len(b.Pix) != b.Width*b.Height*b.Channels {
		return fmt.Errorf("%w: %s has %d values for %dx%dx%d", ErrInvalidBuffer, name, len(b.Pix), b.Width, b.Height, b.Channels)
	}
	return nil
}

// Value returns channel 0 of texel (x, y).
func (b *Buffer) Value(x, y int) float64 {
	return float64(b.Pix[(y*b.Width+x)*b.Channels])
}

// At returns texel (x, y) as a color. Single-channel buffers read as gray,
// missing alpha reads as 1. Out-of-range coordinates return Transparent.
func (b *Buffer) At(x, y int) RGBA {
	if x < 0 || x >= b.Width || y < 0 || y >= b.Height {
		return Transparent
	}
	p := b.Pix[(y*b.Width+x)*b.Channels:]
	switch b.Channels {
	case 1:
		v := float64(p[0])
		return RGBA{R: v, G: v, B: v, A: 1}
	case 2:
		return RGBA{R: float64(p[0]), G: float64(p[1]), A: 1}
	case 3:
		return RGBA{R: float64(p[0]), G: float64(p[1]), B: float64(p[2]), A: 1}
	default:
		return RGBA{R: float64(p[0]), G: float64(p[1]), B: float64(p[2]), A: float64(p[3])}
	}
}

// Set writes c to texel (x, y), keeping as many channels as the buffer has.
func (b *Buffer) Set(x, y int, c RGBA) {
	if x < 0 || x >= b.Width || y < 0 || y >= b.Height {
		return
	}
	p := b.Pix[(y*b.Width+x)*b.Channels:]
	p[0] = float32(c.R)
	if b.Channels > 1 {
		p[1] = float32(c.G)
	}
	if b.Channels > 2 {
		p[2] = float32(c.B)
	}
	if b.Channels > 3 {
		p[3] = float32(c.A)
	}
}

// SetVec3 writes v to the first three channels of texel (x, y).
func (b *Buffer) SetVec3(x, y int, v Vec3) {
	b.Set(x, y, RGBA{R: v.X, G: v.Y, B: v.Z, A: 1})
}

// texel maps uv to the nearest texel, clamping to the edge.
func (b *Buffer) texel(uv Vec2) (int, int) {
	x := int(math.Floor(uv.X * float64(b.Width)))
	y := int(math.Floor(uv.Y * float64(b.Height)))
	return clampInt(x, 0, b.Width-1), clampInt(y, 0, b.Height-1)
}

// Sample returns the nearest texel to uv with edge clamping.
func (b *Buffer) Sample(uv Vec2) RGBA {
	x, y := b.texel(uv)
	return b.At(x, y)
}

// SampleValue returns channel 0 of the nearest texel to uv.
func (b *Buffer) SampleValue(uv Vec2) float64 {
	x, y := b.texel(uv)
	return b.Value(x, y)
}

// SampleVec3 returns the first three channels of the nearest texel to uv.
func (b *Buffer) SampleVec3(uv Vec2) Vec3 {
	x, y := b.texel(uv)
	p := b.Pix[(y*b.Width+x)*b.Channels:]
	return Vec3{X: float64(p[0]), Y: float64(p[1]), Z: float64(p[2])}
}

// Fill sets every texel to c.
func (b *Buffer) Fill(c RGBA) {
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			b.Set(x, y, c)
		}
	}
}

// Clear zeroes all texels.
func (b *Buffer) Clear() {
	clear(b.Pix)
}

// Clone returns a deep copy of b.
func (b *Buffer) Clone() *Buffer {
	out := &Buffer{Width: b.Width, Height: b.Height, Channels: b.Channels}
	out.Pix = append([]float32(nil), b.Pix...)
	return out
}

// ToImage converts the buffer to an 8-bit image with the top row first.
func (b *Buffer) ToImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, b.Width, b.Height))
	for y := 0; y < b.Height; y++ {
		row := b.Height - 1 - y
		for x := 0; x < b.Width; x++ {
			img.Set(x, row, b.At(x, y).Color())
		}
	}
	return img
}

// FromImage creates a buffer with the given channel count from an image.
// Image row 0 (top) becomes the last buffer row.
func FromImage(img image.Image, channels int) *Buffer {
	bounds := img.Bounds()
	b := NewBuffer(bounds.Dx(), bounds.Dy(), channels)
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			c := FromColor(img.At(bounds.Min.X+x, bounds.Min.Y+y))
			if channels == 1 {
				c.R = luminance(c)
			}
			b.Set(x, b.Height-1-y, c)
		}
	}
	return b
}

// luminance returns the Rec. 709 luma of an 8-bit gray or color sample.
func luminance(c RGBA) float64 {
	if c.R == c.G && c.G == c.B {
		return c.R
	}
	return 0.2126*c.R + 0.7152*c.G + 0.0722*c.B
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
