package ssr

import (
	"image/color"
	"math"
)

// RGBA is a linear color as stored in a Buffer texel.
// Components are not clamped: HDR color buffers may exceed 1.
type RGBA struct {
	R, G, B, A float64
}

// Transparent is the result of a pixel that found no reflection.
var Transparent = RGBA{}

// RGB creates an opaque color from RGB components.
func RGB(r, g, b float64) RGBA {
	return RGBA{R: r, G: g, B: b, A: 1}
}

// WithAlpha returns c with its alpha replaced.
func (c RGBA) WithAlpha(a float64) RGBA {
	c.A = a
	return c
}

// Premultiply returns a premultiplied color.
func (c RGBA) Premultiply() RGBA {
	return RGBA{R: c.R * c.A, G: c.G * c.A, B: c.B * c.A, A: c.A}
}

// Approx returns true if all components are within epsilon.
func (c RGBA) Approx(o RGBA, epsilon float64) bool {
	return math.Abs(c.R-o.R) < epsilon && math.Abs(c.G-o.G) < epsilon &&
		math.Abs(c.B-o.B) < epsilon && math.Abs(c.A-o.A) < epsilon
}

// Color converts c to a non-premultiplied 8-bit color, clamping to [0, 1].
func (c RGBA) Color() color.Color {
	return color.NRGBA{
		R: uint8(clamp255(c.R*255) + 0.5),
		G: uint8(clamp255(c.G*255) + 0.5),
		B: uint8(clamp255(c.B*255) + 0.5),
		A: uint8(clamp255(c.A*255) + 0.5),
	}
}

// FromColor converts a standard color.Color to a non-premultiplied RGBA.
func FromColor(c color.Color) RGBA {
	n := color.NRGBA64Model.Convert(c).(color.NRGBA64)
	return RGBA{
		R: float64(n.R) / 65535,
		G: float64(n.G) / 65535,
		B: float64(n.B) / 65535,
		A: float64(n.A) / 65535,
	}
}

func clamp255(x float64) float64 {
	if x < 0 || math.IsNaN(x) {
		return 0
	}
	if x > 255 {
		return 255
	}
	return x
}
