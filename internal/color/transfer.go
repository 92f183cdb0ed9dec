package color

import "github.com/chewxy/math32"

// SRGBToLinear applies the sRGB EOTF to one component in [0,1].
func SRGBToLinear(s float32) float32 {
	if s <= 0.04045 {
		return s / 12.92
	}
	return math32.Pow((s+0.055)/1.055, 2.4)
}

// LinearToSRGB applies the sRGB OETF to one component in [0,1].
func LinearToSRGB(l float32) float32 {
	if l <= 0.0031308 {
		return l * 12.92
	}
	return 1.055*math32.Pow(l, 1.0/2.4) - 0.055
}

// Encode converts the color channels of interleaved pixels from linear to
// sRGB in place. Values are clamped to [0,1]. The fourth channel is alpha
// and stays linear.
func Encode(pix []float32, channels int) {
	apply(pix, channels, func(v float32) float32 {
		return float32(linearToSRGBLUT[lutIndex(v)]) / 255
	})
}

// Decode converts the color channels of interleaved pixels from sRGB to
// linear in place.
func Decode(pix []float32, channels int) {
	apply(pix, channels, func(v float32) float32 { return SRGBToLinear(clamp01(v)) })
}

func apply(pix []float32, channels int, fn func(float32) float32) {
	if channels <= 0 {
		return
	}
	n := min(channels, 3)
	for i := 0; i+channels <= len(pix); i += channels {
		for c := 0; c < n; c++ {
			pix[i+c] = fn(pix[i+c])
		}
	}
}

func clamp01(v float32) float32 {
	switch {
	case v <= 0 || math32.IsNaN(v):
		return 0
	case v >= 1:
		return 1
	}
	return v
}
