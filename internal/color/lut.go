package color

import "math"

// linearToSRGBLUT maps 12-bit linear values to 8-bit sRGB.
var linearToSRGBLUT [4096]uint8

func init() {
	for i := range linearToSRGBLUT {
		l := float64(i) / 4095
		var s float64
		if l <= 0.0031308 {
			s = l * 12.92
		} else {
			s = 1.055*math.Pow(l, 1.0/2.4) - 0.055
		}
		linearToSRGBLUT[i] = uint8(min(max(int(s*255+0.5), 0), 255)) //nolint:gosec // clamped to [0,255]
	}
}

func lutIndex(v float32) int {
	return int(clamp01(v)*4095 + 0.5)
}

