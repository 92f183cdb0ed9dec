package blend

// Layer blends src onto dst in place. Both are interleaved RGBA float32
// slices of the same length; a trailing partial texel is ignored.
func Layer(src, dst []float32, mode Mode) {
	fn := GetFunc(mode)
	n := min(len(src), len(dst)) / 4 * 4
	for i := 0; i < n; i += 4 {
		dst[i], dst[i+1], dst[i+2], dst[i+3] = fn(
			src[i], src[i+1], src[i+2], src[i+3],
			dst[i], dst[i+1], dst[i+2], dst[i+3])
	}
}

// LayerInto writes Blend(src over base) to out without modifying base.
// out may alias base.
func LayerInto(src, base, out []float32, mode Mode) {
	if len(out) > 0 && len(base) > 0 && &out[0] != &base[0] {
		copy(out, base)
	}
	Layer(src, out, mode)
}
