// Package blend composites RGBA float32 layers the way a GPU fixed-function
// blender does with non-premultiplied sources.
package blend

// Mode selects a blend equation.
type Mode int

const (
	// ModeSourceOver is standard alpha blending:
	// rgb = src.rgb*src.a + dst.rgb*(1-src.a), a = src.a + dst.a*(1-src.a).
	ModeSourceOver Mode = iota

	// ModeAdditive adds the alpha-weighted source:
	// rgb = src.rgb*src.a + dst.rgb, a = src.a*src.a + dst.a.
	// The resulting alpha is clamped to 1.
	ModeAdditive
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeSourceOver:
		return "SourceOver"
	case ModeAdditive:
		return "Additive"
	default:
		return "Unknown"
	}
}

// Func blends one source texel onto one destination texel.
type Func func(sr, sg, sb, sa, dr, dg, db, da float32) (r, g, b, a float32)

// GetFunc returns the blend function for mode. Unknown modes use SourceOver.
func GetFunc(mode Mode) Func {
	switch mode {
	case ModeAdditive:
		return blendAdditive
	default:
		return blendSourceOver
	}
}

func blendSourceOver(sr, sg, sb, sa, dr, dg, db, da float32) (r, g, b, a float32) {
	inv := 1 - sa
	return sr*sa + dr*inv, sg*sa + dg*inv, sb*sa + db*inv, sa + da*inv
}

func blendAdditive(sr, sg, sb, sa, dr, dg, db, da float32) (r, g, b, a float32) {
	return sr*sa + dr, sg*sa + dg, sb*sa + db, min(sa*sa+da, 1)
}
