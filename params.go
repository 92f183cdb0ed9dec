package ssr

import (
	"fmt"
	"math"
)

// Params is the immutable configuration of one reflection evaluation.
// A Controller produces it; the kernel only reads it.
type Params struct {
	// Opacity is the base alpha of an accepted reflection, in [0, 1].
	Opacity float64

	// MaxDistance is the view-space length of the reflection ray.
	MaxDistance float64

	// SurfDist is the hit threshold before scaling by clip w.
	SurfDist float64

	// ThickTolerance is the slack of the infinite-thickness test, scaled by clip w.
	ThickTolerance float64

	// AttenuationDistance is the ray length at which opacity falls to zero.
	AttenuationDistance float64

	// NoiseIntensity is the amplitude of the normal jitter.
	NoiseIntensity float64

	// MaxStep bounds the number of march steps. Derived from the resolution;
	// passes replace it with MaxStepFor of their own size.
	MaxStep int

	PerspectiveCamera   bool
	DistanceAttenuation bool
	InfiniteThick       bool
	Noise               bool
	Selective           bool
}

// Default parameter values.
const (
	DefaultOpacity             = 0.5
	DefaultMaxDistance         = 180
	DefaultSurfDist            = 0.007
	DefaultThickTolerance      = 0.03
	DefaultAttenuationDistance = 200
	DefaultNoiseIntensity      = 0.1
)

// DefaultParams returns parameters for a perspective camera with distance
// attenuation and infinite thickness enabled. MaxStep is zero until a
// resolution is known.
func DefaultParams() Params {
	return Params{
		Opacity:             DefaultOpacity,
		MaxDistance:         DefaultMaxDistance,
		SurfDist:            DefaultSurfDist,
		ThickTolerance:      DefaultThickTolerance,
		AttenuationDistance: DefaultAttenuationDistance,
		NoiseIntensity:      DefaultNoiseIntensity,
		PerspectiveCamera:   true,
		DistanceAttenuation: true,
		InfiniteThick:       true,
	}
}

// MaxStepFor returns ceil(sqrt(width² + height²)), the pixel length of the
// buffer diagonal. Non-positive sizes give 0.
func MaxStepFor(width, height int) int {
	if width <= 0 || height <= 0 {
		return 0
	}
	w, h := float64(width), float64(height)
	return int(math.Ceil(math.Sqrt(w*w + h*h)))
}

// Validate reports the first out-of-range field.
func (p Params) Validate() error {
	switch {
	case !(p.Opacity >= 0 && p.Opacity <= 1):
		return fmt.Errorf("%w: opacity %v not in [0,1]", ErrInvalidParams, p.Opacity)
	case !(p.MaxDistance > 0) || !isFinite(p.MaxDistance):
		return fmt.Errorf("%w: maxDistance %v must be positive", ErrInvalidParams, p.MaxDistance)
	case !(p.SurfDist >= 0) || !isFinite(p.SurfDist):
		return fmt.Errorf("%w: surfDist %v must be non-negative", ErrInvalidParams, p.SurfDist)
	case !(p.ThickTolerance >= 0) || !isFinite(p.ThickTolerance):
		return fmt.Errorf("%w: thickTolerance %v must be non-negative", ErrInvalidParams, p.ThickTolerance)
	case !(p.AttenuationDistance > 0) || !isFinite(p.AttenuationDistance):
		return fmt.Errorf("%w: attenuationDistance %v must be positive", ErrInvalidParams, p.AttenuationDistance)
	case !(p.NoiseIntensity >= 0) || !isFinite(p.NoiseIntensity):
		return fmt.Errorf("%w: noiseIntensity %v must be non-negative", ErrInvalidParams, p.NoiseIntensity)
	case p.MaxStep < 0:
		return fmt.Errorf("%w: maxStep %d is negative", ErrInvalidParams, p.MaxStep)
	}
	return nil
}

// Attenuation returns the quadratic falloff factor for a ray of length
// rayLen: (1 - rayLen/attenuationDistance)², or 0 at and beyond the distance.
func (p Params) Attenuation(rayLen float64) float64 {
	if rayLen >= p.AttenuationDistance {
		return 0
	}
	a := 1 - rayLen/p.AttenuationDistance
	return a * a
}
