package ssr

import (
	"fmt"
	"math"
)

// Sample is the outcome of shading one pixel.
type Sample struct {
	// Color is the reflected color with alpha set to the effective opacity,
	// or Transparent when no hit was accepted.
	Color RGBA

	// Hit reports whether a march step was accepted.
	Hit bool

	// Steps is the number of march iterations executed.
	Steps int
}

// Kernel evaluates the reflection of individual pixels of one frame.
//
// A Kernel is read-only after construction and may be shared by any number
// of goroutines.
type Kernel struct {
	cam    Camera
	params Params
	frame  *Frame
	width  int
	height int

	// onSample, when set, observes every UV the march samples.
	onSample func(uv Vec2)
}

// NewKernel validates the inputs and returns a kernel for them.
func NewKernel(cam Camera, params Params, frame *Frame) (*Kernel, error) {
	if err := validateInputs(cam, params, frame); err != nil {
		return nil, err
	}
	w, h := frame.Size()
	return &Kernel{cam: cam, params: params, frame: frame, width: w, height: h}, nil
}

func validateInputs(cam Camera, params Params, frame *Frame) error {
	if err := cam.Validate(); err != nil {
		return err
	}
	if err := params.Validate(); err != nil {
		return err
	}
	if params.PerspectiveCamera != cam.Perspective {
		return fmt.Errorf("%w: perspective flag %v does not match camera", ErrInvalidParams, params.PerspectiveCamera)
	}
	if frame == nil {
		return fmt.Errorf("%w: frame", ErrMissingBuffer)
	}
	return frame.Validate(params.Selective)
}

// Params returns the parameters the kernel was built with.
func (k *Kernel) Params() Params { return k.params }

// Size returns the frame resolution.
func (k *Kernel) Size() (width, height int) { return k.width, k.height }

func (k *Kernel) viewZ(depth float64) float64 {
	if k.params.PerspectiveCamera {
		return PerspectiveDepthToViewZ(depth, k.cam.Near, k.cam.Far)
	}
	return OrthographicDepthToViewZ(depth, k.cam.Near, k.cam.Far)
}

func (k *Kernel) normalAt(uv Vec2) Vec3 {
	return k.frame.Normal.SampleVec3(uv).Mul(2).AddScalar(-1)
}

// Shade computes the reflection for pixel (px, py), counted from the
// bottom-left corner.
func (k *Kernel) Shade(px, py int) Sample {
	var s Sample
	p := &k.params
	res := V2(float64(k.width), float64(k.height))
	d0 := V2(float64(px)+0.5, float64(py)+0.5)
	uv := V2(d0.X/res.X, d0.Y/res.Y)

	if p.Selective && k.frame.Metalness.Value(px, py) == 0 {
		return s
	}

	depth := k.frame.Depth.Value(px, py)
	viewZ := k.viewZ(depth)
	if -viewZ >= k.cam.Far {
		return s
	}
	clipW := k.cam.ClipW(viewZ)
	start := k.cam.ViewPosition(uv, depth, clipW)

	normal := k.normalAt(uv)
	if p.Noise {
		jitter := hash3(start.X + start.Y + start.Z).AddScalar(-0.5).Mul(p.NoiseIntensity)
		normal = normal.Add(jitter).Normalize()
	}

	var dir Vec3
	if p.PerspectiveCamera {
		dir = start.Normalize().Reflect(normal)
	} else {
		dir = V3(0, 0, -1).Reflect(normal)
	}

	end := start.Add(dir.Mul(p.MaxDistance))
	if end.Z > -k.cam.Near {
		// Shorten the ray so it stops at the near plane.
		ratio := (start.Z + k.cam.Near) / (start.Z - end.Z)
		end.X = start.X + (end.X-start.X)*ratio
		end.Y = start.Y + (end.Y-start.Y)*ratio
		end.Z = -k.cam.Near
	}
	d1 := k.cam.ScreenPosition(end, k.width, k.height)

	xLen := d1.X - d0.X
	yLen := d1.Y - d0.Y
	total := math.Max(math.Abs(xLen), math.Abs(yLen))
	if !(total > 0) || !isFinite(total) {
		return s
	}
	xSpan := xLen / total
	ySpan := yLen / total

	for i := 0; i < p.MaxStep && float64(i) < total; i++ {
		s.Steps++

		xy := V2(d0.X+float64(i)*xSpan, d0.Y+float64(i)*ySpan)
		if xy.X < 0 || xy.X > res.X || xy.Y < 0 || xy.Y > res.Y {
			break
		}
		suv := V2(xy.X/res.X, xy.Y/res.Y)
		if k.onSample != nil {
			k.onSample(suv)
		}

		d := k.frame.Depth.SampleValue(suv)
		vZ := k.viewZ(d)
		if -vZ >= k.cam.Far {
			continue
		}
		cw := k.cam.ClipW(vZ)
		vP := k.cam.ViewPosition(suv, d, cw)

		rayPoint, ok := k.rayPoint(start, end, suv, vP)
		if !ok {
			continue
		}

		sD := p.SurfDist * cw
		rayLen := rayPoint.Sub(start).Length()

		if p.InfiniteThick && rayPoint.Z+p.ThickTolerance*cw < vP.Z {
			break
		}

		away := vP.Sub(rayPoint).Length()

		op := p.Opacity
		if p.DistanceAttenuation {
			if rayLen >= p.AttenuationDistance {
				break
			}
			op *= p.Attenuation(rayLen)
		}

		if away < sD {
			if dir.Dot(k.normalAt(suv)) >= 0 {
				continue
			}
			s.Color = k.frame.Color.Sample(suv).WithAlpha(op)
			s.Hit = true
			return s
		}
	}
	return s
}

// rayPoint returns the point on the reflection ray closest to the camera
// ray through the sampled surface point vP.
func (k *Kernel) rayPoint(start, end Vec3, uv Vec2, vP Vec3) (Vec3, bool) {
	target := vP
	if k.frame.NearPlane != nil {
		target = k.frame.NearPlane.SampleVec3(uv).Mul(k.cam.filmGauge())
	}
	var origin Vec3
	if !k.params.PerspectiveCamera {
		origin = V3(target.X, target.Y, 0)
	}
	return closestPoint(start, end, origin, target)
}

// closestPoint returns the point on line p1p2 closest to line p3p4.
// It fails for degenerate or parallel lines.
func closestPoint(p1, p2, p3, p4 Vec3) (Vec3, bool) {
	p13 := p1.Sub(p3)
	p43 := p4.Sub(p3)
	p21 := p2.Sub(p1)

	d4343 := p43.Dot(p43)
	d2121 := p21.Dot(p21)
	if d4343 == 0 || d2121 == 0 {
		return Vec3{}, false
	}

	d1343 := p13.Dot(p43)
	d4321 := p43.Dot(p21)
	d1321 := p13.Dot(p21)

	denom := d2121*d4343 - d4321*d4321
	if math.Abs(denom) <= 1e-12*d2121*d4343 {
		return Vec3{}, false
	}
	numer := d1343*d4321 - d1321*d4343

	pt := p1.Add(p21.Mul(numer / denom))
	if !pt.IsFinite() {
		return Vec3{}, false
	}
	return pt, true
}

// hash3 is a cheap sine hash returning three values in [0, 1).
func hash3(n float64) Vec3 {
	return Vec3{
		X: fract(math.Sin(n) * 43758.5453123),
		Y: fract(math.Sin(n+1) * 22578.1459123),
		Z: fract(math.Sin(n+2) * 19642.3490423),
	}
}
