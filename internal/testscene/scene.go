// Package testscene ray casts small analytic scenes into G-buffers.
//
// Geometry is given directly in view space (camera at the origin looking
// down -Z), so the generated depth, normal and color buffers are exact and
// reflections in them can be predicted analytically.
package testscene

import (
	"math"

	"github.com/gogpu/ssr"
)

// Object is a surface that can be intersected by a view ray.
type Object interface {
	// Intersect returns the ray parameter of the nearest hit with t > 0.
	Intersect(origin, dir ssr.Vec3) (t float64, ok bool)

	// NormalAt returns the unit surface normal at p.
	NormalAt(p ssr.Vec3) ssr.Vec3

	// ColorAt returns the surface color at p.
	ColorAt(p ssr.Vec3) ssr.RGBA

	// Metallic reports whether the surface is reflective in selective mode.
	Metallic() bool
}

// Plane is an infinite plane through Point with unit Normal.
type Plane struct {
	Point  ssr.Vec3
	Normal ssr.Vec3
	Color  ssr.RGBA
	Metal  bool
}

// Intersect implements Object.
func (p Plane) Intersect(origin, dir ssr.Vec3) (float64, bool) {
	denom := p.Normal.Dot(dir)
	if math.Abs(denom) < 1e-12 {
		return 0, false
	}
	t := p.Point.Sub(origin).Dot(p.Normal) / denom
	return t, t > 0
}

// NormalAt implements Object.
func (p Plane) NormalAt(ssr.Vec3) ssr.Vec3 { return p.Normal }

// ColorAt implements Object.
func (p Plane) ColorAt(ssr.Vec3) ssr.RGBA { return p.Color }

// Metallic implements Object.
func (p Plane) Metallic() bool { return p.Metal }

// Sphere is a sphere with the given Center and Radius.
type Sphere struct {
	Center ssr.Vec3
	Radius float64
	Color  ssr.RGBA
	Metal  bool
}

// Intersect implements Object.
func (s Sphere) Intersect(origin, dir ssr.Vec3) (float64, bool) {
	oc := origin.Sub(s.Center)
	a := dir.Dot(dir)
	b := oc.Dot(dir)
	c := oc.Dot(oc) - s.Radius*s.Radius
	disc := b*b - a*c
	if disc < 0 {
		return 0, false
	}
	sq := math.Sqrt(disc)
	if t := (-b - sq) / a; t > 0 {
		return t, true
	}
	if t := (-b + sq) / a; t > 0 {
		return t, true
	}
	return 0, false
}

// NormalAt implements Object.
func (s Sphere) NormalAt(p ssr.Vec3) ssr.Vec3 { return p.Sub(s.Center).Normalize() }

// ColorAt implements Object.
func (s Sphere) ColorAt(ssr.Vec3) ssr.RGBA { return s.Color }

// Metallic implements Object.
func (s Sphere) Metallic() bool { return s.Metal }

// Scene is a list of objects over a background color.
type Scene struct {
	Objects    []Object
	Background ssr.RGBA
}

// Hit describes what a pixel sees.
type Hit struct {
	Object Object
	Point  ssr.Vec3
}

// Cast returns the nearest object along the ray through pixel (px, py),
// counted from the bottom-left corner.
func (s *Scene) Cast(cam ssr.Camera, width, height, px, py int) (Hit, bool) {
	origin, dir := PixelRay(cam, width, height, px, py)
	return s.nearest(cam, origin, dir)
}

// PixelRay returns the view ray through the center of pixel (px, py).
// Perspective rays start at the origin; orthographic rays start on the
// z=0 plane and point down -Z.
func PixelRay(cam ssr.Camera, width, height, px, py int) (origin, dir ssr.Vec3) {
	ndc := ssr.Vec4{
		X: (float64(px)+0.5)/float64(width)*2 - 1,
		Y: (float64(py)+0.5)/float64(height)*2 - 1,
		Z: -1,
		W: 1,
	}
	h := cam.InverseProjection.MulVec4(ndc)
	near := h.XYZ().Mul(1 / h.W)
	if cam.Perspective {
		return ssr.Vec3{}, near.Normalize()
	}
	return ssr.V3(near.X, near.Y, 0), ssr.V3(0, 0, -1)
}

// Render rasterizes the scene into a frame with color, packed normal,
// depth and metalness buffers.
func (s *Scene) Render(cam ssr.Camera, width, height int) *ssr.Frame {
	f := &ssr.Frame{
		Color:     ssr.NewBuffer(width, height, 4),
		Normal:    ssr.NewBuffer(width, height, 3),
		Depth:     ssr.NewBuffer(width, height, 1),
		Metalness: ssr.NewBuffer(width, height, 1),
	}

	for py := 0; py < height; py++ {
		for px := 0; px < width; px++ {
			origin, dir := PixelRay(cam, width, height, px, py)
			hit, ok := s.nearest(cam, origin, dir)
			if !ok {
				f.Color.Set(px, py, s.Background)
				f.Normal.SetVec3(px, py, ssr.V3(0.5, 0.5, 1))
				f.Depth.Set(px, py, ssr.RGBA{R: 1})
				continue
			}

			n := hit.Object.NormalAt(hit.Point)
			f.Color.Set(px, py, hit.Object.ColorAt(hit.Point))
			f.Normal.SetVec3(px, py, n.Mul(0.5).AddScalar(0.5))
			f.Depth.Set(px, py, ssr.RGBA{R: cam.Depth(hit.Point.Z)})
			if hit.Object.Metallic() {
				f.Metalness.Set(px, py, ssr.RGBA{R: 1})
			}
		}
	}
	return f
}

func (s *Scene) nearest(cam ssr.Camera, origin, dir ssr.Vec3) (Hit, bool) {
	best := math.Inf(1)
	var hit Hit
	for _, o := range s.Objects {
		t, ok := o.Intersect(origin, dir)
		if !ok || t >= best {
			continue
		}
		p := origin.Add(dir.Mul(t))
		if -p.Z >= cam.Far || -p.Z < cam.Near {
			continue
		}
		best = t
		hit = Hit{Object: o, Point: p}
	}
	return hit, hit.Object != nil
}
