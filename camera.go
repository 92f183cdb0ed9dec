package ssr

import "fmt"

// Camera holds the projection state the reflection kernel needs.
//
// Projection follows the OpenGL convention: view space looks down -Z and
// clip-space z spans [-1, 1]. InverseProjection must be the inverse of
// Projection; the constructors keep them in sync.
type Camera struct {
	Near, Far         float64
	Projection        Mat4
	InverseProjection Mat4

	// Perspective selects the perspective reconstruction and reflection
	// formulas. False means orthographic.
	Perspective bool

	// FilmGauge scales points read from a near-plane buffer.
	// Zero is treated as 1.
	FilmGauge float64

	// FrustumSize is the vertical extent of an orthographic view volume.
	// The orthographic surface threshold is divided by it.
	FrustumSize float64
}

// NewPerspectiveCamera returns a perspective camera.
// fovY is the vertical field of view in radians.
func NewPerspectiveCamera(fovY, aspect, near, far float64) Camera {
	proj := Perspective(fovY, aspect, near, far)
	inv, _ := proj.Inverse()
	return Camera{
		Near:              near,
		Far:               far,
		Projection:        proj,
		InverseProjection: inv,
		Perspective:       true,
	}
}

// NewOrthographicCamera returns an orthographic camera over the given view
// volume. FrustumSize is set to top-bottom.
func NewOrthographicCamera(left, right, top, bottom, near, far float64) Camera {
	proj := Orthographic(left, right, top, bottom, near, far)
	inv, _ := proj.Inverse()
	return Camera{
		Near:              near,
		Far:               far,
		Projection:        proj,
		InverseProjection: inv,
		FrustumSize:       top - bottom,
	}
}

// Validate reports whether the camera can drive the kernel.
func (c Camera) Validate() error {
	if !(c.Near > 0) || !(c.Far > c.Near) || !isFinite(c.Far) {
		return fmt.Errorf("%w: near=%v far=%v", ErrInvalidCamera, c.Near, c.Far)
	}
	if _, ok := c.Projection.Inverse(); !ok {
		return fmt.Errorf("%w: singular projection", ErrInvalidCamera)
	}
	return nil
}

// ViewZ converts a depth-buffer value to view-space z for this camera.
func (c Camera) ViewZ(depth float64) float64 {
	if c.Perspective {
		return PerspectiveDepthToViewZ(depth, c.Near, c.Far)
	}
	return OrthographicDepthToViewZ(depth, c.Near, c.Far)
}

// Depth converts view-space z to a depth-buffer value for this camera.
func (c Camera) Depth(viewZ float64) float64 {
	if c.Perspective {
		return ViewZToPerspectiveDepth(viewZ, c.Near, c.Far)
	}
	return ViewZToOrthographicDepth(viewZ, c.Near, c.Far)
}

// ClipW returns the clip-space w of a point at view-space z.
// It is 1 for orthographic projections and -viewZ for perspective ones.
func (c Camera) ClipW(viewZ float64) float64 {
	return c.Projection.At(2, 3)*viewZ + c.Projection.At(3, 3)
}

// ViewPosition reconstructs the view-space point at uv with the given
// depth-buffer value, view z and clip w.
func (c Camera) ViewPosition(uv Vec2, depth, clipW float64) Vec3 {
	clip := Vec4{X: uv.X*2 - 1, Y: uv.Y*2 - 1, Z: depth*2 - 1, W: 1}.Mul(clipW)
	return c.InverseProjection.MulVec4(clip).XYZ()
}

// ScreenPosition projects a view-space point to pixel coordinates with the
// origin at the bottom-left corner.
func (c Camera) ScreenPosition(p Vec3, width, height int) Vec2 {
	clip := c.Projection.MulPoint(p)
	return Vec2{
		X: (clip.X/clip.W + 1) / 2 * float64(width),
		Y: (clip.Y/clip.W + 1) / 2 * float64(height),
	}
}

func (c Camera) filmGauge() float64 {
	if c.FilmGauge == 0 {
		return 1
	}
	return c.FilmGauge
}
