package ssr

import "fmt"

// Frame is the set of read-only G-buffers for one reflection evaluation.
// All buffers share the same dimensions.
type Frame struct {
	// Color is the rendered image (RGBA). Reflections copy texels from it.
	Color *Buffer

	// Normal holds view-space normals packed as n*0.5+0.5 (RGB or RGBA).
	Normal *Buffer

	// Depth holds depth-buffer values in [0, 1] (1 channel).
	Depth *Buffer

	// Metalness gates reflections in selective mode (1 channel). Optional.
	Metalness *Buffer

	// NearPlane holds view-space near-plane points (RGB or RGBA). Optional.
	NearPlane *Buffer
}

// Size returns the frame dimensions taken from the depth buffer.
func (f *Frame) Size() (width, height int) {
	if f.Depth == nil {
		return 0, 0
	}
	return f.Depth.Width, f.Depth.Height
}

// Validate checks presence, shape and matching dimensions of the buffers.
// selective requires a metalness buffer.
func (f *Frame) Validate(selective bool) error {
	required := []struct {
		name     string
		buf      *Buffer
		channels []int
	}{
		{"color", f.Color, []int{3, 4}},
		{"normal", f.Normal, []int{3, 4}},
		{"depth", f.Depth, []int{1}},
	}
	for _, r := range required {
		if r.buf == nil {
			return fmt.Errorf("%w: %s", ErrMissingBuffer, r.name)
		}
		if err := r.buf.validate(r.name, r.channels...); err != nil {
			return err
		}
	}
	if selective && f.Metalness == nil {
		return fmt.Errorf("%w: metalness required in selective mode", ErrMissingBuffer)
	}

	optional := []struct {
		name     string
		buf      *Buffer
		channels []int
	}{
		{"metalness", f.Metalness, []int{1}},
		{"near plane", f.NearPlane, []int{3, 4}},
	}
	for _, o := range optional {
		if o.buf == nil {
			continue
		}
		if err := o.buf.validate(o.name, o.channels...); err != nil {
			return err
		}
	}

	for _, b := range []*Buffer{f.Color, f.Normal, f.Metalness, f.NearPlane} {
		if b != nil && !b.SameSize(f.Depth) {
			return fmt.Errorf("%w: %dx%d vs depth %dx%d",
				ErrSizeMismatch, b.Width, b.Height, f.Depth.Width, f.Depth.Height)
		}
	}
	return nil
}
