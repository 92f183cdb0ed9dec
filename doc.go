// Package ssr computes screen-space reflections for a rendered frame.
//
// # Overview
//
// ssr is a Pure Go implementation of the screen-space reflection post-process.
// It takes a rendered color buffer plus its depth and view-space normal
// buffers, marches every reflected view ray through the depth buffer in 2D
// screen space, and produces an RGBA reflection layer whose alpha encodes
// reflection strength (0 = no reflection).
//
// # Quick Start
//
//	cam := ssr.NewPerspectiveCamera(math.Pi/3, 800.0/600.0, 0.1, 100)
//	pass, err := ssr.NewSoftwarePass(800, 600, cam)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer pass.Release()
//
//	out, err := pass.Execute(ctx, &ssr.FrameInputs{Frame: frame})
//	// out.Reflection holds the reflection layer, out.Display the composite.
//
// # Architecture
//
// The library is organized into:
//   - Kernel: the per-pixel reconstruction, ray setup, march and hit policy
//   - Controller: the mutable owner of Params between frames
//   - Pass implementations: SoftwarePass, OrthographicPass and gpu.Pass
//   - Internal: parallel (tile worker pool), filter (box blur), blend
//
// # Coordinate System
//
// Buffers use texture-space coordinates:
//   - Origin (0,0) at bottom-left, row 0 is the bottom row
//   - UV in [0,1]², view space is right-handed with -Z in front of the camera
//   - Projection matrices follow the OpenGL clip convention (z in [-1,1])
//
// # Performance
//
// The kernel evaluates at most MaxStep steps per pixel, where MaxStep is the
// diagonal length of the output in pixels. Tiles are evaluated in parallel on
// a work-stealing pool; pixels never share mutable state.
package ssr

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0
)
