package ssr

// Depth packing formulas for OpenGL-style depth buffers.

// PerspectiveDepthToViewZ converts a perspective depth-buffer value in [0, 1]
// to view-space z (negative in front of the camera).
func PerspectiveDepthToViewZ(depth, near, far float64) float64 {
	return near * far / ((far-near)*depth - far)
}

// ViewZToPerspectiveDepth is the inverse of PerspectiveDepthToViewZ.
func ViewZToPerspectiveDepth(viewZ, near, far float64) float64 {
	return ((near + viewZ) * far) / ((far - near) * viewZ)
}

// OrthographicDepthToViewZ converts a linear depth-buffer value to view-space z.
func OrthographicDepthToViewZ(depth, near, far float64) float64 {
	return depth*(near-far) - near
}

// ViewZToOrthographicDepth is the inverse of OrthographicDepthToViewZ.
func ViewZToOrthographicDepth(viewZ, near, far float64) float64 {
	return (viewZ + near) / (near - far)
}

// LinearDepthImage returns a single-channel visualization of depth where
// near surfaces are bright and the far plane is black.
// Perspective depth is linearized first.
func LinearDepthImage(depth *Buffer, cam Camera) *Buffer {
	out := NewBuffer(depth.Width, depth.Height, 1)
	for i := range out.Pix {
		d := float64(depth.Pix[i*depth.Channels])
		if cam.Perspective {
			d = ViewZToOrthographicDepth(PerspectiveDepthToViewZ(d, cam.Near, cam.Far), cam.Near, cam.Far)
		}
		out.Pix[i] = float32(1 - d)
	}
	return out
}
