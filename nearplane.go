package ssr

import "github.com/gogpu/ssr/internal/cache"

// NearPlanePoints returns an RGB buffer holding, for every pixel center, the
// view-space point where the camera ray through that pixel meets the near
// plane. Passing it as Frame.NearPlane makes the kernel intersect against
// these rays instead of rays rebuilt from the depth buffer.
func NearPlanePoints(cam Camera, width, height int) *Buffer {
	out := NewBuffer(width, height, 3)
	for y := 0; y < height; y++ {
		ndcY := (float64(y)+0.5)/float64(height)*2 - 1
		for x := 0; x < width; x++ {
			ndcX := (float64(x)+0.5)/float64(width)*2 - 1
			h := cam.InverseProjection.MulVec4(Vec4{X: ndcX, Y: ndcY, Z: -1, W: 1})
			p := h.XYZ().Mul(1 / h.W)
			p.Z = -cam.Near
			out.SetVec3(x, y, p)
		}
	}
	return out
}

type nearPlaneKey struct {
	cam           Camera
	width, height int
}

// NearPlaneCache memoizes NearPlanePoints per camera and resolution.
// It is safe for concurrent use.
type NearPlaneCache struct {
	lru *cache.LRU[nearPlaneKey, *Buffer]
}

// NewNearPlaneCache creates a cache holding up to capacity buffers.
func NewNearPlaneCache(capacity int) *NearPlaneCache {
	return &NearPlaneCache{lru: cache.New[nearPlaneKey, *Buffer](capacity)}
}

// Points returns the near-plane buffer for cam at the given resolution,
// building it on first use. The result must not be modified.
func (c *NearPlaneCache) Points(cam Camera, width, height int) *Buffer {
	key := nearPlaneKey{cam: cam, width: width, height: height}
	return c.lru.GetOrCreate(key, func() *Buffer {
		Logger().Debug("ssr: building near-plane points", "width", width, "height", height)
		return NearPlanePoints(cam, width, height)
	})
}

// Len returns the number of cached buffers.
func (c *NearPlaneCache) Len() int { return c.lru.Len() }

// Clear drops all cached buffers.
func (c *NearPlaneCache) Clear() { c.lru.Clear() }
