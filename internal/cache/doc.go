// Package cache provides a small generic LRU cache.
//
// Passes use it to keep buffers derived from the camera, such as near-plane
// points, across frames:
//
//	c := cache.New[key, *ssr.Buffer](2)
//	buf := c.GetOrCreate(k, func() *ssr.Buffer { return build(k) })
//
// LRU is safe for concurrent use and must not be copied after creation.
package cache
