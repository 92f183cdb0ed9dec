package ssr

import (
	"fmt"
	"sync"
)

// Controller owns the mutable reflection settings between frames.
//
// Setters validate their input and leave the previous value in place on
// error. Params returns an immutable snapshot for one frame. All methods are
// safe for concurrent use.
type Controller struct {
	mu     sync.RWMutex
	cam    Camera
	params Params
	width  int
	height int
}

// NewController creates a controller with DefaultParams for cam.
// Call Resize before the first frame to derive MaxStep.
func NewController(cam Camera) *Controller {
	p := DefaultParams()
	p.PerspectiveCamera = cam.Perspective
	return &Controller{cam: cam, params: p}
}

// Resize sets the output resolution and recomputes MaxStep. Resizing to the
// current size is a no-op. A zero dimension is allowed and yields MaxStep 0.
func (c *Controller) Resize(width, height int) error {
	if width < 0 || height < 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if width == c.width && height == c.height && c.params.MaxStep == MaxStepFor(width, height) {
		return nil
	}
	c.width, c.height = width, height
	c.params.MaxStep = MaxStepFor(width, height)

	Logger().Debug("ssr: resize",
		"width", width,
		"height", height,
		"max_step", c.params.MaxStep)
	return nil
}

// Size returns the current resolution.
func (c *Controller) Size() (width, height int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.width, c.height
}

// Camera returns the current camera.
func (c *Controller) Camera() Camera {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cam
}

// SetCamera replaces the camera. The projection kind is carried into Params.
func (c *Controller) SetCamera(cam Camera) error {
	if err := cam.Validate(); err != nil {
		return err
	}
	c.mu.Lock()
	c.cam = cam
	c.params.PerspectiveCamera = cam.Perspective
	c.mu.Unlock()
	return nil
}

// SetFrustumSize sets the orthographic frustum size used to normalize
// SurfDist.
func (c *Controller) SetFrustumSize(size float64) error {
	if !(size > 0) || !isFinite(size) {
		return fmt.Errorf("%w: frustum size %v must be positive", ErrInvalidParams, size)
	}
	c.mu.Lock()
	c.cam.FrustumSize = size
	c.mu.Unlock()
	return nil
}

// update applies fn to a copy of the params and keeps it only if it validates.
func (c *Controller) update(fn func(p *Params)) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	p := c.params
	fn(&p)
	if err := p.Validate(); err != nil {
		return err
	}
	c.params = p
	return nil
}

// SetOpacity sets the base reflection alpha.
func (c *Controller) SetOpacity(v float64) error {
	return c.update(func(p *Params) { p.Opacity = v })
}

// SetMaxDistance sets the view-space reflection ray length.
func (c *Controller) SetMaxDistance(v float64) error {
	return c.update(func(p *Params) { p.MaxDistance = v })
}

// SetSurfDist sets the hit threshold. For orthographic cameras the value is
// divided by the frustum size when a snapshot is taken.
func (c *Controller) SetSurfDist(v float64) error {
	return c.update(func(p *Params) { p.SurfDist = v })
}

// SetThickTolerance sets the infinite-thickness tolerance.
func (c *Controller) SetThickTolerance(v float64) error {
	return c.update(func(p *Params) { p.ThickTolerance = v })
}

// SetAttenuationDistance sets the ray length at which opacity reaches zero.
func (c *Controller) SetAttenuationDistance(v float64) error {
	return c.update(func(p *Params) { p.AttenuationDistance = v })
}

// SetNoiseIntensity sets the normal jitter amplitude.
func (c *Controller) SetNoiseIntensity(v float64) error {
	return c.update(func(p *Params) { p.NoiseIntensity = v })
}

// SetDistanceAttenuation toggles quadratic distance falloff.
func (c *Controller) SetDistanceAttenuation(on bool) error {
	return c.update(func(p *Params) { p.DistanceAttenuation = on })
}

// SetInfiniteThick toggles the infinite-thickness early exit.
func (c *Controller) SetInfiniteThick(on bool) error {
	return c.update(func(p *Params) { p.InfiniteThick = on })
}

// SetNoise toggles normal jitter.
func (c *Controller) SetNoise(on bool) error {
	return c.update(func(p *Params) { p.Noise = on })
}

// SetSelective toggles metalness gating.
func (c *Controller) SetSelective(on bool) error {
	return c.update(func(p *Params) { p.Selective = on })
}

// Params returns the snapshot used for one frame.
func (c *Controller) Params() Params {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p := c.params
	if !c.cam.Perspective && c.cam.FrustumSize > 0 {
		p.SurfDist /= c.cam.FrustumSize
	}
	return p
}
