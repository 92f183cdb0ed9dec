// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package gpu

import (
	"context"
	"fmt"
	"sync"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/ssr"
	gpuimpl "github.com/gogpu/ssr/internal/gpu"
)

// Pass evaluates reflections with the WGSL compute shader.
//
// Execute calls are serialized. Blur and compositing run on the CPU after
// read-back.
type Pass struct {
	mu       sync.Mutex
	disp     *gpuimpl.Dispatcher
	opts     passOptions
	width    int
	height   int
	released bool

	nearPlanes *ssr.NearPlaneCache
}

var _ ssr.Pass = (*Pass)(nil)

// NewPass creates a pass on its own GPU device. When the GPU cannot be
// initialized it logs a warning and returns an ssr.SoftwarePass instead.
func NewPass(width, height int, opts ...Option) (ssr.Pass, error) {
	o := buildOptions(opts)
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("%w: %dx%d", ssr.ErrInvalidSize, width, height)
	}

	disp, err := gpuimpl.NewDispatcher()
	if err != nil {
		ssr.Logger().Warn("ssr: GPU not available, using software pass", "err", err)
		return ssr.NewSoftwarePass(width, height, o.softwareOptions()...)
	}
	return newPass(disp, width, height, o), nil
}

// NewPassWithDevice creates a pass on a device owned by the caller.
// Release does not destroy the device.
func NewPassWithDevice(device hal.Device, queue hal.Queue, width, height int, opts ...Option) (*Pass, error) {
	o := buildOptions(opts)
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("%w: %dx%d", ssr.ErrInvalidSize, width, height)
	}

	disp, err := gpuimpl.NewDispatcherWithDevice(device, queue)
	if err != nil {
		return nil, err
	}
	return newPass(disp, width, height, o), nil
}

// NewPassFromProvider creates a pass on the device of a host application.
// The provider must also implement HalDevice() any and HalQueue() any
// returning hal.Device and hal.Queue.
func NewPassFromProvider(provider gpucontext.DeviceProvider, width, height int, opts ...Option) (*Pass, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, fmt.Errorf("ssr: provider does not expose HAL types")
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("ssr: provider HalDevice is not hal.Device")
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("ssr: provider HalQueue is not hal.Queue")
	}
	return NewPassWithDevice(device, queue, width, height, opts...)
}

func newPass(disp *gpuimpl.Dispatcher, width, height int, o passOptions) *Pass {
	ssr.Logger().Info("ssr: gpu pass created",
		"width", width,
		"height", height,
		"adapter", disp.AdapterName(),
		"blur", o.blurRadius)
	return &Pass{disp: disp, opts: o, width: width, height: height, nearPlanes: ssr.NewNearPlaneCache(2)}
}

// Size returns the pass resolution.
func (p *Pass) Size() (width, height int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.width, p.height
}

// Resize changes the output resolution.
func (p *Pass) Resize(width, height int) error {
	if width < 0 || height < 0 {
		return fmt.Errorf("%w: %dx%d", ssr.ErrInvalidSize, width, height)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.released {
		return ssr.ErrReleased
	}
	if width == p.width && height == p.height {
		return nil
	}
	p.width, p.height = width, height
	p.nearPlanes.Clear()
	ssr.Logger().Debug("ssr: gpu pass resized", "width", width, "height", height)
	return nil
}

// Execute dispatches the shader and composites the read-back layer over the
// color buffer with source-over blending.
func (p *Pass) Execute(ctx context.Context, in *ssr.FrameInputs) (*ssr.FrameOutputs, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.released {
		return nil, ssr.ErrReleased
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	if w, h := in.Frame.Size(); w != p.width || h != p.height {
		return nil, fmt.Errorf("%w: frame %dx%d, pass %dx%d", ssr.ErrSizeMismatch, w, h, p.width, p.height)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("ssr: dispatch canceled: %w", err)
	}

	frame := *in.Frame
	if p.opts.nearPlane && frame.NearPlane == nil {
		frame.NearPlane = p.nearPlanes.Points(in.Camera, p.width, p.height)
	}

	raw, err := p.disp.Dispatch(&frame, in.Camera, in.ParamsFor(p.width, p.height))
	if err != nil {
		return nil, fmt.Errorf("ssr: gpu dispatch: %w", err)
	}

	layer := raw
	if p.opts.blurRadius > 0 {
		layer = ssr.Blur(raw, p.opts.blurRadius)
	}
	return &ssr.FrameOutputs{
		Reflection: raw,
		Layer:      layer,
		Display:    ssr.Composite(in.Frame.Color, layer),
		Hits:       ssr.CountHits(raw),
	}, nil
}

// Release destroys the pipeline and, for NewPass, the device.
func (p *Pass) Release() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.released {
		return
	}
	p.released = true
	p.disp.Close()
	p.nearPlanes.Clear()
	ssr.Logger().Info("ssr: gpu pass released")
}
