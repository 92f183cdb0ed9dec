// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package gpu

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/ssr"

	// Import Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"
)

// ErrNotReady is returned by Dispatch when no pipeline is available.
var ErrNotReady = errors.New("ssr-gpu: dispatcher not ready")

// Dispatcher runs the reflection shader on a wgpu/hal device.
type Dispatcher struct {
	mu sync.Mutex

	instance hal.Instance
	device   hal.Device
	queue    hal.Queue

	shader     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	pipeline   hal.ComputePipeline

	adapterName    string
	ready          bool
	externalDevice bool // true when using shared device (don't destroy on Close)
}

// NewDispatcher opens a Vulkan device and builds the compute pipeline.
func NewDispatcher() (*Dispatcher, error) {
	d := &Dispatcher{}
	if err := d.initGPU(); err != nil {
		d.Close()
		return nil, err
	}
	return d, nil
}

// NewDispatcherWithDevice builds the compute pipeline on a device owned by
// the caller. Close does not destroy the device.
func NewDispatcherWithDevice(device hal.Device, queue hal.Queue) (*Dispatcher, error) {
	if device == nil || queue == nil {
		return nil, fmt.Errorf("ssr-gpu: nil device or queue")
	}
	d := &Dispatcher{device: device, queue: queue, externalDevice: true, adapterName: "external"}
	if err := d.createPipelines(); err != nil {
		d.destroyPipelines()
		return nil, fmt.Errorf("ssr-gpu: create pipelines with shared device: %w", err)
	}
	d.ready = true
	ssr.Logger().Info("ssr-gpu: using shared GPU device")
	return d, nil
}

// AdapterName returns the name of the adapter in use.
func (d *Dispatcher) AdapterName() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.adapterName
}

// Ready reports whether the pipeline is built.
func (d *Dispatcher) Ready() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.ready
}

// Close releases the pipeline and, unless it was supplied by the caller,
// the device. Safe to call more than once.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.destroyPipelines()
	if !d.externalDevice {
		if d.device != nil {
			d.device.Destroy()
		}
		if d.instance != nil {
			d.instance.Destroy()
		}
	}
	d.device = nil
	d.instance = nil
	d.queue = nil
	d.ready = false
	d.externalDevice = false
}

// Dispatch evaluates the reflection layer for one validated frame and returns
// it as an RGBA buffer.
func (d *Dispatcher) Dispatch(frame *ssr.Frame, cam ssr.Camera, params ssr.Params) (*ssr.Buffer, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.ready {
		return nil, ErrNotReady
	}

	width, height := frame.Size()
	w, h := uint32(width), uint32(height) //nolint:gosec // dimensions always fit uint32
	out := ssr.NewBuffer(width, height, 4)
	if w == 0 || h == 0 {
		return out, nil
	}

	start := time.Now()
	res := &frameResources{device: d.device}
	defer res.destroy()

	if err := d.upload(res, frame, cam, params); err != nil {
		return nil, err
	}
	if err := d.encodeAndSubmit(res, w, h); err != nil {
		return nil, err
	}

	readback := make([]byte, res.outputSize)
	if err := d.queue.ReadBuffer(res.staging, 0, readback); err != nil {
		return nil, fmt.Errorf("ssr-gpu: readback: %w", err)
	}
	unpackVec4(readback, out)

	ssr.Logger().Debug("ssr-gpu: dispatched frame",
		"width", width,
		"height", height,
		"workgroups_x", (w+7)/8,
		"workgroups_y", (h+7)/8,
		"max_step", params.MaxStep,
		"elapsed", time.Since(start))
	return out, nil
}

// frameResources holds the per-frame buffers and bind group.
type frameResources struct {
	device     hal.Device
	buffers    []hal.Buffer
	bindGroup  hal.BindGroup
	output     hal.Buffer
	staging    hal.Buffer
	outputSize uint64
}

func (r *frameResources) destroy() {
	if r.bindGroup != nil {
		r.device.DestroyBindGroup(r.bindGroup)
	}
	for _, b := range r.buffers {
		if b != nil {
			r.device.DestroyBuffer(b)
		}
	}
}

// createBuffer creates a buffer, writes data into it when given, and tracks
// it for destruction.
func (d *Dispatcher) createBuffer(res *frameResources, label string, size uint64, usage gputypes.BufferUsage, data []byte) (hal.Buffer, error) {
	buf, err := d.device.CreateBuffer(&hal.BufferDescriptor{Label: label, Size: size, Usage: usage})
	if err != nil {
		return nil, fmt.Errorf("ssr-gpu: create %s buffer: %w", label, err)
	}
	res.buffers = append(res.buffers, buf)
	if data != nil {
		d.queue.WriteBuffer(buf, 0, data)
	}
	return buf, nil
}

func (d *Dispatcher) upload(res *frameResources, frame *ssr.Frame, cam ssr.Camera, params ssr.Params) error {
	width, height := frame.Size()
	pixels := uint64(width * height) //nolint:gosec // non-negative

	// Optional buffers get a single-element placeholder.
	placeholder := make([]byte, 16)
	metal := placeholder
	if frame.Metalness != nil {
		metal = packScalar(frame.Metalness)
	}
	near := placeholder
	if frame.NearPlane != nil {
		near = packVec4(frame.NearPlane)
	}

	inputs := []struct {
		label string
		data  []byte
	}{
		{"ssr_params", packUniforms(cam, params, width, height, frame.NearPlane != nil)},
		{"ssr_color", packVec4(frame.Color)},
		{"ssr_normal", packVec4(frame.Normal)},
		{"ssr_depth", packScalar(frame.Depth)},
		{"ssr_metalness", metal},
		{"ssr_near_plane", near},
	}

	entries := make([]gputypes.BindGroupEntry, 0, len(inputs)+1)
	for i, in := range inputs {
		usage := gputypes.BufferUsageStorage | gputypes.BufferUsageCopyDst
		if i == 0 {
			usage = gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst
		}
		size := uint64(len(in.data))
		buf, err := d.createBuffer(res, in.label, size, usage, in.data)
		if err != nil {
			return err
		}
		entries = append(entries, gputypes.BindGroupEntry{
			Binding:  uint32(i), //nolint:gosec // small index
			Resource: gputypes.BufferBinding{Buffer: buf.NativeHandle(), Offset: 0, Size: size},
		})
	}

	res.outputSize = pixels * 16
	output, err := d.createBuffer(res, "ssr_output", res.outputSize,
		gputypes.BufferUsageStorage|gputypes.BufferUsageCopySrc, nil)
	if err != nil {
		return err
	}
	res.output = output
	staging, err := d.createBuffer(res, "ssr_staging", res.outputSize,
		gputypes.BufferUsageMapRead|gputypes.BufferUsageCopyDst, nil)
	if err != nil {
		return err
	}
	res.staging = staging

	entries = append(entries, gputypes.BindGroupEntry{
		Binding:  uint32(len(inputs)), //nolint:gosec // small index
		Resource: gputypes.BufferBinding{Buffer: output.NativeHandle(), Offset: 0, Size: res.outputSize},
	})
	bg, err := d.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label: "ssr_bind", Layout: d.bindLayout, Entries: entries,
	})
	if err != nil {
		return fmt.Errorf("ssr-gpu: create bind group: %w", err)
	}
	res.bindGroup = bg
	return nil
}

func (d *Dispatcher) encodeAndSubmit(res *frameResources, w, h uint32) error {
	encoder, err := d.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "ssr_encoder"})
	if err != nil {
		return fmt.Errorf("ssr-gpu: create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("ssr"); err != nil {
		return fmt.Errorf("ssr-gpu: begin encoding: %w", err)
	}

	computePass := encoder.BeginComputePass(&hal.ComputePassDescriptor{Label: "ssr_pass"})
	computePass.SetPipeline(d.pipeline)
	computePass.SetBindGroup(0, res.bindGroup, nil)
	computePass.Dispatch((w+7)/8, (h+7)/8, 1)
	computePass.End()

	encoder.CopyBufferToBuffer(res.output, res.staging, []hal.BufferCopy{
		{SrcOffset: 0, DstOffset: 0, Size: res.outputSize},
	})
	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("ssr-gpu: end encoding: %w", err)
	}
	defer d.device.FreeCommandBuffer(cmdBuf)

	fence, err := d.device.CreateFence()
	if err != nil {
		return fmt.Errorf("ssr-gpu: create fence: %w", err)
	}
	defer d.device.DestroyFence(fence)
	if err := d.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("ssr-gpu: submit: %w", err)
	}
	fenceOK, err := d.device.Wait(fence, 1, 5*time.Second)
	if err != nil || !fenceOK {
		return fmt.Errorf("ssr-gpu: wait for GPU: ok=%v err=%w", fenceOK, err)
	}
	return nil
}

func (d *Dispatcher) initGPU() error {
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return fmt.Errorf("ssr-gpu: vulkan backend not available")
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return fmt.Errorf("ssr-gpu: create instance: %w", err)
	}
	d.instance = instance
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		return fmt.Errorf("ssr-gpu: no GPU adapters found")
	}
	var selected *hal.ExposedAdapter
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	if selected == nil {
		selected = &adapters[0]
	}
	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		return fmt.Errorf("ssr-gpu: open device: %w", err)
	}
	d.device = openDev.Device
	d.queue = openDev.Queue
	if err := d.createPipelines(); err != nil {
		return fmt.Errorf("ssr-gpu: create pipelines: %w", err)
	}
	d.adapterName = selected.Info.Name
	d.ready = true
	ssr.Logger().Info("ssr-gpu: dispatcher initialized", "adapter", selected.Info.Name)
	return nil
}

func (d *Dispatcher) createPipelines() error {
	shader, err := d.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "ssr",
		Source: hal.ShaderSource{WGSL: ssrShaderSource},
	})
	if err != nil {
		return fmt.Errorf("compile ssr shader: %w", err)
	}
	d.shader = shader

	storage := func(binding uint32, t gputypes.BufferBindingType) gputypes.BindGroupLayoutEntry {
		return gputypes.BindGroupLayoutEntry{
			Binding: binding, Visibility: gputypes.ShaderStageCompute,
			Buffer: &gputypes.BufferBindingLayout{Type: t},
		}
	}
	bindLayout, err := d.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "ssr_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			storage(0, gputypes.BufferBindingTypeUniform),
			storage(1, gputypes.BufferBindingTypeReadOnlyStorage),
			storage(2, gputypes.BufferBindingTypeReadOnlyStorage),
			storage(3, gputypes.BufferBindingTypeReadOnlyStorage),
			storage(4, gputypes.BufferBindingTypeReadOnlyStorage),
			storage(5, gputypes.BufferBindingTypeReadOnlyStorage),
			storage(6, gputypes.BufferBindingTypeStorage),
		},
	})
	if err != nil {
		return fmt.Errorf("create bind group layout: %w", err)
	}
	d.bindLayout = bindLayout

	pipeLayout, err := d.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label: "ssr_pipe_layout", BindGroupLayouts: []hal.BindGroupLayout{d.bindLayout},
	})
	if err != nil {
		return fmt.Errorf("create pipeline layout: %w", err)
	}
	d.pipeLayout = pipeLayout

	pipeline, err := d.device.CreateComputePipeline(&hal.ComputePipelineDescriptor{
		Label: "ssr_pipeline", Layout: d.pipeLayout,
		Compute: hal.ComputeState{Module: d.shader, EntryPoint: "main"},
	})
	if err != nil {
		return fmt.Errorf("create compute pipeline: %w", err)
	}
	d.pipeline = pipeline
	return nil
}

func (d *Dispatcher) destroyPipelines() {
	if d.device == nil {
		return
	}
	if d.pipeline != nil {
		d.device.DestroyComputePipeline(d.pipeline)
		d.pipeline = nil
	}
	if d.pipeLayout != nil {
		d.device.DestroyPipelineLayout(d.pipeLayout)
		d.pipeLayout = nil
	}
	if d.bindLayout != nil {
		d.device.DestroyBindGroupLayout(d.bindLayout)
		d.bindLayout = nil
	}
	if d.shader != nil {
		d.device.DestroyShaderModule(d.shader)
		d.shader = nil
	}
}
