// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package gpu evaluates screen-space reflections with a WGSL compute shader.
//
// Pass implements ssr.Pass on a wgpu/hal device. NewPass opens its own
// Vulkan device and falls back to ssr.SoftwarePass when no GPU is available.
// Host applications that already own a device share it through
// NewPassWithDevice or NewPassFromProvider.
//
// Usage:
//
//	p, err := gpu.NewPass(800, 600, gpu.WithBlur(2))
//	if err != nil {
//		return err
//	}
//	defer p.Release()
//	out, err := p.Execute(ctx, &ssr.FrameInputs{Frame: frame, Camera: cam, Params: ctrl.Params()})
package gpu
