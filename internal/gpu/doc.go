// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package gpu implements the WGSL compute dispatch of the reflection kernel
// on a wgpu/hal device.
//
// The shader mirrors ssr.Kernel: one invocation per pixel, 8x8 workgroups,
// G-buffers uploaded as storage buffers and the RGBA layer read back through
// a staging buffer.
package gpu
