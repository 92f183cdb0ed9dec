// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build nogpu

package gpu

import "github.com/gogpu/ssr"

// NewPass returns an ssr.SoftwarePass in builds without GPU support.
func NewPass(width, height int, opts ...Option) (ssr.Pass, error) {
	o := buildOptions(opts)
	return ssr.NewSoftwarePass(width, height, o.softwareOptions()...)
}
