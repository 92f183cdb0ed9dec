// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"fmt"

	"github.com/gogpu/naga"

	gpuimpl "github.com/gogpu/ssr/internal/gpu"
)

// ShaderSource returns the WGSL source of the reflection kernel.
func ShaderSource() string { return gpuimpl.ShaderSource() }

// CompileShader translates the reflection kernel to SPIR-V. It is useful for
// validating the shader and for hosts that build their own pipelines.
func CompileShader() ([]byte, error) {
	spirv, err := naga.Compile(gpuimpl.ShaderSource())
	if err != nil {
		return nil, fmt.Errorf("ssr: compile shader: %w", err)
	}
	return spirv, nil
}
