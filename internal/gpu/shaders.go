// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import _ "embed"

//go:embed shaders/ssr.wgsl
var ssrShaderSource string

// ShaderSource returns the WGSL source of the reflection kernel.
func ShaderSource() string { return ssrShaderSource }
