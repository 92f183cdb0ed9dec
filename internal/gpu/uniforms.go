// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/ssr"
)

// uniformSize is the size of the WGSL Params struct in bytes.
const uniformSize = 192

// Flag bits of Params.flags in ssr.wgsl.
const (
	flagPerspective uint32 = 1 << iota
	flagAttenuation
	flagInfiniteThick
	flagNoise
	flagSelective
	flagNearPlane
)

// Uniform byte offsets in ssr.wgsl.
const (
	offProjection    = 0
	offInvProjection = 64
	offResolution    = 128
	offNear          = 136
	offFar           = 140
	offOpacity       = 144
	offMaxDistance   = 148
	offSurfDist      = 152
	offThick         = 156
	offAttenuation   = 160
	offNoise         = 164
	offFilmGauge     = 168
	offMaxStep       = 172
	offFlags         = 176
	offWidth         = 180
	offHeight        = 184
)

// packUniforms serializes the camera and parameters into the little-endian
// layout of the shader's Params struct.
func packUniforms(cam ssr.Camera, p ssr.Params, width, height int, nearPlane bool) []byte {
	buf := make([]byte, uniformSize)
	putF32 := func(off int, v float64) {
		binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(float32(v)))
	}
	putU32 := func(off int, v uint32) {
		binary.LittleEndian.PutUint32(buf[off:], v)
	}

	// Mat4 and mat4x4<f32> are both column-major.
	for i := 0; i < 16; i++ {
		putF32(offProjection+4*i, cam.Projection[i])
		putF32(offInvProjection+4*i, cam.InverseProjection[i])
	}
	putF32(offResolution, float64(width))
	putF32(offResolution+4, float64(height))
	putF32(offNear, cam.Near)
	putF32(offFar, cam.Far)
	putF32(offOpacity, p.Opacity)
	putF32(offMaxDistance, p.MaxDistance)
	putF32(offSurfDist, p.SurfDist)
	putF32(offThick, p.ThickTolerance)
	putF32(offAttenuation, p.AttenuationDistance)
	putF32(offNoise, p.NoiseIntensity)
	gauge := cam.FilmGauge
	if gauge == 0 {
		gauge = 1
	}
	putF32(offFilmGauge, gauge)
	putU32(offMaxStep, uint32(max(p.MaxStep, 0))) //nolint:gosec // non-negative
	putU32(offFlags, flagsOf(p, nearPlane))
	putU32(offWidth, uint32(width))   //nolint:gosec // dimensions always fit uint32
	putU32(offHeight, uint32(height)) //nolint:gosec // dimensions always fit uint32
	return buf
}

func flagsOf(p ssr.Params, nearPlane bool) uint32 {
	var f uint32
	if p.PerspectiveCamera {
		f |= flagPerspective
	}
	if p.DistanceAttenuation {
		f |= flagAttenuation
	}
	if p.InfiniteThick {
		f |= flagInfiniteThick
	}
	if p.Noise {
		f |= flagNoise
	}
	if p.Selective {
		f |= flagSelective
	}
	if nearPlane {
		f |= flagNearPlane
	}
	return f
}

// packVec4 uploads every pixel of b as four floats, zero-padding missing
// channels.
func packVec4(b *ssr.Buffer) []byte {
	n := b.Width * b.Height
	out := make([]byte, n*16)
	for i := 0; i < n; i++ {
		for c := 0; c < b.Channels && c < 4; c++ {
			binary.LittleEndian.PutUint32(out[i*16+c*4:], math.Float32bits(b.Pix[i*b.Channels+c]))
		}
	}
	return out
}

// packScalar uploads the first channel of every pixel of b.
func packScalar(b *ssr.Buffer) []byte {
	n := b.Width * b.Height
	out := make([]byte, n*4)
	for i := 0; i < n; i++ {
		binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(b.Pix[i*b.Channels]))
	}
	return out
}

// unpackVec4 converts read-back RGBA floats into dst.
func unpackVec4(packed []byte, dst *ssr.Buffer) {
	for i := range dst.Pix {
		dst.Pix[i] = math.Float32frombits(binary.LittleEndian.Uint32(packed[i*4:]))
	}
}
