// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import "github.com/gogpu/ssr"

// Option configures a GPU pass during creation.
type Option func(*passOptions)

type passOptions struct {
	blurRadius int
	nearPlane  bool
	fallback   []ssr.Option
}

// WithBlur enables a box blur of the given radius on the reflection layer
// before compositing.
func WithBlur(radius int) Option {
	return func(o *passOptions) {
		o.blurRadius = radius
	}
}

// WithNearPlanePoints makes the pass generate a near-plane buffer for frames
// that do not supply one.
func WithNearPlanePoints() Option {
	return func(o *passOptions) {
		o.nearPlane = true
	}
}

// WithFallbackOptions sets extra options for the software pass NewPass
// returns when no GPU is available.
func WithFallbackOptions(opts ...ssr.Option) Option {
	return func(o *passOptions) {
		o.fallback = append(o.fallback, opts...)
	}
}

func buildOptions(opts []Option) passOptions {
	var o passOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// softwareOptions translates o into options for ssr.NewSoftwarePass.
func (o passOptions) softwareOptions() []ssr.Option {
	opts := make([]ssr.Option, 0, len(o.fallback)+2)
	if o.blurRadius > 0 {
		opts = append(opts, ssr.WithBlur(o.blurRadius))
	}
	if o.nearPlane {
		opts = append(opts, ssr.WithNearPlanePoints())
	}
	return append(opts, o.fallback...)
}
