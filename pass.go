package ssr

import (
	"context"
	"fmt"
)

// Pass is a reflection backend.
//
// A pass owns per-resolution resources. Execute reads the inputs and returns
// fresh output buffers; it never mutates the inputs. The march length always
// follows the pass resolution: Params.MaxStep is replaced with
// MaxStepFor(width, height). After Release, Execute and Resize return
// ErrReleased.
type Pass interface {
	// Execute evaluates reflections for one frame.
	Execute(ctx context.Context, in *FrameInputs) (*FrameOutputs, error)

	// Resize changes the output resolution. Frames passed to Execute must
	// match it.
	Resize(width, height int) error

	// Release frees the pass resources. Safe to call more than once.
	Release()
}

// FrameInputs is everything a pass reads for one frame.
type FrameInputs struct {
	Frame  *Frame
	Camera Camera
	Params Params
}

// Validate checks that the camera, parameters and buffers are usable together.
func (in *FrameInputs) Validate() error {
	if in == nil || in.Frame == nil {
		return fmt.Errorf("%w: frame inputs", ErrMissingBuffer)
	}
	return validateInputs(in.Camera, in.Params, in.Frame)
}

// ParamsFor returns the frame parameters with MaxStep set for a pass of
// width x height.
func (in *FrameInputs) ParamsFor(width, height int) Params {
	p := in.Params
	p.MaxStep = MaxStepFor(width, height)
	return p
}

// FrameOutputs holds the buffers produced for one frame.
type FrameOutputs struct {
	// Reflection is the raw reflection layer (RGBA, alpha = strength).
	Reflection *Buffer

	// Layer is the layer that was composited: Reflection after the optional
	// blur and, for the orthographic pass, temporal accumulation.
	Layer *Buffer

	// Display is the color buffer with Layer blended on top.
	Display *Buffer

	// Hits counts pixels with an accepted reflection.
	Hits int
}
