package ssr

import (
	"context"
	"fmt"

	"github.com/gogpu/ssr/internal/blend"
)

// OrthographicPass is the temporal reflection sequencer for orthographic
// cameras.
//
// Each frame it traces and blurs the reflection layer, adds it onto the
// previous frame's blurred layer, adds the result onto the color buffer and
// then keeps this frame's blurred layer for the next frame:
//
//	blurred = Blur(Reflect(frame))
//	layer   = Additive(blurred, previous)
//	display = Additive(layer, color)
//	previous <- blurred
type OrthographicPass struct {
	sw      *SoftwarePass
	history *History
}

var _ Pass = (*OrthographicPass)(nil)

// orthoBlurRadius gives the 5x5 box used when no positive radius is set.
const orthoBlurRadius = 2

// NewOrthographicPass creates the sequencer. The blur cannot be disabled:
// WithBlur changes its radius, and radii below 1 fall back to the 5x5 box.
func NewOrthographicPass(width, height int, opts ...Option) (*OrthographicPass, error) {
	opts = append(opts[:len(opts):len(opts)], func(o *passOptions) {
		if o.blurRadius < 1 {
			o.blurRadius = orthoBlurRadius
		}
	})
	sw, err := NewSoftwarePass(width, height, opts...)
	if err != nil {
		return nil, err
	}
	return &OrthographicPass{sw: sw, history: NewHistory(width, height)}, nil
}

// History returns the accumulation buffers.
func (p *OrthographicPass) History() *History { return p.history }

// Execute runs one frame of the sequence. The history only advances when
// the whole frame succeeds.
func (p *OrthographicPass) Execute(ctx context.Context, in *FrameInputs) (*FrameOutputs, error) {
	if in != nil && in.Camera.Perspective {
		return nil, fmt.Errorf("%w: orthographic pass needs an orthographic camera", ErrInvalidCamera)
	}

	p.sw.mu.Lock()
	defer p.sw.mu.Unlock()

	raw, hits, err := p.sw.trace(ctx, in)
	if err != nil {
		return nil, err
	}
	blurred := p.sw.blurred(raw)

	cur := p.history.Current()
	copy(cur.Pix, blurred.Pix)

	layer := NewBuffer(p.sw.width, p.sw.height, 4)
	blend.LayerInto(blurred.Pix, p.history.Previous().Pix, layer.Pix, blend.ModeAdditive)

	display := toRGBA(in.Frame.Color)
	blend.Layer(layer.Pix, display.Pix, blend.ModeAdditive)

	p.history.Swap()

	return &FrameOutputs{
		Reflection: raw,
		Layer:      layer,
		Display:    display,
		Hits:       hits,
	}, nil
}

// Resize changes the resolution and discards the history.
func (p *OrthographicPass) Resize(width, height int) error {
	if err := p.sw.Resize(width, height); err != nil {
		return err
	}
	p.sw.mu.Lock()
	p.history.Resize(width, height)
	p.sw.mu.Unlock()
	return nil
}

// Reset clears the accumulated history, e.g. after a camera cut.
func (p *OrthographicPass) Reset() {
	p.sw.mu.Lock()
	p.history.Reset()
	p.sw.mu.Unlock()
}

// Release frees the pass resources.
func (p *OrthographicPass) Release() {
	p.sw.Release()
}
