package ssr

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gogpu/ssr/internal/filter"
	"github.com/gogpu/ssr/internal/parallel"
)

// SoftwarePass evaluates reflections on the CPU.
//
// The output is split into 64x64 tiles rendered on a worker pool. Tiles
// write disjoint regions, so the result does not depend on the number of
// workers. Execute calls are serialized.
type SoftwarePass struct {
	mu       sync.Mutex
	opts     passOptions
	pool     *parallel.WorkerPool
	ownPool  bool
	grid     *parallel.TileGrid
	blur     *filter.BoxBlur
	width    int
	height   int
	released bool

	nearPlanes *NearPlaneCache
}

var _ Pass = (*SoftwarePass)(nil)

// NewSoftwarePass creates a CPU pass for the given resolution.
func NewSoftwarePass(width, height int, opts ...Option) (*SoftwarePass, error) {
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	p := &SoftwarePass{
		opts:       o,
		grid:       parallel.NewTileGrid(width, height),
		width:      width,
		height:     height,
		nearPlanes: NewNearPlaneCache(2),
	}
	switch {
	case o.pool != nil:
		p.pool = o.pool
	case o.workers != 1:
		p.pool = parallel.NewWorkerPool(o.workers)
		p.ownPool = true
	}
	if o.blurRadius > 0 {
		p.blur = filter.NewBoxBlur(o.blurRadius)
	}

	Logger().Info("ssr: software pass created",
		"width", width,
		"height", height,
		"workers", p.workers(),
		"blur", o.blurRadius)
	return p, nil
}

func (p *SoftwarePass) workers() int {
	if p.pool == nil {
		return 1
	}
	return p.pool.Workers()
}

// Size returns the pass resolution.
func (p *SoftwarePass) Size() (width, height int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.width, p.height
}

// Resize changes the output resolution.
func (p *SoftwarePass) Resize(width, height int) error {
	if width < 0 || height < 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.released {
		return ErrReleased
	}
	if width == p.width && height == p.height {
		return nil
	}
	p.width, p.height = width, height
	p.grid.Resize(width, height)
	p.nearPlanes.Clear()

	Logger().Debug("ssr: software pass resized", "width", width, "height", height)
	return nil
}

// Execute evaluates reflections and composites the layer over the color
// buffer with source-over blending.
func (p *SoftwarePass) Execute(ctx context.Context, in *FrameInputs) (*FrameOutputs, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	raw, hits, err := p.trace(ctx, in)
	if err != nil {
		return nil, err
	}

	layer := raw
	if p.blur != nil {
		layer = p.blurred(raw)
	}

	return &FrameOutputs{
		Reflection: raw,
		Layer:      layer,
		Display:    Composite(in.Frame.Color, layer),
		Hits:       hits,
	}, nil
}

// trace renders the raw reflection layer. Callers hold p.mu.
func (p *SoftwarePass) trace(ctx context.Context, in *FrameInputs) (*Buffer, int, error) {
	if p.released {
		return nil, 0, ErrReleased
	}
	if in == nil || in.Frame == nil {
		return nil, 0, fmt.Errorf("%w: frame inputs", ErrMissingBuffer)
	}
	if in.Frame.Depth != nil {
		if w, h := in.Frame.Size(); w != p.width || h != p.height {
			return nil, 0, fmt.Errorf("%w: frame %dx%d, pass %dx%d", ErrSizeMismatch, w, h, p.width, p.height)
		}
	}

	frame := *in.Frame
	if p.opts.nearPlane && frame.NearPlane == nil {
		frame.NearPlane = p.nearPlanes.Points(in.Camera, p.width, p.height)
	}

	params := in.ParamsFor(p.width, p.height)
	k, err := NewKernel(in.Camera, params, &frame)
	if err != nil {
		return nil, 0, err
	}

	start := time.Now()
	out := NewBuffer(p.width, p.height, 4)
	var hits atomic.Int64

	err = p.grid.Execute(ctx, p.pool, func(t parallel.Tile) {
		x0, y0, w, h := t.Bounds()
		var n int64
		for y := y0; y < y0+h; y++ {
			if ctx.Err() != nil {
				return
			}
			for x := x0; x < x0+w; x++ {
				s := k.Shade(x, y)
				if s.Hit {
					out.Set(x, y, s.Color)
					n++
				}
			}
		}
		hits.Add(n)
	})
	if err != nil {
		return nil, 0, fmt.Errorf("ssr: trace canceled: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, 0, fmt.Errorf("ssr: trace canceled: %w", err)
	}

	Logger().Debug("ssr: traced frame",
		"width", p.width,
		"height", p.height,
		"max_step", params.MaxStep,
		"hits", hits.Load(),
		"elapsed", time.Since(start))
	return out, int(hits.Load()), nil
}

// blurred returns a blurred copy of src, or src itself without a blur.
func (p *SoftwarePass) blurred(src *Buffer) *Buffer {
	if p.blur == nil {
		return src
	}
	dst := NewBuffer(src.Width, src.Height, src.Channels)
	p.blur.Apply(src.Pix, dst.Pix, src.Width, src.Height, src.Channels)
	return dst
}

// Release closes the worker pool if the pass created it.
func (p *SoftwarePass) Release() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.released {
		return
	}
	p.released = true
	if p.ownPool {
		p.pool.Close()
	}
	p.nearPlanes.Clear()
	Logger().Info("ssr: software pass released")
}
