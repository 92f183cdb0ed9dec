package ssr

import "github.com/gogpu/ssr/internal/parallel"

// Option configures a pass during creation.
//
// Example:
//
//	// Default: GOMAXPROCS workers, no blur
//	p, err := ssr.NewSoftwarePass(800, 600)
//
//	// Blurred layer, precomputed near-plane rays, 4 workers
//	p, err := ssr.NewSoftwarePass(800, 600,
//		ssr.WithBlur(2),
//		ssr.WithNearPlanePoints(),
//		ssr.WithWorkers(4))
type Option func(*passOptions)

type passOptions struct {
	workers    int
	pool       *parallel.WorkerPool
	blurRadius int
	nearPlane  bool
}

func defaultOptions() passOptions {
	return passOptions{
		workers: 0, // GOMAXPROCS
	}
}

// WithWorkers sets the number of goroutines rendering tiles.
// 1 renders on the calling goroutine. 0 or negative uses GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *passOptions) {
		o.workers = n
	}
}

// WorkerPool is a pool of goroutines that several passes can share.
type WorkerPool = parallel.WorkerPool

// NewWorkerPool starts a pool with n workers. Zero or negative uses
// GOMAXPROCS. The caller closes it after releasing the passes using it.
func NewWorkerPool(n int) *WorkerPool { return parallel.NewWorkerPool(n) }

// WithPool shares an existing worker pool instead of creating one.
// The pass does not close a shared pool on Release.
func WithPool(pool *WorkerPool) Option {
	return func(o *passOptions) {
		o.pool = pool
	}
}

// WithBlur enables a box blur of the given radius on the reflection layer
// before compositing. Radius 2 gives the 5x5 box.
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
