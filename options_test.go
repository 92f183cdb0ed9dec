package ssr_test

import (
	"context"
	"testing"

	"github.com/gogpu/ssr"
)

func TestWithPool_SharedPoolSurvivesRelease(t *testing.T) {
	pool := ssr.NewWorkerPool(2)
	defer pool.Close()

	const w, h = 40, 30
	in := mirrorInputs(w, h)

	first, err := ssr.NewSoftwarePass(w, h, ssr.WithPool(pool))
	if err != nil {
		t.Fatalf("NewSoftwarePass() = %v", err)
	}
	want, err := first.Execute(context.Background(), in)
	if err != nil {
		t.Fatalf("Execute() = %v", err)
	}
	first.Release()

	if !pool.IsRunning() {
		t.Fatal("shared pool closed by Release")
	}

	second := newSoftwarePass(t, w, h, ssr.WithPool(pool))
	got, err := second.Execute(context.Background(), in)
	if err != nil {
		t.Fatalf("Execute() on second pass = %v", err)
	}
	if got.Hits != want.Hits {
		t.Errorf("Hits = %d, want %d", got.Hits, want.Hits)
	}
}

func TestWithBlur(t *testing.T) {
	const w, h = 40, 30
	in := mirrorInputs(w, h)

	plain := newSoftwarePass(t, w, h, ssr.WithWorkers(1))
	blurred := newSoftwarePass(t, w, h, ssr.WithWorkers(1), ssr.WithBlur(2))

	a, err := plain.Execute(context.Background(), in)
	if err != nil {
		t.Fatalf("Execute() = %v", err)
	}
	b, err := blurred.Execute(context.Background(), in)
	if err != nil {
		t.Fatalf("Execute() with blur = %v", err)
	}

	if a.Layer != a.Reflection {
		t.Error("Layer without blur should be the raw reflection")
	}
	want := ssr.Blur(a.Reflection, 2)
	for i := range want.Pix {
		if d := want.Pix[i] - b.Layer.Pix[i]; d > 1e-5 || d < -1e-5 {
			t.Fatalf("Layer.Pix[%d] = %v, want %v", i, b.Layer.Pix[i], want.Pix[i])
		}
	}
}

func TestNearPlaneCache(t *testing.T) {
	cam := ssr.NewPerspectiveCamera(1, 4.0/3, 0.1, 100)
	other := ssr.NewPerspectiveCamera(0.8, 4.0/3, 0.1, 100)

	c := ssr.NewNearPlaneCache(2)
	a := c.Points(cam, 8, 6)
	if b := c.Points(cam, 8, 6); b != a {
		t.Error("Points() rebuilt buffer for the same camera")
	}
	if b := c.Points(other, 8, 6); b == a {
		t.Error("Points() reused buffer for a different camera")
	}
	if b := c.Points(cam, 4, 3); b.Width != 4 || b.Height != 3 {
		t.Errorf("Points() size = %dx%d, want 4x3", b.Width, b.Height)
	}
	if got := c.Len(); got != 2 {
		t.Errorf("Len() = %d, want 2", got)
	}

	c.Clear()
	if got := c.Len(); got != 0 {
		t.Errorf("Len() after Clear = %d, want 0", got)
	}
}
