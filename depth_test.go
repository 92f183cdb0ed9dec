package ssr

import (
	"math"
	"testing"
)

func TestDepthRoundTrip(t *testing.T) {
	const near, far = 0.1, 100

	tests := []struct {
		name    string
		toZ     func(d, n, f float64) float64
		toDepth func(z, n, f float64) float64
	}{
		{"perspective", PerspectiveDepthToViewZ, ViewZToPerspectiveDepth},
		{"orthographic", OrthographicDepthToViewZ, ViewZToOrthographicDepth},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, z := range []float64{-near, -0.5, -3, -42, -far} {
				d := tt.toDepth(z, near, far)
				if d < -1e-12 || d > 1+1e-12 {
					t.Errorf("depth(%v) = %v, outside [0,1]", z, d)
				}
				if got := tt.toZ(d, near, far); math.Abs(got-z) > 1e-9*math.Abs(z) {
					t.Errorf("viewZ(depth(%v)) = %v", z, got)
				}
			}
		})
	}
}

func TestDepthPlanes(t *testing.T) {
	const near, far = 0.5, 50
	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"perspective near", PerspectiveDepthToViewZ(0, near, far), -near},
		{"perspective far", PerspectiveDepthToViewZ(1, near, far), -far},
		{"orthographic near", OrthographicDepthToViewZ(0, near, far), -near},
		{"orthographic far", OrthographicDepthToViewZ(1, near, far), -far},
	}
	for _, tt := range tests {
		if math.Abs(tt.got-tt.want) > 1e-9 {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}

func TestLinearDepthImage(t *testing.T) {
	cam := NewPerspectiveCamera(math.Pi/3, 1, 1, 11)
	depth := NewBuffer(3, 1, 1)
	depth.Pix[0] = float32(ViewZToPerspectiveDepth(-1, cam.Near, cam.Far))
	depth.Pix[1] = float32(ViewZToPerspectiveDepth(-6, cam.Near, cam.Far))
	depth.Pix[2] = 1

	out := LinearDepthImage(depth, cam)
	want := []float64{1, 0.5, 0}
	for i, w := range want {
		if got := float64(out.Pix[i]); math.Abs(got-w) > 1e-5 {
			t.Errorf("pixel %d = %v, want %v", i, got, w)
		}
	}
}

func TestCamera_ViewPositionInvertsProjection(t *testing.T) {
	tests := []struct {
		name string
		cam  Camera
	}{
		{"perspective", NewPerspectiveCamera(math.Pi/3, 4.0/3.0, 0.1, 100)},
		{"orthographic", NewOrthographicCamera(-4, 4, 3, -3, 0.1, 100)},
	}
	const w, h = 640, 480

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := V3(0.4, -0.3, -7)
			screen := tt.cam.ScreenPosition(p, w, h)
			uv := V2(screen.X/w, screen.Y/h)
			depth := tt.cam.Depth(p.Z)
			got := tt.cam.ViewPosition(uv, depth, tt.cam.ClipW(p.Z))
			if !got.Approx(p, 1e-9) {
				t.Errorf("ViewPosition() = %v, want %v", got, p)
			}
		})
	}
}

func TestCamera_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cam     Camera
		wantErr bool
	}{
		{"perspective", NewPerspectiveCamera(1, 1, 0.1, 10), false},
		{"orthographic", NewOrthographicCamera(-1, 1, 1, -1, 0.1, 10), false},
		{"zero near", NewPerspectiveCamera(1, 1, 0, 10), true},
		{"far before near", Camera{Near: 1, Far: 0.5, Projection: Identity4()}, true},
		{"singular", Camera{Near: 0.1, Far: 10}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cam.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNearPlanePoints(t *testing.T) {
	cam := NewPerspectiveCamera(math.Pi/2, 2, 0.5, 10)
	b := NearPlanePoints(cam, 4, 2)

	for y := 0; y < 2; y++ {
		for x := 0; x < 4; x++ {
			uv := V2((float64(x)+0.5)/4, (float64(y)+0.5)/2)
			p := b.SampleVec3(uv)
			if math.Abs(p.Z+0.5) > 1e-6 {
				t.Errorf("(%d,%d) z = %v, want -near", x, y, p.Z)
			}
			// The point projects back onto its own pixel center.
			s := cam.ScreenPosition(p, 4, 2)
			if math.Abs(s.X-(float64(x)+0.5)) > 1e-4 || math.Abs(s.Y-(float64(y)+0.5)) > 1e-4 {
				t.Errorf("(%d,%d) projects to %v", x, y, s)
			}
		}
	}
}
