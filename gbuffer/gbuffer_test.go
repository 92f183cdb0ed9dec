package gbuffer

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/gogpu/ssr"
	"github.com/gogpu/ssr/internal/testscene"
)

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"a.png", FormatPNG, false},
		{"dir/B.PNG", FormatPNG, false},
		{"x.tif", FormatTIFF, false},
		{"x.tiff", FormatTIFF, false},
		{"x.bmp", FormatBMP, false},
		{"x.jpeg", FormatJPEG, false},
		{"x.exr", FormatEXR, false},
		{"x.gif", 0, true},
		{"noext", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := FormatFromPath(tt.path)
			if tt.wantErr {
				if !errors.Is(err, ErrUnsupportedFormat) {
					t.Errorf("err = %v, want ErrUnsupportedFormat", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("format = %v, want %v", got, tt.want)
			}
		})
	}
}

// testBuffer returns an opaque 4x3 RGBA buffer with a distinct color per
// pixel.
func testBuffer() *ssr.Buffer {
	b := ssr.NewBuffer(4, 3, 4)
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			b.Set(x, y, ssr.RGB(float64(x)/3, float64(y)/2, 0.5))
		}
	}
	return b
}

func TestSaveLoadBuffer(t *testing.T) {
	dir := t.TempDir()
	src := testBuffer()

	tests := []struct {
		name string
		ext  string
		tol  float64
	}{
		{"png", ".png", 1.0 / 255},
		{"tiff", ".tiff", 1.0 / 255},
		{"bmp", ".bmp", 1.0 / 255},
		{"exr", ".exr", 1e-3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, "buf"+tt.ext)
			if err := SaveBuffer(path, src); err != nil {
				t.Fatalf("SaveBuffer: %v", err)
			}
			got, err := LoadBuffer(path, 4, 0, 0)
			if err != nil {
				t.Fatalf("LoadBuffer: %v", err)
			}
			if got.Width != src.Width || got.Height != src.Height {
				t.Fatalf("size = %dx%d, want %dx%d", got.Width, got.Height, src.Width, src.Height)
			}
			for y := 0; y < src.Height; y++ {
				for x := 0; x < src.Width; x++ {
					if !got.At(x, y).Approx(src.At(x, y), tt.tol+1e-9) {
						t.Errorf("(%d,%d) = %+v, want %+v", x, y, got.At(x, y), src.At(x, y))
					}
				}
			}
		})
	}
}

func TestSaveBufferJPEGUnsupported(t *testing.T) {
	err := SaveBuffer(filepath.Join(t.TempDir(), "x.jpg"), testBuffer())
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("err = %v, want ErrUnsupportedFormat", err)
	}
}

func TestLoadBufferResample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "depth.png")
	src := ssr.NewBuffer(2, 2, 1)
	copy(src.Pix, []float32{0, 1, 1, 0})
	if err := SaveBuffer(path, src); err != nil {
		t.Fatalf("SaveBuffer: %v", err)
	}

	got, err := LoadBuffer(path, 1, 4, 4)
	if err != nil {
		t.Fatalf("LoadBuffer: %v", err)
	}
	if got.Width != 4 || got.Height != 4 || got.Channels != 1 {
		t.Fatalf("buffer = %dx%dx%d, want 4x4x1", got.Width, got.Height, got.Channels)
	}
	// Nearest-neighbor keeps the 2x2 checker as 2x2 blocks.
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			want := src.Value(x/2, y/2)
			if got := got.Value(x, y); math.Abs(got-want) > 1.0/255 {
				t.Errorf("(%d,%d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestLoadBufferMissingFile(t *testing.T) {
	if _, err := LoadBuffer(filepath.Join(t.TempDir(), "missing.png"), 4, 0, 0); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestEXRFrameRoundTrip(t *testing.T) {
	scene, cam := testscene.MirrorFloor(24, 16)
	frame := scene.Render(cam, 24, 16)

	path := filepath.Join(t.TempDir(), "gbuffer.exr")
	if err := SaveEXR(path, frame); err != nil {
		t.Fatalf("SaveEXR: %v", err)
	}
	got, err := LoadEXR(path)
	if err != nil {
		t.Fatalf("LoadEXR: %v", err)
	}
	if err := got.Validate(true); err != nil {
		t.Fatalf("loaded frame invalid: %v", err)
	}

	buffers := []struct {
		name      string
		got, want *ssr.Buffer
	}{
		{"color", got.Color, frame.Color},
		{"normal", got.Normal, frame.Normal},
		{"depth", got.Depth, frame.Depth},
		{"metalness", got.Metalness, frame.Metalness},
	}
	for _, b := range buffers {
		t.Run(b.name, func(t *testing.T) {
			if !b.got.SameSize(b.want) {
				t.Fatalf("size = %dx%d, want %dx%d", b.got.Width, b.got.Height, b.want.Width, b.want.Height)
			}
			for y := 0; y < b.want.Height; y++ {
				for x := 0; x < b.want.Width; x++ {
					if !b.got.At(x, y).Approx(b.want.At(x, y), 1e-6) {
						t.Fatalf("(%d,%d) = %+v, want %+v", x, y, b.got.At(x, y), b.want.At(x, y))
					}
				}
			}
		})
	}
}

func TestLoadEXRMissingChannel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "color-only.exr")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	b := testBuffer()
	planes := []plane{
		extractPlane(b, 0, "R", nil),
		extractPlane(b, 1, "G", nil),
		extractPlane(b, 2, "B", nil),
	}
	if err := writePlanes(f, b.Width, b.Height, planes); err != nil {
		_ = f.Close()
		t.Fatalf("writePlanes: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadEXR(path); !errors.Is(err, ssr.ErrMissingBuffer) {
		t.Errorf("err = %v, want ErrMissingBuffer", err)
	}
}

func TestEncodeEXRErrors(t *testing.T) {
	empty := &ssr.Frame{
		Color:  ssr.NewBuffer(0, 0, 4),
		Normal: ssr.NewBuffer(0, 0, 3),
		Depth:  ssr.NewBuffer(0, 0, 1),
	}
	path := filepath.Join(t.TempDir(), "x.exr")

	tests := []struct {
		name  string
		frame *ssr.Frame
		want  error
	}{
		{"nil", nil, ssr.ErrMissingBuffer},
		{"no depth", &ssr.Frame{Color: ssr.NewBuffer(2, 2, 4), Normal: ssr.NewBuffer(2, 2, 3)}, ssr.ErrMissingBuffer},
		{"empty", empty, ssr.ErrInvalidSize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := SaveEXR(path, tt.frame); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestExtractInsertPlaneFlipsRows(t *testing.T) {
	b := ssr.NewBuffer(2, 2, 1)
	copy(b.Pix, []float32{1, 2, 3, 4}) // bottom row 1 2, top row 3 4

	p := extractPlane(b, 0, "Z", nil)
	want := []float32{3, 4, 1, 2}
	for i, w := range want {
		if p.data[i] != w {
			t.Errorf("plane[%d] = %v, want %v", i, p.data[i], w)
		}
	}

	back := ssr.NewBuffer(2, 2, 1)
	insertPlane(back, 0, p.data, nil)
	for i := range b.Pix {
		if back.Pix[i] != b.Pix[i] {
			t.Errorf("round trip [%d] = %v, want %v", i, back.Pix[i], b.Pix[i])
		}
	}
}

func TestToSRGBToLinear(t *testing.T) {
	b := ssr.NewBuffer(2, 1, 4)
	b.Set(0, 0, ssr.RGBA{R: 0.214, G: 0.5, B: 1, A: 0.25})
	b.Set(1, 0, ssr.RGBA{R: 0, G: 0.05, B: 0.9, A: 1})

	enc := ToSRGB(b)
	if enc == b {
		t.Fatal("ToSRGB returned its input")
	}
	if got := enc.At(0, 0); math.Abs(got.R-0.5) > 0.005 || got.A != 0.25 {
		t.Errorf("ToSRGB pixel = %+v", got)
	}
	if got := b.At(0, 0).R; math.Abs(got-0.214) > 1e-6 {
		t.Errorf("input modified: R = %v", got)
	}

	dec := ToLinear(enc)
	for i := range b.Pix {
		if d := math.Abs(float64(dec.Pix[i] - b.Pix[i])); d > 0.01 {
			t.Errorf("Pix[%d] = %v, want %v", i, dec.Pix[i], b.Pix[i])
		}
	}
}
