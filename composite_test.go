package ssr

import (
	"errors"
	"testing"
)

func TestComposite(t *testing.T) {
	color := NewBuffer(2, 1, 3)
	color.Set(0, 0, RGB(0, 0, 1))
	color.Set(1, 0, RGB(0, 1, 0))

	layer := NewBuffer(2, 1, 4)
	layer.Set(0, 0, RGBA{R: 1, A: 0.5})

	display := Composite(color, layer)
	if display.Channels != 4 {
		t.Fatalf("channels = %d, want 4", display.Channels)
	}
	if got, want := display.At(0, 0), (RGBA{R: 0.5, B: 0.5, A: 1}); !got.Approx(want, 1e-6) {
		t.Errorf("blended pixel = %+v, want %+v", got, want)
	}
	if got, want := display.At(1, 0), RGB(0, 1, 0); !got.Approx(want, 1e-6) {
		t.Errorf("untouched pixel = %+v, want %+v", got, want)
	}
	if color.Channels != 3 || color.At(0, 0) != RGB(0, 0, 1) {
		t.Error("Composite modified the color buffer")
	}
}

func TestBlur(t *testing.T) {
	src := NewBuffer(5, 5, 1)
	src.Pix[12] = 25

	dst := Blur(src, 2)
	for i, v := range dst.Pix {
		if v < 0.999 || v > 1.001 {
			t.Fatalf("dst.Pix[%d] = %v, want 1", i, v)
		}
	}
	if src.Pix[12] != 25 {
		t.Error("Blur modified its input")
	}
}

func TestCountHits(t *testing.T) {
	layer := NewBuffer(3, 1, 4)
	layer.Set(0, 0, RGBA{R: 1, A: 0.25})
	layer.Set(2, 0, RGBA{G: 1, A: 1})

	if got := CountHits(layer); got != 2 {
		t.Errorf("CountHits = %d, want 2", got)
	}
	if got := CountHits(NewBuffer(3, 1, 1)); got != 0 {
		t.Errorf("CountHits(1 channel) = %d, want 0", got)
	}
}

func TestFrameInputsValidate(t *testing.T) {
	cam := NewPerspectiveCamera(1, 1, 0.1, 10)
	params := DefaultParams()
	params.PerspectiveCamera = true
	params.MaxStep = MaxStepFor(4, 4)
	frame := &Frame{
		Color:  NewBuffer(4, 4, 4),
		Normal: NewBuffer(4, 4, 3),
		Depth:  NewBuffer(4, 4, 1),
	}

	var nilInputs *FrameInputs
	orthoParams := params
	orthoParams.PerspectiveCamera = false

	tests := []struct {
		name string
		in   *FrameInputs
		want error
	}{
		{"valid", &FrameInputs{Frame: frame, Camera: cam, Params: params}, nil},
		{"nil", nilInputs, ErrMissingBuffer},
		{"no frame", &FrameInputs{Camera: cam, Params: params}, ErrMissingBuffer},
		{"camera mismatch", &FrameInputs{Frame: frame, Camera: cam, Params: orthoParams}, ErrInvalidParams},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.in.Validate()
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestFrameInputsParamsFor(t *testing.T) {
	tests := []struct {
		name  string
		stale int
		w, h  int
		want  int
	}{
		{"zero", 0, 400, 300, 500},
		{"stale after resize", MaxStepFor(40, 30), 400, 300, 500},
		{"too large", 5000, 800, 600, 1000},
		{"empty pass", 100, 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := &FrameInputs{Params: DefaultParams()}
			in.Params.MaxStep = tt.stale
			got := in.ParamsFor(tt.w, tt.h)
			if got.MaxStep != tt.want {
				t.Errorf("MaxStep = %d, want %d", got.MaxStep, tt.want)
			}
			if in.Params.MaxStep != tt.stale {
				t.Error("ParamsFor modified the inputs")
			}
			got.MaxStep = tt.stale
			if got != in.Params {
				t.Error("ParamsFor changed fields other than MaxStep")
			}
		})
	}
}
