package color

import (
	"math"
	"testing"
)

func TestTransferRoundTrip(t *testing.T) {
	for i := 0; i <= 100; i++ {
		v := float32(i) / 100
		got := SRGBToLinear(LinearToSRGB(v))
		if math.Abs(float64(got-v)) > 1e-5 {
			t.Errorf("SRGBToLinear(LinearToSRGB(%v)) = %v", v, got)
		}
	}
}

func TestTransferKnownValues(t *testing.T) {
	tests := []struct {
		name string
		fn   func(float32) float32
		in   float32
		want float32
	}{
		{"linear black", LinearToSRGB, 0, 0},
		{"linear white", LinearToSRGB, 1, 1},
		{"linear mid", LinearToSRGB, 0.2140, 0.5},
		{"srgb mid", SRGBToLinear, 0.5, 0.2140},
		{"srgb toe", SRGBToLinear, 0.04, 0.04 / 12.92},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fn(tt.in); math.Abs(float64(got-tt.want)) > 1e-3 {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEncodeKeepsAlpha(t *testing.T) {
	pix := []float32{0.2140, 0, 1.5, 0.25, -1, 1, 0.5, 0.75}
	Encode(pix, 4)

	if pix[3] != 0.25 || pix[7] != 0.75 {
		t.Errorf("alpha changed: %v, %v", pix[3], pix[7])
	}
	if pix[2] != 1 || pix[4] != 0 {
		t.Errorf("not clamped: %v, %v", pix[2], pix[4])
	}
	if math.Abs(float64(pix[0]-0.5)) > 1.0/255 {
		t.Errorf("pix[0] = %v, want ~0.5", pix[0])
	}
}

func TestEncodeMatchesExact(t *testing.T) {
	fast := make([]float32, 3*256)
	for i := range fast {
		fast[i] = float32(i%256) / 255
	}
	exact := append([]float32(nil), fast...)

	Encode(fast, 3)
	apply(exact, 3, func(v float32) float32 { return LinearToSRGB(clamp01(v)) })
	for i := range fast {
		if math.Abs(float64(fast[i]-exact[i])) > 1.0/255+1e-6 {
			t.Fatalf("pix[%d]: fast %v, exact %v", i, fast[i], exact[i])
		}
	}
}

func TestDecodeSingleChannel(t *testing.T) {
	pix := []float32{0.5, 1}
	Decode(pix, 1)
	if math.Abs(float64(pix[0]-0.2140)) > 1e-3 || pix[1] != 1 {
		t.Errorf("Decode() = %v", pix)
	}
}

func BenchmarkEncode(b *testing.B) {
	pix := make([]float32, 4*256*256)
	for i := range pix {
		pix[i] = float32(i%1024) / 1023
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Encode(pix, 4)
	}
}
