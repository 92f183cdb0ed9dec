package gbuffer

import (
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"

	"github.com/mrjoshuak/go-openexr/exr"
	"github.com/mrjoshuak/go-openexr/exrutil"

	"github.com/gogpu/ssr"
)

// EXR channel names of a G-buffer file.
const (
	ChannelDepth     = "Z"
	ChannelMetalness = "metalness"
)

var (
	colorChannels  = [4]string{"R", "G", "B", "A"}
	normalChannels = [3]string{"N.X", "N.Y", "N.Z"}
)

// plane is one float channel in top-down row order.
type plane struct {
	name string
	data []float32
}

// extractPlane copies channel c of b into a top-down plane, applying fn to
// every value when it is non-nil.
func extractPlane(b *ssr.Buffer, c int, name string, fn func(float32) float32) plane {
	data := make([]float32, b.Width*b.Height)
	for y := 0; y < b.Height; y++ {
		row := (b.Height - 1 - y) * b.Width
		for x := 0; x < b.Width; x++ {
			v := b.Pix[(y*b.Width+x)*b.Channels+c]
			if fn != nil {
				v = fn(v)
			}
			data[row+x] = v
		}
	}
	return plane{name: name, data: data}
}

// insertPlane copies a top-down plane into channel c of b.
func insertPlane(b *ssr.Buffer, c int, data []float32, fn func(float32) float32) {
	for y := 0; y < b.Height; y++ {
		row := (b.Height - 1 - y) * b.Width
		for x := 0; x < b.Width; x++ {
			v := data[row+x]
			if fn != nil {
				v = fn(v)
			}
			b.Pix[(y*b.Width+x)*b.Channels+c] = v
		}
	}
}

func unpackNormal(v float32) float32 { return v*2 - 1 }
func packNormal(v float32) float32   { return v*0.5 + 0.5 }

// framePlanes returns the EXR channels of frame.
func framePlanes(frame *ssr.Frame) []plane {
	var planes []plane
	for c := 0; c < frame.Color.Channels && c < 4; c++ {
		planes = append(planes, extractPlane(frame.Color, c, colorChannels[c], nil))
	}
	for c, name := range normalChannels {
		planes = append(planes, extractPlane(frame.Normal, c, name, unpackNormal))
	}
	planes = append(planes, extractPlane(frame.Depth, 0, ChannelDepth, nil))
	if frame.Metalness != nil {
		planes = append(planes, extractPlane(frame.Metalness, 0, ChannelMetalness, nil))
	}
	return planes
}

// EncodeEXR writes frame as a float OpenEXR G-buffer.
func EncodeEXR(w io.WriteSeeker, frame *ssr.Frame) error {
	if frame == nil {
		return fmt.Errorf("%w: frame", ssr.ErrMissingBuffer)
	}
	if err := frame.Validate(false); err != nil {
		return err
	}
	width, height := frame.Size()
	if width == 0 || height == 0 {
		return fmt.Errorf("%w: %dx%d", ssr.ErrInvalidSize, width, height)
	}
	return writePlanes(w, width, height, framePlanes(frame))
}

func writePlanes(w io.WriteSeeker, width, height int, planes []plane) error {
	h := exr.NewScanlineHeader(width, height)
	h.SetCompression(exr.CompressionZIP)

	channels := exr.NewChannelList()
	fb := exr.NewFrameBuffer()
	for _, p := range planes {
		channels.Add(exr.Channel{Name: p.name, Type: exr.PixelTypeFloat, XSampling: 1, YSampling: 1})
		fb.Set(p.name, exr.NewSliceFromFloat32(p.data, width, height))
	}
	h.SetChannels(channels)

	sw, err := exr.NewScanlineWriter(w, h)
	if err != nil {
		return fmt.Errorf("gbuffer: create EXR writer: %w", err)
	}
	sw.SetFrameBuffer(fb)
	if err := sw.WritePixels(int(h.DataWindow().Min.Y), int(h.DataWindow().Max.Y)); err != nil {
		return fmt.Errorf("gbuffer: write EXR pixels: %w", err)
	}
	return sw.Close()
}

// SaveEXR writes frame to an OpenEXR file.
func SaveEXR(path string, frame *ssr.Frame) error {
	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("gbuffer: create file: %w", err)
	}
	if err := EncodeEXR(f, frame); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// LoadEXR reads a G-buffer written by SaveEXR or any renderer that uses the
// same channel names. Color alpha defaults to 1 and metalness is optional.
func LoadEXR(path string) (*ssr.Frame, error) {
	f, err := exr.OpenFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("gbuffer: open EXR: %w", err)
	}
	defer f.Close()

	h := f.Header(0)
	width, height := h.Width(), h.Height()
	cl := h.Channels()
	has := func(name string) bool { return cl != nil && cl.Get(name) != nil }

	required := append(append([]string{}, colorChannels[:3]...), normalChannels[:]...)
	required = append(required, ChannelDepth)
	for _, name := range required {
		if !has(name) {
			return nil, fmt.Errorf("%w: EXR channel %q", ssr.ErrMissingBuffer, name)
		}
	}

	read := func(dst *ssr.Buffer, c int, name string, fn func(float32) float32) error {
		data, err := exrutil.ExtractChannel(f, name)
		if err != nil {
			return fmt.Errorf("gbuffer: read channel %q: %w", name, err)
		}
		insertPlane(dst, c, data, fn)
		return nil
	}

	frame := &ssr.Frame{
		Color:  ssr.NewBuffer(width, height, 4),
		Normal: ssr.NewBuffer(width, height, 3),
		Depth:  ssr.NewBuffer(width, height, 1),
	}
	frame.Color.Fill(ssr.RGBA{A: 1})
	for c := 0; c < 4; c++ {
		if c == 3 && !has(colorChannels[3]) {
			continue
		}
		if err := read(frame.Color, c, colorChannels[c], nil); err != nil {
			return nil, err
		}
	}
	for c, name := range normalChannels {
		if err := read(frame.Normal, c, name, packNormal); err != nil {
			return nil, err
		}
	}
	if err := read(frame.Depth, 0, ChannelDepth, nil); err != nil {
		return nil, err
	}
	if has(ChannelMetalness) {
		frame.Metalness = ssr.NewBuffer(width, height, 1)
		if err := read(frame.Metalness, 0, ChannelMetalness, nil); err != nil {
			return nil, err
		}
	}

	ssr.Logger().Debug("gbuffer: loaded EXR",
		"path", path,
		"width", width,
		"height", height,
		"metalness", frame.Metalness != nil)
	return frame, nil
}

// toEXRImage converts b to an RGBA EXR image. Single-channel buffers become
// gray.
func toEXRImage(b *ssr.Buffer) *exr.RGBAImage {
	img := exr.NewRGBAImage(image.Rect(0, 0, b.Width, b.Height))
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			c := b.At(x, y)
			img.SetRGBA(x, b.Height-1-y, float32(c.R), float32(c.G), float32(c.B), float32(c.A))
		}
	}
	return img
}

// fromEXRImage converts a decoded EXR image without 8-bit quantization.
func fromEXRImage(img *exr.RGBAImage, channels int) *ssr.Buffer {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	out := ssr.NewBuffer(w, h, channels)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, a := img.RGBA(x+img.Rect.Min.X, y+img.Rect.Min.Y)
			c := ssr.RGBA{R: float64(r), G: float64(g), B: float64(b), A: float64(a)}
			if channels == 1 {
				out.Pix[(h-1-y)*w+x] = r
				continue
			}
			out.Set(x, h-1-y, c)
		}
	}
	return out
}
