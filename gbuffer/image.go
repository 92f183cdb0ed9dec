package gbuffer

import (
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mrjoshuak/go-openexr/exr"
	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"

	"github.com/gogpu/ssr"
	"github.com/gogpu/ssr/internal/color"
)

// ErrUnsupportedFormat is returned for file extensions without a codec.
var ErrUnsupportedFormat = errors.New("gbuffer: unsupported format")

// Format identifies an image file format.
type Format int

const (
	FormatPNG Format = iota
	FormatTIFF
	FormatBMP
	FormatJPEG
	FormatEXR
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case FormatPNG:
		return "png"
	case FormatTIFF:
		return "tiff"
	case FormatBMP:
		return "bmp"
	case FormatJPEG:
		return "jpeg"
	case FormatEXR:
		return "exr"
	default:
		return "unknown"
	}
}

// FormatFromPath returns the format for the extension of path.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return FormatPNG, nil
	case ".tif", ".tiff":
		return FormatTIFF, nil
	case ".bmp":
		return FormatBMP, nil
	case ".jpg", ".jpeg":
		return FormatJPEG, nil
	case ".exr":
		return FormatEXR, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Decode decodes an 8- or 16-bit image in the given format.
func Decode(r io.Reader, format Format) (image.Image, error) {
	var (
		img image.Image
		err error
	)
	switch format {
	case FormatPNG:
		img, err = png.Decode(r)
	case FormatTIFF:
		img, err = tiff.Decode(r)
	case FormatBMP:
		img, err = bmp.Decode(r)
	case FormatJPEG:
		img, err = jpeg.Decode(r)
	default:
		return nil, fmt.Errorf("%w: decode %s", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("gbuffer: decode %s: %w", format, err)
	}
	return img, nil
}

// Encode writes img in the given format. TIFF output is deflate-compressed.
func Encode(w io.Writer, img image.Image, format Format) error {
	var err error
	switch format {
	case FormatPNG:
		err = png.Encode(w, img)
	case FormatTIFF:
		err = tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate, Predictor: true})
	case FormatBMP:
		err = bmp.Encode(w, img)
	default:
		return fmt.Errorf("%w: encode %s", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return fmt.Errorf("gbuffer: encode %s: %w", format, err)
	}
	return nil
}

// Resample scales img to width x height. Smooth selects Catmull-Rom
// filtering for color data; otherwise nearest-neighbor keeps depth and
// normal values intact.
func Resample(img image.Image, width, height int, smooth bool) image.Image {
	if b := img.Bounds(); b.Dx() == width && b.Dy() == height {
		return img
	}
	dst := image.NewNRGBA64(image.Rect(0, 0, width, height))
	var interp draw.Interpolator = draw.NearestNeighbor
	if smooth {
		interp = draw.CatmullRom
	}
	interp.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

// LoadBuffer reads a buffer with the given channel count from an image file.
// A positive width and height resample images of a different size;
// channels other than 1 are resampled smoothly.
func LoadBuffer(path string, channels, width, height int) (*ssr.Buffer, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	if format == FormatEXR {
		img, err := exr.DecodeFile(filepath.Clean(path))
		if err != nil {
			return nil, fmt.Errorf("gbuffer: decode exr: %w", err)
		}
		if width <= 0 || height <= 0 || (img.Rect.Dx() == width && img.Rect.Dy() == height) {
			return fromEXRImage(img, channels), nil
		}
		// Resampling goes through 8-bit color.
		return ssr.FromImage(Resample(img, width, height, channels != 1), channels), nil
	}

	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("gbuffer: open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	img, err := Decode(f, format)
	if err != nil {
		return nil, err
	}
	if width > 0 && height > 0 {
		img = Resample(img, width, height, channels != 1)
	}
	return ssr.FromImage(img, channels), nil
}

// SaveBuffer writes b to an image file chosen by the extension of path.
// EXR output keeps float values; other formats are 8-bit.
func SaveBuffer(path string, b *ssr.Buffer) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	if format == FormatJPEG {
		return fmt.Errorf("%w: encode %s", ErrUnsupportedFormat, format)
	}

	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("gbuffer: create file: %w", err)
	}
	if format == FormatEXR {
		err = exr.Encode(f, toEXRImage(b))
	} else {
		err = Encode(f, b.ToImage(), format)
	}
	if err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// ToSRGB returns a copy of b with its color channels encoded with the sRGB
// curve for 8-bit display formats. Alpha stays linear.
func ToSRGB(b *ssr.Buffer) *ssr.Buffer {
	out := b.Clone()
	color.Encode(out.Pix, out.Channels)
	return out
}

// ToLinear returns a copy of an sRGB-encoded buffer converted to linear
// light.
func ToLinear(b *ssr.Buffer) *ssr.Buffer {
	out := b.Clone()
	color.Decode(out.Pix, out.Channels)
	return out
}
