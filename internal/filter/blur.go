package filter

import "sync"

// BoxBlur averages each pixel with its (2*Radius+1)² neighborhood.
type BoxBlur struct {
	// Radius is the half-width of the box. Zero copies the input.
	Radius int
}

// NewBoxBlur creates a box blur with the given radius.
func NewBoxBlur(radius int) *BoxBlur {
	return &BoxBlur{Radius: radius}
}

// Apply blurs src into dst. Both hold width*height*channels values and may
// not alias.
//
// The filter runs as two 1D passes:
//  1. Horizontal pass: src -> temp
//  2. Vertical pass: temp -> dst
func (f *BoxBlur) Apply(src, dst []float32, width, height, channels int) {
	n := width * height * channels
	if width <= 0 || height <= 0 || channels <= 0 || len(src) < n || len(dst) < n {
		return
	}
	if f.Radius <= 0 {
		copy(dst[:n], src[:n])
		return
	}

	temp := getTempBuffer(n)
	defer putTempBuffer(temp)

	boxHorizontal(src, temp, width, height, channels, f.Radius)
	boxVertical(temp, dst, width, height, channels, f.Radius)
}

func boxHorizontal(src, dst []float32, width, height, channels, radius int) {
	scale := 1 / float32(2*radius+1)
	for y := 0; y < height; y++ {
		row := y * width
		for x := 0; x < width; x++ {
			out := (row + x) * channels
			for c := 0; c < channels; c++ {
				var sum float32
				for k := -radius; k <= radius; k++ {
					kx := clampInt(x+k, 0, width-1)
					sum += src[(row+kx)*channels+c]
				}
				dst[out+c] = sum * scale
			}
		}
	}
}

func boxVertical(src, dst []float32, width, height, channels, radius int) {
	scale := 1 / float32(2*radius+1)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			out := (y*width + x) * channels
			for c := 0; c < channels; c++ {
				var sum float32
				for k := -radius; k <= radius; k++ {
					ky := clampInt(y+k, 0, height-1)
					sum += src[(ky*width+x)*channels+c]
				}
				dst[out+c] = sum * scale
			}
		}
	}
}

// floatBuffer wraps a slice for sync.Pool to avoid allocation warnings.
type floatBuffer struct {
	data []float32
}

var tempBufferPool = sync.Pool{
	New: func() any {
		return &floatBuffer{}
	},
}

// getTempBuffer returns a buffer of exactly size elements.
func getTempBuffer(size int) []float32 {
	wrapper := tempBufferPool.Get().(*floatBuffer)
	if cap(wrapper.data) < size {
		tempBufferPool.Put(wrapper)
		return make([]float32, size)
	}
	return wrapper.data[:size]
}

func putTempBuffer(buf []float32) {
	// 4K RGBA is the largest buffer worth keeping.
	if cap(buf) <= 3840*2160*4 {
		tempBufferPool.Put(&floatBuffer{data: buf[:cap(buf)]})
	}
}

// clampInt clamps v to [minVal, maxVal].
func clampInt(v, minVal, maxVal int) int {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}
