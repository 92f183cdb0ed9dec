package ssr

// History is a pair of RGBA buffers for temporal accumulation.
//
// Each frame writes Current and reads Previous; Swap exchanges their roles
// once the frame is complete.
type History struct {
	bufs [2]*Buffer
	cur  int
}

// NewHistory creates a cleared history of the given size.
func NewHistory(width, height int) *History {
	return &History{bufs: [2]*Buffer{
		NewBuffer(width, height, 4),
		NewBuffer(width, height, 4),
	}}
}

// Current returns the buffer being written this frame.
func (h *History) Current() *Buffer { return h.bufs[h.cur] }

// Previous returns the buffer written by the last completed frame.
func (h *History) Previous() *Buffer { return h.bufs[1-h.cur] }

// Swap makes this frame's buffer the previous one.
func (h *History) Swap() { h.cur = 1 - h.cur }

// Reset clears both buffers.
func (h *History) Reset() {
	h.bufs[0].Clear()
	h.bufs[1].Clear()
	h.cur = 0
}

// Resize reallocates both buffers when the size changes. Resizing discards
// the accumulated history.
func (h *History) Resize(width, height int) {
	if h.bufs[0].Width == width && h.bufs[0].Height == height {
		return
	}
	*h = *NewHistory(width, height)
}
