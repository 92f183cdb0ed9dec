package ssr

import "errors"

var (
	// ErrInvalidSize is returned for negative dimensions.
	ErrInvalidSize = errors.New("ssr: invalid size")

	// ErrSizeMismatch is returned when frame buffers or the pass resolution
	// disagree on dimensions.
	ErrSizeMismatch = errors.New("ssr: buffer size mismatch")

	// ErrMissingBuffer is returned when a required input buffer is nil, or
	// when selective mode is enabled without a metalness buffer.
	ErrMissingBuffer = errors.New("ssr: missing buffer")

	// ErrInvalidBuffer is returned when a buffer's data does not match its
	// declared shape or channel count.
	ErrInvalidBuffer = errors.New("ssr: invalid buffer")

	// ErrInvalidCamera is returned for unusable clip planes or projections.
	ErrInvalidCamera = errors.New("ssr: invalid camera")

	// ErrInvalidParams is returned when a parameter is out of range.
	ErrInvalidParams = errors.New("ssr: invalid parameter")

	// ErrReleased is returned when a pass is used after Release.
	ErrReleased = errors.New("ssr: pass released")
)
