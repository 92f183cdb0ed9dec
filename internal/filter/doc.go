// Package filter provides the denoise filter applied to reflection layers.
//
// Images are interleaved float32 slices with a channel count of 1 to 4.
// Filters are separable and clamp samples to the image edge, so a radius-2
// box matches a 5x5 texture-space average with clamp-to-edge addressing.
package filter
