// Package gbuffer loads and saves the buffers of an ssr.Frame.
//
// Full G-buffers travel as single-part OpenEXR files with 32-bit float
// channels:
//
//	R, G, B, A      color
//	N.X, N.Y, N.Z   view-space normal in [-1, 1]
//	Z               depth-buffer value in [0, 1]
//	metalness       optional selective mask
//
// Individual buffers and rendered layers can also be read from or written
// to PNG, TIFF, BMP and JPEG (read only) images.
//
// EXR and image rows are stored top-down; ssr.Buffer rows are bottom-up.
// Conversions flip rows in both directions.
package gbuffer
