// Package color converts float buffers between linear light and the sRGB
// transfer curve.
//
// Reflection layers and EXR G-buffers hold linear values. 8-bit display
// formats expect sRGB-encoded values, so the demo encodes before writing
// them and decodes 8-bit color inputs after reading.
package color
