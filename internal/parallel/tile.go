// Package parallel splits an image into tiles and processes them on a
// work-stealing goroutine pool.
//
// Tiles are 64x64 pixels; edge tiles are smaller when the image size is not
// a multiple of the tile size. Tiles never overlap, so per-tile writes into a
// shared output need no synchronization.
package parallel

// Tile size in pixels.
const (
	TileWidth  = 64
	TileHeight = 64
)

// Tile is a rectangular region of the image.
type Tile struct {
	// X and Y are the tile column and row.
	X, Y int

	// Width and Height are the actual pixel dimensions; edge tiles may be
	// smaller than TileWidth x TileHeight.
	Width, Height int
}

// Bounds returns the pixel origin and size of the tile.
func (t Tile) Bounds() (x, y, w, h int) {
	return t.X * TileWidth, t.Y * TileHeight, t.Width, t.Height
}
