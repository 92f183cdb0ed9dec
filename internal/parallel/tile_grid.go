package parallel

import "context"

// TileGrid covers an image with tiles in row-major order.
//
// Thread safety: TileGrid is NOT thread-safe. Resize must not race with
// Execute.
type TileGrid struct {
	tiles  []Tile
	tilesX int
	tilesY int
	width  int
	height int
}

// NewTileGrid creates a grid for the given image size.
// Non-positive sizes yield an empty grid.
func NewTileGrid(width, height int) *TileGrid {
	g := &TileGrid{}
	g.Resize(width, height)
	return g
}

// Resize rebuilds the grid. Same dimensions are a no-op.
func (g *TileGrid) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		*g = TileGrid{}
		return
	}
	if g.width == width && g.height == height {
		return
	}

	g.width, g.height = width, height
	g.tilesX = (width + TileWidth - 1) / TileWidth
	g.tilesY = (height + TileHeight - 1) / TileHeight
	g.tiles = make([]Tile, 0, g.tilesX*g.tilesY)

	for ty := range g.tilesY {
		for tx := range g.tilesX {
			g.tiles = append(g.tiles, Tile{
				X:      tx,
				Y:      ty,
				Width:  min(TileWidth, width-tx*TileWidth),
				Height: min(TileHeight, height-ty*TileHeight),
			})
		}
	}
}

// Width returns the image width in pixels.
func (g *TileGrid) Width() int { return g.width }

// Height returns the image height in pixels.
func (g *TileGrid) Height() int { return g.height }

// TilesX returns the number of tile columns.
func (g *TileGrid) TilesX() int { return g.tilesX }

// TilesY returns the number of tile rows.
func (g *TileGrid) TilesY() int { return g.tilesY }

// TileCount returns the total number of tiles.
func (g *TileGrid) TileCount() int { return len(g.tiles) }

// Execute runs fn for every tile on pool and waits. A nil pool runs the
// tiles on the calling goroutine.
func (g *TileGrid) Execute(ctx context.Context, pool *WorkerPool, fn func(Tile)) error {
	if pool == nil {
		for _, t := range g.tiles {
			if err := ctx.Err(); err != nil {
				return err
			}
			fn(t)
		}
		return nil
	}

	work := make([]func(), len(g.tiles))
	for i, t := range g.tiles {
		work[i] = func() { fn(t) }
	}
	return pool.ExecuteAll(ctx, work)
}
