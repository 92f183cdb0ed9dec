package parallel

import (
	"context"
	"sync/atomic"
	"testing"
)

func TestTileGrid_Dimensions(t *testing.T) {
	tests := []struct {
		name           string
		width, height  int
		tilesX, tilesY int
	}{
		{"exact", 128, 64, 2, 1},
		{"partial edge", 130, 65, 3, 2},
		{"single pixel", 1, 1, 1, 1},
		{"empty", 0, 10, 0, 0},
		{"negative", -1, -1, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewTileGrid(tt.width, tt.height)
			if g.TilesX() != tt.tilesX || g.TilesY() != tt.tilesY {
				t.Errorf("tiles = %dx%d, want %dx%d", g.TilesX(), g.TilesY(), tt.tilesX, tt.tilesY)
			}
			if g.TileCount() != tt.tilesX*tt.tilesY {
				t.Errorf("TileCount() = %d, want %d", g.TileCount(), tt.tilesX*tt.tilesY)
			}
		})
	}
}

func TestTileGrid_CoversEveryPixelOnce(t *testing.T) {
	const w, h = 150, 97
	g := NewTileGrid(w, h)

	hits := make([]int, w*h)
	_ = g.Execute(context.Background(), nil, func(tile Tile) {
		x0, y0, tw, th := tile.Bounds()
		for y := y0; y < y0+th; y++ {
			for x := x0; x < x0+tw; x++ {
				hits[y*w+x]++
			}
		}
	})

	for i, n := range hits {
		if n != 1 {
			t.Fatalf("pixel (%d,%d) covered %d times", i%w, i/w, n)
		}
	}
}

func TestTileGrid_EdgeTile(t *testing.T) {
	g := NewTileGrid(100, 70)
	var last Tile
	_ = g.Execute(context.Background(), nil, func(tile Tile) {
		if tile.X == 1 && tile.Y == 1 {
			last = tile
		}
	})
	if x, y, w, h := last.Bounds(); x != 64 || y != 64 || w != 36 || h != 6 {
		t.Errorf("edge tile bounds = (%d,%d) %dx%d, want (64,64) 36x6", x, y, w, h)
	}
}

func TestTileGrid_Resize(t *testing.T) {
	g := NewTileGrid(64, 64)
	g.Resize(64, 64)
	if g.TileCount() != 1 {
		t.Errorf("TileCount() = %d after same-size resize", g.TileCount())
	}
	g.Resize(200, 10)
	if g.TileCount() != 4 || g.Width() != 200 || g.Height() != 10 {
		t.Errorf("after resize: %d tiles, %dx%d", g.TileCount(), g.Width(), g.Height())
	}
	g.Resize(0, 0)
	if g.TileCount() != 0 {
		t.Errorf("TileCount() = %d after zero resize", g.TileCount())
	}
}

func TestTileGrid_Execute(t *testing.T) {
	g := NewTileGrid(300, 200)
	pool := NewWorkerPool(3)
	defer pool.Close()

	for _, p := range []*WorkerPool{nil, pool} {
		var pixels atomic.Int64
		err := g.Execute(context.Background(), p, func(tile Tile) {
			pixels.Add(int64(tile.Width * tile.Height))
		})
		if err != nil {
			t.Fatalf("Execute() = %v", err)
		}
		if got := pixels.Load(); got != 300*200 {
			t.Errorf("pixels = %d, want %d", got, 300*200)
		}
	}
}
