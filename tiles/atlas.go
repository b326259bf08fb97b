// Copyright © 2025 Tilemason contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: tiles/atlas.go
// Summary: Tilemap atlas: decodes the tile sheet once and serves
// per-index sub-rasters to the brush manager and render worker.

package tiles

import (
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"os"

	"github.com/tilemason/tilemason/grid"
)

// Atlas slices a tile sheet into fixed-size tiles addressed by index,
// left to right, top to bottom. It is immutable after construction, so
// the render worker may read it without locking.
type Atlas struct {
	img   *image.RGBA
	tileW int
	tileH int
	cols  int
	rows  int
}

// Load reads a PNG tile sheet from disk.
func Load(path string, tileW, tileH int) (*Atlas, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("tiles: open atlas: %w", err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("tiles: decode atlas %s: %w", path, err)
	}
	return FromImage(img, tileW, tileH)
}

// FromImage slices an already decoded image.
func FromImage(src image.Image, tileW, tileH int) (*Atlas, error) {
	if tileW <= 0 || tileH <= 0 {
		return nil, fmt.Errorf("tiles: invalid tile size %dx%d", tileW, tileH)
	}
	bounds := src.Bounds()
	cols := bounds.Dx() / tileW
	rows := bounds.Dy() / tileH
	if cols == 0 || rows == 0 {
		return nil, fmt.Errorf("tiles: atlas %dx%d smaller than one %dx%d tile",
			bounds.Dx(), bounds.Dy(), tileW, tileH)
	}

	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), src, bounds.Min, draw.Src)

	return &Atlas{img: rgba, tileW: tileW, tileH: tileH, cols: cols, rows: rows}, nil
}

// Count returns the number of tiles in the sheet.
func (a *Atlas) Count() int { return a.cols * a.rows }

// Columns returns the sheet width in tiles.
func (a *Atlas) Columns() int { return a.cols }

// Rows returns the sheet height in tiles.
func (a *Atlas) Rows() int { return a.rows }

// TileSize returns the pixel dimensions of one tile.
func (a *Atlas) TileSize() (int, int) { return a.tileW, a.tileH }

// Tile returns the sub-raster for one tile index, or nil when the index
// is out of range or empty.
func (a *Atlas) Tile(index int32) *image.RGBA {
	if index < 0 || int(index) >= a.Count() {
		return nil
	}
	col := int(index) % a.cols
	row := int(index) / a.cols
	r := image.Rect(col*a.tileW, row*a.tileH, (col+1)*a.tileW, (row+1)*a.tileH)
	return a.img.SubImage(r).(*image.RGBA)
}

// ComposePreview renders a brush tile pattern into a standalone raster,
// compositing each non-empty cell's source tile. Used for custom brush
// previews in the palette.
func (a *Atlas) ComposePreview(pattern [][]int32) *image.RGBA {
	h := len(pattern)
	w := 0
	if h > 0 {
		w = len(pattern[0])
	}
	if w == 0 || h == 0 {
		return image.NewRGBA(image.Rect(0, 0, a.tileW, a.tileH))
	}

	out := image.NewRGBA(image.Rect(0, 0, w*a.tileW, h*a.tileH))
	for y, row := range pattern {
		for x, idx := range row {
			if idx == grid.Empty {
				continue
			}
			src := a.Tile(idx)
			if src == nil {
				continue
			}
			dst := image.Rect(x*a.tileW, y*a.tileH, (x+1)*a.tileW, (y+1)*a.tileH)
			draw.Draw(out, dst, src, src.Bounds().Min, draw.Over)
		}
	}
	return out
}
