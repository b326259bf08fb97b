// Copyright © 2025 Tilemason contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: brush/apply.go
// Summary: Applies the selected brush (or an erase square) to a grid
// layer through the 9-slice pattern resolution.

package brush

import (
	"github.com/tilemason/tilemason/geom"
	"github.com/tilemason/tilemason/grid"
)

// ApplyResult reports what an Apply call touched.
type ApplyResult struct {
	Modified bool
	Area     geom.Rect
}

// TargetArea computes the tile rectangle covered by painting at (x, y)
// with the given brush size and native brush dimensions. Each axis
// stretches to max(native, size). Odd extents center on the hovered
// cell; even extents align their top-left to it, matching the
// half-tile offset applied during coordinate conversion.
func TargetArea(x, y, size, nativeW, nativeH int) geom.Rect {
	if size < 1 {
		size = 1
	}
	w := nativeW
	if size > w {
		w = size
	}
	h := nativeH
	if size > h {
		h = size
	}

	minX := x
	if w%2 == 1 {
		minX = x - w/2
	}
	minY := y
	if h%2 == 1 {
		minY = y - h/2
	}
	return geom.Rect{MinX: minX, MinY: minY, MaxX: minX + w - 1, MaxY: minY + h - 1}
}

// Apply paints the selected brush onto one grid layer at (x, y). With
// erase set, or with no brush selected, it clears the size-square
// instead. Writes that would not change a cell are skipped so repeated
// drags over the same spot stay cheap and do not re-dirty the layer.
func (m *Manager) Apply(g geom.CellGrid, layer, x, y, size int, erase bool, opts geom.SliceOptions) ApplyResult {
	b := m.Selected()
	if erase || b == nil {
		return m.clearSquare(g, layer, x, y, size)
	}

	target := TargetArea(x, y, size, b.Width, b.Height)
	res := ApplyResult{Area: target}

	for ty := 0; ty < target.Height(); ty++ {
		for tx := 0; tx < target.Width(); tx++ {
			sx, sy := geom.SliceAt(target, b.Width, b.Height, tx, ty, opts)
			v := b.Tiles[sy][sx]
			if v == grid.Empty {
				continue
			}
			gx, gy := target.MinX+tx, target.MinY+ty
			if g.Get(layer, gx, gy) == v {
				continue
			}
			if g.Set(layer, gx, gy, v) {
				res.Modified = true
			}
		}
	}
	return res
}

func (m *Manager) clearSquare(g geom.CellGrid, layer, x, y, size int) ApplyResult {
	target := TargetArea(x, y, size, 1, 1)
	res := ApplyResult{Area: target}
	for gy := target.MinY; gy <= target.MaxY; gy++ {
		for gx := target.MinX; gx <= target.MaxX; gx++ {
			if g.Get(layer, gx, gy) == grid.Empty {
				continue
			}
			if g.Set(layer, gx, gy, grid.Empty) {
				res.Modified = true
			}
		}
	}
	return res
}
