// Copyright © 2025 Tilemason contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: render/viewport.go
// Summary: Maps the view transform and canvas size to the visible tile
// rectangle, with a lookahead margin for smooth panning.

package render

import (
	"math"

	"github.com/tilemason/tilemason/geom"
	"github.com/tilemason/tilemason/protocol"
)

// viewportMargin is the lookahead ring of tiles rendered beyond the
// visible edge so small pans reuse the cache.
const viewportMargin = 2

// Viewport is the tile rectangle currently worth rendering.
type Viewport struct {
	Rect geom.Rect
	// Changed is set when the last recompute produced a different
	// rectangle. It drives cache invalidation; dirty-flag rebuilds are
	// independent of it.
	Changed bool
}

// Update recomputes the viewport. tileW/tileH are tile pixel metrics,
// mapW/mapH the grid dimensions in tiles.
func (v *Viewport) Update(t protocol.Transform, canvasW, canvasH, tileW, tileH, mapW, mapH int) {
	stepX := float64(tileW) * t.Zoom
	stepY := float64(tileH) * t.Zoom
	if stepX <= 0 || stepY <= 0 {
		return
	}

	r := geom.Rect{
		MinX: int(math.Floor(-t.OffsetX/stepX)) - viewportMargin,
		MinY: int(math.Floor(-t.OffsetY/stepY)) - viewportMargin,
		MaxX: int(math.Ceil((float64(canvasW)-t.OffsetX)/stepX)) + viewportMargin,
		MaxY: int(math.Ceil((float64(canvasH)-t.OffsetY)/stepY)) + viewportMargin,
	}
	r = r.Intersect(geom.Rect{MinX: 0, MinY: 0, MaxX: mapW - 1, MaxY: mapH - 1})

	v.Changed = r != v.Rect
	v.Rect = r
}
