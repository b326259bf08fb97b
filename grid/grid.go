// Copyright © 2025 Tilemason contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: grid/grid.go
// Summary: Shared multi-layer tile buffer with per-layer dirty flags.
// Usage: Written by the editor, read concurrently by the render worker.

package grid

import (
	"fmt"
	"log"
	"sync/atomic"
)

const (
	// Layers is the fixed number of tile layers in every map.
	Layers = 10

	// Empty marks a cell with no tile.
	Empty int32 = -1
)

// Debug enables logging of rejected out-of-bounds accesses.
var Debug bool

// HAlign selects the horizontal anchor used when resizing.
type HAlign int

const (
	AlignLeft HAlign = iota
	AlignCenter
	AlignRight
)

// VAlign selects the vertical anchor used when resizing.
type VAlign int

const (
	AlignTop VAlign = iota
	AlignMiddle
	AlignBottom
)

// buffer is one immutable-dimension generation of the grid. Cell values
// mutate in place through atomic word ops; a resize swaps in a whole new
// generation so concurrent readers never see mismatched dimensions.
type buffer struct {
	w, h  int
	cells []int32
}

func newBuffer(w, h int) *buffer {
	cells := make([]int32, Layers*w*h)
	for i := range cells {
		cells[i] = Empty
	}
	return &buffer{w: w, h: h, cells: cells}
}

func (b *buffer) index(layer, x, y int) int {
	return layer*b.h*b.w + y*b.w + x
}

func (b *buffer) contains(layer, x, y int) bool {
	return layer >= 0 && layer < Layers && x >= 0 && x < b.w && y >= 0 && y < b.h
}

// Shared is the tile grid shared between the editor thread and the
// render worker. Single cell accesses are atomic; multi-cell operations
// guarantee freshness through the dirty flags, not cross-cell atomicity.
type Shared struct {
	buf   atomic.Pointer[buffer]
	dirty [Layers]atomic.Bool
}

// New allocates a grid of the given dimensions with every cell empty.
func New(width, height int) (*Shared, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("grid: invalid dimensions %dx%d", width, height)
	}
	g := &Shared{}
	g.buf.Store(newBuffer(width, height))
	return g, nil
}

// Size returns the current width and height.
func (g *Shared) Size() (int, int) {
	b := g.buf.Load()
	return b.w, b.h
}

// Get returns the tile at (layer, x, y), or Empty when out of range.
func (g *Shared) Get(layer, x, y int) int32 {
	b := g.buf.Load()
	if !b.contains(layer, x, y) {
		return Empty
	}
	return atomic.LoadInt32(&b.cells[b.index(layer, x, y)])
}

// Set writes one cell and marks the layer dirty. Out-of-range
// coordinates are a no-op. Reports whether the stored value changed.
func (g *Shared) Set(layer, x, y int, value int32) bool {
	b := g.buf.Load()
	if !b.contains(layer, x, y) {
		if Debug {
			log.Printf("Grid: Set out of range layer=%d x=%d y=%d", layer, x, y)
		}
		return false
	}
	idx := b.index(layer, x, y)
	old := atomic.SwapInt32(&b.cells[idx], value)
	g.dirty[layer].Store(true)
	return old != value
}

// UpdateRegion applies a rectangular patch anchored at (x, y), clipping
// to the grid bounds. Cells falling outside are dropped silently. The
// layer is marked dirty only if at least one cell changed.
func (g *Shared) UpdateRegion(layer, x, y int, tiles [][]int32) bool {
	if layer < 0 || layer >= Layers {
		return false
	}
	b := g.buf.Load()
	changed := false
	for dy, row := range tiles {
		ty := y + dy
		if ty < 0 || ty >= b.h {
			continue
		}
		for dx, v := range row {
			tx := x + dx
			if tx < 0 || tx >= b.w {
				continue
			}
			idx := b.index(layer, tx, ty)
			if atomic.SwapInt32(&b.cells[idx], v) != v {
				changed = true
			}
		}
	}
	if changed {
		g.dirty[layer].Store(true)
	}
	return changed
}

// Fill sets every cell of one layer to value.
func (g *Shared) Fill(layer int, value int32) {
	if layer < 0 || layer >= Layers {
		return
	}
	b := g.buf.Load()
	base := layer * b.h * b.w
	for i := 0; i < b.h*b.w; i++ {
		atomic.StoreInt32(&b.cells[base+i], value)
	}
	g.dirty[layer].Store(true)
}

// CountNonEmpty returns the number of occupied cells on one layer.
func (g *Shared) CountNonEmpty(layer int) int {
	if layer < 0 || layer >= Layers {
		return 0
	}
	b := g.buf.Load()
	base := layer * b.h * b.w
	n := 0
	for i := 0; i < b.h*b.w; i++ {
		if atomic.LoadInt32(&b.cells[base+i]) != Empty {
			n++
		}
	}
	return n
}

// Resize reallocates the grid to the new dimensions, copying the
// overlapping content according to the alignment anchors. Content
// outside the new canvas is dropped. All layers are marked dirty.
func (g *Shared) Resize(width, height int, ha HAlign, va VAlign) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("grid: invalid dimensions %dx%d", width, height)
	}
	old := g.buf.Load()
	next := newBuffer(width, height)

	dx := alignOffset(old.w, width, int(ha))
	dy := alignOffset(old.h, height, int(va))

	for layer := 0; layer < Layers; layer++ {
		for y := 0; y < old.h; y++ {
			ty := y + dy
			if ty < 0 || ty >= height {
				continue
			}
			for x := 0; x < old.w; x++ {
				tx := x + dx
				if tx < 0 || tx >= width {
					continue
				}
				v := atomic.LoadInt32(&old.cells[old.index(layer, x, y)])
				next.cells[next.index(layer, tx, ty)] = v
			}
		}
	}

	g.buf.Store(next)
	g.MarkAllDirty()
	return nil
}

// alignOffset maps left/center/right (or top/middle/bottom) to the
// destination offset of the old content inside the new extent.
func alignOffset(oldDim, newDim, anchor int) int {
	switch anchor {
	case 1:
		return (newDim - oldDim) / 2
	case 2:
		return newDim - oldDim
	default:
		return 0
	}
}

// MarkDirty flags one layer as stale.
func (g *Shared) MarkDirty(layer int) {
	if layer >= 0 && layer < Layers {
		g.dirty[layer].Store(true)
	}
}

// MarkAllDirty flags every layer as stale.
func (g *Shared) MarkAllDirty() {
	for i := range g.dirty {
		g.dirty[i].Store(true)
	}
}

// TakeDirty atomically clears and returns one layer's dirty flag. The
// render worker calls this exactly once per frame per layer, so a
// concurrent edit either lands before the exchange (and is covered by
// the rebuild) or re-sets the flag for the next frame.
func (g *Shared) TakeDirty(layer int) bool {
	if layer < 0 || layer >= Layers {
		return false
	}
	return g.dirty[layer].Swap(false)
}

// Dirty reports the flag without clearing it.
func (g *Shared) Dirty(layer int) bool {
	if layer < 0 || layer >= Layers {
		return false
	}
	return g.dirty[layer].Load()
}

// LayerData returns a copy of one layer in row-major order.
func (g *Shared) LayerData(layer int) []int32 {
	b := g.buf.Load()
	if layer < 0 || layer >= Layers {
		return nil
	}
	out := make([]int32, b.w*b.h)
	base := layer * b.h * b.w
	for i := range out {
		out[i] = atomic.LoadInt32(&b.cells[base+i])
	}
	return out
}

// SetLayerData replaces one layer from a row-major slice. Slices longer
// than the layer are truncated, shorter ones leave the remainder empty.
func (g *Shared) SetLayerData(layer int, data []int32) {
	if layer < 0 || layer >= Layers {
		return
	}
	b := g.buf.Load()
	size := b.w * b.h
	base := layer * size
	for i := 0; i < size; i++ {
		v := Empty
		if i < len(data) {
			v = data[i]
		}
		atomic.StoreInt32(&b.cells[base+i], v)
	}
	g.dirty[layer].Store(true)
}
