// Copyright © 2025 Tilemason contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: grid/snapshot.go
// Summary: Deep-copy snapshots of the shared grid for undo/redo.

package grid

import "sync/atomic"

// Snapshot is an immutable deep copy of the grid at one point in time.
// It is fully independent of the live buffer.
type Snapshot struct {
	Width  int
	Height int
	Cells  []int32
}

// Snapshot captures the current grid contents.
func (g *Shared) Snapshot() *Snapshot {
	b := g.buf.Load()
	cells := make([]int32, len(b.cells))
	for i := range cells {
		cells[i] = atomic.LoadInt32(&b.cells[i])
	}
	return &Snapshot{Width: b.w, Height: b.h, Cells: cells}
}

// Restore replaces the grid contents and dimensions from a snapshot and
// marks every layer dirty.
func (g *Shared) Restore(s *Snapshot) {
	if s == nil || s.Width <= 0 || s.Height <= 0 {
		return
	}
	next := newBuffer(s.Width, s.Height)
	copy(next.cells, s.Cells)
	g.buf.Store(next)
	g.MarkAllDirty()
}

// Equal reports whether two snapshots hold identical content.
func (s *Snapshot) Equal(other *Snapshot) bool {
	if s == nil || other == nil {
		return s == other
	}
	if s.Width != other.Width || s.Height != other.Height || len(s.Cells) != len(other.Cells) {
		return false
	}
	for i, v := range s.Cells {
		if v != other.Cells[i] {
			return false
		}
	}
	return true
}
