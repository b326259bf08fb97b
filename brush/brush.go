// Copyright © 2025 Tilemason contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: brush/brush.go
// Summary: Brush model: built-in single-tile brushes plus user-defined
// multi-tile patterns, and the selection state shared by the tools.

package brush

import (
	"fmt"
	"image"

	"github.com/tilemason/tilemason/tiles"
)

// Brush is a named pattern of tile indices. Built-in brushes are
// generated one per atlas tile and are immutable; custom brushes come
// from palette selections or saved patterns.
type Brush struct {
	ID      int       `json:"id"`
	Name    string    `json:"name"`
	Tiles   [][]int32 `json:"tiles"`
	Width   int       `json:"width"`
	Height  int       `json:"height"`
	BuiltIn bool      `json:"-"`

	// Preview is the composited raster shown in the palette. Nil for
	// built-ins, whose preview is the atlas tile itself.
	Preview *image.RGBA `json:"-"`
}

// NoSelection is the selected-brush id when nothing is selected.
const NoSelection = -1

// Manager owns the brush set and the selected-brush id. Selection is a
// weak reference: deleting the selected brush leaves the id dangling
// and Selected simply resolves to nil.
type Manager struct {
	atlas    *tiles.Atlas
	brushes  map[int]*Brush
	order    []int
	nextID   int
	selected int
}

// NewManager creates a manager with one built-in brush per atlas tile.
func NewManager(atlas *tiles.Atlas) *Manager {
	m := &Manager{
		atlas:    atlas,
		brushes:  make(map[int]*Brush),
		selected: NoSelection,
	}
	count := 0
	if atlas != nil {
		count = atlas.Count()
	}
	for i := 0; i < count; i++ {
		b := &Brush{
			ID:      i,
			Name:    fmt.Sprintf("tile %d", i),
			Tiles:   [][]int32{{int32(i)}},
			Width:   1,
			Height:  1,
			BuiltIn: true,
		}
		m.brushes[i] = b
		m.order = append(m.order, i)
	}
	m.nextID = count
	return m
}

// CreateCustom registers a new custom brush from a rectangular tile
// pattern and returns it.
func (m *Manager) CreateCustom(name string, pattern [][]int32) (*Brush, error) {
	h := len(pattern)
	if h == 0 || len(pattern[0]) == 0 {
		return nil, fmt.Errorf("brush: empty pattern")
	}
	w := len(pattern[0])
	for _, row := range pattern {
		if len(row) != w {
			return nil, fmt.Errorf("brush: ragged pattern rows")
		}
	}

	clone := make([][]int32, h)
	for y, row := range pattern {
		clone[y] = append([]int32(nil), row...)
	}

	b := &Brush{
		ID:     m.nextID,
		Name:   name,
		Tiles:  clone,
		Width:  w,
		Height: h,
	}
	if m.atlas != nil {
		b.Preview = m.atlas.ComposePreview(clone)
	}
	m.nextID++
	m.brushes[b.ID] = b
	m.order = append(m.order, b.ID)
	return b, nil
}

// Update replaces a custom brush's name and pattern. Built-in and
// unknown ids return nil.
func (m *Manager) Update(id int, name string, pattern [][]int32) *Brush {
	b, ok := m.brushes[id]
	if !ok || b.BuiltIn {
		return nil
	}
	updated, err := m.CreateCustom(name, pattern)
	if err != nil {
		return nil
	}
	// CreateCustom appended a fresh id; fold it back into the old slot.
	delete(m.brushes, updated.ID)
	m.order = m.order[:len(m.order)-1]
	m.nextID--

	updated.ID = id
	m.brushes[id] = updated
	return updated
}

// Delete removes a custom brush. Built-ins are undeletable and report
// false.
func (m *Manager) Delete(id int) bool {
	b, ok := m.brushes[id]
	if !ok || b.BuiltIn {
		return false
	}
	delete(m.brushes, id)
	for i, oid := range m.order {
		if oid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return true
}

// Get resolves a brush id, returning nil when unknown.
func (m *Manager) Get(id int) *Brush { return m.brushes[id] }

// All returns the brushes in stable creation order.
func (m *Manager) All() []*Brush {
	out := make([]*Brush, 0, len(m.order))
	for _, id := range m.order {
		if b, ok := m.brushes[id]; ok {
			out = append(out, b)
		}
	}
	return out
}

// Custom returns only the user-defined brushes.
func (m *Manager) Custom() []*Brush {
	var out []*Brush
	for _, b := range m.All() {
		if !b.BuiltIn {
			out = append(out, b)
		}
	}
	return out
}

// Select records the selected brush id. Unknown ids clear the
// selection and report false.
func (m *Manager) Select(id int) bool {
	if _, ok := m.brushes[id]; !ok {
		m.selected = NoSelection
		return false
	}
	m.selected = id
	return true
}

// ClearSelection deselects any brush.
func (m *Manager) ClearSelection() { m.selected = NoSelection }

// SelectedID returns the raw selection id, NoSelection when none.
func (m *Manager) SelectedID() int { return m.selected }

// Selected resolves the selected brush, nil when the selection is
// empty or dangling.
func (m *Manager) Selected() *Brush {
	if m.selected == NoSelection {
		return nil
	}
	return m.brushes[m.selected]
}

// ImportCustom restores custom brushes from a saved set, keeping ids
// unique by reassigning them.
func (m *Manager) ImportCustom(saved []*Brush) {
	for _, b := range saved {
		if b == nil || b.BuiltIn {
			continue
		}
		if _, err := m.CreateCustom(b.Name, b.Tiles); err != nil {
			continue
		}
	}
}
