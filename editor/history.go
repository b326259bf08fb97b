// Copyright © 2025 Tilemason contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: editor/history.go
// Summary: Gesture-scoped undo/redo over full-grid snapshots.

package editor

import "github.com/tilemason/tilemason/grid"

// History holds the undo and redo stacks. One entry is the complete
// grid state captured before a gesture; a stroke of any length costs
// exactly one entry.
type History struct {
	undo []*grid.Snapshot
	redo []*grid.Snapshot
	max  int
}

// NewHistory creates a history bounded to max entries. The oldest
// entry is dropped when the bound is exceeded.
func NewHistory(max int) *History {
	if max < 1 {
		max = 1
	}
	return &History{max: max}
}

// Push records the pre-gesture state and clears the redo stack. Any
// new edit invalidates the redone future.
func (h *History) Push(s *grid.Snapshot) {
	if s == nil {
		return
	}
	h.undo = append(h.undo, s)
	if len(h.undo) > h.max {
		h.undo = h.undo[1:]
	}
	h.redo = nil
}

// Undo exchanges the current state for the most recent undo entry.
// Returns nil when the stack is empty; underflow is not an error.
func (h *History) Undo(current *grid.Snapshot) *grid.Snapshot {
	if len(h.undo) == 0 {
		return nil
	}
	s := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	h.redo = append(h.redo, current)
	return s
}

// Redo exchanges the current state for the most recent redo entry.
func (h *History) Redo(current *grid.Snapshot) *grid.Snapshot {
	if len(h.redo) == 0 {
		return nil
	}
	s := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	h.undo = append(h.undo, current)
	return s
}

// CanUndo reports whether an undo entry exists.
func (h *History) CanUndo() bool { return len(h.undo) > 0 }

// CanRedo reports whether a redo entry exists.
func (h *History) CanRedo() bool { return len(h.redo) > 0 }

// Depth returns the undo stack size.
func (h *History) Depth() int { return len(h.undo) }
