// Copyright © 2025 Tilemason contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: editor/input.go
// Summary: Translates tcell terminal events into editor operations.
// Usage: The main event loop feeds every screen event through
// HandleEvent; unhandled events fall through to the caller.

package editor

import (
	"github.com/gdamore/tcell/v2"
)

const pointerButtons = tcell.Button1 | tcell.Button2 | tcell.Button3

// InputHandler maps terminal events onto the editor. Terminal cells
// are wider than they are tall; the half-block presenter packs two
// pixels per cell row, so mouse rows double.
type InputHandler struct {
	editor  *Editor
	cellW   int
	cellH   int
	buttons tcell.ButtonMask
}

// NewInputHandler creates a handler for the half-block presenter's
// 1x2 pixel-per-cell geometry.
func NewInputHandler(e *Editor) *InputHandler {
	return &InputHandler{editor: e, cellW: 1, cellH: 2}
}

// HandleEvent processes one terminal event. Reports whether the event
// was consumed.
func (h *InputHandler) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventMouse:
		h.handleMouse(ev)
		return true
	case *tcell.EventKey:
		return h.handleKey(ev)
	}
	return false
}

func (h *InputHandler) handleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	px, py := x*h.cellW, y*h.cellH
	btns := ev.Buttons()
	e := h.editor

	if btns&tcell.WheelUp != 0 {
		e.ZoomStep(1, px, py)
	}
	if btns&tcell.WheelDown != 0 {
		e.ZoomStep(-1, px, py)
	}

	isDown := btns&pointerButtons != 0
	wasDown := h.buttons&pointerButtons != 0
	secondary := btns&(tcell.Button2|tcell.Button3) != 0

	switch {
	case isDown && !wasDown:
		e.PointerDown(px, py, secondary)
	case !isDown && wasDown:
		e.PointerUp()
	default:
		e.PointerMove(px, py)
	}
	h.buttons = btns
}

func (h *InputHandler) handleKey(ev *tcell.EventKey) bool {
	e := h.editor
	panStep := float64(e.tileW) * e.transform.Zoom

	switch ev.Key() {
	case tcell.KeyEscape:
		e.CancelGesture()
		return true
	case tcell.KeyTab:
		e.ToggleAllLayers()
		return true
	case tcell.KeyCtrlZ:
		e.Undo()
		return true
	case tcell.KeyCtrlY:
		e.Redo()
		return true
	case tcell.KeyLeft:
		e.PanBy(panStep, 0)
		return true
	case tcell.KeyRight:
		e.PanBy(-panStep, 0)
		return true
	case tcell.KeyUp:
		e.PanBy(0, panStep)
		return true
	case tcell.KeyDown:
		e.PanBy(0, -panStep)
		return true
	case tcell.KeyRune:
		return h.handleRune(ev.Rune(), ev.Modifiers())
	}
	return false
}

func (h *InputHandler) handleRune(r rune, mods tcell.ModMask) bool {
	e := h.editor

	// Alt+digit toggles that layer's visibility.
	if mods&tcell.ModAlt != 0 {
		if layer, ok := digitLayer(r); ok {
			e.ToggleLayerVisibility(layer)
			return true
		}
		return false
	}

	if layer, ok := digitLayer(r); ok {
		e.SelectLayer(layer)
		return true
	}

	switch r {
	case 'b':
		e.SetTool(ToolBrush)
	case 'e':
		e.SetTool(ToolEraser)
	case 'r':
		e.SetTool(ToolRectangle)
	case 'c':
		e.SetTool(ToolEllipse)
	case 'f':
		e.SetTool(ToolFill)
	case 'l':
		e.SetTool(ToolLine)
	case 'g':
		e.ToggleGrid()
	case 'u':
		e.Undo()
	case 'y':
		e.Redo()
	case '[':
		e.AdjustBrushSize(-1)
	case ']':
		e.AdjustBrushSize(1)
	case '+', '=':
		e.ZoomStep(1, e.canvasW/2, e.canvasH/2)
	case '-':
		e.ZoomStep(-1, e.canvasW/2, e.canvasH/2)
	case 'w':
		e.MoveBrushSelection(0, -1)
	case 'a':
		e.MoveBrushSelection(-1, 0)
	case 's':
		e.MoveBrushSelection(0, 1)
	case 'd':
		e.MoveBrushSelection(1, 0)
	default:
		return false
	}
	return true
}

// digitLayer maps keys 1..9,0 onto layers 0..9.
func digitLayer(r rune) (int, bool) {
	switch {
	case r >= '1' && r <= '9':
		return int(r - '1'), true
	case r == '0':
		return 9, true
	}
	return 0, false
}
