// Copyright © 2025 Tilemason contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: editor/editor.go
// Summary: Paint controller. Owns tool state, gesture tracking,
// undo/redo and the view transform; mutates the shared grid on the UI
// thread and feeds the render worker fire-and-forget messages.
// Usage: One instance per session, driven by the terminal event loop.

package editor

import (
	"log"
	"math"

	"github.com/tilemason/tilemason/brush"
	"github.com/tilemason/tilemason/config"
	"github.com/tilemason/tilemason/geom"
	"github.com/tilemason/tilemason/grid"
	"github.com/tilemason/tilemason/protocol"
)

// maxBrushSize bounds the size-square a brush stretches to.
const maxBrushSize = 16

// panMargin is how many pixels of the map must stay on screen when
// panning.
const panMargin = 24

// Sink receives the messages the editor emits toward the render
// worker. Sends never block the UI thread.
type Sink interface {
	Send(protocol.Message)
}

type gestureState int

const (
	stateIdle gestureState = iota
	stateStroking
	stateShaping
)

// Deps wires the editor to its collaborators.
type Deps struct {
	Grid       *grid.Shared
	Brushes    *brush.Manager
	Sink       Sink
	Config     config.Config
	Dispatcher *EventDispatcher
	Logger     *log.Logger

	// PaletteColumns is the palette grid width used by keyboard brush
	// navigation. Defaults to 8.
	PaletteColumns int
}

// Editor is the paint controller. All methods must be called from the
// UI goroutine; the grid itself is safe to share with the worker.
type Editor struct {
	grid       *grid.Shared
	brushes    *brush.Manager
	sink       Sink
	dispatcher *EventDispatcher
	logger     *log.Logger
	history    *History
	slice      geom.SliceOptions

	tool        Tool
	layer       int
	showAll     bool
	brushSize   int
	showGrid    bool
	visible     [grid.Layers]bool
	transform   protocol.Transform
	canvasW     int
	canvasH     int
	tileW       int
	tileH       int
	paletteCols int

	state        gestureState
	gestureSnap  *grid.Snapshot
	gestureDirty bool
	gestureErase bool
	anchor       geom.Point
	last         geom.Point
}

// New creates an editor over an already populated grid and brush set.
func New(deps Deps) *Editor {
	logger := deps.Logger
	if logger == nil {
		logger = log.Default()
	}
	dispatcher := deps.Dispatcher
	if dispatcher == nil {
		dispatcher = NewEventDispatcher()
	}
	cols := deps.PaletteColumns
	if cols < 1 {
		cols = 8
	}

	e := &Editor{
		grid:        deps.Grid,
		brushes:     deps.Brushes,
		sink:        deps.Sink,
		dispatcher:  dispatcher,
		logger:      logger,
		history:     NewHistory(deps.Config.MaxUndoSteps),
		slice:       geom.SliceOptions{WorldAlignedRepeat: deps.Config.WorldAlignedRepeat},
		brushSize:   1,
		showGrid:    true,
		transform:   protocol.Transform{Zoom: 1},
		tileW:       deps.Config.Map.TileWidth,
		tileH:       deps.Config.Map.TileHeight,
		paletteCols: cols,
	}
	for i := range e.visible {
		e.visible[i] = true
	}
	if e.brushes != nil && e.brushes.Selected() == nil {
		e.brushes.Select(0)
	}
	return e
}

// Dispatcher exposes the editor's event bus.
func (e *Editor) Dispatcher() *EventDispatcher { return e.dispatcher }

// Sync pushes the full editor state to the worker. Called once after
// the worker starts.
func (e *Editor) Sync() {
	e.send(protocol.SetCurrentLayer{Layer: e.layer, ShowAllLayers: e.showAll})
	e.send(protocol.UpdateTransform{Transform: e.transform})
	e.send(protocol.SetShowGrid{Show: e.showGrid})
	e.broadcast()
}

// SetCanvasSize records the pixel canvas size and forwards it to the
// worker.
func (e *Editor) SetCanvasSize(w, h int) {
	e.canvasW, e.canvasH = w, h
	e.send(protocol.Resize{Width: w, Height: h})
}

// --- pointer gestures ---

// PointerDown begins a gesture at pixel (px, py). erase forces erasing
// regardless of tool, the secondary-button shortcut.
func (e *Editor) PointerDown(px, py int, erase bool) {
	if e.showAll {
		// The all-layers view is read-only; there is no single target
		// layer to paint on.
		return
	}

	switch {
	case e.tool == ToolBrush || e.tool == ToolEraser:
		e.beginGesture()
		e.state = stateStroking
		e.gestureErase = erase || e.tool == ToolEraser
		cell := e.brushCell(px, py)
		e.last = cell
		res := e.brushes.Apply(e.grid, e.layer, cell.X, cell.Y, e.brushSize, e.gestureErase, e.slice)
		e.gestureDirty = e.gestureDirty || res.Modified

	case e.tool == ToolFill:
		e.beginGesture()
		cell := e.cellAt(px, py)
		value := e.paintValue(erase)
		if len(geom.FloodFill(e.grid, e.layer, cell.X, cell.Y, value)) > 0 {
			e.gestureDirty = true
		}
		e.endGesture(false)

	case e.tool.isShape():
		e.beginGesture()
		e.state = stateShaping
		e.gestureErase = erase
		e.anchor = e.cellAt(px, py)
		e.last = e.anchor
		e.sendShapePreview()
	}
}

// PointerMove extends the active gesture, or just moves the hover
// preview when idle.
func (e *Editor) PointerMove(px, py int) {
	switch e.state {
	case stateStroking:
		cell := e.brushCell(px, py)
		if cell == e.last {
			return
		}
		// Interpolate so fast drags leave no gaps.
		for _, p := range geom.Line(e.last, cell)[1:] {
			res := e.brushes.Apply(e.grid, e.layer, p.X, p.Y, e.brushSize, e.gestureErase, e.slice)
			e.gestureDirty = e.gestureDirty || res.Modified
		}
		e.last = cell

	case stateShaping:
		cell := e.cellAt(px, py)
		if cell == e.last {
			return
		}
		e.last = cell
		e.sendShapePreview()

	default:
		e.sendHoverPreview(px, py)
	}
}

// PointerUp completes the active gesture.
func (e *Editor) PointerUp() {
	switch e.state {
	case stateStroking:
		e.endGesture(false)
	case stateShaping:
		e.applyShape()
		e.endGesture(false)
	}
}

// CancelGesture aborts the active gesture, restoring the pre-gesture
// state, and clears any preview.
func (e *Editor) CancelGesture() {
	if e.state == stateIdle {
		e.send(protocol.ClearBrushPreview{})
		return
	}
	e.endGesture(true)
}

func (e *Editor) beginGesture() {
	e.gestureSnap = e.grid.Snapshot()
	e.gestureDirty = false
}

func (e *Editor) endGesture(cancel bool) {
	if e.gestureDirty {
		if cancel {
			e.grid.Restore(e.gestureSnap)
		} else {
			e.history.Push(e.gestureSnap)
			e.dispatcher.Broadcast(Event{Type: EventMapModified})
		}
	}
	e.gestureSnap = nil
	e.gestureDirty = false
	e.state = stateIdle
	e.send(protocol.ClearBrushPreview{})
	e.broadcast()
}

// applyShape commits the two-point gesture to the grid.
func (e *Editor) applyShape() {
	value := e.paintValue(e.gestureErase)
	set := func(p geom.Point) {
		if e.grid.Set(e.layer, p.X, p.Y, value) {
			e.gestureDirty = true
		}
	}

	switch e.tool {
	case ToolRectangle:
		r := geom.RectFromPoints(e.anchor, e.last)
		for y := r.MinY; y <= r.MaxY; y++ {
			for x := r.MinX; x <= r.MaxX; x++ {
				set(geom.Point{X: x, Y: y})
			}
		}
	case ToolEllipse:
		r := geom.RectFromPoints(e.anchor, e.last)
		cx := (r.MinX + r.MaxX) / 2
		cy := (r.MinY + r.MaxY) / 2
		for _, p := range geom.EllipseFill(cx, cy, (r.MaxX-r.MinX)/2, (r.MaxY-r.MinY)/2) {
			set(p)
		}
	case ToolLine:
		for _, p := range geom.Line(e.anchor, e.last) {
			set(p)
		}
	}
}

// --- coordinate conversion ---

// cellAt converts a pixel position to the tile under it.
func (e *Editor) cellAt(px, py int) geom.Point {
	fx, fy := e.cellCoords(px, py)
	return geom.Point{X: int(math.Floor(fx)), Y: int(math.Floor(fy))}
}

// brushCell converts a pixel position to the brush anchor cell. Odd
// extents center on the hovered tile; even extents snap to the nearest
// tile boundary so the brush still feels centered under the cursor.
func (e *Editor) brushCell(px, py int) geom.Point {
	fx, fy := e.cellCoords(px, py)
	w, h := e.brushExtent()
	return geom.Point{X: brushAnchor(fx, w), Y: brushAnchor(fy, h)}
}

func (e *Editor) cellCoords(px, py int) (float64, float64) {
	sx := float64(e.tileW) * e.transform.Zoom
	sy := float64(e.tileH) * e.transform.Zoom
	return (float64(px) - e.transform.OffsetX) / sx,
		(float64(py) - e.transform.OffsetY) / sy
}

func brushAnchor(f float64, extent int) int {
	if extent%2 == 1 {
		return int(math.Floor(f))
	}
	return int(math.Round(f)) - extent/2
}

// brushExtent is the effective painted extent per axis.
func (e *Editor) brushExtent() (int, int) {
	w, h := 1, 1
	if e.tool != ToolEraser {
		if b := e.brushes.Selected(); b != nil {
			w, h = b.Width, b.Height
		}
	}
	if e.brushSize > w {
		w = e.brushSize
	}
	if e.brushSize > h {
		h = e.brushSize
	}
	return w, h
}

// paintValue is the tile shapes and fills paint with: the selected
// brush's first occupied cell, or empty when erasing.
func (e *Editor) paintValue(erase bool) int32 {
	if erase {
		return grid.Empty
	}
	b := e.brushes.Selected()
	if b == nil {
		return grid.Empty
	}
	for _, row := range b.Tiles {
		for _, v := range row {
			if v != grid.Empty {
				return v
			}
		}
	}
	return grid.Empty
}

// --- previews ---

func (e *Editor) sendHoverPreview(px, py int) {
	if e.showAll {
		return
	}
	cell := e.brushCell(px, py)
	nw, nh := 1, 1
	if e.tool != ToolEraser {
		if b := e.brushes.Selected(); b != nil {
			nw, nh = b.Width, b.Height
		}
	}
	area := brush.TargetArea(cell.X, cell.Y, e.brushSize, nw, nh)
	e.send(protocol.UpdateBrushPreview{
		Area: area,
		Op: protocol.DrawOp{
			Op:        protocol.DrawBrush,
			Layer:     e.layer,
			Start:     cell,
			End:       cell,
			BrushSize: e.brushSize,
			Erasing:   e.tool == ToolEraser,
		},
	})
}

func (e *Editor) sendShapePreview() {
	e.send(protocol.UpdateBrushPreview{
		Area: geom.RectFromPoints(e.anchor, e.last),
		Op: protocol.DrawOp{
			Op:        e.tool.drawKind(),
			Layer:     e.layer,
			Start:     e.anchor,
			End:       e.last,
			TileIndex: e.paintValue(e.gestureErase),
			Erasing:   e.gestureErase,
		},
	})
}

// --- tool, layer and brush state ---

// SetTool switches the active tool, aborting any gesture in flight.
func (e *Editor) SetTool(t Tool) {
	if e.state != stateIdle {
		e.endGesture(true)
	}
	e.tool = t
	e.broadcast()
}

// Tool returns the active tool.
func (e *Editor) Tool() Tool { return e.tool }

// SelectLayer switches the edited layer. Hidden layers cannot be
// selected; the all-layers view ends either way on success.
func (e *Editor) SelectLayer(n int) bool {
	if n < 0 || n >= grid.Layers || !e.visible[n] {
		return false
	}
	e.layer = n
	e.showAll = false
	e.send(protocol.SetCurrentLayer{Layer: n})
	e.broadcast()
	return true
}

// Layer returns the edited layer index.
func (e *Editor) Layer() int { return e.layer }

// ToggleAllLayers flips the read-only all-layers view.
func (e *Editor) ToggleAllLayers() {
	if e.state != stateIdle {
		e.endGesture(true)
	}
	e.showAll = !e.showAll
	e.send(protocol.SetCurrentLayer{Layer: e.layer, ShowAllLayers: e.showAll})
	e.broadcast()
}

// AllLayers reports whether the all-layers view is active.
func (e *Editor) AllLayers() bool { return e.showAll }

// ToggleLayerVisibility flips one layer's visibility. The current
// layer cannot be hidden.
func (e *Editor) ToggleLayerVisibility(n int) bool {
	if n < 0 || n >= grid.Layers || (n == e.layer && e.visible[n]) {
		return false
	}
	e.visible[n] = !e.visible[n]
	e.send(protocol.SetLayerVisibility{Layer: n, Visible: e.visible[n]})
	e.broadcast()
	return true
}

// LayerVisible reports one layer's visibility.
func (e *Editor) LayerVisible(n int) bool {
	return n >= 0 && n < grid.Layers && e.visible[n]
}

// SetBrushSize clamps and applies the brush size.
func (e *Editor) SetBrushSize(n int) {
	if n < 1 {
		n = 1
	}
	if n > maxBrushSize {
		n = maxBrushSize
	}
	e.brushSize = n
	e.broadcast()
}

// AdjustBrushSize changes the brush size by delta.
func (e *Editor) AdjustBrushSize(delta int) {
	e.SetBrushSize(e.brushSize + delta)
}

// BrushSize returns the current brush size.
func (e *Editor) BrushSize() int { return e.brushSize }

// SelectBrush selects a palette entry by id.
func (e *Editor) SelectBrush(id int) bool {
	if !e.brushes.Select(id) {
		return false
	}
	e.broadcast()
	return true
}

// MoveBrushSelection steps the palette selection by (dx, dy) on the
// palette grid, clamping at the edges.
func (e *Editor) MoveBrushSelection(dx, dy int) {
	all := e.brushes.All()
	if len(all) == 0 {
		return
	}
	idx := 0
	for i, b := range all {
		if b.ID == e.brushes.SelectedID() {
			idx = i
			break
		}
	}

	row, col := idx/e.paletteCols, idx%e.paletteCols
	col += dx
	row += dy
	if col < 0 {
		col = 0
	}
	if col >= e.paletteCols {
		col = e.paletteCols - 1
	}
	if row < 0 {
		row = 0
	}
	next := row*e.paletteCols + col
	if next >= len(all) {
		next = len(all) - 1
	}
	if next != idx {
		e.brushes.Select(all[next].ID)
		e.broadcast()
	}
}

// --- view transform ---

// ZoomStep zooms one snap level in (+1) or out (-1), keeping the map
// point under pixel (px, py) fixed.
func (e *Editor) ZoomStep(dir, px, py int) {
	z := e.transform.Zoom
	nz := protocol.StepZoom(z, dir)
	if nz == z {
		return
	}
	wx := (float64(px) - e.transform.OffsetX) / z
	wy := (float64(py) - e.transform.OffsetY) / z
	e.transform.Zoom = nz
	e.transform.OffsetX = float64(px) - wx*nz
	e.transform.OffsetY = float64(py) - wy*nz
	e.clampOffsets()
	e.send(protocol.UpdateTransform{Transform: e.transform})
	e.broadcast()
}

// PanBy shifts the view by a pixel delta.
func (e *Editor) PanBy(dx, dy float64) {
	e.transform.OffsetX += dx
	e.transform.OffsetY += dy
	e.clampOffsets()
	e.send(protocol.UpdateTransform{Transform: e.transform})
}

// Transform returns the current view transform.
func (e *Editor) Transform() protocol.Transform { return e.transform }

// clampOffsets keeps at least panMargin pixels of the map on screen.
func (e *Editor) clampOffsets() {
	if e.canvasW <= 0 || e.canvasH <= 0 {
		return
	}
	mw, mh := e.grid.Size()
	mapW := float64(mw*e.tileW) * e.transform.Zoom
	mapH := float64(mh*e.tileH) * e.transform.Zoom

	if e.transform.OffsetX < panMargin-mapW {
		e.transform.OffsetX = panMargin - mapW
	}
	if e.transform.OffsetX > float64(e.canvasW)-panMargin {
		e.transform.OffsetX = float64(e.canvasW) - panMargin
	}
	if e.transform.OffsetY < panMargin-mapH {
		e.transform.OffsetY = panMargin - mapH
	}
	if e.transform.OffsetY > float64(e.canvasH)-panMargin {
		e.transform.OffsetY = float64(e.canvasH) - panMargin
	}
}

// ToggleGrid flips the grid line overlay.
func (e *Editor) ToggleGrid() {
	e.showGrid = !e.showGrid
	e.send(protocol.SetShowGrid{Show: e.showGrid})
	e.broadcast()
}

// GridShown reports whether grid lines are drawn.
func (e *Editor) GridShown() bool { return e.showGrid }

// --- history ---

// Undo restores the most recent pre-gesture snapshot. Underflow is
// silent.
func (e *Editor) Undo() bool {
	if e.state != stateIdle {
		e.endGesture(true)
	}
	s := e.history.Undo(e.grid.Snapshot())
	if s == nil {
		return false
	}
	e.grid.Restore(s)
	e.broadcast()
	return true
}

// Redo re-applies the most recently undone gesture.
func (e *Editor) Redo() bool {
	s := e.history.Redo(e.grid.Snapshot())
	if s == nil {
		return false
	}
	e.grid.Restore(s)
	e.broadcast()
	return true
}

// History exposes the undo/redo stacks, read-only by convention.
func (e *Editor) History() *History { return e.history }

// --- map ---

// ResizeMap changes the grid dimensions as one undoable step.
func (e *Editor) ResizeMap(w, h int, ha grid.HAlign, va grid.VAlign) error {
	snap := e.grid.Snapshot()
	if err := e.grid.Resize(w, h, ha, va); err != nil {
		return err
	}
	e.history.Push(snap)
	e.clampOffsets()
	e.send(protocol.UpdateTransform{Transform: e.transform})
	e.dispatcher.Broadcast(Event{Type: EventMapModified})
	e.broadcast()
	return nil
}

// --- plumbing ---

func (e *Editor) send(m protocol.Message) {
	if e.sink != nil {
		e.sink.Send(m)
	}
}

func (e *Editor) broadcast() {
	e.dispatcher.Broadcast(Event{Type: EventStateUpdate, Payload: e.statePayload()})
}

func (e *Editor) statePayload() StatePayload {
	return StatePayload{
		Tool:          e.tool,
		Layer:         e.layer,
		ShowAllLayers: e.showAll,
		BrushID:       e.brushes.SelectedID(),
		BrushSize:     e.brushSize,
		Zoom:          e.transform.Zoom,
		ShowGrid:      e.showGrid,
		CanUndo:       e.history.CanUndo(),
		CanRedo:       e.history.CanRedo(),
	}
}
