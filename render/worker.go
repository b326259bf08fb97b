// Copyright © 2025 Tilemason contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: render/worker.go
// Summary: Background render worker. Owns the presenter, consumes
// controller messages, and turns the shared grid into frames through
// per-layer viewport caches with optional LOD.
// Usage: Construct with New, call Start, then talk to it through Send.

package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log"
	"math"
	"time"

	xdraw "golang.org/x/image/draw"

	"github.com/tilemason/tilemason/brush"
	"github.com/tilemason/tilemason/config"
	"github.com/tilemason/tilemason/geom"
	"github.com/tilemason/tilemason/grid"
	"github.com/tilemason/tilemason/protocol"
	"github.com/tilemason/tilemason/tiles"
)

// resizeSettle is how long the worker waits after the last resize
// message before reallocating the layer caches at the new size.
const resizeSettle = 250 * time.Millisecond

var (
	colorBackdrop = color.RGBA{R: 22, G: 22, B: 28, A: 255}
	colorMapFloor = color.RGBA{R: 34, G: 34, B: 42, A: 255}
	colorGridLine = color.RGBA{R: 58, G: 58, B: 66, A: 255}
)

// Deps wires the worker to its collaborators. Grid, Atlas, Brushes and
// Presenter are mandatory; initialization fails hard without them.
type Deps struct {
	Grid      *grid.Shared
	Atlas     *tiles.Atlas
	Brushes   *brush.Manager
	Presenter Presenter
	Options   config.Render
	Slice     geom.SliceOptions
	Observer  FPSObserver
	Logger    *log.Logger
}

// layerCache is one layer's rasterization of the current viewport at
// the current zoom. stale tracks invalidation reasons beyond the
// shared dirty flag (viewport moved, zoom changed, resize settled).
type layerCache struct {
	img   *image.RGBA
	stale bool
}

// lodCache is one layer's whole-map raster at a reduced scale, used
// when zoomed out past the LOD threshold.
type lodCache struct {
	img   *image.RGBA
	scale float64
	stale bool
}

// Worker renders the shared grid on its own goroutine. All fields are
// owned by that goroutine after Start; the controller interacts only
// through Send and Replies.
type Worker struct {
	grid      *grid.Shared
	atlas     *tiles.Atlas
	brushes   *brush.Manager
	presenter Presenter
	opts      config.Render
	slice     geom.SliceOptions
	observer  FPSObserver
	logger    *log.Logger

	msgs    chan protocol.Message
	replies chan protocol.Reply
	done    chan struct{}

	transform protocol.Transform
	view      Viewport
	canvasW   int
	canvasH   int
	frame     *image.RGBA
	scratch   *image.RGBA
	layers    [grid.Layers]layerCache
	lod       [grid.Layers]lodCache
	visible   [grid.Layers]bool
	current   int
	showAll   bool
	showGrid  bool
	preview   *protocol.UpdateBrushPreview

	lastMapW int
	lastMapH int
	lastFPS  float64

	ticker   *time.Ticker
	resizing bool
	settle   *time.Timer
	meter    *fpsMeter
}

// New creates a worker that is not yet running.
func New(deps Deps) *Worker {
	logger := deps.Logger
	if logger == nil {
		logger = log.Default()
	}
	w := &Worker{
		grid:      deps.Grid,
		atlas:     deps.Atlas,
		brushes:   deps.Brushes,
		presenter: deps.Presenter,
		opts:      deps.Options,
		slice:     deps.Slice,
		observer:  deps.Observer,
		logger:    logger,
		msgs:      make(chan protocol.Message, 64),
		replies:   make(chan protocol.Reply, 64),
		done:      make(chan struct{}),
		current:   0,
		showGrid:  true,
		transform: protocol.Transform{Zoom: 1},
		meter:     newFPSMeter(32, 2*time.Second),
	}
	for i := range w.visible {
		w.visible[i] = true
	}
	return w
}

// Start launches the render loop and blocks until the worker reports
// initialization complete or failed.
func (w *Worker) Start(timeout time.Duration) error {
	go w.loop()
	select {
	case r := <-w.replies:
		switch r.Type {
		case protocol.MsgInitComplete:
			return nil
		case protocol.MsgInitError:
			return r.Err
		}
		return fmt.Errorf("render: unexpected %s reply during init", r.Type)
	case <-time.After(timeout):
		return errors.New("render: worker initialization timed out")
	}
}

// Send delivers one message to the worker. It never blocks past worker
// shutdown.
func (w *Worker) Send(m protocol.Message) {
	select {
	case w.msgs <- m:
	case <-w.done:
	}
}

// Replies exposes the worker's outbound telemetry and error channel.
func (w *Worker) Replies() <-chan protocol.Reply { return w.replies }

// Done is closed when the render loop has exited.
func (w *Worker) Done() <-chan struct{} { return w.done }

// Stop asks the worker to terminate and waits for the loop to exit.
func (w *Worker) Stop(timeout time.Duration) {
	w.Send(protocol.Terminate{})
	select {
	case <-w.done:
	case <-time.After(timeout):
		w.logger.Printf("render: worker did not stop within %v", timeout)
	}
}

func (w *Worker) loop() {
	defer close(w.done)

	if err := w.initialize(); err != nil {
		w.logger.Printf("render: init failed: %v", err)
		w.reply(protocol.Reply{Type: protocol.MsgInitError, Err: err})
		return
	}
	w.reply(protocol.Reply{Type: protocol.MsgInitComplete})

	w.ticker = time.NewTicker(w.frameInterval(false))
	defer w.ticker.Stop()

	for {
		select {
		case m, ok := <-w.msgs:
			if !ok {
				return
			}
			if w.dispatch(m) {
				return
			}
			// Coalesce bursts (pointer moves flood the channel with
			// preview and transform updates) before the next frame.
		drain:
			for i := 1; i < w.opts.BatchSize; i++ {
				select {
				case m, ok := <-w.msgs:
					if !ok {
						return
					}
					if w.dispatch(m) {
						return
					}
				default:
					break drain
				}
			}

		case <-w.ticker.C:
			w.renderFrame(time.Now())

		case <-w.settleC():
			w.finishResize()
		}
	}
}

func (w *Worker) initialize() error {
	if w.grid == nil {
		return errors.New("render: no shared grid attached")
	}
	if w.atlas == nil {
		return errors.New("render: no tile atlas attached")
	}
	if w.brushes == nil {
		return errors.New("render: no brush manager attached")
	}
	if w.presenter == nil {
		return errors.New("render: no presenter attached")
	}
	if err := w.presenter.Init(); err != nil {
		return fmt.Errorf("render: presenter init: %w", err)
	}
	w.canvasW, w.canvasH = w.presenter.Size()
	w.lastMapW, w.lastMapH = w.grid.Size()
	w.grid.MarkAllDirty()
	return nil
}

// dispatch handles one message. A panicking handler is logged and
// reported as an error reply; the loop keeps running.
func (w *Worker) dispatch(m protocol.Message) (stop bool) {
	defer func() {
		if r := recover(); r != nil {
			w.logger.Printf("render: panic handling %s: %v", m.Kind(), r)
			w.reply(protocol.Reply{
				Type:    protocol.MsgError,
				Request: m.Kind(),
				Err:     fmt.Errorf("render: %s: %v", m.Kind(), r),
			})
		}
	}()

	switch msg := m.(type) {
	case protocol.UpdateTransform:
		if msg.Transform != w.transform {
			w.transform = msg.Transform
			w.invalidateLayers()
		}

	case protocol.RedrawTile:
		w.grid.MarkDirty(msg.Layer)

	case protocol.RedrawRegion:
		w.grid.MarkDirty(msg.Layer)

	case protocol.RedrawLayer:
		w.grid.MarkDirty(msg.Layer)

	case protocol.RedrawAll:
		w.grid.MarkAllDirty()

	case protocol.Resize:
		w.beginResize(msg.Width, msg.Height)

	case protocol.SetShowGrid:
		w.showGrid = msg.Show

	case protocol.SetLayerVisibility:
		if msg.Layer >= 0 && msg.Layer < grid.Layers {
			w.visible[msg.Layer] = msg.Visible
			if msg.Visible {
				w.layers[msg.Layer].stale = true
			}
		}

	case protocol.SetCurrentLayer:
		w.current = msg.Layer
		w.showAll = msg.ShowAllLayers

	case protocol.UpdateBrushPreview:
		cp := msg
		w.preview = &cp

	case protocol.ClearBrushPreview:
		w.preview = nil

	case protocol.SetOptions:
		w.opts = msg.Options
		w.invalidateLayers()
		if w.ticker != nil {
			w.ticker.Reset(w.frameInterval(w.resizing))
		}

	case protocol.Draw:
		if err := w.applyDrawOp(msg.Op); err != nil {
			w.reply(protocol.Reply{
				Type:    protocol.MsgError,
				Request: protocol.MsgDraw,
				Err:     err,
			})
		}

	case protocol.Terminate:
		w.shutdown()
		return true

	default:
		w.reply(protocol.Reply{
			Type:    protocol.MsgError,
			Request: m.Kind(),
			Err:     fmt.Errorf("render: unhandled message %s", m.Kind()),
		})
	}
	return false
}

// applyDrawOp mutates the shared grid with one tool operation. The
// grid's own dirty flags carry the change to the next frame.
func (w *Worker) applyDrawOp(op protocol.DrawOp) error {
	if op.Layer < 0 || op.Layer >= grid.Layers {
		return fmt.Errorf("render: draw on invalid layer %d", op.Layer)
	}
	value := op.TileIndex
	if op.Erasing {
		value = grid.Empty
	}

	switch op.Op {
	case protocol.DrawBrush:
		w.brushes.Apply(w.grid, op.Layer, op.End.X, op.End.Y, op.BrushSize, op.Erasing, w.slice)

	case protocol.DrawRectangle:
		r := geom.RectFromPoints(op.Start, op.End)
		for y := r.MinY; y <= r.MaxY; y++ {
			for x := r.MinX; x <= r.MaxX; x++ {
				w.grid.Set(op.Layer, x, y, value)
			}
		}

	case protocol.DrawEllipse:
		r := geom.RectFromPoints(op.Start, op.End)
		cx := (r.MinX + r.MaxX) / 2
		cy := (r.MinY + r.MaxY) / 2
		for _, p := range geom.EllipseFill(cx, cy, (r.MaxX-r.MinX)/2, (r.MaxY-r.MinY)/2) {
			w.grid.Set(op.Layer, p.X, p.Y, value)
		}

	case protocol.DrawFill:
		geom.FloodFill(w.grid, op.Layer, op.Start.X, op.Start.Y, value)

	case protocol.DrawLine:
		for _, p := range geom.Line(op.Start, op.End) {
			w.grid.Set(op.Layer, p.X, p.Y, value)
		}

	default:
		return fmt.Errorf("render: unknown draw op %s", op.Op)
	}
	return nil
}

func (w *Worker) beginResize(width, height int) {
	w.canvasW, w.canvasH = width, height
	if !w.resizing {
		w.resizing = true
		w.ticker.Reset(w.frameInterval(true))
	}
	if w.settle == nil {
		w.settle = time.NewTimer(resizeSettle)
		return
	}
	if !w.settle.Stop() {
		select {
		case <-w.settle.C:
		default:
		}
	}
	w.settle.Reset(resizeSettle)
}

// finishResize reallocates the cache set at the settled size. During
// the resize itself frames reuse the old buffers, clipped.
func (w *Worker) finishResize() {
	w.resizing = false
	w.settle = nil
	w.ticker.Reset(w.frameInterval(false))
	w.frame = nil
	w.scratch = nil
	for i := range w.layers {
		w.layers[i].img = nil
		w.layers[i].stale = true
	}
	if w.opts.DebugMode {
		w.logger.Printf("render: resize settled at %dx%d", w.canvasW, w.canvasH)
	}
}

func (w *Worker) settleC() <-chan time.Time {
	if w.settle == nil {
		return nil
	}
	return w.settle.C
}

func (w *Worker) shutdown() {
	w.frame = nil
	w.scratch = nil
	for i := range w.layers {
		w.layers[i] = layerCache{}
	}
	for i := range w.lod {
		w.lod[i] = lodCache{}
	}
	w.presenter.Fini()
	w.reply(protocol.Reply{Type: protocol.MsgTerminateAck})
}

func (w *Worker) invalidateLayers() {
	for i := range w.layers {
		w.layers[i].stale = true
	}
}

func (w *Worker) frameInterval(resizing bool) time.Duration {
	fps := w.opts.FrameRate
	if resizing {
		fps = w.opts.ResizeFrameRate
	}
	if fps <= 0 {
		fps = 30
	}
	return time.Second / time.Duration(fps)
}

// reply delivers telemetry without ever blocking the render loop; a
// full channel drops the reply.
func (w *Worker) reply(r protocol.Reply) {
	select {
	case w.replies <- r:
	default:
	}
}

// renderFrame produces and presents one frame. Dirty flags are
// exchanged at most once per layer per frame, and a taken flag always
// results in a rebuild covering the current viewport in the same step.
func (w *Worker) renderFrame(now time.Time) {
	if w.canvasW <= 0 || w.canvasH <= 0 {
		return
	}
	if w.frame == nil || w.frame.Bounds().Dx() != w.canvasW || w.frame.Bounds().Dy() != w.canvasH {
		w.frame = image.NewRGBA(image.Rect(0, 0, w.canvasW, w.canvasH))
		w.invalidateLayers()
	}

	mapW, mapH := w.grid.Size()
	if mapW != w.lastMapW || mapH != w.lastMapH {
		w.lastMapW, w.lastMapH = mapW, mapH
		for i := range w.lod {
			w.lod[i] = lodCache{}
		}
		w.reply(protocol.Reply{Type: protocol.MsgMapDimensionsUpdated, Width: mapW, Height: mapH})
	}
	tw, th := w.atlas.TileSize()

	w.view.Update(w.transform, w.canvasW, w.canvasH, tw, th, mapW, mapH)
	if w.view.Changed {
		w.invalidateLayers()
	}

	useLOD := w.opts.UseLOD && w.transform.Zoom < w.opts.LODThreshold
	scale := 0.0
	if useLOD {
		scale = lodScale(w.transform.Zoom, w.opts.LODQuality)
	}

	for layer := 0; layer < grid.Layers; layer++ {
		if !w.visible[layer] {
			continue
		}
		if w.grid.TakeDirty(layer) {
			w.layers[layer].stale = true
			w.lod[layer].stale = true
		}
		if useLOD {
			c := &w.lod[layer]
			if c.img == nil || c.stale || c.scale != scale {
				w.rebuildLOD(layer, scale, mapW, mapH, tw, th)
			}
		} else if w.layers[layer].stale {
			w.rebuildLayer(layer, tw, th)
		}
	}

	w.composite(useLOD, mapW, mapH, tw, th)

	if w.showGrid && !useLOD {
		w.drawGridLines(tw, th, mapW, mapH)
	}
	if w.preview != nil {
		w.drawPreview(tw, th)
	}

	w.presenter.SetStatus(w.statusLine(mapW, mapH))
	if err := w.presenter.Present(w.frame); err != nil {
		w.logger.Printf("render: present failed: %v", err)
	}

	if fps, due := w.meter.tick(now); due {
		w.lastFPS = fps
		if w.observer != nil {
			w.observer.ObserveFPS(fps)
		}
		w.reply(protocol.Reply{Type: protocol.MsgFPSUpdate, FPS: fps})
	}
	w.reply(protocol.Reply{Type: protocol.MsgFrameComplete})
}

// composite paints the backdrop and stacks the visible layers back to
// front. The current layer composites opaque; the rest are dimmed
// unless the all-layers view is active.
func (w *Worker) composite(useLOD bool, mapW, mapH, tw, th int) {
	draw.Draw(w.frame, w.frame.Bounds(), image.NewUniform(colorBackdrop), image.Point{}, draw.Src)

	floor := w.mapRect(mapW, mapH, tw, th).Intersect(w.frame.Bounds())
	if !floor.Empty() {
		draw.Draw(w.frame, floor, image.NewUniform(colorMapFloor), image.Point{}, draw.Src)
	}

	for layer := 0; layer < grid.Layers; layer++ {
		if !w.visible[layer] {
			continue
		}
		var src *image.RGBA
		if useLOD {
			src = w.scaleLOD(layer, mapW, mapH, tw, th)
		} else {
			src = w.layers[layer].img
		}
		if src == nil {
			continue
		}

		if w.showAll || layer == w.current {
			draw.Draw(w.frame, w.frame.Bounds(), src, src.Bounds().Min, draw.Over)
			continue
		}
		mask := image.NewUniform(color.Alpha{A: 128})
		draw.DrawMask(w.frame, w.frame.Bounds(), src, src.Bounds().Min, mask, image.Point{}, draw.Over)
	}
}

// rebuildLayer rasterizes one layer's viewport into its cache. While a
// resize is settling the existing buffer is reused and clipped rather
// than reallocated.
func (w *Worker) rebuildLayer(layer, tw, th int) {
	c := &w.layers[layer]
	wantW, wantH := w.canvasW, w.canvasH
	if c.img == nil || (!w.resizing && (c.img.Bounds().Dx() != wantW || c.img.Bounds().Dy() != wantH)) {
		c.img = image.NewRGBA(image.Rect(0, 0, wantW, wantH))
	} else {
		clearRGBA(c.img)
	}

	r := w.view.Rect
	if r.Empty() {
		c.stale = false
		return
	}

	direct := w.opts.UseDirectAtlas && w.transform.Zoom == 1
	bounds := c.img.Bounds()
	for y := r.MinY; y <= r.MaxY; y++ {
		for x := r.MinX; x <= r.MaxX; x++ {
			v := w.grid.Get(layer, x, y)
			if v == grid.Empty {
				continue
			}
			tile := w.atlas.Tile(v)
			if tile == nil {
				continue
			}
			dst := w.tileRect(x, y, tw, th)
			if !dst.Overlaps(bounds) {
				continue
			}
			if direct {
				draw.Draw(c.img, dst, tile, tile.Bounds().Min, draw.Over)
			} else {
				xdraw.NearestNeighbor.Scale(c.img, dst, tile, tile.Bounds(), xdraw.Over, nil)
			}
		}
	}
	c.stale = false

	if w.opts.DebugMode {
		w.logger.Printf("render: rebuilt layer %d viewport %dx%d", layer, r.Width(), r.Height())
	}
}

// rebuildLOD rasterizes one layer's whole map at the reduced scale.
func (w *Worker) rebuildLOD(layer int, scale float64, mapW, mapH, tw, th int) {
	lw := int(math.Ceil(float64(mapW*tw) * scale))
	lh := int(math.Ceil(float64(mapH*th) * scale))
	if lw < 1 {
		lw = 1
	}
	if lh < 1 {
		lh = 1
	}

	c := &w.lod[layer]
	if c.img == nil || c.img.Bounds().Dx() != lw || c.img.Bounds().Dy() != lh {
		c.img = image.NewRGBA(image.Rect(0, 0, lw, lh))
	} else {
		clearRGBA(c.img)
	}

	for y := 0; y < mapH; y++ {
		for x := 0; x < mapW; x++ {
			v := w.grid.Get(layer, x, y)
			if v == grid.Empty {
				continue
			}
			tile := w.atlas.Tile(v)
			if tile == nil {
				continue
			}
			dst := image.Rect(
				int(math.Round(float64(x*tw)*scale)),
				int(math.Round(float64(y*th)*scale)),
				int(math.Round(float64((x+1)*tw)*scale)),
				int(math.Round(float64((y+1)*th)*scale)),
			)
			xdraw.ApproxBiLinear.Scale(c.img, dst, tile, tile.Bounds(), xdraw.Over, nil)
		}
	}
	c.scale = scale
	c.stale = false

	if w.opts.DebugMode {
		w.logger.Printf("render: rebuilt LOD layer %d scale %.3g (%dx%d px)", layer, scale, lw, lh)
	}
}

// scaleLOD projects one layer's LOD raster onto a canvas-sized scratch
// buffer positioned by the current transform.
func (w *Worker) scaleLOD(layer, mapW, mapH, tw, th int) *image.RGBA {
	c := &w.lod[layer]
	if c.img == nil {
		return nil
	}
	if w.scratch == nil || w.scratch.Bounds() != w.frame.Bounds() {
		w.scratch = image.NewRGBA(w.frame.Bounds())
	} else {
		clearRGBA(w.scratch)
	}
	dst := w.mapRect(mapW, mapH, tw, th)
	xdraw.ApproxBiLinear.Scale(w.scratch, dst, c.img, c.img.Bounds(), xdraw.Over, nil)
	return w.scratch
}

// mapRect is the whole map's pixel rectangle on the canvas.
func (w *Worker) mapRect(mapW, mapH, tw, th int) image.Rectangle {
	z := w.transform.Zoom
	return image.Rect(
		int(math.Round(w.transform.OffsetX)),
		int(math.Round(w.transform.OffsetY)),
		int(math.Round(w.transform.OffsetX+float64(mapW*tw)*z)),
		int(math.Round(w.transform.OffsetY+float64(mapH*th)*z)),
	)
}

// tileRect is one tile's pixel rectangle on the canvas. Edges are
// computed independently so adjacent tiles share boundaries with no
// rounding gaps.
func (w *Worker) tileRect(x, y, tw, th int) image.Rectangle {
	z := w.transform.Zoom
	return image.Rect(
		int(math.Round(w.transform.OffsetX+float64(x*tw)*z)),
		int(math.Round(w.transform.OffsetY+float64(y*th)*z)),
		int(math.Round(w.transform.OffsetX+float64((x+1)*tw)*z)),
		int(math.Round(w.transform.OffsetY+float64((y+1)*th)*z)),
	)
}

func (w *Worker) drawGridLines(tw, th, mapW, mapH int) {
	r := w.view.Rect
	if r.Empty() {
		return
	}
	b := w.frame.Bounds()
	mr := w.mapRect(mapW, mapH, tw, th).Intersect(b)
	if mr.Empty() {
		return
	}

	z := w.transform.Zoom
	for i := r.MinX; i <= r.MaxX+1; i++ {
		x := int(math.Round(w.transform.OffsetX + float64(i*tw)*z))
		if x < mr.Min.X || x >= mr.Max.X {
			continue
		}
		for y := mr.Min.Y; y < mr.Max.Y; y++ {
			w.frame.SetRGBA(x, y, colorGridLine)
		}
	}
	for j := r.MinY; j <= r.MaxY+1; j++ {
		y := int(math.Round(w.transform.OffsetY + float64(j*th)*z))
		if y < mr.Min.Y || y >= mr.Max.Y {
			continue
		}
		for x := mr.Min.X; x < mr.Max.X; x++ {
			w.frame.SetRGBA(x, y, colorGridLine)
		}
	}
}

// drawPreview tints the cells the pending tool action would touch.
func (w *Worker) drawPreview(tw, th int) {
	tint := color.RGBA{R: 255, G: 255, B: 255, A: 70}
	if w.preview.Op.Erasing {
		tint = color.RGBA{R: 255, G: 80, B: 80, A: 90}
	}
	src := image.NewUniform(tint)
	for _, cell := range previewCells(w.preview) {
		dst := w.tileRect(cell.X, cell.Y, tw, th).Intersect(w.frame.Bounds())
		if dst.Empty() {
			continue
		}
		draw.Draw(w.frame, dst, src, image.Point{}, draw.Over)
	}
}

// previewCells expands a preview message into the tile coordinates to
// highlight, mirroring the shape each tool would commit.
func previewCells(p *protocol.UpdateBrushPreview) []geom.Point {
	switch p.Op.Op {
	case protocol.DrawRectangle:
		return rectCells(geom.RectFromPoints(p.Op.Start, p.Op.End))

	case protocol.DrawEllipse:
		r := geom.RectFromPoints(p.Op.Start, p.Op.End)
		cx := (r.MinX + r.MaxX) / 2
		cy := (r.MinY + r.MaxY) / 2
		return geom.EllipseFill(cx, cy, (r.MaxX-r.MinX)/2, (r.MaxY-r.MinY)/2)

	case protocol.DrawLine:
		return geom.Line(p.Op.Start, p.Op.End)

	default:
		// Brush hover and flood fill highlight the target area.
		return rectCells(p.Area)
	}
}

func rectCells(r geom.Rect) []geom.Point {
	if r.Empty() {
		return nil
	}
	cells := make([]geom.Point, 0, r.Width()*r.Height())
	for y := r.MinY; y <= r.MaxY; y++ {
		for x := r.MinX; x <= r.MaxX; x++ {
			cells = append(cells, geom.Point{X: x, Y: y})
		}
	}
	return cells
}

func (w *Worker) statusLine(mapW, mapH int) string {
	mode := fmt.Sprintf("layer %d", w.current+1)
	if w.showAll {
		mode = "all layers"
	}
	line := fmt.Sprintf(" %s | zoom %.3g | map %dx%d", mode, w.transform.Zoom, mapW, mapH)
	if w.lastFPS > 0 {
		line += fmt.Sprintf(" | %.1f fps", w.lastFPS)
	}
	return line
}

// lodScale picks the cached raster scale for a zoom level: the finest
// band that still downsamples, shifted coarser or finer by quality.
func lodScale(zoom float64, quality int) float64 {
	scales := []float64{0.5, 0.25, 0.125}
	idx := len(scales) - 1
	for i, s := range scales {
		if s >= zoom {
			idx = i
		}
	}
	// quality 1 is the matched band; 0 trades detail for speed, 2 the
	// other way.
	idx += 1 - quality
	if idx < 0 {
		idx = 0
	}
	if idx >= len(scales) {
		idx = len(scales) - 1
	}
	return scales[idx]
}

func clearRGBA(img *image.RGBA) {
	for i := range img.Pix {
		img.Pix[i] = 0
	}
}
