// Copyright © 2025 Tilemason contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: render/worker_test.go
// Summary: Render worker loop tests against the headless presenter.

package render

import (
	"image/color"
	"testing"
	"time"

	"github.com/tilemason/tilemason/brush"
	"github.com/tilemason/tilemason/config"
	"github.com/tilemason/tilemason/geom"
	"github.com/tilemason/tilemason/grid"
	"github.com/tilemason/tilemason/protocol"
	"github.com/tilemason/tilemason/tiles"
)

func geomPoint(x, y int) geom.Point { return geom.Point{X: x, Y: y} }

func testOptions() config.Render {
	opts := config.Default().Render
	opts.FrameRate = 120
	opts.ResizeFrameRate = 60
	return opts
}

func newTestWorker(t *testing.T) (*Worker, *grid.Shared, *MemoryPresenter) {
	t.Helper()
	g, err := grid.New(8, 8)
	if err != nil {
		t.Fatalf("grid.New: %v", err)
	}
	atlas, err := tiles.TestSheet(4, 4, 4, 4)
	if err != nil {
		t.Fatalf("TestSheet: %v", err)
	}
	p := NewMemoryPresenter(64, 64)
	w := New(Deps{
		Grid:      g,
		Atlas:     atlas,
		Brushes:   brush.NewManager(atlas),
		Presenter: p,
		Options:   testOptions(),
	})
	if err := w.Start(2 * time.Second); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(func() { w.Stop(time.Second) })
	return w, g, p
}

func waitFor(t *testing.T, timeout time.Duration, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func awaitReply(t *testing.T, w *Worker, typ protocol.MessageType) protocol.Reply {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case r := <-w.Replies():
			if r.Type == typ {
				return r
			}
		case <-deadline:
			t.Fatalf("no %s reply within 2s", typ)
		}
	}
}

func pixelAt(p *MemoryPresenter, x, y int) (color.RGBA, bool) {
	frame := p.LastFrame()
	if frame == nil {
		return color.RGBA{}, false
	}
	return frame.RGBAAt(x, y), true
}

func TestWorkerInitRequiresSharedBuffers(t *testing.T) {
	atlas, err := tiles.TestSheet(4, 4, 4, 4)
	if err != nil {
		t.Fatalf("TestSheet: %v", err)
	}
	w := New(Deps{
		Atlas:     atlas,
		Brushes:   brush.NewManager(atlas),
		Presenter: NewMemoryPresenter(32, 32),
		Options:   testOptions(),
	})
	if err := w.Start(2 * time.Second); err == nil {
		t.Fatal("Start succeeded without a shared grid")
	}
	select {
	case <-w.Done():
	case <-time.After(time.Second):
		t.Fatal("worker loop did not exit after init failure")
	}
}

func TestWorkerPresentsFrames(t *testing.T) {
	_, _, p := newTestWorker(t)
	waitFor(t, 2*time.Second, "first frame", func() bool {
		return p.FrameCount() > 0
	})
}

func TestWorkerRendersPaintedTile(t *testing.T) {
	_, g, p := newTestWorker(t)

	// Tile (1,1) occupies pixels 4..7 at zoom 1 with 4px tiles.
	g.Set(0, 1, 1, 0)
	want := tiles.TileColor(0)

	waitFor(t, 2*time.Second, "painted tile to appear", func() bool {
		got, ok := pixelAt(p, 6, 6)
		return ok && got == want
	})
}

func TestWorkerRebuildsOnDirtyExchange(t *testing.T) {
	_, g, p := newTestWorker(t)

	g.Set(0, 0, 0, 0)
	waitFor(t, 2*time.Second, "first edit", func() bool {
		got, ok := pixelAt(p, 1, 1)
		return ok && got == tiles.TileColor(0)
	})

	// A later edit must show up too; the dirty flag is re-armed after
	// each exchange.
	g.Set(0, 3, 0, 5)
	waitFor(t, 2*time.Second, "second edit", func() bool {
		got, ok := pixelAt(p, 13, 1)
		return ok && got == tiles.TileColor(5)
	})
}

func TestWorkerDimsNonCurrentLayers(t *testing.T) {
	w, g, p := newTestWorker(t)

	g.Set(1, 2, 2, 0)
	w.Send(protocol.SetCurrentLayer{Layer: 0})

	opaque := tiles.TileColor(0)
	waitFor(t, 2*time.Second, "dimmed layer pixel", func() bool {
		got, ok := pixelAt(p, 9, 9)
		if !ok {
			return false
		}
		// Blended: neither fully the tile color nor untouched floor.
		return got != opaque && got != colorMapFloor && got != colorBackdrop
	})

	// Switching to that layer renders it opaque.
	w.Send(protocol.SetCurrentLayer{Layer: 1})
	waitFor(t, 2*time.Second, "opaque layer pixel", func() bool {
		got, ok := pixelAt(p, 9, 9)
		return ok && got == opaque
	})
}

func TestWorkerHiddenLayerNotComposited(t *testing.T) {
	w, g, p := newTestWorker(t)

	g.Set(0, 2, 2, 0)
	waitFor(t, 2*time.Second, "tile visible", func() bool {
		got, ok := pixelAt(p, 9, 9)
		return ok && got == tiles.TileColor(0)
	})

	w.Send(protocol.SetLayerVisibility{Layer: 0, Visible: false})
	waitFor(t, 2*time.Second, "tile hidden", func() bool {
		got, ok := pixelAt(p, 9, 9)
		return ok && got == colorMapFloor
	})
}

func TestWorkerDrawOpsMutateGrid(t *testing.T) {
	w, g, _ := newTestWorker(t)

	w.Send(protocol.Draw{Op: protocol.DrawOp{
		Op:        protocol.DrawRectangle,
		Layer:     0,
		Start:     geomPoint(1, 1),
		End:       geomPoint(3, 2),
		TileIndex: 7,
	}})

	waitFor(t, 2*time.Second, "rectangle commit", func() bool {
		return g.Get(0, 1, 1) == 7 && g.Get(0, 3, 2) == 7 && g.Get(0, 0, 0) == grid.Empty
	})

	w.Send(protocol.Draw{Op: protocol.DrawOp{
		Op:      protocol.DrawRectangle,
		Layer:   0,
		Start:   geomPoint(1, 1),
		End:     geomPoint(3, 2),
		Erasing: true,
	}})
	waitFor(t, 2*time.Second, "rectangle erase", func() bool {
		return g.Get(0, 2, 1) == grid.Empty
	})
}

func TestWorkerRejectsInvalidDrawLayer(t *testing.T) {
	w, _, _ := newTestWorker(t)

	w.Send(protocol.Draw{Op: protocol.DrawOp{
		Op:    protocol.DrawRectangle,
		Layer: grid.Layers,
	}})

	r := awaitReply(t, w, protocol.MsgError)
	if r.Request != protocol.MsgDraw {
		t.Fatalf("error reply tagged %s, want %s", r.Request, protocol.MsgDraw)
	}
	if r.Err == nil {
		t.Fatal("error reply carries no error")
	}
}

type bogusMessage struct{}

func (bogusMessage) Kind() protocol.MessageType { return protocol.MsgInitialize }

func TestWorkerSurvivesUnknownMessage(t *testing.T) {
	w, _, p := newTestWorker(t)

	w.Send(bogusMessage{})
	r := awaitReply(t, w, protocol.MsgError)
	if r.Request != protocol.MsgInitialize {
		t.Fatalf("error reply tagged %s, want %s", r.Request, protocol.MsgInitialize)
	}

	// The loop keeps rendering afterwards.
	before := p.FrameCount()
	waitFor(t, 2*time.Second, "frames after error", func() bool {
		return p.FrameCount() > before
	})
}

func TestWorkerResizeSettles(t *testing.T) {
	w, _, p := newTestWorker(t)

	waitFor(t, 2*time.Second, "first frame", func() bool { return p.FrameCount() > 0 })

	p.SetSize(96, 80)
	w.Send(protocol.Resize{Width: 96, Height: 80})

	waitFor(t, 2*time.Second, "settled frame size", func() bool {
		frame := p.LastFrame()
		return frame != nil && frame.Bounds().Dx() == 96 && frame.Bounds().Dy() == 80
	})
}

func TestWorkerTerminateAck(t *testing.T) {
	w, _, _ := newTestWorker(t)

	w.Send(protocol.Terminate{})
	awaitReply(t, w, protocol.MsgTerminateAck)

	select {
	case <-w.Done():
	case <-time.After(time.Second):
		t.Fatal("worker loop did not exit after terminate")
	}
}

func TestWorkerReportsMapDimensionChange(t *testing.T) {
	w, g, _ := newTestWorker(t)

	if err := g.Resize(12, 6, grid.AlignLeft, grid.AlignTop); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	r := awaitReply(t, w, protocol.MsgMapDimensionsUpdated)
	if r.Width != 12 || r.Height != 6 {
		t.Fatalf("reported %dx%d, want 12x6", r.Width, r.Height)
	}
}

func TestLodScaleBands(t *testing.T) {
	cases := []struct {
		zoom    float64
		quality int
		want    float64
	}{
		{0.4, 1, 0.5},
		{0.25, 1, 0.25},
		{0.125, 1, 0.125},
		{0.1, 1, 0.125},
		{0.4, 0, 0.25},
		{0.25, 2, 0.5},
		{0.4, 2, 0.5}, // already finest, clamps
		{0.1, 0, 0.125},
	}
	for _, c := range cases {
		if got := lodScale(c.zoom, c.quality); got != c.want {
			t.Errorf("lodScale(%g, %d) = %g, want %g", c.zoom, c.quality, got, c.want)
		}
	}
}

func TestWorkerLODZoomedOut(t *testing.T) {
	w, g, p := newTestWorker(t)

	// Fill layer 0 solid so the downsampled raster is non-background
	// everywhere inside the map rect.
	g.Fill(0, 0)
	w.Send(protocol.UpdateTransform{Transform: protocol.Transform{Zoom: 0.25}})

	waitFor(t, 2*time.Second, "LOD frame content", func() bool {
		// Map is 8*4*0.25 = 8px square at the origin.
		got, ok := pixelAt(p, 3, 3)
		return ok && got != colorBackdrop && got != colorMapFloor
	})
}
