// Copyright © 2025 Tilemason contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: grid/grid_test.go
// Summary: Exercises the shared grid contract (bounds, dirty flags, resize).

package grid

import "testing"

func TestSetGetRoundTrip(t *testing.T) {
	g, err := New(20, 15)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if !g.Set(0, 10, 7, 5) {
		t.Fatalf("Set reported no change for a fresh cell")
	}
	if got := g.Get(0, 10, 7); got != 5 {
		t.Fatalf("Get returned %d, want 5", got)
	}
	if g.Set(0, 10, 7, 5) {
		t.Fatalf("Set reported change when rewriting the same value")
	}
}

func TestOutOfBoundsContract(t *testing.T) {
	g, _ := New(4, 4)
	before := g.Snapshot()

	cases := [][3]int{
		{-1, 0, 0}, {Layers, 0, 0},
		{0, -1, 0}, {0, 4, 0},
		{0, 0, -1}, {0, 0, 4},
	}
	for _, c := range cases {
		if got := g.Get(c[0], c[1], c[2]); got != Empty {
			t.Fatalf("Get(%v) = %d, want Empty", c, got)
		}
		if g.Set(c[0], c[1], c[2], 7) {
			t.Fatalf("Set(%v) claimed to change the grid", c)
		}
	}
	if !g.Snapshot().Equal(before) {
		t.Fatalf("out-of-bounds writes modified the grid")
	}
}

func TestInvalidDimensions(t *testing.T) {
	if _, err := New(0, 10); err == nil {
		t.Fatalf("expected error for zero width")
	}
	if _, err := New(10, -3); err == nil {
		t.Fatalf("expected error for negative height")
	}
	g, _ := New(3, 3)
	if err := g.Resize(0, 3, AlignLeft, AlignTop); err == nil {
		t.Fatalf("expected resize error for zero width")
	}
}

func TestDirtyFlagExchange(t *testing.T) {
	g, _ := New(8, 8)

	if g.TakeDirty(2) {
		t.Fatalf("fresh grid layer should not be dirty")
	}
	g.Set(2, 1, 1, 9)
	if !g.Dirty(2) {
		t.Fatalf("Set did not mark layer dirty")
	}
	if !g.TakeDirty(2) {
		t.Fatalf("TakeDirty did not observe the flag")
	}
	if g.TakeDirty(2) {
		t.Fatalf("TakeDirty must clear the flag exactly once")
	}
}

func TestUpdateRegionClipsAndTracksChange(t *testing.T) {
	g, _ := New(5, 5)
	patch := [][]int32{
		{1, 2, 3},
		{4, 5, 6},
	}

	if !g.UpdateRegion(0, 3, 4, patch) {
		t.Fatalf("expected partially overlapping patch to change the grid")
	}
	// Only (3,4) and (4,4) land inside.
	if g.Get(0, 3, 4) != 1 || g.Get(0, 4, 4) != 2 {
		t.Fatalf("clipped patch landed wrong: %d %d", g.Get(0, 3, 4), g.Get(0, 4, 4))
	}
	if g.CountNonEmpty(0) != 2 {
		t.Fatalf("expected 2 occupied cells, got %d", g.CountNonEmpty(0))
	}

	g.TakeDirty(0)
	if g.UpdateRegion(0, 3, 4, patch) {
		t.Fatalf("re-applying an identical patch must not report change")
	}
	if g.Dirty(0) {
		t.Fatalf("unchanged patch must not mark the layer dirty")
	}
}

func TestResizeTopLeftPreservesContent(t *testing.T) {
	g, _ := New(4, 3)
	g.Set(1, 0, 0, 10)
	g.Set(1, 3, 2, 11)

	if err := g.Resize(6, 5, AlignLeft, AlignTop); err != nil {
		t.Fatalf("grow failed: %v", err)
	}
	if g.Get(1, 0, 0) != 10 || g.Get(1, 3, 2) != 11 {
		t.Fatalf("grow with top-left alignment moved content")
	}
	if w, h := g.Size(); w != 6 || h != 5 {
		t.Fatalf("size = %dx%d, want 6x5", w, h)
	}

	if err := g.Resize(2, 2, AlignLeft, AlignTop); err != nil {
		t.Fatalf("shrink failed: %v", err)
	}
	if g.Get(1, 0, 0) != 10 {
		t.Fatalf("shrink with top-left alignment moved surviving content")
	}
	if g.Get(1, 3, 2) != Empty {
		t.Fatalf("cropped content should read Empty")
	}
}

func TestResizeBottomRightAlignment(t *testing.T) {
	g, _ := New(3, 3)
	g.Set(0, 2, 2, 7)

	if err := g.Resize(5, 5, AlignRight, AlignBottom); err != nil {
		t.Fatalf("resize failed: %v", err)
	}
	if g.Get(0, 4, 4) != 7 {
		t.Fatalf("bottom-right alignment should keep content anchored to the far corner")
	}
	if g.Get(0, 2, 2) != Empty {
		t.Fatalf("old coordinate should be empty after shifting")
	}
}

func TestResizeCenterAlignment(t *testing.T) {
	g, _ := New(2, 2)
	g.Set(0, 0, 0, 3)

	if err := g.Resize(4, 4, AlignCenter, AlignMiddle); err != nil {
		t.Fatalf("resize failed: %v", err)
	}
	if g.Get(0, 1, 1) != 3 {
		t.Fatalf("center alignment offset wrong: cell not at (1,1)")
	}
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	g, _ := New(6, 6)
	g.Set(0, 1, 1, 1)
	g.Set(3, 4, 5, 42)

	snap := g.Snapshot()
	g.Set(0, 1, 1, 99)
	g.Fill(3, 8)

	g.Restore(snap)
	if !g.Snapshot().Equal(snap) {
		t.Fatalf("restore did not reproduce the snapshot bit-for-bit")
	}
	for layer := 0; layer < Layers; layer++ {
		if !g.Dirty(layer) {
			t.Fatalf("restore must mark every layer dirty (layer %d clean)", layer)
		}
	}
}

func TestSnapshotIndependence(t *testing.T) {
	g, _ := New(3, 3)
	g.Set(0, 0, 0, 1)
	snap := g.Snapshot()
	g.Set(0, 0, 0, 2)
	if snap.Cells[0] != 1 {
		t.Fatalf("snapshot shares storage with the live grid")
	}
}

func TestLayerDataRoundTrip(t *testing.T) {
	g, _ := New(3, 2)
	g.SetLayerData(1, []int32{1, 2, 3, 4, 5, 6})
	if g.Get(1, 2, 1) != 6 {
		t.Fatalf("SetLayerData row-major order wrong")
	}
	data := g.LayerData(1)
	if len(data) != 6 || data[0] != 1 || data[5] != 6 {
		t.Fatalf("LayerData mismatch: %v", data)
	}

	// Short input pads with Empty.
	g.SetLayerData(1, []int32{9})
	if g.Get(1, 0, 0) != 9 || g.Get(1, 2, 1) != Empty {
		t.Fatalf("short SetLayerData should pad with Empty")
	}
}
