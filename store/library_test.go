// Copyright © 2025 Tilemason contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: store/library_test.go
// Summary: Brush library persistence tests.

package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/tilemason/tilemason/brush"
	"github.com/tilemason/tilemason/tiles"
)

func openTestLibrary(t *testing.T) *SQLiteLibrary {
	t.Helper()
	l, err := Open(filepath.Join(t.TempDir(), "library.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { l.Close() })
	return l
}

func testManager(t *testing.T) *brush.Manager {
	t.Helper()
	atlas, err := tiles.TestSheet(4, 4, 4, 4)
	if err != nil {
		t.Fatalf("TestSheet: %v", err)
	}
	return brush.NewManager(atlas)
}

func TestBrushRoundTrip(t *testing.T) {
	l := openTestLibrary(t)
	m := testManager(t)

	pattern := [][]int32{{0, 1, 0}, {2, -1, 2}}
	custom, err := m.CreateCustom("bridge", pattern)
	if err != nil {
		t.Fatalf("CreateCustom: %v", err)
	}

	if err := l.SaveBrushes(m.All()); err != nil {
		t.Fatalf("SaveBrushes: %v", err)
	}

	loaded, err := l.LoadBrushes()
	if err != nil {
		t.Fatalf("LoadBrushes: %v", err)
	}
	if len(loaded) != 1 {
		t.Fatalf("loaded %d brushes, want 1 (built-ins are never persisted)", len(loaded))
	}
	got := loaded[0]
	if got.ID != custom.ID || got.Name != "bridge" || got.Width != 3 || got.Height != 2 {
		t.Fatalf("loaded brush %+v does not match saved", got)
	}
	for y, row := range pattern {
		for x, v := range row {
			if got.Tiles[y][x] != v {
				t.Fatalf("tile (%d,%d) = %d, want %d", x, y, got.Tiles[y][x], v)
			}
		}
	}
}

func TestSaveReplacesPreviousSet(t *testing.T) {
	l := openTestLibrary(t)
	m := testManager(t)

	if _, err := m.CreateCustom("one", [][]int32{{1}}); err != nil {
		t.Fatalf("CreateCustom: %v", err)
	}
	if err := l.SaveBrushes(m.All()); err != nil {
		t.Fatalf("first save: %v", err)
	}

	m2 := testManager(t)
	if _, err := m2.CreateCustom("two", [][]int32{{2}}); err != nil {
		t.Fatalf("CreateCustom: %v", err)
	}
	if _, err := m2.CreateCustom("three", [][]int32{{3}}); err != nil {
		t.Fatalf("CreateCustom: %v", err)
	}
	if err := l.SaveBrushes(m2.All()); err != nil {
		t.Fatalf("second save: %v", err)
	}

	loaded, err := l.LoadBrushes()
	if err != nil {
		t.Fatalf("LoadBrushes: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("loaded %d brushes, want 2", len(loaded))
	}
}

func TestLoadedBrushesImportIntoManager(t *testing.T) {
	l := openTestLibrary(t)
	m := testManager(t)

	if _, err := m.CreateCustom("stamp", [][]int32{{5, 6}}); err != nil {
		t.Fatalf("CreateCustom: %v", err)
	}
	if err := l.SaveBrushes(m.All()); err != nil {
		t.Fatalf("SaveBrushes: %v", err)
	}

	loaded, err := l.LoadBrushes()
	if err != nil {
		t.Fatalf("LoadBrushes: %v", err)
	}

	m2 := testManager(t)
	m2.ImportCustom(loaded)
	if len(m2.Custom()) != 1 {
		t.Fatalf("imported %d customs, want 1", len(m2.Custom()))
	}
}

func TestRecentMapsNewestFirst(t *testing.T) {
	l := openTestLibrary(t)

	for _, p := range []string{"/maps/a.tmm", "/maps/b.tmm", "/maps/c.tmm"} {
		if err := l.TouchRecentMap(p); err != nil {
			t.Fatalf("TouchRecentMap(%s): %v", p, err)
		}
		// Coarse clocks could otherwise hand two entries one timestamp.
		time.Sleep(2 * time.Millisecond)
	}

	got, err := l.RecentMaps(10)
	if err != nil {
		t.Fatalf("RecentMaps: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d entries, want 3", len(got))
	}
	if got[0].Path != "/maps/c.tmm" {
		t.Fatalf("newest entry %s, want /maps/c.tmm", got[0].Path)
	}
}

func TestRecentMapsTouchMovesToFront(t *testing.T) {
	l := openTestLibrary(t)

	l.TouchRecentMap("/maps/a.tmm")
	time.Sleep(2 * time.Millisecond)
	l.TouchRecentMap("/maps/b.tmm")
	time.Sleep(2 * time.Millisecond)
	l.TouchRecentMap("/maps/a.tmm")

	got, err := l.RecentMaps(10)
	if err != nil {
		t.Fatalf("RecentMaps: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d entries, want 2 (touch must not duplicate)", len(got))
	}
	if got[0].Path != "/maps/a.tmm" {
		t.Fatalf("front entry %s, want the re-touched /maps/a.tmm", got[0].Path)
	}
}

func TestRecentMapsPruned(t *testing.T) {
	l := openTestLibrary(t)

	for i := 0; i < recentMapLimit+5; i++ {
		path := filepath.Join("/maps", string(rune('a'+i))+".tmm")
		if err := l.TouchRecentMap(path); err != nil {
			t.Fatalf("TouchRecentMap: %v", err)
		}
	}

	got, err := l.RecentMaps(0)
	if err != nil {
		t.Fatalf("RecentMaps: %v", err)
	}
	if len(got) != recentMapLimit {
		t.Fatalf("got %d entries, want prune at %d", len(got), recentMapLimit)
	}
}
