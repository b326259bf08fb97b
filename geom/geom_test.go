package geom

import (
	"sort"
	"testing"
)

// fakeGrid is a single-layer in-memory CellGrid for algorithm tests.
type fakeGrid struct {
	w, h  int
	cells []int32
}

func newFakeGrid(w, h int, initial int32) *fakeGrid {
	g := &fakeGrid{w: w, h: h, cells: make([]int32, w*h)}
	for i := range g.cells {
		g.cells[i] = initial
	}
	return g
}

func (g *fakeGrid) Size() (int, int) { return g.w, g.h }

func (g *fakeGrid) Get(layer, x, y int) int32 {
	if x < 0 || x >= g.w || y < 0 || y >= g.h {
		return -1
	}
	return g.cells[y*g.w+x]
}

func (g *fakeGrid) Set(layer, x, y int, v int32) bool {
	if x < 0 || x >= g.w || y < 0 || y >= g.h {
		return false
	}
	idx := y*g.w + x
	changed := g.cells[idx] != v
	g.cells[idx] = v
	return changed
}

func sortPoints(pts []Point) {
	sort.Slice(pts, func(i, j int) bool {
		if pts[i].Y != pts[j].Y {
			return pts[i].Y < pts[j].Y
		}
		return pts[i].X < pts[j].X
	})
}

func samePointSet(a, b []Point) bool {
	if len(a) != len(b) {
		return false
	}
	ac := append([]Point(nil), a...)
	bc := append([]Point(nil), b...)
	sortPoints(ac)
	sortPoints(bc)
	for i := range ac {
		if ac[i] != bc[i] {
			return false
		}
	}
	return true
}

func TestFloodFillWholeGrid(t *testing.T) {
	g := newFakeGrid(5, 5, 0)
	pts := FloodFill(g, 0, 2, 2, 9)
	if len(pts) != 25 {
		t.Fatalf("filled %d cells, want 25", len(pts))
	}
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			if g.Get(0, x, y) != 9 {
				t.Fatalf("cell (%d,%d) not filled", x, y)
			}
		}
	}
}

func TestFloodFillIdempotent(t *testing.T) {
	g := newFakeGrid(5, 5, 9)
	if pts := FloodFill(g, 0, 0, 0, 9); pts != nil {
		t.Fatalf("target==fill must be a no-op, filled %d", len(pts))
	}
}

func TestFloodFillOutOfBounds(t *testing.T) {
	g := newFakeGrid(4, 4, 0)
	if pts := FloodFill(g, 0, -1, 2, 5); pts != nil {
		t.Fatalf("out-of-bounds start must be a no-op")
	}
	if pts := FloodFill(g, 0, 4, 0, 5); pts != nil {
		t.Fatalf("out-of-bounds start must be a no-op")
	}
}

func TestFloodFillRespectsBoundaries(t *testing.T) {
	// A vertical wall of 1s splits the grid; only the left component
	// may be filled.
	g := newFakeGrid(5, 3, 0)
	for y := 0; y < 3; y++ {
		g.Set(0, 2, y, 1)
	}

	pts := FloodFill(g, 0, 0, 0, 7)
	if len(pts) != 6 {
		t.Fatalf("filled %d cells, want the 6 left of the wall", len(pts))
	}
	if g.Get(0, 3, 0) != 0 || g.Get(0, 2, 1) != 1 {
		t.Fatalf("fill leaked across the wall")
	}
}

func TestFloodFillVisitsOnce(t *testing.T) {
	// U-shaped cavity forces span splits above and below.
	g := newFakeGrid(7, 5, 0)
	for y := 0; y < 4; y++ {
		g.Set(0, 3, y, 1)
	}

	pts := FloodFill(g, 0, 0, 0, 7)
	seen := make(map[Point]bool, len(pts))
	for _, p := range pts {
		if seen[p] {
			t.Fatalf("cell %v filled twice", p)
		}
		seen[p] = true
	}
	if len(pts) != 7*5-4 {
		t.Fatalf("filled %d cells, want %d", len(pts), 7*5-4)
	}
}

func TestLineEndpointSymmetry(t *testing.T) {
	cases := [][2]Point{
		{{0, 0}, {5, 2}},
		{{3, 7}, {3, 1}},
		{{-2, -2}, {4, 4}},
		{{8, 1}, {0, 6}},
		{{2, 2}, {2, 2}},
	}
	for _, c := range cases {
		fwd := Line(c[0], c[1])
		rev := Line(c[1], c[0])
		if !samePointSet(fwd, rev) {
			t.Fatalf("line %v-%v not symmetric: %v vs %v", c[0], c[1], fwd, rev)
		}
		if fwd[0] != c[0] || fwd[len(fwd)-1] != c[1] {
			t.Fatalf("line %v-%v misses an endpoint: %v", c[0], c[1], fwd)
		}
	}
}

func TestLineHasNoGapsOrDuplicates(t *testing.T) {
	pts := Line(Point{0, 0}, Point{7, 3})
	seen := make(map[Point]bool)
	for i, p := range pts {
		if seen[p] {
			t.Fatalf("duplicate point %v", p)
		}
		seen[p] = true
		if i > 0 {
			dx := abs(p.X - pts[i-1].X)
			dy := abs(p.Y - pts[i-1].Y)
			if dx > 1 || dy > 1 || dx+dy == 0 {
				t.Fatalf("gap between %v and %v", pts[i-1], p)
			}
		}
	}
}

func TestEllipseDegenerate(t *testing.T) {
	if pts := EllipseFill(4, 4, 0, 0); len(pts) != 1 || pts[0] != (Point{4, 4}) {
		t.Fatalf("zero radii should yield the center point, got %v", pts)
	}

	pts := EllipseFill(2, 2, 3, 0)
	if len(pts) != 7 {
		t.Fatalf("flat ellipse should be a 7-cell line, got %d", len(pts))
	}
	for _, p := range pts {
		if p.Y != 2 {
			t.Fatalf("flat ellipse strayed off its row: %v", p)
		}
	}
}

func TestEllipseFilledAndUnique(t *testing.T) {
	pts := EllipseFill(10, 10, 4, 3)
	seen := make(map[Point]bool, len(pts))
	for _, p := range pts {
		if seen[p] {
			t.Fatalf("duplicate point %v", p)
		}
		seen[p] = true
	}

	// Four axis extremes must be present, interior must be filled.
	for _, p := range []Point{{6, 10}, {14, 10}, {10, 7}, {10, 13}, {10, 10}} {
		if !seen[p] {
			t.Fatalf("expected point %v in the filled ellipse", p)
		}
	}

	// Symmetric about both axes.
	for p := range seen {
		if !seen[(Point{20 - p.X, p.Y})] || !seen[(Point{p.X, 20 - p.Y})] {
			t.Fatalf("ellipse not symmetric at %v", p)
		}
	}
}

func TestNineSliceSingleCellBrush(t *testing.T) {
	target := RectFromPoints(Point{3, 3}, Point{8, 6})
	for ty := 0; ty < target.Height(); ty++ {
		for tx := 0; tx < target.Width(); tx++ {
			sx, sy := SliceAt(target, 1, 1, tx, ty, SliceOptions{})
			if sx != 0 || sy != 0 {
				t.Fatalf("1x1 brush must always map to (0,0), got (%d,%d)", sx, sy)
			}
		}
	}
}

func TestNineSliceIdentity(t *testing.T) {
	target := RectFromPoints(Point{0, 0}, Point{4, 3})
	for ty := 0; ty < 4; ty++ {
		for tx := 0; tx < 5; tx++ {
			sx, sy := SliceAt(target, 5, 4, tx, ty, SliceOptions{})
			if sx != tx || sy != ty {
				t.Fatalf("identity mapping broken at (%d,%d): got (%d,%d)", tx, ty, sx, sy)
			}
		}
	}
}

func TestNineSliceEdgesAndCenter(t *testing.T) {
	// 3-wide brush over a 7-wide target: edges pin, center repeats 0-based
	// on the single middle column.
	target := RectFromPoints(Point{0, 0}, Point{6, 0})
	for tx := 0; tx < 7; tx++ {
		sx, _ := SliceAt(target, 3, 1, tx, 0, SliceOptions{})
		want := 1
		if tx == 0 {
			want = 0
		}
		if tx == 6 {
			want = 2
		}
		if sx != want {
			t.Fatalf("tx=%d: got sx=%d, want %d", tx, sx, want)
		}
	}
}

func TestNineSliceWorldAlignedPhase(t *testing.T) {
	// A 4-wide brush has a 2-cell center band. Two adjacent targets with
	// world alignment must continue the same phase across the seam.
	left := Rect{MinX: 0, MinY: 0, MaxX: 5, MaxY: 0}
	right := Rect{MinX: 6, MinY: 0, MaxX: 11, MaxY: 0}

	sxLeft, _ := SliceAt(left, 4, 1, 4, 0, SliceOptions{WorldAlignedRepeat: true})
	sxRight, _ := SliceAt(right, 4, 1, 1, 0, SliceOptions{WorldAlignedRepeat: true})

	// World columns 4 and 7 are three apart; with a 2-cell center the
	// phases must differ by one.
	if sxLeft == sxRight {
		t.Fatalf("world-aligned phases should differ across the seam: %d vs %d", sxLeft, sxRight)
	}

	// Same world column always resolves identically regardless of rect.
	a, _ := SliceAt(left, 4, 1, 3, 0, SliceOptions{WorldAlignedRepeat: true})
	b, _ := SliceAt(Rect{MinX: 2, MinY: 0, MaxX: 9, MaxY: 0}, 4, 1, 1, 0, SliceOptions{WorldAlignedRepeat: true})
	if a != b {
		t.Fatalf("same world column resolved differently: %d vs %d", a, b)
	}
}

func TestRectFromPointsNormalizes(t *testing.T) {
	r := RectFromPoints(Point{5, 1}, Point{2, 4})
	if r.MinX != 2 || r.MaxX != 5 || r.MinY != 1 || r.MaxY != 4 {
		t.Fatalf("rect not normalized: %+v", r)
	}
	if r.Width() != 4 || r.Height() != 4 {
		t.Fatalf("rect size wrong: %dx%d", r.Width(), r.Height())
	}
}
