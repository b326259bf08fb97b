// Package geom holds the integer grid algorithms behind the paint
// tools: scanline flood fill, Bresenham lines, midpoint ellipses and
// the 9-slice brush pattern mapping. Everything operates on tile
// coordinates; nothing here touches pixels.
package geom

// Point is a tile coordinate.
type Point struct {
	X, Y int
}

// Rect is an axis-aligned tile rectangle, inclusive of Min, exclusive
// of nothing: it spans [MinX,MaxX]x[MinY,MaxY].
type Rect struct {
	MinX, MinY int
	MaxX, MaxY int
}

// RectFromPoints builds a normalized rectangle covering both corners,
// regardless of their ordering.
func RectFromPoints(a, b Point) Rect {
	r := Rect{MinX: a.X, MinY: a.Y, MaxX: b.X, MaxY: b.Y}
	if r.MinX > r.MaxX {
		r.MinX, r.MaxX = r.MaxX, r.MinX
	}
	if r.MinY > r.MaxY {
		r.MinY, r.MaxY = r.MaxY, r.MinY
	}
	return r
}

// Width returns the number of columns covered.
func (r Rect) Width() int { return r.MaxX - r.MinX + 1 }

// Height returns the number of rows covered.
func (r Rect) Height() int { return r.MaxY - r.MinY + 1 }

// Contains reports whether the point lies inside the rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.MinX && x <= r.MaxX && y >= r.MinY && y <= r.MaxY
}

// Intersect clamps r to the given bounds. The result may be empty,
// which Empty reports.
func (r Rect) Intersect(other Rect) Rect {
	out := r
	if out.MinX < other.MinX {
		out.MinX = other.MinX
	}
	if out.MinY < other.MinY {
		out.MinY = other.MinY
	}
	if out.MaxX > other.MaxX {
		out.MaxX = other.MaxX
	}
	if out.MaxY > other.MaxY {
		out.MaxY = other.MaxY
	}
	return out
}

// Empty reports whether the rectangle covers no cells.
func (r Rect) Empty() bool { return r.MinX > r.MaxX || r.MinY > r.MaxY }

// CellGrid is the slice of the grid store the algorithms need. The
// shared grid satisfies it; tests use small in-memory fakes.
type CellGrid interface {
	Size() (int, int)
	Get(layer, x, y int) int32
	Set(layer, x, y int, value int32) bool
}
