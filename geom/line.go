package geom

// Line yields the Bresenham line from a to b as an ordered sequence of
// grid points with no gaps and no duplicates. Swapping the endpoints
// produces the same set of points in reverse order.
func Line(a, b Point) []Point {
	dx := abs(b.X - a.X)
	dy := -abs(b.Y - a.Y)
	sx := 1
	if a.X > b.X {
		sx = -1
	}
	sy := 1
	if a.Y > b.Y {
		sy = -1
	}

	pts := make([]Point, 0, max(dx, -dy)+1)
	x, y := a.X, a.Y
	err := dx + dy
	for {
		pts = append(pts, Point{x, y})
		if x == b.X && y == b.Y {
			return pts
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
