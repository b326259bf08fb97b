package geom

// EllipseFill returns the filled interior of the ellipse centered at
// (cx, cy) with radii rx, ry, as a deduplicated point set. The outline
// is traced with the two-region midpoint algorithm; each scanline is
// then span-filled between its extreme columns. Zero radii degenerate
// to a point or a straight line.
func EllipseFill(cx, cy, rx, ry int) []Point {
	if rx < 0 {
		rx = -rx
	}
	if ry < 0 {
		ry = -ry
	}

	// extents[dy] is the widest |dx| reached on row cy±dy.
	extents := make([]int, ry+1)
	for i := range extents {
		extents[i] = -1
	}

	if rx == 0 || ry == 0 {
		for dy := 0; dy <= ry; dy++ {
			extents[dy] = rx
		}
	} else {
		a2 := rx * rx
		b2 := ry * ry

		// Region 1: slope magnitude below 1, x advances each step.
		x, y := 0, ry
		d1 := b2 - a2*ry + a2/4
		for b2*x < a2*y {
			if extents[y] < x {
				extents[y] = x
			}
			if d1 < 0 {
				d1 += b2 * (2*x + 3)
			} else {
				d1 += b2*(2*x+3) + a2*(2-2*y)
				y--
			}
			x++
		}

		// Region 2: y advances each step until the equator.
		d2 := b2*(x*x+x) + b2/4 + a2*(y-1)*(y-1) - a2*b2
		for y >= 0 {
			if extents[y] < x {
				extents[y] = x
			}
			if d2 < 0 {
				d2 += b2*(2*x+2) + a2*(3-2*y)
				x++
			} else {
				d2 += a2 * (3 - 2*y)
			}
			y--
		}
	}

	// The two regions together visit every row exactly once, but keep
	// the fill well defined if a row ever slips through.
	for dy := range extents {
		if extents[dy] < 0 {
			extents[dy] = 0
		}
	}

	var pts []Point
	for dy := ry; dy >= 0; dy-- {
		half := extents[dy]
		for dx := -half; dx <= half; dx++ {
			pts = append(pts, Point{cx + dx, cy - dy})
		}
	}
	for dy := 1; dy <= ry; dy++ {
		half := extents[dy]
		for dx := -half; dx <= half; dx++ {
			pts = append(pts, Point{cx + dx, cy + dy})
		}
	}
	return pts
}
