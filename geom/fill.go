package geom

// span is one horizontal run awaiting expansion during a flood fill.
type span struct {
	x, y int
}

// FloodFill replaces the 4-connected region of cells matching the value
// under (x, y) with fill, using a scanline span stack. It returns the
// filled points in fill order. Out-of-bounds starts and target==fill
// are no-ops returning nil; each eligible cell is visited exactly once.
func FloodFill(g CellGrid, layer, x, y int, fill int32) []Point {
	w, h := g.Size()
	if x < 0 || x >= w || y < 0 || y >= h {
		return nil
	}
	target := g.Get(layer, x, y)
	if target == fill {
		return nil
	}

	var filled []Point
	stack := []span{{x, y}}

	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if g.Get(layer, s.x, s.y) != target {
			continue
		}

		// Extend the span left and right while matching the target.
		left := s.x
		for left > 0 && g.Get(layer, left-1, s.y) == target {
			left--
		}
		right := s.x
		for right < w-1 && g.Get(layer, right+1, s.y) == target {
			right++
		}

		for cx := left; cx <= right; cx++ {
			g.Set(layer, cx, s.y, fill)
			filled = append(filled, Point{cx, s.y})
		}

		// Scan the rows above and below for new spans. Because the
		// filled row no longer matches the target, revisits are
		// impossible.
		for _, ny := range [2]int{s.y - 1, s.y + 1} {
			if ny < 0 || ny >= h {
				continue
			}
			inRun := false
			for cx := left; cx <= right; cx++ {
				if g.Get(layer, cx, ny) == target {
					if !inRun {
						stack = append(stack, span{cx, ny})
						inRun = true
					}
				} else {
					inRun = false
				}
			}
		}
	}

	return filled
}
