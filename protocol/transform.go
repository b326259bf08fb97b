package protocol

// ZoomLevels is the discrete zoom snap table. Pan and zoom always
// resolve to an entry of this list, never to arbitrary values.
var ZoomLevels = []float64{0.125, 0.25, 0.375, 0.5, 0.75, 1, 1.5, 2, 3, 4}

// SnapZoom returns the table entry nearest to zoom.
func SnapZoom(zoom float64) float64 {
	best := ZoomLevels[0]
	bestDist := diff(zoom, best)
	for _, z := range ZoomLevels[1:] {
		if d := diff(zoom, z); d < bestDist {
			best, bestDist = z, d
		}
	}
	return best
}

// StepZoom moves to the adjacent snap entry in the given direction
// (+1 zooms in, -1 zooms out), clamping at the table ends.
func StepZoom(zoom float64, dir int) float64 {
	idx := 0
	for i, z := range ZoomLevels {
		if diff(z, SnapZoom(zoom)) < 1e-9 {
			idx = i
			break
		}
	}
	idx += dir
	if idx < 0 {
		idx = 0
	}
	if idx >= len(ZoomLevels) {
		idx = len(ZoomLevels) - 1
	}
	return ZoomLevels[idx]
}

func diff(a, b float64) float64 {
	if a > b {
		return a - b
	}
	return b - a
}
