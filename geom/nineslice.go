package geom

// SliceOptions tunes the 9-slice pattern resolution.
type SliceOptions struct {
	// WorldAlignedRepeat phases the center band against absolute map
	// coordinates so adjacent strokes of the same brush tile
	// seamlessly. When false the repeat is anchored to the target's
	// own origin.
	WorldAlignedRepeat bool
}

// SliceSource maps one target cell back into brush-local coordinates.
// SliceAt returns, for the target cell at (tx, ty) relative to the
// target rectangle's origin, the source cell inside a brush of the
// given native dimensions.
//
// Each axis splits into a leading edge band, a repeating center band of
// max(1, dim-2) cells, and a trailing edge band; edges map one to one
// and the center tiles. Results are always clamped to the brush.
func SliceAt(target Rect, brushW, brushH, tx, ty int, opts SliceOptions) (int, int) {
	sx := sliceAxis(brushW, target.Width(), tx, target.MinX, opts.WorldAlignedRepeat)
	sy := sliceAxis(brushH, target.Height(), ty, target.MinY, opts.WorldAlignedRepeat)
	return sx, sy
}

func sliceAxis(brushDim, targetDim, t, worldOrigin int, worldAligned bool) int {
	if brushDim <= 1 {
		return 0
	}
	if t <= 0 {
		return 0
	}
	if t >= targetDim-1 {
		return brushDim - 1
	}

	center := brushDim - 2
	if center < 1 {
		center = 1
	}
	phase := t - 1
	if worldAligned {
		phase = worldOrigin + t
	}
	sx := 1 + mod(phase, center)
	if sx > brushDim-1 {
		sx = brushDim - 1
	}
	return sx
}

// mod is the non-negative remainder, defined for negative world
// coordinates as well.
func mod(a, n int) int {
	m := a % n
	if m < 0 {
		m += n
	}
	return m
}
