// Copyright © 2025 Tilemason contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: tiles/testsheet.go
// Summary: Synthetic tile sheets for tests and the built-in demo map.

package tiles

import (
	"image"
	"image/color"
)

// TestSheet builds an atlas of cols*rows solid-color tiles. Each tile
// index gets a distinct color so tests can assert which tile a pixel
// came from.
func TestSheet(cols, rows, tileW, tileH int) (*Atlas, error) {
	img := image.NewRGBA(image.Rect(0, 0, cols*tileW, rows*tileH))
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			c := TileColor(int32(row*cols + col))
			for y := row * tileH; y < (row+1)*tileH; y++ {
				for x := col * tileW; x < (col+1)*tileW; x++ {
					img.SetRGBA(x, y, c)
				}
			}
		}
	}
	return FromImage(img, tileW, tileH)
}

// TileColor returns the deterministic fill color TestSheet assigns to a
// tile index.
func TileColor(index int32) color.RGBA {
	i := uint32(index)
	return color.RGBA{
		R: uint8(37*i + 11),
		G: uint8(73*i + 29),
		B: uint8(131*i + 47),
		A: 0xFF,
	}
}
