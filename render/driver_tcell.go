// Copyright © 2025 Tilemason contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: render/driver_tcell.go
// Summary: Terminal presenter. Renders frames with half-block cells so
// every terminal cell carries two vertically stacked pixels.

package render

import (
	"image"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// TcellPresenter adapts a tcell.Screen to the Presenter interface. The
// bottom terminal row is reserved for the status line; the rest of the
// screen is a canvas of one pixel per half cell.
type TcellPresenter struct {
	screen tcell.Screen
	status string
}

// NewTcellPresenter wraps the provided screen. The screen must already
// be owned by this presenter; the worker is its only writer.
func NewTcellPresenter(screen tcell.Screen) *TcellPresenter {
	return &TcellPresenter{screen: screen}
}

func (p *TcellPresenter) Init() error {
	// The screen is initialized by the terminal bootstrap before event
	// polling starts, so there is nothing left to do here.
	return nil
}

func (p *TcellPresenter) Fini() {
	// The bootstrap owns screen shutdown; the worker only stops
	// presenting.
}

// Size reports the canvas size in pixels: two pixels per cell row,
// minus the status row.
func (p *TcellPresenter) Size() (int, int) {
	w, h := p.screen.Size()
	if h > 1 {
		h--
	}
	return w, h * 2
}

func (p *TcellPresenter) SetStatus(text string) {
	p.status = text
}

// Present maps the frame onto the terminal, one character column per
// pixel column and one character row per two pixel rows, using the
// upper-half-block glyph with independent fore/background colors.
func (p *TcellPresenter) Present(frame *image.RGBA) error {
	cols, rows := p.screen.Size()
	statusRow := rows - 1

	b := frame.Bounds()
	for row := 0; row < statusRow; row++ {
		for col := 0; col < cols; col++ {
			topY := b.Min.Y + row*2
			botY := topY + 1
			x := b.Min.X + col

			top := tcell.ColorBlack
			bot := tcell.ColorBlack
			if x < b.Max.X && topY < b.Max.Y {
				c := frame.RGBAAt(x, topY)
				top = tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
			}
			if x < b.Max.X && botY < b.Max.Y {
				c := frame.RGBAAt(x, botY)
				bot = tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
			}

			style := tcell.StyleDefault.Foreground(top).Background(bot)
			p.screen.SetContent(col, row, '▀', nil, style)
		}
	}

	p.drawStatus(cols, statusRow)
	p.screen.Show()
	return nil
}

func (p *TcellPresenter) drawStatus(cols, row int) {
	if row < 0 {
		return
	}
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorDarkSlateGray)
	text := runewidth.Truncate(p.status, cols, "…")
	x := 0
	for _, r := range text {
		p.screen.SetContent(x, row, r, nil, style)
		x += runewidth.RuneWidth(r)
	}
	for ; x < cols; x++ {
		p.screen.SetContent(x, row, ' ', nil, style)
	}
}
