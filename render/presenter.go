// Copyright © 2025 Tilemason contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: render/presenter.go
// Summary: Presentation surface abstraction for the render worker.
// Usage: The worker owns its Presenter exclusively once attached; the
// tcell driver and the headless test presenter both implement it.

package render

import (
	"image"
	"sync"
)

// Presenter is the surface the worker draws frames onto.
type Presenter interface {
	// Init prepares the surface. Called once by the worker during
	// initialization.
	Init() error

	// Size returns the canvas dimensions in pixels.
	Size() (int, int)

	// Present displays one composited frame. The worker reuses the
	// frame buffer; implementations must not retain it across calls.
	Present(frame *image.RGBA) error

	// SetStatus updates the surface's status line, if it has one.
	SetStatus(text string)

	// Fini releases the surface. Called once on terminate.
	Fini()
}

// MemoryPresenter is a headless presenter used by tests and
// benchmarks. It retains a copy of the last presented frame.
type MemoryPresenter struct {
	mu     sync.Mutex
	w, h   int
	frames int
	last   *image.RGBA
	status string
}

// NewMemoryPresenter creates a headless canvas of the given pixel size.
func NewMemoryPresenter(w, h int) *MemoryPresenter {
	return &MemoryPresenter{w: w, h: h}
}

func (p *MemoryPresenter) Init() error { return nil }

func (p *MemoryPresenter) Size() (int, int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.w, p.h
}

// SetSize changes the reported canvas size, mimicking a window resize.
func (p *MemoryPresenter) SetSize(w, h int) {
	p.mu.Lock()
	p.w, p.h = w, h
	p.mu.Unlock()
}

func (p *MemoryPresenter) Present(frame *image.RGBA) error {
	clone := image.NewRGBA(frame.Bounds())
	copy(clone.Pix, frame.Pix)

	p.mu.Lock()
	p.last = clone
	p.frames++
	p.mu.Unlock()
	return nil
}

func (p *MemoryPresenter) SetStatus(text string) {
	p.mu.Lock()
	p.status = text
	p.mu.Unlock()
}

func (p *MemoryPresenter) Fini() {}

// LastFrame returns a copy of the most recent frame, or nil.
func (p *MemoryPresenter) LastFrame() *image.RGBA {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last
}

// FrameCount returns how many frames have been presented.
func (p *MemoryPresenter) FrameCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.frames
}

// Status returns the last status line text.
func (p *MemoryPresenter) Status() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}
