// Copyright © 2025 Tilemason contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: render/metrics_test.go
// Summary: Frame rate meter tests with synthetic clocks.

package render

import (
	"math"
	"testing"
	"time"
)

func TestFPSMeterSteadyRate(t *testing.T) {
	m := newFPSMeter(16, time.Second)
	now := time.Unix(0, 0)

	var fps float64
	var due bool
	for i := 0; i < 40; i++ {
		now = now.Add(33 * time.Millisecond)
		if f, d := m.tick(now); d {
			fps, due = f, true
		}
	}
	if !due {
		t.Fatal("no report emitted over 1.3s of ticks")
	}
	if math.Abs(fps-30.3) > 1 {
		t.Fatalf("fps = %.2f, want ~30.3", fps)
	}
}

func TestFPSMeterFirstTickPrimesOnly(t *testing.T) {
	m := newFPSMeter(16, time.Second)
	if _, due := m.tick(time.Unix(0, 0)); due {
		t.Fatal("first tick produced a report")
	}
}

func TestFPSMeterTrimsOutliers(t *testing.T) {
	m := newFPSMeter(16, 200*time.Millisecond)
	now := time.Unix(0, 0)

	// Steady 10ms cadence with one 500ms stall in the middle.
	var fps float64
	var due bool
	for i := 0; i < 30; i++ {
		step := 10 * time.Millisecond
		if i == 15 {
			step = 500 * time.Millisecond
		}
		now = now.Add(step)
		if f, d := m.tick(now); d {
			fps, due = f, true
		}
	}
	if !due {
		t.Fatal("no report emitted")
	}
	// The stall sits in the trimmed quarter; the reading stays near
	// the steady 100fps cadence.
	if fps < 90 {
		t.Fatalf("fps = %.2f, stall was not trimmed", fps)
	}
}

func TestFPSMeterRespectsReportInterval(t *testing.T) {
	m := newFPSMeter(16, time.Second)
	now := time.Unix(0, 0)

	reports := 0
	for i := 0; i < 100; i++ {
		now = now.Add(33 * time.Millisecond)
		if _, due := m.tick(now); due {
			reports++
		}
	}
	// 3.3s of ticks at a 1s report interval.
	if reports < 2 || reports > 4 {
		t.Fatalf("got %d reports over 3.3s, want ~3", reports)
	}
}
