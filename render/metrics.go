package render

import (
	"log"
	"sort"
	"time"
)

// FPSObserver receives periodic frame rate telemetry.
type FPSObserver interface {
	ObserveFPS(fps float64)
}

// FPSLogger logs frame rate updates to the provided logger.
type FPSLogger struct {
	logger *log.Logger
}

// NewFPSLogger creates an observer that logs FPS updates.
func NewFPSLogger(l *log.Logger) *FPSLogger {
	if l == nil {
		l = log.Default()
	}
	return &FPSLogger{logger: l}
}

func (f *FPSLogger) ObserveFPS(fps float64) {
	if f == nil || f.logger == nil {
		return
	}
	f.logger.Printf("render fps=%.1f", fps)
}

// fpsMeter keeps a sliding window of frame intervals and reports a
// trimmed average, so one slow frame does not spike the reading.
type fpsMeter struct {
	window   []time.Duration
	size     int
	last     time.Time
	report   time.Duration
	lastEmit time.Time
}

func newFPSMeter(windowSize int, reportEvery time.Duration) *fpsMeter {
	if windowSize < 4 {
		windowSize = 4
	}
	return &fpsMeter{size: windowSize, report: reportEvery}
}

// tick records one frame boundary and returns (fps, true) when a new
// report is due.
func (m *fpsMeter) tick(now time.Time) (float64, bool) {
	if m.last.IsZero() {
		m.last = now
		m.lastEmit = now
		return 0, false
	}
	m.window = append(m.window, now.Sub(m.last))
	m.last = now
	if len(m.window) > m.size {
		m.window = m.window[1:]
	}

	if now.Sub(m.lastEmit) < m.report || len(m.window) < 4 {
		return 0, false
	}
	m.lastEmit = now
	return m.average(), true
}

// average drops the slowest and fastest quarter of the window and
// averages the rest.
func (m *fpsMeter) average() float64 {
	sorted := append([]time.Duration(nil), m.window...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	trim := len(sorted) / 4
	kept := sorted[trim : len(sorted)-trim]
	var total time.Duration
	for _, d := range kept {
		total += d
	}
	if total <= 0 {
		return 0
	}
	return float64(len(kept)) / total.Seconds()
}
