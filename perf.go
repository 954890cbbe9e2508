package tinsel

import "math"

const (
	perfSeedDT  = 1000.0 / 60
	perfMaxDT   = 250.0
	perfEMAKeep = 0.92
)

// PerfMonitor estimates the frame rate from an exponential moving average of
// frame deltas. The zero value is not ready; use NewPerfMonitor.
type PerfMonitor struct {
	ema     float64
	fps     float64
	last    float64
	hasLast bool
}

// NewPerfMonitor returns a monitor seeded at 60 fps.
func NewPerfMonitor() PerfMonitor {
	return PerfMonitor{ema: perfSeedDT, fps: 60}
}

// Sample records a frame timestamp in milliseconds. The first sample after
// construction or Reset only sets the baseline. Deltas that are not positive
// or exceed 250 ms are dropped.
func (m *PerfMonitor) Sample(now float64) {
	if !m.hasLast {
		m.last = now
		m.hasLast = true
		return
	}
	dt := now - m.last
	m.last = now
	if !(dt > 0 && dt < perfMaxDT) {
		return
	}
	m.ema = m.ema*perfEMAKeep + dt*(1-perfEMAKeep)
	m.fps = clamp(1000/math.Max(1, m.ema), 1, 240)
}

// Reset forgets the time baseline so the next delta is not inflated by a
// pause. The running average is kept.
func (m *PerfMonitor) Reset() {
	m.hasLast = false
}

// FPS returns the current estimate, in [1, 240].
func (m *PerfMonitor) FPS() float64 {
	return m.fps
}

// FrameTime returns the smoothed frame time in milliseconds.
func (m *PerfMonitor) FrameTime() float64 {
	return m.ema
}
