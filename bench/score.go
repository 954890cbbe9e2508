// Package bench measures how smoothly a tinsel scene runs on the current
// machine and grades it High, Medium or Low.
//
// A Runner steps through a fixed list of phases, each applying its own
// settings to the scene, and samples frame deltas from the host loop. The
// grade combines the mean FPS over all phases with the worst phase's 95th
// percentile frame time, so a high average cannot hide periodic stalls.
package bench

import (
	"fmt"
	"math"
	"slices"
	"strings"
	"time"
)

// Score is the overall grade of a run.
type Score string

const (
	High   Score = "High"
	Medium Score = "Medium"
	Low    Score = "Low"
)

// ScoreFrom grades an average FPS and a p95 frame time in milliseconds.
func ScoreFrom(avgFPS, p95Ms float64) Score {
	switch {
	case avgFPS >= 58 && p95Ms <= 20:
		return High
	case avgFPS >= 45 && p95Ms <= 28:
		return Medium
	}
	return Low
}

// Hint returns the tuning advice shown next to a score.
func (s Score) Hint() string {
	switch s {
	case Low:
		return "Try: enable perf mode, turn fireworks off, lower density."
	case Medium:
		return "Try: enable perf mode when needed, consider turning fireworks off."
	}
	return ""
}

// Percentile returns the p-th percentile of values by the nearest-rank-below
// method: the element at floor(p/100·(n−1)) of the sorted values. An empty
// slice yields 0. values is not modified.
func Percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	idx := int(math.Floor(p / 100 * float64(len(sorted)-1)))
	idx = min(len(sorted)-1, max(0, idx))
	return sorted[idx]
}

// PhaseResult holds the measurements of one phase.
type PhaseResult struct {
	Name     string        `yaml:"name"`
	Duration time.Duration `yaml:"duration"`
	Frames   int           `yaml:"frames"`
	MinFPS   float64       `yaml:"minFps"`
	P95Ms    float64       `yaml:"p95Ms"`
	AvgFPS   float64       `yaml:"avgFps"`
}

// Result is the outcome of a run.
type Result struct {
	At      time.Time     `yaml:"at"`
	Score   Score         `yaml:"score"`
	AvgFPS  float64       `yaml:"avgFps"`
	P95Ms   float64       `yaml:"p95Ms"`
	Perf    bool          `yaml:"perf"`
	Stopped bool          `yaml:"stopped,omitempty"`
	Phases  []PhaseResult `yaml:"results"`
}

// summarize grades a list of phase results: the mean of the phase averages
// and the worst phase p95.
func summarize(phases []PhaseResult) (avg, p95 float64, score Score) {
	if len(phases) == 0 {
		return 0, 0, ScoreFrom(0, 0)
	}
	for _, p := range phases {
		avg += p.AvgFPS
		p95 = math.Max(p95, p.P95Ms)
	}
	avg /= float64(len(phases))
	return avg, p95, ScoreFrom(avg, p95)
}

// Report formats r as human-readable lines.
func (r Result) Report() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Result: %s\n", r.Score)
	fmt.Fprintf(&b, "Avg: %.1f FPS  |  p95: %.1f ms\n", r.AvgFPS, r.P95Ms)
	if h := r.Score.Hint(); h != "" {
		fmt.Fprintf(&b, "%s\n", h)
	}
	if r.Stopped {
		b.WriteString("Stopped early.\n")
	}
	b.WriteString("\n")
	for _, p := range r.Phases {
		fmt.Fprintf(&b, "%s: avg %.1f FPS, p95 %.1f ms\n", p.Name, p.AvgFPS, p.P95Ms)
	}
	return b.String()
}
