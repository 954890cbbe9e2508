package tinsel

import (
	"fmt"
	"os"
	"time"
)

// debugStats holds per-tick timing and population metrics.
// Only populated when Scene.debug is true.
type debugStats struct {
	simTime      time.Duration
	sortTime     time.Duration
	submitTime   time.Duration
	commandCount int
	drawCalls    int
}

// debugTick prints simulation timing and particle counts to stderr.
func (s *Scene) debugTick(stats debugStats) {
	if !s.debug {
		return
	}
	_, _ = fmt.Fprintf(os.Stderr,
		"[tinsel] sim: %v | sort: %v | commands: %d | draw calls: %d | fps: %.1f\n",
		stats.simTime, stats.sortTime, stats.commandCount, stats.drawCalls, s.perf.FPS())
	_, _ = fmt.Fprintf(os.Stderr,
		"[tinsel] lights: %d | snow: %d/%d | fireworks: %d | boost: %.2f\n",
		len(s.lights), len(s.snow), s.SnowTarget(s.now), len(s.fireworks), s.boost.Level(s.now))
}

// debugDraw prints submission timing to stderr.
func (s *Scene) debugDraw(stats debugStats) {
	if !s.debug {
		return
	}
	_, _ = fmt.Fprintf(os.Stderr, "[tinsel] submit: %v | draw calls: %d\n",
		stats.submitTime, stats.drawCalls)
}

// debugBuild reports the result of a rebuild.
func (s *Scene) debugBuild(count int) {
	if !s.debug {
		return
	}
	b := s.bounds
	_, _ = fmt.Fprintf(os.Stderr,
		"[tinsel] rebuild %.0fx%.0f mode=%s perf=%v: body %d | lights %d | wires %d | snow %d\n",
		s.cam.Width, s.cam.Height, s.settings.Mode, s.settings.Perf,
		count, len(s.lights), len(s.wires), len(s.snow))
	_, _ = fmt.Fprintf(os.Stderr, "[tinsel] bounds top=%.1f bottom=%.1f maxR=%.1f\n",
		b.TopY, b.BottomY, b.MaxR)
}

// countDrawCalls counts the draw calls a command list submits: one per run
// of consecutive batchable commands sharing a blend mode, plus the
// background and the globe passes.
func countDrawCalls(commands []RenderCommand) int {
	count := 0
	prevBatch := false
	var prevBlend BlendMode
	for i := range commands {
		cmd := &commands[i]
		switch cmd.Type {
		case CommandBackground:
			count++
			prevBatch = false
		case CommandGlobeBegin:
			prevBatch = false
		case CommandGlobeEnd:
			// mask disc, mask, composite, dim disc, dim and rim
			count += 6
			prevBatch = false
		default:
			if !prevBatch || cmd.BlendMode != prevBlend {
				count++
			}
			prevBatch = true
			prevBlend = cmd.BlendMode
		}
	}
	return count
}
