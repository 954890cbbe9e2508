package bench

import (
	"fmt"
	"math"
	"time"

	"github.com/phanxgames/tinsel"
)

// maxSampleMs drops frame deltas at or above this from the percentile
// samples; they come from stalls such as window drags, not rendering.
const maxSampleMs = 200

// Config selects the run variant.
type Config struct {
	// Perf runs every phase with perf mode on and lower densities.
	Perf bool
	// PhaseDuration is how long each phase samples frames.
	PhaseDuration time.Duration
}

// DefaultConfig returns the standard 3×9 s run.
func DefaultConfig() Config {
	return Config{PhaseDuration: 9 * time.Second}
}

// Phase is one step of a run.
type Phase struct {
	Name     string
	Duration time.Duration
	Patch    tinsel.Patch
	// Rebuild regenerates the population when the phase starts.
	Rebuild bool
}

// Phases returns the standard phases: tree and snow, dense lights, then
// fireworks on top of the current population.
func Phases(cfg Config) []Phase {
	d := cfg.PhaseDuration
	if d <= 0 {
		d = DefaultConfig().PhaseDuration
	}
	density := func(normal, perf float64) *float64 {
		if cfg.Perf {
			return tinsel.Ptr(perf)
		}
		return tinsel.Ptr(normal)
	}
	base := func(fireworks bool, dens *float64) tinsel.Patch {
		return tinsel.Patch{
			Mode:      tinsel.Ptr(tinsel.ModeDefault),
			Fireworks: tinsel.Ptr(fireworks),
			Snow:      tinsel.Ptr(true),
			Perf:      tinsel.Ptr(cfg.Perf),
			Density:   dens,
		}
	}
	return []Phase{
		{Name: "Tree + Snow", Duration: d, Patch: base(false, density(1.15, 1.0)), Rebuild: true},
		{Name: "Dense Lights", Duration: d, Patch: base(false, density(1.55, 1.25)), Rebuild: true},
		{Name: "Fireworks On", Duration: d, Patch: base(true, density(1.2, 1.0))},
	}
}

// Runner drives the phases from the host loop. Call Frame once per frame
// with the same millisecond clock given to Scene.Tick.
type Runner struct {
	scene  *tinsel.Scene
	cfg    Config
	phases []Phase

	idx     int
	started bool
	start   float64
	last    float64
	frames  int
	minFPS  float64
	samples []float64

	results  []PhaseResult
	saved    tinsel.Settings
	done     bool
	stopped  bool
	finished time.Time

	// OnPhase, when set, is called as each phase starts.
	OnPhase func(p Phase, index, total int)
}

// NewRunner prepares a run against scene.
func NewRunner(scene *tinsel.Scene, cfg Config) *Runner {
	return &Runner{
		scene:  scene,
		cfg:    cfg,
		phases: Phases(cfg),
	}
}

// Frame records one frame at now and advances phases. It reports whether
// the run is still in progress.
func (r *Runner) Frame(now float64) bool {
	if r.done {
		return false
	}
	if !r.started {
		if r.idx == 0 {
			r.saved = r.scene.Settings()
		}
		r.begin(now)
		return true
	}

	dt := now - r.last
	r.last = now
	if dt > 0 && dt < maxSampleMs {
		r.samples = append(r.samples, dt)
		r.minFPS = math.Min(r.minFPS, 1000/dt)
	}
	r.frames++

	elapsed := now - r.start
	if elapsed < float64(r.phases[r.idx].Duration.Milliseconds()) {
		return true
	}
	r.endPhase(now)
	r.idx++
	if r.idx == len(r.phases) {
		r.finish()
		return false
	}
	r.begin(now)
	return true
}

func (r *Runner) begin(now float64) {
	p := r.phases[r.idx]
	r.scene.SetSettings(p.Patch, tinsel.SetOptions{Rebuild: p.Rebuild})
	r.started = true
	r.start, r.last = now, now
	r.frames = 0
	r.minFPS = math.Inf(1)
	r.samples = r.samples[:0]
	if r.OnPhase != nil {
		r.OnPhase(p, r.idx, len(r.phases))
	}
}

func (r *Runner) endPhase(now float64) {
	p := r.phases[r.idx]
	minFPS := r.minFPS
	if math.IsInf(minFPS, 1) {
		minFPS = 0
	}
	r.results = append(r.results, PhaseResult{
		Name:     p.Name,
		Duration: p.Duration,
		Frames:   r.frames,
		MinFPS:   minFPS,
		P95Ms:    Percentile(r.samples, 95),
		AvgFPS:   float64(r.frames) * 1000 / math.Max(1, now-r.start),
	})
}

// finish restores the settings the scene had before the run.
func (r *Runner) finish() {
	r.done = true
	r.finished = time.Now()
	r.scene.SetSettings(r.saved.Patch(), tinsel.SetOptions{Rebuild: true})
}

// Stop ends the run early. The phase in progress is kept with the frames
// measured so far.
func (r *Runner) Stop() {
	if r.done {
		return
	}
	r.stopped = true
	if r.started {
		r.endPhase(r.last)
		r.finish()
		return
	}
	r.done = true
	r.finished = time.Now()
}

// Done reports whether the run has finished or was stopped.
func (r *Runner) Done() bool {
	return r.done
}

// Status describes the phase in progress, e.g. "Test 2/3: Dense Lights 40%".
func (r *Runner) Status() string {
	switch {
	case r.done && r.stopped:
		return "Stopped."
	case r.done:
		return "Done."
	case !r.started:
		return "Ready."
	}
	p := r.phases[r.idx]
	pct := 100 * (r.last - r.start) / math.Max(1, float64(p.Duration.Milliseconds()))
	return fmt.Sprintf("Test %d/%d: %s %d%%", r.idx+1, len(r.phases), p.Name, int(math.Min(100, math.Round(pct))))
}

// Result returns the graded outcome of the phases completed so far.
func (r *Runner) Result() Result {
	avg, p95, score := summarize(r.results)
	at := r.finished
	if at.IsZero() {
		at = time.Now()
	}
	return Result{
		At:      at,
		Score:   score,
		AvgFPS:  avg,
		P95Ms:   p95,
		Perf:    r.cfg.Perf,
		Stopped: r.stopped,
		Phases:  append([]PhaseResult(nil), r.results...),
	}
}
