package tinsel

import (
	"time"

	"github.com/tanema/gween/ease"
)

const (
	defaultBoostDuration = 4200 * time.Millisecond
	minBoostDuration     = 800 * time.Millisecond
	maxBoostDuration     = 12000 * time.Millisecond
	defaultBoostStrength = 1.0
	maxBoostStrength     = 2.0
)

// BoostOptions configures a boost pulse. Zero fields use the defaults
// (4.2 s, strength 1).
type BoostOptions struct {
	Duration time.Duration
	Strength float64
}

// Boost is a transient pulse that decays from 1 to exactly 0 over its
// duration with a quadratic ease-out.
type Boost struct {
	start    float64 // ms
	duration float64 // ms
	strength float64
	active   bool
}

// Trigger starts a pulse at now (ms). Duration is clamped to [800 ms, 12 s]
// and strength to [0, 2].
func (b *Boost) Trigger(now float64, opts BoostOptions) {
	d := opts.Duration
	if d <= 0 {
		d = defaultBoostDuration
	}
	d = min(max(d, minBoostDuration), maxBoostDuration)

	str := finiteOr(opts.Strength, 0)
	if str == 0 {
		str = defaultBoostStrength
	}

	b.start = now
	b.duration = float64(d.Milliseconds())
	b.strength = clamp(str, 0, maxBoostStrength)
	b.active = true
}

// Factor returns the decay curve at now: 1 at the start, (1-t)^2 in between,
// and 0 before the start or once the duration has elapsed.
func (b *Boost) Factor(now float64) float64 {
	if !b.active || now < b.start || now >= b.start+b.duration {
		return 0
	}
	elapsed := float32(now - b.start)
	return float64(1 - ease.OutQuad(elapsed, 0, 1, float32(b.duration)))
}

// Strength returns the strength of the most recent pulse.
func (b *Boost) Strength() float64 {
	return b.strength
}

// Level returns Factor(now) scaled by strength, the value most effects use.
func (b *Boost) Level(now float64) float64 {
	return b.Factor(now) * b.strength
}
