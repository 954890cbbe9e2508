package sfx

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"

	"github.com/phanxgames/tinsel"
)

// noise streams white noise for a fixed number of samples.
type noise struct {
	rng       *rand.Rand
	remaining int
}

func newNoise(rng *rand.Rand, d time.Duration, rate beep.SampleRate) beep.Streamer {
	return &noise{rng: rng, remaining: rate.N(d)}
}

func (n *noise) Stream(samples [][2]float64) (int, bool) {
	if n.remaining <= 0 {
		return 0, false
	}
	count := min(len(samples), n.remaining)
	for i := 0; i < count; i++ {
		v := n.rng.Float64()*2 - 1
		samples[i][0] = v
		samples[i][1] = v
	}
	n.remaining -= count
	return count, true
}

func (n *noise) Err() error { return nil }

// envelope shapes a stream with a linear attack and an exponential tail and
// ends it after total samples.
type envelope struct {
	streamer beep.Streamer
	pos      int
	attack   int
	total    int
	decay    float64 // per-sample multiplier after the attack
}

func newEnvelope(s beep.Streamer, total, attack time.Duration, rate beep.SampleRate) beep.Streamer {
	n := rate.N(total)
	att := min(rate.N(attack), n)
	tail := max(1, n-att)
	return &envelope{
		streamer: s,
		attack:   att,
		total:    n,
		// -60 dB at the end of the tail
		decay: math.Pow(0.001, 1/float64(tail)),
	}
}

func (e *envelope) Stream(samples [][2]float64) (int, bool) {
	if e.pos >= e.total {
		return 0, false
	}
	if rest := e.total - e.pos; len(samples) > rest {
		samples = samples[:rest]
	}
	n, ok := e.streamer.Stream(samples)
	for i := 0; i < n; i++ {
		var g float64
		if e.pos < e.attack {
			g = float64(e.pos) / float64(e.attack)
		} else {
			g = math.Pow(e.decay, float64(e.pos-e.attack))
		}
		samples[i][0] *= g
		samples[i][1] *= g
		e.pos++
	}
	return n, ok && e.pos < e.total
}

func (e *envelope) Err() error { return e.streamer.Err() }

// gain wraps s in a volume effect. A gain of zero or less is silent.
func gain(s beep.Streamer, g float64) beep.Streamer {
	if g <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(g)}
}

// Loudness maps a burst's spark count to a gain in [0.35, 1].
func Loudness(sparks int) float64 {
	return min(1, max(0.35, math.Sqrt(float64(sparks)/110)))
}

// thumpFreq picks the low body of the pop from the burst color: brighter
// shells sound higher.
func thumpFreq(c tinsel.RGB) float64 {
	_, _, l := c.Colorful().Hcl()
	return 60 + 70*min(1, max(0, l))
}

// Pop builds the sound of one burst: a noise crack over a short sine thump,
// panned toward the burst's side of the screen.
func Pop(cfg Config, e tinsel.BurstEvent, rng *rand.Rand) beep.Streamer {
	rate := beep.SampleRate(cfg.SampleRate)
	length := cfg.Length

	crack := newEnvelope(newNoise(rng, length, rate), length*7/10, 2*time.Millisecond, rate)

	var body beep.Streamer
	if sine, err := generators.SineTone(rate, thumpFreq(e.Color)); err == nil {
		body = newEnvelope(beep.Take(rate.N(length), sine), length, 5*time.Millisecond, rate)
	} else {
		body = beep.Silence(rate.N(length))
	}

	mixed := beep.Mix(gain(crack, 0.55), gain(body, 0.45))
	pan := &effects.Pan{
		Streamer: mixed,
		Pan:      min(1, max(-1, e.Pan*cfg.Stereo)),
	}
	return gain(pan, cfg.Volume*Loudness(e.Sparks))
}
