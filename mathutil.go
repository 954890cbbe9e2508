package tinsel

import (
	"math"
	"math/rand/v2"
)

// clamp limits v to [lo, hi]. lo <= hi is assumed.
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// lerp linearly interpolates between a and b by t.
func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// randBetween returns a random float64 in [lo, hi).
func randBetween(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

// randPhase returns a random oscillator phase in [0, 2π).
func randPhase(rng *rand.Rand) float64 {
	return rng.Float64() * 2 * math.Pi
}

// smoothNoise01 is a smooth periodic pseudo-noise in roughly [0, 1], built
// from three incommensurate sines.
func smoothNoise01(t float64) float64 {
	return 0.5 +
		0.25*math.Sin(t) +
		0.15*math.Sin(t*0.73+1.7) +
		0.10*math.Sin(t*1.31+0.2)
}

// rotateY rotates (x, z) around the vertical axis by a radians.
func rotateY(x, z, a float64) (float64, float64) {
	s, c := math.Sincos(a)
	return x*c - z*s, x*s + z*c
}

// rotateX rotates (y, z) around the horizontal axis by a radians.
func rotateX(y, z, a float64) (float64, float64) {
	s, c := math.Sincos(a)
	return y*c - z*s, y*s + z*c
}

// finiteOr returns v when it is a finite number and fallback otherwise.
func finiteOr(v, fallback float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	return v
}
