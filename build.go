package tinsel

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// --- Tree geometry ---

// TreeBounds is the size-dependent geometry of the tree, recomputed on every
// rebuild.
type TreeBounds struct {
	// TopY and BottomY are the apex and base heights in screen pixels.
	TopY, BottomY float64
	// MaxR is the cone radius at the base.
	MaxR float64
	// Globe is set in ModeGlobe. GlobeX, GlobeY and GlobeR describe the clip
	// circle in screen pixels.
	Globe                  bool
	GlobeX, GlobeY, GlobeR float64
}

// Height returns the vertical extent of the tree.
func (b TreeBounds) Height() float64 {
	return b.BottomY - b.TopY
}

// RadiusAt returns the cone radius at normalized height t (0 apex, 1 base).
func (b TreeBounds) RadiusAt(t float64) float64 {
	return math.Pow(t, 0.9) * b.MaxR
}

// computeBounds derives the tree bounds for a w×h surface in the given mode.
// In globe mode the tree is fitted inside a circle centred low on the screen.
func computeBounds(w, h float64, mode Mode) TreeBounds {
	short := math.Min(w, h)
	b := TreeBounds{MaxR: short * 0.23}
	if mode != ModeGlobe {
		b.TopY = h * 0.18
		b.BottomY = h * 0.86
		return b
	}
	b.Globe = true
	b.GlobeX = w * 0.5
	b.GlobeY = h * 0.55
	b.GlobeR = short * 0.42
	margin := b.GlobeR * 0.9
	b.TopY = b.GlobeY - margin*0.85
	b.BottomY = b.GlobeY + margin*0.65
	return b
}

// --- Budgets ---

// LightCount returns the tree-body light budget for a w×h surface. It scales
// with area and density and is clamped to [1600, 9000], or [1200, 5200] in
// perf mode.
func LightCount(w, h, density float64, perf bool) int {
	lo, hi := 1600.0, 9000.0
	if perf {
		lo, hi = 1200, 5200
	}
	density = finiteOr(density, 1)
	return int(clamp(math.Floor(w*h*0.00011*density), lo, hi))
}

// snowBudget returns the snow count for a w×h surface at the given amount
// and adaptive multiplier.
func snowBudget(w, h, amount, mul float64, perf bool) int {
	amount = clamp(finiteOr(amount, 1), 0.2, 2.2)
	div, lo, hi := 1.0, 180.0, 720.0
	if perf {
		div, lo, hi = 1.6, 110, 420
	}
	k := amount * mul
	base := math.Floor(w * h * 0.000035 / div * k)
	return int(clamp(base, math.Floor(lo*k), math.Floor(hi*k)))
}

// garlandCount returns the number of bulbs per garland strand.
func garlandCount(lights int, perf bool) int {
	frac, hi := 0.085, 1100.0
	if perf {
		frac, hi = 0.06, 700
	}
	return int(clamp(math.Floor(float64(lights)*frac), 160, hi))
}

// trunkCount returns the number of trunk glow lights.
func trunkCount(lights int, perf bool) int {
	hi := 360.0
	if perf {
		hi = 260
	}
	return int(clamp(math.Floor(float64(lights)*0.055), 80, hi))
}

// --- Population ---

// build regenerates every particle collection from the current size and
// settings and resets the firework pool.
func (s *Scene) build() {
	s.lights = s.lights[:0]
	s.wires = s.wires[:0]
	s.snow = s.snow[:0]
	s.fireworks = s.fireworks[:0]
	s.nextRocket = 0
	s.fwClockSet = false

	w, h := s.cam.Width, s.cam.Height
	st := &s.settings
	s.bounds = computeBounds(w, h, st.Mode)

	count := LightCount(w, h, st.Density, st.Perf)
	s.buildTreeBody(count)
	if st.Garland {
		s.buildGarland(garlandCount(count, st.Perf))
	}
	s.buildTipSparkle()
	s.buildTrunkGlow(trunkCount(count, st.Perf))

	if st.Snow {
		n := snowBudget(w, h, st.SnowAmount, 1, st.Perf)
		for i := 0; i < n; i++ {
			s.snow = append(s.snow, s.spawnSnowflake(true))
		}
	}
	s.debugBuild(count)
}

// newLight fills the fields shared by every light kind.
func (s *Scene) newLight(x, y, z, radius float64, color, alt int, twinkle, shift Range, kind LightKind) Light {
	return Light{
		X: x, Y: y, Z: z,
		Radius:        radius,
		ColorIndex:    color,
		AltColorIndex: alt,
		Phase:         randPhase(s.rng),
		TwinkleSpeed:  twinkle.Rand(s.rng),
		ShiftSpeed:    shift.Rand(s.rng),
		Drift:         randBetween(s.rng, -1, 1) * 0.75,
		Kind:          kind,
	}
}

// randColored returns a random non-white palette index.
func (s *Scene) randColored() int {
	return s.rng.IntN(PaletteWhite)
}

// buildTreeBody scatters count lights uniformly inside the cone. Height is
// biased toward the base and the radius is sampled with sqrt for uniform
// area density.
func (s *Scene) buildTreeBody(count int) {
	b := s.bounds
	size := s.settings.Size
	for i := 0; i < count; i++ {
		t := math.Pow(s.rng.Float64(), 0.72)
		y := b.TopY + t*b.Height()
		rAtY := b.RadiusAt(t)
		theta := randPhase(s.rng)
		rr := math.Sqrt(s.rng.Float64()) * rAtY
		sin, cos := math.Sincos(theta)
		x := cos * rr
		z := sin*rr + randBetween(s.rng, -1, 1)*rAtY*0.18

		radius := randBetween(s.rng, 0.85*size, 3.2*size) * (1 - t*0.18)
		color := s.randColored()
		if s.rng.Float64() < 0.14 {
			color = PaletteWhite
		}
		s.lights = append(s.lights, s.newLight(x, y, z, radius, color, s.randColored(),
			Range{0.75, 1.85}, Range{0.25, 1.15}, LightTree))
	}
}

// buildGarland lays helical strands along the cone surface, slightly inside
// the body. Each strand is also kept as a wire.
func (s *Scene) buildGarland(perStrand int) {
	const turns = 3.2
	strands := 2
	if s.settings.Perf {
		strands = 1
	}
	b := s.bounds
	size := s.settings.Size
	for k := 0; k < strands; k++ {
		strandPhase := float64(k) / float64(strands) * math.Pi
		wire := make(Wire, 0, perStrand)
		for i := 0; i < perStrand; i++ {
			t := float64(i) / float64(max(1, perStrand-1))
			y := b.TopY + t*b.Height()
			r := b.RadiusAt(t) * 0.94
			theta := t*math.Pi*2*turns + strandPhase
			j := (1 - t) * 0.6
			sin, cos := math.Sincos(theta)
			x := cos*r + randBetween(s.rng, -1.2, 1.2)*j
			z := sin*r + randBetween(s.rng, -1.2, 1.2)*j
			wire = append(wire, mgl64.Vec3{x, y, z})

			color := garlandColors[s.rng.IntN(len(garlandColors))]
			s.lights = append(s.lights, s.newLight(x, y, z, randBetween(s.rng, 1.05*size, 2.6*size),
				color, PaletteWhite, Range{1.0, 2.2}, Range{0.2, 0.6}, LightGarland))
		}
		if len(wire) > 1 {
			s.wires = append(s.wires, wire)
		}
	}
}

// buildTipSparkle adds a small cluster of mostly white lights at the apex.
func (s *Scene) buildTipSparkle() {
	n := 16
	if s.settings.Perf {
		n = 10
	}
	b := s.bounds
	size := s.settings.Size
	for i := 0; i < n; i++ {
		a := randPhase(s.rng)
		r := randBetween(s.rng, 0, b.MaxR*0.10) * math.Sqrt(s.rng.Float64())
		sin, cos := math.Sincos(a)
		x := cos * r
		z := sin * r * 0.45
		y := b.TopY + randBetween(s.rng, 0, b.MaxR*0.12)
		color := PaletteGold
		if s.rng.Float64() < 0.75 {
			color = PaletteWhite
		}
		s.lights = append(s.lights, s.newLight(x, y, z, randBetween(s.rng, 0.9*size, 2.0*size),
			color, PaletteWhite, Range{0.95, 1.8}, Range{0.15, 0.45}, LightStar))
	}
}

// buildTrunkGlow adds warm lights tightly clustered around the axis near
// the base.
func (s *Scene) buildTrunkGlow(n int) {
	b := s.bounds
	size := s.settings.Size
	for i := 0; i < n; i++ {
		t := randBetween(s.rng, 0.885, 0.99)
		y := b.TopY + t*b.Height()
		spread := b.RadiusAt(t) * 0.075
		x := randBetween(s.rng, -spread, spread)
		z := randBetween(s.rng, -spread, spread)
		s.lights = append(s.lights, s.newLight(x, y, z, randBetween(s.rng, 1.15*size, 3.1*size),
			PaletteGold, PaletteGold, Range{0.6, 1.2}, Range{}, LightTrunk))
	}
}

// spawnSnowflake creates a flake. Seeded flakes in globe mode are placed
// inside the globe between the tree's top and base; otherwise flakes are
// scattered over an extended band above and below the screen.
func (s *Scene) spawnSnowflake(seed bool) Snowflake {
	w, h := s.cam.Width, s.cam.Height
	perf := s.settings.Perf
	zDepth := s.bounds.MaxR * 1.8

	f := Snowflake{
		Z:     randBetween(s.rng, -zDepth, zDepth),
		Size:  randBetween(s.rng, 0.6, 2.2),
		VY:    randBetween(s.rng, 0.35, 1.35),
		Phase: randPhase(s.rng),
	}
	if perf {
		f.Size *= 0.9
	}

	if b := s.bounds; b.Globe {
		r := b.GlobeR * 0.96
		if seed {
			f.Y = randBetween(s.rng, b.TopY, b.BottomY)
			dy := f.Y - b.GlobeY
			half := math.Sqrt(math.Max(0, r*r-dy*dy))
			f.X = randBetween(s.rng, -half, half)
		} else {
			f.X, f.Y = s.randInGlobe(r)
		}
		return f
	}
	f.X = randBetween(s.rng, -w*0.55, w*0.55)
	f.Y = randBetween(s.rng, -h*0.25, h*1.15)
	return f
}

// randInGlobe returns a uniformly random point inside a disk of radius r
// centred on the globe, with x relative to the tree axis.
func (s *Scene) randInGlobe(r float64) (x, y float64) {
	a := randPhase(s.rng)
	rr := math.Sqrt(s.rng.Float64()) * r
	sin, cos := math.Sincos(a)
	return cos * rr, s.bounds.GlobeY + sin*rr
}
