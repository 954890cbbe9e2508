package tinsel

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	fwMinDT = 8.0
	fwMaxDT = 34.0
)

// BurstEvent describes a rocket bursting. It is delivered to Scene.OnBurst
// synchronously from Tick.
type BurstEvent struct {
	// Pos is the burst point in scene space.
	Pos mgl64.Vec3
	// Screen is the projected burst point.
	Screen Projection
	// Pan is the horizontal screen position mapped to [-1, 1].
	Pan   float64
	Color RGB
	// Sparks is the number of spark fragments emitted.
	Sparks int
}

// randUnitDir3 returns a direction uniformly distributed on the unit sphere.
func (s *Scene) randUnitDir3() mgl64.Vec3 {
	u := s.rng.Float64()*2 - 1
	a := randPhase(s.rng)
	r := math.Sqrt(math.Max(0, 1-u*u))
	sin, cos := math.Sincos(a)
	return mgl64.Vec3{r * cos, u, r * sin}
}

// maybeSpawnRocket launches a rocket from below the tree once the spawn
// interval has elapsed and the pool is under its frame-rate scaled cap.
func (s *Scene) maybeSpawnRocket(now float64) {
	perf := s.settings.Perf
	fps := s.perf.FPS()

	poolCap := 360.0
	if perf {
		poolCap = 150
	}
	if float64(len(s.fireworks)) > math.Floor(poolCap*clamp(fps/60, 0.45, 1.1)) {
		return
	}
	if now < s.nextRocket {
		return
	}

	base := 1050.0
	if perf {
		base = 1350
	}
	slow := clamp(60/math.Max(20, fps), 1, 2.6)
	s.nextRocket = now + randBetween(s.rng, base*slow, (base+650)*slow)

	b := s.bounds
	vy := randBetween(s.rng, -4.6, -6.2)
	if perf {
		vy *= 0.95
	}
	pos := mgl64.Vec3{
		randBetween(s.rng, -b.MaxR*0.55, b.MaxR*0.55),
		b.BottomY + randBetween(s.rng, 40, 110),
		randBetween(s.rng, -b.MaxR, b.MaxR) * 0.35,
	}
	life := randBetween(s.rng, 820, 1100)
	s.fireworks = append(s.fireworks, Firework{
		Pos:    pos,
		Prev:   pos,
		Vel:    mgl64.Vec3{randBetween(s.rng, -0.18, 0.18), vy, randBetween(s.rng, -0.12, 0.12)},
		Radius: randBetween(s.rng, 1.2, 2.2) * s.settings.Size,
		Color:  Palette[s.randColored()],
		Life:   life,
		Life0:  life,
		Drag:   0.992,
		Phase:  randPhase(s.rng),
		Kind:   FireworkRocket,
		BurstY: randBetween(s.rng, b.TopY+30, b.TopY+b.Height()*0.35),
	})
}

// newFragment builds a burst or trail particle at pos.
func (s *Scene) newFragment(pos, vel mgl64.Vec3, radius float64, color RGB, life Range, drag float64, kind FireworkKind) Firework {
	l := life.Rand(s.rng)
	return Firework{
		Pos:    pos,
		Prev:   pos,
		Vel:    vel,
		Radius: radius,
		Color:  color,
		Life:   l,
		Life0:  l,
		Drag:   drag,
		Phase:  randPhase(s.rng),
		Kind:   kind,
	}
}

// burst replaces a rocket with a flash, a shell of sparks in two speed
// bands, and a few slow embers. New particles go to s.spawned.
func (s *Scene) burst(fw *Firework) {
	perf := s.settings.Perf
	size := s.settings.Size
	fpsF := clamp(s.perf.FPS()/60, 0.5, 1.05)

	count, baseSpd, upBias, emberSpd, embers := 56.0, 1.25, 0.16, 0.7, 10.0
	if perf {
		count, baseSpd, upBias, emberSpd, embers = 28, 1.05, 0.12, 0.55, 6
	}

	jitter := func(c uint8) uint8 {
		return uint8(clamp(math.Round(float64(c)+randBetween(s.rng, -18, 18)), 0, 255))
	}
	col := RGB{jitter(fw.Color.R), jitter(fw.Color.G), jitter(fw.Color.B)}

	s.spawned = append(s.spawned, s.newFragment(fw.Pos, mgl64.Vec3{},
		randBetween(s.rng, 3.6, 5.6)*size, col, Range{160, 240}, 0.92, FireworkFlash))

	n := int(math.Floor(count * fpsF))
	for i := 0; i < n; i++ {
		dir := s.randUnitDir3()
		dir[1] = clamp(dir[1]-upBias, -1, 1)
		sp := baseSpd * randBetween(s.rng, 0.65, 1.55)
		if s.rng.Float64() < 0.25 {
			sp *= 0.55
		}
		s.spawned = append(s.spawned, s.newFragment(fw.Pos, dir.Mul(sp),
			randBetween(s.rng, 1.0, 2.2)*size, col, Range{980, 1680}, 0.986, FireworkSpark))
	}

	for i := int(math.Floor(embers * fpsF)); i > 0; i-- {
		sp := emberSpd * randBetween(s.rng, 0.35, 1)
		s.spawned = append(s.spawned, s.newFragment(fw.Pos, s.randUnitDir3().Mul(sp),
			randBetween(s.rng, 0.8, 1.4)*size, emberColor, Range{1200, 2000}, 0.992, FireworkTrail))
	}

	if s.OnBurst != nil {
		p := s.cam.Project(fw.Pos.X(), fw.Pos.Y(), fw.Pos.Z(), 0)
		s.OnBurst(BurstEvent{
			Pos:    fw.Pos,
			Screen: p,
			Pan:    clamp(p.X/math.Max(1, s.cam.Width)*2-1, -1, 1),
			Color:  col,
			Sparks: n,
		})
	}
}

// emitTrail drops a short-lived ember behind a climbing rocket.
func (s *Scene) emitTrail(fw *Firework) {
	pos := fw.Pos.Add(mgl64.Vec3{
		randBetween(s.rng, -1.2, 1.2),
		randBetween(s.rng, 4, 10),
		randBetween(s.rng, -1.2, 1.2),
	})
	vel := mgl64.Vec3{
		fw.Vel.X()*0.05 + randBetween(s.rng, -0.05, 0.05),
		randBetween(s.rng, 0.08, 0.22),
		fw.Vel.Z()*0.05 + randBetween(s.rng, -0.05, 0.05),
	}
	s.spawned = append(s.spawned, s.newFragment(pos, vel,
		randBetween(s.rng, 0.75, 1.35)*s.settings.Size, emberColor, Range{220, 360}, 0.94, FireworkTrail))
}

// updateFireworks spawns rockets and integrates every particle with real
// elapsed time. Rockets feel no gravity and burst at their BurstY; every
// particle is removed once its life runs out.
func (s *Scene) updateFireworks(now float64) {
	if !s.settings.Fireworks {
		s.fireworks = s.fireworks[:0]
		s.fwClockSet = false
		return
	}
	s.maybeSpawnRocket(now)

	last := now
	if s.fwClockSet {
		last = s.fwLast
	}
	s.fwLast = now
	s.fwClockSet = true
	dt := clamp(now-last, fwMinDT, fwMaxDT)

	perf := s.settings.Perf
	g, flutter, trailPer, trailCap := 0.0125, 0.0009, 2, 4
	if perf {
		g, flutter, trailPer, trailCap = 0.0115, 0.00065, 1, 2
	}
	trailAdds := 0

	s.spawned = s.spawned[:0]
	kept := s.fireworks[:0]
	for i := range s.fireworks {
		fw := s.fireworks[i]
		fw.Life -= dt
		if fw.Life <= 0 {
			continue
		}

		fw.Prev = fw.Pos
		fw.Vel = fw.Vel.Mul(fw.Drag)
		if fw.Kind != FireworkRocket {
			fw.Vel[1] += g * dt
		}
		if fw.Kind == FireworkSpark {
			j := flutter * dt
			sin, cos := math.Sincos(now*0.006 + fw.Phase)
			fw.Vel[0] += sin * j
			fw.Vel[2] += cos * j
		}
		fw.Pos = fw.Pos.Add(fw.Vel.Mul(dt))

		if fw.Kind == FireworkRocket {
			for k := 0; k < trailPer && trailAdds < trailCap; k++ {
				s.emitTrail(&fw)
				trailAdds++
			}
			if fw.Pos.Y() <= fw.BurstY {
				s.burst(&fw)
				continue
			}
		}
		kept = append(kept, fw)
	}
	s.fireworks = append(kept, s.spawned...)
}
