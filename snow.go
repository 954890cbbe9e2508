package tinsel

import "math"

// Per-tick caps on how fast the live snow population follows its target.
const (
	snowAddCap        = 10
	snowAddCapPerf    = 6
	snowRemoveCap     = 30
	snowRemoveCapPerf = 18
)

// adaptiveSnowMul maps the measured frame rate to a snow count multiplier.
func adaptiveSnowMul(fps float64) float64 {
	switch {
	case fps < 30:
		return 0.45
	case fps < 40:
		return 0.62
	case fps < 50:
		return 0.82
	}
	return 1
}

// SnowTarget returns the snow population the scene is currently steering
// toward: the seeding budget scaled by the adaptive frame rate multiplier
// and the active boost. It is 0 when snow is off.
func (s *Scene) SnowTarget(now float64) int {
	st := &s.settings
	if !st.Snow {
		return 0
	}
	mul := 1.0
	if st.AdaptiveSnow {
		mul = adaptiveSnowMul(s.perf.FPS())
	}
	base := snowBudget(s.cam.Width, s.cam.Height, st.SnowAmount, mul, st.Perf)
	return int(math.Floor(float64(base) * (1 + s.boost.Level(now)*1.35)))
}

// reconcileSnow nudges the live population toward SnowTarget by at most a
// few flakes per tick. Disabled snow is cleared at once.
func (s *Scene) reconcileSnow(now float64) {
	target := s.SnowTarget(now)
	if target == 0 {
		s.snow = s.snow[:0]
		return
	}
	addCap, removeCap := snowAddCap, snowRemoveCap
	if s.settings.Perf {
		addCap, removeCap = snowAddCapPerf, snowRemoveCapPerf
	}
	n := len(s.snow)
	switch {
	case n < target:
		for i := min(target-n, addCap); i > 0; i-- {
			s.snow = append(s.snow, s.spawnSnowflake(false))
		}
	case n > target:
		s.snow = s.snow[:max(target, n-removeCap)]
	}
}

// updateSnow advances every flake by one tick: fall, wind drift, optional
// tilt from the orientation sensor, and the swirl field in globe mode.
func (s *Scene) updateSnow(now float64) {
	st := &s.settings
	w, h := s.cam.Width, s.cam.Height

	wind := st.Wind * 0.9
	tilt, tilted := 0.0, false
	if s.gyroActive() && st.GyroSnow {
		o := s.orientation
		wind += clamp(o.Gamma/45, -1, 1) * 0.8
		tilt = clamp((o.Beta-45)/45, -0.5, 0.5)
		tilted = true
	}
	fall := (1 + s.boost.Level(now)*0.65) * st.SnowSpeed

	for i := range s.snow {
		f := &s.snow[i]
		if tilted {
			f.VY = clamp(f.VY*(1+tilt*0.15), 0.2, 2.5)
		}
		f.Y += f.VY * fall
		f.X += f.VX + wind*(0.8+0.35*math.Sin(now*0.001+f.Phase))

		if s.bounds.Globe {
			s.swirl(f)
		}
		if f.Y > h*1.12 {
			f.Y = -h * 0.12
			f.X = randBetween(s.rng, -w*0.55, w*0.55)
			f.VX = 0
		}
	}
}

// swirl applies the globe's tangential flow field to f. The pointer
// strengthens the swirl while it is inside the globe. Flakes that leave the
// globe respawn inside it.
func (s *Scene) swirl(f *Snowflake) {
	b := s.bounds
	r := b.GlobeR

	dx := f.X
	dy := f.Y - b.GlobeY
	dist := math.Hypot(dx, dy) + 1e-6

	px, py := s.pointerWorld()
	md := math.Hypot(px, py-b.GlobeY)
	mouseFalloff := 0.0
	if md < r {
		mouseFalloff = clamp(1-md/r, 0, 1)
	}
	falloff := clamp(1-dist/r, 0, 1)

	a := (0.05 + 0.18*mouseFalloff) * falloff
	tx := -dy / dist
	ty := dx / dist
	f.VX = clamp((f.VX+tx*a)*0.985, -1.6, 1.6)
	f.VY = clamp((f.VY+ty*a*0.22)*0.995, 0.1, 2.2)

	if dist >= r {
		f.X, f.Y = s.randInGlobe(r * 0.96)
		f.VX = 0
		f.VY = randBetween(s.rng, 0.35, 1.35)
	}
}

// pointerWorld returns the raw pointer in world coordinates, where x = 0 is
// the tree axis. Without a pointer it sits at the globe centre.
func (s *Scene) pointerWorld() (x, y float64) {
	if !s.pointerSet {
		return 0, s.bounds.GlobeY
	}
	return s.pointerPx - s.cam.Width*0.5, s.pointerPy
}
