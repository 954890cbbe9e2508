package tinsel

import "math"

// CommandType identifies the kind of render command.
type CommandType uint8

const (
	CommandBackground CommandType = iota // full-surface radial gradient
	CommandGlobeBegin                    // start clipping to the globe circle
	CommandWire                          // garland wire segment
	CommandLight                         // tree light: halo plus core disc
	CommandSnow                          // snowflake disc
	CommandStreak                        // firework motion streak
	CommandSpark                         // firework dot: soft halo plus core disc
	CommandGlobeEnd                      // stop clipping, dim the outside, draw the rim
)

// String returns the command name, used in debug output.
func (t CommandType) String() string {
	switch t {
	case CommandBackground:
		return "background"
	case CommandGlobeBegin:
		return "globe-begin"
	case CommandWire:
		return "wire"
	case CommandLight:
		return "light"
	case CommandSnow:
		return "snow"
	case CommandStreak:
		return "streak"
	case CommandSpark:
		return "spark"
	case CommandGlobeEnd:
		return "globe-end"
	}
	return "unknown"
}

// RenderCommand is a single draw instruction in logical pixels. The meaning
// of the geometry fields depends on Type:
//
//   - discs (light, snow, spark): centre X, Y; Radius is the outer radius and
//     Core the solid core radius (0 for snow)
//   - segments (wire, streak): from X0, Y0 to X, Y; Radius is the half width
//   - globe commands: centre X, Y and Radius of the circle
type RenderCommand struct {
	Type      CommandType
	X, Y      float64
	X0, Y0    float64
	Radius    float64
	Core      float64
	Color     RGB
	Alpha     float64
	Twinkle   float64
	Depth     float64
	BlendMode BlendMode
	order     int // emission order for stable sort
}

// --- Shading profiles ---

// Glow profiles are shared by the GPU textures and the CPU rasterizer so both
// surfaces agree on what a light looks like.

const (
	// lightHaloSpan is the fraction of the light gradient radius covered by
	// the filled halo disc.
	lightHaloSpan = 2.1 / 5.2
	// sparkHaloSpan is the same ratio for firework dots.
	sparkHaloSpan = 2.15 / 5.4
)

// gradient3 evaluates a three-stop linear gradient at t in [0, 1].
func gradient3(t, a0, tm, am, a1 float64) float64 {
	if t <= tm {
		return lerp(a0, am, t/tm)
	}
	return lerp(am, a1, (t-tm)/(1-tm))
}

// LightHaloAlpha returns the halo opacity of a light at normalized distance u
// (0 centre, 1 halo edge) for twinkle level tw.
func LightHaloAlpha(u, tw float64) float64 {
	if u >= 1 {
		return 0
	}
	return gradient3(u*lightHaloSpan, 0.55+tw*0.35, 0.35, 0.22+tw*0.12, 0.12+tw*0.12)
}

// SparkHaloAlpha returns the halo opacity of a firework dot at normalized
// distance u for twinkle level tw, before the command alpha is applied.
func SparkHaloAlpha(u, tw float64) float64 {
	if u >= 1 {
		return 0
	}
	return gradient3(u*sparkHaloSpan, 0.34+tw*0.14, 0.32, 0.10+tw*0.06, 0)
}

// StreakAlpha returns the streak opacity at fraction t along the segment
// (0 tail, 1 head), before the command alpha is applied.
func StreakAlpha(t float64) float64 {
	return gradient3(clamp(t, 0, 1), 0, 0.22, 0.55, 1)
}

// Core disc opacities, multiplied by the command alpha.
const (
	LightCoreAlpha = 0.9
	SparkCoreAlpha = 0.72
)

// --- Emission ---

// push appends a command with the next emission order.
func (s *Scene) push(cmd RenderCommand) {
	cmd.order = len(s.commands)
	s.commands = append(s.commands, cmd)
}

// emitWires emits garland wire segments, culling ones fully off screen.
func (s *Scene) emitWires() {
	if !s.settings.Garland || len(s.wires) == 0 {
		return
	}
	w, h := s.cam.Width, s.cam.Height
	mobile := math.Min(w, h) < 520
	width, alpha := 1.05, 0.65
	if mobile {
		width, alpha = 1.35, 0.9
	}
	alpha *= s.theme.WireAlpha
	col := s.theme.wireColor()

	for _, wire := range s.wires {
		prev := s.cam.Project(wire[0].X(), wire[0].Y(), wire[0].Z(), 0)
		for _, pt := range wire[1:] {
			cur := s.cam.Project(pt.X(), pt.Y(), pt.Z(), 0)
			a, b := prev, cur
			prev = cur
			if (a.X < -60 && b.X < -60) || (a.X > w+60 && b.X > w+60) ||
				(a.Y < -90 && b.Y < -90) || (a.Y > h+90 && b.Y > h+90) {
				continue
			}
			sc := clamp(math.Min(a.S, b.S), 0.35, 1.25)
			s.push(RenderCommand{
				Type:   CommandWire,
				X0:     a.X,
				Y0:     a.Y,
				X:      b.X,
				Y:      b.Y,
				Radius: width * sc * 0.5,
				Color:  col,
				Alpha:  alpha,
			})
		}
	}
}

// emitLights projects every light, emits it, and sorts the run back to
// front by rotated depth.
func (s *Scene) emitLights(now float64) {
	st := &s.settings
	boost := s.boost.Level(now)
	glowMul := st.Glow
	if st.Perf {
		glowMul *= 0.8 * (1 + boost*0.45)
	} else {
		glowMul *= 1 + boost*0.65
	}
	screenMul := clamp(math.Min(s.cam.Width, s.cam.Height)/760, 0.68, 1)
	spread := 1.0
	if screenMul < 0.9 {
		spread = 0.86
	}

	start := len(s.commands)
	for i := range s.lights {
		l := &s.lights[i]
		p := s.cam.Project(l.X, l.Y, l.Z, s.swayA*l.Drift)
		tw := 0.55 + 0.45*math.Sin(now*0.001*l.TwinkleSpeed+l.Phase)

		col := Palette[l.ColorIndex]
		if l.Kind == LightTree {
			shift := smoothNoise01(now*0.00025*st.Color*l.ShiftSpeed + l.Phase)
			col = blendRGB(col, Palette[l.AltColorIndex], shift)
		}

		rr := math.Max(0.6, l.Radius) * glowMul * screenMul
		s.push(RenderCommand{
			Type:    CommandLight,
			X:       p.X,
			Y:       p.Y,
			Radius:  rr * 2.1 * spread * p.S,
			Core:    math.Max(0.65, rr*0.72) * p.S,
			Color:   col,
			Alpha:   1,
			Twinkle: tw,
			Depth:   p.Depth,
		})
	}
	s.sortBuf = sortByDepth(s.commands[start:], s.sortBuf)
}

// blendRGB interpolates a to b by t per channel, rounding to the nearest
// integer. t outside [0, 1] extrapolates and is clamped to the 8-bit range.
func blendRGB(a, b RGB, t float64) RGB {
	ch := func(x, y uint8) uint8 {
		return uint8(clamp(math.Round(lerp(float64(x), float64(y), t)), 0, 255))
	}
	return RGB{ch(a.R, b.R), ch(a.G, b.G), ch(a.B, b.B)}
}

// emitSnow emits every snowflake as a soft white disc.
func (s *Scene) emitSnow(now float64) {
	boost := s.boost.Level(now)
	size := s.settings.SnowSize
	white := Palette[PaletteWhite]
	for i := range s.snow {
		f := &s.snow[i]
		p := s.cam.Project(f.X, f.Y, f.Z, 0)
		a := 0.12 + 0.18*math.Sin(now*0.0014+f.Phase) + boost*0.10
		if a <= 0 {
			continue
		}
		s.push(RenderCommand{
			Type:   CommandSnow,
			X:      p.X,
			Y:      p.Y,
			Radius: f.Size * (0.75 + p.S*0.55) * size,
			Color:  white,
			Alpha:  a,
		})
	}
}

// emitFireworks emits a streak and a dot for every visible firework
// particle. Flashes have no streak.
func (s *Scene) emitFireworks(now float64) {
	w, h := s.cam.Width, s.cam.Height
	for i := range s.fireworks {
		fw := &s.fireworks[i]
		p := s.cam.Project(fw.Pos.X(), fw.Pos.Y(), fw.Pos.Z(), 0)
		if p.X < -80 || p.X > w+80 || p.Y < -120 || p.Y > h+120 {
			continue
		}
		prev := s.cam.Project(fw.Prev.X(), fw.Prev.Y(), fw.Prev.Z(), 0)

		life := fw.life01()
		tw := 0.6 + 0.4*math.Sin(now*0.004+fw.Phase)
		rr := fw.Radius * (0.85 + p.S*0.55)
		if fw.Kind == FireworkSpark {
			rr *= 0.65 + life*0.55
		}

		a := 0.72
		exp := 1.25
		switch fw.Kind {
		case FireworkRocket:
			a = 0.82
		case FireworkFlash:
			a = 0.95
		case FireworkTrail:
			exp = 1.6
		}
		a *= math.Pow(life, exp)
		a *= 0.75 + tw*0.25

		if fw.Kind != FireworkFlash && math.Hypot(p.X-prev.X, p.Y-prev.Y) > 1 {
			s.push(RenderCommand{
				Type:      CommandStreak,
				X0:        prev.X,
				Y0:        prev.Y,
				X:         p.X,
				Y:         p.Y,
				Radius:    math.Max(0.8, rr*0.9*0.55),
				Color:     fw.Color,
				Alpha:     a * 0.85,
				BlendMode: BlendAdd,
			})
		}
		s.push(RenderCommand{
			Type:      CommandSpark,
			X:         p.X,
			Y:         p.Y,
			Radius:    rr * 2.15 * p.S,
			Core:      math.Max(0.7, rr*0.82) * p.S,
			Color:     fw.Color,
			Alpha:     a,
			Twinkle:   tw,
			Depth:     p.Depth,
			BlendMode: BlendAdd,
		})
	}
}

// --- Merge sort ---

// depthLessOrEqual reports whether a paints before or together with b.
// Ties keep emission order.
func depthLessOrEqual(a, b *RenderCommand) bool {
	if a.Depth != b.Depth {
		return a.Depth < b.Depth
	}
	return a.order <= b.order
}

// sortByDepth stably sorts cmds in place by ascending depth using buf as
// scratch space and returns the (possibly grown) buffer. Bottom-up merge
// sort: zero allocations once buf reaches its high-water mark.
func sortByDepth(cmds, buf []RenderCommand) []RenderCommand {
	n := len(cmds)
	if n <= 1 {
		return buf
	}
	if cap(buf) < n {
		buf = make([]RenderCommand, n)
	}
	buf = buf[:n]

	a, b := cmds, buf
	swapped := false
	for width := 1; width < n; width *= 2 {
		for lo := 0; lo < n; lo += 2 * width {
			mid := min(lo+width, n)
			hi := min(lo+2*width, n)
			mergeRun(a, b, lo, mid, hi)
		}
		a, b = b, a
		swapped = !swapped
	}
	if swapped {
		copy(cmds, buf)
	}
	return buf
}

// mergeRun merges two sorted runs [lo, mid) and [mid, hi) from src into dst.
func mergeRun(src, dst []RenderCommand, lo, mid, hi int) {
	i, j, k := lo, mid, lo
	for i < mid && j < hi {
		if depthLessOrEqual(&src[i], &src[j]) {
			dst[k] = src[i]
			i++
		} else {
			dst[k] = src[j]
			j++
		}
		k++
	}
	k += copy(dst[k:], src[i:mid])
	copy(dst[k:], src[j:hi])
}
