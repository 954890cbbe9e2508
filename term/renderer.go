// Package term draws a tinsel scene into a terminal through tcell.
//
// Every cell holds two pixels stacked vertically and is painted with an
// upper half block: the foreground is the top pixel and the background the
// bottom one. A cols×rows terminal is therefore a cols×(2·rows) pixel
// surface, which keeps discs round on typical 1:2 terminal fonts.
package term

import (
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/phanxgames/tinsel"
)

const halfBlock = '▀'

// globeDim is the black overlay alpha outside the globe circle.
const globeDim = 56.0 / 255

// rimExtent is how far past the globe radius the rim is drawn.
const rimExtent = 1.08

// Renderer rasterizes render commands on the CPU and presents them on a
// tcell screen.
type Renderer struct {
	screen tcell.Screen
	cfg    Config

	w, h int
	pix  []colorful.Color

	clip   bool
	clipX  float64
	clipY  float64
	clipR  float64
	frames int
}

// NewRenderer returns a Renderer presenting on screen. The screen must
// already be initialized.
func NewRenderer(screen tcell.Screen, cfg Config) *Renderer {
	return &Renderer{screen: screen, cfg: cfg.sanitize()}
}

// OpenScreen creates and initializes the terminal screen.
func OpenScreen() (tcell.Screen, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("term: new screen: %w", err)
	}
	if err := s.Init(); err != nil {
		return nil, fmt.Errorf("term: init screen: %w", err)
	}
	return s, nil
}

// Screen returns the screen the renderer presents on.
func (r *Renderer) Screen() tcell.Screen {
	return r.screen
}

// SceneSize returns the logical surface a Scene should be initialized or
// resized to for the current terminal size.
func (r *Renderer) SceneSize() (w, h int) {
	cols, rows := r.screen.Size()
	return int(float64(cols) * r.cfg.Scale), int(float64(rows*2) * r.cfg.Scale)
}

// Frames returns the number of frames presented.
func (r *Renderer) Frames() int {
	return r.frames
}

// Draw rasterizes the scene's current command list and shows it.
func (r *Renderer) Draw(s *tinsel.Scene) {
	r.Rasterize(s.Commands(), s.Theme())
	r.Present()
}

// Pixel returns the rasterized color at terminal pixel (x, y). Out of range
// coordinates return black.
func (r *Renderer) Pixel(x, y int) colorful.Color {
	if x < 0 || y < 0 || x >= r.w || y >= r.h {
		return colorful.Color{}
	}
	return r.pix[y*r.w+x]
}

// Present writes the framebuffer to the screen and shows it.
func (r *Renderer) Present() {
	cols, rows := r.screen.Size()
	for y := 0; y < rows && 2*y+1 < r.h; y++ {
		for x := 0; x < cols && x < r.w; x++ {
			top := r.pix[2*y*r.w+x]
			bot := r.pix[(2*y+1)*r.w+x]
			st := tcell.StyleDefault.Foreground(toTcell(top)).Background(toTcell(bot))
			r.screen.SetContent(x, y, halfBlock, nil, st)
		}
	}
	r.screen.Show()
	r.frames++
}

func toTcell(c colorful.Color) tcell.Color {
	cr, cg, cb := c.Clamped().RGB255()
	return tcell.NewRGBColor(int32(cr), int32(cg), int32(cb))
}

// --- Rasterizer ---

// Rasterize paints cmds into the framebuffer, sized to the current screen.
func (r *Renderer) Rasterize(cmds []tinsel.RenderCommand, theme tinsel.Theme) {
	cols, rows := r.screen.Size()
	r.resize(cols, rows*2)
	for i := range r.pix {
		r.pix[i] = colorful.Color{}
	}
	r.clip = false

	inv := 1 / r.cfg.Scale
	for i := range cmds {
		c := &cmds[i]
		switch c.Type {
		case tinsel.CommandBackground:
			r.background(theme, c.X*inv, c.Y*inv, c.Radius*inv)
		case tinsel.CommandGlobeBegin:
			r.clip = true
			r.clipX, r.clipY, r.clipR = c.X*inv, c.Y*inv, c.Radius*inv
		case tinsel.CommandGlobeEnd:
			r.clip = false
			r.globeEnd(c.X*inv, c.Y*inv, c.Radius*inv)
		case tinsel.CommandWire:
			r.segment(c, inv, false)
		case tinsel.CommandStreak:
			r.segment(c, inv, true)
		case tinsel.CommandLight:
			tw := c.Twinkle
			r.disc(c, inv, c.Radius, func(u float64) float64 { return tinsel.LightHaloAlpha(u, tw) })
			r.disc(c, inv, c.Core, func(float64) float64 { return tinsel.LightCoreAlpha })
		case tinsel.CommandSpark:
			tw := c.Twinkle
			r.disc(c, inv, c.Radius, func(u float64) float64 { return tinsel.SparkHaloAlpha(u, tw) })
			r.disc(c, inv, c.Core, func(float64) float64 { return tinsel.SparkCoreAlpha })
		case tinsel.CommandSnow:
			r.disc(c, inv, c.Radius, func(float64) float64 { return 1 })
		}
	}
}

func (r *Renderer) resize(w, h int) {
	if w == r.w && h == r.h {
		return
	}
	r.w, r.h = w, h
	if cap(r.pix) >= w*h {
		r.pix = r.pix[:w*h]
		return
	}
	r.pix = make([]colorful.Color, w*h)
}

// coverage antialiases a hard edge at radius rad for a pixel centre at
// distance d.
func coverage(d, rad float64) float64 {
	return math.Min(1, math.Max(0, rad-d+0.5))
}

// clipAt returns how much of pixel (x, y) lies inside the active globe clip.
func (r *Renderer) clipAt(px, py float64) float64 {
	if !r.clip {
		return 1
	}
	return coverage(math.Hypot(px-r.clipX, py-r.clipY), r.clipR)
}

// blend composites color c at alpha a onto pixel i.
func (r *Renderer) blend(i int, c colorful.Color, a float64, mode tinsel.BlendMode) {
	if a <= 0 {
		return
	}
	dst := &r.pix[i]
	if mode == tinsel.BlendAdd {
		dst.R += c.R * a
		dst.G += c.G * a
		dst.B += c.B * a
		return
	}
	*dst = dst.BlendRgb(c, math.Min(a, 1))
}

func (r *Renderer) background(theme tinsel.Theme, cx, cy, rad float64) {
	if rad <= 0 {
		return
	}
	for y := 0; y < r.h; y++ {
		for x := 0; x < r.w; x++ {
			d := math.Hypot(float64(x)+0.5-cx, float64(y)+0.5-cy) / rad
			r.pix[y*r.w+x] = theme.BackgroundAt(d).Colorful()
		}
	}
}

// disc paints a radial profile of radius rad (scene pixels) centred on the
// command position.
func (r *Renderer) disc(c *tinsel.RenderCommand, inv, rad float64, profile func(u float64) float64) {
	cx, cy := c.X*inv, c.Y*inv
	rad *= inv
	alpha := c.Alpha * r.cfg.Gain
	if rad < r.cfg.MinRadius {
		if rad <= 0 {
			return
		}
		alpha *= (rad * rad) / (r.cfg.MinRadius * r.cfg.MinRadius)
		rad = r.cfg.MinRadius
	}
	if alpha <= 0 {
		return
	}
	col := c.Color.Colorful()

	x0 := max(0, int(math.Floor(cx-rad-1)))
	x1 := min(r.w-1, int(math.Ceil(cx+rad+1)))
	y0 := max(0, int(math.Floor(cy-rad-1)))
	y1 := min(r.h-1, int(math.Ceil(cy+rad+1)))
	for y := y0; y <= y1; y++ {
		py := float64(y) + 0.5
		for x := x0; x <= x1; x++ {
			px := float64(x) + 0.5
			d := math.Hypot(px-cx, py-cy)
			cov := coverage(d, rad)
			if cov <= 0 {
				continue
			}
			a := alpha * cov * profile(math.Min(d/rad, 0.999999)) * r.clipAt(px, py)
			r.blend(y*r.w+x, col, a, c.BlendMode)
		}
	}
}

// segment paints a capped line of half width c.Radius. Streaks fade from
// tail to head.
func (r *Renderer) segment(c *tinsel.RenderCommand, inv float64, streak bool) {
	ax, ay := c.X0*inv, c.Y0*inv
	bx, by := c.X*inv, c.Y*inv
	hw := math.Max(c.Radius*inv, 0.5)
	alpha := c.Alpha
	if streak {
		alpha *= r.cfg.Gain
	}
	if alpha <= 0 {
		return
	}
	col := c.Color.Colorful()

	dx, dy := bx-ax, by-ay
	l2 := dx*dx + dy*dy
	x0 := max(0, int(math.Floor(math.Min(ax, bx)-hw-1)))
	x1 := min(r.w-1, int(math.Ceil(math.Max(ax, bx)+hw+1)))
	y0 := max(0, int(math.Floor(math.Min(ay, by)-hw-1)))
	y1 := min(r.h-1, int(math.Ceil(math.Max(ay, by)+hw+1)))
	for y := y0; y <= y1; y++ {
		py := float64(y) + 0.5
		for x := x0; x <= x1; x++ {
			px := float64(x) + 0.5
			t := 0.0
			if l2 > 0 {
				t = math.Min(1, math.Max(0, ((px-ax)*dx+(py-ay)*dy)/l2))
			}
			d := math.Hypot(px-(ax+dx*t), py-(ay+dy*t))
			cov := coverage(d, hw)
			if cov <= 0 {
				continue
			}
			a := alpha * cov * r.clipAt(px, py)
			if streak {
				a *= tinsel.StreakAlpha(t)
			}
			r.blend(y*r.w+x, col, a, c.BlendMode)
		}
	}
}

// globeEnd dims everything outside the circle and draws the rim.
func (r *Renderer) globeEnd(cx, cy, rad float64) {
	for y := 0; y < r.h; y++ {
		py := float64(y) + 0.5
		for x := 0; x < r.w; x++ {
			px := float64(x) + 0.5
			d := math.Hypot(px-cx, py-cy)
			i := y*r.w + x
			dst := r.pix[i]
			out := 1 - coverage(d, rad)
			if out > 0 {
				k := 1 - globeDim*out
				dst.R *= k
				dst.G *= k
				dst.B *= k
			}
			if r.cfg.Rim && d <= rad*rimExtent {
				gray, a := tinsel.RimAlpha(d, rad)
				dst.R = gray + dst.R*(1-a)
				dst.G = gray + dst.G*(1-a)
				dst.B = gray + dst.B*(1-a)
			}
			r.pix[i] = dst
		}
	}
}
