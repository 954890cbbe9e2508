package term

import (
	"math"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/phanxgames/tinsel"
)

func newSimScreen(t *testing.T, cols, rows int) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	if err := s.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	s.SetSize(cols, rows)
	t.Cleanup(s.Fini)
	return s
}

func newTermScene(t *testing.T, r *Renderer, p tinsel.Patch) *tinsel.Scene {
	t.Helper()
	s := tinsel.NewScene(tinsel.WithSeed(3), tinsel.WithSettings(p.Apply(tinsel.DefaultSettings())))
	w, h := r.SceneSize()
	if !s.Initialize(w, h, 1) {
		t.Fatal("Initialize returned false")
	}
	return s
}

func colorNear(a, b colorful.Color) bool {
	const eps = 1e-9
	return math.Abs(a.R-b.R) < eps && math.Abs(a.G-b.G) < eps && math.Abs(a.B-b.B) < eps
}

func snapshot(r *Renderer) []colorful.Color {
	out := make([]colorful.Color, len(r.pix))
	copy(out, r.pix)
	return out
}

func TestConfigSanitize(t *testing.T) {
	tests := []struct {
		name string
		in   Config
		want Config
	}{
		{"defaults kept", DefaultConfig(), DefaultConfig()},
		{"zero", Config{}, Config{Scale: 1, MinRadius: 0, Gain: 1}},
		{"nan", Config{Scale: math.NaN(), MinRadius: math.NaN(), Gain: math.NaN()}, Config{Scale: 1, Gain: 1}},
		{"negative", Config{Scale: -2, MinRadius: -1, Gain: -3, Rim: true}, Config{Scale: 1, Gain: 1, Rim: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.sanitize(); got != tt.want {
				t.Errorf("sanitize() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestSceneSize(t *testing.T) {
	r := NewRenderer(newSimScreen(t, 20, 12), DefaultConfig())
	w, h := r.SceneSize()
	if w != 80 || h != 96 {
		t.Errorf("SceneSize = %dx%d, want 80x96", w, h)
	}
}

func TestDrawFillsEveryCell(t *testing.T) {
	screen := newSimScreen(t, 24, 10)
	r := NewRenderer(screen, DefaultConfig())
	s := newTermScene(t, r, tinsel.Patch{})
	s.Tick(0)
	r.Draw(s)

	cells, w, h := screen.GetContents()
	if w != 24 || h != 10 {
		t.Fatalf("contents %dx%d, want 24x10", w, h)
	}
	for i, c := range cells {
		if len(c.Runes) == 0 || c.Runes[0] != halfBlock {
			t.Fatalf("cell %d runes = %q, want half block", i, c.Runes)
		}
	}
	if r.Frames() != 1 {
		t.Errorf("Frames = %d, want 1", r.Frames())
	}
}

func TestPresentUsesPixelPairs(t *testing.T) {
	screen := newSimScreen(t, 4, 2)
	r := NewRenderer(screen, Config{Scale: 1})
	r.Rasterize(nil, tinsel.DefaultTheme())
	r.pix[0] = colorful.Color{R: 1}               // top of cell (0, 0)
	r.pix[r.w] = colorful.Color{B: 1}             // bottom of cell (0, 0)
	r.pix[2*r.w+1] = colorful.Color{G: 1, B: 0.5} // top of cell (1, 1)
	r.Present()

	cells, w, _ := screen.GetContents()
	fg, bg, _ := cells[0].Style.Decompose()
	if fg != tcell.NewRGBColor(255, 0, 0) || bg != tcell.NewRGBColor(0, 0, 255) {
		t.Errorf("cell (0,0) fg %v bg %v, want red over blue", fg, bg)
	}
	fg, _, _ = cells[w+1].Style.Decompose()
	if fg != tcell.NewRGBColor(0, 255, 128) {
		t.Errorf("cell (1,1) fg = %v, want (0,255,128)", fg)
	}
}

func TestBackgroundMatchesTheme(t *testing.T) {
	r := NewRenderer(newSimScreen(t, 10, 5), Config{Scale: 2})
	theme := tinsel.DefaultTheme()
	cmd := tinsel.RenderCommand{Type: tinsel.CommandBackground, X: 10, Y: 3.5, Radius: 17}
	r.Rasterize([]tinsel.RenderCommand{cmd}, theme)

	for _, p := range [][2]int{{0, 0}, {5, 2}, {9, 9}} {
		d := math.Hypot(float64(p[0])+0.5-5, float64(p[1])+0.5-1.75) / 8.5
		want := theme.BackgroundAt(d).Colorful()
		if got := r.Pixel(p[0], p[1]); !colorNear(got, want) {
			t.Errorf("pixel %v = %v, want %v", p, got, want)
		}
	}
}

func TestMinRadiusKeepsEnergy(t *testing.T) {
	r := NewRenderer(newSimScreen(t, 10, 5), Config{Scale: 1, MinRadius: 2, Gain: 1})
	cmd := tinsel.RenderCommand{
		Type:   tinsel.CommandSnow,
		X:      4.5,
		Y:      4.5,
		Radius: 1,
		Color:  tinsel.RGB{R: 255, G: 255, B: 255},
		Alpha:  1,
	}
	r.Rasterize([]tinsel.RenderCommand{cmd}, tinsel.Theme{})
	got := r.Pixel(4, 4)
	if math.Abs(got.R-0.25) > 1e-9 {
		t.Errorf("centre = %v, want 0.25", got.R)
	}
	if r.Pixel(6, 4).R <= 0 {
		t.Error("disc not widened to MinRadius")
	}

	cmd.Radius = 0
	r.Rasterize([]tinsel.RenderCommand{cmd}, tinsel.Theme{})
	if got := r.Pixel(4, 4); got.R != 0 {
		t.Errorf("zero radius painted %v", got)
	}
}

func TestBlendModes(t *testing.T) {
	r := NewRenderer(newSimScreen(t, 2, 1), Config{Scale: 1})
	r.Rasterize(nil, tinsel.Theme{})
	c := colorful.Color{R: 0.6}

	r.blend(0, c, 1, tinsel.BlendAdd)
	r.blend(0, c, 1, tinsel.BlendAdd)
	if got := r.Pixel(0, 0).R; math.Abs(got-1.2) > 1e-9 {
		t.Errorf("additive = %v, want 1.2", got)
	}

	r.blend(1, colorful.Color{R: 1}, 0.5, tinsel.BlendNormal)
	r.blend(1, colorful.Color{R: 1}, 0.5, tinsel.BlendNormal)
	if got := r.Pixel(1, 0).R; math.Abs(got-0.75) > 1e-9 {
		t.Errorf("source-over = %v, want 0.75", got)
	}
}

func TestStreakFadesToTail(t *testing.T) {
	r := NewRenderer(newSimScreen(t, 20, 2), Config{Scale: 1, Gain: 1})
	cmd := tinsel.RenderCommand{
		Type:      tinsel.CommandStreak,
		X0:        0.5,
		Y0:        1.5,
		X:         19.5,
		Y:         1.5,
		Radius:    1,
		Color:     tinsel.RGB{R: 255},
		Alpha:     1,
		BlendMode: tinsel.BlendAdd,
	}
	r.Rasterize([]tinsel.RenderCommand{cmd}, tinsel.Theme{})
	tail, head := r.Pixel(0, 1).R, r.Pixel(19, 1).R
	if tail != 0 {
		t.Errorf("tail = %v, want 0", tail)
	}
	if math.Abs(head-1) > 1e-9 {
		t.Errorf("head = %v, want 1", head)
	}
	if mid := r.Pixel(10, 1).R; mid <= tail || mid >= head {
		t.Errorf("mid = %v, want between tail and head", mid)
	}
}

func TestGlobePaintsOnlyInside(t *testing.T) {
	screen := newSimScreen(t, 40, 20)
	r := NewRenderer(screen, DefaultConfig())
	s := newTermScene(t, r, tinsel.Patch{Mode: tinsel.Ptr(tinsel.ModeGlobe), Fireworks: tinsel.Ptr(true)})
	for i := 0; i < 40; i++ {
		s.Tick(float64(i) * 16)
	}

	cmds := s.Commands()
	r.Rasterize(cmds, s.Theme())
	full := snapshot(r)

	var bare []tinsel.RenderCommand
	var globe tinsel.RenderCommand
	for _, c := range cmds {
		switch c.Type {
		case tinsel.CommandBackground, tinsel.CommandGlobeBegin:
			bare = append(bare, c)
		case tinsel.CommandGlobeEnd:
			bare = append(bare, c)
			globe = c
		}
	}
	if globe.Type != tinsel.CommandGlobeEnd {
		t.Fatal("no globe-end command in globe mode")
	}
	r.Rasterize(bare, s.Theme())
	empty := snapshot(r)

	inv := 1 / r.cfg.Scale
	cx, cy, rad := globe.X*inv, globe.Y*inv, globe.Radius*inv
	changedInside := false
	for y := 0; y < r.h; y++ {
		for x := 0; x < r.w; x++ {
			i := y*r.w + x
			d := math.Hypot(float64(x)+0.5-cx, float64(y)+0.5-cy)
			same := colorNear(full[i], empty[i])
			if d > rad+1 && !same {
				t.Fatalf("pixel (%d, %d) outside the globe was painted", x, y)
			}
			if d < rad && !same {
				changedInside = true
			}
		}
	}
	if !changedInside {
		t.Error("nothing painted inside the globe")
	}
}

func TestGlobeDimsOutside(t *testing.T) {
	r := NewRenderer(newSimScreen(t, 20, 10), Config{Scale: 1})
	theme := tinsel.DefaultTheme()
	bg := tinsel.RenderCommand{Type: tinsel.CommandBackground, X: 10, Y: 10, Radius: 30}
	end := tinsel.RenderCommand{Type: tinsel.CommandGlobeEnd, X: 10, Y: 10, Radius: 4}

	r.Rasterize([]tinsel.RenderCommand{bg}, theme)
	plain, centre := r.Pixel(0, 0), r.Pixel(10, 10)
	r.Rasterize([]tinsel.RenderCommand{bg, end}, theme)
	dimmed := r.Pixel(0, 0)

	want := plain.B * (1 - globeDim)
	if math.Abs(dimmed.B-want) > 1e-9 {
		t.Errorf("outside blue = %v, want %v", dimmed.B, want)
	}
	if got := r.Pixel(10, 10); !colorNear(got, centre) {
		t.Errorf("centre = %v, want undimmed %v", got, centre)
	}
}
