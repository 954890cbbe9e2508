package tinsel

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

func TestPremultiply(t *testing.T) {
	r, g, b, a := premultiply(RGB{255, 0, 128}, 0.5)
	if a != 0.5 || r != 0.5 || g != 0 {
		t.Errorf("premultiply = (%v, %v, %v, %v)", r, g, b, a)
	}
	if b < 0.25 || b > 0.252 {
		t.Errorf("blue = %v, want ~0.251", b)
	}
	_, _, _, a = premultiply(RGB{}, 3)
	if a != 1 {
		t.Errorf("alpha = %v, want clamped 1", a)
	}
}

func TestAppendSpriteSkipsInvisible(t *testing.T) {
	var g gpuState
	g.appendSprite(nil, BlendNormal, discRect, 10, 10, 0, RGB{}, 1, 1)
	g.appendSprite(nil, BlendNormal, discRect, 10, 10, 4, RGB{}, 0, 1)
	if len(g.verts) != 0 || len(g.inds) != 0 {
		t.Errorf("verts = %d, inds = %d, want nothing queued", len(g.verts), len(g.inds))
	}
}

func TestAppendSpriteGeometry(t *testing.T) {
	var g gpuState
	g.appendSprite(nil, BlendNormal, discRect, 100, 50, glowTexR, RGB{255, 255, 255}, 1, 2)
	if len(g.verts) != 4 || len(g.inds) != 6 {
		t.Fatalf("verts = %d, inds = %d, want 4 and 6", len(g.verts), len(g.inds))
	}
	// A sprite of nominal radius glowTexR covers a full cell at scale 1, so
	// at scale 2 it spans two cells.
	v0, v3 := g.verts[0], g.verts[3]
	if v0.DstX != 200-glowCell || v0.DstY != 100-glowCell {
		t.Errorf("top-left = (%v, %v)", v0.DstX, v0.DstY)
	}
	if v3.DstX != 200+glowCell || v3.DstY != 100+glowCell {
		t.Errorf("bottom-right = (%v, %v)", v3.DstX, v3.DstY)
	}
	if v0.SrcX != discRect.x0 || v3.SrcY != discRect.y1 {
		t.Error("source rect not mapped to corners")
	}
}

func TestAppendStreakTwoQuads(t *testing.T) {
	var g gpuState
	cmd := RenderCommand{Type: CommandStreak, X0: 0, Y0: 0, X: 100, Y: 0, Radius: 1, Alpha: 1, Color: RGB{255, 255, 255}}
	g.appendStreak(nil, &cmd, 1)
	if len(g.verts) != 8 {
		t.Fatalf("verts = %d, want 8", len(g.verts))
	}
	if g.verts[0].ColorA != 0 {
		t.Errorf("tail alpha = %v, want 0", g.verts[0].ColorA)
	}
	if g.verts[len(g.verts)-1].ColorA != 1 {
		t.Errorf("head alpha = %v, want 1", g.verts[len(g.verts)-1].ColorA)
	}
}

func TestAppendQuadLineDegenerate(t *testing.T) {
	var g gpuState
	g.appendQuadLine(nil, BlendNormal, 5, 5, 5, 5, 1, RGB{}, 1, 1, 1)
	g.appendQuadLine(nil, BlendNormal, 0, 0, 10, 0, 1, RGB{}, 0, 0, 1)
	if len(g.verts) != 0 {
		t.Errorf("verts = %d, want 0", len(g.verts))
	}
}

func TestDrawDefaultMode(t *testing.T) {
	s := newTestScene(t, 320, 240, Patch{Fireworks: Ptr(true)})
	s.Tick(0)
	s.Tick(16)
	screen := ebiten.NewImage(320, 240)
	// Should not panic
	s.Draw(screen)
	if s.gpu.atlas == nil || s.gpu.bg == nil {
		t.Error("Draw should create the atlas and background")
	}
	if len(s.gpu.verts) != 0 {
		t.Error("all batches should be flushed after Draw")
	}
	if s.gpu.calls < 2 {
		t.Errorf("draw calls = %d, want at least 2", s.gpu.calls)
	}
}

func TestDrawGlobeMode(t *testing.T) {
	s := newTestScene(t, 320, 240, Patch{Mode: Ptr(ModeGlobe)})
	s.Tick(0)
	screen := ebiten.NewImage(640, 480) // DPR 2
	s.Draw(screen)
	if s.gpu.ring == nil {
		t.Fatal("globe Draw should create the rim")
	}
	if s.gpu.pool.created != 2 {
		t.Errorf("pool created %d layers, want 2", s.gpu.pool.created)
	}
	if len(s.gpu.deferred) != 0 {
		t.Error("layers should be released at the end of Draw")
	}
	ring := s.gpu.ring
	s.Tick(16)
	s.Draw(screen)
	if s.gpu.ring != ring {
		t.Error("rim should be reused while the globe size is unchanged")
	}
	if s.gpu.pool.created != 2 {
		t.Errorf("pool created %d layers after the second frame, want 2", s.gpu.pool.created)
	}
}

func TestDrawBeforeInitialize(t *testing.T) {
	s := NewScene()
	s.Draw(ebiten.NewImage(16, 16)) // should not panic
	if s.gpu.atlas != nil {
		t.Error("Draw before Initialize should do nothing")
	}
}

func TestDrawStatsOverlay(t *testing.T) {
	s := newTestScene(t, 320, 240, Patch{})
	s.ShowStats(true)
	s.Tick(0)
	s.Draw(ebiten.NewImage(320, 240))
	if !s.gpu.overlay.valid || s.gpu.overlay.img == nil {
		t.Error("stats overlay should be rendered")
	}
}

func TestResizeInvalidatesBackground(t *testing.T) {
	s := newTestScene(t, 320, 240, Patch{})
	s.Tick(0)
	s.Draw(ebiten.NewImage(320, 240))
	s.Resize(400, 300, 1)
	if s.gpu.bgValid {
		t.Error("resize should invalidate the background")
	}
}
