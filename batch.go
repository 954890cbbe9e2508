package tinsel

import (
	"image/color"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// batchMaxVerts caps a single DrawTriangles32 submission.
const batchMaxVerts = 1 << 16

// gpuState holds the Ebitengine resources used by Draw. All images are
// created lazily on the first Draw so a Scene can be ticked headless.
type gpuState struct {
	atlas *ebiten.Image

	bg      *ebiten.Image
	bgW     int
	bgH     int
	bgValid bool

	ring    *ebiten.Image
	ringKey int

	pool     renderTexturePool
	deferred []*ebiten.Image

	verts []ebiten.Vertex
	inds  []uint32
	blend BlendMode
	calls int

	overlay statsOverlay
}

// invalidate drops every size-dependent cache.
func (g *gpuState) invalidate() {
	g.bgValid = false
	g.ringKey = 0
	g.pool.Drain()
}

// invalidateBackground marks the background gradient for regeneration.
func (g *gpuState) invalidateBackground() {
	g.bgValid = false
}

// Draw submits the command list from the last Tick to screen. The screen is
// expected to be the logical size times the device pixel ratio, as returned
// by the host's Layout.
func (s *Scene) Draw(screen *ebiten.Image) {
	if !s.initialized {
		return
	}
	var stats debugStats
	var t0 time.Time
	if s.debug {
		t0 = time.Now()
	}

	g := &s.gpu
	if g.atlas == nil {
		g.atlas = generateGlowAtlas()
	}
	scale := float64(screen.Bounds().Dx()) / math.Max(1, s.cam.Width)
	g.calls = 0

	target := screen
	var layer *ebiten.Image
	for i := range s.commands {
		cmd := &s.commands[i]
		switch cmd.Type {
		case CommandBackground:
			g.flush(target)
			s.drawBackground(target)
		case CommandGlobeBegin:
			g.flush(target)
			b := screen.Bounds()
			layer = g.acquire(b.Dx(), b.Dy())
			target = layer
		case CommandGlobeEnd:
			g.flush(target)
			if layer != nil {
				s.drawGlobe(screen, layer, cmd, scale)
			}
			target = screen
		case CommandLight:
			g.appendLight(target, cmd, scale)
		case CommandSnow:
			g.appendSprite(target, cmd.BlendMode, discRect, cmd.X, cmd.Y, cmd.Radius, cmd.Color, cmd.Alpha, scale)
		case CommandSpark:
			g.appendSpark(target, cmd, scale)
		case CommandWire:
			g.appendSegment(target, cmd, scale, 1, 1)
		case CommandStreak:
			g.appendStreak(target, cmd, scale)
		}
	}
	g.flush(target)

	if s.showStats {
		s.drawStats(screen)
	}
	s.flushScreenshots(screen)

	// Release pooled layers used this frame.
	for _, img := range g.deferred {
		g.pool.Release(img)
	}
	g.deferred = g.deferred[:0]

	if s.debug {
		stats.submitTime = time.Since(t0)
		stats.drawCalls = g.calls
		s.debugDraw(stats)
	}
}

// acquire takes a cleared layer from the pool for the rest of the frame.
func (g *gpuState) acquire(w, h int) *ebiten.Image {
	img := g.pool.Acquire(w, h)
	g.deferred = append(g.deferred, img)
	return img
}

// --- Passes ---

// drawBackground stretches the cached gradient over the whole target.
func (s *Scene) drawBackground(target *ebiten.Image) {
	g := &s.gpu
	b := target.Bounds()
	if !g.bgValid || g.bgW != b.Dx() || g.bgH != b.Dy() {
		if g.bg != nil {
			g.bg.Deallocate()
		}
		g.bg = generateBackground(s.theme, b.Dx(), b.Dy())
		g.bgW, g.bgH = b.Dx(), b.Dy()
		g.bgValid = true
	}
	var op ebiten.DrawImageOptions
	src := g.bg.Bounds()
	op.GeoM.Scale(float64(b.Dx())/float64(src.Dx()), float64(b.Dy())/float64(src.Dy()))
	op.Filter = ebiten.FilterLinear
	op.Blend = ebiten.BlendCopy
	target.DrawImage(g.bg, &op)
	g.calls++
}

// drawGlobe clips layer to the globe circle, composites it onto screen,
// dims everything outside the circle and draws the rim.
func (s *Scene) drawGlobe(screen, layer *ebiten.Image, cmd *RenderCommand, scale float64) {
	g := &s.gpu
	b := screen.Bounds()
	cx, cy, r := cmd.X*scale, cmd.Y*scale, cmd.Radius*scale

	// Mask the layer: everything outside the disc is cleared.
	mask := g.acquire(b.Dx(), b.Dy())
	g.drawDisc(mask, cx, cy, r, BlendNormal)
	var op ebiten.DrawImageOptions
	op.Blend = BlendMask.EbitenBlend()
	layer.DrawImage(mask, &op)

	op = ebiten.DrawImageOptions{}
	screen.DrawImage(layer, &op)

	// Dim the outside.
	mask.Clear()
	mask.Fill(color.RGBA{A: 56})
	g.drawDisc(mask, cx, cy, r, BlendErase)
	op = ebiten.DrawImageOptions{}
	screen.DrawImage(mask, &op)

	// Rim.
	key := int(math.Round(r))
	if g.ring == nil || g.ringKey != key {
		if g.ring != nil {
			g.ring.Deallocate()
		}
		g.ring = generateRing(float64(key))
		g.ringKey = key
	}
	rb := g.ring.Bounds()
	op = ebiten.DrawImageOptions{}
	op.GeoM.Translate(cx-float64(rb.Dx())/2, cy-float64(rb.Dy())/2)
	screen.DrawImage(g.ring, &op)
	g.calls += 4
}

// drawDisc draws a single solid disc in device pixels.
func (g *gpuState) drawDisc(target *ebiten.Image, cx, cy, r float64, blend BlendMode) {
	g.appendSprite(target, blend, discRect, cx, cy, r, Palette[PaletteWhite], 1, 1)
	g.flush(target)
}

// --- Batching ---

// setBlend flushes the pending batch when the blend mode changes.
func (g *gpuState) setBlend(target *ebiten.Image, blend BlendMode) {
	if g.blend != blend || len(g.verts) >= batchMaxVerts {
		g.flush(target)
		g.blend = blend
	}
}

// appendLight queues a light's halo and core.
func (g *gpuState) appendLight(target *ebiten.Image, cmd *RenderCommand, scale float64) {
	g.appendSprite(target, cmd.BlendMode, lightHaloRect(cmd.Twinkle), cmd.X, cmd.Y, cmd.Radius, cmd.Color, cmd.Alpha, scale)
	g.appendSprite(target, cmd.BlendMode, discRect, cmd.X, cmd.Y, cmd.Core, cmd.Color, LightCoreAlpha*cmd.Alpha, scale)
}

// appendSpark queues a firework dot's halo and core.
func (g *gpuState) appendSpark(target *ebiten.Image, cmd *RenderCommand, scale float64) {
	g.appendSprite(target, cmd.BlendMode, sparkHaloRect(cmd.Twinkle), cmd.X, cmd.Y, cmd.Radius, cmd.Color, cmd.Alpha, scale)
	g.appendSprite(target, cmd.BlendMode, discRect, cmd.X, cmd.Y, cmd.Core, cmd.Color, SparkCoreAlpha*cmd.Alpha, scale)
}

// appendSprite queues a square sprite of nominal radius r centred on
// (x, y), both in logical pixels.
func (g *gpuState) appendSprite(target *ebiten.Image, blend BlendMode, src spriteRect, x, y, r float64, c RGB, alpha, scale float64) {
	if r <= 0 || alpha <= 0 {
		return
	}
	g.setBlend(target, blend)
	half := r * scale * (glowCell / 2) / glowTexR
	cx, cy := x*scale, y*scale
	x0, y0 := float32(cx-half), float32(cy-half)
	x1, y1 := float32(cx+half), float32(cy+half)

	cr, cg, cb, ca := premultiply(c, alpha)
	base := uint32(len(g.verts))
	g.verts = append(g.verts,
		ebiten.Vertex{DstX: x0, DstY: y0, SrcX: src.x0, SrcY: src.y0, ColorR: cr, ColorG: cg, ColorB: cb, ColorA: ca},
		ebiten.Vertex{DstX: x1, DstY: y0, SrcX: src.x1, SrcY: src.y0, ColorR: cr, ColorG: cg, ColorB: cb, ColorA: ca},
		ebiten.Vertex{DstX: x0, DstY: y1, SrcX: src.x0, SrcY: src.y1, ColorR: cr, ColorG: cg, ColorB: cb, ColorA: ca},
		ebiten.Vertex{DstX: x1, DstY: y1, SrcX: src.x1, SrcY: src.y1, ColorR: cr, ColorG: cg, ColorB: cb, ColorA: ca},
	)
	// Two triangles: TL-TR-BL, TR-BR-BL
	g.inds = append(g.inds,
		base+0, base+1, base+2,
		base+1, base+3, base+2,
	)
}

// appendSegment queues a quad from (X0, Y0) to (X, Y) with half width
// cmd.Radius. a0 and a1 scale the alpha at the start and end.
func (g *gpuState) appendSegment(target *ebiten.Image, cmd *RenderCommand, scale, a0, a1 float64) {
	g.appendQuadLine(target, cmd.BlendMode, cmd.X0, cmd.Y0, cmd.X, cmd.Y, cmd.Radius, cmd.Color, cmd.Alpha*a0, cmd.Alpha*a1, scale)
}

// appendStreak queues a firework streak as two quads following the
// tail-to-head alpha ramp.
func (g *gpuState) appendStreak(target *ebiten.Image, cmd *RenderCommand, scale float64) {
	const mid = 0.22
	mx := lerp(cmd.X0, cmd.X, mid)
	my := lerp(cmd.Y0, cmd.Y, mid)
	am := StreakAlpha(mid)
	g.appendQuadLine(target, cmd.BlendMode, cmd.X0, cmd.Y0, mx, my, cmd.Radius, cmd.Color, cmd.Alpha*StreakAlpha(0), cmd.Alpha*am, scale)
	g.appendQuadLine(target, cmd.BlendMode, mx, my, cmd.X, cmd.Y, cmd.Radius, cmd.Color, cmd.Alpha*am, cmd.Alpha*StreakAlpha(1), scale)
}

// appendQuadLine queues a line quad in logical pixels with alpha a0 at the
// start and a1 at the end.
func (g *gpuState) appendQuadLine(target *ebiten.Image, blend BlendMode, x0, y0, x1, y1, hw float64, c RGB, a0, a1, scale float64) {
	dx, dy := (x1-x0)*scale, (y1-y0)*scale
	l := math.Hypot(dx, dy)
	if l < 1e-6 || (a0 <= 0 && a1 <= 0) {
		return
	}
	g.setBlend(target, blend)
	nx, ny := -dy/l*hw*scale, dx/l*hw*scale
	sx0, sy0 := x0*scale, y0*scale
	sx1, sy1 := x1*scale, y1*scale

	r0, g0, b0, al0 := premultiply(c, a0)
	r1, g1, b1, al1 := premultiply(c, a1)
	src := solidRect
	base := uint32(len(g.verts))
	g.verts = append(g.verts,
		ebiten.Vertex{DstX: float32(sx0 + nx), DstY: float32(sy0 + ny), SrcX: src.x0, SrcY: src.y0, ColorR: r0, ColorG: g0, ColorB: b0, ColorA: al0},
		ebiten.Vertex{DstX: float32(sx1 + nx), DstY: float32(sy1 + ny), SrcX: src.x1, SrcY: src.y0, ColorR: r1, ColorG: g1, ColorB: b1, ColorA: al1},
		ebiten.Vertex{DstX: float32(sx0 - nx), DstY: float32(sy0 - ny), SrcX: src.x0, SrcY: src.y1, ColorR: r0, ColorG: g0, ColorB: b0, ColorA: al0},
		ebiten.Vertex{DstX: float32(sx1 - nx), DstY: float32(sy1 - ny), SrcX: src.x1, SrcY: src.y1, ColorR: r1, ColorG: g1, ColorB: b1, ColorA: al1},
	)
	g.inds = append(g.inds,
		base+0, base+1, base+2,
		base+1, base+3, base+2,
	)
}

// premultiply returns c scaled by alpha as premultiplied float components.
func premultiply(c RGB, alpha float64) (r, g, b, a float32) {
	a = float32(clamp(alpha, 0, 1))
	return float32(c.R) / 255 * a, float32(c.G) / 255 * a, float32(c.B) / 255 * a, a
}

// flush submits accumulated vertices as a single DrawTriangles32 call.
func (g *gpuState) flush(target *ebiten.Image) {
	if len(g.verts) == 0 {
		return
	}
	var triOp ebiten.DrawTrianglesOptions
	triOp.Blend = g.blend.EbitenBlend()
	triOp.ColorScaleMode = ebiten.ColorScaleModePremultipliedAlpha
	triOp.Filter = ebiten.FilterLinear

	target.DrawTriangles32(g.verts, g.inds, g.atlas, &triOp)
	g.calls++

	g.verts = g.verts[:0]
	g.inds = g.inds[:0]
}
