package tinsel

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// --- Glow atlas ---

// The glow atlas is one image holding every sprite the scene draws, so
// consecutive commands with the same blend mode submit as a single
// DrawTriangles32 call.
//
//	row 0: light halos, one cell per twinkle level
//	row 1: firework dot halos, one cell per twinkle level
//	row 2: solid disc, white block
const (
	glowCell   = 64
	glowLevels = 16
	// glowTexR is the radius in texels that maps to a sprite's nominal radius.
	glowTexR = glowCell/2 - 1

	atlasRowLight = 0
	atlasRowSpark = 1
	atlasRowMisc  = 2
)

// spriteRect is a source rectangle on the glow atlas.
type spriteRect struct {
	x0, y0, x1, y1 float32
}

func cellRect(col, row int) spriteRect {
	x := float32(col * glowCell)
	y := float32(row * glowCell)
	return spriteRect{x, y, x + glowCell, y + glowCell}
}

// twinkleLevel quantizes a twinkle value in [0, 1] to an atlas column.
func twinkleLevel(tw float64) int {
	return int(math.Round(clamp(tw, 0, 1) * (glowLevels - 1)))
}

// lightHaloRect returns the light halo sprite for twinkle tw.
func lightHaloRect(tw float64) spriteRect {
	return cellRect(twinkleLevel(tw), atlasRowLight)
}

// sparkHaloRect returns the firework halo sprite for twinkle tw.
func sparkHaloRect(tw float64) spriteRect {
	return cellRect(twinkleLevel(tw), atlasRowSpark)
}

// discRect is the antialiased solid disc.
var discRect = cellRect(0, atlasRowMisc)

// solidRect samples the interior of the white block so linear filtering
// never reaches a neighbouring cell.
var solidRect = spriteRect{glowCell + 8, atlasRowMisc*glowCell + 8, 2*glowCell - 8, atlasRowMisc*glowCell + glowCell - 8}

// edgeCoverage antialiases a hard disc edge at radius r for a texel centre
// at distance d.
func edgeCoverage(d, r float64) float64 {
	return clamp(r-d+0.5, 0, 1)
}

// generateGlowAtlas renders every atlas sprite as premultiplied white.
func generateGlowAtlas() *ebiten.Image {
	w, h := glowLevels*glowCell, 3*glowCell
	pix := make([]byte, w*h*4)

	put := func(x, y int, a float64) {
		v := uint8(clamp(math.Round(a*255), 0, 255))
		off := (y*w + x) * 4
		pix[off+0] = v
		pix[off+1] = v
		pix[off+2] = v
		pix[off+3] = v
	}

	cellFill := func(col, row int, alpha func(d float64) float64) {
		ox, oy := col*glowCell, row*glowCell
		c := float64(glowCell) / 2
		for y := 0; y < glowCell; y++ {
			for x := 0; x < glowCell; x++ {
				d := math.Hypot(float64(x)+0.5-c, float64(y)+0.5-c)
				put(ox+x, oy+y, alpha(d))
			}
		}
	}

	for i := 0; i < glowLevels; i++ {
		tw := float64(i) / (glowLevels - 1)
		cellFill(i, atlasRowLight, func(d float64) float64 {
			return LightHaloAlpha(d/glowTexR, tw) * edgeCoverage(d, glowTexR)
		})
		cellFill(i, atlasRowSpark, func(d float64) float64 {
			return SparkHaloAlpha(d/glowTexR, tw)
		})
	}
	cellFill(0, atlasRowMisc, func(d float64) float64 {
		return edgeCoverage(d, glowTexR)
	})
	cellFill(1, atlasRowMisc, func(float64) float64 { return 1 })

	img := ebiten.NewImage(w, h)
	img.WritePixels(pix)
	return img
}

// --- Globe rim ---

// RimAlpha returns the premultiplied gray value and alpha of the globe rim
// at distance d from the centre of a globe of radius r.
func RimAlpha(d, r float64) (gray, alpha float64) {
	r0, r1 := r*0.80, r*1.06
	t := clamp((d-r0)/(r1-r0), 0, 1)
	// Stops in premultiplied space: transparent white, white at 0.03,
	// black at 0.28.
	if t <= 0.82 {
		f := t / 0.82
		return 0.03 * f, 0.03 * f
	}
	f := (t - 0.82) / 0.18
	return lerp(0.03, 0, f), lerp(0.03, 0.28, f)
}

// generateRing renders the globe rim for a globe of radius r device pixels,
// filled out to 1.08r.
func generateRing(r float64) *ebiten.Image {
	outer := r * 1.08
	size := int(math.Ceil(outer*2)) + 2
	pix := make([]byte, size*size*4)
	c := float64(size) / 2
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			d := math.Hypot(float64(x)+0.5-c, float64(y)+0.5-c)
			cov := edgeCoverage(d, outer)
			if cov == 0 || d < r*0.80 {
				continue
			}
			g, a := RimAlpha(d, r)
			off := (y*size + x) * 4
			gv := uint8(clamp(math.Round(g*cov*255), 0, 255))
			pix[off+0] = gv
			pix[off+1] = gv
			pix[off+2] = gv
			pix[off+3] = uint8(clamp(math.Round(a*cov*255), 0, 255))
		}
	}
	img := ebiten.NewImage(size, size)
	img.WritePixels(pix)
	return img
}

// --- Background ---

// bgDownscale is the factor the background gradient is rendered below
// device resolution before being stretched with linear filtering.
const bgDownscale = 4

// generateBackground renders the theme gradient for a sw×sh device-pixel
// surface at reduced resolution.
func generateBackground(t Theme, sw, sh int) *ebiten.Image {
	w := max(1, (sw+bgDownscale-1)/bgDownscale)
	h := max(1, (sh+bgDownscale-1)/bgDownscale)
	cx, cy, r := backgroundGeometry(float64(sw), float64(sh))
	pix := make([]byte, w*h*4)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			px := (float64(x) + 0.5) * bgDownscale
			py := (float64(y) + 0.5) * bgDownscale
			c := t.BackgroundAt(math.Hypot(px-cx, py-cy) / r)
			off := (y*w + x) * 4
			pix[off+0] = c.R
			pix[off+1] = c.G
			pix[off+2] = c.B
			pix[off+3] = 0xff
		}
	}
	img := ebiten.NewImage(w, h)
	img.WritePixels(pix)
	return img
}
