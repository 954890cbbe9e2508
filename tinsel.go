package tinsel

import (
	"math/rand/v2"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/lucasb-eyer/go-colorful"
)

// RGB is an opaque 8-bit color. Alpha travels separately on render commands.
type RGB struct {
	R, G, B uint8
}

// Colorful converts c to a go-colorful color with components in [0, 1].
func (c RGB) Colorful() colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

// rgbFromColorful converts a go-colorful color back to 8-bit, clamping out of
// gamut components.
func rgbFromColorful(c colorful.Color) RGB {
	r, g, b := c.Clamped().RGB255()
	return RGB{r, g, b}
}

// Palette indices. PaletteWhite is the last entry; every other entry is a
// "colored" bulb.
const (
	PaletteRed = iota
	PaletteGold
	PaletteMint
	PaletteSky
	PaletteViolet
	PaletteWhite
)

// Palette is the fixed bulb palette shared by lights and fireworks.
var Palette = [...]RGB{
	{255, 90, 90},
	{255, 206, 71},
	{140, 255, 193},
	{103, 197, 255},
	{192, 137, 255},
	{255, 255, 255},
}

// emberColor is the warm tint of firework trails and embers.
var emberColor = RGB{255, 220, 160}

// garlandColors are the palette entries used for garland bulbs.
var garlandColors = [...]int{PaletteRed, PaletteGold, PaletteSky, PaletteViolet}

// Range is a general-purpose min/max range.
type Range struct {
	Min, Max float64
}

// Rand returns a random float64 in [Min, Max) drawn from rng.
func (r Range) Rand(rng *rand.Rand) float64 {
	if r.Min == r.Max {
		return r.Min
	}
	return r.Min + rng.Float64()*(r.Max-r.Min)
}

// BlendMode selects a compositing operation. Each maps to a specific ebiten.Blend value.
type BlendMode uint8

const (
	BlendNormal BlendMode = iota // source-over (standard alpha blending)
	BlendAdd                     // additive / lighter
	BlendErase                   // destination-out (punch transparent holes)
	BlendMask                    // clip destination to source alpha
)

// EbitenBlend returns the ebiten.Blend value corresponding to this BlendMode.
func (b BlendMode) EbitenBlend() ebiten.Blend {
	switch b {
	case BlendAdd:
		return ebiten.BlendLighter
	case BlendErase:
		return ebiten.BlendDestinationOut
	case BlendMask:
		return ebiten.Blend{
			BlendFactorSourceRGB:        ebiten.BlendFactorZero,
			BlendFactorSourceAlpha:      ebiten.BlendFactorZero,
			BlendFactorDestinationRGB:   ebiten.BlendFactorSourceAlpha,
			BlendFactorDestinationAlpha: ebiten.BlendFactorSourceAlpha,
			BlendOperationRGB:           ebiten.BlendOperationAdd,
			BlendOperationAlpha:         ebiten.BlendOperationAdd,
		}
	default:
		return ebiten.BlendSourceOver
	}
}

// Mode is the active visual mode.
type Mode string

const (
	ModeDefault Mode = "default" // free-standing tree, full-screen snow
	ModeGlobe   Mode = "globe"   // tree and snow inside a circular snow globe
)

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	return m == ModeDefault || m == ModeGlobe
}
