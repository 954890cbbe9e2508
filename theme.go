package tinsel

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// bgStops are the gradient positions of Theme.Background.
var bgStops = [3]float64{0, 0.55, 1}

// Theme holds the page colors a Scene draws with: a three-stop radial
// background gradient and the garland wire stroke.
type Theme struct {
	Background [3]colorful.Color
	Wire       colorful.Color
	WireAlpha  float64
}

// DefaultTheme returns the dark night-sky theme.
func DefaultTheme() Theme {
	return Theme{
		Background: [3]colorful.Color{
			colorful.MustParseHex("#07101d"),
			colorful.MustParseHex("#02040a"),
			colorful.MustParseHex("#000000"),
		},
		Wire:      colorful.MustParseHex("#ffffff"),
		WireAlpha: 0.12,
	}
}

// ThemeFromHex builds a Theme from "#rrggbb" strings. wireAlpha is clamped
// to [0, 1].
func ThemeFromHex(bg0, bg1, bg2, wire string, wireAlpha float64) (Theme, error) {
	var t Theme
	for i, hex := range [3]string{bg0, bg1, bg2} {
		c, err := colorful.Hex(hex)
		if err != nil {
			return Theme{}, fmt.Errorf("theme background %d: %w", i, err)
		}
		t.Background[i] = c
	}
	c, err := colorful.Hex(wire)
	if err != nil {
		return Theme{}, fmt.Errorf("theme wire: %w", err)
	}
	t.Wire = c
	t.WireAlpha = clamp(finiteOr(wireAlpha, 0.12), 0, 1)
	return t, nil
}

// BackgroundAt returns the background color at normalized distance d from
// the gradient centre (0 centre, 1 edge). Beyond the edge the last stop is
// used.
func (t Theme) BackgroundAt(d float64) RGB {
	d = clamp(d, 0, 1)
	for i := 1; i < len(bgStops); i++ {
		if d <= bgStops[i] {
			f := (d - bgStops[i-1]) / (bgStops[i] - bgStops[i-1])
			return rgbFromColorful(t.Background[i-1].BlendRgb(t.Background[i], f))
		}
	}
	return rgbFromColorful(t.Background[len(bgStops)-1])
}

// wireColor returns the wire stroke as 8-bit RGB.
func (t Theme) wireColor() RGB {
	return rgbFromColorful(t.Wire)
}

// backgroundGeometry returns the centre and radius of the background
// gradient for a w×h surface.
func backgroundGeometry(w, h float64) (cx, cy, r float64) {
	return w * 0.5, h * 0.35, max(w, h) * 0.85
}
