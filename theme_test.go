package tinsel

import (
	"math"
	"testing"
)

func TestDefaultThemeStops(t *testing.T) {
	th := DefaultTheme()
	if got := th.BackgroundAt(0); got != (RGB{0x07, 0x10, 0x1d}) {
		t.Errorf("centre = %v, want #07101d", got)
	}
	if got := th.BackgroundAt(0.55); got != (RGB{0x02, 0x04, 0x0a}) {
		t.Errorf("mid = %v, want #02040a", got)
	}
	if got := th.BackgroundAt(1); got != (RGB{}) {
		t.Errorf("edge = %v, want black", got)
	}
	if got := th.BackgroundAt(4); got != (RGB{}) {
		t.Errorf("beyond edge = %v, want black", got)
	}
	if got := th.wireColor(); got != (RGB{255, 255, 255}) {
		t.Errorf("wire = %v, want white", got)
	}
}

func TestBackgroundAtInterpolates(t *testing.T) {
	th, err := ThemeFromHex("#000000", "#ff0000", "#ff0000", "#ffffff", 1)
	if err != nil {
		t.Fatalf("ThemeFromHex: %v", err)
	}
	got := th.BackgroundAt(0.275)
	if got.R < 126 || got.R > 129 || got.G != 0 || got.B != 0 {
		t.Errorf("halfway to the mid stop = %v, want ~{128 0 0}", got)
	}
}

func TestThemeFromHexErrors(t *testing.T) {
	if _, err := ThemeFromHex("#000000", "nope", "#000000", "#ffffff", 0.1); err == nil {
		t.Error("expected error for bad background color")
	}
	if _, err := ThemeFromHex("#000000", "#000000", "#000000", "#12", 0.1); err == nil {
		t.Error("expected error for bad wire color")
	}
	th, err := ThemeFromHex("#000000", "#000000", "#000000", "#ffffff", math.NaN())
	if err != nil {
		t.Fatalf("ThemeFromHex: %v", err)
	}
	if th.WireAlpha != 0.12 {
		t.Errorf("WireAlpha = %v, want 0.12 for NaN", th.WireAlpha)
	}
}

func TestBackgroundGeometry(t *testing.T) {
	cx, cy, r := backgroundGeometry(1000, 600)
	assertNear(t, "cx", cx, 500)
	assertNear(t, "cy", cy, 210)
	assertNear(t, "r", r, 850)
}

func TestRGBColorfulRoundTrip(t *testing.T) {
	for _, c := range Palette {
		if got := rgbFromColorful(c.Colorful()); got != c {
			t.Errorf("round trip %v = %v", c, got)
		}
	}
}
