package tinsel

import "testing"

func TestTwinkleLevel(t *testing.T) {
	tests := []struct {
		tw   float64
		want int
	}{
		{-1, 0},
		{0, 0},
		{0.5, 8},
		{1, glowLevels - 1},
		{7, glowLevels - 1},
	}
	for _, tt := range tests {
		if got := twinkleLevel(tt.tw); got != tt.want {
			t.Errorf("twinkleLevel(%v) = %d, want %d", tt.tw, got, tt.want)
		}
	}
}

func TestAtlasRects(t *testing.T) {
	r := lightHaloRect(1)
	if r.x0 != float32((glowLevels-1)*glowCell) || r.y0 != 0 || r.x1-r.x0 != glowCell {
		t.Errorf("lightHaloRect(1) = %+v", r)
	}
	r = sparkHaloRect(0)
	if r.x0 != 0 || r.y0 != glowCell {
		t.Errorf("sparkHaloRect(0) = %+v", r)
	}
	if discRect.y0 != 2*glowCell {
		t.Errorf("discRect = %+v, want row 2", discRect)
	}
	// The solid block is sampled strictly inside its own cell.
	if solidRect.x0 <= glowCell || solidRect.x1 >= 2*glowCell ||
		solidRect.y0 <= 2*glowCell || solidRect.y1 >= 3*glowCell {
		t.Errorf("solidRect = %+v leaves its cell", solidRect)
	}
}

func TestEdgeCoverage(t *testing.T) {
	assertNear(t, "inside", edgeCoverage(10, 31), 1)
	assertNear(t, "on edge", edgeCoverage(31, 31), 0.5)
	assertNear(t, "outside", edgeCoverage(32, 31), 0)
}

func TestRingAlpha(t *testing.T) {
	g, a := RimAlpha(50, 100)
	if g != 0 || a != 0 {
		t.Errorf("inside the rim = (%v, %v), want transparent", g, a)
	}
	_, a = RimAlpha(106, 100)
	assertNear(t, "outer alpha", a, 0.28)
	g, a = RimAlpha(100, 100)
	if g <= 0 || g != a {
		t.Errorf("mid rim = (%v, %v), want equal white highlight", g, a)
	}
	// gray never exceeds alpha in premultiplied space
	for d := 0.0; d < 120; d += 0.5 {
		g, a := RimAlpha(d, 100)
		if g > a+1e-12 {
			t.Fatalf("RimAlpha(%v) gray %v > alpha %v", d, g, a)
		}
	}
}
