package tinsel

import (
	"math"
	"testing"
)

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()
	if s.Density != 1.15 || s.Size != 1.1 || s.Glow != 1.15 {
		t.Errorf("density/size/glow = %v/%v/%v, want 1.15/1.1/1.15", s.Density, s.Size, s.Glow)
	}
	if !s.Snow || !s.Garland || !s.AdaptiveSnow || !s.GyroSnow {
		t.Error("snow, garland, adaptiveSnow and gyroSnow should default on")
	}
	if s.Perf || s.Freefly || s.Fireworks || s.GyroLook {
		t.Error("perf, freefly, fireworks and gyroLook should default off")
	}
	if s.Mode != ModeDefault {
		t.Errorf("Mode = %q, want %q", s.Mode, ModeDefault)
	}
	if s.Sanitize() != s {
		t.Error("defaults should already be sanitized")
	}
}

func TestSanitizeClamps(t *testing.T) {
	s := DefaultSettings()
	s.Density = 10
	s.Size = -1
	s.Zoom = 0.1
	s.Wind = -5
	s.SnowSpeed = 3
	s.Mode = "snowglobe"

	got := s.Sanitize()
	tests := []struct {
		name      string
		got, want float64
	}{
		{"density", got.Density, 3},
		{"size", got.Size, 0.5},
		{"zoom", got.Zoom, 0.7},
		{"wind", got.Wind, -1},
		{"snowSpeed", got.SnowSpeed, 2},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}
	if got.Mode != ModeDefault {
		t.Errorf("Mode = %q, want default", got.Mode)
	}
}

func TestSanitizeNonFinite(t *testing.T) {
	s := DefaultSettings()
	s.Glow = math.NaN()
	s.Sway = math.Inf(1)
	got := s.Sanitize()
	if got.Glow != 1.15 {
		t.Errorf("Glow = %v, want default 1.15", got.Glow)
	}
	if got.Sway != 0.45 {
		t.Errorf("Sway = %v, want default 0.45", got.Sway)
	}
}

func TestPatchApply(t *testing.T) {
	base := DefaultSettings()
	p := Patch{Density: Ptr(2.0), Snow: Ptr(false), Mode: Ptr(ModeGlobe)}
	got := p.Apply(base)
	if got.Density != 2 || got.Snow || got.Mode != ModeGlobe {
		t.Errorf("Apply = %+v", got)
	}
	if got.Size != base.Size || got.Garland != base.Garland {
		t.Error("fields absent from the patch should be unchanged")
	}
	if base.Density != 1.15 {
		t.Error("Apply must not modify its argument")
	}
}

func TestPatchApplySanitizes(t *testing.T) {
	got := Patch{Glow: Ptr(100.0), Zoom: Ptr(math.NaN())}.Apply(DefaultSettings())
	if got.Glow != 2.5 {
		t.Errorf("Glow = %v, want 2.5", got.Glow)
	}
	if got.Zoom != 1 {
		t.Errorf("Zoom = %v, want 1", got.Zoom)
	}
}

func TestPatchEmpty(t *testing.T) {
	if !(Patch{}).Empty() {
		t.Error("zero Patch should be empty")
	}
	if (Patch{Wind: Ptr(0.0)}).Empty() {
		t.Error("patch with a field set should not be empty")
	}
}

func TestSettingsPatchRoundTrip(t *testing.T) {
	s := DefaultSettings()
	s.Fireworks = true
	s.Wind = -0.4
	s.Mode = ModeGlobe
	if got := s.Patch().Apply(Settings{}); got != s {
		t.Errorf("Patch().Apply = %+v, want %+v", got, s)
	}
}

func TestParsePatch(t *testing.T) {
	p, err := ParsePatch([]byte(`{"density": 1.4, "snow": false, "mode": "globe", "topper": true, "unknown": 3}`))
	if err != nil {
		t.Fatalf("ParsePatch: %v", err)
	}
	if p.Density == nil || *p.Density != 1.4 {
		t.Errorf("Density = %v, want 1.4", p.Density)
	}
	if p.Snow == nil || *p.Snow {
		t.Errorf("Snow = %v, want false", p.Snow)
	}
	if p.Mode == nil || *p.Mode != ModeGlobe {
		t.Errorf("Mode = %v, want globe", p.Mode)
	}
	if p.Garland != nil || p.Size != nil {
		t.Error("absent keys should stay nil")
	}
}

func TestParsePatchYAML(t *testing.T) {
	p, err := ParsePatch([]byte("zoom: 2\nwind: \"-0.5\"\nperf: yes-please\nsnowAmount: 1\n"))
	if err != nil {
		t.Fatalf("ParsePatch: %v", err)
	}
	if p.Zoom == nil || *p.Zoom != 2 {
		t.Errorf("Zoom = %v, want 2", p.Zoom)
	}
	if p.Wind == nil || *p.Wind != -0.5 {
		t.Errorf("Wind = %v, want -0.5", p.Wind)
	}
	if p.Perf != nil {
		t.Error("non-boolean perf should be skipped")
	}
	if p.SnowAmount == nil || *p.SnowAmount != 1 {
		t.Errorf("SnowAmount = %v, want 1", p.SnowAmount)
	}
}

func TestParsePatchTopperOnly(t *testing.T) {
	p, err := ParsePatch([]byte(`{"topper": false}`))
	if err != nil {
		t.Fatalf("ParsePatch: %v", err)
	}
	if !p.Empty() {
		t.Errorf("topper-only blob should parse to an empty patch, got %+v", p)
	}
}

func TestParsePatchMalformed(t *testing.T) {
	if _, err := ParsePatch([]byte("{density: [")); err == nil {
		t.Error("expected error for malformed document")
	}
}
