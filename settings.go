package tinsel

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Settings is the flat record of visual knobs that drives a Scene. Field
// names in YAML and JSON match the keys used by persisted settings blobs.
type Settings struct {
	Density      float64 `yaml:"density" json:"density"`
	Size         float64 `yaml:"size" json:"size"`
	Glow         float64 `yaml:"glow" json:"glow"`
	Mouse        float64 `yaml:"mouse" json:"mouse"`
	Color        float64 `yaml:"color" json:"color"`
	Zoom         float64 `yaml:"zoom" json:"zoom"`
	Wind         float64 `yaml:"wind" json:"wind"`
	Sway         float64 `yaml:"sway" json:"sway"`
	FreeflySpeed float64 `yaml:"freeflySpeed" json:"freeflySpeed"`
	SnowAmount   float64 `yaml:"snowAmount" json:"snowAmount"`
	SnowSpeed    float64 `yaml:"snowSpeed" json:"snowSpeed"`
	SnowSize     float64 `yaml:"snowSize" json:"snowSize"`

	Snow         bool `yaml:"snow" json:"snow"`
	Garland      bool `yaml:"garland" json:"garland"`
	Perf         bool `yaml:"perf" json:"perf"`
	Freefly      bool `yaml:"freefly" json:"freefly"`
	AdaptiveSnow bool `yaml:"adaptiveSnow" json:"adaptiveSnow"`
	GyroLook     bool `yaml:"gyroLook" json:"gyroLook"`
	Fireworks    bool `yaml:"fireworks" json:"fireworks"`
	GyroSnow     bool `yaml:"gyroSnow" json:"gyroSnow"`

	Mode Mode `yaml:"mode" json:"mode"`
}

// DefaultSettings returns the settings a fresh Scene starts with.
func DefaultSettings() Settings {
	return Settings{
		Density:      1.15,
		Size:         1.1,
		Glow:         1.15,
		Mouse:        1.05,
		Color:        1.05,
		Zoom:         1,
		Wind:         0.15,
		Sway:         0.45,
		FreeflySpeed: 0.95,
		SnowAmount:   1,
		SnowSpeed:    1,
		SnowSize:     1,
		Snow:         true,
		Garland:      true,
		AdaptiveSnow: true,
		GyroSnow:     true,
		Mode:         ModeDefault,
	}
}

// --- Sanitizing ---

// numericField describes one float knob: its key, where it lives, and the
// range it is clamped to.
type numericField struct {
	key    string
	ref    func(*Settings) *float64
	lo, hi float64
}

var numericFields = [...]numericField{
	{"density", func(s *Settings) *float64 { return &s.Density }, 0.1, 3},
	{"size", func(s *Settings) *float64 { return &s.Size }, 0.5, 2.5},
	{"glow", func(s *Settings) *float64 { return &s.Glow }, 0.3, 2.5},
	{"mouse", func(s *Settings) *float64 { return &s.Mouse }, 0, 2},
	{"color", func(s *Settings) *float64 { return &s.Color }, 0, 2},
	{"zoom", func(s *Settings) *float64 { return &s.Zoom }, 0.7, 1.6},
	{"wind", func(s *Settings) *float64 { return &s.Wind }, -1, 1},
	{"sway", func(s *Settings) *float64 { return &s.Sway }, 0, 1.6},
	{"freeflySpeed", func(s *Settings) *float64 { return &s.FreeflySpeed }, 0.2, 2.2},
	{"snowAmount", func(s *Settings) *float64 { return &s.SnowAmount }, 0.2, 2.2},
	{"snowSpeed", func(s *Settings) *float64 { return &s.SnowSpeed }, 0.5, 2},
	{"snowSize", func(s *Settings) *float64 { return &s.SnowSize }, 0.5, 2},
}

// Sanitize returns a copy of s with every numeric field finite and inside
// its valid range, and an unknown mode replaced by ModeDefault. Non-finite
// values fall back to the default for that field.
func (s Settings) Sanitize() Settings {
	def := DefaultSettings()
	for _, f := range numericFields {
		p := f.ref(&s)
		*p = clamp(finiteOr(*p, *f.ref(&def)), f.lo, f.hi)
	}
	if !s.Mode.Valid() {
		s.Mode = ModeDefault
	}
	return s
}

// --- Patch ---

// boolKeys lists the boolean keys in boolRefs order.
var boolKeys = [...]string{"snow", "garland", "perf", "freefly", "adaptiveSnow", "gyroLook", "fireworks", "gyroSnow"}

// Patch is a partial Settings update. Nil fields are left unchanged.
type Patch struct {
	Density      *float64 `yaml:"density,omitempty" json:"density,omitempty"`
	Size         *float64 `yaml:"size,omitempty" json:"size,omitempty"`
	Glow         *float64 `yaml:"glow,omitempty" json:"glow,omitempty"`
	Mouse        *float64 `yaml:"mouse,omitempty" json:"mouse,omitempty"`
	Color        *float64 `yaml:"color,omitempty" json:"color,omitempty"`
	Zoom         *float64 `yaml:"zoom,omitempty" json:"zoom,omitempty"`
	Wind         *float64 `yaml:"wind,omitempty" json:"wind,omitempty"`
	Sway         *float64 `yaml:"sway,omitempty" json:"sway,omitempty"`
	FreeflySpeed *float64 `yaml:"freeflySpeed,omitempty" json:"freeflySpeed,omitempty"`
	SnowAmount   *float64 `yaml:"snowAmount,omitempty" json:"snowAmount,omitempty"`
	SnowSpeed    *float64 `yaml:"snowSpeed,omitempty" json:"snowSpeed,omitempty"`
	SnowSize     *float64 `yaml:"snowSize,omitempty" json:"snowSize,omitempty"`

	Snow         *bool `yaml:"snow,omitempty" json:"snow,omitempty"`
	Garland      *bool `yaml:"garland,omitempty" json:"garland,omitempty"`
	Perf         *bool `yaml:"perf,omitempty" json:"perf,omitempty"`
	Freefly      *bool `yaml:"freefly,omitempty" json:"freefly,omitempty"`
	AdaptiveSnow *bool `yaml:"adaptiveSnow,omitempty" json:"adaptiveSnow,omitempty"`
	GyroLook     *bool `yaml:"gyroLook,omitempty" json:"gyroLook,omitempty"`
	Fireworks    *bool `yaml:"fireworks,omitempty" json:"fireworks,omitempty"`
	GyroSnow     *bool `yaml:"gyroSnow,omitempty" json:"gyroSnow,omitempty"`

	Mode *Mode `yaml:"mode,omitempty" json:"mode,omitempty"`
}

// Ptr returns a pointer to v. Handy for building a Patch literal:
//
//	scene.SetSettings(tinsel.Patch{Snow: tinsel.Ptr(false)}, tinsel.SetOptions{Rebuild: true})
func Ptr[T any](v T) *T {
	return &v
}

// Empty reports whether p changes nothing.
func (p Patch) Empty() bool {
	return p == Patch{}
}

type floatRef struct {
	src **float64
	dst *float64
}

type boolRef struct {
	src **bool
	dst *bool
}

// floatRefs pairs every numeric Patch field with its Settings counterpart,
// in numericFields order.
func (p *Patch) floatRefs(s *Settings) [len(numericFields)]floatRef {
	return [len(numericFields)]floatRef{
		{&p.Density, &s.Density},
		{&p.Size, &s.Size},
		{&p.Glow, &s.Glow},
		{&p.Mouse, &s.Mouse},
		{&p.Color, &s.Color},
		{&p.Zoom, &s.Zoom},
		{&p.Wind, &s.Wind},
		{&p.Sway, &s.Sway},
		{&p.FreeflySpeed, &s.FreeflySpeed},
		{&p.SnowAmount, &s.SnowAmount},
		{&p.SnowSpeed, &s.SnowSpeed},
		{&p.SnowSize, &s.SnowSize},
	}
}

// boolRefs pairs every boolean Patch field with its Settings counterpart.
func (p *Patch) boolRefs(s *Settings) [len(boolKeys)]boolRef {
	return [len(boolKeys)]boolRef{
		{&p.Snow, &s.Snow},
		{&p.Garland, &s.Garland},
		{&p.Perf, &s.Perf},
		{&p.Freefly, &s.Freefly},
		{&p.AdaptiveSnow, &s.AdaptiveSnow},
		{&p.GyroLook, &s.GyroLook},
		{&p.Fireworks, &s.Fireworks},
		{&p.GyroSnow, &s.GyroSnow},
	}
}

// Apply returns s with every non-nil field of p merged in, sanitized.
func (p Patch) Apply(s Settings) Settings {
	for _, r := range p.floatRefs(&s) {
		if *r.src != nil {
			*r.dst = **r.src
		}
	}
	for _, r := range p.boolRefs(&s) {
		if *r.src != nil {
			*r.dst = **r.src
		}
	}
	if p.Mode != nil {
		s.Mode = *p.Mode
	}
	return s.Sanitize()
}

// Patch returns a Patch that sets every field to the value in s.
func (s Settings) Patch() Patch {
	var p Patch
	for _, r := range p.floatRefs(&s) {
		*r.src = Ptr(*r.dst)
	}
	for _, r := range p.boolRefs(&s) {
		*r.src = Ptr(*r.dst)
	}
	p.Mode = Ptr(s.Mode)
	return p
}

// ParsePatch decodes a YAML or JSON settings blob into a Patch.
//
// Decoding is lenient: unknown and legacy keys (such as the retired "topper"
// flag) are ignored, and a value of the wrong type is skipped rather than
// failing the whole blob. Numeric strings like "1.2" are accepted. An error is
// returned only when the document itself is malformed.
func ParsePatch(data []byte) (Patch, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Patch{}, fmt.Errorf("parse patch: %w", err)
	}

	var p Patch
	var scratch Settings
	floats := p.floatRefs(&scratch)
	for i, f := range numericFields {
		v, ok := raw[f.key]
		if !ok {
			continue
		}
		if n, ok := toFloat(v); ok {
			*floats[i].src = Ptr(n)
		}
	}
	bools := p.boolRefs(&scratch)
	for i, key := range boolKeys {
		if b, ok := raw[key].(bool); ok {
			*bools[i].src = Ptr(b)
		}
	}
	if m, ok := raw["mode"].(string); ok {
		p.Mode = Ptr(Mode(m))
	}
	return p, nil
}

// toFloat coerces a decoded YAML scalar to float64.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float64:
		return n, true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	}
	return 0, false
}

// SetOptions controls how Scene.SetSettings applies a Patch.
type SetOptions struct {
	// Rebuild regenerates the particle population after merging. Needed for
	// changes to density, size, garland, snow, mode or perf.
	Rebuild bool
}
