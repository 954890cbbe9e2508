package tinsel

import (
	"math"
	"testing"
	"time"
)

func TestBoostInactive(t *testing.T) {
	var b Boost
	if f := b.Factor(1000); f != 0 {
		t.Errorf("Factor before trigger = %v, want 0", f)
	}
	if l := b.Level(1000); l != 0 {
		t.Errorf("Level before trigger = %v, want 0", l)
	}
}

func TestBoostDecay(t *testing.T) {
	var b Boost
	b.Trigger(1000, BoostOptions{Duration: 4 * time.Second, Strength: 1})
	tests := []struct {
		now, want float64
	}{
		{999, 0},
		{1000, 1},
		{2000, 0.5625},
		{3000, 0.25},
		{4999, 1.0 / 4000 / 4000}, // (1-3999/4000)^2
		{5000, 0},
		{9000, 0},
	}
	for _, tt := range tests {
		got := b.Factor(tt.now)
		if !approxEqual(got, tt.want, 1e-4) {
			t.Errorf("Factor(%v) = %v, want %v", tt.now, got, tt.want)
		}
	}
}

func TestBoostMonotonic(t *testing.T) {
	var b Boost
	b.Trigger(0, BoostOptions{})
	prev := math.Inf(1)
	for now := 0.0; now <= 4300; now += 17 {
		f := b.Factor(now)
		if f > prev {
			t.Fatalf("Factor(%v) = %v rose above %v", now, f, prev)
		}
		if f < 0 || f > 1 {
			t.Fatalf("Factor(%v) = %v outside [0, 1]", now, f)
		}
		prev = f
	}
	if prev != 0 {
		t.Errorf("Factor after duration = %v, want exactly 0", prev)
	}
}

func TestBoostClamps(t *testing.T) {
	tests := []struct {
		name         string
		opts         BoostOptions
		wantDuration float64
		wantStrength float64
	}{
		{"defaults", BoostOptions{}, 4200, 1},
		{"short", BoostOptions{Duration: 10 * time.Millisecond, Strength: 1}, 800, 1},
		{"long", BoostOptions{Duration: time.Minute, Strength: 1}, 12000, 1},
		{"strong", BoostOptions{Duration: time.Second, Strength: 9}, 1000, 2},
		{"negative strength", BoostOptions{Duration: time.Second, Strength: -1}, 1000, 0},
		{"nan strength", BoostOptions{Duration: time.Second, Strength: math.NaN()}, 1000, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b Boost
			b.Trigger(0, tt.opts)
			if b.duration != tt.wantDuration {
				t.Errorf("duration = %v, want %v", b.duration, tt.wantDuration)
			}
			if b.Strength() != tt.wantStrength {
				t.Errorf("strength = %v, want %v", b.Strength(), tt.wantStrength)
			}
		})
	}
}

func TestBoostLevelScalesByStrength(t *testing.T) {
	var b Boost
	b.Trigger(0, BoostOptions{Duration: 2 * time.Second, Strength: 2})
	assertNear(t, "Level(0)", b.Level(0), 2)
	assertNear(t, "Level(1000)", b.Level(1000), 0.5)
}
