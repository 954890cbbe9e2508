package tinsel

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestFireworkKindString(t *testing.T) {
	tests := []struct {
		k    FireworkKind
		want string
	}{
		{FireworkRocket, "rocket"},
		{FireworkSpark, "spark"},
		{FireworkTrail, "trail"},
		{FireworkFlash, "flash"},
		{FireworkKind(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.k.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.k, got, tt.want)
		}
	}
}

func TestFireworkLife01(t *testing.T) {
	f := Firework{Life: 50, Life0: 200}
	assertNear(t, "life01", f.life01(), 0.25)
	f = Firework{Life: 0.5, Life0: 0}
	assertNear(t, "life01 tiny Life0", f.life01(), 0.5)
	f = Firework{Life: -3, Life0: 100}
	assertNear(t, "life01 expired", f.life01(), 0)
}

func TestFireworksDisabledIsEmpty(t *testing.T) {
	s := newTestScene(t, 1280, 720, Patch{})
	for i := 0; i < 50; i++ {
		s.Tick(float64(i) * 16)
	}
	if got := len(s.Fireworks()); got != 0 {
		t.Fatalf("fireworks = %d with fireworks off, want 0", got)
	}

	s.SetSettings(Patch{Fireworks: Ptr(true)}, SetOptions{})
	s.Tick(50 * 16)
	if len(s.Fireworks()) == 0 {
		t.Fatal("expected a rocket after enabling fireworks")
	}
	s.SetSettings(Patch{Fireworks: Ptr(false)}, SetOptions{})
	s.Tick(51 * 16)
	if got := len(s.Fireworks()); got != 0 {
		t.Errorf("fireworks = %d after disabling, want 0", got)
	}
}

func TestFireworkRocketBursts(t *testing.T) {
	s := newTestScene(t, 1280, 720, Patch{Fireworks: Ptr(true)})
	var events []BurstEvent
	s.OnBurst = func(e BurstEvent) { events = append(events, e) }

	for i := 0; i < 120 && len(events) == 0; i++ {
		s.Tick(float64(i) * 16)
	}
	if len(events) == 0 {
		t.Fatal("no rocket burst within 120 ticks")
	}
	e := events[0]
	if e.Sparks <= 0 {
		t.Errorf("Sparks = %d, want > 0", e.Sparks)
	}
	if e.Pan < -1 || e.Pan > 1 {
		t.Errorf("Pan = %v outside [-1, 1]", e.Pan)
	}
	b := s.Bounds()
	if e.Pos.Y() > b.TopY+b.Height()*0.35+1e-9 {
		t.Errorf("burst y = %v below the burst band", e.Pos.Y())
	}

	sparks, flashes := 0, 0
	for _, fw := range s.Fireworks() {
		switch fw.Kind {
		case FireworkSpark:
			sparks++
			if fw.Life0 < 980 || fw.Life0 >= 1680 {
				t.Errorf("spark Life0 = %v outside [980, 1680)", fw.Life0)
			}
		case FireworkFlash:
			flashes++
		}
	}
	if sparks != e.Sparks {
		t.Errorf("live sparks = %d, want %d", sparks, e.Sparks)
	}
	if flashes != 1 {
		t.Errorf("flashes = %d, want 1", flashes)
	}
}

func TestFireworkRocketIgnoresGravity(t *testing.T) {
	s := newTestScene(t, 1280, 720, Patch{Fireworks: Ptr(true)})
	s.nextRocket = math.Inf(1)
	s.fireworks = []Firework{
		{Vel: mgl64.Vec3{0, -1, 0}, Life: 1e6, Life0: 1e6, Drag: 1, Kind: FireworkRocket, BurstY: math.Inf(-1)},
		{Life: 1e6, Life0: 1e6, Drag: 1, Kind: FireworkTrail},
	}
	s.updateFireworks(0)

	var rocket, trail *Firework
	for i := range s.fireworks {
		fw := &s.fireworks[i]
		switch {
		case fw.Kind == FireworkRocket:
			rocket = fw
		case fw.Kind == FireworkTrail && fw.Life0 == 1e6:
			trail = fw
		}
	}
	if rocket == nil || trail == nil {
		t.Fatal("rocket or trail missing after one update")
	}
	assertNear(t, "rocket vy", rocket.Vel.Y(), -1)
	assertNear(t, "rocket y", rocket.Pos.Y(), -fwMinDT)
	assertNear(t, "trail vy", trail.Vel.Y(), 0.0125*fwMinDT)
}

func TestFireworkLifetimeExpires(t *testing.T) {
	s := newTestScene(t, 1280, 720, Patch{Fireworks: Ptr(true)})
	s.nextRocket = math.Inf(1)
	s.fireworks = []Firework{{Life: 10, Life0: 10, Drag: 1, Kind: FireworkSpark}}

	s.updateFireworks(0)
	if got := len(s.Fireworks()); got != 1 {
		t.Fatalf("after 8 ms = %d particles, want 1", got)
	}
	s.updateFireworks(4)
	if got := len(s.Fireworks()); got != 0 {
		t.Errorf("after 16 ms = %d particles, want 0", got)
	}
}

func TestFireworkDeltaClamp(t *testing.T) {
	s := newTestScene(t, 1280, 720, Patch{Fireworks: Ptr(true)})
	s.nextRocket = math.Inf(1)
	s.fireworks = []Firework{{Life: 1000, Life0: 1000, Drag: 1, Kind: FireworkFlash}}

	s.updateFireworks(0)
	s.updateFireworks(5000)
	assertNear(t, "life", s.fireworks[0].Life, 1000-fwMinDT-fwMaxDT)
}

func TestFireworksEmitAdditive(t *testing.T) {
	s := newTestScene(t, 1280, 720, Patch{Fireworks: Ptr(true)})
	s.Tick(0)
	s.Tick(16)
	found := false
	for _, c := range s.Commands() {
		if c.Type == CommandSpark || c.Type == CommandStreak {
			found = true
			if c.BlendMode != BlendAdd {
				t.Errorf("%s blend = %d, want additive", c.Type, c.BlendMode)
			}
		}
	}
	if !found {
		t.Error("no firework commands emitted")
	}
}
