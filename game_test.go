package tinsel

import (
	"errors"
	"testing"
)

func TestNewGameKeys(t *testing.T) {
	s := NewScene()
	g := NewGame(s, RunConfig{})
	if g.keys != DefaultKeyMap() {
		t.Error("nil Keys should use DefaultKeyMap")
	}
	if g.Scene() != s {
		t.Error("Scene() should return the wrapped scene")
	}

	custom := KeyMap{Boost: DefaultKeyMap().Snow}
	g = NewGame(s, RunConfig{Keys: &custom, ShowFPS: true})
	if g.keys != custom {
		t.Error("Keys override ignored")
	}
	if !g.showStats || !s.showStats {
		t.Error("ShowFPS should start with the overlay visible")
	}
}

func TestGameRequestsSensorOnce(t *testing.T) {
	s := newTestScene(t, 320, 240, Patch{})
	src := &countingSource{}
	g := NewGame(s, RunConfig{Sensor: src})
	g.requestSensorOnce()
	g.requestSensorOnce()
	if src.requests != 1 {
		t.Errorf("requests = %d, want 1", src.requests)
	}
	if s.SensorPermission() != PermissionGranted {
		t.Errorf("permission = %s, want granted", s.SensorPermission())
	}
}

func TestGameWithoutSensor(t *testing.T) {
	s := newTestScene(t, 320, 240, Patch{})
	g := NewGame(s, RunConfig{})
	g.requestSensorOnce()
	if s.SensorPermission() != PermissionUnavailable {
		t.Errorf("permission = %s, want unavailable", s.SensorPermission())
	}
}

func TestGameClockMonotonic(t *testing.T) {
	g := NewGame(NewScene(), RunConfig{})
	a := g.clock()
	b := g.clock()
	if b < a || a < 0 {
		t.Errorf("clock went from %v to %v", a, b)
	}
}

func TestGameUpdateHook(t *testing.T) {
	s := newTestScene(t, 320, 240, Patch{})
	errStop := errors.New("stop")
	calls := 0
	g := NewGame(s, RunConfig{
		KeepRunningUnfocused: true,
		Update: func(now float64) error {
			calls++
			if now < 0 {
				t.Errorf("now = %v, want >= 0", now)
			}
			return errStop
		},
	})
	if err := g.Update(); !errors.Is(err, errStop) {
		t.Fatalf("Update = %v, want errStop", err)
	}
	if calls != 1 {
		t.Errorf("hook calls = %d, want 1", calls)
	}
	if len(s.Commands()) != 0 {
		t.Error("scene ticked after the hook stopped the frame")
	}
}

func TestGameSettingsCallbackFromConfig(t *testing.T) {
	var got Settings
	g := NewGame(NewScene(), RunConfig{OnSettingsChanged: func(st Settings) { got = st }})
	if g.OnSettingsChanged == nil {
		t.Fatal("OnSettingsChanged not seeded from RunConfig")
	}
	g.OnSettingsChanged(DefaultSettings())
	if got != DefaultSettings() {
		t.Error("callback not invoked")
	}
}
