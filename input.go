package tinsel

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// KeyNone leaves an action unbound.
const KeyNone ebiten.Key = -1

// KeyMap binds host keys to scene actions. Use KeyNone to disable one.
type KeyMap struct {
	Boost      ebiten.Key
	Globe      ebiten.Key
	Fireworks  ebiten.Key
	Snow       ebiten.Key
	Garland    ebiten.Key
	Perf       ebiten.Key
	Freefly    ebiten.Key
	Stats      ebiten.Key
	Screenshot ebiten.Key
}

// DefaultKeyMap returns the bindings used by Run.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Boost:      ebiten.KeySpace,
		Globe:      ebiten.KeyG,
		Fireworks:  ebiten.KeyF,
		Snow:       ebiten.KeyS,
		Garland:    ebiten.KeyL,
		Perf:       ebiten.KeyP,
		Freefly:    ebiten.KeyC,
		Stats:      ebiten.KeyTab,
		Screenshot: ebiten.KeyF12,
	}
}

// inputState tracks pointer and touch state between ticks.
type inputState struct {
	lastCursorX, lastCursorY int
	cursorSeen               bool
	touchIDs                 []ebiten.TouchID
	justTouched              []ebiten.TouchID
}

// processInput feeds mouse, touch and key input to the scene. scale is the
// device pixel ratio between the layout size and the scene's logical size.
func (g *Game) processInput(scale float64) {
	s := g.scene
	in := &g.input
	if scale <= 0 {
		scale = 1
	}

	// Mouse: only forward real movement so a parked cursor does not fight
	// touch or test-runner input.
	mx, my := ebiten.CursorPosition()
	if !in.cursorSeen || mx != in.lastCursorX || my != in.lastCursorY {
		in.lastCursorX, in.lastCursorY = mx, my
		if in.cursorSeen {
			s.SetPointer(float64(mx)/scale, float64(my)/scale)
		}
		in.cursorSeen = true
	}

	// Touch: the first active touch drives the pointer.
	in.touchIDs = ebiten.AppendTouchIDs(in.touchIDs[:0])
	if len(in.touchIDs) > 0 {
		tx, ty := ebiten.TouchPosition(in.touchIDs[0])
		s.SetPointer(float64(tx)/scale, float64(ty)/scale)
	}

	// A tap or click fires a boost, and the first one is also the user
	// gesture that asks for sensor access.
	in.justTouched = inpututil.AppendJustPressedTouchIDs(in.justTouched[:0])
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) || len(in.justTouched) > 0 {
		g.requestSensorOnce()
		s.TriggerBoost(BoostOptions{})
	}

	g.processKeys()
}

// processKeys applies the key map.
func (g *Game) processKeys() {
	s := g.scene
	k := g.keys
	pressed := func(key ebiten.Key) bool {
		return key >= 0 && inpututil.IsKeyJustPressed(key)
	}
	toggle := func(cur bool) *bool { return Ptr(!cur) }
	st := s.Settings()

	switch {
	case pressed(k.Boost):
		s.TriggerBoost(BoostOptions{})
	case pressed(k.Globe):
		mode := ModeGlobe
		if st.Mode == ModeGlobe {
			mode = ModeDefault
		}
		s.SetSettings(Patch{Mode: &mode}, SetOptions{Rebuild: true})
	case pressed(k.Fireworks):
		s.SetSettings(Patch{Fireworks: toggle(st.Fireworks)}, SetOptions{})
	case pressed(k.Snow):
		s.SetSettings(Patch{Snow: toggle(st.Snow)}, SetOptions{Rebuild: true})
	case pressed(k.Garland):
		s.SetSettings(Patch{Garland: toggle(st.Garland)}, SetOptions{Rebuild: true})
	case pressed(k.Perf):
		s.SetSettings(Patch{Perf: toggle(st.Perf)}, SetOptions{Rebuild: true})
	case pressed(k.Freefly):
		s.SetSettings(Patch{Freefly: toggle(st.Freefly)}, SetOptions{})
	case pressed(k.Stats):
		g.showStats = !g.showStats
		s.ShowStats(g.showStats)
	case pressed(k.Screenshot):
		s.Screenshot("capture")
	}
	if g.OnSettingsChanged != nil && s.Settings() != st {
		g.OnSettingsChanged(s.Settings())
	}
}
