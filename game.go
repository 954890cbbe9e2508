package tinsel

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// RunConfig configures the window created by Run and the Game wrapper.
type RunConfig struct {
	Title         string
	Width, Height int
	Fullscreen    bool
	// ShowFPS starts with the stats overlay visible.
	ShowFPS bool
	// KeepRunningUnfocused keeps ticking while the window is unfocused or
	// minimised. By default the scene pauses.
	KeepRunningUnfocused bool
	// Keys overrides DefaultKeyMap.
	Keys *KeyMap
	// Sensor, when set, is asked for permission on the first click or tap.
	Sensor OrientationSource
	// Update, when set, runs once per frame before Tick with the same
	// clock. Returning ebiten.Termination ends the loop cleanly; any other
	// error is returned from Run.
	Update func(now float64) error
	// OnSettingsChanged seeds Game.OnSettingsChanged.
	OnSettingsChanged func(Settings)
}

// Game adapts a Scene to ebiten.Game: it reads input, drives Tick with a
// monotonic millisecond clock, pauses on focus loss and sizes the screen by
// the device pixel ratio.
type Game struct {
	scene *Scene
	cfg   RunConfig
	keys  KeyMap
	input inputState
	start time.Time
	dpr   float64

	showStats   bool
	autoPaused  bool
	sensorAsked bool

	// OnSettingsChanged is called after a key binding changes the settings.
	OnSettingsChanged func(Settings)
}

// NewGame wraps scene for ebiten.RunGame.
func NewGame(scene *Scene, cfg RunConfig) *Game {
	keys := DefaultKeyMap()
	if cfg.Keys != nil {
		keys = *cfg.Keys
	}
	g := &Game{
		scene:     scene,
		cfg:       cfg,
		keys:      keys,
		start:     time.Now(),
		dpr:       1,
		showStats: cfg.ShowFPS,

		OnSettingsChanged: cfg.OnSettingsChanged,
	}
	scene.ShowStats(cfg.ShowFPS)
	return g
}

// Scene returns the wrapped scene.
func (g *Game) Scene() *Scene {
	return g.scene
}

// Update implements ebiten.Game.
func (g *Game) Update() error {
	if !g.cfg.KeepRunningUnfocused {
		focused := ebiten.IsFocused() && !ebiten.IsWindowMinimized()
		if !focused {
			if g.scene.Running() {
				g.scene.Pause()
				g.autoPaused = true
			}
			return nil
		}
		if g.autoPaused {
			g.scene.Resume()
			g.autoPaused = false
		}
	}
	g.processInput(g.dpr)
	now := g.clock()
	if g.cfg.Update != nil {
		if err := g.cfg.Update(now); err != nil {
			return err
		}
	}
	g.scene.Tick(now)
	return nil
}

// clock returns milliseconds since the game started.
func (g *Game) clock() float64 {
	return float64(time.Since(g.start).Microseconds()) / 1000
}

// Draw implements ebiten.Game.
func (g *Game) Draw(screen *ebiten.Image) {
	g.scene.Draw(screen)
}

// Layout implements ebiten.Game. The scene works in logical pixels; the
// screen is the logical size times the clamped device pixel ratio.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	dpr := 1.0
	if m := ebiten.Monitor(); m != nil {
		dpr = m.DeviceScaleFactor()
	}
	g.scene.Resize(outsideWidth, outsideHeight, dpr)
	g.dpr = g.scene.cam.DPR
	return int(float64(outsideWidth) * g.dpr), int(float64(outsideHeight) * g.dpr)
}

// requestSensorOnce asks the configured sensor for permission on the first
// user gesture.
func (g *Game) requestSensorOnce() {
	if g.sensorAsked || g.cfg.Sensor == nil {
		return
	}
	g.sensorAsked = true
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := g.scene.RequestSensorPermission(ctx, g.cfg.Sensor)
	if g.scene.debug {
		_, _ = fmt.Fprintf(os.Stderr, "[tinsel] sensor permission: %s\n", p)
	}
}

// Run opens a window and runs scene until the window is closed.
func Run(scene *Scene, cfg RunConfig) error {
	if cfg.Title != "" {
		ebiten.SetWindowTitle(cfg.Title)
	}
	if cfg.Width > 0 && cfg.Height > 0 {
		ebiten.SetWindowSize(cfg.Width, cfg.Height)
	}
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetFullscreen(cfg.Fullscreen)
	ebiten.SetRunnableOnUnfocused(true)
	if err := ebiten.RunGame(NewGame(scene, cfg)); err != nil {
		return fmt.Errorf("run: %w", err)
	}
	return nil
}
