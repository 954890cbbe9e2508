// Command tinsel-term draws the animated tree in a terminal.
//
// Keys: b boost, s snow, f fireworks, g globe, p perf, q or Esc quits.
// Clicking or dragging the mouse moves the camera.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/phanxgames/tinsel"
	"github.com/phanxgames/tinsel/prefs"
	"github.com/phanxgames/tinsel/sfx"
	"github.com/phanxgames/tinsel/term"
)

// toggles maps a key rune to the boolean setting it flips.
var toggles = map[rune]func(tinsel.Settings) tinsel.Patch{
	's': func(st tinsel.Settings) tinsel.Patch { return tinsel.Patch{Snow: tinsel.Ptr(!st.Snow)} },
	'f': func(st tinsel.Settings) tinsel.Patch { return tinsel.Patch{Fireworks: tinsel.Ptr(!st.Fireworks)} },
	'p': func(st tinsel.Settings) tinsel.Patch { return tinsel.Patch{Perf: tinsel.Ptr(!st.Perf)} },
	'g': func(st tinsel.Settings) tinsel.Patch {
		m := tinsel.ModeGlobe
		if st.Mode == tinsel.ModeGlobe {
			m = tinsel.ModeDefault
		}
		return tinsel.Patch{Mode: &m}
	},
}

// pointer is a mouse position in terminal cells.
type pointer struct{ x, y int }

func main() {
	var (
		fps    = flag.Int("fps", 25, "frames per second")
		seed   = flag.Uint64("seed", 0, "random seed; 0 picks one from the clock")
		scale  = flag.Float64("scale", term.DefaultConfig().Scale, "logical pixels per terminal pixel")
		noRim  = flag.Bool("no-rim", false, "skip the globe rim")
		sound  = flag.Bool("sound", false, "play a pop on every firework burst")
		noSave = flag.Bool("no-save", false, "do not load or save settings")
	)
	flag.Parse()
	if *fps <= 0 {
		log.Fatalf("fps must be positive, got %d", *fps)
	}
	if *seed == 0 {
		*seed = uint64(time.Now().UnixNano())
	}

	store := prefs.NewStore(nil)
	if !*noSave {
		if s, err := prefs.Open(prefs.AppName); err == nil {
			store = s
		}
	}
	st, err := store.LoadSettings(tinsel.DefaultSettings())
	if err != nil {
		st = tinsel.DefaultSettings()
	}

	screen, err := term.OpenScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	defer screen.Fini()
	screen.EnableMouse()

	cfg := term.DefaultConfig()
	cfg.Scale = *scale
	cfg.Rim = !*noRim
	r := term.NewRenderer(screen, cfg)

	scene := tinsel.NewScene(tinsel.WithSeed(*seed), tinsel.WithSettings(st))
	w, h := r.SceneSize()
	scene.Initialize(w, h, 1)

	if *sound {
		player := sfx.NewPlayer(sfx.LoadConfig())
		// Errors can't be logged once the screen owns the terminal.
		if player.Init() == nil {
			player.Attach(scene)
			defer player.Close()
		}
	}

	// Events are handed to the draw loop so the scene is only touched from
	// one goroutine.
	quit := make(chan struct{})
	keys := make(chan rune, 8)
	moves := make(chan pointer, 8)
	resized := make(chan struct{}, 1)
	go func() {
		for {
			ev := screen.PollEvent()
			switch ev := ev.(type) {
			case nil:
				return
			case *tcell.EventKey:
				if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC || ev.Rune() == 'q' {
					close(quit)
					return
				}
				if ev.Key() == tcell.KeyRune {
					select {
					case keys <- ev.Rune():
					default:
					}
				}
			case *tcell.EventMouse:
				if ev.Buttons()&tcell.Button1 != 0 {
					x, y := ev.Position()
					select {
					case moves <- pointer{x, y}:
					default:
					}
				}
			case *tcell.EventResize:
				screen.Sync()
				select {
				case resized <- struct{}{}:
				default:
				}
			}
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			close(quit)
		case <-quit:
		}
	}()

	ticker := time.NewTicker(time.Second / time.Duration(*fps))
	defer ticker.Stop()

	start := time.Now()
	for {
		select {
		case <-quit:
			return
		case <-resized:
			w, h := r.SceneSize()
			scene.Resize(w, h, 1)
		case k := <-keys:
			if k == 'b' {
				scene.TriggerBoost(tinsel.BoostOptions{})
				continue
			}
			toggle, ok := toggles[k]
			if !ok {
				continue
			}
			scene.SetSettings(toggle(scene.Settings()), tinsel.SetOptions{Rebuild: true})
			if !*noSave {
				_ = store.SaveSettings(scene.Settings())
			}
		case p := <-moves:
			cols, rows := screen.Size()
			sw, sh := r.SceneSize()
			if cols > 0 && rows > 0 {
				scene.SetPointer(
					(float64(p.x)+0.5)/float64(cols)*float64(sw),
					(float64(p.y)+0.5)/float64(rows)*float64(sh),
				)
			}
		case <-ticker.C:
			scene.Tick(float64(time.Since(start).Microseconds()) / 1000)
			r.Draw(scene)
		}
	}
}
