// Command tinsel opens a window with the animated tree.
//
// Settings changed with the keyboard are saved and restored on the next
// run. With -bench the program runs the three-phase benchmark, prints the
// grade, stores it and exits.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/tinsel"
	"github.com/phanxgames/tinsel/bench"
	"github.com/phanxgames/tinsel/prefs"
	"github.com/phanxgames/tinsel/sfx"
)

const windowTitle = "Tinsel"

type options struct {
	width, height int
	fullscreen    bool
	showFPS       bool
	debug         bool
	seed          uint64
	preset        string
	mode          string
	reduceMotion  bool
	sound         bool
	noSave        bool
	script        string
	screenshots   string

	bench      bool
	benchPerf  bool
	benchPhase time.Duration
	benchLast  bool
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("tinsel", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.IntVar(&o.width, "width", 1280, "window width")
	fs.IntVar(&o.height, "height", 800, "window height")
	fs.BoolVar(&o.fullscreen, "fullscreen", false, "start fullscreen")
	fs.BoolVar(&o.showFPS, "fps", false, "show the stats overlay")
	fs.BoolVar(&o.debug, "debug", false, "log frame timings to stderr")
	fs.Uint64Var(&o.seed, "seed", 0, "random seed; 0 picks one from the clock")
	fs.StringVar(&o.preset, "preset", "", "YAML or JSON settings file applied on top of saved settings")
	fs.StringVar(&o.mode, "mode", "", "visual mode: default or globe")
	fs.BoolVar(&o.reduceMotion, "reduce-motion", false, "damp pointer parallax and boost")
	fs.BoolVar(&o.sound, "sound", sfx.LoadConfig().Enabled, "play a pop on every firework burst")
	fs.BoolVar(&o.noSave, "no-save", false, "do not load or save settings")
	fs.StringVar(&o.script, "test", "", "JSON test script to run")
	fs.StringVar(&o.screenshots, "screenshots", "screenshots", "directory for screenshots")
	fs.BoolVar(&o.bench, "bench", false, "run the benchmark and exit")
	fs.BoolVar(&o.benchPerf, "bench-perf", false, "benchmark with perf mode on")
	fs.DurationVar(&o.benchPhase, "bench-phase", bench.DefaultConfig().PhaseDuration, "duration of each benchmark phase")
	fs.BoolVar(&o.benchLast, "bench-last", false, "print the last benchmark result and exit")
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if o.mode != "" && !tinsel.Mode(o.mode).Valid() {
		return o, fmt.Errorf("unknown mode %q", o.mode)
	}
	if o.width <= 0 || o.height <= 0 {
		return o, fmt.Errorf("window size %dx%d must be positive", o.width, o.height)
	}
	return o, nil
}

// initialSettings merges saved settings, the preset file and the -mode flag
// over the defaults.
func initialSettings(o options, store *prefs.Store) (tinsel.Settings, error) {
	st := tinsel.DefaultSettings()
	if !o.noSave {
		loaded, err := store.LoadSettings(st)
		if err != nil {
			log.Printf("[tinsel] %v (using defaults)", err)
		} else {
			st = loaded
		}
	}
	if o.preset != "" {
		data, err := os.ReadFile(o.preset)
		if err != nil {
			return st, fmt.Errorf("read preset: %w", err)
		}
		p, err := tinsel.ParsePatch(data)
		if err != nil {
			return st, fmt.Errorf("preset %s: %w", o.preset, err)
		}
		st = p.Apply(st)
	}
	if o.mode != "" {
		st = tinsel.Patch{Mode: tinsel.Ptr(tinsel.Mode(o.mode))}.Apply(st)
	}
	return st, nil
}

// settingsSaver persists settings after every change and restores the perf
// flag last used in a mode when switching to it.
type settingsSaver struct {
	store *prefs.Store
	scene *tinsel.Scene
	mode  tinsel.Mode
}

func (s *settingsSaver) changed(st tinsel.Settings) {
	if st.Mode != s.mode {
		s.mode = st.Mode
		if perf, ok := s.store.ModePerf(st.Mode); ok && perf != st.Perf {
			s.scene.SetSettings(tinsel.Patch{Perf: tinsel.Ptr(perf)}, tinsel.SetOptions{Rebuild: true})
			st = s.scene.Settings()
		}
	}
	if err := s.store.SaveSettings(st); err != nil {
		log.Printf("[tinsel] %v", err)
	}
	if err := s.store.SaveModePerf(st.Mode, st.Perf); err != nil {
		log.Printf("[tinsel] %v", err)
	}
}

func openStore() *prefs.Store {
	store, err := prefs.Open(prefs.AppName)
	if err != nil {
		log.Printf("[tinsel] settings will not persist: %v", err)
		return prefs.NewStore(nil)
	}
	return store
}

func main() {
	o, err := parseFlags(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		log.Fatal(err)
	}

	store := openStore()

	if o.benchLast {
		res, ok, err := store.LastBench()
		switch {
		case err != nil:
			log.Fatal(err)
		case !ok:
			fmt.Println("No benchmark result saved.")
		default:
			fmt.Printf("Last run %s\n%s", res.At.Format(time.DateTime), res.Report())
		}
		return
	}

	st, err := initialSettings(o, store)
	if err != nil {
		log.Fatal(err)
	}

	seed := o.seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	scene := tinsel.NewScene(
		tinsel.WithSeed(seed),
		tinsel.WithSettings(st),
		tinsel.WithReduceMotion(o.reduceMotion),
	)
	scene.ScreenshotDir = o.screenshots
	scene.SetDebugMode(o.debug)

	if o.script != "" {
		data, err := os.ReadFile(o.script)
		if err != nil {
			log.Fatalf("read test script: %v", err)
		}
		runner, err := tinsel.LoadTestScript(data)
		if err != nil {
			log.Fatal(err)
		}
		scene.SetTestRunner(runner)
	}

	if o.sound {
		cfg := sfx.LoadConfig()
		cfg.Enabled = true
		player := sfx.NewPlayer(cfg)
		if err := player.Init(); err != nil {
			// Non-fatal, the tree runs without sound.
			log.Printf("[tinsel] audio disabled: %v", err)
		} else {
			player.Attach(scene)
			defer player.Close()
		}
	}

	rc := tinsel.RunConfig{
		Title:      windowTitle,
		Width:      o.width,
		Height:     o.height,
		Fullscreen: o.fullscreen,
		ShowFPS:    o.showFPS,
		Sensor:     &tinsel.GamepadTilt{},
	}

	if o.bench {
		runner := bench.NewRunner(scene, bench.Config{Perf: o.benchPerf, PhaseDuration: o.benchPhase})
		runner.OnPhase = func(p bench.Phase, i, n int) {
			log.Printf("[bench] test %d/%d: %s", i+1, n, p.Name)
		}
		rc.KeepRunningUnfocused = true
		rc.Update = func(now float64) error {
			if runner.Frame(now) {
				return nil
			}
			res := runner.Result()
			fmt.Print(res.Report())
			if err := store.SaveBench(res); err != nil {
				log.Printf("[bench] %v", err)
			}
			return ebiten.Termination
		}
	} else if !o.noSave {
		saver := &settingsSaver{store: store, scene: scene, mode: st.Mode}
		rc.OnSettingsChanged = saver.changed
	}

	if err := tinsel.Run(scene, rc); err != nil {
		log.Fatal(err)
	}
}
