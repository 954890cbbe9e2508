package tinsel

import (
	"math"
	"math/rand/v2"
	"time"
)

const defaultCommandCap = 4096

// Scene owns the particle populations, camera, settings, and render buffers
// of one animated tree.
type Scene struct {
	settings Settings
	theme    Theme
	cam      Camera
	perf     PerfMonitor
	boost    Boost
	rng      *rand.Rand
	bounds   TreeBounds

	// Populations
	lights     []Light
	wires      []Wire
	snow       []Snowflake
	fireworks  []Firework
	spawned    []Firework
	nextRocket float64
	fwLast     float64
	fwClockSet bool

	// Input state
	pointerPx, pointerPy float64
	pointerSet           bool
	orientation          Orientation
	sensor               Permission
	sensorSrc            OrientationSource
	reduceMotion         bool

	// Loop state
	initialized bool
	paused      bool
	now         float64
	swayA       float64

	// Render state
	commands []RenderCommand
	sortBuf  []RenderCommand
	gpu      gpuState

	debug     bool
	showStats bool

	// ScreenshotDir is where Screenshot writes PNG files. Defaults to
	// "screenshots".
	ScreenshotDir   string
	screenshotQueue []string
	testRunner      *TestRunner

	// OnBurst, when set, is called from Tick every time a rocket bursts.
	OnBurst func(BurstEvent)
}

// Option configures a Scene at construction.
type Option func(*Scene)

// WithSeed makes particle placement and motion reproducible.
func WithSeed(seed uint64) Option {
	return func(s *Scene) {
		s.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

// WithTheme replaces the default theme.
func WithTheme(t Theme) Option {
	return func(s *Scene) { s.theme = t }
}

// WithSettings replaces the default settings. The values are sanitized.
func WithSettings(st Settings) Option {
	return func(s *Scene) { s.settings = st.Sanitize() }
}

// WithReduceMotion starts the scene with reduced camera and sway motion.
func WithReduceMotion(on bool) Option {
	return func(s *Scene) { s.reduceMotion = on }
}

// NewScene creates a scene with default settings. It draws nothing until
// Initialize gives it a surface size.
func NewScene(opts ...Option) *Scene {
	seed := uint64(time.Now().UnixNano())
	s := &Scene{
		settings:      DefaultSettings(),
		theme:         DefaultTheme(),
		perf:          NewPerfMonitor(),
		rng:           rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		commands:      make([]RenderCommand, 0, defaultCommandCap),
		sortBuf:       make([]RenderCommand, 0, defaultCommandCap),
		ScreenshotDir: "screenshots",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Initialize binds the scene to a w×h logical surface at the given device
// pixel ratio, builds the population and centres the pointer. It returns
// false, and does nothing, when the scene is already initialized.
func (s *Scene) Initialize(w, h int, dpr float64) bool {
	if s.initialized {
		return false
	}
	s.initialized = true
	s.cam.TargetX, s.cam.TargetY = 0, 0
	s.resize(w, h, dpr)
	return true
}

// Resize updates the surface size. The population is rebuilt only when the
// logical size changes; a DPR-only change just refreshes the camera.
func (s *Scene) Resize(w, h int, dpr float64) {
	if !s.initialized {
		s.Initialize(w, h, dpr)
		return
	}
	if float64(w) == s.cam.Width && float64(h) == s.cam.Height {
		s.cam.resize(float64(w), float64(h), dpr)
		return
	}
	s.resize(w, h, dpr)
}

func (s *Scene) resize(w, h int, dpr float64) {
	s.cam.resize(float64(max(w, 1)), float64(max(h, 1)), dpr)
	s.cam.applyZoom(s.settings.Zoom)
	s.gpu.invalidate()
	s.build()
}

// --- Loop ---

// Tick advances the scene to now (milliseconds on a monotonic clock) and
// regenerates the render command list. It does nothing while paused or
// before Initialize.
func (s *Scene) Tick(now float64) {
	if !s.initialized || s.paused {
		return
	}
	if s.testRunner != nil {
		s.testRunner.step(s, now)
		if s.paused {
			return
		}
	}

	var stats debugStats
	var t0 time.Time
	if s.debug {
		t0 = time.Now()
	}

	s.now = now
	s.perf.Sample(now)
	s.pollSensor()
	s.cam.smooth()
	s.updateCamera(now)

	s.commands = s.commands[:0]
	w, h := s.cam.Width, s.cam.Height
	cx, cy, r := backgroundGeometry(w, h)
	s.push(RenderCommand{Type: CommandBackground, X: cx, Y: cy, Radius: r, Alpha: 1})

	b := s.bounds
	if b.Globe {
		s.push(RenderCommand{Type: CommandGlobeBegin, X: b.GlobeX, Y: b.GlobeY, Radius: b.GlobeR, Alpha: 1})
	}

	s.emitWires()
	if s.debug {
		stats.simTime = time.Since(t0)
		t0 = time.Now()
	}
	s.emitLights(now)
	if s.debug {
		stats.sortTime = time.Since(t0)
		t0 = time.Now()
	}

	s.reconcileSnow(now)
	if s.settings.Snow {
		s.updateSnow(now)
		s.emitSnow(now)
	}

	s.updateFireworks(now)
	s.emitFireworks(now)

	if b.Globe {
		s.push(RenderCommand{Type: CommandGlobeEnd, X: b.GlobeX, Y: b.GlobeY, Radius: b.GlobeR, Alpha: 1})
	}

	if s.debug {
		stats.simTime += time.Since(t0)
		stats.commandCount = len(s.commands)
		stats.drawCalls = countDrawCalls(s.commands)
		s.debugTick(stats)
	}
}

// updateCamera sets yaw, pitch and the sway angle for this tick.
func (s *Scene) updateCamera(now float64) {
	st := &s.settings
	motion := 1.0
	if s.reduceMotion {
		motion = 0.35
	}

	if st.Freefly {
		spd := st.FreeflySpeed
		s.cam.Yaw = math.Sin(now*0.00033*spd) * 0.55
		s.cam.Pitch = math.Sin(now*0.00027*spd+1.2) * 0.22
	} else {
		strength := st.Mouse * motion
		s.cam.Yaw = s.cam.MouseX * 0.9 * strength
		s.cam.Pitch = -s.cam.MouseY * 0.45 * strength
		if st.GyroLook && s.gyroActive() {
			g := clamp(s.orientation.Gamma/35, -1, 1)
			bt := clamp(s.orientation.Beta/55, -1, 1)
			s.cam.Yaw += g * 0.35 * motion
			s.cam.Pitch += bt * 0.14 * motion
		}
	}
	s.swayA = math.Sin(now*0.00055) * st.Sway * motion * 0.18
}

// Pause stops Tick from advancing the scene.
func (s *Scene) Pause() {
	s.paused = true
}

// Resume restarts ticking. The frame-rate baseline and the firework clock
// are reset so the pause does not register as one long frame.
func (s *Scene) Resume() {
	if !s.paused {
		return
	}
	s.paused = false
	s.perf.Reset()
	s.fwClockSet = false
}

// Running reports whether the scene is initialized and not paused.
func (s *Scene) Running() bool {
	return s.initialized && !s.paused
}

// --- Settings surface ---

// SetSettings merges p into the current settings. Values are sanitized on
// the way in. A present zoom is applied to the camera immediately; changes
// that alter the population need opts.Rebuild. An empty patch without
// Rebuild changes nothing.
func (s *Scene) SetSettings(p Patch, opts SetOptions) {
	if !p.Empty() {
		s.settings = p.Apply(s.settings)
		if p.Zoom != nil {
			s.cam.applyZoom(s.settings.Zoom)
		}
	}
	if opts.Rebuild && s.initialized {
		s.build()
	}
}

// Settings returns a copy of the current settings.
func (s *Scene) Settings() Settings {
	return s.settings
}

// Rebuild regenerates every particle collection from the current size and
// settings.
func (s *Scene) Rebuild() {
	if s.initialized {
		s.build()
	}
}

// TriggerBoost starts a boost pulse at the time of the last Tick.
func (s *Scene) TriggerBoost(opts BoostOptions) {
	s.boost.Trigger(s.now, opts)
}

// BoostFactor returns the boost decay curve at now, in [0, 1].
func (s *Scene) BoostFactor(now float64) float64 {
	return s.boost.Factor(now)
}

// SetTheme replaces the theme. The cached background is regenerated on the
// next Draw.
func (s *Scene) SetTheme(t Theme) {
	s.theme = t
	s.gpu.invalidateBackground()
}

// Theme returns the current theme.
func (s *Scene) Theme() Theme {
	return s.theme
}

// --- Input ---

// SetPointer moves the pointer to (px, py) in logical pixels. The camera
// follows it smoothly. Ignored while freefly is on.
func (s *Scene) SetPointer(px, py float64) {
	if s.settings.Freefly {
		return
	}
	s.pointerPx, s.pointerPy = px, py
	s.pointerSet = true
	s.cam.setTarget(px, py)
}

// SetReduceMotion scales down camera and sway motion.
func (s *Scene) SetReduceMotion(on bool) {
	s.reduceMotion = on
}

// --- Accessors ---

// Commands returns the render commands produced by the last Tick. The
// returned slice MUST NOT be mutated and is reused by the next Tick.
func (s *Scene) Commands() []RenderCommand {
	return s.commands
}

// Lights returns the light population. The returned slice MUST NOT be mutated.
func (s *Scene) Lights() []Light { return s.lights }

// Snow returns the live snowflakes. The returned slice MUST NOT be mutated.
func (s *Scene) Snow() []Snowflake { return s.snow }

// Fireworks returns the live firework particles. The returned slice MUST NOT
// be mutated.
func (s *Scene) Fireworks() []Firework { return s.fireworks }

// Wires returns the garland wires. The returned slice MUST NOT be mutated.
func (s *Scene) Wires() []Wire { return s.wires }

// Bounds returns the tree geometry computed by the last rebuild.
func (s *Scene) Bounds() TreeBounds { return s.bounds }

// Camera returns a copy of the camera state.
func (s *Scene) Camera() Camera { return s.cam }

// FPS returns the smoothed frame-rate estimate.
func (s *Scene) FPS() float64 { return s.perf.FPS() }

// SetDebugMode enables or disables debug mode. When enabled, per-tick timing
// and population stats are logged to stderr along with a line per rebuild.
func (s *Scene) SetDebugMode(enabled bool) {
	s.debug = enabled
}

// ShowStats toggles the on-screen frame-rate and particle count overlay.
func (s *Scene) ShowStats(on bool) {
	s.showStats = on
}
