// Package tinsel renders an animated, particle-based holiday tree for
// [Ebitengine].
//
// A [Scene] owns every particle in the picture: thousands of twinkling tree
// lights arranged inside a virtual cone, optional garland strands that spiral
// around it, falling snow, and a small firework simulation. Each frame the
// particles are projected from a pseudo-3D space onto the screen with a
// yaw/pitch camera, depth-sorted, and emitted as a flat list of
// [RenderCommand] values that any drawing surface can consume.
//
// # Quick start
//
// The simplest way to get a window is [Run]:
//
//	scene := tinsel.NewScene()
//	tinsel.Run(scene, tinsel.RunConfig{
//		Title: "Tinsel", Width: 1280, Height: 720,
//	})
//
// For full control, implement [ebiten.Game] yourself and drive the scene
// with a millisecond clock:
//
//	func (g *Game) Update() error {
//		g.scene.Tick(float64(time.Since(g.start).Milliseconds()))
//		return nil
//	}
//	func (g *Game) Draw(s *ebiten.Image) { g.scene.Draw(s) }
//
// # Settings
//
// Every visual knob lives in [Settings]. Hosts push partial updates with
// [Scene.SetSettings] and a [Patch]; values are sanitized on the way in, so
// out-of-range or non-finite numbers are clamped or replaced with defaults
// rather than rejected. Changes that alter particle counts or placement
// (density, size, garland, snow, mode, perf) need a rebuild, either through
// [SetOptions].Rebuild or an explicit [Scene.Rebuild].
//
// # Modes
//
// [ModeDefault] draws the tree in the middle of the screen with snow falling
// across the whole frame. [ModeGlobe] shrinks the tree into a circular snow
// globe: rendering is clipped to the circle, snow swirls around its centre,
// and the outside is dimmed with a soft vignette.
//
// # Boost
//
// [Scene.TriggerBoost] starts a short celebratory pulse. While it lasts,
// snowfall gets denser and faster and lights glow brighter; the effect decays
// quadratically to exactly zero.
//
// # Other surfaces
//
// The command list is not tied to Ebitengine. The term subpackage draws the
// same frame into a terminal through tcell. Package prefs saves settings
// between runs, sfx plays a pop for each firework burst, and bench grades
// how well the machine keeps up.
//
// # Concurrency
//
// A Scene is not safe for concurrent use. Call every method from the game
// loop goroutine.
//
// [Ebitengine]: https://ebitengine.org
package tinsel
