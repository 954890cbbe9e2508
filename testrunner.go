package tinsel

import (
	"encoding/json"
	"fmt"
	"time"
)

// testStep represents a single action in a test script.
type testStep struct {
	Action string  `json:"action"`
	Label  string  `json:"label,omitempty"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	FromX  float64 `json:"fromX,omitempty"`
	FromY  float64 `json:"fromY,omitempty"`
	ToX    float64 `json:"toX,omitempty"`
	ToY    float64 `json:"toY,omitempty"`
	Frames int     `json:"frames,omitempty"`

	// boost
	DurationMS float64 `json:"durationMs,omitempty"`
	Strength   float64 `json:"strength,omitempty"`

	// settings
	Settings json.RawMessage `json:"settings,omitempty"`
	Rebuild  bool            `json:"rebuild,omitempty"`
	patch    Patch

	// orientation
	Beta  float64 `json:"beta,omitempty"`
	Gamma float64 `json:"gamma,omitempty"`
}

// testScript is the top-level JSON structure for a test script.
type testScript struct {
	Steps []testStep `json:"steps"`
}

// pointerGlide moves the pointer in a straight line over several ticks.
type pointerGlide struct {
	fromX, fromY float64
	toX, toY     float64
	frame, total int
}

// TestRunner sequences pointer moves, setting changes, boosts and
// screenshots across ticks for automated visual testing. Attach to a Scene
// via SetTestRunner.
//
// Supported actions: screenshot, pointer, glide, boost, settings, rebuild,
// orientation, wait.
type TestRunner struct {
	steps     []testStep
	cursor    int
	waitCount int
	glide     *pointerGlide
	done      bool
}

// LoadTestScript parses a JSON test script and returns a TestRunner ready
// to be attached to a Scene via SetTestRunner.
func LoadTestScript(jsonData []byte) (*TestRunner, error) {
	var script testScript
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, fmt.Errorf("parse test script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse test script: no steps")
	}
	for i := range script.Steps {
		st := &script.Steps[i]
		switch st.Action {
		case "screenshot", "pointer", "glide", "boost", "rebuild", "orientation", "wait":
		case "settings":
			p, err := ParsePatch(st.Settings)
			if err != nil {
				return nil, fmt.Errorf("parse test script: step %d: %w", i, err)
			}
			st.patch = p
		default:
			return nil, fmt.Errorf("parse test script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &TestRunner{steps: script.Steps}, nil
}

// SetTestRunner attaches a TestRunner to the scene. The runner advances at
// the start of every Tick.
func (s *Scene) SetTestRunner(runner *TestRunner) {
	s.testRunner = runner
}

// Done reports whether all steps in the test script have been executed.
func (r *TestRunner) Done() bool {
	return r.done
}

// step advances the test runner by one tick. Called from Scene.Tick before
// the scene itself advances.
func (r *TestRunner) step(s *Scene, now float64) {
	if r.done {
		return
	}
	// Finish a glide before advancing.
	if r.glide != nil {
		r.advanceGlide(s)
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := &r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "screenshot":
		s.Screenshot(st.Label)
	case "pointer":
		s.SetPointer(st.X, st.Y)
	case "glide":
		r.glide = &pointerGlide{
			fromX: st.FromX, fromY: st.FromY,
			toX: st.ToX, toY: st.ToY,
			total: max(st.Frames, 2),
		}
		r.advanceGlide(s)
	case "boost":
		s.boost.Trigger(now, BoostOptions{
			Duration: time.Duration(st.DurationMS * float64(time.Millisecond)),
			Strength: st.Strength,
		})
	case "settings":
		s.SetSettings(st.patch, SetOptions{Rebuild: st.Rebuild})
	case "rebuild":
		s.Rebuild()
	case "orientation":
		s.SetOrientation(Orientation{Beta: st.Beta, Gamma: st.Gamma})
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this tick counts as one
		}
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && r.glide == nil {
		r.done = true
	}
}

// advanceGlide moves the pointer one step along the active glide.
func (r *TestRunner) advanceGlide(s *Scene) {
	g := r.glide
	t := float64(g.frame) / float64(g.total-1)
	s.SetPointer(lerp(g.fromX, g.toX, t), lerp(g.fromY, g.toY, t))
	g.frame++
	if g.frame >= g.total {
		r.glide = nil
		if r.cursor >= len(r.steps) && r.waitCount == 0 {
			r.done = true
		}
	}
}
