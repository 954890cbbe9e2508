package tinsel

import "testing"

func TestLoadTestScript(t *testing.T) {
	data := []byte(`{
		"steps": [
			{"action": "screenshot", "label": "initial"},
			{"action": "pointer", "x": 100, "y": 200},
			{"action": "settings", "settings": {"mode": "globe", "glow": 2}, "rebuild": true},
			{"action": "wait", "frames": 3},
			{"action": "boost", "durationMs": 1500, "strength": 1.5}
		]
	}`)

	runner, err := LoadTestScript(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(runner.steps) != 5 {
		t.Fatalf("expected 5 steps, got %d", len(runner.steps))
	}
	if runner.steps[1].Action != "pointer" || runner.steps[1].X != 100 || runner.steps[1].Y != 200 {
		t.Error("step 1 mismatch")
	}
	p := runner.steps[2].patch
	if p.Mode == nil || *p.Mode != ModeGlobe || p.Glow == nil || *p.Glow != 2 {
		t.Errorf("step 2 patch = %+v", p)
	}
	if !runner.steps[2].Rebuild {
		t.Error("step 2 should rebuild")
	}
	if runner.steps[4].DurationMS != 1500 || runner.steps[4].Strength != 1.5 {
		t.Error("step 4 mismatch")
	}
}

func TestLoadTestScriptErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `not json`},
		{"empty", `{"steps": []}`},
		{"unknown action", `{"steps": [{"action": "click"}]}`},
		{"bad settings", `{"steps": [{"action": "settings", "settings": [1, 2]}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadTestScript([]byte(tt.data)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func mustLoadScript(t *testing.T, data string) *TestRunner {
	t.Helper()
	r, err := LoadTestScript([]byte(data))
	if err != nil {
		t.Fatalf("LoadTestScript: %v", err)
	}
	return r
}

func TestRunnerStepPointerAndWait(t *testing.T) {
	s := newTestScene(t, 800, 600, Patch{})
	r := mustLoadScript(t, `{"steps": [
		{"action": "pointer", "x": 800, "y": 0},
		{"action": "wait", "frames": 3},
		{"action": "screenshot", "label": "done"}
	]}`)
	s.SetTestRunner(r)

	s.Tick(0)
	if !s.pointerSet || s.pointerPx != 800 {
		t.Fatal("pointer step not applied on the first tick")
	}
	for i := 1; i <= 3; i++ {
		s.Tick(float64(i) * 16)
		if len(s.screenshotQueue) != 0 {
			t.Fatalf("screenshot queued during wait (tick %d)", i)
		}
	}
	if r.Done() {
		t.Fatal("runner done before the last step")
	}
	s.Tick(64)
	if len(s.screenshotQueue) != 1 || s.screenshotQueue[0] != "done" {
		t.Errorf("queue = %v, want [done]", s.screenshotQueue)
	}
	if !r.Done() {
		t.Error("runner should be done after the last step")
	}
}

func TestRunnerGlide(t *testing.T) {
	s := newTestScene(t, 800, 600, Patch{})
	r := mustLoadScript(t, `{"steps": [
		{"action": "glide", "fromX": 0, "fromY": 100, "toX": 400, "toY": 300, "frames": 3}
	]}`)
	s.SetTestRunner(r)

	want := [][2]float64{{0, 100}, {200, 200}, {400, 300}}
	for i, w := range want {
		s.Tick(float64(i) * 16)
		if s.pointerPx != w[0] || s.pointerPy != w[1] {
			t.Fatalf("tick %d pointer = (%v, %v), want %v", i, s.pointerPx, s.pointerPy, w)
		}
	}
	if !r.Done() {
		t.Error("runner should be done after the glide")
	}
}

func TestRunnerSettingsBoostOrientation(t *testing.T) {
	s := newTestScene(t, 800, 600, Patch{})
	r := mustLoadScript(t, `{"steps": [
		{"action": "settings", "settings": {"mode": "globe"}, "rebuild": true},
		{"action": "boost", "durationMs": 1000, "strength": 1},
		{"action": "orientation", "beta": 30, "gamma": -10},
		{"action": "rebuild"}
	]}`)
	s.SetTestRunner(r)

	s.Tick(0)
	if !s.Bounds().Globe {
		t.Error("settings step should switch to globe mode and rebuild")
	}
	s.Tick(100)
	assertNear(t, "BoostFactor", s.BoostFactor(600), 0.25)
	s.Tick(200)
	if s.orientation.Beta != 30 || s.orientation.Gamma != -10 {
		t.Errorf("orientation = %+v", s.orientation)
	}
	s.Tick(300)
	if !r.Done() {
		t.Error("runner should be done")
	}
}
