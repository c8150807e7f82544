package vinemotion

import (
	"strings"
	"testing"
	"time"
)

func TestParseScriptYAML(t *testing.T) {
	r, err := ParseScript([]byte(`
steps:
  - action: scroll
    delta: 400
  - action: wait
    frames: 3
  - action: pointer
    x: 50
    y: 50
`))
	if err != nil {
		t.Fatalf("ParseScript: %v", err)
	}
	if len(r.steps) != 3 || r.steps[0].Delta != 400 || r.steps[1].Frames != 3 {
		t.Errorf("steps = %+v", r.steps)
	}
}

func TestParseScriptJSON(t *testing.T) {
	r, err := ParseScript([]byte(`{"steps": [{"action": "scrollTo", "y": 900, "duration": "250ms"}, {"action": "navigate", "to": "about"}]}`))
	if err != nil {
		t.Fatalf("ParseScript: %v", err)
	}
	if r.steps[0].Duration != 250*time.Millisecond || r.steps[1].To != "about" {
		t.Errorf("steps = %+v", r.steps)
	}
}

func TestParseScriptErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"empty", "steps: []", "no steps"},
		{"unknown action", "steps:\n  - action: jump\n", `unknown action "jump"`},
		{"malformed", "steps: [", "parse script"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScript([]byte(tt.data))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want it to contain %q", err, tt.want)
			}
		})
	}
}

func TestScriptRunnerDrivesEngine(t *testing.T) {
	views := newViews("home", "about")
	e := newTestEngine(t, WithViews(views.resolve))
	e.Mount("home")

	r, err := NewScriptRunner([]ScriptStep{
		{Action: "scroll", Delta: 500},
		{Action: "wait", Frames: 60},
		{Action: "pointer", X: 100, Y: 300},
		{Action: "navigate", To: "about"},
		{Action: "wait", Frames: 10},
	})
	if err != nil {
		t.Fatalf("NewScriptRunner: %v", err)
	}

	n := r.Run(e, frame60, 1000)
	if !r.Done() {
		t.Fatal("script not done")
	}
	if n != 1+60+1+1+10 {
		t.Errorf("frames = %d, want %d", n, 1+60+1+1+10)
	}
	if e.Lifecycle().Current() != "about" {
		t.Errorf("Current = %q, want about", e.Lifecycle().Current())
	}
	if e.Phase() != PhaseIdle {
		t.Errorf("Phase = %v, want idle", e.Phase())
	}
}

func TestScriptRunnerRespectsMaxFrames(t *testing.T) {
	e := newTestEngine(t)
	r, _ := NewScriptRunner([]ScriptStep{{Action: "wait", Frames: 100}})
	if n := r.Run(e, frame60, 10); n != 10 {
		t.Errorf("Run = %d frames, want 10", n)
	}
	if r.Done() {
		t.Error("Done after 10 of 100 wait frames")
	}
	r.Run(e, frame60, 1000)
	if !r.Done() || r.Frames() != 100 {
		t.Errorf("Done = %v, Frames = %d; want true, 100", r.Done(), r.Frames())
	}
}
