package vinemotion

import (
	"errors"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// ScriptStep is a single action in a scripted run.
type ScriptStep struct {
	Action   string        `yaml:"action" json:"action"`
	X        float64       `yaml:"x,omitempty" json:"x,omitempty"`
	Y        float64       `yaml:"y,omitempty" json:"y,omitempty"`
	Delta    float64       `yaml:"delta,omitempty" json:"delta,omitempty"`
	To       string        `yaml:"to,omitempty" json:"to,omitempty"`
	Frames   int           `yaml:"frames,omitempty" json:"frames,omitempty"`
	Duration time.Duration `yaml:"duration,omitempty" json:"duration,omitempty"`
}

// Script is the top-level structure of a script file. JSON scripts parse
// as well, since JSON is valid YAML.
type Script struct {
	Steps []ScriptStep `yaml:"steps" json:"steps"`
}

// ScriptRunner replays a script against an engine one step per frame, for
// headless runs and tests.
type ScriptRunner struct {
	steps     []ScriptStep
	cursor    int
	waitCount int
	done      bool
	frames    int
}

var errEmptyScript = errors.New("no steps")

// ParseScript decodes a YAML or JSON script and returns a runner for it.
func ParseScript(data []byte) (*ScriptRunner, error) {
	var script Script
	if err := yaml.Unmarshal(data, &script); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	return NewScriptRunner(script.Steps)
}

// NewScriptRunner returns a runner for the given steps. Unknown actions are
// rejected up front.
func NewScriptRunner(steps []ScriptStep) (*ScriptRunner, error) {
	if len(steps) == 0 {
		return nil, fmt.Errorf("parse script: %w", errEmptyScript)
	}
	for i, st := range steps {
		switch st.Action {
		case "scroll", "scrollTo", "pointer", "exit", "navigate", "settle", "wait":
		default:
			return nil, fmt.Errorf("parse script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &ScriptRunner{steps: steps}, nil
}

// Done reports whether every step has been executed.
func (r *ScriptRunner) Done() bool {
	return r.done
}

// Frames returns the number of frames the runner has ticked.
func (r *ScriptRunner) Frames() int {
	return r.frames
}

// Step executes the next action, if any, then ticks the engine by dt.
func (r *ScriptRunner) Step(e *Engine, dt time.Duration) {
	r.apply(e)
	e.Tick(dt)
	r.frames++
}

// Run steps until the script is done or maxFrames frames have elapsed. It
// returns the number of frames ticked.
func (r *ScriptRunner) Run(e *Engine, dt time.Duration, maxFrames int) int {
	start := r.frames
	for !r.done && r.frames-start < maxFrames {
		r.Step(e, dt)
	}
	return r.frames - start
}

func (r *ScriptRunner) apply(e *Engine) {
	if r.done {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		if r.waitCount == 0 && r.cursor >= len(r.steps) {
			r.done = true
		}
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "scroll":
		e.ScrollBy(st.Delta)
	case "scrollTo":
		e.ScrollTo(st.Y, st.Duration)
	case "pointer":
		e.PointerMove(st.X, st.Y)
	case "exit":
		e.PointerExit()
	case "navigate":
		e.Navigate(st.To)
	case "settle":
		e.NavigationSettled()
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 {
		r.done = true
	}
}
