package surface

import (
	"encoding/json"
	"fmt"
	"time"
)

// testStep represents a single action in a test script.
type testStep struct {
	Action  string `json:"action"`
	X       int    `json:"x,omitempty"`
	Y       int    `json:"y,omitempty"`
	Buttons uint8  `json:"buttons,omitempty"`
	Key     string `json:"key,omitempty"`
	Down    bool   `json:"down,omitempty"`
	Enabled bool   `json:"enabled,omitempty"`
	Ms      int    `json:"ms,omitempty"`
}

// testScript is the top-level JSON structure for a test script.
type testScript struct {
	Steps []testStep `json:"steps"`
}

// TestRunner replays a scripted sequence of host events against a Bridge
// driven by a ManualClock, for automated checks of registration timing
// and routing.
//
// Actions: "click" {x, y}, "mouse" {x, y, buttons}, "key" {key, down},
// "mode" {enabled}, "wait" {ms}, "ready" (no fields).
type TestRunner struct {
	steps  []testStep
	cursor int
}

// LoadTestScript parses a JSON test script.
func LoadTestScript(jsonData []byte) (*TestRunner, error) {
	var script testScript
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, fmt.Errorf("parse test script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse test script: no steps")
	}
	for i, st := range script.Steps {
		switch st.Action {
		case "click", "mouse", "key", "mode", "wait", "ready":
		default:
			return nil, fmt.Errorf("parse test script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &TestRunner{steps: script.Steps}, nil
}

// Done reports whether all steps have been executed.
func (r *TestRunner) Done() bool {
	return r.cursor >= len(r.steps)
}

// Step executes the next step and runs whatever became ready. Waits advance
// clock before running.
func (r *TestRunner) Step(b *Bridge, clock *ManualClock) {
	if r.Done() {
		return
	}
	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "click":
		b.InjectClick(st.X, st.Y)
	case "mouse":
		b.InjectMouse(st.X, st.Y, st.Buttons)
	case "key":
		b.InjectKey(st.Key, st.Down, 0)
	case "mode":
		b.InjectInteractionMode(st.Enabled)
	case "ready":
		b.SendReady("test")
	case "wait":
		clock.Advance(time.Duration(st.Ms) * time.Millisecond)
	}
	b.Update()
}

// Run executes every remaining step.
func (r *TestRunner) Run(b *Bridge, clock *ManualClock) {
	for !r.Done() {
		r.Step(b, clock)
	}
}
