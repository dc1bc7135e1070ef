package erdraw

import (
	"strings"
	"testing"
)

func TestLoadTestScriptErrors(t *testing.T) {
	tests := []struct {
		name   string
		script string
		want   string
	}{
		{"invalid json", `{"steps": [`, "parse test script"},
		{"no steps", `{"steps": []}`, "no steps"},
		{"unknown action", `{"steps": [{"action": "drag"}]}`, `unknown action "drag"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadTestScript([]byte(tt.script))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func runUntilDone(t *testing.T, s *Scene, r *TestRunner, limit int) int {
	t.Helper()
	for i := 1; i <= limit; i++ {
		s.Frame()
		if r.Done() {
			return i
		}
	}
	t.Fatalf("runner not done after %d frames", limit)
	return 0
}

func TestTestRunnerClickWaitScreenshot(t *testing.T) {
	b := newBlogScene(t)
	s := b.scene

	var clicked []*Element
	s.OnElementClicked(func(ctx ClickContext) { clicked = append(clicked, ctx.Element) })

	runner, err := LoadTestScript([]byte(`{"steps": [
		{"action": "click", "x": 79, "y": 45},
		{"action": "wait", "frames": 2},
		{"action": "screenshot", "label": "after click"}
	]}`))
	if err != nil {
		t.Fatal(err)
	}
	s.SetTestRunner(runner)

	frames := runUntilDone(t, s, runner, 50)
	if frames != 6 {
		t.Errorf("done after %d frames, want 6", frames)
	}
	if len(clicked) != 1 || clicked[0] != b.usersID {
		t.Errorf("clicked = %v, want [users.id]", clicked)
	}
	// The fake renderer cannot be captured; the request is dropped.
	if len(s.screenshotQueue) != 0 {
		t.Errorf("screenshot queue = %v, want empty", s.screenshotQueue)
	}
}

func TestTestRunnerDoubleClickAndLeave(t *testing.T) {
	b := newBlogScene(t)
	s := b.scene

	var renamed *Element
	s.OnElementDoubleClicked(func(e *Element) { renamed = e })

	runner, err := LoadTestScript([]byte(`{"steps": [
		{"action": "dblclick", "x": 126, "y": 45},
		{"action": "leave"}
	]}`))
	if err != nil {
		t.Fatal(err)
	}
	s.SetTestRunner(runner)
	runUntilDone(t, s, runner, 50)
	s.Frame()

	if renamed != b.email {
		t.Errorf("double clicked = %v, want email", renamed)
	}
	if s.Selected() != nil {
		t.Errorf("Selected = %v after leave, want nil", s.Selected())
	}
}

func TestTestRunnerDoneStaysDone(t *testing.T) {
	b := newBlogScene(t)
	runner, err := LoadTestScript([]byte(`{"steps": [{"action": "move", "x": 700, "y": 500}]}`))
	if err != nil {
		t.Fatal(err)
	}
	b.scene.SetTestRunner(runner)
	runUntilDone(t, b.scene, runner, 10)
	cursor := runner.cursor
	b.scene.Frame()
	if !runner.Done() || runner.cursor != cursor {
		t.Error("runner advanced after Done")
	}
}
