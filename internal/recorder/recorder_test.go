package recorder_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"pgregory.net/rapid"

	"github.com/fakeyudi/recap/internal/recorder"
)

func strPtr(s string) *string { return &s }

func TestFullSessionLifecycle(t *testing.T) {
	r := recorder.New("test-session", "model-x", "")
	r.Start("main", false)

	r.AddUserPrompt("Fix bug")
	r.StartToolCall()
	r.AddToolCall("grep", map[string]any{"pattern": "401"}, strPtr("3 matches"), nil, 0)
	r.AddAssistantResponse("Found it")
	r.Stop()

	s := r.Session()
	if got := len(s.Exchanges); got != 1 {
		t.Fatalf("exchanges: want 1, got %d", got)
	}
	e := s.Exchanges[0]
	if e.UserPrompt != "Fix bug" || e.AssistantResponse != "Found it" {
		t.Errorf("exchange content mismatch: %+v", e)
	}
	if got := len(e.ToolCalls); got != 1 {
		t.Fatalf("tool calls: want 1, got %d", got)
	}
	tc := e.ToolCalls[0]
	if tc.Name != "grep" {
		t.Errorf("tool name: want grep, got %s", tc.Name)
	}
	if tc.Parameters["pattern"] != "401" {
		t.Errorf("tool parameters: %v", tc.Parameters)
	}
	if tc.DurationMS == nil || *tc.DurationMS < 0 {
		t.Errorf("tool duration: want non-negative, got %v", tc.DurationMS)
	}
	if len(s.Errors) != 0 {
		t.Errorf("errors: want 0, got %d", len(s.Errors))
	}

	stats := s.Statistics()
	if stats.TotalExchanges != 1 || stats.TotalToolCalls != 1 || stats.TotalErrors != 0 {
		t.Errorf("stats mismatch: %+v", stats)
	}
	if stats.DurationSeconds == nil || *stats.DurationSeconds < 0 {
		t.Errorf("session duration: want non-negative, got %v", stats.DurationSeconds)
	}
}

func TestDefaultsWhenUnset(t *testing.T) {
	r := recorder.New("", "", "")
	meta := r.Session().Metadata
	if meta.SessionID == "" {
		t.Error("expected a generated session id")
	}
	if meta.Model != "unknown" {
		t.Errorf("model: want unknown, got %q", meta.Model)
	}
	if meta.WorkingDirectory == "" {
		t.Error("expected working directory to be captured")
	}
}

func TestMutationsIgnoredWhenNotRecording(t *testing.T) {
	r := recorder.New("s", "m", "")
	// no Start

	r.AddUserPrompt("hello")
	r.AddAssistantResponse("world")
	r.AddToolCall("grep", map[string]any{}, nil, nil, 0)
	r.AddError("timeout", "slow", nil)

	s := r.Session()
	if len(s.Exchanges) != 0 || len(s.Errors) != 0 {
		t.Errorf("expected untouched session, got %d exchanges %d errors",
			len(s.Exchanges), len(s.Errors))
	}
	if r.IsRecording() {
		t.Error("recorder should not report recording before Start")
	}
}

func TestResponseWithoutPromptIsNoOp(t *testing.T) {
	r := recorder.New("s", "m", "")
	r.Start("", false)

	r.AddAssistantResponse("orphan response")
	r.AddToolCall("grep", map[string]any{}, nil, nil, 0)

	if got := len(r.Session().Exchanges); got != 0 {
		t.Errorf("exchanges: want 0, got %d", got)
	}
}

func TestSecondPromptDiscardsOpenExchange(t *testing.T) {
	r := recorder.New("s", "m", "")
	r.Start("", false)

	r.AddUserPrompt("first")
	r.AddToolCall("grep", map[string]any{}, nil, nil, 0)
	r.AddUserPrompt("second")
	r.AddAssistantResponse("answer")

	s := r.Session()
	if got := len(s.Exchanges); got != 1 {
		t.Fatalf("exchanges: want 1, got %d", got)
	}
	e := s.Exchanges[0]
	if e.UserPrompt != "second" {
		t.Errorf("surviving prompt: want second, got %q", e.UserPrompt)
	}
	if len(e.ToolCalls) != 0 {
		t.Errorf("tool calls from the discarded exchange leaked: %d", len(e.ToolCalls))
	}
}

func TestRestartReassignsGitBranch(t *testing.T) {
	r := recorder.New("s", "m", "")

	r.Start("main", false)
	if b := r.Session().Metadata.GitBranch; b == nil || *b != "main" {
		t.Fatalf("branch after first start: %v", b)
	}

	r.Start("", false)
	if b := r.Session().Metadata.GitBranch; b != nil {
		t.Errorf("branch should be cleared on restart, got %q", *b)
	}

	r.Start("feature", false)
	if b := r.Session().Metadata.GitBranch; b == nil || *b != "feature" {
		t.Errorf("branch after third start: %v", b)
	}
}

func TestToolTimerIsOneShot(t *testing.T) {
	r := recorder.New("s", "m", "")
	r.Start("", false)
	r.AddUserPrompt("p")

	r.StartToolCall()
	r.AddToolCall("first", map[string]any{}, nil, nil, 0)
	r.AddToolCall("second", map[string]any{}, nil, nil, 0)
	r.AddAssistantResponse("r")

	calls := r.Session().Exchanges[0].ToolCalls
	if calls[0].DurationMS == nil {
		t.Error("first call should carry the timed duration")
	}
	if calls[1].DurationMS != nil {
		t.Errorf("second call should be untimed, got %v", *calls[1].DurationMS)
	}
}

func TestAddErrorOutsideExchange(t *testing.T) {
	r := recorder.New("s", "m", "")
	r.Start("", false)

	r.AddError("crash", "boom", map[string]any{"code": 1})

	s := r.Session()
	if got := len(s.Errors); got != 1 {
		t.Fatalf("errors: want 1, got %d", got)
	}
	er := s.Errors[0]
	if er.Type != "crash" || er.Message != "boom" {
		t.Errorf("error record mismatch: %+v", er)
	}
	if er.Context["code"] != 1 {
		t.Errorf("error context: %v", er.Context)
	}
	if er.Timestamp == "" {
		t.Error("error timestamp missing")
	}
}

func TestStopMinesConfiguredLogDir(t *testing.T) {
	dir := t.TempDir()
	content := "POST https://api.example.com/v1/messages completed in 120ms\n"
	if err := os.WriteFile(filepath.Join(dir, "session.log"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	r := recorder.New("s", "m", dir)
	r.Start("", false)
	r.Stop()

	s := r.Session()
	if len(s.DebugLogs) != 1 {
		t.Fatalf("debug logs: want 1 finding, got %d", len(s.DebugLogs))
	}
	if s.DebugLogs[0].File != "session.log" {
		t.Errorf("finding file: %q", s.DebugLogs[0].File)
	}
	if len(s.DebugLogs[0].Entries) == 0 {
		t.Error("expected mined entries")
	}
}

func TestStopWithoutStartStampsEndTime(t *testing.T) {
	r := recorder.New("s", "m", "")
	r.Stop()
	if r.Session().Metadata.EndTime == nil {
		t.Error("expected end time to be stamped")
	}
	if r.IsRecording() {
		t.Error("recorder should not report recording after Stop")
	}
}

// Exchange count always equals the number of completed prompt/response pairs,
// whatever interleaving of mutating calls produced them.
func TestExchangeCountMatchesCompletedPairs(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		r := recorder.New("s", "m", "")
		r.Start("", false)

		completed := 0
		open := false
		numOps := rapid.IntRange(0, 30).Draw(rt, "num_ops")
		for i := 0; i < numOps; i++ {
			switch rapid.IntRange(0, 2).Draw(rt, fmt.Sprintf("op_%d", i)) {
			case 0:
				r.AddUserPrompt(fmt.Sprintf("prompt %d", i))
				open = true
			case 1:
				r.AddAssistantResponse(fmt.Sprintf("response %d", i))
				if open {
					completed++
					open = false
				}
			case 2:
				r.AddToolCall("tool", map[string]any{}, nil, nil, 0)
			}
		}

		if got := len(r.Session().Exchanges); got != completed {
			rt.Fatalf("exchanges: want %d completed pairs, got %d", completed, got)
		}
	})
}
