package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fakeyudi/recap/internal/feedback"
	"github.com/fakeyudi/recap/internal/redact"
	"github.com/fakeyudi/recap/internal/trace"
)

func writeLeakyDoc(t *testing.T, dir string) string {
	t.Helper()
	s := &trace.SessionData{
		Metadata: trace.SessionMetadata{
			SessionID: "s1",
			Model:     "model-x",
			StartTime: "2024-01-01T00:00:00",
		},
		Exchanges: []trace.Exchange{
			{
				UserPrompt:        "my password: hunter2 got rejected",
				AssistantResponse: "rotate it",
			},
		},
		Errors:    []trace.ErrorRecord{},
		DebugLogs: []trace.LogFinding{},
	}
	content, err := feedback.Render(s, feedback.Report{
		TaskSummary: "Debug login",
		Problems:    []string{"auth kept failing"},
		Outcome:     "Resolved",
	})
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "leaky.md")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestScrubCommandInPlace(t *testing.T) {
	dir := isolate(t)
	path := writeLeakyDoc(t, dir)
	scrubOutput = ""

	out, err := executeCommand(rootCmd, "scrub", path)
	if err != nil {
		t.Fatalf("scrub: %v\n%s", err, out)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	doc := string(data)
	if strings.Contains(doc, "hunter2") {
		t.Error("secret survived scrubbing")
	}
	if !strings.Contains(doc, redact.Marker) {
		t.Error("expected the redaction marker in the document")
	}
	// narrative sections survive the re-render
	for _, want := range []string{"Debug login", "auth kept failing", "Resolved"} {
		if !strings.Contains(doc, want) {
			t.Errorf("narrative lost: %q", want)
		}
	}

	// the re-rendered document still parses
	if _, err := feedback.ParseFile(path, data); err != nil {
		t.Errorf("scrubbed document no longer parses: %v", err)
	}
}

func TestScrubCommandOutputFlag(t *testing.T) {
	dir := isolate(t)
	path := writeLeakyDoc(t, dir)
	target := filepath.Join(dir, "clean.md")
	defer func() { scrubOutput = "" }()

	out, err := executeCommand(rootCmd, "scrub", path, "-o", target)
	if err != nil {
		t.Fatalf("scrub: %v\n%s", err, out)
	}

	original, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(original), "hunter2") {
		t.Error("source file should be untouched with -o")
	}

	cleaned, err := os.ReadFile(target)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(cleaned), "hunter2") {
		t.Error("secret survived in the output file")
	}
}

func TestScrubCommandJSONInput(t *testing.T) {
	dir := isolate(t)
	s := &trace.SessionData{
		Metadata: trace.SessionMetadata{SessionID: "s1", StartTime: "2024-01-01T00:00:00"},
		Exchanges: []trace.Exchange{
			{UserPrompt: "token=abc123 leaked", AssistantResponse: "ok"},
		},
		Errors:    []trace.ErrorRecord{},
		DebugLogs: []trace.LogFinding{},
	}
	raw, err := s.ToJSON()
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "session.json")
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatal(err)
	}
	scrubOutput = ""

	if out, err := executeCommand(rootCmd, "scrub", path); err != nil {
		t.Fatalf("scrub: %v\n%s", err, out)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "abc123") {
		t.Error("secret survived in JSON output")
	}
	sn, err := feedback.ParseFile(path, data)
	if err != nil {
		t.Fatalf("scrubbed JSON no longer parses: %v", err)
	}
	if !strings.Contains(sn.Exchanges[0].UserPrompt, redact.Marker) {
		t.Errorf("prompt: %q", sn.Exchanges[0].UserPrompt)
	}
}
