// Package feedback renders a recorded session into a shareable document:
// a human-readable Markdown summary followed by the full machine-readable
// session snapshot, and parses such documents back into structured data.
package feedback

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fakeyudi/recap/internal/trace"
)

// MachineReadableMarker separates the human summary from the embedded
// snapshot. Issue sharing truncates the document at this marker.
const MachineReadableMarker = "## Full Session Data (Machine Readable)"

// Report carries the caller-supplied narrative around a recorded session.
type Report struct {
	TaskSummary string
	Problems    []string
	Outcome     string
}

// Render produces the complete feedback document for a session.
func Render(s *trace.SessionData, report Report) ([]byte, error) {
	stats := s.Statistics()

	var sb strings.Builder

	dateStr := s.Metadata.StartTime
	if t, err := trace.ParseISOTime(s.Metadata.StartTime); err == nil {
		dateStr = t.Format("2006-01-02 15:04")
	}

	sb.WriteString("# CLI Session Feedback\n\n")
	fmt.Fprintf(&sb, "**Date**: %s\n", dateStr)
	fmt.Fprintf(&sb, "**Model**: %s\n", s.Metadata.Model)
	fmt.Fprintf(&sb, "**Duration**: %s\n", FormatDuration(stats.DurationSeconds))
	fmt.Fprintf(&sb, "**Session ID**: %s\n", s.Metadata.SessionID)
	fmt.Fprintf(&sb, "**Working Directory**: %s\n", s.Metadata.WorkingDirectory)
	if s.Metadata.GitBranch != nil {
		fmt.Fprintf(&sb, "**Git Branch**: %s\n", *s.Metadata.GitBranch)
	}

	sb.WriteString("\n## Summary\n\n")
	sb.WriteString("### Task Attempted\n")
	sb.WriteString(report.TaskSummary)
	sb.WriteString("\n\n### Problems Encountered\n")
	if len(report.Problems) == 0 {
		sb.WriteString("- None reported\n")
	} else {
		for _, p := range report.Problems {
			fmt.Fprintf(&sb, "- %s\n", p)
		}
	}
	sb.WriteString("\n### Outcome\n")
	sb.WriteString(report.Outcome)
	sb.WriteString("\n\n## Statistics\n")
	fmt.Fprintf(&sb, "- **Total Exchanges**: %d\n", stats.TotalExchanges)
	fmt.Fprintf(&sb, "- **Tool Calls**: %d\n", stats.TotalToolCalls)
	fmt.Fprintf(&sb, "- **Errors**: %d\n", stats.TotalErrors)
	sb.WriteString("\n---\n")

	snapshot, err := s.ToJSON()
	if err != nil {
		return nil, err
	}

	sb.WriteString("\n" + MachineReadableMarker + "\n\n")
	sb.WriteString("The following JSON contains the complete session data for LLM analysis:\n\n")
	sb.WriteString("```json\n")
	sb.Write(snapshot)
	sb.WriteString("\n```\n")

	return []byte(sb.String()), nil
}

// FormatDuration renders a duration in human-readable form; nil is reported
// as "Unknown".
func FormatDuration(seconds *float64) string {
	if seconds == nil {
		return "Unknown"
	}
	secs := *seconds
	switch {
	case secs < 60:
		return fmt.Sprintf("%d seconds", int(secs))
	case secs < 3600:
		minutes := int(secs) / 60
		plural := "s"
		if minutes == 1 {
			plural = ""
		}
		return fmt.Sprintf("%d minute%s", minutes, plural)
	default:
		hours := int(secs) / 3600
		minutes := (int(secs) % 3600) / 60
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
}

// GenerateFilename returns a timestamp-based document filename.
func GenerateFilename(prefix string) string {
	if prefix == "" {
		prefix = "feedback"
	}
	return fmt.Sprintf("%s-%s.md", prefix, time.Now().Format("2006-01-02-1504"))
}

// Save writes content into dir (created if needed, defaulting to
// ./feedback), under filename or a generated timestamp name. It returns the
// path of the written file.
func Save(content []byte, dir, filename string) (string, error) {
	if dir == "" {
		dir = "feedback"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}
	if filename == "" {
		filename = GenerateFilename("")
	}
	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return "", fmt.Errorf("writing feedback document: %w", err)
	}
	return path, nil
}
