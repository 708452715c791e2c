package feedback

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/fakeyudi/recap/internal/trace"
)

// ErrNotFeedback is returned when a document carries no recognizable
// embedded session snapshot.
var ErrNotFeedback = errors.New("not a feedback document")

// SnapshotParser recovers a session snapshot from a serialized form.
type SnapshotParser interface {
	Parse(data []byte) (*trace.Snapshot, error)
}

// JSONParser parses a raw snapshot file.
type JSONParser struct{}

func (p *JSONParser) Parse(data []byte) (*trace.Snapshot, error) {
	var sn trace.Snapshot
	if err := json.Unmarshal(data, &sn); err != nil {
		return nil, fmt.Errorf("failed to parse session snapshot: %w", err)
	}
	return &sn, nil
}

// MarkdownParser extracts the snapshot embedded in a feedback document's
// fenced JSON block below the machine-readable marker.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(data []byte) (*trace.Snapshot, error) {
	content := string(data)

	idx := strings.Index(content, MachineReadableMarker)
	if idx == -1 {
		return nil, fmt.Errorf("%w: missing machine-readable section", ErrNotFeedback)
	}
	content = content[idx:]

	const fenceOpen = "```json\n"
	start := strings.Index(content, fenceOpen)
	if start == -1 {
		return nil, fmt.Errorf("%w: missing embedded JSON block", ErrNotFeedback)
	}
	start += len(fenceOpen)
	end := strings.Index(content[start:], "\n```")
	if end == -1 {
		return nil, fmt.Errorf("%w: unterminated JSON block", ErrNotFeedback)
	}

	var sn trace.Snapshot
	if err := json.Unmarshal([]byte(content[start:start+end]), &sn); err != nil {
		return nil, fmt.Errorf("%w: corrupted embedded JSON: %v", ErrNotFeedback, err)
	}
	return &sn, nil
}

// ParseFile picks a parser from the file extension: .json for raw
// snapshots, Markdown otherwise.
func ParseFile(path string, data []byte) (*trace.Snapshot, error) {
	var parser SnapshotParser
	if strings.HasSuffix(strings.ToLower(path), ".json") {
		parser = &JSONParser{}
	} else {
		parser = &MarkdownParser{}
	}
	return parser.Parse(data)
}
