// Package logmine extracts structured entries from free-form debug log files.
// Extraction is best-effort regex heuristics: a single unreadable or
// unparsable file never aborts a scan, and output is bounded.
package logmine

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/fakeyudi/recap/internal/trace"
)

const (
	// maxFiles limits how many recent log files a scan inspects.
	maxFiles = 5
	// maxEntriesPerFile caps the qualifying entries kept per file.
	maxEntriesPerFile = 100
	// maxRawLen truncates the raw line stored with each entry.
	maxRawLen = 500
)

// namedPattern pairs a label with its compiled expression. Patterns are
// evaluated per line in a fixed order.
type namedPattern struct {
	name string
	re   *regexp.Regexp
}

// Miner scans a directory of log files for API calls, errors, timing,
// model identifiers and token usage. Patterns compile once at construction.
type Miner struct {
	patterns []namedPattern
}

// NewMiner returns a Miner with the fixed pattern set.
func NewMiner() *Miner {
	return &Miner{
		patterns: []namedPattern{
			{"api_call", regexp.MustCompile(`(?i)(POST|GET)\s+\S+api\S*`)},
			{"error", regexp.MustCompile(`(?i)(ERROR|WARN|error|warning)[\s:]+(.+)`)},
			{"timing", regexp.MustCompile(`(?i)(\d+)ms`)},
			{"model", regexp.MustCompile(`(?i)model["\s:]+([a-zA-Z0-9\-\.]+)`)},
			{"token_usage", regexp.MustCompile(`(?i)(tokens?|usage)["\s:]+(\d+)`)},
		},
	}
}

// Mine lists *.log files in dir, newest first by modification time, and
// extracts entries from at most the five most recent. Files that cannot be
// read contribute a finding carrying the failure description; files with no
// qualifying lines contribute nothing. A missing or unreadable directory
// yields no findings at all.
func (m *Miner) Mine(dir string) []trace.LogFinding {
	files, err := recentLogFiles(dir)
	if err != nil {
		return nil
	}

	var findings []trace.LogFinding
	for _, path := range files {
		if finding, ok := m.MineFile(path); ok {
			findings = append(findings, finding)
		}
	}
	return findings
}

// MineFile extracts entries from a single log file. The boolean result is
// false when the file produced nothing: unreadable files still yield a
// finding carrying the failure description.
func (m *Miner) MineFile(path string) (trace.LogFinding, bool) {
	content, err := os.ReadFile(path)
	if err != nil {
		return trace.LogFinding{
			File:  filepath.Base(path),
			Error: fmt.Sprintf("Failed to parse: %v", err),
		}, true
	}
	entries := m.extract(string(content))
	if len(entries) == 0 {
		return trace.LogFinding{}, false
	}
	return trace.LogFinding{File: filepath.Base(path), Entries: entries}, true
}

// extract splits content into lines and keeps every line that matches at
// least one named pattern, up to the per-file cap.
func (m *Miner) extract(content string) []trace.LogEntry {
	var entries []trace.LogEntry
	for _, line := range strings.Split(content, "\n") {
		raw := truncateRunes(line, maxRawLen)
		var entry trace.LogEntry
		for _, p := range m.patterns {
			if match := p.re.FindString(line); match != "" {
				if entry == nil {
					entry = trace.LogEntry{"raw": raw}
				}
				entry[p.name] = match
			}
		}
		if entry != nil {
			entries = append(entries, entry)
			if len(entries) == maxEntriesPerFile {
				break
			}
		}
	}
	return entries
}

// truncateRunes caps s at n characters without splitting a multibyte rune.
func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}

// recentLogFiles returns the paths of *.log files in dir sorted by
// modification time descending, truncated to maxFiles.
func recentLogFiles(dir string) ([]string, error) {
	dirents, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	type candidate struct {
		path  string
		mtime int64
	}
	var candidates []candidate
	for _, de := range dirents {
		if de.IsDir() || filepath.Ext(de.Name()) != ".log" {
			continue
		}
		info, err := de.Info()
		if err != nil {
			continue
		}
		candidates = append(candidates, candidate{
			path:  filepath.Join(dir, de.Name()),
			mtime: info.ModTime().UnixNano(),
		})
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].mtime > candidates[j].mtime
	})
	if len(candidates) > maxFiles {
		candidates = candidates[:maxFiles]
	}

	paths := make([]string, len(candidates))
	for i, c := range candidates {
		paths[i] = c.path
	}
	return paths, nil
}
