// Package redact removes sensitive substrings from a recorded session before
// it is shared. Scrubbing is in place and idempotent: the redaction marker
// never matches any default pattern.
package redact

import (
	"regexp"

	"github.com/fakeyudi/recap/internal/trace"
)

// Marker replaces every pattern match.
const Marker = "[REDACTED]"

// DefaultPatterns are the built-in sensitive-data shapes: credential-like
// key/value pairs, bearer auth headers, GitHub personal access tokens, and
// OpenAI-style API keys.
var DefaultPatterns = []string{
	`(?i)(api[_-]?key|apikey|secret|password|token|credential)["']?\s*[:=]\s*["']?[\w\-]+`,
	`(?i)bearer\s+[\w\-\.]+`,
	`ghp_[a-zA-Z0-9]{36}`,
	`sk-[a-zA-Z0-9]{48}`,
}

// Scrubber applies an ordered pattern list to every textual field of a
// session. Patterns are compiled once at construction.
type Scrubber struct {
	patterns []*regexp.Regexp
}

// NewScrubber compiles the given patterns, or the default set when none are
// given. A caller-supplied set fully replaces the defaults.
func NewScrubber(patterns ...string) (*Scrubber, error) {
	if len(patterns) == 0 {
		patterns = DefaultPatterns
	}
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, err
		}
		compiled = append(compiled, re)
	}
	return &Scrubber{patterns: compiled}, nil
}

// ScrubText replaces every pattern match in text with the marker. Patterns
// apply in order, each re-scanning the output of the previous one.
func (sc *Scrubber) ScrubText(text string) string {
	for _, re := range sc.patterns {
		text = re.ReplaceAllString(text, Marker)
	}
	return text
}

// Scrub rewrites every exchange's prompt and response, every tool call's
// result, and every string-valued tool-call parameter in place. Non-string
// parameter values pass through unchanged.
func (sc *Scrubber) Scrub(s *trace.SessionData) {
	for i := range s.Exchanges {
		e := &s.Exchanges[i]
		e.UserPrompt = sc.ScrubText(e.UserPrompt)
		e.AssistantResponse = sc.ScrubText(e.AssistantResponse)
		for j := range e.ToolCalls {
			tc := &e.ToolCalls[j]
			if tc.Result != nil {
				cleaned := sc.ScrubText(*tc.Result)
				tc.Result = &cleaned
			}
			for k, v := range tc.Parameters {
				if str, ok := v.(string); ok {
					tc.Parameters[k] = sc.ScrubText(str)
				}
			}
		}
	}
}
