// Package trace defines the session event model: the structured timeline of
// an interactive assistant session (prompts, responses, tool calls, errors,
// debug-log findings) and the statistics derived from it.
package trace

// ToolCall records a single invocation of an external action during an
// exchange. Immutable once appended, except for redaction which rewrites
// Result and string-valued Parameters in place.
type ToolCall struct {
	Name       string         `json:"name"`
	Parameters map[string]any `json:"parameters"`
	Result     *string        `json:"result,omitempty"`
	Error      *string        `json:"error,omitempty"`
	Timestamp  string         `json:"timestamp"`
	DurationMS *float64       `json:"duration_ms,omitempty"`
	RetryCount int            `json:"retry_count"`
}

// Exchange is one user-prompt/assistant-response pair plus the tool calls
// made while producing the response. An exchange is open (not yet part of
// SessionData.Exchanges) from the moment a prompt is recorded until a
// response is recorded.
type Exchange struct {
	UserPrompt           string     `json:"user_prompt"`
	AssistantResponse    string     `json:"assistant_response"`
	ToolCalls            []ToolCall `json:"tool_calls"`
	Timestamp            string     `json:"timestamp"`
	InputTokensEstimate  *int       `json:"input_tokens_estimate,omitempty"`
	OutputTokensEstimate *int       `json:"output_tokens_estimate,omitempty"`
	DurationMS           *float64   `json:"exchange_duration_ms,omitempty"`
}

// SessionMetadata holds session-level identity and timing.
// Timestamps are ISO-8601 strings; statistics reports a parse failure of
// either one as an absent duration rather than an error.
type SessionMetadata struct {
	SessionID        string  `json:"session_id"`
	Model            string  `json:"model"`
	StartTime        string  `json:"start_time"`
	EndTime          *string `json:"end_time,omitempty"`
	WorkingDirectory string  `json:"working_directory"`
	GitBranch        *string `json:"git_branch,omitempty"`
	LogDir           *string `json:"log_dir,omitempty"`
}

// EnvironmentContext captures static facts about the host, probed once at
// recording start. Each probed field is independently nil when probing failed.
type EnvironmentContext struct {
	OSName         string  `json:"os_name"`
	OSVersion      string  `json:"os_version"`
	Shell          string  `json:"shell"`
	GoVersion      string  `json:"go_version"`
	GitVersion     *string `json:"git_version,omitempty"`
	GHCLIVersion   *string `json:"gh_cli_version,omitempty"`
	NodeVersion    *string `json:"node_version,omitempty"`
	CopilotVersion *string `json:"copilot_version,omitempty"`
	Terminal       *string `json:"terminal,omitempty"`
}

// ErrorRecord is a session-scoped error reported by the caller.
type ErrorRecord struct {
	Type      string         `json:"type"`
	Message   string         `json:"message"`
	Context   map[string]any `json:"context"`
	Timestamp string         `json:"timestamp"`
}

// LogEntry is one structured entry mined from a debug log line.
// It always carries a "raw" key holding the (truncated) source line, plus
// one key per named pattern that matched it.
type LogEntry map[string]string

// LogFinding is the per-file result of debug-log mining: either a bounded
// list of entries, or an error description when the file could not be read.
type LogFinding struct {
	File    string     `json:"file"`
	Entries []LogEntry `json:"entries,omitempty"`
	Error   string     `json:"error,omitempty"`
}

// SessionData is the complete session recording. It is mutated only by the
// recorder (and, in place, by the redaction engine and log miner); the
// statistics aggregator and serializer read it without copying.
type SessionData struct {
	Metadata    SessionMetadata     `json:"metadata"`
	Environment *EnvironmentContext `json:"environment,omitempty"`
	Exchanges   []Exchange          `json:"exchanges"`
	Errors      []ErrorRecord       `json:"errors"`
	DebugLogs   []LogFinding        `json:"debug_logs"`
}
