// Package recorder implements the append-only session recording API.
//
// The recorder instruments a live assistant session and must never abort or
// corrupt that session due to an instrumentation bug: every mutating call
// whose precondition does not hold (not recording, no open exchange)
// degrades to a silent no-op rather than an error.
//
// A Recorder assumes a single linear caller. It holds mutable cursor state
// (the open exchange, a pending tool timer) and is not safe for concurrent
// mutation; callers that record from parallel workers need one recorder per
// worker or an external lock.
package recorder

import (
	"context"
	"os"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/fakeyudi/recap/internal/envinfo"
	"github.com/fakeyudi/recap/internal/logmine"
	"github.com/fakeyudi/recap/internal/trace"
)

// isoFormat is the layout used for every timestamp the recorder stamps.
const isoFormat = "2006-01-02T15:04:05.999999999-07:00"

// Recorder drives the lifecycle of one SessionData value. The session lives
// exactly as long as the recorder and is handed out by Session() without
// copying.
type Recorder struct {
	session *trace.SessionData

	current       *trace.Exchange
	exchangeStart time.Time
	toolStart     time.Time
	recording     bool

	logDir string
	miner  *logmine.Miner
	prober *envinfo.Prober
}

// New creates a recorder for the given session. An empty sessionID gets a
// generated UUID; an empty model records as "unknown". logDir, when
// non-empty, is mined for debug logs at stop time.
func New(sessionID, model, logDir string) *Recorder {
	if sessionID == "" {
		sessionID = uuid.New().String()
	}
	if model == "" {
		model = "unknown"
	}
	cwd, _ := os.Getwd()

	meta := trace.SessionMetadata{
		SessionID:        sessionID,
		Model:            model,
		StartTime:        time.Now().Format(isoFormat),
		WorkingDirectory: cwd,
	}
	if logDir != "" {
		meta.LogDir = &logDir
	}

	return &Recorder{
		session: &trace.SessionData{
			Metadata:  meta,
			Exchanges: []trace.Exchange{},
			Errors:    []trace.ErrorRecord{},
			DebugLogs: []trace.LogFinding{},
		},
		logDir: logDir,
		miner:  logmine.NewMiner(),
		prober: &envinfo.Prober{},
	}
}

// Start begins recording, re-stamping the session start time. gitBranch is
// reassigned on every call, so an empty value clears a branch set by an
// earlier Start. When captureEnv is true the host environment is probed
// once; each probe is non-fatal.
func (r *Recorder) Start(gitBranch string, captureEnv bool) {
	r.recording = true
	if gitBranch != "" {
		r.session.Metadata.GitBranch = &gitBranch
	} else {
		r.session.Metadata.GitBranch = nil
	}
	r.session.Metadata.StartTime = time.Now().Format(isoFormat)
	r.session.Metadata.EndTime = nil

	if captureEnv {
		r.session.Environment = r.prober.Capture(context.Background())
	}
}

// Stop ends recording and stamps the end time. If a log directory was
// configured, its recent log files are mined for debug findings. Stop
// without a prior Start still stamps an end time; the degenerate duration is
// left for the statistics aggregator to surface.
func (r *Recorder) Stop() {
	r.recording = false
	end := time.Now().Format(isoFormat)
	r.session.Metadata.EndTime = &end

	if r.logDir != "" {
		r.session.DebugLogs = append(r.session.DebugLogs, r.miner.Mine(r.logDir)...)
	}
}

// IsRecording reports whether recording is active.
func (r *Recorder) IsRecording() bool {
	return r.recording
}

// AddUserPrompt opens a new exchange. If an exchange was already open and
// unfinished it is silently discarded: last prompt wins.
func (r *Recorder) AddUserPrompt(prompt string) {
	if !r.recording {
		return
	}
	inputEstimate := estimateTokens(prompt)
	r.exchangeStart = time.Now()
	r.current = &trace.Exchange{
		UserPrompt:          prompt,
		AssistantResponse:   "",
		ToolCalls:           []trace.ToolCall{},
		Timestamp:           time.Now().Format(isoFormat),
		InputTokensEstimate: &inputEstimate,
	}
}

// AddAssistantResponse finalizes the open exchange: it records the response
// and its token estimate, computes the elapsed duration, and appends the
// now-closed exchange to the session. No-op without an open exchange.
func (r *Recorder) AddAssistantResponse(response string) {
	if !r.recording || r.current == nil {
		return
	}
	r.current.AssistantResponse = response
	outputEstimate := estimateTokens(response)
	r.current.OutputTokensEstimate = &outputEstimate

	if !r.exchangeStart.IsZero() {
		elapsed := float64(time.Since(r.exchangeStart)) / float64(time.Millisecond)
		r.current.DurationMS = &elapsed
	}

	r.session.Exchanges = append(r.session.Exchanges, *r.current)
	r.current = nil
	r.exchangeStart = time.Time{}
}

// StartToolCall marks the start of a tool call for timing. The mark is
// one-shot: the next AddToolCall consumes it.
func (r *Recorder) StartToolCall() {
	r.toolStart = time.Now()
}

// AddToolCall appends a tool call to the open exchange. result and errMsg
// are optional; a pending tool timer, if any, supplies the duration and is
// reset. No-op without an open exchange.
func (r *Recorder) AddToolCall(name string, parameters map[string]any, result, errMsg *string, retryCount int) {
	if !r.recording || r.current == nil {
		return
	}

	var durationMS *float64
	if !r.toolStart.IsZero() {
		elapsed := float64(time.Since(r.toolStart)) / float64(time.Millisecond)
		durationMS = &elapsed
		r.toolStart = time.Time{}
	}

	r.current.ToolCalls = append(r.current.ToolCalls, trace.ToolCall{
		Name:       name,
		Parameters: parameters,
		Result:     result,
		Error:      errMsg,
		Timestamp:  time.Now().Format(isoFormat),
		DurationMS: durationMS,
		RetryCount: retryCount,
	})
}

// AddError records a session-scoped error with the current timestamp,
// regardless of the open-exchange state.
func (r *Recorder) AddError(errType, message string, errCtx map[string]any) {
	if !r.recording {
		return
	}
	if errCtx == nil {
		errCtx = map[string]any{}
	}
	r.session.Errors = append(r.session.Errors, trace.ErrorRecord{
		Type:      errType,
		Message:   message,
		Context:   errCtx,
		Timestamp: time.Now().Format(isoFormat),
	})
}

// Session returns the owned session data for reading or downstream
// processing. The caller may hold the reference across later mutations;
// there is no copy-on-read.
func (r *Recorder) Session() *trace.SessionData {
	return r.session
}

// estimateTokens gives a rough token count, ~4 characters per token.
func estimateTokens(text string) int {
	return utf8.RuneCountInString(text) / 4
}
