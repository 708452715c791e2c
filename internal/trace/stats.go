package trace

import "time"

// Statistics is the aggregate view of a session, recomputed from the current
// SessionData on every call so it always reflects the latest state.
type Statistics struct {
	TotalExchanges  int             `json:"total_exchanges"`
	TotalToolCalls  int             `json:"total_tool_calls"`
	TotalErrors     int             `json:"total_errors"`
	DurationSeconds *float64        `json:"duration_seconds"`
	TokenEstimates  TokenEstimates  `json:"token_estimates"`
	ToolPerformance ToolPerformance `json:"tool_performance"`
	ErrorBreakdown  map[string]int  `json:"error_breakdown"`
}

// TokenEstimates sums the per-exchange input and output estimates; an
// exchange with no estimate contributes zero without making the total absent.
type TokenEstimates struct {
	TotalInput  int `json:"total_input"`
	TotalOutput int `json:"total_output"`
	Total       int `json:"total"`
}

// ToolPerformance aggregates tool-call timing and usage across the session.
// AvgDurationMS is nil when no tool call carried a duration.
type ToolPerformance struct {
	AvgDurationMS *float64       `json:"avg_duration_ms"`
	ToolUsage     map[string]int `json:"tool_usage"`
}

// isoLayouts are the accepted timestamp layouts, tried in order. The
// zone-less forms cover timestamps produced without offset information.
var isoLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
}

// ParseISOTime parses an ISO-8601 timestamp, trying each accepted layout.
func ParseISOTime(s string) (time.Time, error) {
	var err error
	for _, layout := range isoLayouts {
		var t time.Time
		t, err = time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}

// Statistics computes the aggregate statistics for the session.
func (s *SessionData) Statistics() Statistics {
	totalToolCalls := 0
	totalInput := 0
	totalOutput := 0
	var durations []float64
	toolUsage := make(map[string]int)

	for _, e := range s.Exchanges {
		totalToolCalls += len(e.ToolCalls)
		if e.InputTokensEstimate != nil {
			totalInput += *e.InputTokensEstimate
		}
		if e.OutputTokensEstimate != nil {
			totalOutput += *e.OutputTokensEstimate
		}
		for _, tc := range e.ToolCalls {
			toolUsage[tc.Name]++
			if tc.DurationMS != nil {
				durations = append(durations, *tc.DurationMS)
			}
		}
	}

	var avgDuration *float64
	if len(durations) > 0 {
		sum := 0.0
		for _, d := range durations {
			sum += d
		}
		avg := sum / float64(len(durations))
		avgDuration = &avg
	}

	errorBreakdown := make(map[string]int)
	for _, er := range s.Errors {
		typ := er.Type
		if typ == "" {
			typ = "unknown"
		}
		errorBreakdown[typ]++
	}

	return Statistics{
		TotalExchanges:  len(s.Exchanges),
		TotalToolCalls:  totalToolCalls,
		TotalErrors:     len(s.Errors),
		DurationSeconds: s.durationSeconds(),
		TokenEstimates: TokenEstimates{
			TotalInput:  totalInput,
			TotalOutput: totalOutput,
			Total:       totalInput + totalOutput,
		},
		ToolPerformance: ToolPerformance{
			AvgDurationMS: avgDuration,
			ToolUsage:     toolUsage,
		},
		ErrorBreakdown: errorBreakdown,
	}
}

// durationSeconds returns the session duration, or nil when the session has
// no end time or either timestamp fails to parse.
func (s *SessionData) durationSeconds() *float64 {
	if s.Metadata.EndTime == nil {
		return nil
	}
	start, err := ParseISOTime(s.Metadata.StartTime)
	if err != nil {
		return nil
	}
	end, err := ParseISOTime(*s.Metadata.EndTime)
	if err != nil {
		return nil
	}
	secs := end.Sub(start).Seconds()
	return &secs
}
