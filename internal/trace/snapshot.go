package trace

import (
	"encoding/json"
	"fmt"
)

// Snapshot is the serialized form of a session: the full recording plus its
// statistics, the latter computed at snapshot time rather than stored.
type Snapshot struct {
	Metadata    SessionMetadata     `json:"metadata"`
	Environment *EnvironmentContext `json:"environment"`
	Exchanges   []Exchange          `json:"exchanges"`
	Errors      []ErrorRecord       `json:"errors"`
	DebugLogs   []LogFinding        `json:"debug_logs"`
	Statistics  Statistics          `json:"statistics"`
}

// Snapshot builds the serializable view of the session with fresh statistics.
func (s *SessionData) Snapshot() Snapshot {
	return Snapshot{
		Metadata:    s.Metadata,
		Environment: s.Environment,
		Exchanges:   s.Exchanges,
		Errors:      s.Errors,
		DebugLogs:   s.DebugLogs,
		Statistics:  s.Statistics(),
	}
}

// ToJSON serializes the session snapshot as indented JSON.
func (s *SessionData) ToJSON() ([]byte, error) {
	data, err := json.MarshalIndent(s.Snapshot(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal session snapshot: %w", err)
	}
	return data, nil
}

// SessionData reconstructs the mutable recording from a snapshot, dropping
// the derived statistics (they are recomputed on demand).
func (sn *Snapshot) SessionData() *SessionData {
	return &SessionData{
		Metadata:    sn.Metadata,
		Environment: sn.Environment,
		Exchanges:   sn.Exchanges,
		Errors:      sn.Errors,
		DebugLogs:   sn.DebugLogs,
	}
}
