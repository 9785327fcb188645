package trace

// TraceLevel controls the verbosity of decision tracing.
type TraceLevel string

const (
	// TraceLevelNone disables tracing (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelDecisions captures every dispatch, preemption, expiry, completion and idle tick.
	TraceLevelDecisions TraceLevel = "decisions"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:      true,
	TraceLevelDecisions: true,
	"":                  true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// Enabled reports whether decisions should be recorded at this level.
func (l TraceLevel) Enabled() bool {
	return l == TraceLevelDecisions
}

// TraceConfig controls trace collection behavior.
type TraceConfig struct {
	Level TraceLevel
}

// SimulationTrace collects decision records during one scheduling run.
type SimulationTrace struct {
	Config    TraceConfig      `json:"-" yaml:"-"`
	Decisions []DecisionRecord `json:"decisions" yaml:"decisions"`
}

// NewSimulationTrace creates a SimulationTrace ready for recording.
func NewSimulationTrace(config TraceConfig) *SimulationTrace {
	return &SimulationTrace{
		Config:    config,
		Decisions: make([]DecisionRecord, 0),
	}
}

// RecordDecision appends a decision record. Safe on a nil trace (no-op).
func (st *SimulationTrace) RecordDecision(record DecisionRecord) {
	if st == nil {
		return
	}
	st.Decisions = append(st.Decisions, record)
}

// ByKind returns the records of one kind in recording order.
func (st *SimulationTrace) ByKind(kind DecisionKind) []DecisionRecord {
	if st == nil {
		return nil
	}
	var out []DecisionRecord
	for _, d := range st.Decisions {
		if d.Kind == kind {
			out = append(out, d)
		}
	}
	return out
}
