package trace

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	TotalDecisions       int                  `json:"total_decisions" yaml:"total_decisions"`
	Dispatches           int                  `json:"dispatches" yaml:"dispatches"`
	Preemptions          int                  `json:"preemptions" yaml:"preemptions"`
	QuantumExpiries      int                  `json:"quantum_expiries" yaml:"quantum_expiries"`
	Completions          int                  `json:"completions" yaml:"completions"`
	IdleTicks            int                  `json:"idle_ticks" yaml:"idle_ticks"`
	KindCounts           map[DecisionKind]int `json:"kind_counts" yaml:"kind_counts"`
	DispatchDistribution map[int]int          `json:"dispatch_distribution" yaml:"dispatch_distribution"` // process ID → dispatch count
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		KindCounts:           make(map[DecisionKind]int),
		DispatchDistribution: make(map[int]int),
	}
	if st == nil {
		return summary
	}

	summary.TotalDecisions = len(st.Decisions)
	for _, d := range st.Decisions {
		summary.KindCounts[d.Kind]++
		switch d.Kind {
		case KindDispatch:
			summary.Dispatches++
			summary.DispatchDistribution[d.ProcessID]++
		case KindPreempt:
			summary.Preemptions++
		case KindQuantumExpired:
			summary.QuantumExpiries++
		case KindComplete:
			summary.Completions++
		case KindIdle:
			summary.IdleTicks++
		}
	}
	return summary
}
