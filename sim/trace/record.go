// Package trace provides decision-trace recording for scheduling runs.
// This package has no dependencies on sim/ and stores pure data types.
package trace

// DecisionKind classifies a scheduling decision.
type DecisionKind string

const (
	KindArrival        DecisionKind = "arrival"
	KindDispatch       DecisionKind = "dispatch"
	KindPreempt        DecisionKind = "preempt"
	KindQuantumExpired DecisionKind = "quantum-expired"
	KindComplete       DecisionKind = "complete"
	KindIdle           DecisionKind = "idle"
)

// NoProcess marks records that do not concern a single process (idle ticks).
const NoProcess = -1

// DecisionRecord captures a single scheduling decision.
type DecisionRecord struct {
	Clock     int64        `json:"clock" yaml:"clock"`
	ProcessID int          `json:"process_id" yaml:"process_id"`
	Kind      DecisionKind `json:"kind" yaml:"kind"`
	Reason    string       `json:"reason,omitempty" yaml:"reason,omitempty"`
	// PreemptedBy is the winner that displaced ProcessID (KindPreempt only).
	// Nil on every other kind; process 0 is a valid preemptor.
	PreemptedBy *int `json:"preempted_by,omitempty" yaml:"preempted_by,omitempty"`
}
