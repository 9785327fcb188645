package sim

import (
	"fmt"
	"math"
	"sort"
)

// SelectionRule orders ready processes for a policy.
// Less must be a strict total order over distinct process IDs so that a
// non-empty ready set always has exactly one winner.
// Implementations MUST NOT modify the processes.
type SelectionRule interface {
	Less(a, b *Process) bool
}

// FCFSRule picks the earliest arrival, then the lowest ID.
type FCFSRule struct{}

func (FCFSRule) Less(a, b *Process) bool {
	if a.ArrivalTime != b.ArrivalTime {
		return a.ArrivalTime < b.ArrivalTime
	}
	return a.ID < b.ID
}

// SJFRule picks the shortest total burst, then earliest arrival, then lowest ID.
// Warning: SJF can starve long processes under sustained arrivals.
type SJFRule struct{}

func (SJFRule) Less(a, b *Process) bool {
	if a.BurstTime != b.BurstTime {
		return a.BurstTime < b.BurstTime
	}
	return arrivalThenID(a, b)
}

// SRTFRule picks the least remaining work, then earliest arrival, then lowest ID.
type SRTFRule struct{}

func (SRTFRule) Less(a, b *Process) bool {
	if a.RemainingTime != b.RemainingTime {
		return a.RemainingTime < b.RemainingTime
	}
	return arrivalThenID(a, b)
}

// PriorityRule picks the lowest priority number, then earliest arrival, then lowest ID.
// An unset priority ranks after every set one; two unset priorities tie on the
// primary key and fall through to the tie-breaks.
type PriorityRule struct{}

func (PriorityRule) Less(a, b *Process) bool {
	pa, pb := priorityKey(a), priorityKey(b)
	if pa != pb {
		return pa < pb
	}
	return arrivalThenID(a, b)
}

// ArrivalOrderRule orders Round Robin enqueues: simultaneous arrivals by ID.
// It is never used to pick among queued processes; the queue is FIFO.
type ArrivalOrderRule struct{}

func (ArrivalOrderRule) Less(a, b *Process) bool {
	return FCFSRule{}.Less(a, b)
}

func arrivalThenID(a, b *Process) bool {
	if a.ArrivalTime != b.ArrivalTime {
		return a.ArrivalTime < b.ArrivalTime
	}
	return a.ID < b.ID
}

func priorityKey(p *Process) int {
	if p.Priority == nil {
		return math.MaxInt
	}
	return *p.Priority
}

// NewSelectionRule creates the SelectionRule for a policy.
// Panics on unrecognized policies.
func NewSelectionRule(policy Policy) SelectionRule {
	if !ValidPolicies[policy] {
		panic(fmt.Sprintf("unknown policy %q", policy))
	}
	switch policy {
	case PolicyFCFS:
		return FCFSRule{}
	case PolicySJF:
		return SJFRule{}
	case PolicySRTF:
		return SRTFRule{}
	case PolicyPriorityNP, PolicyPriorityP:
		return PriorityRule{}
	case PolicyRoundRobin:
		return ArrivalOrderRule{}
	default:
		panic(fmt.Sprintf("unhandled policy %q", policy))
	}
}

// Select returns the winner among ready, or nil when ready is empty.
func Select(rule SelectionRule, ready []*Process) *Process {
	var best *Process
	for _, p := range ready {
		if best == nil || rule.Less(p, best) {
			best = p
		}
	}
	return best
}

// OrderReady sorts ready in-place by rule. Used for display order.
func OrderReady(rule SelectionRule, ready []*Process) {
	sort.SliceStable(ready, func(i, j int) bool {
		return rule.Less(ready[i], ready[j])
	})
}

// readySet collects the processes eligible at clock, in input order.
func readySet(ws []*Process, clock int64) []*Process {
	ready := make([]*Process, 0, len(ws))
	for _, p := range ws {
		if p.IsReady(clock) {
			ready = append(ready, p)
		}
	}
	return ready
}
