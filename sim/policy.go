package sim

import (
	"fmt"
	"strings"
)

// Policy names a CPU scheduling policy.
type Policy string

const (
	PolicyFCFS       Policy = "fcfs"
	PolicySJF        Policy = "sjf"
	PolicySRTF       Policy = "srtf"
	PolicyPriorityNP Policy = "priority-np"
	PolicyPriorityP  Policy = "priority-p"
	PolicyRoundRobin Policy = "rr"
)

// allPolicies is the fixed order used by compare-all runs and listings.
var allPolicies = []Policy{
	PolicyFCFS,
	PolicySJF,
	PolicySRTF,
	PolicyPriorityNP,
	PolicyPriorityP,
	PolicyRoundRobin,
}

// ValidPolicies is the set of recognized policy names.
var ValidPolicies = map[Policy]bool{
	PolicyFCFS:       true,
	PolicySJF:        true,
	PolicySRTF:       true,
	PolicyPriorityNP: true,
	PolicyPriorityP:  true,
	PolicyRoundRobin: true,
}

// policyAliases maps accepted spellings onto canonical names.
var policyAliases = map[string]Policy{
	"fcfs":                    PolicyFCFS,
	"fifo":                    PolicyFCFS,
	"first-come-first-served": PolicyFCFS,
	"sjf":                     PolicySJF,
	"shortest-job-first":      PolicySJF,
	"srtf":                    PolicySRTF,
	"srt":                     PolicySRTF,
	"shortest-remaining-time": PolicySRTF,
	"priority":                PolicyPriorityNP,
	"priority-np":             PolicyPriorityNP,
	"priority-nonpreemptive":  PolicyPriorityNP,
	"priority-p":              PolicyPriorityP,
	"priority-preemptive":     PolicyPriorityP,
	"rr":                      PolicyRoundRobin,
	"round-robin":             PolicyRoundRobin,
}

var policyDisplayNames = map[Policy]string{
	PolicyFCFS:       "First Come First Served",
	PolicySJF:        "Shortest Job First",
	PolicySRTF:       "Shortest Remaining Time First",
	PolicyPriorityNP: "Priority (Non-Preemptive)",
	PolicyPriorityP:  "Priority (Preemptive)",
	PolicyRoundRobin: "Round Robin",
}

// AllPolicies returns every policy in canonical order.
func AllPolicies() []Policy {
	out := make([]Policy, len(allPolicies))
	copy(out, allPolicies)
	return out
}

// IsValidPolicy returns true if name is a canonical policy name.
func IsValidPolicy(name string) bool {
	return ValidPolicies[Policy(name)]
}

// ParsePolicy resolves a canonical name or alias, case-insensitively.
func ParsePolicy(name string) (Policy, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	key = strings.ReplaceAll(key, "_", "-")
	if p, ok := policyAliases[key]; ok {
		return p, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPolicy, name)
}

// DisplayName returns the human-readable policy name.
func (p Policy) DisplayName() string {
	if n, ok := policyDisplayNames[p]; ok {
		return n
	}
	return string(p)
}

// Preemptive reports whether the policy re-evaluates its choice every tick.
// Round Robin preempts only on quantum expiry and is not included.
func (p Policy) Preemptive() bool {
	return p == PolicySRTF || p == PolicyPriorityP
}

// UsesQuantum reports whether the policy needs a time quantum.
func (p Policy) UsesQuantum() bool {
	return p == PolicyRoundRobin
}
