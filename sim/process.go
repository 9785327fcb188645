// Defines the Process struct that models a single schedulable process in the simulation.
// Tracks arrival, burst, priority, remaining work and the metrics committed at completion.

package sim

import (
	"fmt"
)

// ProcessState represents the display state of a process at a given tick.
type ProcessState string

const (
	StateNotArrived ProcessState = "not-arrived"
	StateWaiting    ProcessState = "waiting"
	StateRunning    ProcessState = "running"
	StateCompleted  ProcessState = "completed"
)

// NoProcess is the RunningID reported for ticks where the CPU is idle.
const NoProcess = -1

// Process models a single process's lifecycle in the simulation.
// Inputs are ID, ArrivalTime, BurstTime and Priority; everything else is
// derived by the engines on a private copy.
type Process struct {
	ID   int    `json:"id" yaml:"id"`     // Unique, stable identifier (>= 0)
	Name string `json:"name" yaml:"name"` // Display label only

	ArrivalTime int64 `json:"arrival_time" yaml:"arrival_time"` // Tick at which the process becomes eligible
	BurstTime   int64 `json:"burst_time" yaml:"burst_time"`     // Total CPU ticks required; never mutated
	Priority    *int  `json:"priority" yaml:"priority"`         // nil = unset (worst); lower value = more important

	Color string `json:"color,omitempty" yaml:"color,omitempty"` // Caller-owned display token, copied through untouched

	RemainingTime  int64        `json:"remaining_time" yaml:"remaining_time"`
	Started        bool         `json:"started" yaml:"started"`       // Set on first tick holding the CPU
	StartTime      int64        `json:"start_time" yaml:"start_time"` // First tick holding the CPU
	Completed      bool         `json:"completed" yaml:"completed"`   // Set exactly once, when RemainingTime reaches 0
	CompletionTime int64        `json:"completion_time" yaml:"completion_time"`
	TurnaroundTime int64        `json:"turnaround_time" yaml:"turnaround_time"`
	WaitingTime    int64        `json:"waiting_time" yaml:"waiting_time"`
	ResponseTime   int64        `json:"response_time" yaml:"response_time"`
	State          ProcessState `json:"state" yaml:"state"`
}

// NewProcess builds an input process with no derived state.
func NewProcess(id int, name string, arrival, burst int64, priority *int) Process {
	return Process{
		ID:          id,
		Name:        name,
		ArrivalTime: arrival,
		BurstTime:   burst,
		Priority:    priority,
	}
}

// IntPtr returns a pointer to v. Used to set Process.Priority.
func IntPtr(v int) *int { return &v }

// Label returns the display name, falling back to "P<id>".
func (p *Process) Label() string {
	if p.Name != "" {
		return p.Name
	}
	return fmt.Sprintf("P%d", p.ID)
}

// HasArrived reports whether the process is eligible at clock.
func (p *Process) HasArrived(clock int64) bool {
	return p.ArrivalTime <= clock
}

// IsReady reports whether the process belongs to the ready set at clock.
func (p *Process) IsReady(clock int64) bool {
	return p.HasArrived(clock) && p.RemainingTime > 0
}

// execute runs the process for one tick starting at clock and commits its
// completion metrics when the burst is exhausted.
func (p *Process) execute(clock int64) {
	if !p.Started {
		p.Started = true
		p.StartTime = clock
		p.ResponseTime = clock - p.ArrivalTime
	}
	p.RemainingTime--
	if p.RemainingTime == 0 {
		p.complete(clock + 1)
	}
}

// runToCompletion runs the whole remaining burst starting at clock.
func (p *Process) runToCompletion(clock int64) int64 {
	if !p.Started {
		p.Started = true
		p.StartTime = clock
		p.ResponseTime = clock - p.ArrivalTime
	}
	end := clock + p.RemainingTime
	p.RemainingTime = 0
	p.complete(end)
	return end
}

func (p *Process) complete(at int64) {
	if p.Completed {
		panic(fmt.Sprintf("process %d completed twice", p.ID))
	}
	p.Completed = true
	p.CompletionTime = at
	p.TurnaroundTime = at - p.ArrivalTime
	p.WaitingTime = p.TurnaroundTime - p.BurstTime
	p.State = StateCompleted
}

// clone returns a deep copy, including the Priority target.
func (p Process) clone() Process {
	if p.Priority != nil {
		p.Priority = IntPtr(*p.Priority)
	}
	return p
}

// newWorkingSet deep-copies the caller's processes into a fresh, reset working set.
// The caller's slice is never aliased.
func newWorkingSet(procs []Process) []*Process {
	ws := make([]*Process, len(procs))
	for i := range procs {
		c := procs[i].clone()
		c.RemainingTime = c.BurstTime
		c.Started, c.StartTime, c.ResponseTime = false, 0, 0
		c.Completed, c.CompletionTime, c.TurnaroundTime, c.WaitingTime = false, 0, 0, 0
		c.State = StateNotArrived
		ws[i] = &c
	}
	return ws
}

// snapshot copies the working set into caller-owned values.
func snapshot(ws []*Process) []Process {
	out := make([]Process, len(ws))
	for i, p := range ws {
		out[i] = p.clone()
	}
	return out
}

// This method returns a human-readable string representation of a Process.
func (p Process) String() string {
	return fmt.Sprintf("Process: (ID: %d, State: %s, Remaining: %d, Arrival: %d)", p.ID, p.State, p.RemainingTime, p.ArrivalTime)
}
