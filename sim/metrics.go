// Summarizes a finished scheduling run: per-process metrics, averages,
// CPU utilization and the compressed timeline.

package sim

import (
	"fmt"
	"io"

	"github.com/inference-sim/cpu-sched-sim/sim/trace"
)

// AlgorithmResult is the batch summary of one policy run. It is sufficient to
// render a Gantt chart and a metrics table without further computation.
type AlgorithmResult struct {
	Policy            Policy       `json:"policy" yaml:"policy"`
	PolicyName        string       `json:"policy_name" yaml:"policy_name"`
	Timeline          []GanttEntry `json:"timeline" yaml:"timeline"`
	Processes         []Process    `json:"processes" yaml:"processes"` // post-run, input order
	AvgWaitingTime    float64      `json:"avg_waiting_time" yaml:"avg_waiting_time"`
	AvgTurnaroundTime float64      `json:"avg_turnaround_time" yaml:"avg_turnaround_time"`
	TotalTime         int64        `json:"total_time" yaml:"total_time"` // tick at which the last process completes

	AvgResponseTime float64 `json:"avg_response_time" yaml:"avg_response_time"`
	IdleTime        int64   `json:"idle_time" yaml:"idle_time"`
	CPUUtilization  float64 `json:"cpu_utilization" yaml:"cpu_utilization"` // busy ticks / TotalTime
	Throughput      float64 `json:"throughput" yaml:"throughput"`           // processes per tick
	ContextSwitches int     `json:"context_switches" yaml:"context_switches"`

	Trace *trace.SimulationTrace `json:"trace,omitempty" yaml:"trace,omitempty"`
}

type IntOrFloat64 interface {
	int | int64 | float64
}

// CalculateMean is a util function that calculates the mean of a data list.
// Returns 0 for an empty list.
func CalculateMean[T IntOrFloat64](numbers []T) float64 {
	if len(numbers) == 0 {
		return 0.0
	}
	sum := 0.0
	for _, number := range numbers {
		sum += float64(number)
	}
	return sum / float64(len(numbers))
}

func newAlgorithmResult(policy Policy, ws []*Process, timeline []GanttEntry, totalTime int64, st *trace.SimulationTrace) *AlgorithmResult {
	procs := snapshot(ws)
	waits := make([]int64, len(procs))
	turnarounds := make([]int64, len(procs))
	responses := make([]int64, len(procs))
	var busy int64
	for i := range procs {
		procs[i].State = StateCompleted
		waits[i] = procs[i].WaitingTime
		turnarounds[i] = procs[i].TurnaroundTime
		responses[i] = procs[i].ResponseTime
		busy += procs[i].BurstTime
	}

	res := &AlgorithmResult{
		Policy:            policy,
		PolicyName:        policy.DisplayName(),
		Timeline:          timeline,
		Processes:         procs,
		AvgWaitingTime:    CalculateMean(waits),
		AvgTurnaroundTime: CalculateMean(turnarounds),
		AvgResponseTime:   CalculateMean(responses),
		TotalTime:         totalTime,
		IdleTime:          totalTime - busy,
		ContextSwitches:   countContextSwitches(timeline),
		Trace:             st,
	}
	if totalTime > 0 {
		res.CPUUtilization = float64(busy) / float64(totalTime)
		res.Throughput = float64(len(procs)) / float64(totalTime)
	}
	return res
}

// countContextSwitches counts hand-overs between different processes.
// Idle gaps between two segments of the same process do not count.
func countContextSwitches(timeline []GanttEntry) int {
	n := 0
	for i := 1; i < len(timeline); i++ {
		if timeline[i].ProcessID != timeline[i-1].ProcessID {
			n++
		}
	}
	return n
}

// ProcessByID returns the post-run record for id.
func (r *AlgorithmResult) ProcessByID(id int) (Process, bool) {
	for _, p := range r.Processes {
		if p.ID == id {
			return p, true
		}
	}
	return Process{}, false
}

// SegmentsFor returns the timeline entries of one process.
func (r *AlgorithmResult) SegmentsFor(id int) []GanttEntry {
	var out []GanttEntry
	for _, g := range r.Timeline {
		if g.ProcessID == id {
			out = append(out, g)
		}
	}
	return out
}

// Print displays aggregated metrics for the run.
func (r *AlgorithmResult) Print(w io.Writer) {
	_, _ = fmt.Fprintf(w, "=== Simulation Metrics: %s ===\n", r.PolicyName)
	_, _ = fmt.Fprintf(w, "Completed Processes  : %d\n", len(r.Processes))
	_, _ = fmt.Fprintf(w, "Total Time           : %d ticks\n", r.TotalTime)
	if len(r.Processes) > 0 {
		_, _ = fmt.Fprintf(w, "Average Waiting      : %.2f ticks\n", r.AvgWaitingTime)
		_, _ = fmt.Fprintf(w, "Average Turnaround   : %.2f ticks\n", r.AvgTurnaroundTime)
		_, _ = fmt.Fprintf(w, "Average Response     : %.2f ticks\n", r.AvgResponseTime)
		_, _ = fmt.Fprintf(w, "CPU Utilization      : %.2f%%\n", r.CPUUtilization*100)
		_, _ = fmt.Fprintf(w, "Throughput           : %.4f processes/tick\n", r.Throughput)
		_, _ = fmt.Fprintf(w, "Context Switches     : %d\n", r.ContextSwitches)
	}
}
