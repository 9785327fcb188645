package sim

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// textbookProcs is the classic three-process workload:
// P1(0,5,prio 2), P2(1,3,prio 1), P3(2,1,prio 3).
func textbookProcs() []Process {
	return []Process{
		NewProcess(1, "P1", 0, 5, IntPtr(2)),
		NewProcess(2, "P2", 1, 3, IntPtr(1)),
		NewProcess(3, "P3", 2, 1, IntPtr(3)),
	}
}

// rrPairProcs is the two-process Round Robin workload: P1(0,5), P2(1,3).
func rrPairProcs() []Process {
	return []Process{
		NewProcess(1, "P1", 0, 5, nil),
		NewProcess(2, "P2", 1, 3, nil),
	}
}

// idleGapProcs leaves the CPU idle during [0,2) and [5,9).
func idleGapProcs() []Process {
	return []Process{
		NewProcess(1, "P1", 2, 3, nil),
		NewProcess(2, "P2", 9, 2, nil),
		NewProcess(3, "P3", 10, 4, nil),
	}
}

func defaultOpts() Options {
	return Options{Quantum: 2}
}

func mustRun(t *testing.T, policy Policy, procs []Process, opts Options) *AlgorithmResult {
	t.Helper()
	res, err := Run(policy, procs, opts)
	require.NoError(t, err, "Run(%s)", policy)
	require.NotNil(t, res)
	return res
}

// completions maps process ID to completion time.
func completions(res *AlgorithmResult) map[int]int64 {
	out := make(map[int]int64, len(res.Processes))
	for _, p := range res.Processes {
		out[p.ID] = p.CompletionTime
	}
	return out
}

func seg(id int, start, end int64) GanttEntry {
	return GanttEntry{ProcessID: id, Start: start, End: end}
}

func cloneProcs(procs []Process) []Process {
	out := make([]Process, len(procs))
	for i, p := range procs {
		out[i] = p.clone()
	}
	return out
}
