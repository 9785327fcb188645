package sim

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/cpu-sched-sim/sim/trace"
)

func TestRun_FCFS_Textbook(t *testing.T) {
	res := mustRun(t, PolicyFCFS, textbookProcs(), defaultOpts())

	assert.Equal(t, map[int]int64{1: 5, 2: 8, 3: 9}, completions(res))
	assert.Equal(t, []GanttEntry{seg(1, 0, 5), seg(2, 5, 8), seg(3, 8, 9)}, res.Timeline)
	assert.Equal(t, int64(9), res.TotalTime)
	assert.InDelta(t, 10.0/3, res.AvgWaitingTime, 1e-9)
	assert.InDelta(t, 19.0/3, res.AvgTurnaroundTime, 1e-9)
}

func TestRun_SJF_Textbook(t *testing.T) {
	// GIVEN only P1 is ready at t=0
	res := mustRun(t, PolicySJF, textbookProcs(), defaultOpts())

	// THEN P1 runs to completion, then the shortest waiting job P3, then P2
	assert.Equal(t, map[int]int64{1: 5, 2: 9, 3: 6}, completions(res))
	assert.Equal(t, []GanttEntry{seg(1, 0, 5), seg(3, 5, 6), seg(2, 6, 9)}, res.Timeline)
}

func TestRun_SRTF_Textbook(t *testing.T) {
	res := mustRun(t, PolicySRTF, textbookProcs(), defaultOpts())

	assert.Equal(t, []GanttEntry{seg(1, 0, 1), seg(2, 1, 2), seg(3, 2, 3), seg(2, 3, 5), seg(1, 5, 9)}, res.Timeline)
	assert.Equal(t, map[int]int64{1: 9, 2: 5, 3: 3}, completions(res))
	assert.InDelta(t, 5.0/3, res.AvgWaitingTime, 1e-9)
	assert.Equal(t, 0.0, res.AvgResponseTime)
	assert.Equal(t, 4, res.ContextSwitches)
}

func TestRun_PriorityNonPreemptive_Textbook(t *testing.T) {
	res := mustRun(t, PolicyPriorityNP, textbookProcs(), defaultOpts())
	assert.Equal(t, map[int]int64{1: 5, 2: 8, 3: 9}, completions(res))
}

func TestRun_PriorityPreemptive_Textbook(t *testing.T) {
	// GIVEN P2 (priority 1) arrives while P1 (priority 2) runs
	res := mustRun(t, PolicyPriorityP, textbookProcs(), defaultOpts())

	// THEN P2 preempts at t=1 and P3 (priority 3) runs last
	assert.Equal(t, []GanttEntry{seg(1, 0, 1), seg(2, 1, 4), seg(1, 4, 8), seg(3, 8, 9)}, res.Timeline)
	assert.Equal(t, map[int]int64{1: 8, 2: 4, 3: 9}, completions(res))
	assert.InDelta(t, 2.0, res.AvgResponseTime, 1e-9)
}

func TestRun_RoundRobin_QuantumTwo(t *testing.T) {
	// GIVEN P1(0,5), P2(1,3) with quantum 2
	res := mustRun(t, PolicyRoundRobin, rrPairProcs(), Options{Quantum: 2})

	// THEN the CPU alternates and P1 finishes its last tick at 8
	assert.Equal(t, []GanttEntry{seg(1, 0, 2), seg(2, 2, 4), seg(1, 4, 6), seg(2, 6, 7), seg(1, 7, 8)}, res.Timeline)
	assert.Equal(t, map[int]int64{1: 8, 2: 7}, completions(res))
	require.NoError(t, ValidateTimeline(res.Timeline, rrPairProcs()))
}

func TestRun_RoundRobin_ExpiredRunnerQueuesBehindArrivalsAlreadyWaiting(t *testing.T) {
	res := mustRun(t, PolicyRoundRobin, textbookProcs(), Options{Quantum: 2})
	assert.Equal(t, []GanttEntry{
		seg(1, 0, 2), seg(2, 2, 4), seg(1, 4, 6), seg(3, 6, 7), seg(2, 7, 8), seg(1, 8, 9),
	}, res.Timeline)
	assert.Equal(t, map[int]int64{1: 9, 2: 8, 3: 7}, completions(res))
}

func TestRun_RoundRobin_LargeQuantumIsFCFS(t *testing.T) {
	rr := mustRun(t, PolicyRoundRobin, textbookProcs(), Options{Quantum: 100})
	fcfs := mustRun(t, PolicyFCFS, textbookProcs(), defaultOpts())
	assert.Equal(t, fcfs.Timeline, rr.Timeline)
	assert.Equal(t, completions(fcfs), completions(rr))
}

func TestRun_IdleGaps(t *testing.T) {
	for _, policy := range AllPolicies() {
		t.Run(string(policy), func(t *testing.T) {
			res := mustRun(t, policy, idleGapProcs(), defaultOpts())
			assert.Equal(t, []GanttEntry{seg(1, 2, 5), seg(2, 9, 11), seg(3, 11, 15)}, res.Timeline)
			assert.Equal(t, int64(15), res.TotalTime)
			assert.Equal(t, int64(6), res.IdleTime)
			assert.InDelta(t, 9.0/15, res.CPUUtilization, 1e-9)
		})
	}
}

func TestRun_EmptyInput_ZeroResult(t *testing.T) {
	for _, policy := range AllPolicies() {
		res := mustRun(t, policy, nil, defaultOpts())
		assert.Empty(t, res.Timeline)
		assert.Empty(t, res.Processes)
		assert.Zero(t, res.TotalTime)
		assert.Zero(t, res.AvgWaitingTime)
		assert.Zero(t, res.AvgTurnaroundTime)
	}
}

func TestRun_InvalidInput(t *testing.T) {
	tests := []struct {
		name    string
		policy  Policy
		procs   []Process
		opts    Options
		wantErr error
	}{
		{"unknown policy", "lottery", textbookProcs(), defaultOpts(), ErrUnknownPolicy},
		{"rr without quantum", PolicyRoundRobin, textbookProcs(), Options{}, ErrInvalidInput},
		{"zero burst", PolicyFCFS, []Process{NewProcess(1, "", 0, 0, nil)}, defaultOpts(), ErrInvalidInput},
		{"negative arrival", PolicyFCFS, []Process{NewProcess(1, "", -1, 2, nil)}, defaultOpts(), ErrInvalidInput},
		{"negative id", PolicyFCFS, []Process{NewProcess(-1, "", 0, 2, nil)}, defaultOpts(), ErrInvalidInput},
		{"negative priority", PolicyPriorityP, []Process{NewProcess(1, "", 0, 2, IntPtr(-2))}, defaultOpts(), ErrInvalidInput},
		{"duplicate id", PolicySJF, []Process{NewProcess(1, "", 0, 2, nil), NewProcess(1, "", 1, 2, nil)}, defaultOpts(), ErrInvalidInput},
		{"negative max ticks", PolicyFCFS, textbookProcs(), Options{MaxTicks: -1}, ErrInvalidInput},
		{"bad trace level", PolicyFCFS, textbookProcs(), Options{TraceLevel: "verbose"}, ErrInvalidInput},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res, err := Run(tc.policy, tc.procs, tc.opts)
			assert.Nil(t, res)
			assert.True(t, errors.Is(err, tc.wantErr), "got %v, want %v", err, tc.wantErr)
		})
	}
}

func TestRun_TickCeiling(t *testing.T) {
	for _, policy := range AllPolicies() {
		t.Run(string(policy), func(t *testing.T) {
			_, err := Run(policy, textbookProcs(), Options{Quantum: 2, MaxTicks: 3})
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrTickCeiling)
		})
	}
}

func TestRun_CeilingAtExactTotalTimeSucceeds(t *testing.T) {
	for _, policy := range AllPolicies() {
		mustRun(t, policy, textbookProcs(), Options{Quantum: 2, MaxTicks: 9})
	}
}

func TestRun_DoesNotMutateInput(t *testing.T) {
	for _, policy := range AllPolicies() {
		procs := textbookProcs()
		before := cloneProcs(procs)
		mustRun(t, policy, procs, defaultOpts())
		assert.Equal(t, before, procs, "%s mutated its input", policy)
	}
}

func TestRun_ResultDoesNotAliasInputPriority(t *testing.T) {
	procs := textbookProcs()
	res := mustRun(t, PolicyPriorityP, procs, defaultOpts())
	*res.Processes[0].Priority = 42
	assert.Equal(t, 2, *procs[0].Priority)
}

func TestRun_Deterministic(t *testing.T) {
	opts := Options{Quantum: 2, TraceLevel: trace.TraceLevelDecisions}
	for _, policy := range AllPolicies() {
		a := mustRun(t, policy, textbookProcs(), opts)
		b := mustRun(t, policy, textbookProcs(), opts)
		assert.Equal(t, a, b, "%s is not deterministic", policy)
	}
}

func TestRun_InputOrderDoesNotChangeSchedule(t *testing.T) {
	procs := textbookProcs()
	reversed := []Process{procs[2], procs[1], procs[0]}
	for _, policy := range AllPolicies() {
		a := mustRun(t, policy, procs, defaultOpts())
		b := mustRun(t, policy, reversed, defaultOpts())
		assert.Equal(t, a.Timeline, b.Timeline, string(policy))
		assert.Equal(t, completions(a), completions(b), string(policy))
		// Processes come back in input order.
		assert.Equal(t, 3, b.Processes[0].ID)
	}
}

func TestRun_MetricIdentities(t *testing.T) {
	workloads := map[string][]Process{
		"textbook": textbookProcs(),
		"rr-pair":  rrPairProcs(),
		"idle-gap": idleGapProcs(),
		"simultaneous": {
			NewProcess(5, "", 0, 3, nil),
			NewProcess(2, "", 0, 3, IntPtr(1)),
			NewProcess(8, "", 0, 1, IntPtr(1)),
		},
	}
	for name, procs := range workloads {
		for _, policy := range AllPolicies() {
			t.Run(name+"/"+string(policy), func(t *testing.T) {
				res := mustRun(t, policy, procs, defaultOpts())
				require.NoError(t, ValidateTimeline(res.Timeline, procs))

				var busy int64
				for _, p := range res.Processes {
					assert.True(t, p.Completed)
					assert.Equal(t, StateCompleted, p.State)
					assert.Zero(t, p.RemainingTime)
					assert.Equal(t, p.CompletionTime-p.ArrivalTime, p.TurnaroundTime)
					assert.Equal(t, p.TurnaroundTime-p.BurstTime, p.WaitingTime)
					assert.GreaterOrEqual(t, p.WaitingTime, int64(0))
					assert.GreaterOrEqual(t, p.ResponseTime, int64(0))
					assert.LessOrEqual(t, p.ResponseTime, p.WaitingTime)
					assert.LessOrEqual(t, p.CompletionTime, res.TotalTime)
					busy += p.BurstTime
				}
				assert.Equal(t, res.TotalTime-busy, res.IdleTime)
				if len(res.Timeline) > 0 {
					assert.Equal(t, res.TotalTime, res.Timeline[len(res.Timeline)-1].End)
				}
			})
		}
	}
}

func TestRun_NonPreemptivePoliciesNeverSplitABurst(t *testing.T) {
	for _, policy := range []Policy{PolicyFCFS, PolicySJF, PolicyPriorityNP} {
		res := mustRun(t, policy, textbookProcs(), defaultOpts())
		for _, p := range res.Processes {
			assert.Len(t, res.SegmentsFor(p.ID), 1, "%s split process %d", policy, p.ID)
		}
	}
}

func TestRun_TraceRecordsDecisions(t *testing.T) {
	opts := Options{Quantum: 2, TraceLevel: trace.TraceLevelDecisions}

	// GIVEN priority preemption on the textbook workload
	res := mustRun(t, PolicyPriorityP, textbookProcs(), opts)

	// THEN exactly one preemption is traced: P1 displaced by P2 at t=1
	require.NotNil(t, res.Trace)
	preempts := res.Trace.ByKind(trace.KindPreempt)
	require.Len(t, preempts, 1)
	assert.Equal(t, int64(1), preempts[0].Clock)
	assert.Equal(t, 1, preempts[0].ProcessID)
	require.NotNil(t, preempts[0].PreemptedBy)
	assert.Equal(t, 2, *preempts[0].PreemptedBy)
	assert.Len(t, res.Trace.ByKind(trace.KindComplete), 3)

	rr := mustRun(t, PolicyRoundRobin, textbookProcs(), opts)
	assert.Len(t, rr.Trace.ByKind(trace.KindQuantumExpired), 3)

	fcfs := mustRun(t, PolicyFCFS, textbookProcs(), opts)
	assert.Len(t, fcfs.Trace.ByKind(trace.KindDispatch), 3)
	assert.Empty(t, fcfs.Trace.ByKind(trace.KindPreempt))
}

func TestRun_TraceDisabledByDefault(t *testing.T) {
	res := mustRun(t, PolicySRTF, textbookProcs(), defaultOpts())
	assert.Nil(t, res.Trace)
}

func TestRun_TraceMatchesStepper(t *testing.T) {
	opts := Options{Quantum: 2, TraceLevel: trace.TraceLevelDecisions}
	workloads := map[string][]Process{
		"late single":     {NewProcess(1, "P1", 5, 2, nil)},
		"idle gaps":       idleGapProcs(),
		"textbook":        textbookProcs(),
		"arrival mid-run": {NewProcess(1, "P1", 0, 4, nil), NewProcess(2, "P2", 2, 1, nil), NewProcess(3, "P3", 8, 1, nil)},
	}
	for name, procs := range workloads {
		for _, policy := range AllPolicies() {
			t.Run(name+"/"+string(policy), func(t *testing.T) {
				// GIVEN the same input through both engines
				batch := mustRun(t, policy, procs, opts)
				s, _ := mustDrain(t, policy, procs, opts)
				stepped := s.Result()
				require.NotNil(t, batch.Trace)
				require.NotNil(t, stepped.Trace)

				// THEN the traces agree record for record
				assert.Equal(t, stepped.Trace.Decisions, batch.Trace.Decisions)
				assert.Equal(t, trace.Summarize(stepped.Trace), trace.Summarize(batch.Trace))
			})
		}
	}
}

func TestRun_TraceCountsEachIdleTick(t *testing.T) {
	opts := Options{TraceLevel: trace.TraceLevelDecisions}

	// GIVEN a single process arriving at t=5
	res := mustRun(t, PolicyFCFS, []Process{NewProcess(1, "P1", 5, 2, nil)}, opts)

	// THEN five idle ticks and one arrival are traced
	summary := trace.Summarize(res.Trace)
	assert.Equal(t, 5, summary.IdleTicks)
	assert.Equal(t, 1, summary.KindCounts[trace.KindArrival])
	idle := res.Trace.ByKind(trace.KindIdle)
	require.Len(t, idle, 5)
	for i, d := range idle {
		assert.Equal(t, int64(i), d.Clock)
		assert.Equal(t, trace.NoProcess, d.ProcessID)
	}
	arrivals := res.Trace.ByKind(trace.KindArrival)
	assert.Equal(t, int64(5), arrivals[0].Clock)
}

func TestRun_TracePreemptionByProcessZero(t *testing.T) {
	opts := Options{TraceLevel: trace.TraceLevelDecisions}

	// GIVEN P1 (priority 5) displaced by process 0 (priority 0) at t=1
	procs := []Process{
		NewProcess(1, "P1", 0, 3, IntPtr(5)),
		NewProcess(0, "P0", 1, 1, IntPtr(0)),
	}
	res := mustRun(t, PolicyPriorityP, procs, opts)

	// THEN the preemptor is recorded as process 0, not as absent
	preempts := res.Trace.ByKind(trace.KindPreempt)
	require.Len(t, preempts, 1)
	assert.Equal(t, 1, preempts[0].ProcessID)
	require.NotNil(t, preempts[0].PreemptedBy)
	assert.Equal(t, 0, *preempts[0].PreemptedBy)
}

func TestRun_HugeBurstCeilingSaturates(t *testing.T) {
	// GIVEN bursts whose scaled sum overflows int64
	procs := []Process{
		NewProcess(1, "P1", 0, math.MaxInt64/2, nil),
		NewProcess(2, "P2", 0, math.MaxInt64/2, nil),
	}

	// WHEN the default ceiling is derived
	ceiling := DefaultMaxTicks(procs)

	// THEN it saturates instead of wrapping negative, and a non-preemptive run completes
	assert.Equal(t, int64(math.MaxInt64), ceiling)
	res := mustRun(t, PolicyFCFS, procs, defaultOpts())
	assert.Equal(t, int64(math.MaxInt64/2)*2, res.TotalTime)
}
