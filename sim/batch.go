package sim

import (
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/cpu-sched-sim/sim/trace"
)

// Run executes policy over procs to completion and returns its summary.
// procs is read-only; the run works on a private deep copy.
func Run(policy Policy, procs []Process, opts Options) (*AlgorithmResult, error) {
	if err := validate(policy, procs, opts); err != nil {
		return nil, err
	}
	logrus.Infof("Starting %s run with %d processes (quantum=%d)", policy, len(procs), opts.Quantum)

	ws := newWorkingSet(procs)
	var (
		res *AlgorithmResult
		err error
	)
	if policy.Preemptive() || policy.UsesQuantum() {
		res, err = runTicked(policy, ws, opts)
	} else {
		res, err = runToCompletion(policy, ws, opts)
	}
	if err != nil {
		logrus.Warnf("%s run aborted: %v", policy, err)
		return nil, err
	}
	logrus.Infof("%s run complete at tick %d", policy, res.TotalTime)
	return res, nil
}

// runTicked drives the shared tick machine until every process completes.
func runTicked(policy Policy, ws []*Process, opts Options) (*AlgorithmResult, error) {
	m := newMachine(policy, ws, opts)
	var tb TimelineBuilder
	for !m.done() {
		out, err := m.step()
		if err != nil {
			return nil, err
		}
		if out.ran != nil {
			tb.Run(out.ran.ID, 1)
		} else {
			tb.Idle(1)
		}
	}
	return newAlgorithmResult(policy, ws, tb.Flush(), m.clock, m.trace), nil
}

// runToCompletion is the non-preemptive path: each selected process runs its
// whole burst in one atomic clock advance. The decision trace matches the
// tick machine record for record: arrivals at their own tick, one idle record
// per idle tick.
func runToCompletion(policy Policy, ws []*Process, opts Options) (*AlgorithmResult, error) {
	rule := NewSelectionRule(policy)
	maxTicks := opts.MaxTicks
	if maxTicks == 0 {
		maxTicks = defaultMaxTicks(ws)
	}
	var st *trace.SimulationTrace
	if opts.TraceLevel.Enabled() {
		st = trace.NewSimulationTrace(trace.TraceConfig{Level: opts.TraceLevel})
	}
	arrivals := newArrivalRecorder(ws, st)

	var (
		tb      TimelineBuilder
		clock   int64
		pending = len(ws)
	)
	for pending > 0 {
		arrivals.through(clock)
		next := Select(rule, readySet(ws, clock))
		if next == nil {
			// Nothing ready: idle forward to the earliest pending arrival.
			arrival := earliestPendingArrival(ws)
			if arrival <= clock || arrival > maxTicks {
				return nil, ceilingError(policy, clock, ws)
			}
			if st != nil {
				for t := clock; t < arrival; t++ {
					st.RecordDecision(trace.DecisionRecord{Clock: t, ProcessID: trace.NoProcess, Kind: trace.KindIdle})
				}
			}
			logrus.Debugf("[tick %04d] idle until %d", clock, arrival)
			tb.Idle(arrival - clock)
			clock = arrival
			continue
		}
		if next.RemainingTime > maxTicks-clock {
			return nil, ceilingError(policy, clock, ws)
		}
		st.RecordDecision(trace.DecisionRecord{Clock: clock, ProcessID: next.ID, Kind: trace.KindDispatch, Reason: string(policy)})
		logrus.Debugf("[tick %04d] %s runs to completion (burst=%d)", clock, next.Label(), next.BurstTime)
		tb.Run(next.ID, next.RemainingTime)
		clock = next.runToCompletion(clock)
		arrivals.through(clock - 1)
		pending--
		st.RecordDecision(trace.DecisionRecord{Clock: clock - 1, ProcessID: next.ID, Kind: trace.KindComplete,
			Reason: fmt.Sprintf("completion=%d", clock)})
	}
	return newAlgorithmResult(policy, ws, tb.Flush(), clock, st), nil
}

// arrivalRecorder emits KindArrival records in (arrival, id) order as the
// batch clock passes each arrival.
type arrivalRecorder struct {
	st        *trace.SimulationTrace
	byArrival []*Process
	next      int
}

func newArrivalRecorder(ws []*Process, st *trace.SimulationTrace) *arrivalRecorder {
	r := &arrivalRecorder{st: st}
	if st == nil {
		return r
	}
	r.byArrival = make([]*Process, len(ws))
	copy(r.byArrival, ws)
	sort.SliceStable(r.byArrival, func(i, j int) bool {
		return ArrivalOrderRule{}.Less(r.byArrival[i], r.byArrival[j])
	})
	return r
}

// through records every arrival at or before clock not yet recorded.
func (r *arrivalRecorder) through(clock int64) {
	for r.next < len(r.byArrival) && r.byArrival[r.next].ArrivalTime <= clock {
		p := r.byArrival[r.next]
		r.st.RecordDecision(trace.DecisionRecord{Clock: p.ArrivalTime, ProcessID: p.ID, Kind: trace.KindArrival})
		r.next++
	}
}

func earliestPendingArrival(ws []*Process) int64 {
	earliest := int64(-1)
	for _, p := range ws {
		if p.Completed {
			continue
		}
		if earliest < 0 || p.ArrivalTime < earliest {
			earliest = p.ArrivalTime
		}
	}
	return earliest
}
