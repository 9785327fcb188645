package sim

import (
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/cpu-sched-sim/sim/trace"
)

// machine advances one policy one tick at a time over a private working set.
// It is the single definition of the per-tick transitions shared by the
// Stepper and by the batch paths for preemptive and Round Robin policies.
type machine struct {
	policy   Policy
	rule     SelectionRule
	quantum  int
	maxTicks int64

	procs     []*Process // working set, input order
	byArrival []*Process // working set ordered by (arrival, id)
	nextIdx   int        // first entry of byArrival not yet arrived

	clock   int64
	running *Process // holder of the CPU; may be completed until retired
	slice   int      // ticks used by running in its current dispatch (Round Robin)
	queue   ReadyQueue
	pending int // unfinished processes

	trace *trace.SimulationTrace
}

// tickOutcome describes what happened during one tick.
type tickOutcome struct {
	clock int64
	ran   *Process // nil when idle
	notes []string
}

func newMachine(policy Policy, ws []*Process, opts Options) *machine {
	m := &machine{
		policy:   policy,
		rule:     NewSelectionRule(policy),
		quantum:  opts.Quantum,
		maxTicks: opts.MaxTicks,
		procs:    ws,
		pending:  len(ws),
	}
	if m.maxTicks == 0 {
		m.maxTicks = defaultMaxTicks(ws)
	}
	if opts.TraceLevel.Enabled() {
		m.trace = trace.NewSimulationTrace(trace.TraceConfig{Level: opts.TraceLevel})
	}
	m.byArrival = make([]*Process, len(ws))
	copy(m.byArrival, ws)
	sort.SliceStable(m.byArrival, func(i, j int) bool {
		return ArrivalOrderRule{}.Less(m.byArrival[i], m.byArrival[j])
	})
	return m
}

func (m *machine) done() bool {
	return m.pending == 0
}

// arrivals pops every process arriving exactly at the current clock, by ID.
func (m *machine) arrivals() []*Process {
	var out []*Process
	for m.nextIdx < len(m.byArrival) && m.byArrival[m.nextIdx].ArrivalTime <= m.clock {
		out = append(out, m.byArrival[m.nextIdx])
		m.nextIdx++
	}
	return out
}

// step simulates tick [clock, clock+1).
func (m *machine) step() (tickOutcome, error) {
	if m.clock >= m.maxTicks {
		return tickOutcome{}, ceilingError(m.policy, m.clock, m.procs)
	}
	out := tickOutcome{clock: m.clock}
	arrived := m.arrivals()
	for _, p := range arrived {
		out.notes = append(out.notes, fmt.Sprintf("%s arrived", p.Label()))
		m.record(p.ID, trace.KindArrival, "")
	}

	switch {
	case m.policy == PolicyRoundRobin:
		m.rotate(arrived, &out)
	case m.policy.Preemptive():
		m.reselect(&out)
	default:
		m.holdOrSelect(&out)
	}

	if m.running == nil || m.running.Completed {
		m.running = nil
		out.notes = append(out.notes, "CPU idle")
		m.record(NoProcess, trace.KindIdle, "")
		logrus.Debugf("[tick %04d] idle", m.clock)
	} else {
		p := m.running
		p.execute(m.clock)
		m.slice++
		out.ran = p
		logrus.Debugf("[tick %04d] %s runs (remaining=%d)", m.clock, p.Label(), p.RemainingTime)
		if p.Completed {
			m.pending--
			out.notes = append(out.notes, fmt.Sprintf("%s completed", p.Label()))
			m.record(p.ID, trace.KindComplete, fmt.Sprintf("completion=%d", p.CompletionTime))
		}
	}
	m.clock++
	return out, nil
}

// rotate applies the Round Robin phases in fixed order:
// retire, enqueue arrivals, dispatch.
func (m *machine) rotate(arrived []*Process, out *tickOutcome) {
	if r := m.running; r != nil {
		switch {
		case r.Completed:
			m.running = nil
		case m.slice >= m.quantum:
			out.notes = append(out.notes, fmt.Sprintf("%s quantum expired", r.Label()))
			m.record(r.ID, trace.KindQuantumExpired, fmt.Sprintf("quantum=%d", m.quantum))
			m.queue.mustNotContain(r)
			m.queue.Enqueue(r)
			m.running = nil
		}
	}
	for _, p := range arrived {
		m.queue.mustNotContain(p)
		m.queue.Enqueue(p)
	}
	if m.running == nil {
		if next := m.queue.Dequeue(); next != nil {
			m.dispatch(next, out, "front of ready queue")
		}
	}
	if logrus.IsLevelEnabled(logrus.DebugLevel) {
		logrus.Debugf("[tick %04d] ready queue %s", m.clock, m.queue.String())
	}
}

// reselect re-runs selection every tick; a different winner preempts the runner.
func (m *machine) reselect(out *tickOutcome) {
	winner := Select(m.rule, readySet(m.procs, m.clock))
	if winner == m.running {
		return
	}
	if r := m.running; r != nil && !r.Completed && winner != nil {
		out.notes = append(out.notes, fmt.Sprintf("%s preempted by %s", r.Label(), winner.Label()))
		by := winner.ID
		m.trace.RecordDecision(trace.DecisionRecord{
			Clock: m.clock, ProcessID: r.ID, Kind: trace.KindPreempt, PreemptedBy: &by,
		})
	}
	m.running = nil
	if winner != nil {
		m.dispatch(winner, out, string(m.policy))
	}
}

// holdOrSelect keeps the runner until it completes, then selects the next one.
func (m *machine) holdOrSelect(out *tickOutcome) {
	if r := m.running; r != nil && !r.Completed {
		return
	}
	m.running = nil
	if winner := Select(m.rule, readySet(m.procs, m.clock)); winner != nil {
		m.dispatch(winner, out, string(m.policy))
	}
}

func (m *machine) dispatch(p *Process, out *tickOutcome, reason string) {
	m.running = p
	m.slice = 0
	out.notes = append(out.notes, fmt.Sprintf("%s dispatched", p.Label()))
	m.record(p.ID, trace.KindDispatch, reason)
}

func (m *machine) record(id int, kind trace.DecisionKind, reason string) {
	m.trace.RecordDecision(trace.DecisionRecord{Clock: m.clock, ProcessID: id, Kind: kind, Reason: reason})
}

// readyIDs returns the waiting processes in display order after the tick.
// Round Robin reports its queue; other policies report the ready set ordered
// by their selection rule, excluding the runner.
func (m *machine) readyIDs(clock int64, ran *Process) []int {
	if m.policy == PolicyRoundRobin {
		return m.queue.IDs()
	}
	ready := readySet(m.procs, clock)
	waiting := ready[:0]
	for _, p := range ready {
		if p != ran {
			waiting = append(waiting, p)
		}
	}
	OrderReady(m.rule, waiting)
	ids := make([]int, len(waiting))
	for i, p := range waiting {
		ids[i] = p.ID
	}
	return ids
}
