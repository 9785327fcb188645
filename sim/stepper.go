package sim

import (
	"strings"

	"github.com/sirupsen/logrus"
)

// AllCompletedMessage narrates the terminal TickEvent.
const AllCompletedMessage = "all processes completed"

// TickEvent is the stepwise view of one simulated tick [Time, Time+1).
// The terminal event carries Time == total time and RunningID == NoProcess.
type TickEvent struct {
	Time          int64     `json:"time" yaml:"time"`
	RunningID     int       `json:"running_id" yaml:"running_id"` // NoProcess when idle
	ReadyQueueIDs []int     `json:"ready_queue_ids" yaml:"ready_queue_ids"`
	Processes     []Process `json:"processes" yaml:"processes"` // snapshot after the tick, with projected State
	Message       string    `json:"message,omitempty" yaml:"message,omitempty"`
}

// Idle reports whether no process held the CPU during the tick.
func (e TickEvent) Idle() bool {
	return e.RunningID == NoProcess
}

// Stepper runs a policy one tick per Next call. It is a pull-based state
// object: it never sleeps, never spawns goroutines and holds no external
// resources, so a consumer may stop pulling at any time.
type Stepper struct {
	policy   Policy
	m        *machine
	timeline TimelineBuilder
	terminal *TickEvent
	err      error
}

// NewStepper validates the input and prepares a private working set.
func NewStepper(policy Policy, procs []Process, opts Options) (*Stepper, error) {
	if err := validate(policy, procs, opts); err != nil {
		return nil, err
	}
	return &Stepper{
		policy: policy,
		m:      newMachine(policy, newWorkingSet(procs), opts),
	}, nil
}

// Next advances one tick and returns its event. After the last tick it
// returns the terminal event with done == true; further calls repeat it.
func (s *Stepper) Next() (TickEvent, bool, error) {
	if s.err != nil {
		return TickEvent{}, true, s.err
	}
	if s.terminal != nil {
		return *s.terminal, true, nil
	}
	if s.m.done() {
		ev := s.event(s.m.clock, nil, AllCompletedMessage)
		s.terminal = &ev
		logrus.Debugf("[tick %04d] %s", ev.Time, AllCompletedMessage)
		return ev, true, nil
	}

	out, err := s.m.step()
	if err != nil {
		s.err = err
		logrus.Warnf("%s stepper aborted: %v", s.policy, err)
		return TickEvent{}, true, err
	}
	if out.ran != nil {
		s.timeline.Run(out.ran.ID, 1)
	} else {
		s.timeline.Idle(1)
	}
	return s.event(out.clock, out.ran, strings.Join(out.notes, "; ")), false, nil
}

// Drain pulls every remaining event, terminal event included.
func (s *Stepper) Drain() ([]TickEvent, error) {
	var events []TickEvent
	for {
		ev, done, err := s.Next()
		if err != nil {
			return events, err
		}
		events = append(events, ev)
		if done {
			return events, nil
		}
	}
}

// Done reports whether the terminal event has been produced.
func (s *Stepper) Done() bool {
	return s.terminal != nil
}

// Clock returns the next tick to be simulated.
func (s *Stepper) Clock() int64 {
	return s.m.clock
}

// Result summarizes the run once the terminal event has been produced.
// Returns nil before that.
func (s *Stepper) Result() *AlgorithmResult {
	if s.terminal == nil {
		return nil
	}
	return newAlgorithmResult(s.policy, s.m.procs, s.timeline.Flush(), s.m.clock, s.m.trace)
}

func (s *Stepper) event(clock int64, ran *Process, message string) TickEvent {
	runningID := NoProcess
	if ran != nil {
		runningID = ran.ID
	}
	ready := s.m.readyIDs(clock, ran)
	queued := make(map[int]bool, len(ready))
	for _, id := range ready {
		queued[id] = true
	}
	procs := snapshot(s.m.procs)
	for i := range procs {
		procs[i].State = ProjectState(procs[i], clock, runningID, queued)
	}
	return TickEvent{
		Time:          clock,
		RunningID:     runningID,
		ReadyQueueIDs: ready,
		Processes:     procs,
		Message:       message,
	}
}
